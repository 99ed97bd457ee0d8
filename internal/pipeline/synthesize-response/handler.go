// internal/pipeline/synthesize-response/handler.go
package synthesizeresponse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/genai"
	"propertychat/internal/models"
)

const StageName = "synthesize-response"

const propertyFallback = "Hi! I'm Shora from roarrealty.ae. I'm experiencing some technical difficulties right now, but I'm here to help you find your dream property. Please try your search again!"

const generalFallback = "Hello! I'm Shora from roarrealty.ae 👋 I'm here to help you find the perfect property in Dubai. What kind of property are you looking for today?"

type Handler struct {
	config    *Config
	completer genai.Completer
	logger    logger.Logger
}

func NewHandler(config *Config, completer genai.Completer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		completer: completer,
		logger:    log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute produces the conversational message for the response. Total: if
// the completion service is down, every branch degrades to its fixed
// narrative, so the caller still gets a coherent answer alongside the
// structured results.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var instruction, fallback string
	switch input.Intent {
	case models.IntentPropertySearch:
		instruction = h.propertyInstruction(input)
		fallback = propertyFallback
	case models.IntentCompanyInfo:
		instruction = h.companyInstruction(input.Query)
		fallback = h.companyFallback()
	default:
		instruction = generalInstruction(input.Query)
		fallback = generalFallback
	}

	message, err := h.completer.Complete(ctx, instruction, input.Query)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			h.logger.Warn("synthesis failed, using fixed narrative", map[string]interface{}{
				"intent": string(input.Intent),
				"error":  err.Error(),
			})
		}
		metrics.PipelineStageFallback.WithLabelValues(StageName, "SYNTHESIS_FAILED").Inc()
		return &Output{Message: fallback}
	}

	metrics.PipelineStageCompleted.WithLabelValues(StageName).Inc()
	return &Output{Message: strings.TrimSpace(message)}
}

func (h *Handler) propertyInstruction(input *Input) string {
	return fmt.Sprintf(`User query: %q
Applied filters: %s
Found: %d matching properties

You are Shora, the friendly AI assistant of roarrealty.ae. You help users with Dubai real estate.

Top matching properties:
%s

Generate a natural, helpful response in English that:
1. Greets warmly as Shora from roarrealty.ae
2. Acknowledges their search request
3. Tells how many properties were found
4. Highlights key details of the top 2-3 properties in a conversational way
5. If filters were applied, mentions them naturally
6. If no properties were found, suggests alternatives or asks for refined criteria
7. Offers to help with more specific searches
8. Keeps the tone friendly, professional, and helpful

Make the response feel natural and conversational, not like a list.`,
		input.Query, input.Filters.Describe(), input.TotalFound,
		renderListingDetails(input.Listings, h.config.DetailLimit))
}

// renderListingDetails formats the top listings for the synthesis prompt.
func renderListingDetails(listings []models.Listing, limit int) string {
	if len(listings) == 0 {
		return ""
	}
	if len(listings) > limit {
		listings = listings[:limit]
	}

	var b strings.Builder
	for i, l := range listings {
		fmt.Fprintf(&b, "\n%d. **%s**\n", i+1, l.Name)
		fmt.Fprintf(&b, "   📍 Location: %s\n", l.Area)
		fmt.Fprintf(&b, "   🏗️ Developer: %s\n", l.Developer)
		fmt.Fprintf(&b, "   🏠 Type: %s\n", orNotSpecified(l.PropertyType))
		fmt.Fprintf(&b, "   🛏️ Bedrooms: %s\n", intOrNotSpecified(l.Bedrooms))
		fmt.Fprintf(&b, "   🚿 Bathrooms: %s\n", intOrNotSpecified(l.Bathrooms))
		fmt.Fprintf(&b, "   💰 Price: AED %.0f - AED %.0f\n", l.MinPrice, l.MaxPrice)
		if l.AreaSqft > 0 {
			fmt.Fprintf(&b, "   📏 Area: %.0f sqft\n", l.AreaSqft)
		} else {
			b.WriteString("   📏 Area: Not specified\n")
		}
		fmt.Fprintf(&b, "   ✅ Status: %s\n", l.Status)
		fmt.Fprintf(&b, "   🏷️ Availability: %s\n", l.SaleStatus)
		if len(l.Amenities) > 0 {
			shown := l.Amenities
			suffix := ""
			if len(shown) > 3 {
				shown = shown[:3]
				suffix = "..."
			}
			fmt.Fprintf(&b, "   🏊 Amenities: %s%s\n", strings.Join(shown, ", "), suffix)
		}
	}
	return b.String()
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func intOrNotSpecified(n int) string {
	if n <= 0 {
		return "Not specified"
	}
	return fmt.Sprintf("%d", n)
}

func (h *Handler) companyInstruction(query string) string {
	c := h.config.Company
	return fmt.Sprintf(`The user asked about company information: %q

Company details:
- Name: %s
- Office: %s
- Phone: %s
- Email: %s

You are Shora, the company's AI assistant. Provide the company information in a friendly, professional way.

Generate a natural response with the relevant information they asked for.`,
		query, c.Name, c.Office, c.Phone, c.Email)
}

func (h *Handler) companyFallback() string {
	c := h.config.Company
	return fmt.Sprintf("Here's how to reach us:\n\n📍 Office: %s\n📞 Phone: %s\n✉️ Email: %s\n\nHow can I help you with your property search today?",
		c.Office, c.Phone, c.Email)
}

func generalInstruction(query string) string {
	return fmt.Sprintf(`The user sent this message: %q

You are Shora, the friendly AI assistant of roarrealty.ae, specializing in Dubai real estate.

Welcome the user warmly and encourage them to search for properties. Include in the response:

1. A friendly greeting as Shora from roarrealty.ae
2. Ask how you can help them find their dream property
3. Give examples of what they can search for (like "3 bedroom villa in Downtown Dubai" or "affordable apartments in Damac Hills")
4. Keep it warm, professional, and inviting

Generate a natural, conversational response in English.`, query)
}
