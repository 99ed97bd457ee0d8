// internal/pipeline/detect-intent/handler.go
package detectintent

import (
	"context"
	"time"

	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/genai"
	"propertychat/internal/models"
)

const StageName = "detect-intent"

const classifyInstruction = `The user sent this message. Judge what the user's intent is. Respond with ONLY a JSON object:

{
  "intent": "property_search" or "general_chat" or "company_info",
  "confidence": confidence level on a 0.1 to 1.0 scale,
  "reason": "short explanation"
}

Intent types:
- "property_search": the user is looking for a property (villa, apartment, specific area, price, bedrooms, etc.)
- "company_info": the user is asking about the company or its contact details
- "general_chat": the user is just greeting or making general conversation

Examples:
"hi" -> {"intent": "general_chat", "confidence": 0.9, "reason": "simple greeting"}
"hello" -> {"intent": "general_chat", "confidence": 0.9, "reason": "greeting"}
"3 bedroom villa" -> {"intent": "property_search", "confidence": 0.95, "reason": "specific property requirement"}
"contact number" -> {"intent": "company_info", "confidence": 0.9, "reason": "asking for contact info"}
"your office" -> {"intent": "company_info", "confidence": 0.85, "reason": "asking about office location"}

Return ONLY the JSON.`

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

// defaultResult is returned whenever the completion service fails or its
// answer cannot be parsed. Classification is advisory, not authoritative:
// the request degrades to chat handling instead of failing.
func defaultResult() models.IntentResult {
	return models.IntentResult{
		Intent:     models.IntentGeneralChat,
		Confidence: 0.3,
		Reason:     "error in detection",
	}
}

// Execute classifies the query. It is total: every failure path yields the
// safe default instead of an error.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	raw, err := h.completer.Complete(ctx, classifyInstruction, input.Query)
	if err != nil {
		h.logger.Warn("intent detection failed, using default", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.PipelineStageFallback.WithLabelValues(StageName, "COMPLETION_FAILED").Inc()
		return &Output{Result: defaultResult()}
	}

	result, ok := parseIntentResponse(raw)
	if !ok {
		metrics.PipelineStageFallback.WithLabelValues(StageName, "PARSE_FAILED").Inc()
	} else {
		metrics.PipelineStageCompleted.WithLabelValues(StageName).Inc()
	}

	h.logger.Info("intent detected", map[string]interface{}{
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"reason":     result.Reason,
	})

	return &Output{Result: result}
}

// parseIntentResponse applies the documented defaults: a missing or unknown
// intent label yields the full default tuple (ok=false); a valid intent with
// a malformed or out-of-range confidence keeps the intent and gets 0.5.
func parseIntentResponse(raw string) (models.IntentResult, bool) {
	var parsed struct {
		Intent     string      `json:"intent"`
		Confidence interface{} `json:"confidence"`
		Reason     string      `json:"reason"`
	}

	if err := genai.DecodeFirstJSON(raw, &parsed); err != nil {
		return defaultResult(), false
	}

	intent := models.QueryIntent(parsed.Intent)
	if !intent.IsValid() {
		return defaultResult(), false
	}

	confidence := 0.5
	if c, ok := parsed.Confidence.(float64); ok && c >= 0 && c <= 1 {
		confidence = c
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "default classification"
	}

	return models.IntentResult{
		Intent:     intent,
		Confidence: confidence,
		Reason:     reason,
	}, true
}
