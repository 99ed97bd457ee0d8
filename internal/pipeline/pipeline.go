// Package pipeline wires the chat stages into one request flow: intent
// detection, filter extraction, query compilation, listing selection and
// response synthesis.
package pipeline

import (
	"context"
	"time"

	"propertychat/internal/common/config"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/genai"
	"propertychat/internal/models"
	buildquery "propertychat/internal/pipeline/build-query"
	detectintent "propertychat/internal/pipeline/detect-intent"
	extractfilters "propertychat/internal/pipeline/extract-filters"
	selectlistings "propertychat/internal/pipeline/select-listings"
	synthesizeresponse "propertychat/internal/pipeline/synthesize-response"
	"propertychat/internal/store"
)

// generalSuggestions are the canned follow-up queries attached to every
// general-chat response.
var generalSuggestions = []string{
	"3 bedroom villa in Downtown Dubai",
	"Affordable apartments under 1 crore",
	"Luxury penthouses with sea view",
	"Ready to move properties in Damac Hills",
}

type Pipeline struct {
	confidenceMin float64
	company       models.CompanyInfo

	detect     *detectintent.Handler
	extract    *extractfilters.Handler
	build      *buildquery.Handler
	selector   *selectlistings.Handler
	synthesize *synthesizeresponse.Handler

	logger logger.Logger
}

// New assembles the pipeline from application config. The completion timeout
// from config overrides the model-calling stages' default timeouts, so every
// individual model call is bounded by it.
func New(cfg *config.Config, completer genai.Completer, st store.ListingStore, log logger.Logger) *Pipeline {
	company := models.CompanyInfo{
		Name:   cfg.Company.Name,
		Office: cfg.Company.Office,
		Phone:  cfg.Company.Phone,
		Email:  cfg.Company.Email,
	}

	completionTimeout := cfg.GenAI.TimeoutDuration()

	detectCfg := detectintent.LoadConfig()
	extractCfg := extractfilters.LoadConfig()
	if completionTimeout > 0 {
		detectCfg.Timeout = completionTimeout
		extractCfg.Timeout = completionTimeout
	}

	selectCfg := selectlistings.LoadConfig()
	selectCfg.FetchLimit = cfg.Search.FetchLimit
	selectCfg.ShowLimit = cfg.Search.ShowLimit

	synthCfg := synthesizeresponse.LoadConfig()
	synthCfg.DetailLimit = cfg.Search.DetailLimit
	synthCfg.Company = company
	if completionTimeout > 0 {
		synthCfg.Timeout = completionTimeout
	}

	return &Pipeline{
		confidenceMin: cfg.Search.ConfidenceMin,
		company:       company,
		detect:        detectintent.NewHandler(detectCfg, completer, log),
		extract:       extractfilters.NewHandler(extractCfg, completer, log),
		build:         buildquery.NewHandler(log),
		selector:      selectlistings.NewHandler(selectCfg, st, log),
		synthesize:    synthesizeresponse.NewHandler(synthCfg, completer, log),
		logger:        log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// Handle runs one chat query through the pipeline. Only a record-store
// failure returns an error; every other stage degrades to its fallback and
// the response is still produced.
func (p *Pipeline) Handle(ctx context.Context, query string) (*models.ChatResponse, error) {
	// The detect stage logs the classification; only routing happens here.
	intent := p.detect.Execute(ctx, &detectintent.Input{Query: query})

	p.logger.Debug("routing query", map[string]interface{}{
		"intent":     string(intent.Result.Intent),
		"confidence": intent.Result.Confidence,
	})

	switch {
	case intent.Result.Intent == models.IntentPropertySearch && intent.Result.Confidence > p.confidenceMin:
		return p.handlePropertySearch(ctx, query)
	case intent.Result.Intent == models.IntentCompanyInfo:
		return p.handleCompanyInfo(ctx, query), nil
	default:
		// Low-confidence property searches are handled as chat rather than
		// running a search the classifier itself doubts.
		return p.handleGeneralChat(ctx, query), nil
	}
}

func (p *Pipeline) handlePropertySearch(ctx context.Context, query string) (*models.ChatResponse, error) {
	extracted := p.extract.Execute(ctx, &extractfilters.Input{Query: query})

	compiled := p.build.Execute(ctx, &buildquery.Input{
		Query:   query,
		Filters: extracted.Filters,
	})

	selected, err := p.selector.Execute(ctx, &selectlistings.Input{Query: compiled.Query})
	if err != nil {
		return nil, err
	}

	message := p.synthesize.Execute(ctx, &synthesizeresponse.Input{
		Query:      query,
		Intent:     models.IntentPropertySearch,
		Filters:    extracted.Filters,
		Listings:   selected.Listings,
		TotalFound: selected.TotalFound,
	})

	metrics.ChatRequests.WithLabelValues(string(models.IntentPropertySearch)).Inc()
	return &models.ChatResponse{
		Success: true,
		Intent:  models.IntentPropertySearch,
		Message: message.Message,
		SearchSummary: &models.SearchSummary{
			Query:          query,
			FiltersApplied: extracted.Filters,
			TotalFound:     selected.TotalFound,
			Showing:        len(selected.Listings),
		},
		Properties: selected.Listings,
		Metadata: &models.SearchMetadata{
			SortApplied:  compiled.Query.Sort.Keys,
			ResponseTime: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (p *Pipeline) handleCompanyInfo(ctx context.Context, query string) *models.ChatResponse {
	message := p.synthesize.Execute(ctx, &synthesizeresponse.Input{
		Query:  query,
		Intent: models.IntentCompanyInfo,
	})

	company := p.company
	metrics.ChatRequests.WithLabelValues(string(models.IntentCompanyInfo)).Inc()
	return &models.ChatResponse{
		Success:     true,
		Intent:      models.IntentCompanyInfo,
		Message:     message.Message,
		CompanyInfo: &company,
	}
}

func (p *Pipeline) handleGeneralChat(ctx context.Context, query string) *models.ChatResponse {
	message := p.synthesize.Execute(ctx, &synthesizeresponse.Input{
		Query:  query,
		Intent: models.IntentGeneralChat,
	})

	metrics.ChatRequests.WithLabelValues(string(models.IntentGeneralChat)).Inc()
	return &models.ChatResponse{
		Success:     true,
		Intent:      models.IntentGeneralChat,
		Message:     message.Message,
		Suggestions: generalSuggestions,
	}
}
