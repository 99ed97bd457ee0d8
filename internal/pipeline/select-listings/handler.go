// internal/pipeline/select-listings/handler.go
package selectlistings

import (
	"context"
	"time"

	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/store"
)

const StageName = "select-listings"

type Handler struct {
	config *Config
	store  store.ListingStore
	logger logger.Logger
}

func NewHandler(config *Config, st store.ListingStore, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  st,
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute fetches matching listings and trims the visible page. This is the
// only stage that can fail the pipeline: a store error has no sensible
// fallback, so it surfaces to the caller as a retryable StandardError.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	listings, err := h.store.Search(ctx, &input.Query, h.config.FetchLimit)
	if err != nil {
		metrics.PipelineStageFallback.WithLabelValues(StageName, "STORE_FAILED").Inc()
		return nil, err
	}

	total := len(listings)
	if total > h.config.ShowLimit {
		listings = listings[:h.config.ShowLimit]
	}

	metrics.PipelineStageCompleted.WithLabelValues(StageName).Inc()
	h.logger.Info("listings selected", map[string]interface{}{
		"totalFound": total,
		"showing":    len(listings),
	})

	return &Output{Listings: listings, TotalFound: total}, nil
}
