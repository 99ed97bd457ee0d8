// Package elasticsearch implements the listing store on Elasticsearch.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	stderrors "propertychat/internal/common/errors"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
	"propertychat/internal/models"
)

type Store struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewStore(client *elasticsearch.Client, index string, log logger.Logger) *Store {
	return &Store{
		client: client,
		index:  index,
		logger: log.With(map[string]interface{}{"store": "elasticsearch"}),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Listing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs the compiled query as a bool filter and returns the ordered
// page of listings.
func (s *Store) Search(ctx context.Context, query *models.CompiledQuery, limit int) ([]models.Listing, error) {
	body, err := s.search(ctx, buildSearchBody(query), &limit)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.StoreQueries.WithLabelValues("elasticsearch", "error").Inc()
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeSearchQueryFailed, err.Error())
	}

	listings := make([]models.Listing, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		listings = append(listings, hit.Source)
	}

	metrics.StoreQueries.WithLabelValues("elasticsearch", "success").Inc()
	return listings, nil
}

type aggregationsResponse struct {
	Aggregations struct {
		Areas         bucketAgg `json:"areas"`
		Developers    bucketAgg `json:"developers"`
		PropertyTypes bucketAgg `json:"property_types"`
		Statuses      bucketAgg `json:"statuses"`
		Bedrooms      struct {
			Buckets []struct {
				Key float64 `json:"key"`
			} `json:"buckets"`
		} `json:"bedrooms"`
		MinPrice valueAgg `json:"min_price"`
		MaxPrice valueAgg `json:"max_price"`
	} `json:"aggregations"`
}

type bucketAgg struct {
	Buckets []struct {
		Key string `json:"key"`
	} `json:"buckets"`
}

type valueAgg struct {
	Value *float64 `json:"value"`
}

// FilterOptions aggregates distinct filter values in one request.
func (s *Store) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	body, err := s.search(ctx, buildFilterOptionsBody(), nil)
	if err != nil {
		return nil, err
	}

	var parsed aggregationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.StoreQueries.WithLabelValues("elasticsearch", "error").Inc()
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeSearchQueryFailed, err.Error())
	}

	opts := &models.FilterOptions{
		Areas:         bucketKeys(parsed.Aggregations.Areas),
		Developers:    bucketKeys(parsed.Aggregations.Developers),
		PropertyTypes: bucketKeys(parsed.Aggregations.PropertyTypes),
		Statuses:      bucketKeys(parsed.Aggregations.Statuses),
	}
	for _, b := range parsed.Aggregations.Bedrooms.Buckets {
		opts.BedroomOptions = append(opts.BedroomOptions, int(b.Key))
	}
	if parsed.Aggregations.MinPrice.Value != nil {
		opts.PriceRange.Min = *parsed.Aggregations.MinPrice.Value
	}
	if parsed.Aggregations.MaxPrice.Value != nil {
		opts.PriceRange.Max = *parsed.Aggregations.MaxPrice.Value
	}

	metrics.StoreQueries.WithLabelValues("elasticsearch", "success").Inc()
	return opts, nil
}

func bucketKeys(agg bucketAgg) []string {
	keys := make([]string, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		keys = append(keys, b.Key)
	}
	return keys
}

func (s *Store) search(ctx context.Context, body map[string]interface{}, size *int) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeSearchQueryFailed, err.Error())
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(encoded),
		Size:  size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		code := stderrors.ErrCodeSearchQueryFailed
		if ctx.Err() == context.DeadlineExceeded {
			code = stderrors.ErrCodeSearchTimeout
		}
		metrics.StoreQueries.WithLabelValues("elasticsearch", "error").Inc()
		s.logger.Error("search request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, stderrors.NewStoreQueryError(code, err.Error())
	}
	defer res.Body.Close()

	if res.IsError() {
		code := stderrors.ErrCodeSearchQueryFailed
		if res.StatusCode == http.StatusNotFound {
			code = stderrors.ErrCodeIndexNotFound
		}
		metrics.StoreQueries.WithLabelValues("elasticsearch", "error").Inc()
		return nil, stderrors.NewStoreQueryError(code, fmt.Sprintf("status %d", res.StatusCode))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		metrics.StoreQueries.WithLabelValues("elasticsearch", "error").Inc()
		return nil, stderrors.NewStoreQueryError(stderrors.ErrCodeSearchQueryFailed, err.Error())
	}
	return buf.Bytes(), nil
}
