package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertychat/internal/common/config"
	stderrors "propertychat/internal/common/errors"
	"propertychat/internal/common/logger"
	"propertychat/internal/models"
)

// scriptedCompleter returns canned responses in call order, so one fake can
// play the classifier, the extractor and the synthesizer in sequence.
type scriptedCompleter struct {
	responses []string
	errs      []error
	calls     int
	deadlines []time.Time
}

func (s *scriptedCompleter) Complete(ctx context.Context, _, _ string) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		s.deadlines = append(s.deadlines, deadline)
	}
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

type fakeStore struct {
	listings  []models.Listing
	err       error
	lastQuery *models.CompiledQuery
}

func (f *fakeStore) Search(_ context.Context, query *models.CompiledQuery, _ int) ([]models.Listing, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func (f *fakeStore) FilterOptions(context.Context) (*models.FilterOptions, error) {
	return &models.FilterOptions{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Search.FetchLimit = 500
	cfg.Search.ShowLimit = 20
	cfg.Search.DetailLimit = 3
	cfg.Search.ConfidenceMin = 0.7
	cfg.Company.Name = "roarrealty.ae"
	cfg.Company.Office = "1507, Al Manara Tower, Business Bay, Dubai, United Arab Emirates"
	cfg.Company.Phone = "+971 585005438"
	cfg.Company.Email = "anurag@roarrealty.ae"
	return cfg
}

func TestPipeline_PropertySearchEndToEnd(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"intent": "property_search", "confidence": 0.95, "reason": "specific property requirement"}`,
		`{"area": "Damac Hills", "property_type": "Villa", "bedrooms": 3}`,
		"Hi! I'm Shora. Golf Vista in Damac Hills looks like a great fit for you!",
	}}
	st := &fakeStore{listings: []models.Listing{
		{ID: "l-1", Name: "Golf Vista", Area: "Damac Hills", PropertyType: "Villa", Bedrooms: 3},
	}}
	p := New(testConfig(), completer, st, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "3 bedroom villa in Damac Hills")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, models.IntentPropertySearch, resp.Intent)
	assert.Contains(t, resp.Message, "Golf Vista")

	require.NotNil(t, resp.SearchSummary)
	assert.Equal(t, "3 bedroom villa in Damac Hills", resp.SearchSummary.Query)
	assert.Equal(t, 1, resp.SearchSummary.TotalFound)
	assert.Equal(t, 1, resp.SearchSummary.Showing)
	assert.Equal(t, "Damac Hills", resp.SearchSummary.FiltersApplied.Area)

	require.Len(t, resp.Properties, 1)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, []models.SortKey{{Field: "status"}, {Field: "min_price"}}, resp.Metadata.SortApplied)

	// three conditions: area contains, type contains, bedrooms equals
	require.NotNil(t, st.lastQuery)
	assert.Len(t, st.lastQuery.Conditions, 3)
}

func TestPipeline_LowConfidenceSearchHandledAsChat(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"intent": "property_search", "confidence": 0.7, "reason": "vague property mention"}`,
		"Hello! I'm Shora. What kind of property are you looking for?",
	}}
	st := &fakeStore{}
	p := New(testConfig(), completer, st, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "maybe something nice")

	require.NoError(t, err)
	assert.Equal(t, models.IntentGeneralChat, resp.Intent)
	assert.Equal(t, generalSuggestions, resp.Suggestions)
	assert.Nil(t, resp.SearchSummary)
	assert.Nil(t, st.lastQuery)
}

func TestPipeline_CompanyInfoAtAnyConfidence(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"intent": "company_info", "confidence": 0.4, "reason": "asking for contact"}`,
		"You can reach roarrealty.ae at our Business Bay office.",
	}}
	p := New(testConfig(), completer, &fakeStore{}, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "where is your office?")

	require.NoError(t, err)
	assert.Equal(t, models.IntentCompanyInfo, resp.Intent)
	require.NotNil(t, resp.CompanyInfo)
	assert.Equal(t, "+971 585005438", resp.CompanyInfo.Phone)
	assert.Empty(t, resp.Suggestions)
}

func TestPipeline_ClassifierDownDegradesToChat(t *testing.T) {
	completer := &scriptedCompleter{
		errs:      []error{errors.New("upstream 503"), errors.New("upstream 503")},
		responses: []string{"", ""},
	}
	p := New(testConfig(), completer, &fakeStore{}, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "3 bedroom villa in Damac Hills")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, models.IntentGeneralChat, resp.Intent)
	assert.NotEmpty(t, resp.Message)
}

func TestPipeline_StoreFailureSurfaces(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"intent": "property_search", "confidence": 0.9, "reason": "clear search"}`,
		`{"area": "JVC"}`,
	}}
	st := &fakeStore{err: stderrors.NewStoreQueryError(stderrors.ErrCodeQueryExecutionFailed, "connection reset")}
	p := New(testConfig(), completer, st, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "apartments in JVC")

	require.Error(t, err)
	assert.Nil(t, resp)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeQueryExecutionFailed, stdErr.Code)
}

func TestPipeline_CompletionTimeoutFromConfig(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{
		`{"intent": "general_chat", "confidence": 0.9, "reason": "greeting"}`,
		"Hello!",
	}}
	cfg := testConfig()
	cfg.GenAI.Timeout = 1000

	p := New(cfg, completer, &fakeStore{}, logger.NewNoOpLogger())
	before := time.Now()
	_, err := p.Handle(context.Background(), "hi")

	require.NoError(t, err)
	require.NotEmpty(t, completer.deadlines)
	for _, deadline := range completer.deadlines {
		assert.True(t, deadline.Before(before.Add(5*time.Second)),
			"model call deadline should come from genai.timeout, not the stage default")
	}
}

func TestPipeline_ExtractionDownStillSearches(t *testing.T) {
	completer := &scriptedCompleter{
		responses: []string{
			`{"intent": "property_search", "confidence": 0.9, "reason": "clear search"}`,
			"",
			"Here are today's top listings!",
		},
		errs: []error{nil, errors.New("upstream 503"), nil},
	}
	st := &fakeStore{listings: []models.Listing{{ID: "l-1", Name: "Marina Gate"}}}
	p := New(testConfig(), completer, st, logger.NewNoOpLogger())

	resp, err := p.Handle(context.Background(), "apartments in dubai")

	require.NoError(t, err)
	assert.Equal(t, models.IntentPropertySearch, resp.Intent)
	assert.True(t, resp.SearchSummary.FiltersApplied.IsEmpty())
	require.NotNil(t, st.lastQuery)
	assert.Empty(t, st.lastQuery.Conditions)
}
