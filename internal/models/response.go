package models

// CompanyInfo is the static contact block returned for company_info intents.
type CompanyInfo struct {
	Name   string `json:"name"`
	Office string `json:"office"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// SearchSummary reports what a property search did with the user's query.
type SearchSummary struct {
	Query          string       `json:"query"`
	FiltersApplied FilterRecord `json:"filters_applied"`
	TotalFound     int          `json:"total_found"`
	Showing        int          `json:"showing"`
}

// SearchMetadata carries the machine-readable details of a search response.
type SearchMetadata struct {
	SortApplied  []SortKey `json:"sort_applied"`
	ResponseTime string    `json:"response_time"`
}

// ChatResponse is the tagged union returned by the pipeline, keyed by Intent.
// PropertySearch responses carry the summary, listings and metadata;
// CompanyInfo carries the contact block; GeneralChat carries suggestions.
type ChatResponse struct {
	Success       bool            `json:"success"`
	Intent        QueryIntent     `json:"intent"`
	Message       string          `json:"message"`
	SearchSummary *SearchSummary  `json:"search_summary,omitempty"`
	Properties    []Listing       `json:"properties,omitempty"`
	CompanyInfo   *CompanyInfo    `json:"company_info,omitempty"`
	Suggestions   []string        `json:"suggestions,omitempty"`
	Metadata      *SearchMetadata `json:"metadata,omitempty"`
}
