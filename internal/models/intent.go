package models

// QueryIntent is the closed set of purposes a user message can be classified
// into. The wire labels match what the classifier prompt asks the model for.
type QueryIntent string

const (
	IntentPropertySearch QueryIntent = "property_search"
	IntentCompanyInfo    QueryIntent = "company_info"
	IntentGeneralChat    QueryIntent = "general_chat"
)

// IsValid reports whether the label is one of the known intents.
func (i QueryIntent) IsValid() bool {
	switch i {
	case IntentPropertySearch, IntentCompanyInfo, IntentGeneralChat:
		return true
	}
	return false
}

// IntentResult is the classifier output. Confidence is in [0,1]; Reason is a
// short machine rationale kept for logging, never shown to the user.
type IntentResult struct {
	Intent     QueryIntent `json:"intent"`
	Confidence float64     `json:"confidence"`
	Reason     string      `json:"reason"`
}
