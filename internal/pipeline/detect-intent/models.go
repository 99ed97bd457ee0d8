// internal/pipeline/detect-intent/models.go
package detectintent

import "propertychat/internal/models"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Result models.IntentResult `json:"result"`
}
