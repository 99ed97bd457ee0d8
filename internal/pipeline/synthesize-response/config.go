// internal/pipeline/synthesize-response/config.go
package synthesizeresponse

import (
	"time"

	"propertychat/internal/models"
)

type Config struct {
	Timeout time.Duration
	// DetailLimit caps how many listings the prompt describes in full.
	DetailLimit int
	Company     models.CompanyInfo
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		DetailLimit: 3,
	}
}
