// internal/pipeline/select-listings/config.go
package selectlistings

import "time"

type Config struct {
	Timeout time.Duration
	// FetchLimit caps how many rows are pulled from the store per search.
	FetchLimit int
	// ShowLimit caps how many listings the response carries.
	ShowLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		FetchLimit: 500,
		ShowLimit:  20,
	}
}
