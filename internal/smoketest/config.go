// Package smoketest drives a running lesson service with generated samples
// and checks every response against a local evaluation.
package smoketest

import (
	"fmt"
	"time"

	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
)

// Defaults used by the CLI flags.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultSamples = 200
	DefaultWorkers = 8
	DefaultTimeout = 10 * time.Second
	DefaultSeed    = 1

	maxReportedFailures = 10
)

// Config holds configuration for one smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Samples int           // Number of samples to generate
	Workers int           // Number of concurrent requests
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Generator seed
	Verbose bool          // Log every sample
}

// Validate checks the run configuration.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.Samples <= 0:
		return fmt.Errorf("%w: samples must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Sample is one generated request. Exactly one of Pitching and Hitting is set.
type Sample struct {
	ID       string                 `json:"id"`
	Mode     lesson.Mode            `json:"mode"`
	Pitching *model.PitchingMetrics `json:"pitching,omitempty"`
	Hitting  *model.HittingMetrics  `json:"hitting,omitempty"`
}

// Path returns the endpoint the sample is posted to.
func (s Sample) Path() string {
	return "/lesson/" + string(s.Mode)
}

// Body returns the request payload.
func (s Sample) Body() any {
	if s.Mode == lesson.ModePitching {
		return s.Pitching
	}
	return s.Hitting
}

// Expected evaluates the sample locally.
func (s Sample) Expected() lesson.Result {
	if s.Mode == lesson.ModePitching {
		return lesson.Pitching(*s.Pitching)
	}
	return lesson.Hitting(*s.Hitting)
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Passed     int
	Failed     int
	Flagged    int
	Fallback   int
	Failures   []string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	ByMode     map[lesson.Mode]int
	FlagCounts map[string]int
}
