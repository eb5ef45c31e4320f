package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run executes a complete smoke run against config.BaseURL. It returns the
// run statistics and ErrFailures when any sample did not verify.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("smoke")
	stats := &Stats{
		StartTime:  time.Now(),
		ByMode:     make(map[lesson.Mode]int),
		FlagCounts: make(map[string]int),
	}

	log.Info(ctx, "starting lesson smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("samples", config.Samples),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("seed", config.Seed),
	)

	client := NewHTTPClient(config.BaseURL, config.Timeout)
	defer client.CloseIdle()

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	samples := NewGenerator(config.Seed).Generate(config.Samples)
	stats.Generated = len(samples)

	var (
		submitted atomic.Int64
		mu        sync.Mutex
	)
	record := func(s Sample, res lesson.Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			stats.Failed++
			if len(stats.Failures) < maxReportedFailures {
				stats.Failures = append(stats.Failures, fmt.Sprintf("%s %s: %v", s.Mode, s.ID, err))
			}
			return
		}
		stats.Passed++
		stats.ByMode[s.Mode]++
		if res.MetricFlags.Len() == 0 {
			stats.Fallback++
		} else {
			stats.Flagged++
		}
		for _, k := range res.MetricFlags.Keys() {
			stats.FlagCounts[string(s.Mode)+"/"+k]++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for _, s := range samples {
		g.Go(func() error {
			submitted.Add(1)
			res, err := submit(gctx, client, s)
			if config.Verbose {
				log.Info(gctx, "sample checked",
					logger.String("id", s.ID),
					logger.String("mode", string(s.Mode)),
					logger.Int("flags", res.MetricFlags.Len()),
					logger.Bool("ok", err == nil),
				)
			}
			record(s, res, err)
			// Only a cancelled run stops the group; sample failures are counted.
			return gctx.Err()
		})
	}
	runErr := g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if runErr != nil {
		return stats, fmt.Errorf("smoke run interrupted: %w", runErr)
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d samples", ErrFailures, stats.Failed, stats.Submitted)
	}
	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

func submit(ctx context.Context, client *HTTPClient, s Sample) (lesson.Result, error) {
	status, body, err := client.Post(ctx, s.Path(), s.ID, s.Body())
	if err != nil {
		return lesson.Result{}, err
	}
	if status != http.StatusOK {
		return lesson.Result{}, fmt.Errorf("%w: %d: %s", ErrStatus, status, body)
	}
	return Verify(s, body)
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, body, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUnhealthy, status, body)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var samplesPerSecond float64
	if stats.Duration > 0 {
		samplesPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int("flagged", stats.Flagged),
		logger.Int("fallback", stats.Fallback),
		logger.Int("pitching", stats.ByMode[lesson.ModePitching]),
		logger.Int("hitting", stats.ByMode[lesson.ModeHitting]),
		logger.Any("flagCounts", stats.FlagCounts),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("samplesPerSecond", samplesPerSecond),
	)
	for _, f := range stats.Failures {
		log.Warn(ctx, "sample failed", logger.String("detail", f))
	}
}
