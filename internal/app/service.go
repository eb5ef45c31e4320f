// Package service provides the lesson service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
	"github.com/okian/lessongen/pkg/logger"
	"github.com/okian/lessongen/pkg/metrics"
)

// Recorder receives per-lesson measurements.
type Recorder interface {
	RecordLesson(mode string, flaggedMetrics []string, seconds float64)
	RecordValidationFailure(mode string)
}

// globalRecorder forwards to the process-wide metrics registry.
type globalRecorder struct{}

func (globalRecorder) RecordLesson(mode string, flagged []string, seconds float64) {
	metrics.RecordLesson(mode, flagged, seconds)
}

func (globalRecorder) RecordValidationFailure(mode string) { metrics.RecordValidationFailure(mode) }

// modeStats counts outcomes for one mode.
type modeStats struct {
	served   atomic.Int64
	flagged  atomic.Int64
	rejected atomic.Int64
}

func (m *modeStats) snapshot() map[string]interface{} {
	served := m.served.Load()
	flagged := m.flagged.Load()
	return map[string]interface{}{
		"served":   served,
		"flagged":  flagged,
		"clean":    served - flagged,
		"rejected": m.rejected.Load(),
	}
}

// Service validates metrics records and runs the lesson evaluators.
// Evaluations share no state; only the counters behind GetStats are shared.
type Service struct {
	logger   logger.Logger
	recorder Recorder
	now      func() time.Time
	started  time.Time

	pitching modeStats
	hitting  modeStats
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder replaces the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the time source used for latency and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Without WithLogger it uses the global logger,
// which must already be initialized.
func New(opts ...Option) *Service {
	s := &Service{
		recorder: globalRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("lesson")
	s.started = s.now()
	return s
}

// Pitching validates in and returns its pitching lesson.
func (s *Service) Pitching(ctx context.Context, in model.PitchingMetrics) (lesson.Result, error) {
	if err := in.Validate(); err != nil {
		return lesson.Result{}, s.reject(ctx, lesson.ModePitching, &s.pitching, err)
	}
	start := s.now()
	res := lesson.Pitching(in)
	s.observe(ctx, &s.pitching, res, start,
		logger.String("pitch_type", string(in.PitchType)),
		logger.Float64("velocity", in.Velocity),
	)
	return res, nil
}

// Hitting validates in and returns its hitting lesson.
func (s *Service) Hitting(ctx context.Context, in model.HittingMetrics) (lesson.Result, error) {
	if err := in.Validate(); err != nil {
		return lesson.Result{}, s.reject(ctx, lesson.ModeHitting, &s.hitting, err)
	}
	start := s.now()
	res := lesson.Hitting(in)
	s.observe(ctx, &s.hitting, res, start,
		logger.Float64("exit_velocity", in.ExitVelocity),
		logger.Float64("launch_angle", in.LaunchAngle),
	)
	return res, nil
}

func (s *Service) reject(ctx context.Context, mode lesson.Mode, st *modeStats, err error) error {
	st.rejected.Add(1)
	s.recorder.RecordValidationFailure(string(mode))
	s.logger.Debug(ctx, "rejected metrics record",
		logger.String("mode", string(mode)),
		logger.Error(err),
	)
	if !errors.Is(err, model.ErrInvalidInput) {
		return errors.Join(model.ErrInvalidInput, err)
	}
	return err
}

func (s *Service) observe(ctx context.Context, st *modeStats, res lesson.Result, start time.Time, fields ...logger.Field) {
	elapsed := s.now().Sub(start)
	flagged := res.MetricFlags.Keys()
	st.served.Add(1)
	if len(flagged) > 0 {
		st.flagged.Add(1)
	}
	s.recorder.RecordLesson(string(res.Mode), flagged, elapsed.Seconds())

	fields = append(fields,
		logger.String("mode", string(res.Mode)),
		logger.Int("flags", len(flagged)),
		logger.Int("drills", len(res.Drills)),
	)
	s.logger.Debug(ctx, "lesson generated", fields...)
}

// GetStats returns counters for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"pitching":      s.pitching.snapshot(),
		"hitting":       s.hitting.snapshot(),
		"uptimeSeconds": int64(s.now().Sub(s.started).Seconds()),
	}
}
