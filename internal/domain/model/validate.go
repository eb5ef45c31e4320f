package model

import (
	"fmt"
	"math"
)

// Declared bounds for range-checked readings (inclusive).
const (
	minSpinDirection  = 0
	maxSpinDirection  = 360
	minGyroDegree     = 0
	maxGyroDegree     = 90
	minSpinEfficiency = 0
	maxSpinEfficiency = 100
)

// Validate checks the record before evaluation. The returned error matches
// ErrInvalidInput and carries ValidationErrors.
func (p PitchingMetrics) Validate() error {
	var errs ValidationErrors
	requireFinite(&errs, "velocity", p.Velocity)
	switch {
	case p.PitchType == "":
		errs = append(errs, FieldError{Field: "pitch_type", Reason: "is required"})
	case !p.PitchType.Valid():
		errs = append(errs, FieldError{Field: "pitch_type", Reason: fmt.Sprintf("unknown pitch type %q", p.PitchType)})
	}
	optionalFinite(&errs, "total_spin", p.TotalSpin)
	optionalFinite(&errs, "true_spin_rate", p.TrueSpinRate)
	optionalRange(&errs, "spin_direction", p.SpinDirection, minSpinDirection, maxSpinDirection)
	optionalRange(&errs, "gyro_degree", p.GyroDegree, minGyroDegree, maxGyroDegree)
	optionalRange(&errs, "spin_efficiency", p.SpinEfficiency, minSpinEfficiency, maxSpinEfficiency)
	optionalFinite(&errs, "release_height", p.ReleaseHeight)
	optionalFinite(&errs, "horizontal_break", p.HorizontalBreak)
	optionalFinite(&errs, "vertical_break", p.VerticalBreak)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the record before evaluation. Hitting readings carry no
// declared ranges, only the requirement that they are real numbers.
func (h HittingMetrics) Validate() error {
	var errs ValidationErrors
	requireFinite(&errs, "exit_velocity", h.ExitVelocity)
	requireFinite(&errs, "distance", h.Distance)
	requireFinite(&errs, "launch_angle", h.LaunchAngle)
	optionalFinite(&errs, "exit_direction", h.ExitDirection)
	optionalFinite(&errs, "total_spin", h.TotalSpin)
	optionalFinite(&errs, "spin_direction", h.SpinDirection)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func requireFinite(errs *ValidationErrors, field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		*errs = append(*errs, FieldError{Field: field, Reason: "must be a finite number"})
	}
}

func optionalFinite(errs *ValidationErrors, field string, v *float64) {
	if v != nil {
		requireFinite(errs, field, *v)
	}
}

func optionalRange(errs *ValidationErrors, field string, v *float64, lo, hi float64) {
	if v == nil {
		return
	}
	if math.IsNaN(*v) || *v < lo || *v > hi {
		*errs = append(*errs, FieldError{Field: field, Reason: fmt.Sprintf("must be between %g and %g", lo, hi)})
	}
}
