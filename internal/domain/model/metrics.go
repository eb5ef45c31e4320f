// Package model contains domain models passed between layers.
package model

import "strings"

// PitchType is the pitch category reported by the tracking unit.
type PitchType string

// Known pitch types.
const (
	FourSeamFastball PitchType = "Four-Seam Fastball"
	TwoSeamFastball  PitchType = "Two-Seam Fastball"
	Sinker           PitchType = "Sinker"
	Cutter           PitchType = "Cutter"
	Slider           PitchType = "Slider"
	Curveball        PitchType = "Curveball"
	Changeup         PitchType = "Changeup"
	Splitter         PitchType = "Splitter"
	Sweeper          PitchType = "Sweeper"
	OtherPitch       PitchType = "Other"
)

// PitchTypes lists every accepted pitch type in display order.
func PitchTypes() []PitchType {
	return []PitchType{
		FourSeamFastball, TwoSeamFastball, Sinker, Cutter, Slider,
		Curveball, Changeup, Splitter, Sweeper, OtherPitch,
	}
}

// Valid reports whether p is one of the known pitch types.
func (p PitchType) Valid() bool {
	for _, known := range PitchTypes() {
		if p == known {
			return true
		}
	}
	return false
}

// IsFastball reports whether p is a fastball variant.
func (p PitchType) IsFastball() bool {
	return p == FourSeamFastball || strings.Contains(string(p), "Fastball")
}

// PitchingMetrics is one tracked pitch. Optional readings are nil when the
// unit did not report them.
type PitchingMetrics struct {
	Velocity        float64   `json:"velocity"`                   // mph
	TotalSpin       *float64  `json:"total_spin,omitempty"`       // rpm
	PitchType       PitchType `json:"pitch_type"`                 //
	TrueSpinRate    *float64  `json:"true_spin_rate,omitempty"`   // rpm
	SpinDirection   *float64  `json:"spin_direction,omitempty"`   // degrees, 0-360
	GyroDegree      *float64  `json:"gyro_degree,omitempty"`      // degrees, 0-90
	SpinEfficiency  *float64  `json:"spin_efficiency,omitempty"`  // percent, 0-100
	ReleaseHeight   *float64  `json:"release_height,omitempty"`   // ft
	HorizontalBreak *float64  `json:"horizontal_break,omitempty"` // inches, + to arm side
	VerticalBreak   *float64  `json:"vertical_break,omitempty"`   // inches, + is ride
}

// HittingMetrics is one tracked batted ball.
type HittingMetrics struct {
	ExitVelocity  float64  `json:"exit_velocity"`            // mph
	Distance      float64  `json:"distance"`                 // ft
	LaunchAngle   float64  `json:"launch_angle"`             // degrees
	ExitDirection *float64 `json:"exit_direction,omitempty"` // degrees, pull is negative
	TotalSpin     *float64 `json:"total_spin,omitempty"`     // rpm
	SpinDirection *float64 `json:"spin_direction,omitempty"` // degrees
}

// Float returns a pointer to v. It keeps optional readings terse in callers.
func Float(v float64) *float64 { return &v }
