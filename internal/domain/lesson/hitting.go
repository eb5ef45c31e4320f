package lesson

import (
	"fmt"
	"math"

	"github.com/okian/lessongen/internal/domain/model"
)

const launchAngleTarget = "Optimal band ≈ 10–30°"

var (
	drillHighTee = Drill{
		Title: "High-Tee (Top-Half Contact)",
		Why:   "Flattens entry; reduces undercut.",
		Steps: []string{
			"Tee above belt; target hard line drives to CF.",
			"Cue: 'Match plane, not lift.'",
			"10× reps, then live flips; track LA on Rapsodo.",
		},
	}
	drillLowTee = Drill{
		Title: "Low-Tee Opposite Gap",
		Why:   "Encourages upward path without collapsing backside.",
		Steps: []string{
			"Tee below belt; aim oppo gap line drives (10–20°).",
			"Cue: 'Knob to inside bottom of ball.'",
			"Progress to flips; confirm LA shift.",
		},
	}
	drillWeightedBat = Drill{
		Title: "Over/Under Weighted-Bat Contrast",
		Why:   "Creates intent & bat-speed stimulus.",
		Steps: []string{
			"5 swings +10% bat weight; 5 swings -10%; 5 gamer.",
			"Track EV; rest :45 between sets.",
			"2–3 sets; keep mechanics tight.",
		},
	}
	drillDirectionLadder = Drill{
		Title: "3-Cone Direction Ladder",
		Why:   "Trains adjustable point-of-contact across the zone.",
		Steps: []string{
			"Set 3 visual lanes: pull/middle/oppo.",
			"Call lanes randomly; drive line drives to each.",
			"Record direction dispersion over 15–20 swings.",
		},
	}
	drillBarrelCentering = Drill{
		Title: "Barrel Centering (Sweet-Spot)",
		Why:   "Centered contact maximizes carry for given EV.",
		Steps: []string{
			"Use spray foot spray or marker on barrel.",
			"10–20 swings focusing on sweet-spot feedback.",
			"Review Rapsodo for carry gains.",
		},
	}
	drillEVBuilder = Drill{
		Title: "EV Builder + Flight Window",
		Why:   "Pairs speed intent with controlled LA.",
		Steps: []string{
			"5× intent swings; 5× constraint swings (tee at belt).",
			"Alternate lanes CF/LF/RCF with cues.",
			"Track EV & LA; stop if shape degrades.",
		},
	}
)

// The two launch angle rules are disjoint, so at most one of them fires.
var hittingPlaybook = Playbook[model.HittingMetrics]{
	Mode:    ModeHitting,
	Summary: "Shape your bat path and timing window to convert ball speed into damage.",
	Rules: []Rule[model.HittingMetrics]{
		{
			Metric: "Launch Angle",
			Target: launchAngleTarget,
			Note:   "Steep LA can produce pop-ups.",
			Check: func(h model.HittingMetrics) (float64, bool) {
				return h.LaunchAngle, h.LaunchAngle > 35
			},
			Priority: "Shallow the attack angle to stay through the zone.",
			Drill:    &drillHighTee,
		},
		{
			Metric: "Launch Angle",
			Target: launchAngleTarget,
			Note:   "Flat LA drives balls into the ground.",
			Check: func(h model.HittingMetrics) (float64, bool) {
				return h.LaunchAngle, h.LaunchAngle < 5
			},
			Priority: "Increase attack angle and contact point lift.",
			Drill:    &drillLowTee,
		},
		{
			Metric: "Exit Velocity",
			Target: "Build toward ≥ 85–90 mph (level-dependent)",
			Note:   "Limited ball speed caps damage on contact.",
			Check: func(h model.HittingMetrics) (float64, bool) {
				return h.ExitVelocity, h.ExitVelocity < 80
			},
			Priority: "Improve bat speed and quality of contact.",
			Drill:    &drillWeightedBat,
		},
		{
			Metric: "Exit Direction",
			Target: "Stay mostly within ±20°",
			NoteFor: func(direction float64) string {
				side := "opposite"
				if direction < 0 {
					side = "pull"
				}
				return fmt.Sprintf("Strong %s bias may shrink timing window.", side)
			},
			Check: func(h model.HittingMetrics) (float64, bool) {
				if h.ExitDirection == nil {
					return 0, false
				}
				return *h.ExitDirection, math.Abs(*h.ExitDirection) > 25
			},
			Priority: "Balance direction window (±20°) to unlock timing margin.",
			Drill:    &drillDirectionLadder,
		},
		{
			Metric: "Distance",
			Target: "Expect 250–350 ft w/ 90+ EV & 10–30° LA",
			Note:   "Ball not carrying relative to EV/LA.",
			Check: func(h model.HittingMetrics) (float64, bool) {
				return h.Distance, h.Distance < 200 && h.ExitVelocity >= 90 && h.LaunchAngle >= 10 && h.LaunchAngle <= 30
			},
			Priority: "Optimize contact quality—center strikes and backspin control.",
			Drill:    &drillBarrelCentering,
		},
	},
	Fallback: Fallback{
		Summary:  "Patterns look solid. Keep intent high and build EV safely.",
		Priority: "Good overall shape—maintain pattern and raise EV ceiling progressively.",
		Drill:    drillEVBuilder,
	},
}

// Hitting evaluates one batted ball.
func Hitting(in model.HittingMetrics) Result {
	return hittingPlaybook.Evaluate(in)
}
