package lesson

import (
	"math"

	"github.com/okian/lessongen/internal/domain/model"
)

// Pitching priorities. The gyro rule defers to the efficiency wording.
const (
	prioritySpinEfficiency = "Improve 4S spin efficiency to boost carry/ride."
	priorityReduceGyro     = "Reduce gyro on fastball to increase carry."
	priorityBreakingGyro   = "Add gyro/sweep characteristics to breaking ball."
	priorityRide           = "Increase ride on 4S to create top-of-zone margin."
	priorityArmSideRun     = "Enhance arm-side run on sinker/two-seam."
)

var (
	drillCleanFourSeam = Drill{
		Title: "Clean 4-Seam Spin (Plyo/Grip Focus)",
		Why:   "Efficient backspin helps vertical break and perceived rise.",
		Steps: []string{
			"Use 4S grip with seams true; cue 'through the ball'.",
			"Plyo wall: focus on true backspin (no cut/run).",
			"Grip experiment: pressure on index/middle, relaxed thumb.",
			"Video the ball axis; compare to Rapsodo spin axis.",
		},
	}
	drillAxisTowel = Drill{
		Title: "Axis Awareness Towel Drill",
		Why:   "Reduces bullet-spin by reinforcing fingers-behind-ball release.",
		Steps: []string{
			"Use towel drill emphasizing palm-to-target finish.",
			"Cue: 'Show the logo to the sky' through release.",
			"Short box throws; check Rapsodo gyro drop across reps.",
		},
	}
	drillBulletSpin = Drill{
		Title: "Bullet-Spin Builder (Slider)",
		Why:   "Increases gyro to tighten tilt and reduce unintended backspin.",
		Steps: []string{
			"Grip: offset fingers; cue 'door-knob' (supinate) late.",
			"Short spin throws to 45–60 ft focusing on tilt.",
			"Blend to full distance; keep velocity intent.",
		},
	}
	drillBaselinePatterning = Drill{
		Title: "Baseline Patterning",
		Why:   "Locks in current axis & release cues.",
		Steps: []string{
			"Catch play with intent ladders (60→90→120 ft).",
			"5–10 plyo spins per pitch type; monitor axis.",
			"Finish with 8–12 pulldowns tracking spin metrics.",
		},
	}
)

var pitchingPlaybook = Playbook[model.PitchingMetrics]{
	Mode:    ModePitching,
	Summary: "Focus on a cleaner spin axis and movement profile to amplify separation and miss barrels.",
	Rules: []Rule[model.PitchingMetrics]{
		{
			Metric: "Spin Efficiency",
			Target: "≥ 90% for 4S FB (tune for level)",
			Note:   "Below typical 4S efficiency—likely bleeding ride/carry.",
			Check: func(p model.PitchingMetrics) (float64, bool) {
				if !p.PitchType.IsFastball() {
					return 0, false
				}
				return below(p.SpinEfficiency, 90)
			},
			Priority: prioritySpinEfficiency,
			Drill:    &drillCleanFourSeam,
		},
		{
			Metric: "Gyro Degree",
			Target: "≤ 15–20° for 4S FB (tune)",
			Note:   "Too much gyro dilutes backspin and carry.",
			Check: func(p model.PitchingMetrics) (float64, bool) {
				if !p.PitchType.IsFastball() {
					return 0, false
				}
				return above(p.GyroDegree, 20)
			},
			Priority:     priorityReduceGyro,
			UnlessListed: prioritySpinEfficiency,
			Drill:        &drillAxisTowel,
		},
		{
			Metric: "Spin Efficiency",
			Target: "≤ ~35–40% for tight SL/CT (tune)",
			Note:   "Slider/cutter reading very efficient—likely backing up.",
			Check: func(p model.PitchingMetrics) (float64, bool) {
				if p.PitchType != model.Slider && p.PitchType != model.Cutter {
					return 0, false
				}
				return above(p.SpinEfficiency, 40)
			},
			Priority: priorityBreakingGyro,
			Drill:    &drillBulletSpin,
		},
		{
			Metric: "Vertical Break",
			Target: "≈ 14–18 in ride for 4S (tune per velo/slot)",
			Note:   "Low ride may reduce swing-miss at top of zone.",
			Check: func(p model.PitchingMetrics) (float64, bool) {
				if !p.PitchType.IsFastball() {
					return 0, false
				}
				return below(p.VerticalBreak, 10)
			},
			Priority: priorityRide,
		},
		{
			Metric: "Horizontal Break",
			Target: "≈ 12–18 in arm-side run (tune)",
			Note:   "Arm-side run is modest for a sinker profile.",
			Check: func(p model.PitchingMetrics) (float64, bool) {
				if p.HorizontalBreak == nil || (p.PitchType != model.TwoSeamFastball && p.PitchType != model.Sinker) {
					return 0, false
				}
				return *p.HorizontalBreak, math.Abs(*p.HorizontalBreak) < 10
			},
			Priority: priorityArmSideRun,
		},
	},
	Fallback: Fallback{
		Summary:  "Solid foundation—keep patterning. Layer intent and command work.",
		Priority: "Current metrics look balanced. Maintain patterns and build velocity safely.",
		Drill:    drillBaselinePatterning,
	},
}

// Pitching evaluates one pitch. The input is expected to have passed
// PitchingMetrics.Validate; the function never fails.
func Pitching(in model.PitchingMetrics) Result {
	return pitchingPlaybook.Evaluate(in)
}
