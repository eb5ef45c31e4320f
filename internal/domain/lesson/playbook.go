package lesson

import (
	"slices"

	"github.com/okian/lessongen/internal/domain/dedupe"
)

// MaxDrills caps the drills returned in one lesson.
const MaxDrills = 3

// Rule is one threshold check and the feedback it produces when it fires.
type Rule[T any] struct {
	// Metric is the key used in Result.MetricFlags.
	Metric string
	// Target describes the ideal band in human terms.
	Target string
	// Check returns the observed value and whether the rule fires.
	Check func(in T) (value float64, fired bool)
	// Note explains the flag. NoteFor, when set, builds it from the value.
	Note    string
	NoteFor func(value float64) string
	// Priority is appended to the priority list when the rule fires, unless
	// UnlessListed is non-empty and already present in that list.
	Priority     string
	UnlessListed string
	// Drill is optional.
	Drill *Drill
}

func (r Rule[T]) note(value float64) string {
	if r.NoteFor != nil {
		return r.NoteFor(value)
	}
	return r.Note
}

// Fallback is the feedback used when nothing needs attention.
type Fallback struct {
	Summary  string
	Priority string
	Drill    Drill
}

// Playbook is an ordered rule set for one mode.
type Playbook[T any] struct {
	Mode Mode
	// Summary is used when at least one rule fired.
	Summary  string
	Rules    []Rule[T]
	Fallback Fallback
}

// Evaluate runs every rule in order and assembles the lesson.
func (p *Playbook[T]) Evaluate(in T) Result {
	var (
		flags      MetricFlags
		priorities []string
		drills     []Drill
	)
	for _, r := range p.Rules {
		value, fired := r.Check(in)
		if !fired {
			continue
		}
		flags.Set(r.Metric, MetricFlag{Value: value, Target: r.Target, Note: r.note(value), Flag: true})
		if r.UnlessListed == "" || !slices.Contains(priorities, r.UnlessListed) {
			priorities = append(priorities, r.Priority)
		}
		if r.Drill != nil {
			drills = append(drills, r.Drill.clone())
		}
	}
	return p.finish(flags, priorities, drills)
}

// finish applies the fallback to a clean record and caps drills. Priorities
// keep their first occurrence only.
func (p *Playbook[T]) finish(flags MetricFlags, priorities []string, drills []Drill) Result {
	summary := p.Summary
	if flags.Len() == 0 {
		summary = p.Fallback.Summary
		priorities = []string{p.Fallback.Priority}
	}
	if len(drills) > MaxDrills {
		drills = drills[:MaxDrills]
	}
	if len(drills) == 0 {
		drills = []Drill{p.Fallback.Drill.clone()}
	}
	return Result{
		Mode:        p.Mode,
		Summary:     summary,
		Priorities:  dedupe.Strings(priorities),
		Drills:      drills,
		MetricFlags: flags,
	}
}

func below(v *float64, limit float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, *v < limit
}

func above(v *float64, limit float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, *v > limit
}
