// Package lesson turns tracked metrics into coaching feedback.
//
// Each mode is a Playbook: an ordered list of independent threshold rules.
// Evaluation is a pure function of its input and holds no state between calls.
package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Mode tags which evaluator produced a Result.
type Mode string

// Supported modes.
const (
	ModePitching Mode = "pitching"
	ModeHitting  Mode = "hitting"
)

// MetricFlag is one metric that fell outside its target band.
type MetricFlag struct {
	Value  float64 `json:"value"`
	Target string  `json:"target"`
	Note   string  `json:"note"`
	Flag   bool    `json:"flag"`
}

// Drill is a recommended practice block.
type Drill struct {
	Title string   `json:"title"`
	Why   string   `json:"why"`
	Steps []string `json:"steps"`
}

func (d Drill) clone() Drill {
	d.Steps = slices.Clone(d.Steps)
	return d
}

// Result is the lesson returned for one metrics record.
type Result struct {
	Mode        Mode        `json:"mode"`
	Summary     string      `json:"summary"`
	Priorities  []string    `json:"priorities"`
	Drills      []Drill     `json:"drills"`
	MetricFlags MetricFlags `json:"metric_flags"`
}

// MetricFlags maps metric names to flags in insertion order. Setting a name
// twice replaces the flag but keeps its original position.
type MetricFlags struct {
	keys  []string
	flags map[string]MetricFlag
}

// Set records f under name.
func (m *MetricFlags) Set(name string, f MetricFlag) {
	if m.flags == nil {
		m.flags = make(map[string]MetricFlag)
	}
	if _, ok := m.flags[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.flags[name] = f
}

// Get returns the flag recorded under name.
func (m MetricFlags) Get(name string) (MetricFlag, bool) {
	f, ok := m.flags[name]
	return f, ok
}

// Keys returns metric names in insertion order.
func (m MetricFlags) Keys() []string { return slices.Clone(m.keys) }

// Len returns the number of flagged metrics.
func (m MetricFlags) Len() int { return len(m.keys) }

// Equal reports whether both mappings hold the same flags in the same order.
func (m MetricFlags) Equal(o MetricFlags) bool {
	if !slices.Equal(m.keys, o.keys) {
		return false
	}
	for _, k := range m.keys {
		if m.flags[k] != o.flags[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes a JSON object whose members follow insertion order.
func (m MetricFlags) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.flags[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping member order.
func (m *MetricFlags) UnmarshalJSON(data []byte) error {
	*m = MetricFlags{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metric_flags: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metric_flags: expected key, got %v", tok)
		}
		var f MetricFlag
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("metric_flags[%s]: %w", name, err)
		}
		m.Set(name, f)
	}
	_, err = dec.Token()
	return err
}
