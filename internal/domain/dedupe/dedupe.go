// Package dedupe keeps the first occurrence of repeated strings.
package dedupe

// Seen records strings that have already been emitted. The zero value is
// ready to use. It is not safe for concurrent use; callers keep one per
// evaluation.
type Seen struct {
	seen map[string]struct{}
}

// SeenAndRecord checks if s was seen and records it if not.
// Returns true if s was already seen, false if it was newly recorded.
func (d *Seen) SeenAndRecord(s string) bool {
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[s]; ok {
		return true
	}
	d.seen[s] = struct{}{}
	return false
}

// Contains reports whether s was recorded, without recording it.
func (d *Seen) Contains(s string) bool {
	_, ok := d.seen[s]
	return ok
}

// Size returns the number of distinct strings recorded.
func (d *Seen) Size() int { return len(d.seen) }

// Strings returns items with later duplicates dropped, preserving the order
// of first occurrence. The input slice is not modified.
func Strings(items []string) []string {
	out := make([]string, 0, len(items))
	var d Seen
	for _, s := range items {
		if !d.SeenAndRecord(s) {
			out = append(out, s)
		}
	}
	return out
}
