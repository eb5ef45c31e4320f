package smoketest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/lessongen/internal/domain/dedupe"
	"github.com/okian/lessongen/internal/domain/lesson"
)

// Verify checks a lesson response body for sample. It returns the decoded
// lesson together with every problem found.
func Verify(s Sample, body []byte) (lesson.Result, error) {
	var got lesson.Result
	if err := json.Unmarshal(body, &got); err != nil {
		return got, fmt.Errorf("%w: undecodable body: %w", ErrInvariant, err)
	}

	var errs []error
	if got.Mode != s.Mode {
		errs = append(errs, fmt.Errorf("%w: mode %q, want %q", ErrInvariant, got.Mode, s.Mode))
	}
	if got.Summary == "" {
		errs = append(errs, fmt.Errorf("%w: empty summary", ErrInvariant))
	}
	if n := len(got.Drills); n < 1 || n > lesson.MaxDrills {
		errs = append(errs, fmt.Errorf("%w: %d drills", ErrInvariant, n))
	}
	if len(got.Priorities) == 0 {
		errs = append(errs, fmt.Errorf("%w: no priorities", ErrInvariant))
	}
	if uniq := dedupe.Strings(got.Priorities); len(uniq) != len(got.Priorities) {
		errs = append(errs, fmt.Errorf("%w: duplicate priorities", ErrInvariant))
	}
	for _, k := range got.MetricFlags.Keys() {
		if f, _ := got.MetricFlags.Get(k); !f.Flag {
			errs = append(errs, fmt.Errorf("%w: flag %q not set", ErrInvariant, k))
		}
	}

	want, err := json.Marshal(s.Expected())
	if err != nil {
		return got, fmt.Errorf("failed to encode local lesson: %w", err)
	}
	if !bytes.Equal(bytes.TrimSpace(body), want) {
		errs = append(errs, ErrMismatch)
	}
	return got, errors.Join(errs...)
}
