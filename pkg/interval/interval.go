// Package interval implements half-open time intervals that may be invalid.
//
// An invalid Interval is a value, not an error: it carries a short reason and a
// human-readable explanation and is used for expected outcomes such as "this file
// is not part of this collection".
package interval

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time

	reason      string
	explanation string
}

// New returns the interval [start, end). The result is invalid when either endpoint
// is unset or when end is before start.
func New(start, end time.Time) Interval {
	switch {
	case start.IsZero() || end.IsZero():
		return Invalidf("missing endpoint", "start and end must both be set")
	case end.Before(start):
		return Invalidf("end before start", "the end %s is before the start %s", format(end), format(start))
	}
	return Interval{Start: start, End: end}
}

// Between returns the interval spanning a and b regardless of their order.
func Between(a, b time.Time) Interval {
	if b.Before(a) {
		a, b = b, a
	}
	return New(a, b)
}

// Invalidf returns an invalid interval with the given reason and explanation.
func Invalidf(reason, explanation string, args ...any) Interval {
	if reason == "" {
		reason = "unspecified"
	}
	return Interval{reason: reason, explanation: fmt.Sprintf(explanation, args...)}
}

// IsValid reports whether the interval has two endpoints with Start <= End.
func (iv Interval) IsValid() bool {
	return iv.reason == ""
}

// Reason returns why the interval is invalid, or "" for valid intervals.
func (iv Interval) Reason() string {
	return iv.reason
}

// Explanation returns the human-readable detail of an invalid interval.
func (iv Interval) Explanation() string {
	return iv.explanation
}

// Err returns nil for valid intervals and a descriptive error otherwise.
func (iv Interval) Err() error {
	if iv.IsValid() {
		return nil
	}
	return &InvalidError{Reason: iv.reason, Explanation: iv.explanation}
}

// Duration returns End - Start, or 0 for invalid intervals.
func (iv Interval) Duration() time.Duration {
	if !iv.IsValid() {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// IsEmpty reports whether a valid interval has zero length.
func (iv Interval) IsEmpty() bool {
	return iv.IsValid() && iv.Start.Equal(iv.End)
}

// Contains reports whether t falls in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return iv.IsValid() && !t.Before(iv.Start) && t.Before(iv.End)
}

// Overlaps reports whether both intervals share a non-empty range.
// Intervals that only touch (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(o Interval) bool {
	if !iv.IsValid() || !o.IsValid() {
		return false
	}
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Abuts reports whether one interval ends exactly where the other starts.
func (iv Interval) Abuts(o Interval) bool {
	if !iv.IsValid() || !o.IsValid() {
		return false
	}
	return iv.End.Equal(o.Start) || o.End.Equal(iv.Start)
}

// Union returns the smallest interval covering both. Both must be valid.
func (iv Interval) Union(o Interval) Interval {
	if !iv.IsValid() {
		return iv
	}
	if !o.IsValid() {
		return o
	}
	start, end := iv.Start, iv.End
	if o.Start.Before(start) {
		start = o.Start
	}
	if o.End.After(end) {
		end = o.End
	}
	return New(start, end)
}

// Equal reports whether both intervals denote the same instants, or are both
// invalid for the same reason.
func (iv Interval) Equal(o Interval) bool {
	if iv.IsValid() != o.IsValid() {
		return false
	}
	if !iv.IsValid() {
		return iv.reason == o.reason
	}
	return iv.Start.Equal(o.Start) && iv.End.Equal(o.End)
}

// String renders valid intervals as "start/end" in RFC 3339.
func (iv Interval) String() string {
	if !iv.IsValid() {
		return "Invalid Interval: " + iv.reason
	}
	return format(iv.Start) + "/" + format(iv.End)
}

// MarshalText implements encoding.TextMarshaler.
func (iv Interval) MarshalText() ([]byte, error) {
	if err := iv.Err(); err != nil {
		return nil, err
	}
	return []byte(iv.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (iv *Interval) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b), time.UTC)
	if err != nil {
		return err
	}
	*iv = parsed
	return nil
}

var endpointLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse reads an ISO-8601 "start/end" interval. Endpoints without a zone offset are
// interpreted in loc.
func Parse(s string, loc *time.Location) (Interval, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Interval{}, fmt.Errorf("parsing interval %q: missing '/' separator", s)
	}
	start, err := parseEndpoint(startText, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("parsing interval start: %w", err)
	}
	end, err := parseEndpoint(endText, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("parsing interval end: %w", err)
	}
	iv := New(start, end)
	if err := iv.Err(); err != nil {
		return Interval{}, fmt.Errorf("parsing interval %q: %w", s, err)
	}
	return iv, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string, loc *time.Location) Interval {
	iv, err := Parse(s, loc)
	if err != nil {
		panic(err)
	}
	return iv
}

func parseEndpoint(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var lastErr error
	for _, layout := range endpointLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func format(t time.Time) string {
	return t.Format(time.RFC3339)
}

// InvalidError is returned by Err for invalid intervals.
type InvalidError struct {
	Reason      string
	Explanation string
}

func (e *InvalidError) Error() string {
	if e.Explanation == "" {
		return "invalid interval: " + e.Reason
	}
	return "invalid interval: " + e.Reason + ": " + e.Explanation
}
