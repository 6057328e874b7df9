package interval

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Compare orders intervals by start, then by end. Invalid intervals sort last.
func Compare(a, b Interval) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return 1
	case !b.IsValid():
		return -1
	}
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return a.End.Compare(b.End)
}

// Sorted returns a sorted copy of ivs with invalid intervals removed.
func Sorted(ivs []Interval) []Interval {
	out := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.IsValid() {
			out = append(out, iv)
		}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// Collision is a maximal run of overlapping intervals in sorted order.
type Collision struct {
	// Lo and Hi are the [inclusive, exclusive) bounds of the run in the sorted input.
	Lo, Hi int
	// Members are the colliding intervals, sorted.
	Members []Interval
	// Span is the union of Members.
	Span Interval
}

func (c Collision) String() string {
	parts := make([]string, len(c.Members))
	for i, m := range c.Members {
		parts[i] = m.String()
	}
	return fmt.Sprintf("overlapping intervals in the index range [%d, %d): %s", c.Lo, c.Hi, strings.Join(parts, ", "))
}

// runs groups the sorted intervals into maximal runs where each member overlaps the
// union of the members before it.
func runs(sorted []Interval) []Collision {
	var out []Collision
	for lo := 0; lo < len(sorted); {
		span := sorted[lo]
		hi := lo + 1
		for hi < len(sorted) && span.Overlaps(sorted[hi]) {
			span = span.Union(sorted[hi])
			hi++
		}
		out = append(out, Collision{Lo: lo, Hi: hi, Members: sorted[lo:hi:hi], Span: span})
		lo = hi
	}
	return out
}

// MergeIntersecting replaces every run of overlapping intervals with its union.
// Intervals that only touch stay distinct. Invalid intervals are dropped and the
// result is sorted.
func MergeIntersecting(ivs []Interval) []Interval {
	sorted := Sorted(ivs)
	merged := make([]Interval, 0, len(sorted))
	for _, run := range runs(sorted) {
		merged = append(merged, run.Span)
	}
	return merged
}

// Collisions reports every maximal run of two or more overlapping intervals, sorted
// by start then end. It returns nil when no two intervals overlap.
func Collisions(ivs []Interval) []Collision {
	var out []Collision
	for _, run := range runs(Sorted(ivs)) {
		if run.Hi-run.Lo >= 2 {
			out = append(out, run)
		}
	}
	return out
}

// ErrOverlap is matched by errors returned from AssertNoOverlaps.
var ErrOverlap = errors.New("unexpected overlapping intervals")

// AssertNoOverlaps returns an aggregate error with one entry per collision.
func AssertNoOverlaps(ivs []Interval) error {
	collisions := Collisions(ivs)
	if len(collisions) == 0 {
		return nil
	}
	errs := make([]error, len(collisions))
	for i, c := range collisions {
		errs[i] = fmt.Errorf("%w: %s", ErrOverlap, c)
	}
	return errors.Join(errs...)
}
