package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iso(s string) Interval {
	return MustParse(s, time.UTC)
}

func isos(ss ...string) []Interval {
	out := make([]Interval, len(ss))
	for i, s := range ss {
		out[i] = iso(s)
	}
	return out
}

func TestNew(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	iv := New(start, end)
	assert.True(t, iv.IsValid())
	assert.NoError(t, iv.Err())
	assert.Equal(t, 24*time.Hour, iv.Duration())

	backwards := New(end, start)
	assert.False(t, backwards.IsValid())
	assert.Equal(t, "end before start", backwards.Reason())
	var invalidErr *InvalidError
	require.ErrorAs(t, backwards.Err(), &invalidErr)
	assert.Equal(t, "end before start", invalidErr.Reason)

	assert.False(t, New(time.Time{}, end).IsValid())
	assert.True(t, New(start, start).IsEmpty())
	assert.True(t, Between(end, start).Equal(iv))
}

func TestInvalidf(t *testing.T) {
	iv := Invalidf("invalid interval folder", "%q is not in %q", "/a/b.md", "/vault")
	assert.False(t, iv.IsValid())
	assert.Equal(t, "invalid interval folder", iv.Reason())
	assert.Equal(t, `"/a/b.md" is not in "/vault"`, iv.Explanation())
	assert.Equal(t, "Invalid Interval: invalid interval folder", iv.String())
	assert.False(t, iv.Contains(time.Now()))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "dates", input: "2023-01-01/2023-01-02", want: "2023-01-01T00:00:00Z/2023-01-02T00:00:00Z"},
		{name: "date times", input: "2023-01-01T09:30/2023-01-01T10:00", want: "2023-01-01T09:30:00Z/2023-01-01T10:00:00Z"},
		{name: "rfc3339 with offset", input: "2023-01-01T00:00:00+02:00/2023-01-02T00:00:00+02:00", want: "2023-01-01T00:00:00+02:00/2023-01-02T00:00:00+02:00"},
		{name: "missing separator", input: "2023-01-01", wantErr: true},
		{name: "garbage", input: "a/b", wantErr: true},
		{name: "backwards", input: "2023-01-02/2023-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := Parse(tt.input, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, iv.String())
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	iv := iso("2025-02-27/2025-03-13")
	b, err := iv.MarshalText()
	require.NoError(t, err)

	var parsed Interval
	require.NoError(t, parsed.UnmarshalText(b))
	assert.True(t, iv.Equal(parsed))

	_, err = Invalidf("nope", "").MarshalText()
	assert.Error(t, err)
}

func TestOverlapsAndAbuts(t *testing.T) {
	a := iso("2025-03-01/2025-03-04")

	assert.True(t, a.Overlaps(iso("2025-03-02/2025-03-05")))
	assert.True(t, a.Overlaps(iso("2025-03-02/2025-03-03")), "contained")
	assert.False(t, a.Overlaps(iso("2025-03-04/2025-03-05")), "touching is not overlapping")
	assert.True(t, a.Abuts(iso("2025-03-04/2025-03-05")))
	assert.False(t, a.Overlaps(iso("2025-03-10/2025-03-11")))
	assert.False(t, a.Overlaps(Invalidf("x", "")))

	assert.True(t, a.Contains(a.Start))
	assert.False(t, a.Contains(a.End), "end is exclusive")
}

func TestMergeIntersecting(t *testing.T) {
	tests := []struct {
		name   string
		input  []Interval
		output []Interval
	}{
		{
			name:   "empty",
			input:  nil,
			output: []Interval{},
		},
		{
			name:   "pair of overlapping intervals",
			input:  isos("2025-03-02/2025-03-05", "2025-03-01/2025-03-04"),
			output: isos("2025-03-01/2025-03-05"),
		},
		{
			name:   "contained interval keeps the outer end",
			input:  isos("2025-03-01/2025-03-10", "2025-03-02/2025-03-03"),
			output: isos("2025-03-01/2025-03-10"),
		},
		{
			name:   "3-tuple of equal intervals",
			input:  isos("2025-03-01/2025-03-07", "2025-03-01/2025-03-07", "2025-03-01/2025-03-07"),
			output: isos("2025-03-01/2025-03-07"),
		},
		{
			name:   "adjacent intervals stay distinct",
			input:  isos("2025-03-01/2025-03-02", "2025-03-02/2025-03-03", "2025-03-03/2025-03-04"),
			output: isos("2025-03-01/2025-03-02", "2025-03-02/2025-03-03", "2025-03-03/2025-03-04"),
		},
		{
			name: "overlapping pairs separated by a lone interval",
			input: isos(
				"2025-03-01/2025-03-04", "2025-03-02/2025-03-05",
				"2025-03-13/2025-03-16",
				"2025-03-21/2025-03-24", "2025-03-22/2025-03-25",
			),
			output: isos("2025-03-01/2025-03-05", "2025-03-13/2025-03-16", "2025-03-21/2025-03-25"),
		},
		{
			name:   "invalid intervals are dropped",
			input:  []Interval{Invalidf("x", ""), iso("2025-03-01/2025-03-02")},
			output: isos("2025-03-01/2025-03-02"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntersecting(tt.input)
			require.Len(t, got, len(tt.output))
			for i := range got {
				assert.True(t, tt.output[i].Equal(got[i]), "want %s, got %s", tt.output[i], got[i])
			}
		})
	}
}

func TestCollisions(t *testing.T) {
	withOverlaps := []struct {
		name  string
		input []Interval
		want  [][2]int
	}{
		{
			name:  "pair of overlapping intervals",
			input: isos("2025-03-01/2025-03-04", "2025-03-02/2025-03-05"),
			want:  [][2]int{{0, 2}},
		},
		{
			name:  "3-tuple with the same start time",
			input: isos("2025-03-01/2025-03-04", "2025-03-01/2025-03-05", "2025-03-01/2025-03-06"),
			want:  [][2]int{{0, 3}},
		},
		{
			name:  "3-tuple with the same end time",
			input: isos("2025-03-01/2025-03-06", "2025-03-02/2025-03-06", "2025-03-03/2025-03-06"),
			want:  [][2]int{{0, 3}},
		},
		{
			name: "3 overlapping pairs with one non-overlapping interval between them",
			input: isos(
				"2025-03-01/2025-03-04", "2025-03-02/2025-03-05",
				"2025-03-13/2025-03-16",
				"2025-03-21/2025-03-24", "2025-03-22/2025-03-25",
				"2025-04-02/2025-04-05",
				"2025-04-13/2025-04-16", "2025-04-14/2025-04-17",
			),
			want: [][2]int{{0, 2}, {3, 5}, {6, 8}},
		},
		{
			name:  "3-tuple after a non-overlapping interval",
			input: isos("2025-03-01/2025-03-03", "2025-03-05/2025-03-08", "2025-03-06/2025-03-09", "2025-03-07/2025-03-10"),
			want:  [][2]int{{1, 4}},
		},
		{
			name:  "unsorted input",
			input: isos("2025-03-11/2025-03-13", "2025-03-07/2025-03-10", "2025-03-05/2025-03-08"),
			want:  [][2]int{{0, 2}},
		},
	}

	for _, tt := range withOverlaps {
		t.Run(tt.name, func(t *testing.T) {
			got := Collisions(tt.input)
			require.Len(t, got, len(tt.want))
			for i, c := range got {
				assert.Equal(t, tt.want[i], [2]int{c.Lo, c.Hi})
				assert.Len(t, c.Members, c.Hi-c.Lo)
			}

			err := AssertNoOverlaps(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOverlap))
		})
	}

	withoutOverlaps := map[string][]Interval{
		"empty group":        nil,
		"single interval":    isos("2025-03-01/2025-03-04"),
		"non-overlapping":    isos("2025-03-01/2025-03-04", "2025-03-14/2025-03-15"),
		"adjacent intervals": isos("2025-03-01/2025-03-02", "2025-03-02/2025-03-03", "2025-03-03/2025-03-04"),
	}
	for name, input := range withoutOverlaps {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, Collisions(input))
			assert.NoError(t, AssertNoOverlaps(input))
		})
	}
}

func TestCollisionSpan(t *testing.T) {
	got := Collisions(isos("2025-03-01/2025-03-04", "2025-03-02/2025-03-09", "2025-03-03/2025-03-05"))
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-01T00:00:00Z/2025-03-09T00:00:00Z", got[0].Span.String())
	assert.Contains(t, got[0].String(), "[0, 3)")
}
