package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "", want: jan31},
		{input: "0", want: jan31},
		{input: "P1D", want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{input: "p1d", want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{input: "P2W", want: time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)},
		{input: "P1Y2M3D", want: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)},
		{input: "PT1H30M", want: jan31.Add(90 * time.Minute)},
		{input: "PT0.5S", want: jan31.Add(500 * time.Millisecond)},
		{input: "-P3D", want: time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)},
		{input: "+P3D", want: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{input: "36h", want: jan31.Add(36 * time.Hour)},
		{input: "-90m", want: jan31.Add(-90 * time.Minute)},
		{input: "P", wantErr: true},
		{input: "PT", wantErr: true},
		{input: "P1DT", wantErr: true},
		{input: "--P1D", wantErr: true},
		{input: "one day", wantErr: true},
		{input: "P1X", wantErr: true},
		{input: "P0.5D", wantErr: true},
		{input: "P99999999999999999999D", wantErr: true},
		{input: "P9999999999D", wantErr: true},
		{input: "P20000Y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.AddTo(jan31))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "P1D", Days(1).String())
	assert.Equal(t, "P2W", Weeks(2).String())
	assert.Equal(t, "-P1M", Months(-1).String())
	assert.Equal(t, "36h0m0s", MustParse("36h").String())

	for _, p := range []Period{{}, Days(3), Weeks(-2), Months(1), MustParse("P1Y2M3DT4H"), Clock(time.Hour)} {
		parsed, err := Parse(p.String())
		require.NoError(t, err, p.String())
		assert.True(t, p.Equal(parsed), "%s round trips as %s", p, parsed)
	}
}

func TestAddTo(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	feb28 := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Days(1).AddTo(jan31))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Days(1).AddTo(feb28))
	assert.Equal(t, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), Months(1).AddTo(feb28))
	assert.Equal(t, feb28, Months(1).Neg().AddTo(Months(1).AddTo(feb28)))
	assert.Equal(t, jan31.Add(-time.Hour), Clock(time.Hour).Neg().AddTo(jan31))
	assert.True(t, Period{}.IsZero())
	assert.False(t, Days(-1).IsZero())
}

func TestIsNegative(t *testing.T) {
	assert.True(t, Days(-1).IsNegative())
	assert.True(t, MustParse("-P1M").IsNegative())
	assert.True(t, MustParse("-90m").IsNegative())
	assert.True(t, Weeks(1).Neg().IsNegative())
	assert.False(t, Days(1).IsNegative())
	assert.False(t, Period{}.IsNegative())
}

func TestUnmarshalText(t *testing.T) {
	var p Period
	require.NoError(t, p.UnmarshalText([]byte("P2W")))
	assert.True(t, Weeks(2).Equal(p))
	assert.Error(t, p.UnmarshalText([]byte("fortnight")))
	assert.Error(t, p.UnmarshalText([]byte("P99999999999999999999D")))
}
