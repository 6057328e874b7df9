// Package period implements calendar-aware durations such as "one month" or
// "two weeks", which time.Duration cannot express.
package period

import (
	"fmt"
	"strings"
	"time"

	iso "github.com/rickb777/period"
)

// Period is a signed calendar duration. An ISO 8601 period is applied with
// calendar arithmetic; a Go duration is applied with time.Add.
type Period struct {
	cal   iso.Period
	clock time.Duration
}

// reference anchors the range and precision checks of Parse.
var reference = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Days returns a period of n days.
func Days(n int) Period {
	return whole(n, func(n int) iso.Period { return iso.NewYMWD(0, 0, 0, n) })
}

// Weeks returns a period of n weeks.
func Weeks(n int) Period {
	return whole(n, func(n int) iso.Period { return iso.NewYMWD(0, 0, n, 0) })
}

// Months returns a period of n months.
func Months(n int) Period {
	return whole(n, func(n int) iso.Period { return iso.NewYMWD(0, n, 0, 0) })
}

func whole(n int, mk func(int) iso.Period) Period {
	if n < 0 {
		return Period{cal: mk(-n).Negate()}
	}
	return Period{cal: mk(n)}
}

// Clock returns a period of exactly d.
func Clock(d time.Duration) Period { return Period{clock: d} }

// IsZero reports whether applying p leaves every time unchanged.
func (p Period) IsZero() bool {
	return p.cal.IsZero() && p.clock == 0
}

// IsNegative reports whether applying p moves times backwards.
func (p Period) IsNegative() bool {
	return p.AddTo(reference).Before(reference)
}

// Neg returns -p.
func (p Period) Neg() Period {
	return Period{cal: p.cal.Negate(), clock: -p.clock}
}

// AddTo returns t shifted by p.
func (p Period) AddTo(t time.Time) time.Time {
	shifted, _ := p.cal.AddTo(t)
	return shifted.Add(p.clock)
}

// Equal reports whether p and o shift every time alike.
func (p Period) Equal(o Period) bool {
	return p.String() == o.String()
}

// String renders p in ISO 8601 form, e.g. "P1Y2M3DT4H", or as a Go duration
// when it was given as one.
func (p Period) String() string {
	if p.clock != 0 {
		return p.clock.String()
	}
	return p.cal.String()
}

// Parse reads a period. It accepts ISO 8601 durations ("P1D", "P2W", "-P1M",
// "PT1H30M"), Go duration strings ("36h", "-90m"), a bare "0", and the empty string
// (zero). Calendar fields must be whole numbers, and a period may not move a
// date out of the years 1 to 9999.
func Parse(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return Period{}, nil
	}

	upper := strings.ToUpper(s)
	if strings.HasPrefix(strings.TrimLeft(upper, "+-"), "P") {
		return parseISO(s, upper)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: expected ISO 8601 (P1D) or Go duration (24h)", s)
	}
	return Period{clock: d}, nil
}

func parseISO(orig, s string) (Period, error) {
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 || body == "P" || strings.HasSuffix(body, "T") {
		return Period{}, fmt.Errorf("invalid ISO 8601 period: %s", orig)
	}

	cal, err := iso.Parse(body)
	if err != nil {
		return Period{}, fmt.Errorf("invalid ISO 8601 period %s: %w", orig, err)
	}

	shifted, precise := cal.AddTo(reference)
	if !precise {
		return Period{}, fmt.Errorf("invalid ISO 8601 period %s: calendar fields must be whole numbers", orig)
	}
	if y := shifted.Year(); y < 1 || y > 9999 {
		return Period{}, fmt.Errorf("invalid ISO 8601 period %s: out of range", orig)
	}

	if neg {
		cal = cal.Negate()
	}
	return Period{cal: cal}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Period {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
