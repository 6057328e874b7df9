// Package layout formats and parses the dates embedded in note file names.
//
// A layout is either a Go reference layout ("2006-01-02", "2006-01") or an ISO week
// layout built from the tokens GGGG (ISO week-numbering year) and WW (two-digit ISO
// week), with literal text in single quotes or as punctuation: "GGGG-'W'WW".
package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout formats and parses dates with a validated format string.
type Layout struct {
	format string
	tokens []token // nil for Go reference layouts
}

// Reference dates used to validate layouts. They differ in every calendar field so a
// layout that carries any date information formats them differently.
var (
	referenceA = time.Date(2023, time.September, 14, 13, 45, 30, 0, time.UTC)
	referenceB = time.Date(2024, time.February, 29, 8, 10, 5, 0, time.UTC)
)

var (
	// ErrEmpty is returned for empty layouts.
	ErrEmpty = errors.New("date format must be non-empty")
	// ErrNoRoundTrip is returned for layouts that cannot parse their own output.
	ErrNoRoundTrip = errors.New("date format does not round-trip")
)

// Compile validates format. Formatting a reference date and parsing the result must
// reproduce the same string, and the layout must carry some date information.
func Compile(format string) (Layout, error) {
	if format == "" {
		return Layout{}, ErrEmpty
	}

	l := Layout{format: format}
	if isISOWeek(format) {
		tokens, err := tokenize(format)
		if err != nil {
			return Layout{}, fmt.Errorf("%w: %q: %v", ErrNoRoundTrip, format, err)
		}
		l.tokens = tokens
	}

	for _, ref := range []time.Time{referenceA, referenceB} {
		s := l.Format(ref)
		parsed, err := l.Parse(s, time.UTC)
		if err != nil {
			return Layout{}, fmt.Errorf("%w: %q formats %s as %q but cannot parse it back: %v", ErrNoRoundTrip, format, ref.Format(time.DateOnly), s, err)
		}
		if again := l.Format(parsed); again != s {
			return Layout{}, fmt.Errorf("%w: %q formats %q but reformats it as %q", ErrNoRoundTrip, format, s, again)
		}
	}
	if l.Format(referenceA) == l.Format(referenceB) {
		return Layout{}, fmt.Errorf("%w: %q contains no date fields", ErrNoRoundTrip, format)
	}
	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(format string) Layout {
	l, err := Compile(format)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the format the layout was compiled from.
func (l Layout) String() string {
	return l.format
}

// Format renders t.
func (l Layout) Format(t time.Time) string {
	if l.tokens == nil {
		return t.Format(l.format)
	}
	year, week := t.ISOWeek()
	var b strings.Builder
	for _, tok := range l.tokens {
		switch tok.kind {
		case tokenYear:
			fmt.Fprintf(&b, "%04d", year)
		case tokenWeek:
			fmt.Fprintf(&b, "%02d", week)
		default:
			b.WriteString(tok.text)
		}
	}
	return b.String()
}

// Parse reads s. Values without zone information are interpreted in loc. Only
// the exact text Format produces is accepted, so "2024-jan" does not match
// "2006-Jan" and every note has one canonical name.
func (l Layout) Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	var parsed time.Time
	var err error
	if l.tokens == nil {
		parsed, err = time.ParseInLocation(l.format, s, loc)
	} else {
		parsed, err = parseISOWeek(l.tokens, s, loc)
	}
	if err != nil {
		return time.Time{}, err
	}
	if canonical := l.Format(parsed); canonical != s {
		return time.Time{}, fmt.Errorf("%q is not in canonical form %q", s, canonical)
	}
	return parsed, nil
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenYear
	tokenWeek
)

type token struct {
	kind tokenKind
	text string
}

func isISOWeek(format string) bool {
	inQuote := false
	for i := 0; i < len(format); i++ {
		switch {
		case format[i] == '\'':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(format[i:], "GGGG"):
			return true
		case !inQuote && strings.HasPrefix(format[i:], "WW"):
			return true
		}
	}
	return false
}

func tokenize(format string) ([]token, error) {
	var tokens []token
	var hasYear, hasWeek bool
	literal := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == tokenLiteral {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, token{kind: tokenLiteral, text: s})
	}

	for i := 0; i < len(format); {
		switch {
		case format[i] == '\'':
			end := strings.IndexByte(format[i+1:], '\'')
			if end == -1 {
				return nil, fmt.Errorf("unterminated quote at offset %d", i)
			}
			if end == 0 {
				literal("'")
			} else {
				literal(format[i+1 : i+1+end])
			}
			i += end + 2
		case strings.HasPrefix(format[i:], "GGGG"):
			tokens = append(tokens, token{kind: tokenYear})
			hasYear = true
			i += 4
		case strings.HasPrefix(format[i:], "WW"):
			tokens = append(tokens, token{kind: tokenWeek})
			hasWeek = true
			i += 2
		case isLetter(format[i]):
			return nil, fmt.Errorf("unsupported token %q in ISO week layout", format[i])
		default:
			literal(format[i : i+1])
			i++
		}
	}
	if !hasYear || !hasWeek {
		return nil, errors.New("ISO week layouts need both GGGG and WW")
	}
	return tokens, nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func parseISOWeek(tokens []token, s string, loc *time.Location) (time.Time, error) {
	rest := s
	var year, week int
	for _, tok := range tokens {
		switch tok.kind {
		case tokenLiteral:
			if !strings.HasPrefix(rest, tok.text) {
				return time.Time{}, fmt.Errorf("parsing %q: expected %q", s, tok.text)
			}
			rest = rest[len(tok.text):]
		case tokenYear:
			n, err := digits(rest, 4)
			if err != nil {
				return time.Time{}, fmt.Errorf("parsing %q: year: %w", s, err)
			}
			year, rest = n, rest[4:]
		case tokenWeek:
			n, err := digits(rest, 2)
			if err != nil {
				return time.Time{}, fmt.Errorf("parsing %q: week: %w", s, err)
			}
			week, rest = n, rest[2:]
		}
	}
	if rest != "" {
		return time.Time{}, fmt.Errorf("parsing %q: extra text %q", s, rest)
	}

	monday := isoWeekStart(year, week, loc)
	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("parsing %q: week %d out of range for %d", s, week, year)
	}
	return monday, nil
}

func digits(s string, n int) (int, error) {
	if len(s) < n {
		return 0, fmt.Errorf("expected %d digits", n)
	}
	for i := 0; i < n; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("expected %d digits, got %q", n, s[:n])
		}
	}
	return strconv.Atoi(s[:n])
}

// isoWeekStart returns the Monday starting ISO week `week` of `year`.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+7*(week-1))
}
