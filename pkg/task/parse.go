package task

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// field selects the part of a record a marker writes to.
type field int

const (
	fieldCancelled field = iota
	fieldCreated
	fieldDone
	fieldDue
	fieldScheduled
	fieldStart
	fieldDependsOn
	fieldID
	fieldPriority
	fieldRecurrence
)

type marker struct {
	symbol   string
	field    field
	priority Priority
}

// markers is the emoji format used by Obsidian Tasks. Both hourglasses mean
// "scheduled".
var markers = []marker{
	{symbol: "❌", field: fieldCancelled},
	{symbol: "➕", field: fieldCreated},
	{symbol: "✅", field: fieldDone},
	{symbol: "📅", field: fieldDue},
	{symbol: "⌛", field: fieldScheduled},
	{symbol: "⏳", field: fieldScheduled},
	{symbol: "🛫", field: fieldStart},
	{symbol: "⛔", field: fieldDependsOn},
	{symbol: "🆔", field: fieldID},
	{symbol: "🔺", field: fieldPriority, priority: PriorityHighest},
	{symbol: "⏫", field: fieldPriority, priority: PriorityHigh},
	{symbol: "🔼", field: fieldPriority, priority: PriorityMedium},
	{symbol: "🔽", field: fieldPriority, priority: PriorityLow},
	{symbol: "⏬", field: fieldPriority, priority: PriorityLowest},
	{symbol: "🔁", field: fieldRecurrence},
}

var (
	markerBySymbol = make(map[string]marker, len(markers))
	markerPattern  *regexp.Regexp
)

func init() {
	alternatives := make([]string, len(markers))
	for i, m := range markers {
		markerBySymbol[m.symbol] = m
		alternatives[i] = regexp.QuoteMeta(m.symbol)
	}
	markerPattern = regexp.MustCompile(strings.Join(alternatives, "|"))
}

// Symbols returns the marker glyphs in table order.
func Symbols() []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.symbol
	}
	return out
}

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
}

// Parser reads task metadata from annotated text.
type Parser struct {
	// Location is used for dates and times without a zone. Defaults to time.Local.
	Location *time.Location
}

// Parse reads text with the default Parser.
func Parse(text string) Part {
	return Parser{}.Parse(text)
}

// Parse splits text on marker glyphs. The text before the first marker is the
// header: an optional leading "HH:MM" or "HH:MM/HH:MM" token followed by the
// description. Each marker takes the text up to the next marker as its value.
// Markers that appear twice keep the last value. Parse never fails; values it
// cannot read are left unset.
func (p Parser) Parse(text string) Part {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	matches := markerPattern.FindAllStringIndex(text, -1)
	headerEnd := len(text)
	if len(matches) > 0 {
		headerEnd = matches[0][0]
	}
	part := parseHeader(strings.TrimSpace(text[:headerEnd]), loc)

	for i, m := range matches {
		stop := len(text)
		if i+1 < len(matches) {
			stop = matches[i+1][0]
		}
		symbol := text[m[0]:m[1]]
		value := text[m[1]:stop]
		applyMarker(&part, markerBySymbol[symbol], value, loc)
	}
	return part
}

func applyMarker(part *Part, m marker, value string, loc *time.Location) {
	value = strings.TrimSpace(value)
	switch m.field {
	case fieldCancelled:
		part.Dates.Cancelled = parseDate(value, loc)
	case fieldCreated:
		part.Dates.Created = parseDate(value, loc)
	case fieldDone:
		part.Dates.Done = parseDate(value, loc)
	case fieldDue:
		part.Dates.Due = parseDate(value, loc)
	case fieldScheduled:
		part.Dates.Scheduled = parseDate(value, loc)
	case fieldStart:
		part.Dates.Start = parseDate(value, loc)
	case fieldDependsOn:
		part.DependsOn = splitIDs(value)
	case fieldID:
		part.ID = value
	case fieldPriority:
		// The glyph encodes the priority; any trailing text is ignored.
		part.Priority = m.priority.Ptr()
	case fieldRecurrence:
		part.RecurrenceRule = value
	}
}

func parseHeader(header string, loc *time.Location) Part {
	if header == "" {
		return Part{}
	}

	first, rest := header, ""
	if i := strings.IndexFunc(header, unicode.IsSpace); i >= 0 {
		first, rest = header[:i], strings.TrimSpace(header[i:])
	}

	if startText, endText, ok := strings.Cut(first, "/"); ok {
		start, end := parseClock(startText, loc), parseClock(endText, loc)
		if !start.IsZero() && !end.IsZero() && !end.Before(start) {
			return Part{Description: rest, Times: Times{Start: start, End: end}}
		}
	}
	if start := parseClock(first, loc); !start.IsZero() {
		return Part{Description: rest, Times: Times{Start: start}}
	}
	return Part{Description: header}
}

func parseClock(s string, loc *time.Location) time.Time {
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseDate(s string, loc *time.Location) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func splitIDs(s string) Set {
	ids := Set{}
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}
