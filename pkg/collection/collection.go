// Package collection maps note files to the interval of time they cover.
package collection

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/layout"
	"github.com/stefanpenner/bujo/pkg/period"
)

// Reasons carried by the invalid intervals IntervalOf returns.
const (
	ReasonFolder   = "invalid interval folder"
	ReasonFilename = "invalid interval filename"
)

// ErrInvalidConfig is matched by every error New returns.
var ErrInvalidConfig = errors.New("invalid collection config")

// ConfigError lists every problem found in a collection's settings.
type ConfigError struct {
	ID  string
	Err error // errors.Join of the individual problems
}

func (e *ConfigError) Error() string {
	problems := strings.ReplaceAll(e.Err.Error(), "\n", "; ")
	if e.ID == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidConfig, problems)
	}
	return fmt.Sprintf("%v %q: %s", ErrInvalidConfig, e.ID, problems)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

// Collection is a set of notes that each cover one interval of time.
type Collection interface {
	ID() string
	Label() string
	Includes(filePath string) bool
	IntervalOf(filePath string) interval.Interval
	NoteFor(t time.Time) string
}

// Settings is the persisted form of a periodic log.
type Settings struct {
	ID               string `yaml:"id,omitempty" json:"id,omitempty" mapstructure:"id"`
	Label            string `yaml:"label,omitempty" json:"label,omitempty" mapstructure:"label"`
	Folder           string `yaml:"folder" json:"folder" mapstructure:"folder"`
	DateFormat       string `yaml:"date_format" json:"date_format" mapstructure:"date_format"`
	IntervalDuration string `yaml:"interval_duration" json:"interval_duration" mapstructure:"interval_duration"`
	IntervalOffset   string `yaml:"interval_offset,omitempty" json:"interval_offset,omitempty" mapstructure:"interval_offset"`
	Zone             string `yaml:"zone,omitempty" json:"zone,omitempty" mapstructure:"zone"`
}

// PeriodicNotes is a folder of notes named by date, such as a daily log. It is
// immutable and safe for concurrent use.
type PeriodicNotes struct {
	id       string
	label    string
	folder   string
	layout   layout.Layout
	duration period.Period
	offset   period.Period
	loc      *time.Location
}

var _ Collection = (*PeriodicNotes)(nil)

// New validates s and builds the collection. Every problem is reported at once in
// a *ConfigError.
func New(s Settings) (*PeriodicNotes, error) {
	var errs []error

	folder := SanitizeFolder(s.Folder)
	if folder == "" {
		errs = append(errs, errors.New("folder must be non-empty"))
	}

	lay, err := layout.Compile(s.DateFormat)
	if err != nil {
		errs = append(errs, err)
	}

	duration, err := period.Parse(s.IntervalDuration)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("interval duration: %w", err))
	case duration.IsZero():
		errs = append(errs, errors.New("interval duration must be non-zero"))
	}

	offset, err := period.Parse(s.IntervalOffset)
	if err != nil {
		errs = append(errs, fmt.Errorf("interval offset: %w", err))
	}

	loc := time.Local
	if zone := strings.TrimSpace(s.Zone); zone != "" {
		if l, err := time.LoadLocation(zone); err != nil {
			errs = append(errs, fmt.Errorf("zone: %w", err))
		} else {
			loc = l
		}
	}

	id := strings.TrimSpace(s.ID)
	if id == "" {
		id = folder
	}
	if len(errs) > 0 {
		return nil, &ConfigError{ID: id, Err: errors.Join(errs...)}
	}

	label := strings.TrimSpace(s.Label)
	if label == "" {
		label = id
	}

	return &PeriodicNotes{
		id:       id,
		label:    label,
		folder:   folder,
		layout:   lay,
		duration: duration,
		offset:   offset,
		loc:      loc,
	}, nil
}

// MustNew is like New but panics on invalid settings.
func MustNew(s Settings) *PeriodicNotes {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

// SanitizeFolder trims whitespace and a trailing slash. The root "/" is kept.
func SanitizeFolder(folder string) string {
	folder = strings.TrimSpace(folder)
	if folder == "/" {
		return folder
	}
	return strings.TrimSuffix(folder, "/")
}

func (p *PeriodicNotes) ID() string                      { return p.id }
func (p *PeriodicNotes) Label() string                   { return p.label }
func (p *PeriodicNotes) Folder() string                  { return p.folder }
func (p *PeriodicNotes) DateFormat() string              { return p.layout.String() }
func (p *PeriodicNotes) IntervalDuration() period.Period { return p.duration }
func (p *PeriodicNotes) IntervalOffset() period.Period   { return p.offset }
func (p *PeriodicNotes) Location() *time.Location        { return p.loc }

// Settings returns the settings p was built from, normalized.
func (p *PeriodicNotes) Settings() Settings {
	s := Settings{
		ID:               p.id,
		Label:            p.label,
		Folder:           p.folder,
		DateFormat:       p.layout.String(),
		IntervalDuration: p.duration.String(),
	}
	if !p.offset.IsZero() {
		s.IntervalOffset = p.offset.String()
	}
	if p.loc != time.Local {
		s.Zone = p.loc.String()
	}
	return s
}

// IntervalOf returns the interval covered by the note at filePath, a slash
// separated path. The extension is ignored. A bare file name lives in "/".
// Paths outside the folder or with names that do not parse yield an invalid
// interval.
func (p *PeriodicNotes) IntervalOf(filePath string) interval.Interval {
	dir, base := path.Split(filePath)
	dir = SanitizeFolder(dir)
	if dir == "" {
		dir = "/"
	}
	if dir != p.folder {
		return interval.Invalidf(ReasonFolder, "%q is not in %q", filePath, p.folder)
	}

	name := strings.TrimSuffix(base, path.Ext(base))
	date, err := p.layout.Parse(name, p.loc)
	if err != nil {
		return interval.Invalidf(ReasonFilename, "%q does not match %q: %v", name, p.layout, err)
	}

	return p.intervalAt(date)
}

func (p *PeriodicNotes) intervalAt(date time.Time) interval.Interval {
	start := p.offset.AddTo(date)
	return interval.Between(start, p.duration.AddTo(start))
}

// Includes reports whether filePath is a note of this collection.
func (p *PeriodicNotes) Includes(filePath string) bool {
	return p.IntervalOf(filePath).IsValid()
}

// NoteFor returns the path of the note whose interval is named after t. When
// the duration is negative a note's interval ends at its named date, so the
// name is taken from t - offset - duration.
func (p *PeriodicNotes) NoteFor(t time.Time) string {
	named := p.offset.Neg().AddTo(t.In(p.loc))
	if p.duration.IsNegative() {
		// Step from the start of the named unit so month ends do not
		// overflow: Jan 30 + 1 month would be Mar 2.
		if floor, err := p.layout.Parse(p.layout.Format(named), p.loc); err == nil {
			named = floor
		}
		named = p.duration.Neg().AddTo(named)
	}
	name := p.layout.Format(named) + ".md"
	if p.folder == "/" {
		return "/" + name
	}
	return p.folder + "/" + name
}
