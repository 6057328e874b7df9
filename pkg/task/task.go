// Package task defines the canonical task record, the partial records observed from
// individual sources, the emoji marker parser and the precedence merge that folds
// partial records into one task.
package task

import (
	"maps"
	"slices"
	"time"
)

// Priority ranks urgency from 0 (highest) to 5 (lowest).
type Priority int

const (
	PriorityHighest Priority = 0
	PriorityHigh    Priority = 1
	PriorityMedium  Priority = 2
	PriorityNormal  Priority = 3
	PriorityLow     Priority = 4
	PriorityLowest  Priority = 5
)

// DefaultPriority is the priority of tasks without a priority marker.
const DefaultPriority = PriorityNormal

// Ptr returns a pointer to p, for building partial records.
func (p Priority) Ptr() *Priority {
	return &p
}

func (p Priority) String() string {
	switch p {
	case PriorityHighest:
		return "highest"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityLowest:
		return "lowest"
	}
	return "unknown"
}

// StatusKind classifies a known status.
type StatusKind int

const (
	StatusOpen StatusKind = iota
	StatusDone
	StatusCancelled
	StatusNonTask
)

func (k StatusKind) String() string {
	switch k {
	case StatusOpen:
		return "open"
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	case StatusNonTask:
		return "non-task"
	}
	return "unknown"
}

// Status is either StatusUnknown or StatusMarked.
type Status interface {
	isStatus()
}

// StatusUnknown is the status of a task no source has classified yet.
type StatusUnknown struct{}

// StatusMarked is a status read from a checkbox symbol.
type StatusMarked struct {
	Kind   StatusKind
	Symbol string
}

func (StatusUnknown) isStatus() {}
func (StatusMarked) isStatus()  {}

// Source is either SourceUnknown or PageSource.
type Source interface {
	isSource()
}

// SourceUnknown is the source of a task whose origin is not known.
type SourceUnknown struct{}

// PageSource locates a task inside a markdown page.
type PageSource struct {
	Path       string
	Name       string
	Section    string // heading the task lives under; empty when absent
	LineNumber int
	StartByte  int
	StopByte   int
	Href       string
}

func (SourceUnknown) isSource() {}
func (PageSource) isSource()    {}

// Dates holds the calendar dates of a task. The zero time means unset.
type Dates struct {
	Cancelled time.Time
	Created   time.Time
	Done      time.Time
	Due       time.Time
	Scheduled time.Time
	Start     time.Time
}

// Times holds the time-of-day range of a task. Only the clock is meaningful; the
// zero time means unset.
type Times struct {
	Start time.Time
	End   time.Time
}

// Set is an unordered set of strings.
type Set map[string]struct{}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has reports whether item is in the set.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Union returns a new set with the members of s and o.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	maps.Copy(out, s)
	maps.Copy(out, o)
	return out
}

// Task is the canonical record of one logical task.
type Task struct {
	Status         Status
	Source         Source
	Dates          Dates
	Times          Times
	Description    string
	Priority       Priority
	RecurrenceRule string
	Tags           Set
	ID             string
	DependsOn      Set
}

// Part is a partial observation of a task. Absent fields hold nil, the zero time,
// or the empty string.
type Part struct {
	Status         Status
	Source         Source
	Dates          Dates
	Times          Times
	Description    string
	Priority       *Priority
	RecurrenceRule string
	Tags           Set
	ID             string
	DependsOn      Set
}

// Default returns the task with every field at its default value.
func Default() Task {
	return Task{
		Status:    StatusUnknown{},
		Source:    SourceUnknown{},
		Priority:  DefaultPriority,
		Tags:      Set{},
		DependsOn: Set{},
	}
}

// IsCompleted reports whether the task is done or cancelled.
func (t Task) IsCompleted() bool {
	s, ok := t.Status.(StatusMarked)
	return ok && (s.Kind == StatusDone || s.Kind == StatusCancelled)
}

// IsPending reports whether the task is open.
func (t Task) IsPending() bool {
	s, ok := t.Status.(StatusMarked)
	return ok && s.Kind == StatusOpen
}

// ByStartTime orders tasks by their start time of day. Tasks without a start time
// sort last, keeping their relative order.
func ByStartTime(a, b Task) int {
	as, bs := a.Times.Start, b.Times.Start
	switch {
	case as.IsZero() && bs.IsZero():
		return 0
	case as.IsZero():
		return 1
	case bs.IsZero():
		return -1
	}
	return clockOf(as).Compare(clockOf(bs))
}

func clockOf(t time.Time) time.Time {
	h, m, s := t.Clock()
	return time.Date(0, 1, 1, h, m, s, t.Nanosecond(), time.UTC)
}
