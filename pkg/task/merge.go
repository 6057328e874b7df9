package task

import "time"

// Merge folds parts into a task, left to right, starting from Default. For every
// field the first non-default value wins; sets are unioned. Merge never fails and
// never modifies its inputs.
func Merge(parts ...Part) Task {
	t := Default()
	for _, p := range parts {
		t = mergePart(t, p)
	}
	return t
}

func mergePart(t Task, p Part) Task {
	if p.Status != nil {
		t.Status = preferDefined(t.Status, p.Status, isUnknownStatus)
	}
	if p.Source != nil {
		t.Source = preferDefined(t.Source, p.Source, isUnknownSource)
	}
	if p.Priority != nil {
		t.Priority = preferDefined(t.Priority, *p.Priority, isDefaultPriority)
	}

	t.Dates.Cancelled = preferDefined(t.Dates.Cancelled, p.Dates.Cancelled, time.Time.IsZero)
	t.Dates.Created = preferDefined(t.Dates.Created, p.Dates.Created, time.Time.IsZero)
	t.Dates.Done = preferDefined(t.Dates.Done, p.Dates.Done, time.Time.IsZero)
	t.Dates.Due = preferDefined(t.Dates.Due, p.Dates.Due, time.Time.IsZero)
	t.Dates.Scheduled = preferDefined(t.Dates.Scheduled, p.Dates.Scheduled, time.Time.IsZero)
	t.Dates.Start = preferDefined(t.Dates.Start, p.Dates.Start, time.Time.IsZero)
	t.Times.Start = preferDefined(t.Times.Start, p.Times.Start, time.Time.IsZero)
	t.Times.End = preferDefined(t.Times.End, p.Times.End, time.Time.IsZero)

	t.Description = preferDefined(t.Description, p.Description, isEmpty)
	t.RecurrenceRule = preferDefined(t.RecurrenceRule, p.RecurrenceRule, isEmpty)
	t.ID = preferDefined(t.ID, p.ID, isEmpty)

	t.Tags = t.Tags.Union(p.Tags)
	t.DependsOn = t.DependsOn.Union(p.DependsOn)
	return t
}

// preferDefined keeps acc unless it still holds its default value.
func preferDefined[T any](acc, incoming T, isDefault func(T) bool) T {
	if !isDefault(acc) {
		return acc
	}
	return incoming
}

func isUnknownStatus(s Status) bool {
	_, unknown := s.(StatusUnknown)
	return s == nil || unknown
}

func isUnknownSource(s Source) bool {
	_, unknown := s.(SourceUnknown)
	return s == nil || unknown
}

func isDefaultPriority(p Priority) bool {
	return p == DefaultPriority
}

func isEmpty(s string) bool {
	return s == ""
}
