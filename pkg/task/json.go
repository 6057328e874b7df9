package task

import (
	"encoding/json"
	"time"
)

type jsonStatus struct {
	Kind   string `json:"kind"`
	Symbol string `json:"symbol,omitempty"`
}

type jsonSource struct {
	Kind       string `json:"kind"`
	Path       string `json:"path,omitempty"`
	Name       string `json:"name,omitempty"`
	Section    string `json:"section,omitempty"`
	LineNumber int    `json:"line,omitempty"`
	StartByte  int    `json:"startByte,omitempty"`
	StopByte   int    `json:"stopByte,omitempty"`
	Href       string `json:"href,omitempty"`
}

type jsonTask struct {
	Status         jsonStatus        `json:"status"`
	Source         jsonSource        `json:"source"`
	Dates          map[string]string `json:"dates,omitempty"`
	Times          map[string]string `json:"times,omitempty"`
	Description    string            `json:"description"`
	Priority       Priority          `json:"priority"`
	RecurrenceRule string            `json:"recurrenceRule,omitempty"`
	Tags           []string          `json:"tags"`
	ID             string            `json:"id,omitempty"`
	DependsOn      []string          `json:"dependsOn"`
}

// MarshalJSON renders the task with unset dates omitted.
func (t Task) MarshalJSON() ([]byte, error) {
	out := jsonTask{
		Description:    t.Description,
		Priority:       t.Priority,
		RecurrenceRule: t.RecurrenceRule,
		Tags:           append([]string{}, t.Tags.Sorted()...),
		ID:             t.ID,
		DependsOn:      append([]string{}, t.DependsOn.Sorted()...),
	}

	switch s := t.Status.(type) {
	case StatusMarked:
		out.Status = jsonStatus{Kind: s.Kind.String(), Symbol: s.Symbol}
	default:
		out.Status = jsonStatus{Kind: "unknown"}
	}

	switch s := t.Source.(type) {
	case PageSource:
		out.Source = jsonSource{
			Kind:       "page",
			Path:       s.Path,
			Name:       s.Name,
			Section:    s.Section,
			LineNumber: s.LineNumber,
			StartByte:  s.StartByte,
			StopByte:   s.StopByte,
			Href:       s.Href,
		}
	default:
		out.Source = jsonSource{Kind: "unknown"}
	}

	dates := map[string]time.Time{
		"cancelled": t.Dates.Cancelled,
		"created":   t.Dates.Created,
		"done":      t.Dates.Done,
		"due":       t.Dates.Due,
		"scheduled": t.Dates.Scheduled,
		"start":     t.Dates.Start,
	}
	for name, d := range dates {
		if !d.IsZero() {
			if out.Dates == nil {
				out.Dates = make(map[string]string)
			}
			out.Dates[name] = d.Format(time.RFC3339)
		}
	}

	for name, d := range map[string]time.Time{"start": t.Times.Start, "end": t.Times.End} {
		if !d.IsZero() {
			if out.Times == nil {
				out.Times = make(map[string]string)
			}
			out.Times[name] = d.Format("15:04:05")
		}
	}

	return json.Marshal(out)
}
