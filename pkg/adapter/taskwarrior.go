package adapter

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/stefanpenner/bujo/pkg/task"
)

// Taskwarrior statuses.
const (
	TWPending   = "pending"
	TWCompleted = "completed"
	TWWaiting   = "waiting"
	TWDeleted   = "deleted"
	TWRecurring = "recurring"
)

const twTimeLayout = "20060102T150405Z"

// TWTime is a Taskwarrior timestamp, always UTC.
type TWTime struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *TWTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(twTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parsing Taskwarrior time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (t TWTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Time.UTC().Format(twTimeLayout) + `"`), nil
}

func (t *TWTime) value() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}

// TWList decodes both a JSON array and the comma separated string older
// Taskwarrior versions export.
type TWList []string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *TWList) UnmarshalJSON(b []byte) error {
	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
		return nil
	}

	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return fmt.Errorf("decoding Taskwarrior list: %w", err)
	}
	*l = nil
	for _, item := range strings.Split(joined, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// TWTask is one task of `task export`.
type TWTask struct {
	UUID        string   `json:"uuid"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Entry       *TWTime  `json:"entry,omitempty"`
	Modified    *TWTime  `json:"modified,omitempty"`
	Due         *TWTime  `json:"due,omitempty"`
	Scheduled   *TWTime  `json:"scheduled,omitempty"`
	Wait        *TWTime  `json:"wait,omitempty"`
	Start       *TWTime  `json:"start,omitempty"`
	End         *TWTime  `json:"end,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Project     string   `json:"project,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Depends     TWList   `json:"depends,omitempty"`
	Recur       string   `json:"recur,omitempty"`
}

// ParseTaskwarrior reads the output of `task export`: either one JSON array or a
// stream of JSON objects, one per line, as hooks receive them.
func ParseTaskwarrior(r io.Reader) ([]TWTask, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading Taskwarrior export: %w", err)
	}

	decoder := json.NewDecoder(br)
	if first == '[' {
		var tasks []TWTask
		if err := decoder.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("decoding Taskwarrior export: %w", err)
		}
		return tasks, nil
	}

	var tasks []TWTask
	for {
		var tw TWTask
		if err := decoder.Decode(&tw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding Taskwarrior task: %w", err)
		}
		tasks = append(tasks, tw)
	}
	return tasks, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

var twPriorities = map[string]task.Priority{
	"H": task.PriorityHigh,
	"M": task.PriorityMedium,
	"L": task.PriorityLow,
}

// Taskwarrior returns the partial task described by tw. Completion and deletion
// both use the end time as their date. The wait date, or else the start time,
// becomes the start date. Tags gain a leading '#'.
func Taskwarrior(tw TWTask) task.Part {
	part := task.Part{
		Description:    strings.TrimSpace(tw.Description),
		RecurrenceRule: tw.Recur,
		ID:             tw.UUID,
	}

	switch tw.Status {
	case TWCompleted:
		part.Status = task.StatusMarked{Kind: task.StatusDone, Symbol: "x"}
		part.Dates.Done = tw.End.value()
	case TWDeleted:
		part.Status = task.StatusMarked{Kind: task.StatusCancelled, Symbol: "-"}
		part.Dates.Cancelled = tw.End.value()
	case TWPending, TWWaiting, TWRecurring:
		part.Status = task.StatusMarked{Kind: task.StatusOpen, Symbol: " "}
	}

	part.Dates.Created = tw.Entry.value()
	part.Dates.Due = tw.Due.value()
	part.Dates.Scheduled = tw.Scheduled.value()
	part.Dates.Start = tw.Wait.value()
	if part.Dates.Start.IsZero() {
		part.Dates.Start = tw.Start.value()
	}

	if p, ok := twPriorities[strings.ToUpper(tw.Priority)]; ok {
		part.Priority = p.Ptr()
	}

	if len(tw.Tags) > 0 {
		part.Tags = task.Set{}
		for _, tag := range tw.Tags {
			part.Tags["#"+strings.TrimPrefix(tag, "#")] = struct{}{}
		}
	}
	if len(tw.Depends) > 0 {
		part.DependsOn = task.NewSet(tw.Depends...)
	}
	return part
}
