package tui

import (
	"strconv"

	"github.com/stefanpenner/bujo/pkg/task"
)

// Section header IDs.
const (
	headerPending   = "__header_pending"
	headerCompleted = "__header_completed"
)

// TaskItem is one row of the task list: a task or a section header.
type TaskItem struct {
	ID              string // header ID, or "path:line" for tasks
	Name            string
	Task            task.Task
	Line            int // zero-based line of the task in its note, -1 for headers
	Section         string
	IsSectionHeader bool
}

// BuildTaskItems lays out pending tasks above completed ones, each group under a
// section header. Empty groups get no header.
func BuildTaskItems(pending, completed []task.Task) []TaskItem {
	var result []TaskItem
	if len(pending) > 0 {
		result = append(result, TaskItem{ID: headerPending, Name: "PENDING", Line: -1, IsSectionHeader: true})
		result = appendTasks(result, pending)
	}
	if len(completed) > 0 {
		result = append(result, TaskItem{ID: headerCompleted, Name: "COMPLETED", Line: -1, IsSectionHeader: true})
		result = appendTasks(result, completed)
	}
	return result
}

func appendTasks(result []TaskItem, tasks []task.Task) []TaskItem {
	for _, t := range tasks {
		item := TaskItem{Name: t.Description, Task: t, Line: -1}
		if src, ok := t.Source.(task.PageSource); ok {
			item.Line = src.LineNumber
			item.Section = src.Section
			item.ID = src.Path + ":" + strconv.Itoa(src.LineNumber)
		}
		if item.Name == "" {
			item.Name = "(no description)"
		}
		result = append(result, item)
	}
	return result
}

// FirstTask returns the index of the first non-header row, or 0.
func FirstTask(items []TaskItem) int {
	for i, item := range items {
		if !item.IsSectionHeader {
			return i
		}
	}
	return 0
}

// IndexOf returns the index of the row with the given ID, or -1.
func IndexOf(items []TaskItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
