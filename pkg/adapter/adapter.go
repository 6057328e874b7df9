// Package adapter turns the records of other systems into partial tasks.
package adapter

import (
	"strings"
	"time"

	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/markdown"
	"github.com/stefanpenner/bujo/pkg/task"
)

// StatusOf classifies a checkbox symbol. x and X are done, a blank box is open,
// and any other symbol, such as - or > or /, counts as cancelled.
func StatusOf(symbol string) task.StatusMarked {
	switch symbol {
	case "x", "X":
		return task.StatusMarked{Kind: task.StatusDone, Symbol: symbol}
	case " ", "":
		return task.StatusMarked{Kind: task.StatusOpen, Symbol: " "}
	}
	return task.StatusMarked{Kind: task.StatusCancelled, Symbol: symbol}
}

// ListItem returns the structural metadata of a checkbox item in doc: its status,
// where it lives and its tags.
func ListItem(doc *markdown.Document, item markdown.ListItem) task.Part {
	return task.Part{
		Status: StatusOf(item.Symbol),
		Source: task.PageSource{
			Path:       doc.Path,
			Name:       doc.Name(),
			Section:    item.Section,
			LineNumber: item.Line,
			StartByte:  item.StartByte,
			StopByte:   item.StopByte,
			Href:       href(doc.Path, item.Section),
		},
		Tags: task.NewSet(item.Tags...),
	}
}

// Page returns what a page says about every task on it. The page's day, taken
// from its frontmatter or else from iv, becomes the scheduled date. A
// frontmatter day is a calendar day: it is placed in the zone of iv, or in loc
// when iv is invalid. A nil loc means local time.
func Page(doc *markdown.Document, iv interval.Interval, loc *time.Location) task.Part {
	var part task.Part
	day := doc.Frontmatter.PageDay()
	switch {
	case !day.IsZero():
		if iv.IsValid() {
			loc = iv.Start.Location()
		} else if loc == nil {
			loc = time.Local
		}
		y, m, d := day.Date()
		part.Dates.Scheduled = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case iv.IsValid():
		part.Dates.Scheduled = iv.Start
	}
	return part
}

// Build parses text and merges the result with parts. Parsed values take
// precedence over the structural ones.
func Build(text string, parts ...task.Part) task.Task {
	return BuildWith(task.Parser{}, text, parts...)
}

// BuildWith is Build with an explicit parser.
func BuildWith(p task.Parser, text string, parts ...task.Part) task.Task {
	return task.Merge(append([]task.Part{p.Parse(text)}, parts...)...)
}

// Tasks builds a task for every checkbox item of doc. iv is the interval doc
// covers, and may be invalid when the page is not a periodic note.
func Tasks(p task.Parser, doc *markdown.Document, iv interval.Interval) []task.Task {
	page := Page(doc, iv, p.Location)
	tasks := make([]task.Task, 0, len(doc.Items))
	for _, item := range doc.Items {
		tasks = append(tasks, BuildWith(p, item.Text, ListItem(doc, item), page))
	}
	return tasks
}

func href(notePath, section string) string {
	link := strings.ReplaceAll(notePath, "|", `\|`)
	if section != "" {
		link += "#" + section
	}
	return "[[" + link + "]]"
}
