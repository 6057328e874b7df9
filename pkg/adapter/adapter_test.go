package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/markdown"
	"github.com/stefanpenner/bujo/pkg/task"
)

var utc = task.Parser{Location: time.UTC}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustDoc(t *testing.T, notePath, content string) *markdown.Document {
	t.Helper()
	doc := markdown.Parse(notePath, content)
	require.NoError(t, doc.FrontmatterErr)
	return doc
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		symbol string
		want   task.StatusMarked
	}{
		{symbol: " ", want: task.StatusMarked{Kind: task.StatusOpen, Symbol: " "}},
		{symbol: "x", want: task.StatusMarked{Kind: task.StatusDone, Symbol: "x"}},
		{symbol: "X", want: task.StatusMarked{Kind: task.StatusDone, Symbol: "X"}},
		{symbol: "-", want: task.StatusMarked{Kind: task.StatusCancelled, Symbol: "-"}},
		{symbol: ">", want: task.StatusMarked{Kind: task.StatusCancelled, Symbol: ">"}},
		{symbol: "/", want: task.StatusMarked{Kind: task.StatusCancelled, Symbol: "/"}},
		{symbol: "?", want: task.StatusMarked{Kind: task.StatusCancelled, Symbol: "?"}},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.symbol))
		})
	}
}

func TestListItem(t *testing.T) {
	doc := mustDoc(t, "Daily/2024-01-01.md", "## Work\n- [x] ship #release\n")
	require.Len(t, doc.Items, 1)

	got := ListItem(doc, doc.Items[0])
	assert.Equal(t, task.StatusMarked{Kind: task.StatusDone, Symbol: "x"}, got.Status)
	assert.Equal(t, task.PageSource{
		Path:       "Daily/2024-01-01.md",
		Name:       "2024-01-01",
		Section:    "Work",
		LineNumber: 1,
		StartByte:  8,
		StopByte:   27,
		Href:       "[[Daily/2024-01-01.md#Work]]",
	}, got.Source)
	assert.Equal(t, task.NewSet("#release"), got.Tags)
	assert.Empty(t, got.Description)
}

func TestPage(t *testing.T) {
	iv := interval.New(day(2024, 1, 1), day(2024, 1, 2))

	withDay := mustDoc(t, "Daily/2024-01-01.md", "---\nday: 2024-03-03\n---\n")
	assert.Equal(t, day(2024, 3, 3), Page(withDay, iv, nil).Dates.Scheduled)

	plain := mustDoc(t, "Daily/2024-01-01.md", "- [ ] x\n")
	assert.Equal(t, day(2024, 1, 1), Page(plain, iv, nil).Dates.Scheduled)

	notPeriodic := Page(plain, interval.Invalidf("invalid interval folder", "not a daily note"), time.UTC)
	assert.True(t, notPeriodic.Dates.Scheduled.IsZero())
}

func TestPageDayUsesTheNoteZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, ny)
	iv := interval.New(start, start.AddDate(0, 0, 1))

	doc := mustDoc(t, "Daily/2024-01-03.md", "---\ndate: 2024-01-03\n---\n- [ ] water plants\n")
	scheduled := Page(doc, iv, time.UTC).Dates.Scheduled
	assert.True(t, scheduled.Equal(start), "got %s", scheduled)
	assert.True(t, iv.Contains(scheduled))

	loose := mustDoc(t, "inbox.md", "---\ndate: 2024-01-03T22:00:00Z\n---\n")
	got := Page(loose, interval.Invalidf("invalid interval folder", "not periodic"), ny).Dates.Scheduled
	assert.True(t, got.Equal(start), "got %s", got)
}

func TestTasks(t *testing.T) {
	content := "# Morning\n" +
		"- [ ] 09:00 stand-up 🔼\n" +
		"- [x] write report #work ⏳ 2024-02-01\n" +
		"- [-] call bank\n"
	doc := mustDoc(t, "Daily/2024-01-01.md", content)
	iv := interval.New(day(2024, 1, 1), day(2024, 1, 2))

	tasks := Tasks(utc, doc, iv)
	require.Len(t, tasks, 3)

	standup := tasks[0]
	assert.Equal(t, "stand-up", standup.Description)
	assert.Equal(t, task.PriorityMedium, standup.Priority)
	assert.Equal(t, 9, standup.Times.Start.Hour())
	assert.Equal(t, day(2024, 1, 1), standup.Dates.Scheduled)
	assert.True(t, standup.IsPending())

	report := tasks[1]
	assert.Equal(t, "write report #work", report.Description)
	// The date in the text wins over the page's day.
	assert.Equal(t, day(2024, 2, 1), report.Dates.Scheduled)
	assert.True(t, report.Tags.Has("#work"))
	assert.True(t, report.IsCompleted())

	bank := tasks[2]
	assert.Equal(t, task.StatusMarked{Kind: task.StatusCancelled, Symbol: "-"}, bank.Status)
	src, ok := bank.Source.(task.PageSource)
	require.True(t, ok)
	assert.Equal(t, "Morning", src.Section)
	assert.Equal(t, 3, src.LineNumber)
}

func TestBuildParsedTextWins(t *testing.T) {
	structural := task.Part{
		Description: "from structure",
		Priority:    task.PriorityLow.Ptr(),
		Dates:       task.Dates{Due: day(2024, 9, 9)},
	}

	got := BuildWith(utc, "from text 🔺 📅 2024-01-05", structural)
	assert.Equal(t, "from text", got.Description)
	assert.Equal(t, task.PriorityHighest, got.Priority)
	assert.Equal(t, day(2024, 1, 5), got.Dates.Due)

	// Empty text leaves the structural values in place.
	got = BuildWith(utc, "", structural)
	assert.Equal(t, "from structure", got.Description)
	assert.Equal(t, task.PriorityLow, got.Priority)

	assert.Equal(t, task.Default(), Build(""))
}
