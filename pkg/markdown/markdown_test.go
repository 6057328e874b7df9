package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, fm Frontmatter, body string)
	}{
		{
			name: "date and tags",
			input: `---
title: Monday
date: 2024-01-01
tags: [log, work]
---

- [ ] task
`,
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.Equal(t, "Monday", fm.Title)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), fm.Date)
				assert.Equal(t, []string{"log", "work"}, fm.Tags)
				assert.Equal(t, "\n- [ ] task\n", body)
			},
		},
		{
			name:  "day wins over date",
			input: "---\ndate: 2024-01-01\nday: 2024-02-02\n---\n",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), fm.PageDay())
				assert.Empty(t, body)
			},
		},
		{
			name:  "empty frontmatter",
			input: "---\n---\nbody",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.Equal(t, Frontmatter{}, fm)
				assert.Equal(t, "body", body)
			},
		},
		{
			name:  "no frontmatter",
			input: "Just some notes without frontmatter.",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.True(t, fm.PageDay().IsZero())
				assert.Equal(t, "Just some notes without frontmatter.", body)
			},
		},
		{
			name:  "single tag and quoted date",
			input: "---\ntags: daily\ndate: \"2024-01-03\"\n---\n",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.Equal(t, []string{"daily"}, fm.Tags)
				assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), fm.Date)
			},
		},
		{
			name:  "comma separated tags and aliases",
			input: "---\ntags: log, work\naliases: Wednesday\nday: 2024-01-03 09:30\n---\n",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.Equal(t, []string{"log", "work"}, fm.Tags)
				assert.Equal(t, []string{"Wednesday"}, fm.Aliases)
				assert.Equal(t, time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC), fm.Day)
			},
		},
		{
			name:  "unreadable date and empty tags",
			input: "---\ndate: someday\ntags:\n---\n",
			check: func(t *testing.T, fm Frontmatter, body string) {
				assert.True(t, fm.Date.IsZero())
				assert.Nil(t, fm.Tags)
			},
		},
		{
			name:    "tags as a mapping",
			input:   "---\ntags:\n  a: b\n---\n",
			wantErr: true,
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ntitle: broken\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "---\ntags: [unclosed\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, bodyStart, err := ParseFrontmatter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, fm, tt.input[bodyStart:])
		})
	}
}

func TestSerializeFrontmatterRoundTrip(t *testing.T) {
	fm := Frontmatter{
		Title: "Sprint 12",
		Date:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Tags:  []string{"sprint"},
	}

	out, err := SerializeFrontmatter(fm, "- [ ] plan")
	require.NoError(t, err)

	got, bodyStart, err := ParseFrontmatter(out)
	require.NoError(t, err)
	assert.Equal(t, fm, got)
	assert.Equal(t, "- [ ] plan\n", out[bodyStart:])
}

func TestParseKeepsItemsWhenFrontmatterFails(t *testing.T) {
	doc := Parse("inbox.md", "---\ntags: [unclosed\n---\n- [ ] water plants\n")
	require.Error(t, doc.FrontmatterErr)
	assert.Contains(t, doc.FrontmatterErr.Error(), "inbox.md")
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "water plants", doc.Items[0].Text)
	assert.Equal(t, 3, doc.Items[0].Line)
	assert.Equal(t, "- [ ] water plants\n", doc.Body)

	unclosed := Parse("inbox.md", "---\n- [ ] no closing line\n")
	require.Error(t, unclosed.FrontmatterErr)
	require.Len(t, unclosed.Items, 1)
	assert.Equal(t, 1, unclosed.Items[0].Line)
}

func TestListItems(t *testing.T) {
	content := "---\ndate: 2024-01-01\n---\n" +
		"- [ ] before any heading\n" +
		"## Work\n" +
		"- [x] shipped #release\n" +
		"  * [-] dropped\n" +
		"1. [>] forwarded #later #1\n" +
		"- not a task\n" +
		"```\n" +
		"- [ ] inside code\n" +
		"```\n" +
		"# Home\n" +
		"+ [X]   water plants   \r\n" +
		"- [ ]"

	doc := Parse("Daily/2024-01-01.md", content)
	require.NoError(t, doc.FrontmatterErr)
	assert.Equal(t, "2024-01-01", doc.Name())

	var got []ListItem
	for _, item := range doc.Items {
		item.StartByte, item.StopByte = 0, 0
		got = append(got, item)
	}

	assert.Equal(t, []ListItem{
		{Symbol: " ", Text: "before any heading", Line: 3},
		{Symbol: "x", Text: "shipped #release", Section: "Work", Line: 5, Tags: []string{"#release"}},
		{Symbol: "-", Text: "dropped", Section: "Work", Line: 6},
		{Symbol: ">", Text: "forwarded #later #1", Section: "Work", Line: 7, Tags: []string{"#later"}},
		{Symbol: "X", Text: "water plants", Section: "Home", Line: 13},
		{Symbol: " ", Text: "", Section: "Home", Line: 14},
	}, got)
}

func TestListItemOffsets(t *testing.T) {
	content := "# Today\n- [ ] one\n- [x] two\n"
	items := ListItems(content, 0)
	require.Len(t, items, 2)

	for _, item := range items {
		line := content[item.StartByte:item.StopByte]
		assert.Contains(t, line, item.Text)
		assert.NotContains(t, line, "\n")
	}
	assert.Equal(t, "- [ ] one", content[items[0].StartByte:items[0].StopByte])
	assert.Equal(t, 1, items[0].Line)
}

func TestListItemStatus(t *testing.T) {
	tests := []struct {
		symbol    string
		checked   bool
		completed bool
	}{
		{symbol: " ", checked: false, completed: false},
		{symbol: "x", checked: true, completed: true},
		{symbol: "X", checked: true, completed: true},
		{symbol: "-", checked: true, completed: false},
		{symbol: "/", checked: true, completed: false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			item := ListItem{Symbol: tt.symbol}
			assert.Equal(t, tt.checked, item.Checked())
			assert.Equal(t, tt.completed, item.Completed())
		})
	}
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"#a", "#b/c", "#été"}, Tags("#a and #b/c then #été"))
	assert.Nil(t, Tags("issue#12 and #42"))
}
