package markdown

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	checkboxPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\[(.)\](?:\s+(.*?))?\s*$`)
	headingPattern  = regexp.MustCompile(`^#{1,6}\s+(.*?)\s*$`)
	tagPattern      = regexp.MustCompile(`(?:^|\s)(#[\p{L}\p{N}_/-]*[\p{L}_/-][\p{L}\p{N}_/-]*)`)
)

// ListItem is one checkbox line of a note.
type ListItem struct {
	Symbol    string   // the character inside the brackets
	Text      string   // everything after the checkbox
	Section   string   // text of the closest heading above the item; empty when none
	Line      int      // zero-based line number within the file
	StartByte int      // offset of the first byte of the line
	StopByte  int      // offset just past the last byte of the line, newline excluded
	Tags      []string // #tags found in Text, in order of appearance
}

// Checked reports whether the checkbox holds anything but a space.
func (li ListItem) Checked() bool {
	return li.Symbol != " "
}

// Completed reports whether the checkbox is ticked with x or X.
func (li ListItem) Completed() bool {
	return li.Symbol == "x" || li.Symbol == "X"
}

// Document is a parsed note.
type Document struct {
	Path        string // slash-separated, relative to the vault root
	Frontmatter Frontmatter
	Body        string
	Items       []ListItem

	// FrontmatterErr is set when the frontmatter could not be read. The items
	// are scanned regardless.
	FrontmatterErr error
}

// Name returns the file name without directory and extension.
func (d *Document) Name() string {
	base := path.Base(d.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Parse reads the frontmatter and checkbox items of content. Items inside fenced
// code blocks are skipped.
func Parse(notePath, content string) *Document {
	fm, bodyStart, err := ParseFrontmatter(content)
	if err != nil {
		err = fmt.Errorf("parsing %s: %w", notePath, err)
	}

	return &Document{
		Path:           notePath,
		Frontmatter:    fm,
		Body:           content[bodyStart:],
		Items:          ListItems(content, bodyStart),
		FrontmatterErr: err,
	}
}

// ListItems scans content from byte offset from onwards and returns its checkbox
// items. Line numbers and byte offsets are relative to the start of content.
func ListItems(content string, from int) []ListItem {
	var (
		items   []ListItem
		section string
		fenced  bool
		line    int
		offset  int
	)

	for offset < len(content) {
		end := strings.IndexByte(content[offset:], '\n')
		next := len(content)
		if end >= 0 {
			end += offset
			next = end + 1
		} else {
			end = len(content)
		}
		stop := end
		if stop > offset && content[stop-1] == '\r' {
			stop--
		}
		text := content[offset:stop]

		if offset >= from {
			trimmed := strings.TrimSpace(text)
			switch {
			case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
				fenced = !fenced
			case fenced:
			case headingPattern.MatchString(text):
				section = headingPattern.FindStringSubmatch(text)[1]
			default:
				if m := checkboxPattern.FindStringSubmatch(text); m != nil {
					items = append(items, ListItem{
						Symbol:    m[1],
						Text:      m[2],
						Section:   section,
						Line:      line,
						StartByte: offset,
						StopByte:  stop,
						Tags:      Tags(m[2]),
					})
				}
			}
		}

		line++
		offset = next
	}
	return items
}

// Tags returns the #tags in text. A tag needs at least one non-digit character, so
// "#1" is not a tag.
func Tags(text string) []string {
	var tags []string
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return tags
}
