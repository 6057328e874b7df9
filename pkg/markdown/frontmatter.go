// Package markdown reads the parts of a markdown note that carry task metadata:
// the YAML frontmatter and the checkbox list items. It performs no I/O.
package markdown

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Frontmatter holds the frontmatter keys bujo understands. Unknown keys are ignored.
type Frontmatter struct {
	Title   string    `yaml:"title,omitempty"`
	Date    time.Time `yaml:"date,omitempty"`
	Day     time.Time `yaml:"day,omitempty"`
	Tags    []string  `yaml:"tags,omitempty"`
	Aliases []string  `yaml:"aliases,omitempty"`
}

var dayLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// UnmarshalYAML reads frontmatter the way Obsidian writes it: tags and aliases
// may be a single string or a list, and dates may be quoted. Dates that cannot
// be read are left unset.
func (f *Frontmatter) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Title   string    `yaml:"title"`
		Date    yaml.Node `yaml:"date"`
		Day     yaml.Node `yaml:"day"`
		Tags    yaml.Node `yaml:"tags"`
		Aliases yaml.Node `yaml:"aliases"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}

	tags, err := decodeList(&raw.Tags)
	if err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	aliases, err := decodeList(&raw.Aliases)
	if err != nil {
		return fmt.Errorf("aliases: %w", err)
	}

	*f = Frontmatter{
		Title:   raw.Title,
		Date:    decodeDay(&raw.Date),
		Day:     decodeDay(&raw.Day),
		Tags:    tags,
		Aliases: aliases,
	}
	return nil
}

func decodeDay(n *yaml.Node) time.Time {
	if n.Kind != yaml.ScalarNode {
		return time.Time{}
	}
	value := strings.TrimSpace(n.Value)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// decodeList accepts a sequence of strings or one string holding comma or space
// separated values.
func decodeList(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return strings.FieldsFunc(n.Value, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		}), nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: expected a string or a list", n.Line)
}

// PageDay returns the day the page is about: "day" if set, else "date".
func (f Frontmatter) PageDay() time.Time {
	if !f.Day.IsZero() {
		return f.Day
	}
	return f.Date
}

// SplitFrontmatter separates the YAML frontmatter from the rest of the note.
// bodyStart is the byte offset where the body begins; it is 0 when the note has no
// frontmatter.
func SplitFrontmatter(content string) (yamlContent string, bodyStart int, err error) {
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") && !strings.HasPrefix(content, frontmatterDelimiter+"\r\n") {
		return "", 0, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", 0, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent = rest[:idx]
	bodyStart = len(frontmatterDelimiter) + idx + len("\n"+frontmatterDelimiter)
	// Skip the remainder of the closing delimiter line.
	if nl := strings.IndexByte(content[bodyStart:], '\n'); nl >= 0 {
		bodyStart += nl + 1
	} else {
		bodyStart = len(content)
	}
	return yamlContent, bodyStart, nil
}

// ParseFrontmatter decodes the frontmatter of content. Notes without frontmatter
// yield the zero Frontmatter. When the YAML is invalid, bodyStart still points
// past the closing delimiter.
func ParseFrontmatter(content string) (Frontmatter, int, error) {
	yamlContent, bodyStart, err := SplitFrontmatter(content)
	if err != nil {
		return Frontmatter{}, 0, err
	}

	var fm Frontmatter
	if strings.TrimSpace(yamlContent) == "" {
		return fm, bodyStart, nil
	}
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return Frontmatter{}, bodyStart, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	return fm, bodyStart, nil
}

// SerializeFrontmatter renders fm and body back into a note.
func SerializeFrontmatter(fm Frontmatter, body string) (string, error) {
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if body != "" {
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
