package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/stefanpenner/bujo/pkg/markdown"
)

// ErrNotATask is returned when a line does not hold a checkbox item.
var ErrNotATask = errors.New("not a task line")

const (
	noteExt    = ".md"
	doneMarker = "✅"
)

var doneMarkerPattern = regexp.MustCompile(`\s*` + doneMarker + `\s*\d{4}-\d{2}-\d{2}`)

// Store manages the markdown notes of a vault.
type Store struct {
	Root string // e.g., ~/notes
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory if it doesn't exist.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}
	return &Store{Root: root}, nil
}

// FilePath returns the absolute path of a vault-relative note path.
func (s *Store) FilePath(notePath string) string {
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(notePath, "/")))
}

// NotePath returns the vault-relative, slash separated path of an absolute file
// path. ok is false for files outside the vault or that are not notes.
func (s *Store) NotePath(filePath string) (notePath string, ok bool) {
	rel, err := filepath.Rel(s.Root, filePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !isNote(rel) {
		return "", false
	}
	return rel, true
}

func isNote(notePath string) bool {
	if path.Ext(notePath) != noteExt {
		return false
	}
	for _, part := range strings.Split(notePath, "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}

// ListNotes returns the paths of every note in the vault, sorted. Hidden files
// and directories, such as .obsidian and .git, are skipped.
func (s *Store) ListNotes() ([]string, error) {
	var notes []string
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == s.Root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if p != s.Root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if notePath, ok := s.NotePath(p); ok {
			notes = append(notes, notePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	slices.Sort(notes)
	return notes, nil
}

// Exists reports whether the note exists.
func (s *Store) Exists(notePath string) bool {
	info, err := os.Stat(s.FilePath(notePath))
	return err == nil && !info.IsDir()
}

// LoadNote reads and parses a single note.
func (s *Store) LoadNote(notePath string) (*markdown.Document, error) {
	notePath = strings.TrimPrefix(notePath, "/")
	data, err := os.ReadFile(s.FilePath(notePath))
	if err != nil {
		return nil, fmt.Errorf("reading note %s: %w", notePath, err)
	}
	return markdown.Parse(notePath, string(data)), nil
}

// LoadNotes reads every note in the vault. Notes that cannot be read are skipped;
// a note with broken frontmatter keeps its items.
func (s *Store) LoadNotes() ([]*markdown.Document, error) {
	paths, err := s.ListNotes()
	if err != nil {
		return nil, err
	}

	docs := make([]*markdown.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := s.LoadNote(p)
		if err != nil {
			continue // skip unreadable notes
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CreateNote writes a new note with the given frontmatter and an empty body.
func (s *Store) CreateNote(notePath string, fm markdown.Frontmatter) (*markdown.Document, error) {
	if s.Exists(notePath) {
		return nil, fmt.Errorf("note %s already exists", notePath)
	}

	content := ""
	if fm.Title != "" || !fm.Date.IsZero() || !fm.Day.IsZero() || len(fm.Tags) > 0 || len(fm.Aliases) > 0 {
		var err error
		if content, err = markdown.SerializeFrontmatter(fm, ""); err != nil {
			return nil, fmt.Errorf("serializing note %s: %w", notePath, err)
		}
	}
	if err := s.write(notePath, content); err != nil {
		return nil, err
	}
	return s.LoadNote(notePath)
}

// AddTask appends an open task to a note, creating the note if needed. When
// section is set the task goes right below that heading, which is added at the
// end of the note if missing.
func (s *Store) AddTask(notePath, section, text string) (*markdown.Document, error) {
	content, err := s.read(notePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	item := "- [ ] " + strings.TrimSpace(text) + "\n"
	header := "## " + section

	switch {
	case section == "":
		content = appendLine(content, item)
	case hasLine(content, header):
		idx := lineIndex(content, header)
		afterHeader := idx + len(header)
		nlIdx := strings.Index(content[afterHeader:], "\n")
		if nlIdx == -1 {
			content += "\n" + item
		} else {
			insertAt := afterHeader + nlIdx + 1
			content = content[:insertAt] + item + content[insertAt:]
		}
	default:
		if content != "" {
			content = appendLine(content, "\n")
		}
		content += header + "\n" + item
	}

	if err := s.write(notePath, content); err != nil {
		return nil, err
	}
	return s.LoadNote(notePath)
}

// ToggleTask ticks an open task, stamping it with a done date, or reopens a
// ticked one, removing its done date. line is the zero-based line number.
func (s *Store) ToggleTask(notePath string, line int, today time.Time) (*markdown.Document, error) {
	content, err := s.read(notePath)
	if err != nil {
		return nil, err
	}
	doc := markdown.Parse(notePath, content)

	idx := slices.IndexFunc(doc.Items, func(item markdown.ListItem) bool { return item.Line == line })
	if idx == -1 {
		return nil, fmt.Errorf("%s:%d: %w", notePath, line+1, ErrNotATask)
	}
	item := doc.Items[idx]

	text := content[item.StartByte:item.StopByte]
	box := strings.Index(text, "["+item.Symbol+"]")
	head, tail := text[:box], text[box+len(item.Symbol)+2:]

	if item.Checked() {
		text = head + "[ ]" + doneMarkerPattern.ReplaceAllString(tail, "")
	} else {
		text = head + "[x]" + strings.TrimRight(tail, " \t") + " " + doneMarker + " " + today.Format(time.DateOnly)
	}

	content = content[:item.StartByte] + text + content[item.StopByte:]
	if err := s.write(notePath, content); err != nil {
		return nil, err
	}
	return markdown.Parse(doc.Path, content), nil
}

func (s *Store) read(notePath string) (string, error) {
	data, err := os.ReadFile(s.FilePath(notePath))
	if err != nil {
		return "", fmt.Errorf("reading note %s: %w", notePath, err)
	}
	return string(data), nil
}

func (s *Store) write(notePath, content string) error {
	filePath := s.FilePath(notePath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing note %s: %w", notePath, err)
	}
	return nil
}

func appendLine(content, line string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line
}

func hasLine(content, line string) bool {
	return lineIndex(content, line) >= 0
}

// lineIndex returns the offset of the first line equal to line, or -1.
func lineIndex(content, line string) int {
	offset := 0
	for {
		end := strings.IndexByte(content[offset:], '\n')
		var current string
		if end == -1 {
			current = content[offset:]
		} else {
			current = content[offset : offset+end]
		}
		if strings.TrimRight(current, " \t\r") == line {
			return offset
		}
		if end == -1 {
			return -1
		}
		offset += end + 1
	}
}
