package tui

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/bujo/pkg/collection"
	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/markdown"
	gsync "github.com/stefanpenner/bujo/pkg/sync"
	"github.com/stefanpenner/bujo/pkg/task"
	"github.com/stefanpenner/bujo/pkg/vault"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct {
	Paths []string // vault-relative notes that changed
}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Err error
}

// Model is the Bubble Tea model showing the tasks of one periodic note.
type Model struct {
	vault  *vault.Vault
	logs   []collection.Collection
	keys   KeyMap
	now    func() time.Time
	width  int
	height int

	// The shown note is the note of logs[activeLog] covering anchor.
	activeLog  int
	anchor     time.Time
	notePath   string
	interval   interval.Interval
	noteExists bool
	noteBody   string

	pending      []task.Task
	completed    []task.Task
	visibleItems []TaskItem
	cursor       int

	showHelpModal bool
	showNote      bool
	renderer      *NoteRenderer

	// Input mode (for adding tasks)
	isInputMode  bool
	textInput    textinput.Model
	inputSection string

	// Status message
	statusMsg     string
	statusTimeout time.Time
}

// NewModel creates a new TUI model over the periodic logs of v, opened on the
// note covering the current time.
func NewModel(v *vault.Vault) Model {
	return NewModelAt(v, time.Now)
}

// NewModelAt is like NewModel but reads the time from now, both for the note
// it opens on and for completion dates.
func NewModelAt(v *vault.Vault, now func() time.Time) Model {
	ti := textinput.New()
	ti.Placeholder = "task  📅 due  ⏳ scheduled  🔼 priority"
	ti.CharLimit = 256

	return Model{
		vault:     v,
		logs:      v.Index.Collections(),
		keys:      DefaultKeyMap(),
		now:       now,
		anchor:    now(),
		textInput: ti,
		renderer:  NewNoteRenderer("dark"),
	}
}

// SelectLog makes the periodic log with the given id the shown one.
func (m *Model) SelectLog(id string) error {
	for i, c := range m.logs {
		if c.ID() == id {
			m.activeLog = i
			return nil
		}
	}
	return vault.ErrUnknownCollection
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width / 2
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reloadKeepingCursor()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.refresh()
		}
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.setStatus("Editor failed: " + msg.Err.Error())
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Update text input if in input mode
	if m.isInputMode {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Input mode handling
	if m.isInputMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.isInputMode = false
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.textInput.Value())
			if text != "" {
				m.addTask(text)
			}
			m.isInputMode = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Space):
		if item, ok := m.selected(); ok {
			m.toggle(item)
		}

	case key.Matches(msg, m.keys.Tab):
		if len(m.logs) > 0 {
			m.activeLog = (m.activeLog + 1) % len(m.logs)
			m.cursor = 0
			m.reload()
		}

	case key.Matches(msg, m.keys.NextInterval):
		m.step(1)

	case key.Matches(msg, m.keys.PrevInterval):
		m.step(-1)

	case key.Matches(msg, m.keys.Today):
		m.anchor = m.now()
		m.cursor = 0
		m.reload()

	case key.Matches(msg, m.keys.Add):
		return m, m.enterInputMode("")

	case key.Matches(msg, m.keys.AddSection):
		section := ""
		if item, ok := m.selected(); ok {
			section = item.Section
		}
		return m, m.enterInputMode(section)

	case key.Matches(msg, m.keys.ExternalEdit):
		return m, m.openEditor()

	case key.Matches(msg, m.keys.NoteView):
		m.showNote = !m.showNote

	case key.Matches(msg, m.keys.Reload):
		m.refresh()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		return m, m.doSync()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

func (m *Model) enterInputMode(section string) tea.Cmd {
	if len(m.logs) == 0 {
		return nil
	}
	m.isInputMode = true
	m.inputSection = section
	m.textInput.Reset()
	m.textInput.Focus()
	return textinput.Blink
}

// moveCursor moves by delta rows, skipping section headers.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.visibleItems); i += delta {
		if !m.visibleItems[i].IsSectionHeader {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (TaskItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return TaskItem{}, false
	}
	item := m.visibleItems[m.cursor]
	if item.IsSectionHeader || item.Line < 0 {
		return TaskItem{}, false
	}
	return item, true
}

func (m *Model) toggle(item TaskItem) {
	src, ok := item.Task.Source.(task.PageSource)
	if !ok {
		return
	}
	if _, err := m.vault.Store.ToggleTask(src.Path, item.Line, m.now()); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.reloadKeepingCursor()
}

func (m *Model) addTask(text string) {
	if _, err := m.vault.Store.AddTask(m.notePath, m.inputSection, text); err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.vault.Index.AddFile(m.notePath)
	m.setStatus("Added: " + text)
	m.reloadKeepingCursor()
}

// step moves to the previous or next note of the active log.
func (m *Model) step(delta int) {
	if !m.interval.IsValid() {
		if len(m.logs) > 0 {
			m.setStatus("Cannot step: " + m.interval.Explanation())
		}
		return
	}
	if delta > 0 {
		m.anchor = m.interval.End
	} else {
		m.anchor = m.interval.Start.Add(-time.Nanosecond)
	}
	m.cursor = 0
	m.reload()
}

// refresh rescans the vault, then reloads the shown note.
func (m *Model) refresh() {
	if err := m.vault.Refresh(); err != nil {
		m.setStatus("Load error: " + err.Error())
	}
	m.reloadKeepingCursor()
}

func (m *Model) reloadKeepingCursor() {
	var curID string
	if m.cursor >= 0 && m.cursor < len(m.visibleItems) {
		curID = m.visibleItems[m.cursor].ID
	}
	m.reload()
	if i := IndexOf(m.visibleItems, curID); curID != "" && i >= 0 {
		m.cursor = i
	}
}

func (m *Model) reload() {
	m.pending, m.completed = nil, nil
	m.noteBody = ""
	if len(m.logs) == 0 {
		m.notePath = ""
		m.interval = interval.Invalidf(collection.ReasonFolder, "no periodic logs configured")
		m.rebuildVisible()
		return
	}

	log := m.logs[m.activeLog]
	m.notePath = strings.TrimPrefix(log.NoteFor(m.anchor), "/")
	m.interval = log.IntervalOf(m.notePath)
	m.noteExists = m.vault.Store.Exists(m.notePath)

	if m.noteExists {
		if doc, err := m.vault.Store.LoadNote(m.notePath); err == nil {
			m.noteBody = doc.Body
		}
		tasks, err := m.vault.Tasks(m.notePath)
		if err != nil {
			m.setStatus("Load error: " + err.Error())
		} else {
			m.pending, m.completed = vault.Split(tasks)
		}
	}
	m.rebuildVisible()
}

func (m *Model) rebuildVisible() {
	m.visibleItems = BuildTaskItems(m.pending, m.completed)
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 || m.visibleItems[m.cursor].IsSectionHeader {
		m.cursor = FirstTask(m.visibleItems)
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = m.now().Add(3 * time.Second)
}

// openEditor opens the shown note in $EDITOR, creating it first if needed.
func (m *Model) openEditor() tea.Cmd {
	if m.notePath == "" {
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	if !m.noteExists {
		if _, err := m.vault.Store.CreateNote(m.notePath, markdown.Frontmatter{}); err != nil {
			m.setStatus("Error creating note: " + err.Error())
			return nil
		}
		m.vault.Index.AddFile(m.notePath)
		m.noteExists = true
	}

	c := exec.Command(editor, m.vault.Store.FilePath(m.notePath))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func (m Model) doSync() tea.Cmd {
	repo := gsync.Repo{Dir: m.vault.Store.Root}
	now := m.now()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		err := repo.Sync(ctx, now)
		if errors.Is(err, gsync.ErrNotRepo) {
			err = errors.New("vault is not a git repository, run 'bujo sync init' first")
		}
		return SyncDoneMsg{Err: err}
	}
}
