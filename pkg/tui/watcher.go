package tui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/stefanpenner/bujo/pkg/vault"
)

// Sender delivers messages to a running program, such as *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

const debounce = 200 * time.Millisecond

// StartWatcher watches the vault for note changes. The vault index is updated
// as notes appear and disappear; a FileChangedMsg naming every changed note is
// sent once changes settle.
func StartWatcher(v *vault.Vault, program Sender) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	root := v.Store.Root
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			// Skip hidden dirs (like .git and .obsidian)
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var (
			mu            sync.Mutex
			changed       []string
			debounceTimer *time.Timer
		)
		flush := func() {
			mu.Lock()
			paths := changed
			changed = nil
			mu.Unlock()
			program.Send(FileChangedMsg{Paths: paths})
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// If a new directory was created, watch it too
				if event.Op&fsnotify.Create != 0 {
					info, err := os.Stat(event.Name)
					if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
						watcher.Add(event.Name)
						continue
					}
				}

				notePath, ok := applyEvent(v, event)
				if !ok {
					continue
				}

				mu.Lock()
				if !slices.Contains(changed, notePath) {
					changed = append(changed, notePath)
				}
				mu.Unlock()

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, flush)

			case <-watcher.Errors:
				// Ignore watcher errors silently

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}

// applyEvent updates the vault index for one filesystem event and returns the
// note it touched. ok is false for files that are not notes.
func applyEvent(v *vault.Vault, event fsnotify.Event) (notePath string, ok bool) {
	notePath, ok = v.Store.NotePath(event.Name)
	if !ok {
		return "", false
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		v.Index.RemoveFile(notePath)
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if v.Store.Exists(notePath) {
			v.Index.AddFile(notePath)
		}
	}
	return notePath, true
}
