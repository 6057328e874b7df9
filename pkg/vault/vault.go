package vault

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stefanpenner/bujo/pkg/adapter"
	"github.com/stefanpenner/bujo/pkg/collection"
	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/store"
	"github.com/stefanpenner/bujo/pkg/task"
)

// Vault reads tasks out of the notes of a store.
type Vault struct {
	Store  *store.Store
	Index  *Index
	Parser task.Parser
}

// Open indexes the notes under root.
func Open(root string, parser task.Parser, collections ...collection.Collection) (*Vault, error) {
	s, err := store.NewStore(root)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndex(collections...)
	if err != nil {
		return nil, err
	}

	v := &Vault{Store: s, Index: idx, Parser: parser}
	if err := v.Refresh(); err != nil {
		return nil, err
	}
	return v, nil
}

// Refresh rescans the store.
func (v *Vault) Refresh() error {
	notes, err := v.Store.ListNotes()
	if err != nil {
		return fmt.Errorf("indexing vault: %w", err)
	}
	v.Index.SetFiles(notes)
	return nil
}

// Tasks returns the tasks of one note. Notes outside every collection have no
// page day; a note claimed by several collections is an error.
func (v *Vault) Tasks(notePath string) ([]task.Task, error) {
	doc, err := v.Store.LoadNote(notePath)
	if err != nil {
		return nil, err
	}

	_, iv, err := v.Index.Resolve(doc.Path)
	if err != nil && !errors.Is(err, ErrNoCollection) {
		return nil, err
	}
	return adapter.Tasks(v.Parser, doc, iv), nil
}

// TasksIn returns the tasks of every note of a collection whose interval
// overlaps iv, ordered by note.
func (v *Vault) TasksIn(id string, iv interval.Interval) ([]task.Task, error) {
	notes, err := v.Index.NotesInInterval(id, iv)
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	for _, n := range notes {
		doc, err := v.Store.LoadNote(n.Path)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, adapter.Tasks(v.Parser, doc, n.Interval)...)
	}
	return tasks, nil
}

// AllTasks returns the tasks of every note. Notes that fail to load and notes
// claimed by several collections are reported in the joined error; the tasks of
// every other note are still returned.
func (v *Vault) AllTasks() ([]task.Task, error) {
	var (
		tasks []task.Task
		errs  []error
	)
	for _, p := range v.Index.Files() {
		t, err := v.Tasks(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tasks = append(tasks, t...)
	}
	return tasks, errors.Join(errs...)
}

// Split partitions tasks into pending and completed ones, each sorted by start
// time. Tasks that are neither, such as non-task checkboxes, are dropped.
func Split(tasks []task.Task) (pending, completed []task.Task) {
	for _, t := range tasks {
		switch {
		case t.IsPending():
			pending = append(pending, t)
		case t.IsCompleted():
			completed = append(completed, t)
		}
	}
	slices.SortStableFunc(pending, task.ByStartTime)
	slices.SortStableFunc(completed, task.ByStartTime)
	return pending, completed
}
