// Package vault ties the notes of a vault to the collections that claim them.
package vault

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/stefanpenner/bujo/pkg/collection"
	"github.com/stefanpenner/bujo/pkg/interval"
)

var (
	// ErrAmbiguous is matched by *AmbiguousError.
	ErrAmbiguous = errors.New("note belongs to more than one collection")
	// ErrNoCollection is returned when no collection claims a note.
	ErrNoCollection = errors.New("note belongs to no collection")
	// ErrUnknownCollection is returned for collection ids the index does not know.
	ErrUnknownCollection = errors.New("unknown collection")
)

// AmbiguousError names every collection that claims a note.
type AmbiguousError struct {
	Path string
	IDs  []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s is claimed by %d collections: %s", e.Path, len(e.IDs), strings.Join(e.IDs, ", "))
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// Note is a note of a collection together with the interval it covers.
type Note struct {
	Path     string            `json:"path"`
	Interval interval.Interval `json:"interval"`
}

// Index tracks the notes of a vault and the collections they belong to. It is
// safe for concurrent use.
type Index struct {
	mu          sync.RWMutex
	collections []collection.Collection
	files       map[string]struct{}
}

// NewIndex returns an index over the given collections.
func NewIndex(collections ...collection.Collection) (*Index, error) {
	idx := &Index{files: make(map[string]struct{})}
	for _, c := range collections {
		if err := idx.AddCollection(c); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// AddCollection registers c. Collection ids must be unique.
func (x *Index) AddCollection(c collection.Collection) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, existing := range x.collections {
		if existing.ID() == c.ID() {
			return fmt.Errorf("collection %q already registered", c.ID())
		}
	}
	x.collections = append(x.collections, c)
	return nil
}

// Collections returns the registered collections in registration order.
func (x *Index) Collections() []collection.Collection {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.collections)
}

// Collection looks a collection up by id.
func (x *Index) Collection(id string) (collection.Collection, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.collection(id)
}

func (x *Index) collection(id string) (collection.Collection, error) {
	for _, c := range x.collections {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCollection, id)
}

// CollectionsWithFile returns every collection that includes notePath.
func (x *Index) CollectionsWithFile(notePath string) []collection.Collection {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []collection.Collection
	for _, c := range x.collections {
		if c.Includes(notePath) {
			out = append(out, c)
		}
	}
	return out
}

// Resolve returns the single collection that claims notePath and the interval
// the note covers. It fails with *AmbiguousError when several collections claim
// the note, and with ErrNoCollection when none does.
func (x *Index) Resolve(notePath string) (collection.Collection, interval.Interval, error) {
	claims := x.CollectionsWithFile(notePath)
	switch len(claims) {
	case 0:
		return nil, interval.Invalidf(collection.ReasonFolder, "%q is in no collection", notePath), fmt.Errorf("%s: %w", notePath, ErrNoCollection)
	case 1:
		return claims[0], claims[0].IntervalOf(notePath), nil
	}

	ids := make([]string, len(claims))
	for i, c := range claims {
		ids[i] = c.ID()
	}
	return nil, interval.Invalidf("ambiguous collection", "%q is claimed by %s", notePath, strings.Join(ids, ", ")), &AmbiguousError{Path: notePath, IDs: ids}
}

// Ambiguous returns an *AmbiguousError for every known note claimed by more
// than one collection, joined, or nil.
func (x *Index) Ambiguous() error {
	var errs []error
	for _, p := range x.Files() {
		if _, _, err := x.Resolve(p); errors.Is(err, ErrAmbiguous) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetFiles replaces the set of known notes.
func (x *Index) SetFiles(paths []string) {
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		files[p] = struct{}{}
	}

	x.mu.Lock()
	x.files = files
	x.mu.Unlock()
}

// AddFile records a note.
func (x *Index) AddFile(notePath string) {
	x.mu.Lock()
	x.files[notePath] = struct{}{}
	x.mu.Unlock()
}

// RemoveFile forgets a note.
func (x *Index) RemoveFile(notePath string) {
	x.mu.Lock()
	delete(x.files, notePath)
	x.mu.Unlock()
}

// HasFile reports whether the note is known.
func (x *Index) HasFile(notePath string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.files[notePath]
	return ok
}

// Files returns every known note, sorted.
func (x *Index) Files() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Sorted(maps.Keys(x.files))
}

// Notes returns the known notes of a collection ordered by interval.
func (x *Index) Notes(id string) ([]Note, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	c, err := x.collection(id)
	if err != nil {
		return nil, err
	}

	var notes []Note
	for p := range x.files {
		if iv := c.IntervalOf(p); iv.IsValid() {
			notes = append(notes, Note{Path: p, Interval: iv})
		}
	}
	slices.SortFunc(notes, func(a, b Note) int {
		if c := interval.Compare(a.Interval, b.Interval); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return notes, nil
}

// NotesInInterval returns the notes of a collection whose interval overlaps iv.
func (x *Index) NotesInInterval(id string, iv interval.Interval) ([]Note, error) {
	notes, err := x.Notes(id)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(notes, func(n Note) bool { return !n.Interval.Overlaps(iv) }), nil
}

// Collisions returns the runs of notes in a collection whose intervals overlap.
// Lo and Hi index the slice Notes returns.
func (x *Index) Collisions(id string) ([]Note, []interval.Collision, error) {
	notes, err := x.Notes(id)
	if err != nil {
		return nil, nil, err
	}
	ivs := make([]interval.Interval, len(notes))
	for i, n := range notes {
		ivs[i] = n.Interval
	}
	return notes, interval.Collisions(ivs), nil
}
