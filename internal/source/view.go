package source

import (
	"iter"
	"sync/atomic"
)

// sourceList is an append-only, copy-on-write list. Appends are serialized
// by the registry; reads never block.
type sourceList struct {
	items atomic.Pointer[[]*Source]
}

func (l *sourceList) load() []*Source {
	if p := l.items.Load(); p != nil {
		return *p
	}
	return nil
}

func (l *sourceList) append(src *Source) {
	cur := l.load()
	next := make([]*Source, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, src)
	l.items.Store(&next)
}

// View is a live, read-only list of sources in registration order. Sources
// registered after the view was obtained show up without fetching it again.
type View struct {
	list *sourceList
}

func (v View) Len() int {
	if v.list == nil {
		return 0
	}
	return len(v.list.load())
}

// At returns the i-th source; it panics when i is out of range like a slice.
func (v View) At(i int) *Source {
	return v.list.load()[i]
}

// Slice returns a copy of the current content.
func (v View) Slice() []*Source {
	if v.list == nil {
		return nil
	}
	cur := v.list.load()
	out := make([]*Source, len(cur))
	copy(out, cur)
	return out
}

// All iterates over the content at the time iteration starts.
func (v View) All() iter.Seq[*Source] {
	return func(yield func(*Source) bool) {
		if v.list == nil {
			return
		}
		for _, src := range v.list.load() {
			if !yield(src) {
				return
			}
		}
	}
}

func (v View) Contains(src *Source) bool {
	for s := range v.All() {
		if s.Equal(src) {
			return true
		}
	}
	return false
}
