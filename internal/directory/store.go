package directory

import "sync/atomic"

// Store hands out the current directory snapshot and lets the scheduler
// swap in a rebuilt one. Readers always see a complete, immutable Index;
// there is no in-place mutation.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore wraps an initial snapshot.
func NewStore(idx *Index) *Store {
	s := &Store{}
	s.current.Store(idx)
	return s
}

// Snapshot returns the directory as of now.
func (s *Store) Snapshot() *Index { return s.current.Load() }

// Replace atomically swaps in a new snapshot. In-flight requests keep the
// snapshot they started with.
func (s *Store) Replace(idx *Index) { s.current.Store(idx) }
