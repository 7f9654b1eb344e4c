package stockroom

import (
	"fmt"
	"iter"
)

var (
	_ Accessor[struct{}] = &Handle[struct{}]{}
	_ Accessor[struct{}] = &View[struct{}]{}
)

// borrowState tracks zero-or-one exclusive holder or any number of shared
// holders of a column.
type borrowState struct {
	shared    int
	exclusive bool
}

func (b *borrowState) acquire(mode BorrowMode) bool {
	if b.exclusive {
		return false
	}
	if mode == BorrowExclusive {
		if b.shared > 0 {
			return false
		}
		b.exclusive = true
		return true
	}
	b.shared++
	return true
}

func (b *borrowState) release(mode BorrowMode) {
	if mode == BorrowExclusive {
		b.exclusive = false
		return
	}
	if b.shared > 0 {
		b.shared--
	}
}

// Handle is exclusive access to one column. Pair every acquisition with
// defer h.Release(); using a handle after Release panics.
type Handle[T any] struct {
	col      *column[T]
	released bool
}

func (h *Handle[T]) live() *column[T] {
	if h.released {
		panic(fmt.Sprintf("stockroom: use of released handle for %s", h.col.component))
	}
	return h.col
}

// Release gives the borrow back. Calling it more than once is a no-op.
func (h *Handle[T]) Release() {
	if h.released {
		return
	}
	h.released = true
	h.col.release(BorrowExclusive)
}

func (h *Handle[T]) Component() Component {
	return h.col.component
}

func (h *Handle[T]) Len() int {
	return h.live().length
}

func (h *Handle[T]) Present(e EntityID) bool {
	_, ok := h.live().get(e)
	return ok
}

// Get returns a pointer to the value stored for e. The pointer stays valid
// while the column grows.
func (h *Handle[T]) Get(e EntityID) (*T, bool) {
	return h.live().get(e)
}

func (h *Handle[T]) Value(e EntityID) (T, bool) {
	ptr, ok := h.live().get(e)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// Set stores value for e, dropping any previous value.
func (h *Handle[T]) Set(e EntityID, value T) error {
	return h.live().set(e, value)
}

// Clear marks the slot of e absent and reports whether a value was dropped.
func (h *Handle[T]) Clear(e EntityID) (bool, error) {
	return h.live().clear(e)
}

// All yields every present slot in ascending entity order.
func (h *Handle[T]) All() iter.Seq2[EntityID, *T] {
	col := h.live()
	return func(yield func(EntityID, *T) bool) {
		for i := range col.length {
			ptr, ok := col.get(EntityID(i))
			if !ok {
				continue
			}
			if !yield(EntityID(i), ptr) {
				return
			}
		}
	}
}

func (h *Handle[T]) at(i int) (*T, bool) {
	return h.live().get(EntityID(i))
}

// View is shared, read-only access to one column.
type View[T any] struct {
	col      *column[T]
	released bool
}

func (v *View[T]) live() *column[T] {
	if v.released {
		panic(fmt.Sprintf("stockroom: use of released view for %s", v.col.component))
	}
	return v.col
}

func (v *View[T]) Release() {
	if v.released {
		return
	}
	v.released = true
	v.col.release(BorrowShared)
}

func (v *View[T]) Component() Component {
	return v.col.component
}

func (v *View[T]) Len() int {
	return v.live().length
}

func (v *View[T]) Present(e EntityID) bool {
	_, ok := v.live().get(e)
	return ok
}

func (v *View[T]) Value(e EntityID) (T, bool) {
	ptr, ok := v.live().get(e)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

func (v *View[T]) All() iter.Seq2[EntityID, T] {
	col := v.live()
	return func(yield func(EntityID, T) bool) {
		for i := range col.length {
			ptr, ok := col.get(EntityID(i))
			if !ok {
				continue
			}
			if !yield(EntityID(i), *ptr) {
				return
			}
		}
	}
}

func (v *View[T]) at(i int) (*T, bool) {
	return v.live().get(EntityID(i))
}
