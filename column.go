package stockroom

import (
	"reflect"
)

// pageSize is the number of slots per column page. Columns grow page by
// page and never move a slot once it exists.
const pageSize = 1024

var _ Column = &column[struct{}]{}

type slot[T any] struct {
	value   T
	present bool
}

type page[T any] [pageSize]slot[T]

// columnOwner is notified about borrows and presence changes of the columns
// a world owns.
type columnOwner interface {
	acquired()
	released()
	presenceChanged(e EntityID, column int, present bool)
}

type column[T any] struct {
	component Component
	index     int
	owner     columnOwner
	borrow    borrowState
	pages     []*page[T]
	length    int
}

func newColumn[T any](length int) *column[T] {
	col := &column[T]{
		component: ComponentOf[T](),
		index:     -1,
	}
	pages := (length + pageSize - 1) / pageSize
	col.pages = make([]*page[T], pages)
	for i := range col.pages {
		col.pages[i] = new(page[T])
	}
	col.length = length
	return col
}

// NewColumn returns a standalone column for T holding length absent slots.
func NewColumn[T any](length int) Column {
	return newColumn[T](length)
}

func (c *column[T]) GrowByOne() {
	if c.length == len(c.pages)*pageSize {
		c.pages = append(c.pages, new(page[T]))
	}
	c.length++
}

func (c *column[T]) Len() int {
	return c.length
}

func (c *column[T]) Component() Component {
	return c.component
}

func (c *column[T]) ReflectType() reflect.Type {
	return c.component.ReflectType()
}

func (c *column[T]) Index() int {
	return c.index
}

func (c *column[T]) Borrowed() bool {
	return c.borrow.exclusive || c.borrow.shared > 0
}

func (c *column[T]) slotAt(e EntityID) *slot[T] {
	return &c.pages[int(e)/pageSize][int(e)%pageSize]
}

func (c *column[T]) get(e EntityID) (*T, bool) {
	if int(e) >= c.length {
		return nil, false
	}
	s := c.slotAt(e)
	if !s.present {
		return nil, false
	}
	return &s.value, true
}

func (c *column[T]) set(e EntityID, value T) error {
	if int(e) >= c.length {
		return EntityOutOfRangeError{Entity: e, Count: c.length}
	}
	s := c.slotAt(e)
	wasPresent := s.present
	s.value = value
	s.present = true
	if !wasPresent && c.owner != nil {
		c.owner.presenceChanged(e, c.index, true)
	}
	return nil
}

func (c *column[T]) clear(e EntityID) (bool, error) {
	if int(e) >= c.length {
		return false, EntityOutOfRangeError{Entity: e, Count: c.length}
	}
	s := c.slotAt(e)
	if !s.present {
		return false, nil
	}
	var zero T
	s.value = zero
	s.present = false
	if c.owner != nil {
		c.owner.presenceChanged(e, c.index, false)
	}
	return true, nil
}

func (c *column[T]) acquire(mode BorrowMode) error {
	if !c.borrow.acquire(mode) {
		return c.conflict(mode)
	}
	if c.owner != nil {
		c.owner.acquired()
	}
	return nil
}

func (c *column[T]) release(mode BorrowMode) {
	c.borrow.release(mode)
	if c.owner != nil {
		c.owner.released()
	}
}

func (c *column[T]) conflict(mode BorrowMode) BorrowConflictError {
	return BorrowConflictError{
		Component: c.component.ReflectType().String(),
		Requested: mode,
		Shared:    c.borrow.shared,
		Exclusive: c.borrow.exclusive,
	}
}

// TypeMatches reports whether c was created to store T.
func TypeMatches[T any](c Column) bool {
	_, ok := c.(*column[T])
	return ok
}

func typed[T any](c Column) (*column[T], error) {
	if c == nil {
		return nil, TypeMismatchError{Want: reflect.TypeFor[T]()}
	}
	col, ok := c.(*column[T])
	if !ok {
		return nil, TypeMismatchError{Want: reflect.TypeFor[T](), Have: c.ReflectType()}
	}
	return col, nil
}

// BorrowMut returns exclusive access to the slots of c. It fails with
// TypeMismatchError when c does not store T and with BorrowConflictError
// while any other handle to c is outstanding.
func BorrowMut[T any](c Column) (*Handle[T], error) {
	col, err := typed[T](c)
	if err != nil {
		return nil, err
	}
	if err := col.acquire(BorrowExclusive); err != nil {
		return nil, err
	}
	return &Handle[T]{col: col}, nil
}

// Borrow returns shared access to the slots of c. Shared borrows coexist
// with each other but not with an exclusive one.
func Borrow[T any](c Column) (*View[T], error) {
	col, err := typed[T](c)
	if err != nil {
		return nil, err
	}
	if err := col.acquire(BorrowShared); err != nil {
		return nil, err
	}
	return &View[T]{col: col}, nil
}
