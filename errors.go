package stockroom

import (
	"fmt"
	"reflect"
)

// BorrowMode is the kind of access a handle holds on a column.
type BorrowMode int

const (
	BorrowShared BorrowMode = iota
	BorrowExclusive
)

func (m BorrowMode) String() string {
	if m == BorrowExclusive {
		return "exclusive"
	}
	return "shared"
}

// BorrowConflictError is returned when a column is requested while an
// incompatible borrow of the same column is outstanding.
type BorrowConflictError struct {
	Component string
	Requested BorrowMode
	Shared    int
	Exclusive bool
}

func (e BorrowConflictError) Error() string {
	held := fmt.Sprintf("%d shared", e.Shared)
	if e.Exclusive {
		held = "1 exclusive"
	}
	return fmt.Sprintf("column %s already borrowed (%s held), %s borrow refused", e.Component, held, e.Requested)
}

// TypeMismatchError reports a checked downcast to the wrong component type.
// Seeing it means column bookkeeping is broken, not that the caller retried
// too early.
type TypeMismatchError struct {
	Want reflect.Type
	Have reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("column stores %v, not %v", e.Have, e.Want)
}

type EntityOutOfRangeError struct {
	Entity EntityID
	Count  int
}

func (e EntityOutOfRangeError) Error() string {
	return fmt.Sprintf("entity %d out of range (%d allocated)", e.Entity, e.Count)
}

type ComponentLimitError struct {
	Component string
	Limit     int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("cannot register component %s: limit of %d component types reached", e.Component, e.Limit)
}

type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked"
}
