package stockroom

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

type World interface {
	NewEntity() EntityID
	NewEntities(n int) []EntityID
	EntityCount() int
	Columns() iter.Seq[Column]
	Column(Component) (Column, bool)
	Signature(EntityID) (mask.Mask, error)
	RowIndexFor(Component) uint32
	Locked() bool
	Lock()
	Unlock() error
	Flush() error
}

// Column is the type-erased view of one component column. Everything that
// needs the concrete type goes through BorrowMut or Borrow.
type Column interface {
	GrowByOne()
	Len() int
	Component() Component
	ReflectType() reflect.Type
	Index() int
	Borrowed() bool
}

// Presence is what a join needs to know about a borrowed column without its
// type.
type Presence interface {
	Len() int
	Present(EntityID) bool
}

// Accessor is a borrowed column a join can read values from. *Handle[T] and
// *View[T] implement it.
type Accessor[T any] interface {
	Presence
	at(i int) (*T, bool)
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
	Has(components ...Component) QueryNode
}

type QueryNode interface {
	Evaluate(signature mask.Mask, w World) bool
}

type iCursor interface {
	Entities() iter.Seq[EntityID]
	Next() bool
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	Register(K, T) (int, error)
	Len() int
}

// Cursor walks the entities of a World whose signatures satisfy a query.
type Cursor struct {
	// The query to filter entities
	query QueryNode

	// The world to iterate over
	world *world

	// Current iteration state
	entityIndex int
	current     EntityID
	remaining   int

	initialized bool
	locked      bool
}

// AccessibleComponent extends a Component identity with typed access to the
// column it names in a given World.
type AccessibleComponent[T any] struct {
	Component
}

type SimpleCache[K comparable, T any] struct {
	items       []T
	itemIndices map[K]int
	maxCapacity int
}
