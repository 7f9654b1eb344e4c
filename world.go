package stockroom

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/sirupsen/logrus"
)

var _ World = &world{}

type world struct {
	entities   entityRegistry
	columns    *SimpleCache[reflect.Type, Column]
	schema     table.Schema
	signatures signatures
	opQueue    opQueue
	locks      int
	borrows    int
	log        logrus.FieldLogger
}

func newWorld() World {
	return &world{
		columns: FactoryNewCache[reflect.Type, Column](MaxComponentTypes),
		schema:  table.Factory.NewSchema(),
		opQueue: newOpQueue(),
		log:     Config.logger.WithField("component", "world"),
	}
}

func asWorld(w World) *world {
	ww, ok := w.(*world)
	if !ok {
		panic(fmt.Sprintf("stockroom: unsupported World implementation %T", w))
	}
	return ww
}

// NewEntity allocates an ID and grows every column by one absent slot.
func (w *world) NewEntity() EntityID {
	id := w.entities.allocate()
	for col := range w.Columns() {
		col.GrowByOne()
	}
	w.signatures.grow()
	return id
}

func (w *world) NewEntities(n int) []EntityID {
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = w.NewEntity()
	}
	return ids
}

func (w *world) EntityCount() int {
	return w.entities.count()
}

// Columns yields the columns in registration order.
func (w *world) Columns() iter.Seq[Column] {
	return func(yield func(Column) bool) {
		for i := range w.columns.Len() {
			if !yield(*w.columns.GetItem(i)) {
				return
			}
		}
	}
}

func (w *world) Column(c Component) (Column, bool) {
	idx, ok := w.columns.GetIndex(c.ReflectType())
	if !ok {
		return nil, false
	}
	return *w.columns.GetItem(idx), true
}

func (w *world) Signature(e EntityID) (mask.Mask, error) {
	if !w.entities.contains(e) {
		return mask.Mask{}, EntityOutOfRangeError{Entity: e, Count: w.entities.count()}
	}
	return w.signatures.get(e), nil
}

// RowIndexFor returns the schema row of c, registering c with the schema on
// first use.
func (w *world) RowIndexFor(c Component) uint32 {
	el := c.elementType()
	w.schema.Register(el)
	return w.schema.RowIndexFor(el)
}

func (w *world) Locked() bool {
	return w.locks > 0
}

// Lock defers queued attach and detach operations until the matching Unlock.
// Locks nest.
func (w *world) Lock() {
	w.locks++
}

func (w *world) Unlock() error {
	if w.locks == 0 {
		return nil
	}
	w.locks--
	if w.locks > 0 || w.borrows > 0 {
		return nil
	}
	return w.processOperationQueue()
}

// Flush applies queued operations now. It fails while the world is locked;
// operations on borrowed columns stay queued until the borrow is released.
func (w *world) Flush() error {
	if w.locks > 0 {
		return LockedWorldError{}
	}
	return w.processOperationQueue()
}

// bitFor returns the signature bit of c, if c has a column in this world.
func (w *world) bitFor(c Component) (uint32, bool) {
	idx, ok := w.columns.GetIndex(c.ReflectType())
	if !ok {
		return 0, false
	}
	return uint32(idx), true
}

// deferring reports whether an operation on typ has to wait in the queue.
func (w *world) deferring(typ reflect.Type) bool {
	if w.locks > 0 || w.opQueue.pending() > 0 {
		return true
	}
	return w.columnBorrowed(typ)
}

func (w *world) columnBorrowed(typ reflect.Type) bool {
	idx, ok := w.columns.GetIndex(typ)
	return ok && (*w.columns.GetItem(idx)).Borrowed()
}

// supersede drops a queued operation that a direct write to the same slot
// has made stale.
func (w *world) supersede(e EntityID, typ reflect.Type) {
	if w.opQueue.cancel(e, typ) {
		w.log.WithFields(logrus.Fields{
			"entity": e,
			"type":   typ.String(),
		}).Debug("queued operation superseded")
	}
}

func (w *world) acquired() {
	w.borrows++
}

func (w *world) released() {
	w.borrows--
	if w.borrows > 0 || w.locks > 0 || w.opQueue.pending() == 0 {
		return
	}
	if err := w.processOperationQueue(); err != nil {
		w.log.WithError(err).Warn("deferred operations failed after release")
	}
}

func (w *world) presenceChanged(e EntityID, column int, present bool) {
	if present {
		w.signatures.mark(e, uint32(column))
		return
	}
	w.signatures.unmark(e, uint32(column))
}

func lookupColumn[T any](w *world) (*column[T], bool, error) {
	idx, ok := w.columns.GetIndex(reflect.TypeFor[T]())
	if !ok {
		return nil, false, nil
	}
	col, err := typed[T](*w.columns.GetItem(idx))
	if err != nil {
		return nil, true, err
	}
	return col, true, nil
}

// ensureColumn finds the column for T or creates it backfilled to the
// current entity count.
func ensureColumn[T any](w *world) (*column[T], error) {
	col, found, err := lookupColumn[T](w)
	if found || err != nil {
		return col, err
	}

	typ := reflect.TypeFor[T]()
	col = newColumn[T](w.entities.count())
	idx, err := w.columns.Register(typ, col)
	if err != nil {
		var capErr CacheCapacityError
		if errors.As(err, &capErr) {
			return nil, ComponentLimitError{Component: typ.String(), Limit: capErr.Capacity}
		}
		return nil, err
	}
	col.index = idx
	col.owner = w
	w.schema.Register(col.component.elementType())

	w.log.WithFields(logrus.Fields{
		"type":       typ.String(),
		"index":      idx,
		"backfilled": col.length,
	}).Debug("column created")
	return col, nil
}

func attach[T any](w *world, e EntityID, value T) error {
	if !w.entities.contains(e) {
		return EntityOutOfRangeError{Entity: e, Count: w.entities.count()}
	}
	col, err := ensureColumn[T](w)
	if err != nil {
		return err
	}
	if col.Borrowed() {
		return col.conflict(BorrowExclusive)
	}
	return col.set(e, value)
}

func detach[T any](w *world, e EntityID) (bool, error) {
	if !w.entities.contains(e) {
		return false, EntityOutOfRangeError{Entity: e, Count: w.entities.count()}
	}
	col, found, err := lookupColumn[T](w)
	if !found || err != nil {
		return false, err
	}
	if col.Borrowed() {
		return false, col.conflict(BorrowExclusive)
	}
	return col.clear(e)
}
