package stockroom

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/sirupsen/logrus"
)

// AddComponent attaches value to e, creating the column for T on first use.
// A value already stored for e is overwritten.
func AddComponent[T any](w World, e EntityID, value T) error {
	ww := asWorld(w)
	if ww.locks > 0 {
		return LockedWorldError{}
	}
	if err := attach(ww, e, value); err != nil {
		return err
	}
	ww.supersede(e, reflect.TypeFor[T]())
	return nil
}

// RemoveComponent drops the T value of e and reports whether there was one.
func RemoveComponent[T any](w World, e EntityID) (bool, error) {
	ww := asWorld(w)
	if ww.locks > 0 {
		return false, LockedWorldError{}
	}
	removed, err := detach[T](ww, e)
	if err != nil {
		return false, err
	}
	ww.supersede(e, reflect.TypeFor[T]())
	return removed, nil
}

// EnqueueAddComponent behaves like AddComponent when the world is unlocked
// and T's column is free; otherwise the attachment is queued and applied once
// the world is unlocked and no column is borrowed.
func EnqueueAddComponent[T any](w World, e EntityID, value T) error {
	ww := asWorld(w)
	if !ww.entities.contains(e) {
		return EntityOutOfRangeError{Entity: e, Count: ww.entities.count()}
	}
	if !ww.deferring(reflect.TypeFor[T]()) {
		return attach(ww, e, value)
	}
	ww.opQueue.EnqueueComponentOp(opAddComponent, e, ComponentOf[T](), func() error {
		return attach(ww, e, value)
	})
	ww.log.WithFields(logrus.Fields{
		"entity": e,
		"type":   reflect.TypeFor[T]().String(),
	}).Debug("attach queued")
	return nil
}

func EnqueueRemoveComponent[T any](w World, e EntityID) error {
	ww := asWorld(w)
	if !ww.entities.contains(e) {
		return EntityOutOfRangeError{Entity: e, Count: ww.entities.count()}
	}
	if !ww.deferring(reflect.TypeFor[T]()) {
		_, err := detach[T](ww, e)
		return err
	}
	ww.opQueue.EnqueueComponentOp(opRemoveComponent, e, ComponentOf[T](), func() error {
		_, err := detach[T](ww, e)
		return err
	})
	ww.log.WithFields(logrus.Fields{
		"entity": e,
		"type":   reflect.TypeFor[T]().String(),
	}).Debug("detach queued")
	return nil
}

// BorrowColumn returns exclusive access to the column for T. found is false,
// with no error, when no entity ever had a T.
func BorrowColumn[T any](w World) (handle *Handle[T], found bool, err error) {
	col, found, err := lookupColumn[T](asWorld(w))
	if !found || err != nil {
		return nil, found, err
	}
	handle, err = BorrowMut[T](col)
	return handle, true, err
}

func ViewColumn[T any](w World) (view *View[T], found bool, err error) {
	col, found, err := lookupColumn[T](asWorld(w))
	if !found || err != nil {
		return nil, found, err
	}
	view, err = Borrow[T](col)
	return view, true, err
}

// WithColumn runs fn with exclusive access to the column for T and releases
// it on every exit path. fn is not called when the column does not exist.
func WithColumn[T any](w World, fn func(*Handle[T]) error) (bool, error) {
	handle, found, err := BorrowColumn[T](w)
	if !found || err != nil {
		return found, err
	}
	defer handle.Release()
	return true, fn(handle)
}

func WithView[T any](w World, fn func(*View[T]) error) (bool, error) {
	view, found, err := ViewColumn[T](w)
	if !found || err != nil {
		return found, err
	}
	defer view.Release()
	return true, fn(view)
}

func GetComponent[T any](w World, e EntityID) (T, bool, error) {
	var value T
	ww := asWorld(w)
	if !ww.entities.contains(e) {
		return value, false, EntityOutOfRangeError{Entity: e, Count: ww.entities.count()}
	}
	view, found, err := ViewColumn[T](w)
	if !found || err != nil {
		return value, false, err
	}
	defer view.Release()
	value, ok := view.Value(e)
	return value, ok, nil
}

// HasComponent checks the signature of e; it takes no borrow.
func HasComponent[T any](w World, e EntityID) bool {
	ww := asWorld(w)
	if !ww.entities.contains(e) {
		return false
	}
	bit, ok := ww.bitFor(ComponentOf[T]())
	if !ok {
		return false
	}
	var want mask.Mask
	want.Mark(bit)
	signature := ww.signatures.get(e)
	return signature.ContainsAll(want)
}
