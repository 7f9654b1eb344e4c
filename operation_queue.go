package stockroom

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"
)

type operation struct {
	typ    operationType
	entity EntityID
	comp   Component
	apply  func() error
}

type operationType int

const (
	opAddComponent operationType = iota
	opRemoveComponent
)

func (t operationType) String() string {
	if t == opRemoveComponent {
		return "remove"
	}
	return "add"
}

type opKey struct {
	entity EntityID
	typ    reflect.Type
}

type opQueue struct {
	componentOps []operation
	pendingMods  map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingMods: make(map[opKey]int),
	}
}

func (q *opQueue) pending() int {
	return len(q.componentOps)
}

// EnqueueComponentOp queues an attach or detach. A later operation for the
// same entity and component replaces the queued one in place.
func (q *opQueue) EnqueueComponentOp(typ operationType, entity EntityID, comp Component, apply func() error) {
	key := opKey{entity: entity, typ: comp.ReflectType()}

	if existingIdx, exists := q.pendingMods[key]; exists {
		existingOp := &q.componentOps[existingIdx]
		existingOp.typ = typ
		existingOp.apply = apply
		return
	}

	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: entity,
		comp:   comp,
		apply:  apply,
	})
}

// cancel drops the queued operation for entity and typ, if there is one.
func (q *opQueue) cancel(entity EntityID, typ reflect.Type) bool {
	key := opKey{entity: entity, typ: typ}
	idx, exists := q.pendingMods[key]
	if !exists {
		return false
	}
	q.componentOps = slices.Delete(q.componentOps, idx, idx+1)
	delete(q.pendingMods, key)
	for k, i := range q.pendingMods {
		if i > idx {
			q.pendingMods[k] = i - 1
		}
	}
	return true
}

// processOperationQueue applies every queued operation in order. Operations
// on a borrowed column stay queued for the next pass. A failing operation is
// dropped and reported; the ones after it still run.
func (w *world) processOperationQueue() error {
	if w.opQueue.pending() == 0 {
		return nil
	}

	ops := w.opQueue.componentOps
	w.opQueue.componentOps = nil
	clear(w.opQueue.pendingMods)

	var failures []error
	for _, op := range ops {
		if w.columnBorrowed(op.comp.ReflectType()) {
			w.opQueue.EnqueueComponentOp(op.typ, op.entity, op.comp, op.apply)
			continue
		}
		if err := op.apply(); err != nil {
			w.log.WithError(err).WithField("entity", op.entity).Warn("queued operation failed")
			failures = append(failures, fmt.Errorf("failed to %s queued component %s: %w", op.typ, op.comp, err))
		}
	}

	w.log.WithFields(logrus.Fields{
		"operations": len(ops),
		"retained":   w.opQueue.pending(),
	}).Debug("operation queue processed")

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	default:
		return fmt.Errorf("%d queued operations failed: %w", len(failures), errors.Join(failures...))
	}
}
