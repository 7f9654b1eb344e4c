package stockroom

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// compositeNode combines the components it names directly with the nodes
// nested under it.
type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []Component
}

// hasNode matches entities carrying every one of its components.
type hasNode struct {
	components []Component
}

// query remembers the first node built through it as its root.
type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

// nodeMask builds the signature mask of components. known is false when at
// least one of them has no column in w, which means no entity carries it.
func nodeMask(components []Component, w World) (m mask.Mask, known bool) {
	ww := asWorld(w)
	known = true
	for _, comp := range components {
		bit, ok := ww.bitFor(comp)
		if !ok {
			known = false
			continue
		}
		m.Mark(bit)
	}
	return m, known
}

// The mask checks below treat an empty want as vacuous.

func hasAll(signature, want mask.Mask) bool {
	return want.IsEmpty() || signature.ContainsAll(want)
}

func hasAny(signature, want mask.Mask) bool {
	return !want.IsEmpty() && signature.ContainsAny(want)
}

func hasNone(signature, want mask.Mask) bool {
	return want.IsEmpty() || signature.ContainsNone(want)
}

func (n *compositeNode) Evaluate(signature mask.Mask, w World) bool {
	want, allKnown := nodeMask(n.components, w)

	switch n.op {
	case OpAnd:
		if !allKnown || !hasAll(signature, want) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(signature, w) {
				return false
			}
		}
		return true

	case OpOr:
		if hasAny(signature, want) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(signature, w) {
				return true
			}
		}
		return false

	case OpNot:
		// unknown components were dropped from want; nobody carries them
		for _, child := range n.children {
			if child.Evaluate(signature, w) {
				return false
			}
		}
		return hasNone(signature, want)
	}
	return false
}

func (n *hasNode) Evaluate(signature mask.Mask, w World) bool {
	want, allKnown := nodeMask(n.components, w)
	return allKnown && hasAll(signature, want)
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.compose(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.compose(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.compose(OpNot, items)
}

// Has is a leaf node matching entities that carry all of components.
func (q *query) Has(components ...Component) QueryNode {
	return q.adopt(&hasNode{components: components})
}

// compose sorts items into components and nested nodes. Anything else is
// ignored.
func (q *query) compose(op Operation, items []interface{}) QueryNode {
	node := &compositeNode{op: op}
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			node.components = append(node.components, v)
		case []Component:
			node.components = append(node.components, v...)
		case QueryNode:
			node.children = append(node.children, v)
		}
	}
	return q.adopt(node)
}

func (q *query) adopt(node QueryNode) QueryNode {
	if q.root == nil {
		q.root = node
	}
	return node
}

// Evaluate runs the root node; a query nothing was built on matches nothing.
func (q *query) Evaluate(signature mask.Mask, w World) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(signature, w)
}
