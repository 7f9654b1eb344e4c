package stockroom

import (
	"cmp"
	"iter"
	"slices"
)

type Row2[A, B any] struct {
	Entity EntityID
	A      *A
	B      *B
}

type Row3[A, B, C any] struct {
	Entity EntityID
	A      *A
	B      *B
	C      *C
}

type Row4[A, B, C, D any] struct {
	Entity EntityID
	A      *A
	B      *B
	C      *C
	D      *D
}

func minLen(cols ...Presence) int {
	n := cols[0].Len()
	for _, col := range cols[1:] {
		n = min(n, col.Len())
	}
	return n
}

// Join2 yields the values of every entity present in both a and b, in
// ascending entity order. Pointers from a View must not be written through.
func Join2[A, B any](a Accessor[A], b Accessor[B]) iter.Seq2[*A, *B] {
	return func(yield func(*A, *B) bool) {
		for row := range Rows2(a, b) {
			if !yield(row.A, row.B) {
				return
			}
		}
	}
}

// Rows2 is Join2 with the entity of every match attached.
func Rows2[A, B any](a Accessor[A], b Accessor[B]) iter.Seq[Row2[A, B]] {
	return func(yield func(Row2[A, B]) bool) {
		n := minLen(a, b)
		for i := range n {
			va, ok := a.at(i)
			if !ok {
				continue
			}
			vb, ok := b.at(i)
			if !ok {
				continue
			}
			if !yield(Row2[A, B]{Entity: EntityID(i), A: va, B: vb}) {
				return
			}
		}
	}
}

func Join3[A, B, C any](a Accessor[A], b Accessor[B], c Accessor[C]) iter.Seq[Row3[A, B, C]] {
	return func(yield func(Row3[A, B, C]) bool) {
		n := minLen(a, b, c)
		for i := range n {
			va, ok := a.at(i)
			if !ok {
				continue
			}
			vb, ok := b.at(i)
			if !ok {
				continue
			}
			vc, ok := c.at(i)
			if !ok {
				continue
			}
			if !yield(Row3[A, B, C]{Entity: EntityID(i), A: va, B: vb, C: vc}) {
				return
			}
		}
	}
}

func Join4[A, B, C, D any](a Accessor[A], b Accessor[B], c Accessor[C], d Accessor[D]) iter.Seq[Row4[A, B, C, D]] {
	return func(yield func(Row4[A, B, C, D]) bool) {
		n := minLen(a, b, c, d)
		for i := range n {
			va, ok := a.at(i)
			if !ok {
				continue
			}
			vb, ok := b.at(i)
			if !ok {
				continue
			}
			vc, ok := c.at(i)
			if !ok {
				continue
			}
			vd, ok := d.at(i)
			if !ok {
				continue
			}
			if !yield(Row4[A, B, C, D]{Entity: EntityID(i), A: va, B: vb, C: vc, D: vd}) {
				return
			}
		}
	}
}

// JoinEntities yields the entities present in every one of cols. With no
// columns it yields nothing.
func JoinEntities(cols ...Presence) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		if len(cols) == 0 {
			return
		}
		n := minLen(cols...)
	next:
		for i := range n {
			e := EntityID(i)
			for _, col := range cols {
				if !col.Present(e) {
					continue next
				}
			}
			if !yield(e) {
				return
			}
		}
	}
}

type pendingBorrow struct {
	index   int
	acquire func() (release func(), err error)
}

func exclusive[T any](col *column[T], dst **Handle[T]) pendingBorrow {
	return pendingBorrow{
		index: col.index,
		acquire: func() (func(), error) {
			h, err := BorrowMut[T](col)
			if err != nil {
				return nil, err
			}
			*dst = h
			return h.Release, nil
		},
	}
}

// acquireInOrder takes the borrows by column registration order. On failure
// everything acquired so far is released again.
func acquireInOrder(borrows ...pendingBorrow) (func(), error) {
	slices.SortStableFunc(borrows, func(a, b pendingBorrow) int {
		return cmp.Compare(a.index, b.index)
	})

	releases := make([]func(), 0, len(borrows))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, b := range borrows {
		release, err := b.acquire()
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// Each2 borrows the columns for A and B exclusively and calls fn for every
// entity that has both. A column that does not exist matches nothing.
func Each2[A, B any](w World, fn func(EntityID, *A, *B)) error {
	ww := asWorld(w)
	ca, foundA, err := lookupColumn[A](ww)
	if err != nil {
		return err
	}
	cb, foundB, err := lookupColumn[B](ww)
	if err != nil {
		return err
	}
	if !foundA || !foundB {
		return nil
	}

	var (
		ha *Handle[A]
		hb *Handle[B]
	)
	release, err := acquireInOrder(exclusive(ca, &ha), exclusive(cb, &hb))
	if err != nil {
		return err
	}
	defer release()

	for row := range Rows2[A, B](ha, hb) {
		fn(row.Entity, row.A, row.B)
	}
	return nil
}

func Each3[A, B, C any](w World, fn func(EntityID, *A, *B, *C)) error {
	ww := asWorld(w)
	ca, foundA, err := lookupColumn[A](ww)
	if err != nil {
		return err
	}
	cb, foundB, err := lookupColumn[B](ww)
	if err != nil {
		return err
	}
	cc, foundC, err := lookupColumn[C](ww)
	if err != nil {
		return err
	}
	if !foundA || !foundB || !foundC {
		return nil
	}

	var (
		ha *Handle[A]
		hb *Handle[B]
		hc *Handle[C]
	)
	release, err := acquireInOrder(exclusive(ca, &ha), exclusive(cb, &hb), exclusive(cc, &hc))
	if err != nil {
		return err
	}
	defer release()

	for row := range Join3[A, B, C](ha, hb, hc) {
		fn(row.Entity, row.A, row.B, row.C)
	}
	return nil
}
