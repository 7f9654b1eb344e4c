package stockroom

import "strconv"

// EntityID identifies an entity inside a World. IDs are dense, handed out in
// allocation order starting at 0, and never reused.
type EntityID uint32

func (e EntityID) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

type entityRegistry struct {
	allocated int
}

// allocate returns the current count as the new ID, then increments it.
func (r *entityRegistry) allocate() EntityID {
	id := EntityID(r.allocated)
	r.allocated++
	return id
}

func (r *entityRegistry) count() int {
	return r.allocated
}

func (r *entityRegistry) contains(e EntityID) bool {
	return int(e) < r.allocated
}
