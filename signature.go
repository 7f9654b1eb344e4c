package stockroom

import "github.com/TheBitDrifter/mask"

// MaxComponentTypes is the number of distinct component types a single
// World can register; each one owns a bit of the entity signatures.
const MaxComponentTypes = 64

// signatures keeps, per entity, the set of columns holding a present value.
type signatures struct {
	masks []mask.Mask
}

func (s *signatures) grow() {
	s.masks = append(s.masks, mask.Mask{})
}

func (s *signatures) mark(e EntityID, bit uint32) {
	s.masks[e].Mark(bit)
}

func (s *signatures) unmark(e EntityID, bit uint32) {
	s.masks[e].Unmark(bit)
}

func (s *signatures) get(e EntityID) mask.Mask {
	return s.masks[e]
}
