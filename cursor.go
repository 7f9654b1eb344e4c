package stockroom

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ iCursor = &Cursor{}

func newCursor(query QueryNode, w World) *Cursor {
	return &Cursor{
		query: query,
		world: asWorld(w),
	}
}

// Next advances to the next matching entity. The world stays locked from the
// first call until Next returns false or Reset is called.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.entityIndex < c.remaining {
		e := EntityID(c.entityIndex)
		c.entityIndex++
		if c.matches(e) {
			c.current = e
			return true
		}
	}
	c.Reset()
	return false
}

func (c *Cursor) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		c.initialize()
		defer c.Reset()

		for c.entityIndex < c.remaining {
			e := EntityID(c.entityIndex)
			c.entityIndex++
			if !c.matches(e) {
				continue
			}
			c.current = e
			if !yield(e) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice.
func (c *Cursor) Collect() []EntityID {
	return iter_util.Collect(c.Entities())
}

func (c *Cursor) matches(e EntityID) bool {
	return c.query.Evaluate(c.world.signatures.get(e), c.world)
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.world.Lock()
	c.locked = true
	c.entityIndex = 0
	c.remaining = c.world.EntityCount()
	c.initialized = true
}

func (c *Cursor) Reset() {
	c.entityIndex = 0
	c.remaining = 0
	c.initialized = false
	if !c.locked {
		return
	}
	c.locked = false
	if err := c.world.Unlock(); err != nil {
		c.world.log.WithError(err).Warn("deferred operations failed after cursor reset")
	}
}

// CurrentEntity returns the entity the cursor is positioned on.
func (c *Cursor) CurrentEntity() EntityID {
	return c.current
}

func (c *Cursor) RemainingEntities() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts the matching entities without moving the cursor.
func (c *Cursor) TotalMatched() int {
	total := 0
	for i := range c.world.EntityCount() {
		if c.matches(EntityID(i)) {
			total++
		}
	}
	return total
}
