package stockroom

import "fmt"

var _ Cache[string, any] = &SimpleCache[string, any]{}

// CacheCapacityError is returned by Register once a cache holds its maximum
// number of items.
type CacheCapacityError struct {
	Capacity int
}

func (e CacheCapacityError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}

// FactoryNewCache returns an empty cache holding at most cap items, indexed in
// registration order.
func FactoryNewCache[K comparable, T any](cap int) *SimpleCache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}

func (c *SimpleCache[K, T]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[K, T]) GetItem(index int) *T {
	return &c.items[index]
}

// Register appends item under key. Registering an existing key returns its
// index without replacing the stored item.
func (c *SimpleCache[K, T]) Register(key K, item T) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		return idx, nil
	}
	if len(c.items) >= c.maxCapacity {
		return -1, CacheCapacityError{Capacity: c.maxCapacity}
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

func (c *SimpleCache[K, T]) Len() int {
	return len(c.items)
}
