package stockroom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCacheBasicOperations tests the basic operations of the SimpleCache
func TestCacheBasicOperations(t *testing.T) {
	const capacity = 10
	cache := FactoryNewCache[string, string](capacity)

	items := []string{"item1", "item2", "item3", "item4", "item5"}
	for i, item := range items {
		index, err := cache.Register(item, item)
		require.NoError(t, err)
		// indices follow registration order
		require.Equal(t, i, index)
	}
	require.Equal(t, len(items), cache.Len())

	for i, item := range items {
		index, found := cache.GetIndex(item)
		require.True(t, found)
		require.Equal(t, i, index)
		require.Equal(t, item, *cache.GetItem(index))
	}

	_, found := cache.GetIndex("nonexistent")
	require.False(t, found)
}

func TestCacheRegisterExistingKey(t *testing.T) {
	cache := FactoryNewCache[string, int](4)

	first, err := cache.Register("a", 1)
	require.NoError(t, err)
	again, err := cache.Register("a", 2)
	require.NoError(t, err)

	require.Equal(t, first, again)
	require.Equal(t, 1, *cache.GetItem(first), "the stored item is kept")
	require.Equal(t, 1, cache.Len())
}

// TestCacheCapacity tests the cache capacity limits
func TestCacheCapacity(t *testing.T) {
	const capacity = 5
	cache := FactoryNewCache[string, int](capacity)

	for i := range capacity {
		_, err := cache.Register(fmt.Sprintf("item%d", i), i)
		require.NoError(t, err)
	}

	_, err := cache.Register("overflow", 100)
	var capErr CacheCapacityError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, capacity, capErr.Capacity)

	_, err = cache.Register("item0", 0)
	require.NoError(t, err, "known keys still resolve when full")
}

// TestCacheItemsAreAddressable checks that GetItem hands out the stored value,
// not a copy.
func TestCacheItemsAreAddressable(t *testing.T) {
	cache := FactoryNewCache[string, Position](10)

	positions := []Position{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}
	keys := []string{"pos1", "pos2", "pos3"}
	for i, pos := range positions {
		_, err := cache.Register(keys[i], pos)
		require.NoError(t, err)
	}

	index, found := cache.GetIndex("pos2")
	require.True(t, found)
	cache.GetItem(index).X = 30

	require.Equal(t, Position{X: 30, Y: 4}, *cache.GetItem(index))
}
