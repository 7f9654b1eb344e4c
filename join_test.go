package stockroom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type heroes struct {
	world                    World
	icarus, prometheus, zeus EntityID
}

func buildHeroes(t *testing.T) heroes {
	t.Helper()

	w := Factory.NewWorld()
	h := heroes{world: w}

	h.icarus = w.NewEntity()
	require.NoError(t, AddComponent(w, h.icarus, Health(-10)))
	require.NoError(t, AddComponent(w, h.icarus, Name("Icarus")))

	h.prometheus = w.NewEntity()
	require.NoError(t, AddComponent(w, h.prometheus, Health(100)))
	require.NoError(t, AddComponent(w, h.prometheus, Name("Prometheus")))

	h.zeus = w.NewEntity()
	require.NoError(t, AddComponent(w, h.zeus, Name("Zeus")))

	return h
}

func TestJoinHealthAndName(t *testing.T) {
	h := buildHeroes(t)

	healths, _, err := BorrowColumn[Health](h.world)
	require.NoError(t, err)
	defer healths.Release()
	names, _, err := BorrowColumn[Name](h.world)
	require.NoError(t, err)
	defer names.Release()

	type pair struct {
		health Health
		name   Name
	}
	var got []pair
	for health, name := range Join2[Health, Name](healths, names) {
		got = append(got, pair{*health, *name})
	}

	require.Equal(t, []pair{{-10, "Icarus"}, {100, "Prometheus"}}, got)
}

func TestJoinMutatesInPlace(t *testing.T) {
	h := buildHeroes(t)
	require.NoError(t, AddComponent(h.world, h.icarus, Name("Perseus")))

	_, err := WithColumn(h.world, func(healths *Handle[Health]) error {
		names, _, err := ViewColumn[Name](h.world)
		if err != nil {
			return err
		}
		defer names.Release()

		for health, name := range Join2[Health, Name](healths, names) {
			if *name == "Perseus" && *health <= 0 {
				*health = 100
			}
		}
		return nil
	})
	require.NoError(t, err)

	health, ok, err := GetComponent[Health](h.world, h.icarus)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Health(100), health)
}

func TestRows2CarriesEntities(t *testing.T) {
	h := buildHeroes(t)

	healths, _, err := ViewColumn[Health](h.world)
	require.NoError(t, err)
	defer healths.Release()
	names, _, err := ViewColumn[Name](h.world)
	require.NoError(t, err)
	defer names.Release()

	var entities []EntityID
	for row := range Rows2[Health, Name](healths, names) {
		entities = append(entities, row.Entity)
	}
	require.Equal(t, []EntityID{h.icarus, h.prometheus}, entities)
}

func TestJoinStopsEarly(t *testing.T) {
	h := buildHeroes(t)

	healths, _, err := ViewColumn[Health](h.world)
	require.NoError(t, err)
	defer healths.Release()
	names, _, err := ViewColumn[Name](h.world)
	require.NoError(t, err)
	defer names.Release()

	count := 0
	for range Join2[Health, Name](healths, names) {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestJoinBoundedByShortestColumn(t *testing.T) {
	short := NewColumn[Health](2)
	long := NewColumn[Name](5)

	hs, err := BorrowMut[Health](short)
	require.NoError(t, err)
	defer hs.Release()
	hl, err := BorrowMut[Name](long)
	require.NoError(t, err)
	defer hl.Release()

	for e := range EntityID(2) {
		require.NoError(t, hs.Set(e, Health(e)))
	}
	for e := range EntityID(5) {
		require.NoError(t, hl.Set(e, "n"))
	}

	var entities []EntityID
	for row := range Rows2[Health, Name](hs, hl) {
		entities = append(entities, row.Entity)
	}
	require.Equal(t, []EntityID{0, 1}, entities)
}

func TestJoin3AndJoin4(t *testing.T) {
	w := Factory.NewWorld()
	w.NewEntities(6)

	for e := range EntityID(6) {
		require.NoError(t, AddComponent(w, e, Position{X: float64(e)}))
		if e%2 == 0 {
			require.NoError(t, AddComponent(w, e, Velocity{X: 1}))
		}
		if e%3 == 0 {
			require.NoError(t, AddComponent(w, e, Health(int32(e))))
		}
		if e != 0 {
			require.NoError(t, AddComponent(w, e, Name("n")))
		}
	}

	positions, _, err := BorrowColumn[Position](w)
	require.NoError(t, err)
	defer positions.Release()
	velocities, _, err := ViewColumn[Velocity](w)
	require.NoError(t, err)
	defer velocities.Release()
	healths, _, err := ViewColumn[Health](w)
	require.NoError(t, err)
	defer healths.Release()
	names, _, err := ViewColumn[Name](w)
	require.NoError(t, err)
	defer names.Release()

	var three []EntityID
	for row := range Join3[Position, Velocity, Health](positions, velocities, healths) {
		row.A.X += row.B.X
		three = append(three, row.Entity)
	}
	require.Equal(t, []EntityID{0}, three, "only multiples of 6 carry all three")

	var four []EntityID
	for row := range Join4[Position, Velocity, Health, Name](positions, velocities, healths, names) {
		four = append(four, row.Entity)
	}
	require.Empty(t, four)

	value, _ := positions.Value(0)
	require.Equal(t, 1.0, value.X)
}

func TestJoinEntities(t *testing.T) {
	h := buildHeroes(t)

	healths, _, err := ViewColumn[Health](h.world)
	require.NoError(t, err)
	defer healths.Release()
	names, _, err := BorrowColumn[Name](h.world)
	require.NoError(t, err)
	defer names.Release()

	var both []EntityID
	for e := range JoinEntities(healths, names) {
		both = append(both, e)
	}
	require.Equal(t, []EntityID{h.icarus, h.prometheus}, both)

	var named []EntityID
	for e := range JoinEntities(names) {
		named = append(named, e)
	}
	require.Equal(t, []EntityID{h.icarus, h.prometheus, h.zeus}, named)

	for range JoinEntities() {
		t.Fatal("empty join yielded an entity")
	}
}

func TestEach2(t *testing.T) {
	h := buildHeroes(t)
	require.NoError(t, AddComponent(h.world, h.icarus, Name("Perseus")))

	var visited []EntityID
	err := Each2(h.world, func(e EntityID, health *Health, name *Name) {
		visited = append(visited, e)
		if *name == "Perseus" && *health <= 0 {
			*health = 100
		}
	})
	require.NoError(t, err)
	require.Equal(t, []EntityID{h.icarus, h.prometheus}, visited)

	health, _, err := GetComponent[Health](h.world, h.icarus)
	require.NoError(t, err)
	require.Equal(t, Health(100), health)

	for col := range h.world.Columns() {
		require.False(t, col.Borrowed(), "Each2 releases its borrows")
	}
}

func TestEach2Conflicts(t *testing.T) {
	h := buildHeroes(t)

	err := Each2(h.world, func(EntityID, *Health, *Health) {
		t.Fatal("joined a column with itself")
	})
	require.ErrorAs(t, err, &BorrowConflictError{})

	names, _, err := ViewColumn[Name](h.world)
	require.NoError(t, err)
	err = Each2(h.world, func(EntityID, *Health, *Name) {})
	require.ErrorAs(t, err, &BorrowConflictError{})
	names.Release()

	for col := range h.world.Columns() {
		require.False(t, col.Borrowed(), "a failed Each2 gives back what it took")
	}
}

func TestEach2MissingColumn(t *testing.T) {
	h := buildHeroes(t)

	err := Each2(h.world, func(EntityID, *Health, *Velocity) {
		t.Fatal("matched an entity without a velocity column")
	})
	require.NoError(t, err)
}

func TestEach3(t *testing.T) {
	h := buildHeroes(t)
	require.NoError(t, AddComponent(h.world, h.prometheus, Position{X: 1}))
	require.NoError(t, AddComponent(h.world, h.zeus, Position{X: 2}))

	var visited []EntityID
	err := Each3(h.world, func(e EntityID, p *Position, _ *Health, _ *Name) {
		visited = append(visited, e)
		p.Y = 5
	})
	require.NoError(t, err)
	require.Equal(t, []EntityID{h.prometheus}, visited)

	position, _, err := GetComponent[Position](h.world, h.prometheus)
	require.NoError(t, err)
	require.Equal(t, Position{X: 1, Y: 5}, position)
}
