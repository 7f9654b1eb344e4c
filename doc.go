/*
Package stockroom provides the storage and query kernel of an Entity-Component-System (ECS).

Any Go type can be attached to an entity as a component without being declared up front.
Each component type lives in its own column, a dense array indexed by entity ID whose slots
are either present or absent. Columns are created the first time a type is attached and kept
in lockstep with the entity count from then on.

Core Concepts:

  - Entity: A dense integer ID. Entities are never removed or reused.
  - Component: Any Go type; component types are told apart by their type alone.
  - Column: Type-erased storage for one component type, recovered with a checked downcast.
  - Handle/View: Exclusive or shared borrow of one column, checked at runtime.
  - Join: Iteration over borrowed columns yielding the entities present in all of them.

Basic Usage:

	world := stockroom.Factory.NewWorld()

	icarus := world.NewEntity()
	stockroom.AddComponent(world, icarus, Health(-10))
	stockroom.AddComponent(world, icarus, Name("Icarus"))

	healths, _, _ := stockroom.BorrowColumn[Health](world)
	defer healths.Release()
	names, _, _ := stockroom.ViewColumn[Name](world)
	defer names.Release()

	for health, name := range stockroom.Join2[Health, Name](healths, names) {
		if *name == "Perseus" && *health <= 0 {
			*health = 100
		}
	}

Borrowing a column that is already borrowed incompatibly returns a BorrowConflictError; borrows
of different columns never conflict. A World is meant to be used from one goroutine.
*/
package stockroom
