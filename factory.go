package stockroom

type factory struct{}

var Factory factory

func (f factory) NewWorld() World {
	return newWorld()
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, w World) *Cursor {
	return newCursor(query, w)
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{
		Component: ComponentOf[T](),
	}
}
