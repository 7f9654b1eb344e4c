package stockroom

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// Component represents the identity of a component type. Component types are
// told apart solely by their Go type; the embedded table.ElementType is the
// identity the world schema works with.
type Component interface {
	table.ElementType
	ReflectType() reflect.Type
	elementType() table.ElementType
}

type componentType struct {
	table.ElementType
	typ reflect.Type
}

func (c componentType) ReflectType() reflect.Type {
	return c.typ
}

func (c componentType) String() string {
	return c.typ.String()
}

func (c componentType) elementType() table.ElementType {
	return c.ElementType
}

var componentTypes = struct {
	sync.Mutex
	byType map[reflect.Type]Component
}{
	byType: make(map[reflect.Type]Component),
}

// ComponentOf returns the identity of T. The same value is returned for every
// call with the same T, so identities can be compared and used as map keys.
func ComponentOf[T any]() Component {
	typ := reflect.TypeFor[T]()

	componentTypes.Lock()
	defer componentTypes.Unlock()

	if c, ok := componentTypes.byType[typ]; ok {
		return c
	}
	c := componentType{
		ElementType: table.FactoryNewElementType[T](),
		typ:         typ,
	}
	componentTypes.byType[typ] = c
	return c
}
