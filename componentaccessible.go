package stockroom

// Get returns a copy of the value stored for e.
func (c AccessibleComponent[T]) Get(w World, e EntityID) (T, bool, error) {
	return GetComponent[T](w, e)
}

// Has reports whether e carries the component, using its signature only.
func (c AccessibleComponent[T]) Has(w World, e EntityID) bool {
	return HasComponent[T](w, e)
}

func (c AccessibleComponent[T]) Set(w World, e EntityID, value T) error {
	return AddComponent(w, e, value)
}

// Enqueue attaches value now if possible and queues it otherwise.
func (c AccessibleComponent[T]) Enqueue(w World, e EntityID, value T) error {
	return EnqueueAddComponent(w, e, value)
}

func (c AccessibleComponent[T]) Remove(w World, e EntityID) (bool, error) {
	return RemoveComponent[T](w, e)
}

func (c AccessibleComponent[T]) Borrow(w World) (*Handle[T], bool, error) {
	return BorrowColumn[T](w)
}

func (c AccessibleComponent[T]) View(w World) (*View[T], bool, error) {
	return ViewColumn[T](w)
}
