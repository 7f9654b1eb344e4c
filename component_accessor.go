package stockroom

// GetFromCursor reads the value of the entity the cursor is positioned on.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) (T, bool, error) {
	return GetComponent[T](cursor.world, cursor.current)
}

// CheckCursor reports whether the current entity of cursor carries the
// component.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return HasComponent[T](cursor.world, cursor.current)
}
