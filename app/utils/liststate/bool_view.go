package liststate

type BoolField[T any] struct {
	Get func(T) bool
	Set func(*T, bool)
}

// BoolView exposes named boolean fields of a store's items, the shape the
// toggle controller works with.
type BoolView[T any] struct {
	store  *Store[T]
	fields map[string]BoolField[T]
}

func NewBoolView[T any](store *Store[T], fields map[string]BoolField[T]) *BoolView[T] {
	return &BoolView[T]{store: store, fields: fields}
}

func (v *BoolView[T]) Generation() Epoch {
	return v.store.Generation()
}

func (v *BoolView[T]) GetBool(id, field string) (bool, bool) {
	f, ok := v.fields[field]
	if !ok {
		return false, false
	}
	item, ok := v.store.Get(id)
	if !ok {
		return false, false
	}
	return f.Get(item), true
}

func (v *BoolView[T]) SetBool(id, field string, value bool) bool {
	f, ok := v.fields[field]
	if !ok {
		return false
	}
	return v.store.Update(id, func(item *T) { f.Set(item, value) })
}
