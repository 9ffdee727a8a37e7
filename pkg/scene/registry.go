package scene

import "slices"

// registry is a name-keyed map that iterates in insertion order, so
// object ids and light order are stable between runs.
type registry[T any] struct {
	keys  []string
	items map[string]T
}

func newRegistry[T any]() registry[T] {
	return registry[T]{items: make(map[string]T)}
}

// set stores v under key. Replacing an existing key keeps its position.
func (r *registry[T]) set(key string, v T) {
	if _, ok := r.items[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.items[key] = v
}

func (r *registry[T]) get(key string) (T, bool) {
	v, ok := r.items[key]
	return v, ok
}

func (r *registry[T]) remove(key string) bool {
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	return true
}

func (r *registry[T]) clear() {
	r.keys = nil
	clear(r.items)
}

func (r *registry[T]) len() int { return len(r.keys) }

// values returns the items in insertion order.
func (r *registry[T]) values() []T {
	out := make([]T, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.items[k]
	}
	return out
}

func (r *registry[T]) names() []string {
	return slices.Clone(r.keys)
}
