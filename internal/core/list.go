package core

// Keyed is anything identified by a string key.
type Keyed interface {
	Key() string
}

// AppendByID adds item at the end of items.
func AppendByID[T Keyed](items []T, item T) []T {
	return append(items, item)
}

// ReplaceByID swaps the element sharing item's key in place. The returned
// slice is a copy; when no element matches it equals items.
func ReplaceByID[T Keyed](items []T, item T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Key() == item.Key() {
			out[i] = item
		}
	}
	return out
}

// RemoveByID drops every element with the given key, keeping the order of
// the rest.
func RemoveByID[T Keyed](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	return out
}

// FindByID returns the element with the given key.
func FindByID[T Keyed](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
