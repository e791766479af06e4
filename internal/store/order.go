package store

import "sort"

// applyOrder is the single source of truth for turning an authoritative id
// sequence into both element order and the persisted position field. Items
// whose id is absent from order keep their relative order after the ordered
// ones; the sort is stable, so applying the same order twice is a no-op.
func applyOrder[E any](items []E, order []int64, id func(*E) int64, setPos func(*E, int)) {
	rank := make(map[int64]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	key := func(e *E) int {
		if r, ok := rank[id(e)]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return key(&items[i]) < key(&items[j])
	})
	for i := range items {
		setPos(&items[i], i)
	}
}

// insertAt inserts v at index i, clamped to the slice bounds.
func insertAt[E any](items []E, i int, v E) []E {
	if i < 0 {
		i = 0
	}
	if i > len(items) {
		i = len(items)
	}
	items = append(items, v)
	copy(items[i+1:], items[i:])
	items[i] = v
	return items
}

// removeAt removes the element at index i, preserving order.
func removeAt[E any](items []E, i int) []E {
	return append(items[:i], items[i+1:]...)
}
