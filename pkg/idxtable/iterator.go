package idxtable

import "cmp"

// Iterator walks a point-in-time copy of the table in ascending key order.
type Iterator[K cmp.Ordered, T any] struct {
	current int
	keys    []K
	table   map[K]T
}

func (r *Iterator[K, T]) Value() T {
	return r.table[r.keys[r.current]]
}

func (r *Iterator[K, T]) ID() K {
	return r.keys[r.current]
}

func (r *Iterator[K, T]) Next() bool {
	r.current++
	return r.current < len(r.keys)
}
