package idxtable

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
)

// ErrNoFreeEntry is returned by FindFree when every candidate is claimed.
var ErrNoFreeEntry = errors.New("no free entry found")

type Table[K cmp.Ordered, T any] interface {
	Get(id K) (T, error)
	Claim(id K, d T) error
	Release(id K) error
	Update(id K, d T) error

	Iterate() *Iterator[K, T]

	Count() int
	Has(id K) bool

	IsFree(id K) bool
	FindFree(candidates iter.Seq[K]) (K, error)

	GetAll() map[K]T
}

type ValidationFn[K cmp.Ordered] func(id K) error

// NewTable returns a table seeded with initEntries. The validation function is
// applied to every id passed to the table, init entries included.
func NewTable[K cmp.Ordered, T any](initEntries map[K]T, v ValidationFn[K]) (Table[K, T], error) {
	r := &table[K, T]{
		m:          new(sync.RWMutex),
		table:      map[K]T{},
		validateFn: v,
	}

	var errm error
	for id, d := range initEntries {
		if err := r.add(id, d); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table[K cmp.Ordered, T any] struct {
	m          *sync.RWMutex
	table      map[K]T
	validateFn ValidationFn[K]
}

func (r *table[K, T]) validate(id K) error {
	if r.validateFn != nil {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[K, T]) Get(id K) (T, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d T

	if err := r.validate(id); err != nil {
		return d, err
	}

	d, ok := r.table[id]
	if !ok {
		return d, fmt.Errorf("no match found for: %v", id)
	}
	return d, nil
}

func (r *table[K, T]) Claim(id K, d T) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, d)
}

func (r *table[K, T]) Release(id K) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

func (r *table[K, T]) Update(id K, d T) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, d)
}

func (r *table[K, T]) Iterate() *Iterator[K, T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *table[K, T]) iterate() *Iterator[K, T] {
	keys := make([]K, 0, len(r.table))
	vals := make(map[K]T, len(r.table))
	for key, d := range r.table {
		keys = append(keys, key)
		vals[key] = d
	}
	slices.Sort(keys)

	return &Iterator[K, T]{current: -1, keys: keys, table: vals}
}

func (r *table[K, T]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table[K, T]) Has(id K) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[id]
	return ok
}

func (r *table[K, T]) IsFree(id K) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(id)
}

func (r *table[K, T]) isFree(id K) bool {
	_, ok := r.table[id]
	return !ok
}

// FindFree returns the first id yielded by candidates that is not claimed.
// Candidates failing validation are skipped.
func (r *table[K, T]) FindFree(candidates iter.Seq[K]) (K, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	for id := range candidates {
		if r.validate(id) != nil {
			continue
		}
		if r.isFree(id) {
			return id, nil
		}
	}
	var zero K
	return zero, ErrNoFreeEntry
}

func (r *table[K, T]) add(id K, d T) error {
	if err := r.validate(id); err != nil {
		return err
	}
	if !r.isFree(id) {
		return fmt.Errorf("entry %v already exists", id)
	}
	r.table[id] = d
	return nil
}

func (r *table[K, T]) update(id K, d T) error {
	if err := r.validate(id); err != nil {
		return err
	}
	if r.isFree(id) {
		return fmt.Errorf("entry %v not found", id)
	}
	r.table[id] = d
	return nil
}

func (r *table[K, T]) delete(id K) error {
	if err := r.validate(id); err != nil {
		return err
	}
	delete(r.table, id)
	return nil
}

func (r *table[K, T]) GetAll() map[K]T {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[K]T, len(r.table))
	for id, d := range r.table {
		entries[id] = d
	}
	return entries
}
