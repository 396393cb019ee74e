// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

const tableInitialCapacity = 8
const tableMaxLoadFactor = 0.7

type tableEntry struct {
	key, val Value
}

// Table is an open-addressed, linearly probed hash table with a
// compact entry array (insertion order preserved) and a separate
// sparse index array, plus a prototype chain for fallback lookup
// (spec.md §3.3). It underlies both the language's user-visible Table
// value and every lexical environment.
type Table struct {
	indexes   []int // -1 means unused, else an index into entries
	entries   []tableEntry
	count     int
	Prototype Value
}

func newTable() *Table {
	return &Table{indexes: newIndexes(tableInitialCapacity)}
}

func newIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = -1
	}
	return idx
}

func (t *Table) capacity() int { return len(t.indexes) }

// NewTable allocates a fresh Table heap value with the given prototype
// (Nil or another Table heap value).
func NewTable(ip Interpreter, prototype Value) Value {
	c := ip.NewCell(HeapTable)
	c.Table = newTable()
	c.Table.Prototype = prototype
	return NewHeap(c)
}

func (t *Table) probe(key Value) (slot int, found bool) {
	cap := t.capacity()
	slot = int(HashValue(key) % uint64(cap))
	for t.indexes[slot] != -1 {
		if Equal(t.entries[t.indexes[slot]].key, key) {
			return slot, true
		}
		slot = (slot + 1) % cap
	}
	return slot, false
}

func (t *Table) localGet(key Value) (Value, bool) {
	slot, found := t.probe(key)
	if !found {
		return Nil, false
	}
	return t.entries[t.indexes[slot]].val, true
}

func (t *Table) set(key, val Value) {
	if float64(t.count+1)/float64(t.capacity()) > tableMaxLoadFactor {
		t.rehash(t.capacity() * 2)
	}
	slot, found := t.probe(key)
	if found {
		t.entries[t.indexes[slot]].val = val
		return
	}
	t.entries = append(t.entries, tableEntry{key: key, val: val})
	t.indexes[slot] = len(t.entries) - 1
	t.count++
}

func (t *Table) rehash(newCapacity int) {
	old := make([]tableEntry, len(t.entries))
	copy(old, t.entries)
	t.indexes = newIndexes(newCapacity)
	t.entries = t.entries[:0]
	t.count = 0
	for _, e := range old {
		t.set(e.key, e.val)
	}
}

// delete removes key using Knuth 6.4 Algorithm R back-shift deletion
// (no tombstones), then closes the compact entries array so iteration
// order of the surviving keys is unaffected (spec.md §3.3).
func (t *Table) delete(key Value) bool {
	slot, found := t.probe(key)
	if !found {
		return false
	}
	entryIdx := t.indexes[slot]
	cap := t.capacity()

	t.indexes[slot] = -1
	i := slot
	for {
		i = (i + 1) % cap
		if t.indexes[i] == -1 {
			break
		}
		home := int(HashValue(t.entries[t.indexes[i]].key) % uint64(cap))
		if !cyclicBetween(home, (slot+1)%cap, i, cap) {
			t.indexes[slot] = t.indexes[i]
			t.indexes[i] = -1
			slot = i
		}
	}

	t.entries = append(t.entries[:entryIdx], t.entries[entryIdx+1:]...)
	for s, idx := range t.indexes {
		if idx > entryIdx {
			t.indexes[s]--
		}
	}
	t.count--
	return true
}

// cyclicBetween reports whether x lies in the inclusive cyclic range
// [lo, hi] modulo capacity.
func cyclicBetween(x, lo, hi, capacity int) bool {
	_ = capacity
	if lo <= hi {
		return lo <= x && x <= hi
	}
	return x >= lo || x <= hi
}

// TableGet looks up key in t, falling through to the prototype chain
// on a local miss.
func TableGet(t Value, key Value) (Value, bool) {
	tt := t.Cell().Table
	if v, ok := tt.localGet(key); ok {
		return v, true
	}
	if tt.Prototype.IsTable() {
		return TableGet(tt.Prototype, key)
	}
	return Nil, false
}

// TableSet inserts or updates key in t's own table, never touching the
// prototype chain.
func TableSet(t Value, key, val Value) { t.Cell().Table.set(key, val) }

// TableDelete removes key from t's own table. It reports whether the
// key was present.
func TableDelete(t Value, key Value) bool { return t.Cell().Table.delete(key) }

// TableCount returns the number of entries in t's own table (not
// counting the prototype chain).
func TableCount(t Value) int { return t.Cell().Table.count }

// TableCapacity returns the current size of t's index array, for the
// load-factor testable property (spec.md §8).
func TableCapacity(t Value) int { return t.Cell().Table.capacity() }

// TableForEach visits every entry of t's own table in insertion order,
// stopping early if fn returns false.
func TableForEach(t Value, fn func(key, val Value) bool) {
	for _, e := range t.Cell().Table.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}
