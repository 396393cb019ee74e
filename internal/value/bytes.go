// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Bytes, Text and Symbol cells share a (pointer, count) byte slice
// representation (spec.md §3.2); only the heap tag and the symbol
// table's interning discipline distinguish them.

// NewBytes allocates a Bytes heap value over data. owned marks whether
// the collector should free data's backing store on sweep (it should
// not, for slices borrowed from constant or externally-owned memory).
func NewBytes(ip Interpreter, data []byte, owned bool) Value {
	return newByteCarrier(ip, HeapBytes, data, owned)
}

// NewText allocates a Text heap value over data.
func NewText(ip Interpreter, data []byte, owned bool) Value {
	return newByteCarrier(ip, HeapText, data, owned)
}

// NewSymbolCell allocates a raw Symbol heap value over data. Callers
// outside the symbol intern table should not use this directly — use
// internal/symbol.Intern, which guarantees the dedup invariant
// (spec.md §3.2) this constructor alone cannot.
func NewSymbolCell(ip Interpreter, data []byte, owned bool) Value {
	return newByteCarrier(ip, HeapSymbol, data, owned)
}

func newByteCarrier(ip Interpreter, tag HeapTag, data []byte, owned bool) Value {
	c := ip.NewCell(tag)
	c.Bytes = data
	c.ShouldDeallocateBytes = owned
	return NewHeap(c)
}

// BytesOf returns v's underlying byte slice, or nil if v does not
// carry one.
func BytesOf(v Value) []byte {
	if !v.HasBytes() {
		return nil
	}
	return v.Cell().Bytes
}
