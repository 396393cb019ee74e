// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"encoding/binary"
	"unsafe"
)

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

func fnvByte(h uint64, b byte) uint64 {
	h ^= uint64(b)
	h *= fnvPrime64
	return h
}

func fnvBytes(h uint64, data []byte) uint64 {
	for _, b := range data {
		h = fnvByte(h, b)
	}
	return h
}

func fnvUint64(h uint64, n uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return fnvBytes(h, buf[:])
}

// HashValue implements spec.md §3.3's type-aware FNV-1a recursion: the
// hash of a value always folds in its type tag first, so that, e.g.,
// the integer 0 and the empty bytes slice never collide just because
// their payloads happen to both hash to zero.
func HashValue(v Value) uint64 {
	h := fnvByte(fnvOffset64, byte(v.tag))
	switch v.tag {
	case TagNil:
		return h
	case TagInteger:
		return fnvUint64(h, uint64(v.integer))
	case TagPointer:
		h = fnvByte(h, byte(v.pointerType))
		return fnvUint64(h, uint64(v.pointerAddr))
	case TagHeap:
		return hashCell(h, v.cell)
	default:
		return h
	}
}

func hashCell(h uint64, c *Cell) uint64 {
	h = fnvByte(h, byte(c.Tag))
	switch c.Tag {
	case HeapList:
		h = fnvUint64(h, HashValue(c.First))
		return fnvUint64(h, HashValue(c.Rest))
	case HeapSymbol:
		// Symbols are interned, so the cell's own address is a stable,
		// collision-free identity for hashing (spec.md §3.3).
		return fnvUint64(h, uint64(uintptr(unsafe.Pointer(c))))
	case HeapBytes, HeapText:
		return fnvBytes(h, c.Bytes)
	default:
		// Vector, Table, Module, Function, Primitive hash by identity:
		// they only ever compare Identical (spec.md §4.3's Equivalent
		// falls back to Identical for aggregates).
		return fnvUint64(h, uint64(uintptr(unsafe.Pointer(c))))
	}
}
