// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arena

import "encoding/binary"

// ReadUint reads an n-byte (1, 2, 4, or 8) unsigned integer at offset
// in buf using the given byte order. It is the shared implementation
// behind the bytes intrinsic module's per-width, per-endianness
// read-* primitives (spec.md §6.4).
func ReadUint(buf []byte, offset, width int, order binary.ByteOrder) (uint64, bool) {
	if offset < 0 || offset+width > len(buf) {
		return 0, false
	}
	switch width {
	case 1:
		return uint64(buf[offset]), true
	case 2:
		return uint64(order.Uint16(buf[offset:])), true
	case 4:
		return uint64(order.Uint32(buf[offset:])), true
	case 8:
		return order.Uint64(buf[offset:]), true
	default:
		return 0, false
	}
}

// WriteUint writes an n-byte unsigned integer at offset in buf using
// the given byte order.
func WriteUint(buf []byte, offset, width int, order binary.ByteOrder, v uint64) bool {
	if offset < 0 || offset+width > len(buf) {
		return false
	}
	switch width {
	case 1:
		buf[offset] = byte(v)
	case 2:
		order.PutUint16(buf[offset:], uint16(v))
	case 4:
		order.PutUint32(buf[offset:], uint32(v))
	case 8:
		order.PutUint64(buf[offset:], v)
	default:
		return false
	}
	return true
}

// Equal reports whether two byte slices have identical content,
// shared by Bytes/Text equivalence checks (spec.md §4.3) and table
// hashing of byte-carrying values.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
