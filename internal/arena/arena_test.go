// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arena

import (
	"encoding/binary"
	"testing"
)

func TestAllocateZeroed(t *testing.T) {
	a := New(4096)
	p, err := a.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(p) < 64 {
		t.Fatalf("got payload of %d bytes, want at least 64", len(p))
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("payload[%d] = %d, want 0", i, b)
		}
	}
}

func TestAllocateExhausted(t *testing.T) {
	a := New(headerSize + DefaultAlignment)
	if _, err := a.Allocate(DefaultAlignment); err != nil {
		t.Fatalf("first allocation: %v", err)
	}
	if _, err := a.Allocate(DefaultAlignment); err != ErrExhausted {
		t.Fatalf("second allocation: got %v, want ErrExhausted", err)
	}
}

func TestDeallocateCoalesces(t *testing.T) {
	a := New(4096)
	p1, err := a.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate p1: %v", err)
	}
	before := a.InUse()
	a.Deallocate(p1)
	if a.InUse() != before-len(p1) {
		t.Fatalf("InUse after Deallocate = %d, want %d", a.InUse(), before-len(p1))
	}
	// The freed block should be reusable for a request of the same size.
	p2, err := a.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate p2: %v", err)
	}
	if len(p2) != len(p1) {
		t.Fatalf("reused block size = %d, want %d", len(p2), len(p1))
	}
}

func TestReallocatePreservesContent(t *testing.T) {
	a := New(4096)
	p, err := a.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	copy(p, []byte("0123456789abcdef"))

	grown, err := a.Reallocate(p, 32)
	if err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if string(grown[:16]) != "0123456789abcdef" {
		t.Fatalf("Reallocate did not preserve content: %q", grown[:16])
	}
}

func TestReadWriteUintRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	for _, width := range []int{1, 2, 4, 8} {
		if !WriteUint(buf, 0, width, binary.LittleEndian, 0xff) {
			t.Fatalf("WriteUint width %d failed", width)
		}
		got, ok := ReadUint(buf, 0, width, binary.LittleEndian)
		if !ok || got != 0xff {
			t.Fatalf("ReadUint width %d = (%d, %v), want (255, true)", width, got, ok)
		}
	}
}

func TestReadUintOutOfBounds(t *testing.T) {
	buf := make([]byte, 4)
	if _, ok := ReadUint(buf, 2, 4, binary.LittleEndian); ok {
		t.Fatalf("ReadUint at an out-of-bounds offset should fail")
	}
}

func TestEqual(t *testing.T) {
	if !Equal([]byte("abc"), []byte("abc")) {
		t.Fatalf("Equal should be true for identical content")
	}
	if Equal([]byte("abc"), []byte("abd")) {
		t.Fatalf("Equal should be false for differing content")
	}
	if Equal([]byte("abc"), []byte("ab")) {
		t.Fatalf("Equal should be false for differing lengths")
	}
}
