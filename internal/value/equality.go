// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"

	"github.com/lone-lisp/lone/internal/arena"
)

// Identical reports whether a and b are the same tag and, for heap
// values, the same cell; for register values, the same payload
// (spec.md §4.3).
func Identical(a, b Value) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNil:
		return true
	case TagInteger:
		return a.integer == b.integer
	case TagPointer:
		return a.pointerAddr == b.pointerAddr && a.pointerType == b.pointerType
	case TagHeap:
		return a.cell == b.cell
	default:
		return false
	}
}

// Equivalent is Identical, or same type with equal payload: byte
// equality for bytes/text, integer equality, pointer equality.
// Aggregate heap types (list, vector, table, module, function,
// primitive) fall back to Identical (spec.md §4.3).
func Equivalent(a, b Value) bool {
	if Identical(a, b) {
		return true
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagInteger:
		return a.integer == b.integer
	case TagPointer:
		return a.pointerAddr == b.pointerAddr && a.pointerType == b.pointerType
	case TagHeap:
		if a.cell.Tag != b.cell.Tag {
			return false
		}
		if a.cell.Tag == HeapBytes || a.cell.Tag == HeapText {
			return arena.Equal(a.cell.Bytes, b.cell.Bytes)
		}
		return false
	default:
		return false
	}
}

// Equal is Identical, or structural: lists compare recursively by
// Equal, vectors by count-and-elementwise-Equal, everything else
// falls back to Equivalent (tables fall back to Identical through
// Equivalent, per spec.md §4.3).
func Equal(a, b Value) bool {
	if Identical(a, b) {
		return true
	}
	if a.tag == TagHeap && b.tag == TagHeap && a.cell.Tag == b.cell.Tag {
		switch a.cell.Tag {
		case HeapList:
			return Equal(a.cell.First, b.cell.First) && Equal(a.cell.Rest, b.cell.Rest)
		case HeapVector:
			if a.cell.Count != b.cell.Count {
				return false
			}
			for i := 0; i < a.cell.Count; i++ {
				if !Equal(a.cell.Elements[i], b.cell.Elements[i]) {
					return false
				}
			}
			return true
		}
	}
	return Equivalent(a, b)
}

// CompareIntegers orders a against b, returning -1, 0, or 1. It is a
// fatal runtime error (spec.md §4.3) to call it on anything but two
// integers.
func CompareIntegers(a, b Value) (int, error) {
	if !a.IsInteger() || !b.IsInteger() {
		return 0, fmt.Errorf("comparison of non-integers: %s and %s", a.tag, b.tag)
	}
	switch {
	case a.integer < b.integer:
		return -1, nil
	case a.integer > b.integer:
		return 1, nil
	default:
		return 0, nil
	}
}
