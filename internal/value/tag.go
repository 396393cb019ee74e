// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements lone's tagged-value model: the four
// register-resident Value variants (Nil, Integer, Pointer, HeapValue),
// the heap cell types a HeapValue can reference (Module, Function,
// Primitive, List, Vector, Table, Symbol, Text, Bytes), the three
// equalities, and the open-addressed Table. It is the base package of
// the interpreter: nothing here imports eval, reader, or module.
package value

import "fmt"

// Tag selects which of Value's four variants is populated.
type Tag uint8

const (
	TagNil Tag = iota
	TagInteger
	TagPointer
	TagHeap
)

func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagInteger:
		return "integer"
	case TagPointer:
		return "pointer"
	case TagHeap:
		return "heap"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// PointeeType describes the dereferencing capability a Pointer value
// carries. A Pointer owns nothing; the type only tells a reader how
// wide and how signed a load through it should be.
type PointeeType uint8

const (
	PointeeUnknown PointeeType = iota
	PointeeU8
	PointeeS8
	PointeeU16
	PointeeS16
	PointeeU32
	PointeeS32
	PointeeU64
	PointeeS64
)

// Width returns the byte width implied by the pointee type, or 0 for
// PointeeUnknown.
func (p PointeeType) Width() int {
	switch p {
	case PointeeU8, PointeeS8:
		return 1
	case PointeeU16, PointeeS16:
		return 2
	case PointeeU32, PointeeS32:
		return 4
	case PointeeU64, PointeeS64:
		return 8
	default:
		return 0
	}
}

// HeapTag selects which kind of object a heap Cell holds. Only a
// subset of Cell's fields are valid for any given HeapTag — see Cell.
type HeapTag uint8

const (
	HeapModule HeapTag = iota
	HeapFunction
	HeapPrimitive
	HeapList
	HeapVector
	HeapTable
	HeapSymbol
	HeapText
	HeapBytes
)

var heapTagNames = [...]string{
	HeapModule:    "module",
	HeapFunction:  "function",
	HeapPrimitive: "primitive",
	HeapList:      "list",
	HeapVector:    "vector",
	HeapTable:     "table",
	HeapSymbol:    "symbol",
	HeapText:      "text",
	HeapBytes:     "bytes",
}

func (h HeapTag) String() string {
	if int(h) < len(heapTagNames) {
		return heapTagNames[h]
	}
	return fmt.Sprintf("HeapTag(%d)", uint8(h))
}
