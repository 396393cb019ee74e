// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Value is the interpreter's tagged sum type: a fat reference that is
// either register-resident (Nil, Integer, Pointer) or a reference to a
// heap Cell. Unlike an interface{}-based value (the style used by
// langlang's Value), this is a plain struct with no dynamic dispatch,
// so constructing a Nil or an Integer never allocates — matching
// spec.md §3.1's four-register-variant design.
type Value struct {
	tag     Tag
	integer int64

	pointerAddr uintptr
	pointerType PointeeType

	cell *Cell
}

// Nil is the unique empty value. It is safe to use as a zero Value.
var Nil = Value{tag: TagNil}

// NewInteger returns a register Integer value.
func NewInteger(n int64) Value { return Value{tag: TagInteger, integer: n} }

// NewPointer returns a register Pointer value describing a
// dereferencing capability, not an owned allocation.
func NewPointer(addr uintptr, pt PointeeType) Value {
	return Value{tag: TagPointer, pointerAddr: addr, pointerType: pt}
}

// NewHeap wraps a heap Cell in a Value. c must be non-nil and live.
func NewHeap(c *Cell) Value {
	if c == nil {
		return Nil
	}
	return Value{tag: TagHeap, cell: c}
}

// Tag reports which variant v holds.
func (v Value) Tag() Tag { return v.tag }

// Integer returns v's integer payload. Only meaningful when
// v.Tag() == TagInteger.
func (v Value) Integer() int64 { return v.integer }

// PointerAddr returns v's pointer address. Only meaningful when
// v.Tag() == TagPointer.
func (v Value) PointerAddr() uintptr { return v.pointerAddr }

// PointerType returns v's pointee type. Only meaningful when
// v.Tag() == TagPointer.
func (v Value) PointerType() PointeeType { return v.pointerType }

// Cell returns v's heap cell, or nil if v is not a heap value.
func (v Value) Cell() *Cell {
	if v.tag != TagHeap {
		return nil
	}
	return v.cell
}

// IsNil reports whether v is the register Nil value.
func (v Value) IsNil() bool { return v.tag == TagNil }

// IsInteger reports whether v is a register Integer.
func (v Value) IsInteger() bool { return v.tag == TagInteger }

// IsPointer reports whether v is a register Pointer.
func (v Value) IsPointer() bool { return v.tag == TagPointer }

// IsHeapValue reports whether v references a heap Cell.
func (v Value) IsHeapValue() bool { return v.tag == TagHeap && v.cell != nil }

func (v Value) hasHeapTag(t HeapTag) bool {
	return v.IsHeapValue() && v.cell.Tag == t
}

func (v Value) IsList() bool      { return v.hasHeapTag(HeapList) }
func (v Value) IsVector() bool    { return v.hasHeapTag(HeapVector) }
func (v Value) IsTable() bool     { return v.hasHeapTag(HeapTable) }
func (v Value) IsBytes() bool     { return v.hasHeapTag(HeapBytes) }
func (v Value) IsText() bool      { return v.hasHeapTag(HeapText) }
func (v Value) IsSymbol() bool    { return v.hasHeapTag(HeapSymbol) }
func (v Value) IsModule() bool    { return v.hasHeapTag(HeapModule) }
func (v Value) IsFunction() bool  { return v.hasHeapTag(HeapFunction) }
func (v Value) IsPrimitive() bool { return v.hasHeapTag(HeapPrimitive) }

// IsApplicable reports whether v may occur as the first element of an
// evaluated list: a Function or a Primitive.
func (v Value) IsApplicable() bool { return v.IsFunction() || v.IsPrimitive() }

// HasBytes reports whether v carries a byte slice: Bytes, Text, or Symbol.
func (v Value) HasBytes() bool { return v.IsBytes() || v.IsText() || v.IsSymbol() }

// IsListOrNil reports whether v is Nil or a list cell — the shape a
// proper-list tail is required to have.
func (v Value) IsListOrNil() bool { return v.IsNil() || v.IsList() }

// Truthy reports whether v counts as true for if/when/unless: anything
// but Nil.
func (v Value) Truthy() bool { return !v.IsNil() }
