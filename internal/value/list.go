// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Cons allocates a new list cell. Nil is not a list cell (spec.md
// §3.2); a value whose first and rest are both Nil is still a real
// list cell, not Nil itself.
func Cons(ip Interpreter, first, rest Value) Value {
	c := ip.NewCell(HeapList)
	c.First = first
	c.Rest = rest
	return NewHeap(c)
}

// First returns v's first element, or Nil if v is not a list cell.
func First(v Value) Value {
	if !v.IsList() {
		return Nil
	}
	return v.Cell().First
}

// Rest returns v's tail, or Nil if v is not a list cell.
func Rest(v Value) Value {
	if !v.IsList() {
		return Nil
	}
	return v.Cell().Rest
}

// ListLength counts the proper-list prefix of v.
func ListLength(v Value) int {
	n := 0
	for v.IsList() {
		n++
		v = Rest(v)
	}
	return n
}

// SliceToList builds a fresh proper list from items, in order.
func SliceToList(ip Interpreter, items []Value) Value {
	result := Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(ip, items[i], result)
	}
	return result
}

// ListToSlice flattens the proper-list prefix of v into a slice,
// stopping at the first non-list tail (Nil or otherwise).
func ListToSlice(v Value) []Value {
	var out []Value
	for v.IsList() {
		out = append(out, First(v))
		v = Rest(v)
	}
	return out
}

// ForEachList walks the proper-list prefix of v, calling fn for each
// element until fn returns false or the list ends.
func ForEachList(v Value, fn func(Value) bool) {
	for v.IsList() {
		if !fn(First(v)) {
			return
		}
		v = Rest(v)
	}
}
