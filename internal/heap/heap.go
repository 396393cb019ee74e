// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap manages the interpreter's value heap: a singly-linked
// list of fixed-capacity slabs of value.Cell, with live-bit reuse
// (spec.md §3.4, §4.2). It mirrors the teacher's page-table style of
// indexing memory in flat, fixed-size arrays (core/mapping.go's
// pageTable0..4) rather than a tree of individually heap-allocated
// nodes: a slab is one contiguous []value.Cell, not N separate
// *value.Cell allocations.
package heap

import "github.com/lone-lisp/lone/internal/value"

// SlabSize is LONE_HEAP_VALUE_COUNT: the number of cells per slab.
const SlabSize = 1024

type slab struct {
	cells [SlabSize]value.Cell
	next  *slab
}

// Heap is a linked list of slabs. The head slab is never reclaimed,
// even when fully dead, so it always anchors the chain (spec.md §3.4).
type Heap struct {
	head *slab
}

// New returns a Heap with a single, empty slab.
func New() *Heap {
	h := &Heap{head: &slab{}}
	return h
}

// AllocateValue returns a live, unmarked, freshly-claimed cell: either
// a reused dead cell from anywhere in the slab chain, or the first
// cell of a newly allocated slab if none was found. The caller is
// responsible for setting Tag and the type-specific fields.
func (h *Heap) AllocateValue() *value.Cell {
	for s := h.head; s != nil; s = s.next {
		for i := range s.cells {
			if !s.cells[i].Live {
				c := &s.cells[i]
				c.Reset()
				c.Live = true
				c.Marked = false
				return c
			}
		}
	}
	s := &slab{}
	s.next = h.head.next
	h.head.next = s
	c := &s.cells[0]
	c.Live = true
	return c
}

// DeallocateDeadSlabs walks the chain from the head and unlinks (and
// drops, for the Go garbage collector to reclaim) any non-head slab
// every one of whose cells is dead.
func (h *Heap) DeallocateDeadSlabs() {
	prev := h.head
	for s := h.head.next; s != nil; {
		next := s.next
		if allDead(s) {
			prev.next = next
		} else {
			prev = s
		}
		s = next
	}
}

func allDead(s *slab) bool {
	for i := range s.cells {
		if s.cells[i].Live {
			return false
		}
	}
	return true
}

// ForEachSlab calls fn with every cell in every slab, in chain order —
// the collector's sweep phase and diagnostics both walk the heap this
// way.
func (h *Heap) ForEachSlab(fn func(cells []value.Cell)) {
	for s := h.head; s != nil; s = s.next {
		fn(s.cells[:])
	}
}

// Stats reports slab and live-cell counts, for diagnostics and tests.
type Stats struct {
	Slabs     int
	LiveCells int
	Capacity  int
}

func (h *Heap) Stats() Stats {
	var st Stats
	for s := h.head; s != nil; s = s.next {
		st.Slabs++
		st.Capacity += SlabSize
		for i := range s.cells {
			if s.cells[i].Live {
				st.LiveCells++
			}
		}
	}
	return st
}
