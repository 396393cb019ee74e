// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/lone-lisp/lone/internal/fault"

// Flags govern the function-application protocol shared by Function
// and Primitive values (spec.md §3.2, §4.6). They are what lets the
// evaluator implement every built-in special form as an ordinary
// primitive instead of a separate syntactic class.
type Flags struct {
	EvaluateArguments bool
	EvaluateResult    bool
	VariableArguments bool
}

// Interpreter is the minimal callback surface a Primitive's native
// function needs back into the evaluator: evaluating expressions,
// applying values, allocating cells, and interning symbols. It is
// declared here — at the point of use — rather than in package eval,
// so that value has no dependency on eval and primitives (which live
// outside both, in internal/intrinsics) can be written against this
// narrow seam instead of the whole evaluator.
type Interpreter interface {
	Evaluate(module, env, expr Value) (Value, error)
	EvaluateAll(module, env, list Value) (Value, error)
	Apply(module, env, applicable, rawArguments Value) (Value, error)
	NewCell(tag HeapTag) *Cell
	Intern(bytes []byte) Value
	Fatalf(kind fault.Kind, format string, args ...any) error
}

// PrimitiveFunc is the signature every native primitive implements.
// args is always a proper list; closure is the arbitrary Value handed
// back unchanged on every call (spec.md §3.2).
type PrimitiveFunc func(ip Interpreter, module, env, args, closure Value) (Value, error)

// Cell is a heap-resident object. Cells live inside heap slabs; the
// live and marked bits are owned exclusively by the collector. Only a
// subset of the fields below are valid for any given Tag — the same
// "fields only valid for a subset of kinds" discipline the teacher
// uses for its own tagged Type (internal/gocore/type.go).
type Cell struct {
	Live   bool
	Marked bool
	Tag    HeapTag

	// Bytes / Text / Symbol share a byte-string representation.
	Bytes                 []byte
	ShouldDeallocateBytes bool

	// List
	First, Rest Value

	// Vector
	Elements []Value
	Count    int

	// Table
	Table *Table

	// Module
	ModuleName        Value // list of symbols, normalized (spec.md §4.9)
	ModuleEnvironment Value // Table heap value
	ModuleExports     Value // Vector of symbols

	// Function
	Parameters Value // proper list of symbols, a single symbol, or Nil
	Code       Value // list of expressions forming the body
	Closure    Value // captured environment (Function) / arbitrary value (Primitive)
	Flags      Flags

	// Primitive
	Name    Value // symbol
	Native  PrimitiveFunc
}
