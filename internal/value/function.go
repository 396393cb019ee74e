// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// NewFunction allocates a Function closing over env, with the given
// parameter list (a proper list of symbols, or a single symbol for
// variable-arity) and body.
func NewFunction(ip Interpreter, parameters, code, env Value, flags Flags) Value {
	c := ip.NewCell(HeapFunction)
	c.Parameters = parameters
	c.Code = code
	c.Closure = env
	c.Flags = flags
	return NewHeap(c)
}

// NewPrimitive allocates a Primitive wrapping a native function, with
// the closure Value passed back unchanged on every call.
func NewPrimitive(ip Interpreter, name Value, fn PrimitiveFunc, closure Value, flags Flags) Value {
	c := ip.NewCell(HeapPrimitive)
	c.Name = name
	c.Native = fn
	c.Closure = closure
	c.Flags = flags
	return NewHeap(c)
}

// NewModule allocates a Module cell with the given normalized name.
// Callers are responsible for installing an environment and exports
// vector afterward (internal/module owns that sequencing, since it
// must insert the module into the loaded-modules table first to
// support self-reference — spec.md §4.9).
func NewModule(ip Interpreter, name Value) Value {
	c := ip.NewCell(HeapModule)
	c.ModuleName = name
	c.ModuleEnvironment = Nil
	c.ModuleExports = Nil
	return NewHeap(c)
}
