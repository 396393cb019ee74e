// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval implements lone's tree-walking evaluator (spec.md §4.5,
// §4.6): dispatch on expression tag, symbol lookup through the
// environment's prototype chain, form application with the
// Function/Primitive/collection-access/fatal-error branches, and
// Function/Primitive application's shared argument- and
// result-evaluation policy. It also owns the explicit frame stack that
// stands in for spec.md §4.8's conservative native-stack scan — see
// frame.go.
package eval

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/heap"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

// Evaluator holds every piece of mutable interpreter state the tree
// walk touches: the heap cells are allocated from, the intern table,
// and the root stack the collector walks. It implements
// value.Interpreter, the narrow seam primitives in internal/intrinsics
// call back through.
type Evaluator struct {
	Heap    *heap.Heap
	Symbols *symbol.Table
	Stack   Stack

	// TopLevel is the root environment every module's own environment
	// chains to as its prototype (spec.md §4.9).
	TopLevel value.Value
}

// New returns an Evaluator with a fresh heap and no symbol table yet.
// Symbol interning needs an Interpreter to allocate cells, and the
// symbol table in turn is what Evaluator.Intern delegates to — so
// construction is two-phase: New gives the caller something that
// already satisfies value.Interpreter (for symbol.New), and Init
// finishes setup once a symbol table exists.
func New() *Evaluator {
	return &Evaluator{Heap: heap.New()}
}

// Init finishes construction: records the symbol table and allocates
// the top-level environment.
func (e *Evaluator) Init(symbols *symbol.Table) {
	e.Symbols = symbols
	e.TopLevel = value.NewTable(e, value.Nil)
}

// NewCell satisfies value.Interpreter: allocate a live cell from the
// heap and tag it.
func (e *Evaluator) NewCell(tag value.HeapTag) *value.Cell {
	c := e.Heap.AllocateValue()
	c.Tag = tag
	return c
}

// Intern satisfies value.Interpreter.
func (e *Evaluator) Intern(bytes []byte) value.Value { return e.Symbols.Intern(bytes) }

// Fatalf satisfies value.Interpreter, wrapping every runtime failure
// in a fault.Fatal of the given kind (spec.md §7).
func (e *Evaluator) Fatalf(kind fault.Kind, format string, args ...any) error {
	return fault.New(kind, format, args...)
}

// Evaluate is the tree-walk entry point: dispatch on expr's tag
// (spec.md §4.5).
func (e *Evaluator) Evaluate(module, env, expr value.Value) (value.Value, error) {
	idx := e.Stack.Push(Frame{Module: module, Env: env, Expr: expr})
	defer e.Stack.Pop(idx)

	switch {
	case expr.IsSymbol():
		v, _ := value.TableGet(env, expr)
		return v, nil
	case expr.IsList():
		return e.evaluateForm(module, env, expr)
	default:
		// Nil, Integer, Pointer, Vector, Table, Module, Function,
		// Primitive, Bytes, Text are all self-evaluating.
		return expr, nil
	}
}

// evaluateForm implements "form application" (spec.md §4.5): evaluate
// the operator position, then dispatch on what it produced.
func (e *Evaluator) evaluateForm(module, env, expr value.Value) (value.Value, error) {
	operator, err := e.Evaluate(module, env, value.First(expr))
	if err != nil {
		return value.Nil, err
	}
	rawArguments := value.Rest(expr)

	switch {
	case operator.IsApplicable():
		return e.Apply(module, env, operator, rawArguments)
	case operator.IsVector() || operator.IsTable():
		return e.collectionAccess(module, env, operator, rawArguments)
	default:
		return value.Nil, e.Fatalf(fault.Type, "cannot apply a value of type %s", operator.Tag())
	}
}

// collectionAccess implements the Vector/Table branch of form
// application: one further evaluated argument reads, two write and
// return the new value (spec.md §4.5).
func (e *Evaluator) collectionAccess(module, env, collection, rawArguments value.Value) (value.Value, error) {
	args, err := e.EvaluateAll(module, env, rawArguments)
	if err != nil {
		return value.Nil, err
	}
	argv := value.ListToSlice(args)

	switch len(argv) {
	case 1:
		return e.get(collection, argv[0])
	case 2:
		e.set(collection, argv[0], argv[1])
		return argv[1], nil
	default:
		return value.Nil, e.Fatalf(fault.Arity, "collection access takes one or two arguments, got %d", len(argv))
	}
}

func (e *Evaluator) get(collection, key value.Value) (value.Value, error) {
	if collection.IsVector() {
		if !key.IsInteger() {
			return value.Nil, e.Fatalf(fault.Type, "vector index must be an integer, got %s", key.Tag())
		}
		return value.VectorGet(collection, int(key.Integer())), nil
	}
	v, _ := value.TableGet(collection, key)
	return v, nil
}

func (e *Evaluator) set(collection, key, val value.Value) {
	if collection.IsVector() {
		value.VectorSet(collection, int(key.Integer()), val)
		return
	}
	value.TableSet(collection, key, val)
}

// EvaluateAll evaluates each element of the proper-list prefix of list
// against (module, env), returning a new list of results in order
// (spec.md §4.5).
func (e *Evaluator) EvaluateAll(module, env, list value.Value) (value.Value, error) {
	idx := e.Stack.Push(Frame{Module: module, Env: env, Expr: list})
	defer e.Stack.Pop(idx)

	var results []value.Value
	for cur := list; cur.IsList(); cur = value.Rest(cur) {
		v, err := e.Evaluate(module, env, value.First(cur))
		if err != nil {
			return value.Nil, err
		}
		results = append(results, v)
		e.Stack.frames[idx].Extra = results
	}
	return value.SliceToList(e, results), nil
}

// EvaluateInModule evaluates expr with module's own environment as the
// top-level scope. This is the entry point the reader drives during
// module load (spec.md §4.5).
func (e *Evaluator) EvaluateInModule(module, expr value.Value) (value.Value, error) {
	return e.Evaluate(module, module.Cell().ModuleEnvironment, expr)
}

// Apply implements both branches of spec.md §4.6: Function application
// (steps 1-5) and Primitive application (steps 1-3), which share the
// same argument- and result-evaluation policy.
func (e *Evaluator) Apply(module, env, applicable, rawArguments value.Value) (value.Value, error) {
	idx := e.Stack.Push(Frame{Module: module, Env: env, Expr: applicable, Extra: []value.Value{rawArguments}})
	defer e.Stack.Pop(idx)

	c := applicable.Cell()
	flags := c.Flags

	arguments := rawArguments
	if flags.EvaluateArguments {
		evaluated, err := e.EvaluateAll(module, env, rawArguments)
		if err != nil {
			return value.Nil, err
		}
		arguments = evaluated
	}

	var result value.Value
	var err error
	switch c.Tag {
	case value.HeapFunction:
		result, err = e.applyFunction(module, c, arguments)
	case value.HeapPrimitive:
		result, err = c.Native(e, module, env, arguments, c.Closure)
	default:
		return value.Nil, e.Fatalf(fault.Type, "cannot apply a value of type %s", applicable.Tag())
	}
	if err != nil {
		return value.Nil, err
	}

	if flags.EvaluateResult {
		return e.Evaluate(module, env, result)
	}
	return result, nil
}

// applyFunction runs steps 2-4 of spec.md §4.6's Function-application
// algorithm: a fresh environment chained to the closure, strict
// parameter binding, and sequential body evaluation.
func (e *Evaluator) applyFunction(module value.Value, fn *value.Cell, arguments value.Value) (value.Value, error) {
	callEnv := value.NewTable(e, fn.Closure)

	if fn.Flags.VariableArguments {
		value.TableSet(callEnv, fn.Parameters, arguments)
	} else if err := bindFixedArity(e, callEnv, fn.Parameters, arguments); err != nil {
		return value.Nil, err
	}

	result := value.Nil
	for body := fn.Code; body.IsList(); body = value.Rest(body) {
		v, err := e.Evaluate(module, callEnv, value.First(body))
		if err != nil {
			return value.Nil, err
		}
		result = v
	}
	return result, nil
}

// bindFixedArity zips params against arguments, one-for-one, failing
// fatally on any length mismatch (spec.md §4.6).
func bindFixedArity(ip value.Interpreter, env, params, arguments value.Value) error {
	p, a := params, arguments
	for p.IsList() {
		if !a.IsList() {
			return ip.Fatalf(fault.Arity, "too few arguments: missing a value for %s", value.BytesOf(value.First(p)))
		}
		value.TableSet(env, value.First(p), value.First(a))
		p, a = value.Rest(p), value.Rest(a)
	}
	if a.IsList() {
		return ip.Fatalf(fault.Arity, "too many arguments supplied")
	}
	return nil
}
