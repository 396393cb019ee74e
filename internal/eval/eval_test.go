// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

func newEvaluator(t *testing.T) (*Evaluator, *symbol.Table) {
	t.Helper()
	e := New()
	symbols := symbol.New(e)
	e.Init(symbols)
	return e, symbols
}

func TestEvaluateSelfEvaluating(t *testing.T) {
	e, _ := newEvaluator(t)
	n := value.NewInteger(5)
	v, err := e.Evaluate(value.Nil, e.TopLevel, n)
	if err != nil || v.Integer() != 5 {
		t.Fatalf("Evaluate(5) = (%+v, %v), want (5, nil)", v, err)
	}
}

func TestEvaluateSymbolLookup(t *testing.T) {
	e, symbols := newEvaluator(t)
	sym := symbols.Intern([]byte("x"))
	value.TableSet(e.TopLevel, sym, value.NewInteger(99))
	v, err := e.Evaluate(value.Nil, e.TopLevel, sym)
	if err != nil || v.Integer() != 99 {
		t.Fatalf("Evaluate(x) = (%+v, %v), want (99, nil)", v, err)
	}
}

func TestEvaluateUnboundSymbolIsNil(t *testing.T) {
	e, symbols := newEvaluator(t)
	sym := symbols.Intern([]byte("undefined"))
	v, err := e.Evaluate(value.Nil, e.TopLevel, sym)
	if err != nil || !v.IsNil() {
		t.Fatalf("Evaluate(undefined) = (%+v, %v), want (Nil, nil)", v, err)
	}
}

func newPrimitive(t *testing.T, e *Evaluator, symbols *symbol.Table, name string, fn value.PrimitiveFunc, flags value.Flags) value.Value {
	t.Helper()
	return value.NewPrimitive(e, symbols.Intern([]byte(name)), fn, value.Nil, flags)
}

func TestApplyPrimitiveEvaluatesArguments(t *testing.T) {
	e, symbols := newEvaluator(t)
	sym := symbols.Intern([]byte("x"))
	value.TableSet(e.TopLevel, sym, value.NewInteger(7))

	add := newPrimitive(t, e, symbols, "add", func(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
		total := int64(0)
		value.ForEachList(args, func(v value.Value) bool {
			total += v.Integer()
			return true
		})
		return value.NewInteger(total), nil
	}, value.Flags{EvaluateArguments: true})

	call := value.Cons(e, add, value.Cons(e, sym, value.Cons(e, value.NewInteger(3), value.Nil)))
	v, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err != nil || v.Integer() != 10 {
		t.Fatalf("Evaluate(add x 3) = (%+v, %v), want (10, nil)", v, err)
	}
}

func TestApplyPrimitiveSkipsArgumentEvaluation(t *testing.T) {
	e, symbols := newEvaluator(t)
	quote := newPrimitive(t, e, symbols, "quote", func(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
		return value.First(args), nil
	}, value.Flags{EvaluateArguments: false})

	undefined := symbols.Intern([]byte("undefined-var"))
	call := value.Cons(e, quote, value.Cons(e, undefined, value.Nil))
	v, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err != nil || !value.Identical(v, undefined) {
		t.Fatalf("quote should return its argument unevaluated, got (%+v, %v)", v, err)
	}
}

func TestApplyFunctionBindsParametersInFreshEnv(t *testing.T) {
	e, symbols := newEvaluator(t)
	paramX := symbols.Intern([]byte("x"))
	params := value.SliceToList(e, []value.Value{paramX})
	body := value.SliceToList(e, []value.Value{paramX})
	fn := value.NewFunction(e, params, body, e.TopLevel, value.Flags{EvaluateArguments: true})

	call := value.Cons(e, fn, value.Cons(e, value.NewInteger(42), value.Nil))
	v, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err != nil || v.Integer() != 42 {
		t.Fatalf("calling (fn 42) = (%+v, %v), want (42, nil)", v, err)
	}
}

func TestApplyFunctionArityMismatchIsFatal(t *testing.T) {
	e, symbols := newEvaluator(t)
	paramX := symbols.Intern([]byte("x"))
	params := value.SliceToList(e, []value.Value{paramX})
	body := value.SliceToList(e, []value.Value{paramX})
	fn := value.NewFunction(e, params, body, e.TopLevel, value.Flags{EvaluateArguments: true})

	call := value.Cons(e, fn, value.Nil)
	_, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err == nil {
		t.Fatalf("calling fn with too few arguments should fail")
	}
	var f *fault.Fatal
	if !errorsAsFatal(err, &f) || f.Kind != fault.Arity {
		t.Fatalf("err = %v, want a fault.Arity Fatal", err)
	}
}

func TestApplyVariableArgumentsBindsWholeList(t *testing.T) {
	e, symbols := newEvaluator(t)
	rest := symbols.Intern([]byte("rest"))
	fn := value.NewFunction(e, rest, value.SliceToList(e, []value.Value{rest}), e.TopLevel, value.Flags{
		EvaluateArguments: true,
		VariableArguments: true,
	})
	call := value.Cons(e, fn, value.SliceToList(e, []value.Value{value.NewInteger(1), value.NewInteger(2)}))
	v, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err != nil || value.ListLength(v) != 2 {
		t.Fatalf("variable-arity call = (%+v, %v), want a 2-element list", v, err)
	}
}

func TestCollectionAccessVectorReadWrite(t *testing.T) {
	e, _ := newEvaluator(t)
	vec := value.NewVector(e, 0)
	value.VectorPush(vec, value.NewInteger(10))

	readForm := value.Cons(e, vec, value.Cons(e, value.NewInteger(0), value.Nil))
	v, err := e.Evaluate(value.Nil, e.TopLevel, readForm)
	if err != nil || v.Integer() != 10 {
		t.Fatalf("(vec 0) = (%+v, %v), want (10, nil)", v, err)
	}

	writeForm := value.Cons(e, vec, value.SliceToList(e, []value.Value{value.NewInteger(0), value.NewInteger(55)}))
	v, err = e.Evaluate(value.Nil, e.TopLevel, writeForm)
	if err != nil || v.Integer() != 55 || value.VectorGet(vec, 0).Integer() != 55 {
		t.Fatalf("(vec 0 55) = (%+v, %v), want write of 55", v, err)
	}
}

func TestEvaluateFormOnNonApplicableIsFatal(t *testing.T) {
	e, _ := newEvaluator(t)
	call := value.Cons(e, value.NewInteger(1), value.Nil)
	_, err := e.Evaluate(value.Nil, e.TopLevel, call)
	if err == nil {
		t.Fatalf("calling a non-applicable integer should fail")
	}
}

func TestStackUnwindsAfterEvaluate(t *testing.T) {
	e, _ := newEvaluator(t)
	before := e.Stack.Depth()
	e.Evaluate(value.Nil, e.TopLevel, value.NewInteger(1))
	if e.Stack.Depth() != before {
		t.Fatalf("Stack.Depth() after Evaluate = %d, want %d (frame should be popped)", e.Stack.Depth(), before)
	}
}

func errorsAsFatal(err error, target **fault.Fatal) bool {
	for err != nil {
		if f, ok := err.(*fault.Fatal); ok {
			*target = f
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
