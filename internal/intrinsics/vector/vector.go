// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vector is a reference binding over internal/value's vector
// helpers: get, set, count (spec.md §6.4, SPEC_FULL.md §6.4).
package vector

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs get, set, count, new.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("new", primNew)
	bind("get", primGet)
	bind("set", primSet)
	bind("count", primCount)
}

func primNew(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	capacity := 4
	if value.ListLength(args) == 1 {
		n := value.First(args)
		if !n.IsInteger() {
			return value.Nil, ip.Fatalf(fault.Type, "vector new requires an integer capacity")
		}
		capacity = int(n.Integer())
	}
	return value.NewVector(ip, capacity), nil
}

func primGet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "vector get takes exactly two arguments")
	}
	v := value.First(args)
	idx := value.First(value.Rest(args))
	if !v.IsVector() || !idx.IsInteger() {
		return value.Nil, ip.Fatalf(fault.Type, "vector get requires a vector and an integer index")
	}
	return value.VectorGet(v, int(idx.Integer())), nil
}

func primSet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 3 {
		return value.Nil, ip.Fatalf(fault.Arity, "vector set takes exactly three arguments")
	}
	v := value.First(args)
	idx := value.First(value.Rest(args))
	val := value.First(value.Rest(value.Rest(args)))
	if !v.IsVector() || !idx.IsInteger() {
		return value.Nil, ip.Fatalf(fault.Type, "vector set requires a vector and an integer index")
	}
	value.VectorSet(v, int(idx.Integer()), val)
	return val, nil
}

func primCount(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "vector count takes exactly one argument")
	}
	v := value.First(args)
	if !v.IsVector() {
		return value.Nil, ip.Fatalf(fault.Type, "vector count requires a vector")
	}
	return value.NewInteger(int64(value.VectorCount(v))), nil
}
