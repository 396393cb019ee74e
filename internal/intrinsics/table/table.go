// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table is a reference binding over internal/value's table
// helpers: get, set, delete, count (spec.md §6.4, SPEC_FULL.md §6.4).
package table

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs new, get, set, delete, count.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("new", primNew)
	bind("get", primGet)
	bind("set", primSet)
	bind("delete", primDelete)
	bind("count", primCount)
}

func primNew(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	prototype := value.Nil
	if value.ListLength(args) == 1 {
		prototype = value.First(args)
	}
	return value.NewTable(ip, prototype), nil
}

func primGet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "table get takes exactly two arguments")
	}
	t := value.First(args)
	if !t.IsTable() {
		return value.Nil, ip.Fatalf(fault.Type, "table get requires a table")
	}
	v, _ := value.TableGet(t, value.First(value.Rest(args)))
	return v, nil
}

func primSet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 3 {
		return value.Nil, ip.Fatalf(fault.Arity, "table set takes exactly three arguments")
	}
	t := value.First(args)
	if !t.IsTable() {
		return value.Nil, ip.Fatalf(fault.Type, "table set requires a table")
	}
	key := value.First(value.Rest(args))
	val := value.First(value.Rest(value.Rest(args)))
	value.TableSet(t, key, val)
	return val, nil
}

func primDelete(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "table delete takes exactly two arguments")
	}
	t := value.First(args)
	if !t.IsTable() {
		return value.Nil, ip.Fatalf(fault.Type, "table delete requires a table")
	}
	ok := value.TableDelete(t, value.First(value.Rest(args)))
	if ok {
		return value.NewInteger(1), nil
	}
	return value.Nil, nil
}

func primCount(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "table count takes exactly one argument")
	}
	t := value.First(args)
	if !t.IsTable() {
		return value.Nil, ip.Fatalf(fault.Type, "table count requires a table")
	}
	return value.NewInteger(int64(value.TableCount(t))), nil
}
