// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package text is a reference binding over Text values: join,
// concatenate, to-symbol (spec.md §6.4, SPEC_FULL.md §6.4).
package text

import (
	"bytes"

	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs join, concatenate, to-symbol.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("join", primJoin)
	bind("concatenate", primConcatenate)
	bind("to-symbol", primToSymbol)
}

func textArgs(ip value.Interpreter, args value.Value) ([][]byte, error) {
	var out [][]byte
	var err error
	value.ForEachList(args, func(v value.Value) bool {
		if !v.HasBytes() {
			err = ip.Fatalf(fault.Type, "expected a text-like value, got %s", v.Tag())
			return false
		}
		out = append(out, value.BytesOf(v))
		return true
	})
	return out, err
}

// primJoin joins its text-like arguments after the first (the
// separator) with that separator between them: (join sep a b c).
func primJoin(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if !args.IsList() {
		return value.Nil, ip.Fatalf(fault.Arity, "join requires a separator argument")
	}
	sep := value.First(args)
	if !sep.HasBytes() {
		return value.Nil, ip.Fatalf(fault.Type, "join separator must be text-like")
	}
	parts, err := textArgs(ip, value.Rest(args))
	if err != nil {
		return value.Nil, err
	}
	return value.NewText(ip, bytes.Join(parts, value.BytesOf(sep)), true), nil
}

func primConcatenate(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	parts, err := textArgs(ip, args)
	if err != nil {
		return value.Nil, err
	}
	return value.NewText(ip, bytes.Join(parts, nil), true), nil
}

func primToSymbol(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "to-symbol takes exactly one argument")
	}
	v := value.First(args)
	if !v.HasBytes() {
		return value.Nil, ip.Fatalf(fault.Type, "to-symbol requires a text-like value")
	}
	return ip.Intern(value.BytesOf(v)), nil
}
