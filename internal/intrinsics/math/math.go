// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math is a reference binding demonstrating core's
// Primitive-registration interface (spec.md §6.4, SPEC_FULL.md §6.4):
// arithmetic and comparison over Integer values. It is intentionally
// not exhaustive.
package math

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs +, -, *, /, <, <=, >, >=, zero? into module's
// environment and exports vector.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("+", primAdd)
	bind("-", primSub)
	bind("*", primMul)
	bind("/", primDiv)
	bind("<", primLess)
	bind("<=", primLessEqual)
	bind(">", primGreater)
	bind(">=", primGreaterEqual)
	bind("zero?", primZero)
}

func integers(ip value.Interpreter, args value.Value) ([]int64, error) {
	var out []int64
	for cur := args; cur.IsList(); cur = value.Rest(cur) {
		v := value.First(cur)
		if !v.IsInteger() {
			return nil, ip.Fatalf(fault.Type, "expected an integer, got %s", v.Tag())
		}
		out = append(out, v.Integer())
	}
	return out, nil
}

func primAdd(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	ns, err := integers(ip, args)
	if err != nil {
		return value.Nil, err
	}
	var sum int64
	for _, n := range ns {
		sum += n
	}
	return value.NewInteger(sum), nil
}

func primSub(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	ns, err := integers(ip, args)
	if err != nil {
		return value.Nil, err
	}
	if len(ns) == 0 {
		return value.Nil, ip.Fatalf(fault.Arity, "- requires at least one argument")
	}
	if len(ns) == 1 {
		return value.NewInteger(-ns[0]), nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		result -= n
	}
	return value.NewInteger(result), nil
}

func primMul(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	ns, err := integers(ip, args)
	if err != nil {
		return value.Nil, err
	}
	result := int64(1)
	for _, n := range ns {
		result *= n
	}
	return value.NewInteger(result), nil
}

func primDiv(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	ns, err := integers(ip, args)
	if err != nil {
		return value.Nil, err
	}
	if len(ns) == 0 {
		return value.Nil, ip.Fatalf(fault.Arity, "/ requires at least one argument")
	}
	if len(ns) == 1 {
		if ns[0] == 0 {
			return value.Nil, ip.Fatalf(fault.Resolution, "division by zero")
		}
		return value.NewInteger(1 / ns[0]), nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return value.Nil, ip.Fatalf(fault.Resolution, "division by zero")
		}
		result /= n
	}
	return value.NewInteger(result), nil
}

func primLess(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return compareChain(ip, args, func(c int) bool { return c < 0 })
}
func primLessEqual(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return compareChain(ip, args, func(c int) bool { return c <= 0 })
}
func primGreater(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return compareChain(ip, args, func(c int) bool { return c > 0 })
}
func primGreaterEqual(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return compareChain(ip, args, func(c int) bool { return c >= 0 })
}

// truthVal renders a Go bool the Lisp way: anything but Nil is truthy,
// so a canonical "true" sentinel is the integer 1.
func truthVal(b bool) value.Value {
	if b {
		return value.NewInteger(1)
	}
	return value.Nil
}

func compareChain(ip value.Interpreter, args value.Value, ok func(cmp int) bool) (value.Value, error) {
	ns, err := integers(ip, args)
	if err != nil {
		return value.Nil, err
	}
	for i := 1; i < len(ns); i++ {
		cmp, _ := value.CompareIntegers(value.NewInteger(ns[i-1]), value.NewInteger(ns[i]))
		if !ok(cmp) {
			return value.Nil, nil
		}
	}
	return truthVal(true), nil
}

func primZero(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "zero? takes exactly one argument")
	}
	v := value.First(args)
	if !v.IsInteger() {
		return value.Nil, ip.Fatalf(fault.Type, "zero? requires an integer, got %s", v.Tag())
	}
	return truthVal(v.Integer() == 0), nil
}
