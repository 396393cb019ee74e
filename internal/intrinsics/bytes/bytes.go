// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytes is a reference binding over Bytes values: allocation
// and typed little-endian reads/writes at a byte offset, built on
// internal/arena's shared endian helpers (spec.md §6.4,
// SPEC_FULL.md §6.4).
package bytes

import (
	"encoding/binary"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs new, and u8/u16/u32/u64 read-*/write-* pairs.
func Register(ip value.Interpreter, module value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := ip.Intern([]byte(name))
		value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, fn, value.Nil, evalArgs))
		value.VectorPush(module.Cell().ModuleExports, sym)
	}
	bind("new", primNew)
	for _, w := range []struct {
		name  string
		width int
	}{{"8", 1}, {"16", 2}, {"32", 4}, {"64", 8}} {
		width := w.width
		bind("read-u"+w.name, makeRead(width))
		bind("write-u"+w.name, makeWrite(width))
	}
}

func primNew(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "bytes new takes exactly one argument")
	}
	n := value.First(args)
	if !n.IsInteger() || n.Integer() < 0 {
		return value.Nil, ip.Fatalf(fault.Type, "bytes new requires a non-negative integer size")
	}
	return value.NewBytes(ip, make([]byte, n.Integer()), true), nil
}

func makeRead(width int) value.PrimitiveFunc {
	return func(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
		if value.ListLength(args) != 2 {
			return value.Nil, ip.Fatalf(fault.Arity, "bytes read takes exactly two arguments")
		}
		b := value.First(args)
		offset := value.First(value.Rest(args))
		if !b.IsBytes() || !offset.IsInteger() {
			return value.Nil, ip.Fatalf(fault.Type, "bytes read requires a bytes value and an integer offset")
		}
		v, ok := arena.ReadUint(value.BytesOf(b), int(offset.Integer()), width, binary.LittleEndian)
		if !ok {
			return value.Nil, ip.Fatalf(fault.Resolution, "bytes read out of bounds")
		}
		return value.NewInteger(int64(v)), nil
	}
}

func makeWrite(width int) value.PrimitiveFunc {
	return func(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
		if value.ListLength(args) != 3 {
			return value.Nil, ip.Fatalf(fault.Arity, "bytes write takes exactly three arguments")
		}
		b := value.First(args)
		offset := value.First(value.Rest(args))
		val := value.First(value.Rest(value.Rest(args)))
		if !b.IsBytes() || !offset.IsInteger() || !val.IsInteger() {
			return value.Nil, ip.Fatalf(fault.Type, "bytes write requires a bytes value, an integer offset, and an integer value")
		}
		ok := arena.WriteUint(value.BytesOf(b), int(offset.Integer()), width, binary.LittleEndian, uint64(val.Integer()))
		if !ok {
			return value.Nil, ip.Fatalf(fault.Resolution, "bytes write out of bounds")
		}
		return val, nil
	}
}
