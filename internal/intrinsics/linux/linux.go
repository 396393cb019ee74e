// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linux is a reference binding exposing one raw syscall
// primitive over golang.org/x/sys/unix.Syscall6, plus argv/envp/auxv
// tables (spec.md §1, §6.4, SPEC_FULL.md §6.4) — the thinnest possible
// surface demonstrating that core's Primitive contract is enough to
// reach the kernel directly, the way spec.md §1 describes lone's whole
// reason for existing ("a single statically-linked binary invoking
// the kernel via raw syscalls").
package linux

import (
	"golang.org/x/sys/unix"

	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/sysno"
	"github.com/lone-lisp/lone/internal/value"
)

var evalArgs = value.Flags{EvaluateArguments: true}

// Register installs the syscall primitive and the argv/envp/auxv
// tables into module, using argv/envp as captured at process startup.
func Register(ip value.Interpreter, module value.Value, argv, envp []string) {
	sym := ip.Intern([]byte("syscall"))
	value.TableSet(module.Cell().ModuleEnvironment, sym, value.NewPrimitive(ip, sym, primSyscall, value.Nil, evalArgs))
	value.VectorPush(module.Cell().ModuleExports, sym)

	bindTable(ip, module, "argv", stringsToVector(ip, argv))
	bindTable(ip, module, "envp", stringsToVector(ip, envp))
	bindTable(ip, module, "auxv", auxvTable(ip))
}

func bindTable(ip value.Interpreter, module value.Value, name string, v value.Value) {
	sym := ip.Intern([]byte(name))
	value.TableSet(module.Cell().ModuleEnvironment, sym, v)
	value.VectorPush(module.Cell().ModuleExports, sym)
}

func stringsToVector(ip value.Interpreter, ss []string) value.Value {
	v := value.NewVector(ip, len(ss))
	for _, s := range ss {
		value.VectorPush(v, value.NewText(ip, []byte(s), true))
	}
	return v
}

// auxvTable reads /proc/self/auxv (internal/sysno) into a Table keyed
// by the raw AT_* integer type.
func auxvTable(ip value.Interpreter) value.Value {
	t := value.NewTable(ip, value.Nil)
	entries, err := sysno.ReadAuxv()
	if err != nil {
		return t
	}
	for k, v := range entries {
		value.TableSet(t, value.NewInteger(int64(k)), value.NewInteger(int64(v)))
	}
	return t
}

// primSyscall implements (syscall number arg…): up to six arguments,
// passed straight through to the kernel via unix.Syscall6. Arguments
// that are Integer are passed by value; Pointer values are passed as
// their raw address, letting Lisp code build syscall arguments out of
// Bytes buffers addressed through internal/value's Pointer variant.
func primSyscall(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	argv := value.ListToSlice(args)
	if len(argv) < 1 || len(argv) > 7 {
		return value.Nil, ip.Fatalf(fault.Arity, "syscall takes a syscall number and up to six arguments")
	}
	if !argv[0].IsInteger() {
		return value.Nil, ip.Fatalf(fault.Type, "syscall number must be an integer")
	}

	var raw [6]uintptr
	for i, a := range argv[1:] {
		word, err := wordOf(ip, a)
		if err != nil {
			return value.Nil, err
		}
		raw[i] = word
	}

	r1, _, errno := unix.Syscall6(uintptr(argv[0].Integer()), raw[0], raw[1], raw[2], raw[3], raw[4], raw[5])
	if errno != 0 {
		return value.NewInteger(-int64(errno)), nil
	}
	return value.NewInteger(int64(r1)), nil
}

func wordOf(ip value.Interpreter, v value.Value) (uintptr, error) {
	switch {
	case v.IsInteger():
		return uintptr(v.Integer()), nil
	case v.IsPointer():
		return v.PointerAddr(), nil
	default:
		return 0, ip.Fatalf(fault.Type, "syscall arguments must be integers or pointers, got %s", v.Tag())
	}
}
