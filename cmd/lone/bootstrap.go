// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/eval"
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/gc"
	bytesintr "github.com/lone-lisp/lone/internal/intrinsics/bytes"
	"github.com/lone-lisp/lone/internal/intrinsics/linux"
	"github.com/lone-lisp/lone/internal/intrinsics/list"
	"github.com/lone-lisp/lone/internal/intrinsics/lone"
	"github.com/lone-lisp/lone/internal/intrinsics/math"
	"github.com/lone-lisp/lone/internal/intrinsics/table"
	"github.com/lone-lisp/lone/internal/intrinsics/text"
	"github.com/lone-lisp/lone/internal/intrinsics/vector"
	"github.com/lone-lisp/lone/internal/module"
	"github.com/lone-lisp/lone/internal/printer"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

// interpreter bundles every piece of state a running lone process
// needs: the evaluator, the reader's backing arena, the module
// loader, the null module top-level forms load into, and a reusable
// printer (spec.md §2, §6.1).
type interpreter struct {
	eval    *eval.Evaluator
	symbols *symbol.Table
	arena   *arena.Allocator
	loader  *module.Loader
	null    value.Value
	printer *printer.Printer
}

// bootstrap wires every component exactly once per process (spec.md
// §2's component graph): symbol table, evaluator, arena, module
// loader, the null module, ELF-embedded modules, and the reference
// intrinsic bindings (SPEC_FULL.md §6.4).
func bootstrap() (*interpreter, error) {
	// Two-phase construction: e already satisfies value.Interpreter
	// for cell allocation before its Symbols field is set, which is
	// exactly what symbol.New needs to allocate its first cells.
	e := eval.New()
	symbols := symbol.New(e)
	e.Init(symbols)

	lone.Register(e, symbols, e.TopLevel)

	readerArena := arena.New(arena.DefaultSize)
	loader := module.New(e, symbols, readerArena, e.TopLevel)
	module.Register(e, loader, symbols, e.TopLevel)

	null := value.NewModule(e, symbols.Intern([]byte("")))
	nullCell := null.Cell()
	nullCell.ModuleEnvironment = value.NewTable(e, e.TopLevel)
	nullCell.ModuleExports = value.NewVector(e, 0)

	if err := loader.LoadEmbedded(); err != nil {
		return nil, err
	}

	for _, seed := range []struct {
		name     string
		register func(value.Interpreter, value.Value)
	}{
		{"math", math.Register},
		{"list", list.Register},
		{"vector", vector.Register},
		{"table", table.Register},
		{"text", text.Register},
		{"bytes", bytesintr.Register},
	} {
		mod := loader.Define(symbols.Intern([]byte(seed.name)))
		seed.register(e, mod)
	}
	linuxMod := loader.Define(symbols.Intern([]byte("linux")))
	linux.Register(e, linuxMod, os.Args, os.Environ())

	return &interpreter{
		eval:    e,
		symbols: symbols,
		arena:   readerArena,
		loader:  loader,
		null:    null,
		printer: printer.New(),
	}, nil
}

// evalTopLevel evaluates one top-level form in the null module, then
// runs a collection cycle (spec.md §4.8's trigger: "at the end of each
// top-level module expression load").
func (in *interpreter) evalTopLevel(form value.Value) (value.Value, error) {
	result, err := in.eval.EvaluateInModule(in.null, form)
	in.collect()
	return result, err
}

func (in *interpreter) collect() {
	gc.Collect(in.eval.Heap, in.arena, gc.Roots{
		Symbols:          in.symbols.ForEach,
		LoadedModules:    in.loader.Loaded,
		EmbeddedModules:  in.loader.Embedded,
		NullModule:       in.null,
		TopLevelEnv:      in.eval.TopLevel,
		ModuleSearchPath: value.Nil,
		Frames:           in.eval.Stack.ForEach,
	})
}

// fatalExit implements spec.md §7's fail-fast discipline: cmd/lone is
// the only place in the tree that calls os.Exit.
func fatalExit(err error) {
	var f *fault.Fatal
	if asFatal(err, &f) {
		fmt.Fprintf(os.Stderr, "lone: %s\n", f.Error())
	} else {
		fmt.Fprintf(os.Stderr, "lone: %v\n", err)
	}
	os.Exit(1)
}

func asFatal(err error, target **fault.Fatal) bool {
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
