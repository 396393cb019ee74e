// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

import (
	"testing"

	"github.com/lone-lisp/lone/internal/eval"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

func newModule(t *testing.T) (*eval.Evaluator, value.Value) {
	t.Helper()
	e := eval.New()
	symbols := symbol.New(e)
	e.Init(symbols)
	mod := value.NewModule(e, value.SliceToList(e, []value.Value{symbols.Intern([]byte("vector"))}))
	mod.Cell().ModuleEnvironment = value.NewTable(e, e.TopLevel)
	mod.Cell().ModuleExports = value.NewVector(e, 4)
	Register(e, mod)
	return e, mod
}

func call(t *testing.T, e *eval.Evaluator, mod value.Value, name string, args ...value.Value) value.Value {
	t.Helper()
	sym := e.Symbols.Intern([]byte(name))
	fn, ok := value.TableGet(mod.Cell().ModuleEnvironment, sym)
	if !ok {
		t.Fatalf("%s was not registered", name)
	}
	v, err := e.Apply(mod, mod.Cell().ModuleEnvironment, fn, value.SliceToList(e, args))
	if err != nil {
		t.Fatalf("calling %s: %v", name, err)
	}
	return v
}

func mustErr(t *testing.T, e *eval.Evaluator, mod value.Value, name string, args ...value.Value) {
	t.Helper()
	sym := e.Symbols.Intern([]byte(name))
	fn, _ := value.TableGet(mod.Cell().ModuleEnvironment, sym)
	if _, err := e.Apply(mod, mod.Cell().ModuleEnvironment, fn, value.SliceToList(e, args)); err == nil {
		t.Fatalf("calling %s with %v should have failed", name, args)
	}
}

func TestNewDefaultAndExplicitCapacity(t *testing.T) {
	e, mod := newModule(t)
	v := call(t, e, mod, "new")
	if !v.IsVector() || value.VectorCount(v) != 0 {
		t.Fatalf("new vector should be empty, got count %d", value.VectorCount(v))
	}
	v2 := call(t, e, mod, "new", value.NewInteger(16))
	if !v2.IsVector() {
		t.Fatalf("new with a capacity argument should still produce a vector")
	}
}

func TestGetSetCount(t *testing.T) {
	e, mod := newModule(t)
	v := call(t, e, mod, "new")
	call(t, e, mod, "set", v, value.NewInteger(0), value.NewInteger(100))
	got := call(t, e, mod, "get", v, value.NewInteger(0))
	if got.Integer() != 100 {
		t.Fatalf("get after set = %d, want 100", got.Integer())
	}
	count := call(t, e, mod, "count", v)
	if count.Integer() != 1 {
		t.Fatalf("count = %d, want 1", count.Integer())
	}
}

func TestGetRequiresVectorAndInteger(t *testing.T) {
	e, mod := newModule(t)
	mustErr(t, e, mod, "get", value.NewInteger(1), value.NewInteger(0))
	v := call(t, e, mod, "new")
	mustErr(t, e, mod, "get", v, value.Nil)
}

func TestNewRejectsNonIntegerCapacity(t *testing.T) {
	e, mod := newModule(t)
	mustErr(t, e, mod, "new", value.Nil)
}
