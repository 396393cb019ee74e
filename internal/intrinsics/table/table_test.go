// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

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
	mod := value.NewModule(e, value.SliceToList(e, []value.Value{symbols.Intern([]byte("table"))}))
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

func TestNewGetSetDeleteCount(t *testing.T) {
	e, mod := newModule(t)
	tbl := call(t, e, mod, "new")
	if !tbl.IsTable() {
		t.Fatalf("new should produce a table")
	}
	key := e.Symbols.Intern([]byte("k"))

	call(t, e, mod, "set", tbl, key, value.NewInteger(5))
	got := call(t, e, mod, "get", tbl, key)
	if got.Integer() != 5 {
		t.Fatalf("get after set = %d, want 5", got.Integer())
	}
	count := call(t, e, mod, "count", tbl)
	if count.Integer() != 1 {
		t.Fatalf("count = %d, want 1", count.Integer())
	}

	deleted := call(t, e, mod, "delete", tbl, key)
	if deleted.Integer() != 1 {
		t.Fatalf("delete of a present key should return 1, got %+v", deleted)
	}
	deletedAgain := call(t, e, mod, "delete", tbl, key)
	if !deletedAgain.IsNil() {
		t.Fatalf("delete of an absent key should return Nil, got %+v", deletedAgain)
	}
}

func TestNewWithPrototype(t *testing.T) {
	e, mod := newModule(t)
	base := call(t, e, mod, "new")
	key := e.Symbols.Intern([]byte("inherited"))
	call(t, e, mod, "set", base, key, value.NewInteger(1))

	child := call(t, e, mod, "new", base)
	got := call(t, e, mod, "get", child, key)
	if got.Integer() != 1 {
		t.Fatalf("get should fall through to the prototype, got %+v", got)
	}
}

func TestGetRequiresTable(t *testing.T) {
	e, mod := newModule(t)
	mustErr(t, e, mod, "get", value.NewInteger(1), value.NewInteger(0))
}
