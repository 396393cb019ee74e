// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"testing"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/eval"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

func newFixture(t *testing.T) (*eval.Evaluator, *symbol.Table, *Loader) {
	t.Helper()
	e := eval.New()
	symbols := symbol.New(e)
	e.Init(symbols)
	l := New(e, symbols, arena.New(arena.DefaultSize), e.TopLevel)
	return e, symbols, l
}

func TestCanonicalizeBareSymbol(t *testing.T) {
	e, symbols, _ := newFixture(t)
	sym := symbols.Intern([]byte("math"))
	canon := Canonicalize(e, sym)
	if !canon.IsList() || value.ListLength(canon) != 1 {
		t.Fatalf("Canonicalize(symbol) should wrap in a 1-element list, got %+v", canon)
	}
	if !value.Identical(value.First(canon), sym) {
		t.Fatalf("Canonicalize should preserve the symbol")
	}
}

func TestCanonicalizeListPassesThrough(t *testing.T) {
	e, symbols, _ := newFixture(t)
	lst := value.SliceToList(e, []value.Value{symbols.Intern([]byte("a")), symbols.Intern([]byte("b"))})
	canon := Canonicalize(e, lst)
	if !value.Identical(canon, lst) {
		t.Fatalf("Canonicalize(list) should return it unchanged")
	}
}

func TestLoadEmbeddedSource(t *testing.T) {
	e, symbols, l := newFixture(t)
	name := symbols.Intern([]byte("greet"))
	key := l.nameTableKey(Canonicalize(e, name))
	value.TableSet(l.Embedded, key, value.NewBytes(e, []byte("(export-nothing)"), false))
	// register a no-op primitive the embedded source can call
	noopSym := symbols.Intern([]byte("export-nothing"))
	value.TableSet(e.TopLevel, noopSym, value.NewPrimitive(e, noopSym, func(ip value.Interpreter, mod, env, args, closure value.Value) (value.Value, error) {
		return value.Nil, nil
	}, value.Nil, value.Flags{}))

	mod, err := l.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !mod.IsModule() {
		t.Fatalf("Load should return a Module value")
	}
	if _, stillEmbedded := value.TableGet(l.Embedded, key); stillEmbedded {
		t.Fatalf("Load should remove the source from Embedded once consumed")
	}
}

func TestLoadCachesByCanonicalName(t *testing.T) {
	e, symbols, l := newFixture(t)
	name := symbols.Intern([]byte("cached"))
	key := l.nameTableKey(Canonicalize(e, name))
	value.TableSet(l.Embedded, key, value.NewBytes(e, []byte(""), false))

	first, err := l.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := l.Load(name)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !value.Identical(first, second) {
		t.Fatalf("Load should return the cached module on a repeat request")
	}
}

// TestDefineDoesNotTouchEmbeddedOrFilesystem is the bootstrap defect's
// regression test: a native module has neither embedded source nor a
// file on the search path, so Define must succeed without attempting
// either, unlike Load.
func TestDefineDoesNotTouchEmbeddedOrFilesystem(t *testing.T) {
	e, symbols, l := newFixture(t)
	l.Path = nil // no search path at all: Load would be fatal here

	name := symbols.Intern([]byte("math"))
	mod := l.Define(name)

	if !mod.IsModule() {
		t.Fatalf("Define should return a Module value, got %s", mod.Tag())
	}
	if !mod.Cell().ModuleEnvironment.IsTable() {
		t.Fatalf("Define should populate a fresh environment table")
	}
	if !mod.Cell().ModuleExports.IsVector() {
		t.Fatalf("Define should populate an exports vector")
	}

	key := l.nameTableKey(Canonicalize(e, name))
	if loaded, ok := value.TableGet(l.Loaded, key); !ok || !value.Identical(loaded, mod) {
		t.Fatalf("Define should insert the module into Loaded under its canonical name")
	}
}

func TestDefineReturnsExistingModule(t *testing.T) {
	_, symbols, l := newFixture(t)
	name := symbols.Intern([]byte("list"))

	first := l.Define(name)
	second := l.Define(name)
	if !value.Identical(first, second) {
		t.Fatalf("Define should return the already-loaded module on a repeat request")
	}
}

func TestExportAndImport(t *testing.T) {
	e, symbols, l := newFixture(t)
	Register(e, l, symbols, e.TopLevel)

	name := symbols.Intern([]byte("lib"))
	key := l.nameTableKey(Canonicalize(e, name))
	value.TableSet(l.Embedded, key, value.NewBytes(e, []byte("(set-and-export greeting 42)"), false))

	mod, err := l.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	greeting := symbols.Intern([]byte("greeting"))
	if !isExported(mod.Cell().ModuleExports, greeting) {
		t.Fatalf("set-and-export should have exported %q", "greeting")
	}
	got, ok := value.TableGet(mod.Cell().ModuleEnvironment, greeting)
	if !ok || got.Integer() != 42 {
		t.Fatalf("set-and-export should have bound greeting to 42, got (%+v, %v)", got, ok)
	}

	importerEnv := value.NewTable(e, e.TopLevel)
	args := value.SliceToList(e, []value.Value{name})
	if _, err := l.primImport(e, value.Nil, importerEnv, args, value.Nil); err != nil {
		t.Fatalf("primImport: %v", err)
	}
	imported, ok := value.TableGet(importerEnv, greeting)
	if !ok || imported.Integer() != 42 {
		t.Fatalf("import should have bound greeting in the importer's environment")
	}
}

func TestImportUnexportedSymbolIsFatal(t *testing.T) {
	e, symbols, l := newFixture(t)
	name := symbols.Intern([]byte("private"))
	key := l.nameTableKey(Canonicalize(e, name))
	value.TableSet(l.Embedded, key, value.NewBytes(e, []byte(""), false))
	mod, err := l.Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	secretSym := symbols.Intern([]byte("secret"))
	value.TableSet(mod.Cell().ModuleEnvironment, secretSym, value.NewInteger(1))

	importerEnv := value.NewTable(e, e.TopLevel)
	spec := value.SliceToList(e, []value.Value{name, secretSym})
	args := value.SliceToList(e, []value.Value{spec})
	if _, err := l.primImport(e, value.Nil, importerEnv, args, value.Nil); err == nil {
		t.Fatalf("importing an unexported symbol should fail")
	}
}

func TestImportPrefixed(t *testing.T) {
	e, symbols, l := newFixture(t)
	Register(e, l, symbols, e.TopLevel)
	name := symbols.Intern([]byte("mathlib"))
	key := l.nameTableKey(Canonicalize(e, name))
	value.TableSet(l.Embedded, key, value.NewBytes(e, []byte("(set-and-export pi 3)"), false))
	if _, err := l.Load(name); err != nil {
		t.Fatalf("Load: %v", err)
	}

	importerEnv := value.NewTable(e, e.TopLevel)
	prefixedSym := symbols.Intern([]byte("prefixed"))
	args := value.SliceToList(e, []value.Value{prefixedSym, name})
	if _, err := l.primImport(e, value.Nil, importerEnv, args, value.Nil); err != nil {
		t.Fatalf("primImport prefixed: %v", err)
	}
	prefixedPi := symbols.Intern([]byte("mathlib.pi"))
	got, ok := value.TableGet(importerEnv, prefixedPi)
	if !ok || got.Integer() != 3 {
		t.Fatalf("prefixed import should bind mathlib.pi, got (%+v, %v)", got, ok)
	}
}
