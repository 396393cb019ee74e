// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module implements lone's module system (spec.md §4.9,
// §6.2): canonical module names, the loaded- and embedded-modules
// tables, self-reference-before-load, embedded-before-path-search
// resolution order, and the import/export forms.
package module

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/reader"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

// Evaluator is the narrow slice of eval.Evaluator module loading
// needs: evaluate a form in a module's environment, plus the
// value.Interpreter seam primitives use.
type Evaluator interface {
	value.Interpreter
	EvaluateInModule(module, expr value.Value) (value.Value, error)
}

// DefaultSearchPath is spec.md §6.2's default module.path, in the
// documented order: current directory, then the two user-level
// locations, then the system-wide one. The two user-level entries
// carry a literal "~" — spec.md §6.2 is explicit that tilde expansion
// is the shell's or an intrinsic module's job, not the core's, so
// resolvePath's os.Stat simply fails closed on them until something
// outside this package rewrites Path with a resolved home directory.
var DefaultSearchPath = []string{
	".",
	"~/.lone/modules",
	"~/.local/lib/lone/modules",
	"/usr/lib/lone/modules",
}

// Loader owns modules.loaded/modules.embedded and the search path.
type Loader struct {
	ip       Evaluator
	symbols  *symbol.Table
	arena    *arena.Allocator
	TopLevel value.Value // every module's environment chains to this
	Loaded   value.Value // Table: dotted-name symbol (a.b.c), not the name list -> Module
	Embedded value.Value // Table: dotted-name symbol (a.b.c), not the name list -> Bytes (source)
	Path     []string
}

// New returns a Loader with empty loaded/embedded tables and the
// default search path. a is used to back each module source's reader
// buffer; topLevelEnv is the environment spec.md §4.9 says every new
// module's own environment chains to as its prototype.
func New(ip Evaluator, symbols *symbol.Table, a *arena.Allocator, topLevelEnv value.Value) *Loader {
	return &Loader{
		ip:       ip,
		symbols:  symbols,
		arena:    a,
		TopLevel: topLevelEnv,
		Loaded:   value.NewTable(ip, value.Nil),
		Embedded: value.NewTable(ip, value.Nil),
		Path:     append([]string(nil), DefaultSearchPath...),
	}
}

// Canonicalize normalizes a module name per spec.md §4.9: a bare
// symbol becomes a one-element list; a list of symbols is returned
// as-is (the caller is trusted to have already validated it).
func Canonicalize(ip value.Interpreter, name value.Value) value.Value {
	if name.IsSymbol() {
		return value.Cons(ip, name, value.Nil)
	}
	return name
}

func nameKey(name value.Value) string {
	var parts []string
	value.ForEachList(name, func(v value.Value) bool {
		parts = append(parts, string(value.BytesOf(v)))
		return true
	})
	return strings.Join(parts, ".")
}

// nameTableKey builds a Symbol usable as the loaded/embedded tables'
// key: the joined dotted name, interned once so repeated loads of the
// same module hash and compare in O(1).
func (l *Loader) nameTableKey(name value.Value) value.Value {
	return l.symbols.Intern([]byte(nameKey(name)))
}

// Load implements spec.md §4.9's loading algorithm.
func (l *Loader) Load(name value.Value) (value.Value, error) {
	canonical := Canonicalize(l.ip, name)
	key := l.nameTableKey(canonical)

	if existing, ok := value.TableGet(l.Loaded, key); ok {
		return existing, nil
	}

	mod := value.NewModule(l.ip, canonical)
	modCell := mod.Cell()
	modCell.ModuleEnvironment = value.NewTable(l.ip, l.TopLevel)
	modCell.ModuleExports = value.NewVector(l.ip, 4)
	value.TableSet(l.Loaded, key, mod)

	if src, ok := value.TableGet(l.Embedded, key); ok {
		if err := l.evalSource(mod, bytes.NewReader(value.BytesOf(src))); err != nil {
			return value.Nil, err
		}
		value.TableDelete(l.Embedded, key)
		return mod, nil
	}

	path, err := l.resolvePath(canonical)
	if err != nil {
		return value.Nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return value.Nil, l.ip.Fatalf(fault.Resolution, "cannot load module %s: %v", nameKey(canonical), err)
	}
	defer f.Close()
	if err := l.evalSource(mod, f); err != nil {
		return value.Nil, err
	}
	return mod, nil
}

// Define inserts a fresh, empty module under name directly into
// Loaded, bypassing the embedded/filesystem resolution Load performs.
// It exists for native modules: the interpreter bindings in
// internal/intrinsics have no `.ln` source and are never embedded, so
// bootstrap uses Define to obtain the Module value each intrinsic's
// own Register populates, rather than asking Load to go looking for
// "math.ln" on a search path that was never meant to hold it. If name
// is already loaded, the existing module is returned unchanged.
func (l *Loader) Define(name value.Value) value.Value {
	canonical := Canonicalize(l.ip, name)
	key := l.nameTableKey(canonical)

	if existing, ok := value.TableGet(l.Loaded, key); ok {
		return existing
	}

	mod := value.NewModule(l.ip, canonical)
	modCell := mod.Cell()
	modCell.ModuleEnvironment = value.NewTable(l.ip, l.TopLevel)
	modCell.ModuleExports = value.NewVector(l.ip, 4)
	value.TableSet(l.Loaded, key, mod)
	return mod
}

// resolvePath tries every directory in the search path, in order,
// returning the first that exists (spec.md §4.9 step 4). Existence is
// checked with os.Stat on each candidate; Load then opens the file it
// returns.
func (l *Loader) resolvePath(canonical value.Value) (string, error) {
	components := value.ListToSlice(canonical)
	rel := make([]string, len(components))
	for i, c := range components {
		rel[i] = string(value.BytesOf(c))
	}
	if len(rel) > 0 {
		rel[len(rel)-1] += ".ln"
	}

	var lastErr error
	for _, dir := range l.Path {
		candidate := filepath.Join(append([]string{dir}, rel...)...)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("empty module search path")
	}
	return "", l.ip.Fatalf(fault.Resolution, "module %s not found on search path: %v", nameKey(canonical), lastErr)
}

func (l *Loader) evalSource(mod value.Value, src io.Reader) error {
	buffered := bufio.NewReader(src)
	p := reader.New(buffered, l.arena, l.ip, l.symbols)
	for {
		form, eof, err := p.Read()
		if err != nil {
			return l.ip.Fatalf(fault.Reader, "%v", err)
		}
		if eof {
			return nil
		}
		if _, err := l.ip.EvaluateInModule(mod, form); err != nil {
			return err
		}
	}
}
