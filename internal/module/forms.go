// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

var noEval = value.Flags{}

// Register installs import/export/set-and-export into env as
// Primitives bound to l (spec.md §4.9).
func Register(ip Evaluator, l *Loader, symbols *symbol.Table, env value.Value) {
	bind := func(name string, fn value.PrimitiveFunc) {
		sym := symbols.Intern([]byte(name))
		value.TableSet(env, sym, value.NewPrimitive(ip, sym, fn, value.Nil, noEval))
	}
	bind("import", l.primImport)
	bind("export", l.primExport)
	bind("set-and-export", l.primSetAndExport)
}

// primImport implements the (import spec…) grammar of spec.md §4.9.
func (l *Loader) primImport(ip value.Interpreter, mod, env, args, closure value.Value) (value.Value, error) {
	prefixed := false
	prefixedSym := l.symbols.Intern([]byte("prefixed"))
	unprefixedSym := l.symbols.Intern([]byte("unprefixed"))

	for cur := args; cur.IsList(); cur = value.Rest(cur) {
		spec := value.First(cur)

		if spec.IsSymbol() {
			if value.Identical(spec, prefixedSym) {
				prefixed = true
				continue
			}
			if value.Identical(spec, unprefixedSym) {
				prefixed = false
				continue
			}
		}

		name, only := parseImportSpec(spec)
		loadedMod, err := l.Load(name)
		if err != nil {
			return value.Nil, err
		}
		if err := l.importInto(env, loadedMod, only, prefixed); err != nil {
			return value.Nil, err
		}
	}
	return value.Nil, nil
}

// parseImportSpec splits one import spec into the module name and an
// optional explicit symbol list: a bare symbol m means "import m, all
// exports"; a list (m) means the same; a list (m s1 s2…) restricts the
// import to s1, s2, ….
func parseImportSpec(spec value.Value) (name value.Value, only []value.Value) {
	if spec.IsSymbol() {
		return spec, nil
	}
	name = value.First(spec)
	only = value.ListToSlice(value.Rest(spec))
	return name, only
}

func (l *Loader) importInto(env, mod value.Value, only []value.Value, prefixed bool) error {
	modCell := mod.Cell()
	exportPrefix := nameKey(modCell.ModuleName) + "."

	bindOne := func(sym value.Value) error {
		if !isExported(modCell.ModuleExports, sym) {
			return l.ip.Fatalf(fault.Resolution, "%s is not exported by module %s", value.BytesOf(sym), nameKey(modCell.ModuleName))
		}
		v, _ := value.TableGet(modCell.ModuleEnvironment, sym)
		target := sym
		if prefixed {
			target = l.symbols.Intern([]byte(exportPrefix + string(value.BytesOf(sym))))
		}
		value.TableSet(env, target, v)
		return nil
	}

	if len(only) == 0 {
		for i := 0; i < value.VectorCount(modCell.ModuleExports); i++ {
			if err := bindOne(value.VectorGet(modCell.ModuleExports, i)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, sym := range only {
		if err := bindOne(sym); err != nil {
			return err
		}
	}
	return nil
}

func isExported(exports value.Value, sym value.Value) bool {
	for i := 0; i < value.VectorCount(exports); i++ {
		if value.Identical(value.VectorGet(exports, i), sym) {
			return true
		}
	}
	return false
}

// primExport implements (export s1 s2…): append each symbol to the
// current module's exports vector.
func (l *Loader) primExport(ip value.Interpreter, mod, env, args, closure value.Value) (value.Value, error) {
	modCell := mod.Cell()
	value.ForEachList(args, func(sym value.Value) bool {
		value.VectorPush(modCell.ModuleExports, sym)
		return true
	})
	return value.Nil, nil
}

// primSetAndExport implements the combined bind-and-export operation
// intrinsic module setup uses: (set-and-export name value).
func (l *Loader) primSetAndExport(ip value.Interpreter, mod, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "set-and-export takes exactly two arguments")
	}
	name := value.First(args)
	val, err := ip.Evaluate(mod, env, value.First(value.Rest(args)))
	if err != nil {
		return value.Nil, err
	}
	modCell := mod.Cell()
	value.TableSet(modCell.ModuleEnvironment, name, val)
	value.VectorPush(modCell.ModuleExports, name)
	return val, nil
}
