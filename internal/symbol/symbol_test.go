// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import (
	"testing"

	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

type stubInterpreter struct{}

func (stubInterpreter) NewCell(tag value.HeapTag) *value.Cell {
	return &value.Cell{Live: true, Tag: tag}
}
func (stubInterpreter) Intern(b []byte) value.Value { return value.Nil }
func (stubInterpreter) Evaluate(module, env, expr value.Value) (value.Value, error) {
	panic("not implemented")
}
func (stubInterpreter) EvaluateAll(module, env, list value.Value) (value.Value, error) {
	panic("not implemented")
}
func (stubInterpreter) Apply(module, env, applicable, rawArguments value.Value) (value.Value, error) {
	panic("not implemented")
}
func (stubInterpreter) Fatalf(kind fault.Kind, format string, args ...any) error {
	return fault.New(kind, format, args...)
}

func TestInternReturnsCanonicalValue(t *testing.T) {
	tbl := New(stubInterpreter{})
	a := tbl.Intern([]byte("foo"))
	b := tbl.Intern([]byte("foo"))
	if !value.Identical(a, b) {
		t.Fatalf("two Interns of the same bytes should return the same cell")
	}
	c := tbl.Intern([]byte("bar"))
	if value.Identical(a, c) {
		t.Fatalf("Interns of different bytes should return different cells")
	}
}

func TestInternDoesNotAliasCallerBuffer(t *testing.T) {
	tbl := New(stubInterpreter{})
	buf := []byte("mutate-me")
	sym := tbl.Intern(buf)
	buf[0] = 'X'
	if string(value.BytesOf(sym)) != "mutate-me" {
		t.Fatalf("Intern should copy its input, got %q", value.BytesOf(sym))
	}
}

func TestLookup(t *testing.T) {
	tbl := New(stubInterpreter{})
	if _, ok := tbl.Lookup([]byte("missing")); ok {
		t.Fatalf("Lookup of an uninterned name should report false")
	}
	want := tbl.Intern([]byte("present"))
	got, ok := tbl.Lookup([]byte("present"))
	if !ok || !value.Identical(got, want) {
		t.Fatalf("Lookup after Intern should find the same cell")
	}
}

func TestLenAndForEach(t *testing.T) {
	tbl := New(stubInterpreter{})
	tbl.Intern([]byte("a"))
	tbl.Intern([]byte("b"))
	tbl.Intern([]byte("a"))
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	count := 0
	tbl.ForEach(func(v value.Value) { count++ })
	if count != 2 {
		t.Fatalf("ForEach visited %d symbols, want 2", count)
	}
}
