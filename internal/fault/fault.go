// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fault names the interpreter's fatal error kinds (spec.md
// §7) and wraps them in a single Fatal type that cmd/lone recognizes
// as "terminate the process", rather than a condition any Lisp-level
// code can catch — lone has no exception handling.
package fault

import "fmt"

// Kind is one of spec.md §7's abstract error kinds.
type Kind string

const (
	Reader               Kind = "reader-error"
	Type                 Kind = "type-error"
	Arity                Kind = "arity-error"
	UndefinedOperation   Kind = "undefined-operation"
	Resolution           Kind = "bounds-or-resolution-error"
	Allocator            Kind = "allocator-failure"
)

// Fatal is a process-terminating error. Every fatal condition named in
// spec.md §7 — wrong argument counts/types, reader structural errors,
// allocator exhaustion, missing modules, private-symbol imports, I/O
// errors — surfaces as one of these.
type Fatal struct {
	Kind Kind
	Err  error
}

func (f *Fatal) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Err) }
func (f *Fatal) Unwrap() error { return f.Err }

// New constructs a Fatal of the given kind.
func New(kind Kind, format string, args ...any) *Fatal {
	return &Fatal{Kind: kind, Err: fmt.Errorf(format, args...)}
}
