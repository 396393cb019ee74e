// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reader implements lone's streaming lexer and recursive-
// descent parser for S-expressions (spec.md §4.4): peek/consume over a
// refillable buffer, tokenization with deliberately idiosyncratic
// terminator rules, and a parser that builds value.Value directly
// (lists, vectors, tables, quote/quasiquote sugar).
package reader

import (
	"io"

	"github.com/lone-lisp/lone/internal/arena"
)

const initialBufferSize = 4096

// Buffer is the reader's refillable byte window over an io.Reader: a
// read cursor, a write cursor marking how much of buf holds real data,
// and the clean-EOF/IO-error distinction spec.md §4.4 and §7 require
// callers to be able to tell apart.
type Buffer struct {
	src    io.Reader
	arena  *arena.Allocator
	buf    []byte
	read   int
	write  int
	eof    bool
	ioErr  error
}

// NewBuffer wraps src in a Buffer backed by a.
func NewBuffer(src io.Reader, a *arena.Allocator) *Buffer {
	buf, err := a.Allocate(initialBufferSize)
	if err != nil {
		// The arena only fails this early if its own construction was
		// undersized, which bootstrap guarantees against.
		panic(err)
	}
	return &Buffer{src: src, arena: a, buf: buf}
}

// peek returns the byte k positions ahead of the read cursor, growing
// and refilling the buffer as needed. ok is false once no more bytes
// are or ever will be available; the caller distinguishes clean EOF
// from a genuine I/O error via Err.
func (b *Buffer) peek(k int) (byte, bool) {
	for b.read+k >= b.write {
		if !b.refill() {
			return 0, false
		}
	}
	return b.buf[b.read+k], true
}

// consume advances the read cursor by k bytes.
func (b *Buffer) consume(k int) { b.read += k }

// refill reads as much as a single underlying Read call returns,
// doubling the buffer first if it is already full. It reports whether
// any forward progress was made.
func (b *Buffer) refill() bool {
	if b.eof || b.ioErr != nil {
		return false
	}
	if b.write == len(b.buf) {
		grown, err := b.arena.Reallocate(b.buf, len(b.buf)*2)
		if err != nil {
			b.ioErr = err
			return false
		}
		b.buf = grown
	}
	n, err := b.src.Read(b.buf[b.write:])
	b.write += n
	if err != nil {
		if err == io.EOF {
			b.eof = true
		} else {
			b.ioErr = err
		}
	}
	return n > 0
}

// AtCleanEOF reports whether the buffer has hit end-of-input exactly
// at a point where peek would otherwise succeed — i.e., there is
// nothing left to read and no I/O error occurred.
func (b *Buffer) AtCleanEOF() bool {
	_, ok := b.peek(0)
	return !ok && b.ioErr == nil
}

// Err returns the sticky I/O error, if any non-EOF error occurred on
// the underlying reader. Per spec.md §7, this is fatal to the caller.
func (b *Buffer) Err() error { return b.ioErr }
