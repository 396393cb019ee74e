// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"debug/elf"
	"fmt"
	"os"

	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/value"
)

// PTLone is the interpreter's reserved program header type (spec.md
// §6.3, §9): a value in the PT_LOOS..PT_HIOS operating-system-specific
// range, fixed here to the ASCII encoding of "lone".
const PTLone = elf.ProgType(0x6c6f6e65)

// LoadEmbedded reads the running interpreter's own executable image
// (/proc/self/exe) via debug/elf, the same program-header-scanning
// idiom the teacher's core.Process uses to find PT_LOAD segments
// (internal/core/process.go), and deserializes every PT_LONE segment
// it finds into l.Embedded keyed by module name.
//
// The segment format is a flat sequence of records: a uint32 name
// length, the name bytes (the module's dotted canonical name, e.g.
// "a.b.c"), a uint32 source length, and the source bytes — repeated
// until the segment is exhausted. This mirrors spec.md §6.3's
// requirement that cmd/lone-segment and cmd/lone-embed agree on a
// single, simple wire format for the embedded blob.
func (l *Loader) LoadEmbedded() error {
	exe, err := os.Open("/proc/self/exe")
	if err != nil {
		return l.ip.Fatalf(fault.Allocator, "cannot open own executable: %v", err)
	}
	defer exe.Close()

	f, err := elf.NewFile(exe)
	if err != nil {
		return l.ip.Fatalf(fault.Allocator, "cannot parse own executable as ELF: %v", err)
	}

	for _, prog := range f.Progs {
		if prog.Type != PTLone {
			continue
		}
		blob := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(blob, 0); err != nil {
			return l.ip.Fatalf(fault.Allocator, "cannot read PT_LONE segment: %v", err)
		}
		if err := l.decodeEmbeddedBlob(blob); err != nil {
			return err
		}
	}
	// A binary with no PT_LONE segments at all is a perfectly ordinary
	// interpreter invocation, not an error.
	return nil
}

func (l *Loader) decodeEmbeddedBlob(blob []byte) error {
	for len(blob) > 0 {
		name, rest, err := readLengthPrefixed(blob)
		if err != nil {
			return l.ip.Fatalf(fault.Allocator, "malformed PT_LONE segment: %v", err)
		}
		src, rest, err := readLengthPrefixed(rest)
		if err != nil {
			return l.ip.Fatalf(fault.Allocator, "malformed PT_LONE segment: %v", err)
		}
		key := l.symbols.Intern(name)
		value.TableSet(l.Embedded, key, value.NewBytes(l.ip, src, false))
		blob = rest
	}
	return nil
}

func readLengthPrefixed(b []byte) (field, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("truncated length prefix")
	}
	n := int(b[0]) | int(b[1])<<8 | int(b[2])<<16 | int(b[3])<<24
	b = b[4:]
	if n < 0 || n > len(b) {
		return nil, nil, fmt.Errorf("length prefix %d exceeds remaining %d bytes", n, len(b))
	}
	return b[:n], b[n:], nil
}
