// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lone-embed appends a PT_LONE segment (spec.md §6.3) — the
// blob cmd/lone-segment produces — to a copy of an ELF executable, the
// way internal/module/elfembed.go's LoadEmbedded later finds it via
// /proc/self/exe. This mirrors, in reverse, the program-header reading
// the teacher's internal/core/process.go does when it indexes an
// ELF/core file's PT_LOAD mappings (core/mapping.go).
package main

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lone-lisp/lone/internal/module"
)

// elfIdentSize is EI_NIDENT, the fixed e_ident field width every ELF
// header starts with.
const elfIdentSize = 16

// header64 and prog64 mirror debug/elf's unexported-layout Header64
// and Prog64 wire structs closely enough to read and write them by
// hand with encoding/binary — debug/elf itself is read-only.
type header64 struct {
	Ident     [elfIdentSize]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

type prog64 struct {
	Type   uint32
	Flags  uint32
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

const (
	header64Size = 64
	prog64Size   = 56
)

func main() {
	var output string

	root := &cobra.Command{
		Use:   "lone-embed binary segment",
		Short: "append a PT_LONE segment blob to a copy of an ELF executable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0] + ".lone"
			}
			return embed(args[0], args[1], output)
		},
	}
	root.Flags().StringVarP(&output, "output", "o", "", "path for the resulting binary (default: <binary>.lone)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lone-embed: %v\n", err)
		os.Exit(1)
	}
}

func embed(binaryPath, segmentPath, outputPath string) error {
	exe, err := os.ReadFile(binaryPath)
	if err != nil {
		return err
	}
	blob, err := os.ReadFile(segmentPath)
	if err != nil {
		return err
	}

	// debug/elf.NewFile validates the file is one it understands
	// before we start poking at its raw bytes by hand.
	f, err := elf.NewFile(bytesReaderAt(exe))
	if err != nil {
		return fmt.Errorf("not a valid ELF file: %w", err)
	}
	if f.Class != elf.ELFCLASS64 {
		return fmt.Errorf("lone-embed only supports 64-bit ELF binaries, got %s", f.Class)
	}
	byteOrder := f.ByteOrder

	if len(exe) < header64Size {
		return fmt.Errorf("truncated ELF header")
	}
	var hdr header64
	if err := unmarshal(exe[:header64Size], byteOrder, &hdr); err != nil {
		return err
	}

	if hdr.Phoff+uint64(hdr.Phnum)*uint64(hdr.Phentsize) > uint64(len(exe)) {
		return fmt.Errorf("program header table runs past end of file")
	}
	progs := make([]prog64, hdr.Phnum)
	for i := range progs {
		start := hdr.Phoff + uint64(i)*uint64(hdr.Phentsize)
		if err := unmarshal(exe[start:start+prog64Size], byteOrder, &progs[i]); err != nil {
			return err
		}
	}

	// Lay the blob and the new program header table down after the
	// original file content, 8-byte aligned. Non-PT_LOAD segments are
	// never mapped, so Vaddr/Paddr/Memsz are left zero; only Off and
	// Filesz need to be correct for elf.Prog.ReadAt to find the bytes.
	blobOffset := align8(uint64(len(exe)))
	var out []byte
	out = append(out, exe...)
	out = append(out, make([]byte, blobOffset-uint64(len(exe)))...)
	out = append(out, blob...)

	phdrOffset := align8(uint64(len(out)))
	out = append(out, make([]byte, phdrOffset-uint64(len(out)))...)

	newProgs := append(progs, prog64{
		Type:   uint32(module.PTLone),
		Flags:  0,
		Off:    blobOffset,
		Vaddr:  0,
		Paddr:  0,
		Filesz: uint64(len(blob)),
		Memsz:  0,
		Align:  1,
	})
	for _, p := range newProgs {
		buf, err := marshal(byteOrder, p)
		if err != nil {
			return err
		}
		out = append(out, buf...)
	}

	hdr.Phoff = phdrOffset
	hdr.Phnum = uint16(len(newProgs))
	hdrBuf, err := marshal(byteOrder, hdr)
	if err != nil {
		return err
	}
	copy(out[:header64Size], hdrBuf)

	info, err := os.Stat(binaryPath)
	mode := os.FileMode(0o755)
	if err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(outputPath, out, mode)
}

func unmarshal(b []byte, order binary.ByteOrder, v any) error {
	r := &sliceReader{b: b}
	return binary.Read(r, order, v)
}

func marshal(order binary.ByteOrder, v any) ([]byte, error) {
	w := &sliceWriter{}
	if err := binary.Write(w, order, v); err != nil {
		return nil, err
	}
	return w.b, nil
}

type sliceReader struct {
	b   []byte
	pos int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	n := copy(p, r.b[r.pos:])
	r.pos += n
	if n == 0 {
		return 0, fmt.Errorf("short read")
	}
	return n, nil
}

type sliceWriter struct{ b []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func align8(n uint64) uint64 {
	return (n + 7) &^ 7
}

type bytesReaderAtImpl struct{ b []byte }

func bytesReaderAt(b []byte) *bytesReaderAtImpl { return &bytesReaderAtImpl{b: b} }

func (r *bytesReaderAtImpl) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(r.b)) {
		return 0, fmt.Errorf("offset %d out of range", off)
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, fmt.Errorf("short read at offset %d", off)
	}
	return n, nil
}
