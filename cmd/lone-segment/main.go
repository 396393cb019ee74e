// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lone-segment packs named Lisp source files into the
// length-prefixed blob format internal/module/elfembed.go decodes out
// of a PT_LONE segment (spec.md §6.3). The blob cmd/lone-embed
// produces from this output is what the interpreter finds via
// LoadEmbedded at process startup.
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	var output string

	root := &cobra.Command{
		Use:   "lone-segment name=file [name=file...]",
		Short: "pack Lisp source files into a PT_LONE segment blob",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := buildBlob(args)
			if err != nil {
				return err
			}
			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			_, err = out.Write(blob)
			return err
		},
	}
	root.Flags().StringVarP(&output, "output", "o", "", "write the blob here instead of stdout")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lone-segment: %v\n", err)
		os.Exit(1)
	}
}

// buildBlob packs each "name=file" argument into the record format
// decodeEmbeddedBlob expects: a uint32 name length, the name (the
// module's dotted canonical name), a uint32 source length, and the
// file's contents — back to back, in argument order.
func buildBlob(specs []string) ([]byte, error) {
	var blob []byte
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("malformed segment spec %q, want name=file", spec)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		blob = appendLengthPrefixed(blob, []byte(name))
		blob = appendLengthPrefixed(blob, src)
	}
	return blob, nil
}

func appendLengthPrefixed(blob, field []byte) []byte {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(field)))
	blob = append(blob, length[:]...)
	blob = append(blob, field...)
	return blob
}
