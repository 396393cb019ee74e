// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lone is a freestanding Lisp interpreter. Run "lone help" for
// a list of subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/reader"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "lone [file]",
		Short: "a freestanding Lisp interpreter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRun,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "run [file]",
			Short: "evaluate Lisp source from a file or stdin",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runRun,
		},
		&cobra.Command{
			Use:   "repl",
			Short: "start an interactive, line-edited read-eval-print loop",
			Args:  cobra.NoArgs,
			RunE:  runRepl,
		},
		&cobra.Command{
			Use:   "version",
			Short: "print the lone version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version)
			},
		},
	)

	if err := root.Execute(); err != nil {
		fatalExit(err)
	}
}

// runRun implements "lone run [file]": read a file (or stdin, fd 0,
// when none is given) to EOF, evaluating each top-level form in the
// null module in turn (spec.md/SPEC_FULL.md §6.1).
func runRun(cmd *cobra.Command, args []string) error {
	in, err := bootstrap()
	if err != nil {
		fatalExit(err)
	}

	src := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			fatalExit(err)
		}
		defer f.Close()
		src = f
	}

	readArena := arena.New(arena.DefaultSize)
	r := reader.New(src, readArena, in.eval, in.symbols)

	for {
		form, eof, err := r.Read()
		if eof {
			return nil
		}
		if err != nil {
			fatalExit(err)
		}
		if _, err := in.evalTopLevel(form); err != nil {
			fatalExit(err)
		}
	}
}

// runRepl implements "lone repl": an interactive front end over the
// same evaluator runRun drives, printing each result as it's produced.
func runRepl(cmd *cobra.Command, args []string) error {
	in, err := bootstrap()
	if err != nil {
		fatalExit(err)
	}

	rl, err := readline.New("lone> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	readArena := arena.New(arena.DefaultSize)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		r := reader.New(newStringReader(line), readArena, in.eval, in.symbols)
		for {
			form, eof, err := r.Read()
			if eof {
				break
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "lone: %v\n", err)
				break
			}
			result, err := in.evalTopLevel(form)
			if err != nil {
				fmt.Fprintf(os.Stderr, "lone: %v\n", err)
				continue
			}
			out, perr := in.printer.Sprint(result)
			if perr != nil {
				fmt.Fprintf(os.Stderr, "lone: %v\n", perr)
				continue
			}
			fmt.Println(out)
		}
	}
}

type stringReader struct{ s string }

func newStringReader(s string) io.Reader { return &stringReader{s: s} }

func (r *stringReader) Read(p []byte) (int, error) {
	if len(r.s) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.s)
	r.s = r.s[n:]
	return n, nil
}
