// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package printer writes lone's textual value serialization (spec.md
// §4.10). Printer is grounded on the teacher's
// program/server/print.go: a reusable struct accumulating into a
// buffer, a sticky first error via ok/errorf, and a visited set
// keyed by cell identity instead of the teacher's remote address, to
// guard against cyclic list/table/vector structures.
package printer

import (
	"fmt"
	"io"

	"github.com/lone-lisp/lone/internal/value"
)

// maxDepth bounds recursion depth as a second line of defense beyond
// the visited set — deeply nested but acyclic structures still
// terminate with a visible marker rather than exhausting the Go stack.
const maxDepth = 1000

// Printer renders value.Value trees to text. It can be reused across
// calls; each Print resets the sticky error and visited set.
type Printer struct {
	err     error
	buf     []byte
	visited map[*value.Cell]bool
}

// New returns a ready Printer.
func New() *Printer { return &Printer{visited: make(map[*value.Cell]bool)} }

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.buf = append(p.buf, fmt.Sprintf(format, args...)...)
}

func (p *Printer) errorf(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = fmt.Errorf(format, args...)
}

func (p *Printer) reset() {
	p.err = nil
	p.buf = p.buf[:0]
	for k := range p.visited {
		delete(p.visited, k)
	}
}

// Sprint renders v to a string.
func (p *Printer) Sprint(v value.Value) (string, error) {
	p.reset()
	p.printValue(v, 0)
	return string(p.buf), p.err
}

// Fprint renders v to w.
func (p *Printer) Fprint(w io.Writer, v value.Value) error {
	s, err := p.Sprint(v)
	if err != nil {
		return err
	}
	_, werr := io.WriteString(w, s)
	if werr != nil {
		return werr
	}
	return nil
}

func (p *Printer) printValue(v value.Value, depth int) {
	if p.err != nil {
		return
	}
	if depth > maxDepth {
		p.errorf("printer: maximum depth exceeded")
		return
	}

	switch {
	case v.IsNil():
		p.printf("nil")
	case v.IsInteger():
		p.printf("%d", v.Integer())
	case v.IsPointer():
		p.printf("#<pointer %#x>", v.PointerAddr())
	case v.IsBytes():
		p.printBytes(v)
	case v.IsText():
		p.printf("%q", string(value.BytesOf(v)))
	case v.IsSymbol():
		p.printf("%s", value.BytesOf(v))
	case v.IsList():
		p.printList(v, depth)
	case v.IsVector():
		p.printVector(v, depth)
	case v.IsTable():
		p.printTable(v, depth)
	case v.IsFunction():
		p.printFunction(v, depth)
	case v.IsModule():
		p.printf("#<module %s>", moduleName(v))
	case v.IsPrimitive():
		p.printf("#<primitive %s>", value.BytesOf(v.Cell().Name))
	default:
		p.errorf("printer: unrecognized value tag %s", v.Tag())
	}
}

func (p *Printer) printBytes(v value.Value) {
	data := value.BytesOf(v)
	if len(data) == 0 {
		p.printf("bytes[]")
		return
	}
	p.printf("bytes[0x")
	for _, b := range data {
		p.printf("%02X", b)
	}
	p.printf("]")
}

// printList renders a proper or improper list, with a dotted tail,
// guarding against cycles via the cell-identity visited set.
func (p *Printer) printList(v value.Value, depth int) {
	c := v.Cell()
	if p.visited[c] {
		p.printf("(...)")
		return
	}
	p.visited[c] = true

	p.printf("(")
	first := true
	cur := v
	for {
		if !first {
			p.printf(" ")
		}
		first = false
		p.printValue(value.First(cur), depth+1)

		rest := value.Rest(cur)
		if rest.IsNil() {
			break
		}
		if !rest.IsList() {
			p.printf(" . ")
			p.printValue(rest, depth+1)
			break
		}
		if p.visited[rest.Cell()] {
			p.printf(" ...")
			break
		}
		cur = rest
	}
	p.printf(")")
}

func (p *Printer) printVector(v value.Value, depth int) {
	c := v.Cell()
	if p.visited[c] {
		p.printf("[...]")
		return
	}
	p.visited[c] = true

	p.printf("[")
	n := value.VectorCount(v)
	for i := 0; i < n; i++ {
		if i != 0 {
			p.printf(" ")
		}
		p.printValue(value.VectorGet(v, i), depth+1)
	}
	p.printf("]")
}

func (p *Printer) printTable(v value.Value, depth int) {
	c := v.Cell()
	if p.visited[c] {
		p.printf("{...}")
		return
	}
	p.visited[c] = true

	p.printf("{")
	first := true
	value.TableForEach(v, func(k, val value.Value) bool {
		if !first {
			p.printf(" ")
		}
		first = false
		p.printValue(k, depth+1)
		p.printf(" ")
		p.printValue(val, depth+1)
		return true
	})
	p.printf("}")
}

// printFunction renders (𝛌 params body…) per spec.md §4.10.
func (p *Printer) printFunction(v value.Value, depth int) {
	c := v.Cell()
	if p.visited[c] {
		p.printf("(𝛌 ...)")
		return
	}
	p.visited[c] = true

	p.printf("(𝛌 ")
	p.printValue(c.Parameters, depth+1)
	for body := c.Code; body.IsList(); body = value.Rest(body) {
		p.printf(" ")
		p.printValue(value.First(body), depth+1)
	}
	p.printf(")")
}

func moduleName(v value.Value) string {
	var parts []byte
	first := true
	value.ForEachList(v.Cell().ModuleName, func(sym value.Value) bool {
		if !first {
			parts = append(parts, '.')
		}
		first = false
		parts = append(parts, value.BytesOf(sym)...)
		return true
	})
	return string(parts)
}
