// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reader

import (
	"errors"
	"fmt"
	"io"

	"github.com/lone-lisp/lone/internal/arena"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

// ErrUnclosedForm is returned when end-of-input is reached inside an
// unclosed nested form. Per spec.md §4.4 this is always fatal to the
// caller, unlike a clean top-level EOF.
var ErrUnclosedForm = errors.New("reader: unexpected end of input inside an unclosed form")

// Parser drives a Lexer to build value.Value trees.
type Parser struct {
	lex     *Lexer
	ip      value.Interpreter
	symbols *symbol.Table

	quote      value.Value
	quasiquote value.Value
	unquote    value.Value
	unquoteAll value.Value
}

// New returns a Parser reading S-expressions from src.
func New(src io.Reader, a *arena.Allocator, ip value.Interpreter, symbols *symbol.Table) *Parser {
	return &Parser{
		lex:        NewLexer(NewBuffer(src, a)),
		ip:         ip,
		symbols:    symbols,
		quote:      symbols.Intern([]byte("quote")),
		quasiquote: symbols.Intern([]byte("quasiquote")),
		unquote:    symbols.Intern([]byte("unquote")),
		unquoteAll: symbols.Intern([]byte("unquote*")),
	}
}

// Read parses the next top-level form. eof is true, with a nil value
// and nil error, on a clean end-of-input at a token boundary. Any
// non-nil error (including ErrUnclosedForm) is fatal to the caller,
// per spec.md §4.4.
func (p *Parser) Read() (v value.Value, eof bool, err error) {
	tok, err := p.lex.Next()
	if err != nil {
		return value.Nil, false, err
	}
	if tok.Kind == TokEOF {
		return value.Nil, true, nil
	}
	v, err = p.parseForm(tok)
	if err != nil {
		return value.Nil, false, err
	}
	return v, false, nil
}

// parseNext reads exactly one following form, treating EOF as fatal —
// the shape every nested parse (list elements, quote targets, dotted
// tails) needs.
func (p *Parser) parseNext() (value.Value, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return value.Nil, err
	}
	if tok.Kind == TokEOF {
		return value.Nil, ErrUnclosedForm
	}
	return p.parseForm(tok)
}

func (p *Parser) parseForm(tok Token) (value.Value, error) {
	switch tok.Kind {
	case TokInteger:
		return value.NewInteger(tok.IntegerValue), nil
	case TokText:
		return value.NewText(p.ip, tok.Bytes, true), nil
	case TokSymbol:
		return p.symbols.Intern(tok.Bytes), nil
	case TokSpecial:
		return p.parseSpecial(tok.Bytes[0])
	default:
		return value.Nil, fmt.Errorf("reader: unrecognized token kind %d", tok.Kind)
	}
}

func (p *Parser) parseSpecial(b byte) (value.Value, error) {
	switch b {
	case '(':
		return p.parseList()
	case '[':
		return p.parseVector()
	case '{':
		return p.parseTable()
	case '\'':
		return p.parseQuoteForm(p.quote)
	case '`':
		return p.parseQuoteForm(p.quasiquote)
	case ')', ']', '}':
		return value.Nil, fmt.Errorf("reader: unexpected %q at the start of a form", b)
	case '.':
		return value.Nil, fmt.Errorf("reader: unexpected '.' at the start of a form")
	default:
		return value.Nil, fmt.Errorf("reader: unexpected special token %q", b)
	}
}

func (p *Parser) parseQuoteForm(sym value.Value) (value.Value, error) {
	inner, err := p.parseNext()
	if err != nil {
		return value.Nil, err
	}
	return value.Cons(p.ip, sym, value.Cons(p.ip, inner, value.Nil)), nil
}

// parseList implements spec.md §4.4's list syntax, including the
// optional "dot" improper-list tail: after at least one element, a
// lone "." consumes exactly one more value as the final rest, and the
// very next token must close the list.
func (p *Parser) parseList() (value.Value, error) {
	var items []value.Value
	tail := value.Nil

	for {
		tok, err := p.lex.Next()
		if err != nil {
			return value.Nil, err
		}
		if tok.Kind == TokEOF {
			return value.Nil, ErrUnclosedForm
		}
		if tok.Kind == TokSpecial && tok.Bytes[0] == ')' {
			break
		}
		if tok.Kind == TokSpecial && tok.Bytes[0] == '.' {
			if len(items) == 0 {
				return value.Nil, fmt.Errorf("reader: dot syntax requires at least one preceding element")
			}
			v, err := p.parseNext()
			if err != nil {
				return value.Nil, err
			}
			tail = v
			closeTok, err := p.lex.Next()
			if err != nil {
				return value.Nil, err
			}
			if !(closeTok.Kind == TokSpecial && closeTok.Bytes[0] == ')') {
				return value.Nil, fmt.Errorf("reader: expected ')' after dotted tail")
			}
			break
		}
		v, err := p.parseForm(tok)
		if err != nil {
			return value.Nil, err
		}
		items = append(items, v)
	}

	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = value.Cons(p.ip, items[i], result)
	}
	return result, nil
}

func (p *Parser) parseVector() (value.Value, error) {
	vec := value.NewVector(p.ip, 4)
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return value.Nil, err
		}
		if tok.Kind == TokEOF {
			return value.Nil, ErrUnclosedForm
		}
		if tok.Kind == TokSpecial && tok.Bytes[0] == ']' {
			return vec, nil
		}
		v, err := p.parseForm(tok)
		if err != nil {
			return value.Nil, err
		}
		value.VectorPush(vec, v)
	}
}

// parseTable expects an even number of elements, alternating
// key/value. An odd count is a parse error (spec.md §4.4).
func (p *Parser) parseTable() (value.Value, error) {
	tbl := value.NewTable(p.ip, value.Nil)
	var pending []value.Value
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return value.Nil, err
		}
		if tok.Kind == TokEOF {
			return value.Nil, ErrUnclosedForm
		}
		if tok.Kind == TokSpecial && tok.Bytes[0] == '}' {
			if len(pending)%2 != 0 {
				return value.Nil, fmt.Errorf("reader: table literal has an odd number of elements")
			}
			for i := 0; i < len(pending); i += 2 {
				value.TableSet(tbl, pending[i], pending[i+1])
			}
			return tbl, nil
		}
		v, err := p.parseForm(tok)
		if err != nil {
			return value.Nil, err
		}
		pending = append(pending, v)
	}
}
