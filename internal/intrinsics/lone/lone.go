// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lone registers the interpreter's built-in special forms
// (spec.md §4.7): quote, quasiquote/unquote/unquote*, if, when,
// unless, begin, let, set, lambda, lambda!. Every one of them is an
// ordinary Primitive distinguished only by its Flags — spec.md's point
// that there is no separate syntactic class for "special forms".
package lone

import (
	"github.com/lone-lisp/lone/internal/fault"
	"github.com/lone-lisp/lone/internal/symbol"
	"github.com/lone-lisp/lone/internal/value"
)

var noEval = value.Flags{}

// Register installs every built-in special form into env as a
// Primitive bound under its name, e.g. (if ...). symbols supplies the
// quasiquote/unquote/unquote* symbols the quasiquote expander matches
// against.
func Register(ip value.Interpreter, symbols *symbol.Table, env value.Value) {
	q := newQuasiquoter(symbols)

	forms := []struct {
		name string
		fn   value.PrimitiveFunc
	}{
		{"quote", primQuote},
		{"quasiquote", q.primQuasiquote},
		{"if", primIf},
		{"when", primWhen},
		{"unless", primUnless},
		{"begin", primBegin},
		{"let", primLet},
		{"set", primSet},
		{"lambda", primLambda},
		{"lambda!", primLambdaBang},
	}
	for _, f := range forms {
		name := symbols.Intern([]byte(f.name))
		prim := value.NewPrimitive(ip, name, f.fn, value.Nil, noEval)
		value.TableSet(env, name, prim)
	}
}

func primQuote(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "quote takes exactly one argument")
	}
	return value.First(args), nil
}

// quasiquoter carries the interned unquote/unquote* symbols the
// expander recognizes inside a quasiquoted template.
type quasiquoter struct {
	unquote    value.Value
	unquoteAll value.Value
}

func newQuasiquoter(symbols *symbol.Table) *quasiquoter {
	return &quasiquoter{
		unquote:    symbols.Intern([]byte("unquote")),
		unquoteAll: symbols.Intern([]byte("unquote*")),
	}
}

func (q *quasiquoter) primQuasiquote(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if value.ListLength(args) != 1 {
		return value.Nil, ip.Fatalf(fault.Arity, "quasiquote takes exactly one argument")
	}
	return q.expand(ip, module, env, value.First(args))
}

// expand walks template, evaluating (unquote e) in place and splicing
// (unquote* e) when e evaluates to a list (spec.md §4.7).
func (q *quasiquoter) expand(ip value.Interpreter, module, env, template value.Value) (value.Value, error) {
	if !template.IsList() {
		return template, nil
	}

	head := value.First(template)
	if head.IsSymbol() {
		if value.Identical(head, q.unquote) {
			target := value.First(value.Rest(template))
			return ip.Evaluate(module, env, target)
		}
		if value.Identical(head, q.unquoteAll) {
			return value.Nil, ip.Fatalf(fault.Type, "unquote* is only valid as a list element")
		}
	}

	var items []value.Value
	for cur := template; cur.IsList(); cur = value.Rest(cur) {
		elem := value.First(cur)
		if elem.IsList() && value.First(elem).IsSymbol() && value.Identical(value.First(elem), q.unquoteAll) {
			spliced, err := ip.Evaluate(module, env, value.First(value.Rest(elem)))
			if err != nil {
				return value.Nil, err
			}
			if spliced.IsListOrNil() {
				items = append(items, value.ListToSlice(spliced)...)
			} else {
				items = append(items, spliced)
			}
			continue
		}
		expanded, err := q.expand(ip, module, env, elem)
		if err != nil {
			return value.Nil, err
		}
		items = append(items, expanded)
	}
	return value.SliceToList(ip, items), nil
}

func primIf(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	n := value.ListLength(args)
	if n < 2 || n > 3 {
		return value.Nil, ip.Fatalf(fault.Arity, "if takes two or three arguments, got %d", n)
	}
	test, err := ip.Evaluate(module, env, value.First(args))
	if err != nil {
		return value.Nil, err
	}
	rest := value.Rest(args)
	if test.Truthy() {
		return ip.Evaluate(module, env, value.First(rest))
	}
	elseForm := value.Rest(rest)
	if !elseForm.IsList() {
		return value.Nil, nil
	}
	return ip.Evaluate(module, env, value.First(elseForm))
}

func primWhen(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return evalGuardedBody(ip, module, env, args, true)
}

func primUnless(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return evalGuardedBody(ip, module, env, args, false)
}

func evalGuardedBody(ip value.Interpreter, module, env, args value.Value, wantTruthy bool) (value.Value, error) {
	if !args.IsList() {
		return value.Nil, ip.Fatalf(fault.Arity, "missing a test expression")
	}
	test, err := ip.Evaluate(module, env, value.First(args))
	if err != nil {
		return value.Nil, err
	}
	if test.Truthy() != wantTruthy {
		return value.Nil, nil
	}
	return evalBody(ip, module, env, value.Rest(args))
}

func primBegin(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return evalBody(ip, module, env, args)
}

func evalBody(ip value.Interpreter, module, env, body value.Value) (value.Value, error) {
	result := value.Nil
	for cur := body; cur.IsList(); cur = value.Rest(cur) {
		v, err := ip.Evaluate(module, env, value.First(cur))
		if err != nil {
			return value.Nil, err
		}
		result = v
	}
	return result, nil
}

// primLet implements sequential-visibility let (spec.md §4.7): a new
// environment is created once, and each binding is evaluated and
// stored in that same new environment before moving to the next, so
// later initializers can see earlier names.
func primLet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	if !args.IsList() {
		return value.Nil, ip.Fatalf(fault.Arity, "let requires a binding list")
	}
	bindings := value.First(args)
	letEnv := value.NewTable(ip, env)

	for cur := bindings; cur.IsList(); cur = value.Rest(cur) {
		name := value.First(cur)
		if !name.IsSymbol() {
			return value.Nil, ip.Fatalf(fault.Type, "let binding name must be a symbol")
		}
		cur = value.Rest(cur)
		if !cur.IsList() {
			return value.Nil, ip.Fatalf(fault.Arity, "let binding %s is missing a value", value.BytesOf(name))
		}
		v, err := ip.Evaluate(module, letEnv, value.First(cur))
		if err != nil {
			return value.Nil, err
		}
		value.TableSet(letEnv, name, v)
	}
	return evalBody(ip, module, letEnv, value.Rest(args))
}

func primSet(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	n := value.ListLength(args)
	if n < 1 || n > 2 {
		return value.Nil, ip.Fatalf(fault.Arity, "set takes one or two arguments, got %d", n)
	}
	name := value.First(args)
	if !name.IsSymbol() {
		return value.Nil, ip.Fatalf(fault.Type, "set requires a symbol name")
	}
	val := value.Nil
	if rest := value.Rest(args); rest.IsList() {
		v, err := ip.Evaluate(module, env, value.First(rest))
		if err != nil {
			return value.Nil, err
		}
		val = v
	}
	value.TableSet(env, name, val)
	return val, nil
}

func primLambda(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return makeLambda(ip, env, args, value.Flags{EvaluateArguments: true})
}

func primLambdaBang(ip value.Interpreter, module, env, args, closure value.Value) (value.Value, error) {
	return makeLambda(ip, env, args, value.Flags{EvaluateArguments: false})
}

func makeLambda(ip value.Interpreter, env, args value.Value, flags value.Flags) (value.Value, error) {
	if !args.IsList() {
		return value.Nil, ip.Fatalf(fault.Arity, "lambda requires a parameter list and a body")
	}
	params := value.First(args)
	if !params.IsSymbol() {
		flags.VariableArguments = false
	} else {
		flags.VariableArguments = true
	}
	body := value.Rest(args)
	return value.NewFunction(ip, params, body, env, flags), nil
}
