// Package compiler turns filter source text into executable filters.  Parse
// produces a syntax tree; Compile resolves it against a scheme into an
// expr.Filter whose evaluation never looks up a name or checks a type.
package compiler

import (
	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler/ast"
	"github.com/sievedata/sieve/expr"
)

// Parse parses filter source text into a syntax tree without reference to
// any scheme.
func Parse(src string) (ast.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, &Error{p.tok.pos, "unexpected " + p.tok.String() + " after expression"}
	}
	return e, nil
}

// Compile parses src and binds it to scheme, resolving every field reference
// and type-checking every operator.
func Compile(scheme *sieve.Scheme, src string) (*expr.Filter, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, err
	}
	k := newKernel(scheme)
	eval, err := k.compile(tree)
	if err != nil {
		return nil, err
	}
	return expr.NewFilter(scheme, eval, k.fields), nil
}
