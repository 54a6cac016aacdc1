package compiler

import (
	"fmt"

	"github.com/sievedata/sieve/compiler/ast"
)

// An Error is a compile error with the byte offset of the offending token.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

// The grammar, lowest precedence first:
//
//	expr    = or
//	or      = and (("or" | "||") and)*
//	and     = not (("and" | "&&") not)*
//	not     = ("not" | "!") not | primary
//	primary = "(" expr ")"
//	        | field op literal
//	        | field "in" "{" literal+ "}"
//	        | field
//	op      = "==" | "!=" | "<" | "<=" | ">" | ">=" | "contains" | "matches"
type parser struct {
	lexer lexer
	tok   token
}

func newParser(src string) (*parser, error) {
	p := &parser{lexer: lexer{src: src}}
	return p, p.advance()
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") || p.isOp("||") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.LogicalExpr{Op: "or", LHS: lhs, RHS: rhs, Position: pos}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") || p.isOp("&&") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = &ast.LogicalExpr{Op: "and", LHS: lhs, RHS: rhs, Position: pos}
	}
	return lhs, nil
}

func (p *parser) parseNot() (ast.Expr, error) {
	if p.isKeyword("not") || p.isOp("!") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operand: operand, Position: pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.kind {
	case tokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokenRParen {
			return nil, &Error{p.tok.pos, fmt.Sprintf("expected ), found %s", p.tok)}
		}
		return e, p.advance()
	case tokenWord:
		return p.parseFieldClause()
	}
	return nil, &Error{p.tok.pos, fmt.Sprintf("expected expression, found %s", p.tok)}
}

func (p *parser) parseFieldClause() (ast.Expr, error) {
	field := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch {
	case p.tok.kind == tokenOp && isCompareOp(p.tok.text):
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.CompareExpr{Op: op.text, Field: field.text, Literal: lit, Position: field.pos}, nil
	case p.isKeyword("contains"), p.isKeyword("matches"):
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.CompareExpr{Op: op.text, Field: field.text, Literal: lit, Position: field.pos}, nil
	case p.isKeyword("in"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		lits, err := p.parseSet()
		if err != nil {
			return nil, err
		}
		return &ast.InExpr{Field: field.text, Literals: lits, Position: field.pos}, nil
	}
	return &ast.FieldExpr{Name: field.text, Position: field.pos}, nil
}

func (p *parser) parseLiteral() (ast.Literal, error) {
	switch p.tok.kind {
	case tokenWord:
		lit := ast.Literal{Text: p.tok.text, Position: p.tok.pos}
		return lit, p.advance()
	case tokenString:
		lit := ast.Literal{Text: p.tok.text, Quoted: true, Position: p.tok.pos}
		return lit, p.advance()
	}
	return ast.Literal{}, &Error{p.tok.pos, fmt.Sprintf("expected literal, found %s", p.tok)}
}

func (p *parser) parseSet() ([]ast.Literal, error) {
	if p.tok.kind != tokenLBrace {
		return nil, &Error{p.tok.pos, fmt.Sprintf("expected {, found %s", p.tok)}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var lits []ast.Literal
	for p.tok.kind != tokenRBrace {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	if len(lits) == 0 {
		return nil, &Error{p.tok.pos, "empty set"}
	}
	return lits, p.advance()
}

func isCompareOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.kind == tokenWord && p.tok.text == kw
}

func (p *parser) isOp(op string) bool {
	return p.tok.kind == tokenOp && p.tok.text == op
}
