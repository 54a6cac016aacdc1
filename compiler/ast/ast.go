// Package ast defines the syntax tree produced by the filter parser.  The
// tree is untyped: literals are raw text, and field names are unresolved
// strings.  The compiler kernel resolves names and types against a scheme.
package ast

// An Expr is any node of the filter syntax tree.  Pos returns the byte
// offset of the node in the source text, for error reporting.
type Expr interface {
	Pos() int
}

// A Literal is the raw text of one literal operand.  Quoted records whether
// it appeared as a quoted string; the text holds the unescaped content.
// Literal types are decided by the kernel from the field the literal is
// compared against.
type Literal struct {
	Text     string
	Quoted   bool
	Position int
}

func (l *Literal) Pos() int { return l.Position }

// A FieldExpr is a bare field reference.  Standing alone it is only valid
// for bool fields.
type FieldExpr struct {
	Name     string
	Position int
}

func (f *FieldExpr) Pos() int { return f.Position }

// A LogicalExpr is "and" or "or" over two boolean subexpressions.
type LogicalExpr struct {
	Op       string // "and" or "or"
	LHS, RHS Expr
	Position int
}

func (l *LogicalExpr) Pos() int { return l.Position }

// A UnaryExpr is "not" over a boolean subexpression.
type UnaryExpr struct {
	Operand  Expr
	Position int
}

func (u *UnaryExpr) Pos() int { return u.Position }

// A CompareExpr applies a comparison operator to a field and a literal:
// ==, !=, <, <=, >, >=, contains, matches.
type CompareExpr struct {
	Op       string
	Field    string
	Literal  Literal
	Position int
}

func (c *CompareExpr) Pos() int { return c.Position }

// An InExpr tests a field against a set of literals: field in {a b c}.
type InExpr struct {
	Field    string
	Literals []Literal
	Position int
}

func (i *InExpr) Pos() int { return i.Position }
