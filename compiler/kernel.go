package compiler

import (
	"fmt"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler/ast"
	"github.com/sievedata/sieve/expr"
)

// The kernel lowers a syntax tree into evaluators against a concrete scheme.
// This is where every field name is resolved to a Field handle (exactly
// once) and every literal acquires the type the referenced field demands.
// Every node of the filter grammar evaluates to bool, so the result of a
// successful compile is always a boolean evaluator.
type kernel struct {
	scheme *sieve.Scheme
	fields []sieve.Field
	seen   map[string]bool
}

func newKernel(scheme *sieve.Scheme) *kernel {
	return &kernel{scheme: scheme, seen: make(map[string]bool)}
}

func (k *kernel) compile(e ast.Expr) (expr.Evaluator, error) {
	switch e := e.(type) {
	case *ast.LogicalExpr:
		lhs, err := k.compile(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := k.compile(e.RHS)
		if err != nil {
			return nil, err
		}
		if e.Op == "and" {
			return expr.NewLogicalAnd(lhs, rhs), nil
		}
		return expr.NewLogicalOr(lhs, rhs), nil
	case *ast.UnaryExpr:
		operand, err := k.compile(e.Operand)
		if err != nil {
			return nil, err
		}
		return expr.NewLogicalNot(operand), nil
	case *ast.FieldExpr:
		field, err := k.resolve(e.Name, e.Position)
		if err != nil {
			return nil, err
		}
		if field.Type() != sieve.TypeBool {
			return nil, &Error{e.Position, fmt.Sprintf("field %q has type %s and cannot stand alone as a boolean", e.Name, field.Type())}
		}
		return expr.NewFieldRef(field), nil
	case *ast.CompareExpr:
		return k.compileCompare(e)
	case *ast.InExpr:
		return k.compileIn(e)
	}
	return nil, &Error{e.Pos(), fmt.Sprintf("unknown expression node %T", e)}
}

func (k *kernel) compileCompare(e *ast.CompareExpr) (expr.Evaluator, error) {
	field, err := k.resolve(e.Field, e.Position)
	if err != nil {
		return nil, err
	}
	ref := expr.NewFieldRef(field)
	switch e.Op {
	case "contains":
		if field.Type() != sieve.TypeString {
			return nil, &Error{e.Position, fmt.Sprintf("contains requires a string field, but %q has type %s", e.Field, field.Type())}
		}
		return expr.NewContains(ref, e.Literal.Text), nil
	case "matches":
		if field.Type() != sieve.TypeString {
			return nil, &Error{e.Position, fmt.Sprintf("matches requires a string field, but %q has type %s", e.Field, field.Type())}
		}
		m, err := expr.NewMatches(ref, e.Literal.Text)
		if err != nil {
			return nil, &Error{e.Literal.Position, fmt.Sprintf("bad pattern: %s", err)}
		}
		return m, nil
	case "<", "<=", ">", ">=":
		if !sieve.IsOrdered(field.Type()) {
			return nil, &Error{e.Position, fmt.Sprintf("%s is not defined for %s fields", e.Op, field.Type())}
		}
	case "==", "!=":
	default:
		return nil, &Error{e.Position, fmt.Sprintf("unknown operator %q", e.Op)}
	}
	val, err := k.literal(field.Type(), e.Literal)
	if err != nil {
		return nil, err
	}
	cmp, err := expr.NewCompare(e.Op, ref, expr.NewLiteral(val))
	if err != nil {
		return nil, &Error{e.Position, err.Error()}
	}
	return cmp, nil
}

func (k *kernel) compileIn(e *ast.InExpr) (expr.Evaluator, error) {
	field, err := k.resolve(e.Field, e.Position)
	if err != nil {
		return nil, err
	}
	vals := make([]sieve.Value, 0, len(e.Literals))
	for _, lit := range e.Literals {
		val, err := k.literal(field.Type(), lit)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return expr.NewIn(expr.NewFieldRef(field), vals), nil
}

// literal parses a raw literal as the type the field demands.  A literal that
// does not parse as that type is the compile-time analog of a runtime type
// mismatch.
func (k *kernel) literal(typ sieve.Type, lit ast.Literal) (sieve.Value, error) {
	val, err := sieve.ParseValue(typ, lit.Text)
	if err != nil {
		return sieve.Value{}, &Error{lit.Position, err.Error()}
	}
	return val, nil
}

func (k *kernel) resolve(name string, pos int) (sieve.Field, error) {
	field, err := k.scheme.LookupField(name)
	if err != nil {
		return sieve.Field{}, &Error{pos, err.Error()}
	}
	if !k.seen[name] {
		k.seen[name] = true
		k.fields = append(k.fields, field)
	}
	return field, nil
}
