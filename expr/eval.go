// Package expr provides the evaluators a compiled filter executes.  The
// compiler resolves every field name and checks every operand type before an
// Evaluator is built, so evaluation itself performs no name resolution and no
// string comparison.
package expr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sievedata/sieve"
)

var ErrIncompatibleTypes = errors.New("incompatible types")

type Evaluator interface {
	Eval(*sieve.ExecutionContext) (sieve.Value, error)
}

// A FieldRef reads the value bound to a pre-resolved field.  This is the only
// evaluator that touches the execution context.
type FieldRef struct {
	field sieve.Field
}

func NewFieldRef(field sieve.Field) *FieldRef {
	return &FieldRef{field}
}

func (f *FieldRef) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	return *ectx.FieldValue(f.field), nil
}

type Literal struct {
	val sieve.Value
}

func NewLiteral(val sieve.Value) *Literal {
	return &Literal{val}
}

func (l *Literal) Eval(*sieve.ExecutionContext) (sieve.Value, error) {
	return l.val, nil
}

type Not struct {
	expr Evaluator
}

func NewLogicalNot(e Evaluator) *Not {
	return &Not{e}
}

func (n *Not) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	v, err := evalBool(n.expr, ectx)
	if err != nil {
		return v, err
	}
	return sieve.NewBool(!v.Bool()), nil
}

type And struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalAnd(lhs, rhs Evaluator) *And {
	return &And{lhs, rhs}
}

func (a *And) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	lhs, err := evalBool(a.lhs, ectx)
	if err != nil {
		return lhs, err
	}
	if !lhs.Bool() {
		return sieve.False, nil
	}
	return evalBool(a.rhs, ectx)
}

type Or struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalOr(lhs, rhs Evaluator) *Or {
	return &Or{lhs, rhs}
}

func (o *Or) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	lhs, err := evalBool(o.lhs, ectx)
	if err != nil {
		return lhs, err
	}
	if lhs.Bool() {
		return sieve.True, nil
	}
	return evalBool(o.rhs, ectx)
}

func evalBool(e Evaluator, ectx *sieve.ExecutionContext) (sieve.Value, error) {
	v, err := e.Eval(ectx)
	if err != nil {
		return v, err
	}
	if v.Type() != sieve.TypeBool {
		return v, ErrIncompatibleTypes
	}
	return v, nil
}

// A Compare evaluates a relational operator over two same-typed operands.
// The compiler guarantees operand type agreement and that ordering operators
// only appear over ordered types.
type Compare struct {
	lhs, rhs Evaluator
	pred     func(sieve.Value, sieve.Value) bool
}

func NewCompare(op string, lhs, rhs Evaluator) (*Compare, error) {
	var pred func(sieve.Value, sieve.Value) bool
	switch op {
	case "==":
		pred = func(a, b sieve.Value) bool { return a.Equal(b) }
	case "!=":
		pred = func(a, b sieve.Value) bool { return !a.Equal(b) }
	case "<":
		pred = func(a, b sieve.Value) bool { return a.Compare(b) < 0 }
	case "<=":
		pred = func(a, b sieve.Value) bool { return a.Compare(b) <= 0 }
	case ">":
		pred = func(a, b sieve.Value) bool { return a.Compare(b) > 0 }
	case ">=":
		pred = func(a, b sieve.Value) bool { return a.Compare(b) >= 0 }
	default:
		return nil, fmt.Errorf("unknown comparison operator %q", op)
	}
	return &Compare{lhs: lhs, rhs: rhs, pred: pred}, nil
}

func (c *Compare) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	lhs, err := c.lhs.Eval(ectx)
	if err != nil {
		return lhs, err
	}
	rhs, err := c.rhs.Eval(ectx)
	if err != nil {
		return rhs, err
	}
	return sieve.NewBool(c.pred(lhs, rhs)), nil
}

// An In tests membership of its operand in a fixed literal set.  The sets in
// filter expressions are small, so a linear scan beats hashing the tagged
// values.
type In struct {
	elem Evaluator
	vals []sieve.Value
}

func NewIn(elem Evaluator, vals []sieve.Value) *In {
	return &In{elem: elem, vals: vals}
}

func (i *In) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	elem, err := i.elem.Eval(ectx)
	if err != nil {
		return elem, err
	}
	for _, v := range i.vals {
		if elem.Equal(v) {
			return sieve.True, nil
		}
	}
	return sieve.False, nil
}

// A Contains tests substring containment on a string operand.
type Contains struct {
	expr   Evaluator
	needle string
}

func NewContains(e Evaluator, needle string) *Contains {
	return &Contains{expr: e, needle: needle}
}

func (c *Contains) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	v, err := c.expr.Eval(ectx)
	if err != nil {
		return v, err
	}
	return sieve.NewBool(strings.Contains(v.StringVal(), c.needle)), nil
}

// A Matches tests a string operand against a regular expression compiled
// once, at filter build time.
type Matches struct {
	expr Evaluator
	re   *regexp.Regexp
}

func NewMatches(e Evaluator, pattern string) (*Matches, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Matches{expr: e, re: re}, nil
}

func (m *Matches) Eval(ectx *sieve.ExecutionContext) (sieve.Value, error) {
	v, err := m.expr.Eval(ectx)
	if err != nil {
		return v, err
	}
	return sieve.NewBool(m.re.MatchString(v.StringVal())), nil
}
