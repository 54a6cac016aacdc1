package expr_test

import (
	"testing"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAndShortCircuit(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "flag", Type: sieve.TypeBool})
	ectx := sieve.NewContext(scheme)
	field, err := scheme.LookupField("flag")
	require.NoError(t, err)

	// The RHS references an unbound field, whose read would panic.  A false
	// LHS must keep evaluation from ever reaching it.
	e := expr.NewLogicalAnd(expr.NewLiteral(sieve.False), expr.NewFieldRef(field))
	v, err := e.Eval(ectx)
	require.NoError(t, err)
	assert.False(t, v.Bool())
}

func TestOrShortCircuit(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "flag", Type: sieve.TypeBool})
	ectx := sieve.NewContext(scheme)
	field, err := scheme.LookupField("flag")
	require.NoError(t, err)

	e := expr.NewLogicalOr(expr.NewLiteral(sieve.True), expr.NewFieldRef(field))
	v, err := e.Eval(ectx)
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestLogicalOperandMustBeBool(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "flag", Type: sieve.TypeBool})
	ectx := sieve.NewContext(scheme)

	e := expr.NewLogicalNot(expr.NewLiteral(sieve.NewInt(1)))
	_, err := e.Eval(ectx)
	assert.ErrorIs(t, err, expr.ErrIncompatibleTypes)
}

func TestFieldRefReadsCurrentBinding(t *testing.T) {
	scheme := sieve.MustNewScheme(sieve.Column{Name: "n", Type: sieve.TypeInt})
	ectx := sieve.NewContext(scheme)
	field, err := scheme.LookupField("n")
	require.NoError(t, err)
	ref := expr.NewFieldRef(field)

	require.NoError(t, ectx.SetFieldValue("n", sieve.NewInt(1)))
	v, err := ref.Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())

	require.NoError(t, ectx.SetFieldValue("n", sieve.NewInt(2)))
	v, err = ref.Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int())
}

func TestUnknownComparisonOperator(t *testing.T) {
	_, err := expr.NewCompare("~", nil, nil)
	assert.EqualError(t, err, `unknown comparison operator "~"`)
}
