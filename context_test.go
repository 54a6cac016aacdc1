package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextStartsEmpty(t *testing.T) {
	scheme := MustNewScheme(
		Column{"a", TypeInt},
		Column{"b", TypeBool},
		Column{"c", TypeString},
	)
	ectx := NewContext(scheme)
	require.Same(t, scheme, ectx.Scheme())
	for _, c := range scheme.Columns() {
		field, err := scheme.LookupField(c.Name)
		require.NoError(t, err)
		assert.Panics(t, func() { ectx.FieldValue(field) }, "field %q", c.Name)
	}
}

func TestContextSetAndGet(t *testing.T) {
	scheme := MustNewScheme(Column{"port", TypeInt})
	ectx := NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("port", NewInt(443)))
	field, err := scheme.LookupField("port")
	require.NoError(t, err)
	assert.Equal(t, NewInt(443), *ectx.FieldValue(field))
}

func TestContextTypeMismatch(t *testing.T) {
	scheme := MustNewScheme(Column{"foo", TypeInt})
	ectx := NewContext(scheme)

	err := ectx.SetFieldValue("foo", NewBool(false))
	require.Equal(t, &TypeMismatchError{FieldType: TypeInt, ValueType: TypeBool}, err)
	assert.EqualError(t, err, "the field should have int type, but bool was provided")

	// The failed set must not have touched the slot.
	field, err2 := scheme.LookupField("foo")
	require.NoError(t, err2)
	assert.Panics(t, func() { ectx.FieldValue(field) })

	require.NoError(t, ectx.SetFieldValue("foo", NewInt(42)))
	assert.Equal(t, int64(42), ectx.FieldValue(field).Int())
}

func TestContextMismatchPreservesPriorValue(t *testing.T) {
	scheme := MustNewScheme(Column{"name", TypeString})
	ectx := NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("name", NewString("alpha")))
	err := ectx.SetFieldValue("name", NewInt(1))
	require.Equal(t, &TypeMismatchError{FieldType: TypeString, ValueType: TypeInt}, err)
	field, _ := scheme.LookupField("name")
	assert.Equal(t, "alpha", ectx.FieldValue(field).StringVal())
}

func TestContextSetReplaces(t *testing.T) {
	scheme := MustNewScheme(Column{"n", TypeInt})
	ectx := NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("n", NewInt(1)))
	require.NoError(t, ectx.SetFieldValue("n", NewInt(2)))
	field, _ := scheme.LookupField("n")
	assert.Equal(t, int64(2), ectx.FieldValue(field).Int())
}

func TestContextUnsetFieldPanicsByName(t *testing.T) {
	scheme := MustNewScheme(Column{"a", TypeInt}, Column{"b", TypeBool})
	ectx := NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("a", NewInt(1)))
	a, _ := scheme.LookupField("a")
	b, _ := scheme.LookupField("b")
	assert.Equal(t, int64(1), ectx.FieldValue(a).Int())
	assert.PanicsWithValue(t,
		`sieve: field "b" was registered but not given a value`,
		func() { ectx.FieldValue(b) })
}

func TestContextUnknownField(t *testing.T) {
	scheme := MustNewScheme(Column{"proto", TypeString})
	ectx := NewContext(scheme)
	err := ectx.SetFieldValue("prot", NewString("tcp"))
	require.ErrorIs(t, err, ErrNoSuchField)
	assert.EqualError(t, err, `no such field: "prot" (did you mean "proto"?)`)
}

func TestContextCrossSchemeFieldPanics(t *testing.T) {
	scheme1 := MustNewScheme(Column{"x", TypeInt})
	scheme2 := MustNewScheme(Column{"x", TypeInt})
	ectx := NewContext(scheme1)
	require.NoError(t, ectx.SetFieldValue("x", NewInt(7)))
	other, err := scheme2.LookupField("x")
	require.NoError(t, err)
	assert.Panics(t, func() { ectx.FieldValue(other) })
}

func TestContextReset(t *testing.T) {
	scheme := MustNewScheme(Column{"x", TypeInt})
	ectx := NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("x", NewInt(7)))
	ectx.Reset()
	field, _ := scheme.LookupField("x")
	assert.Panics(t, func() { ectx.FieldValue(field) })
}
