package sieve

import "fmt"

// A TypeMismatchError is returned by ExecutionContext.SetFieldValue when the
// supplied value's type does not exactly match the field's declared type.
// This is the recoverable, data-side failure: the context is left unchanged
// and the caller can reject the offending input.
type TypeMismatchError struct {
	FieldType Type
	ValueType Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("the field should have %s type, but %s was provided", e.FieldType, e.ValueType)
}

// An ExecutionContext binds runtime values to the fields of one Scheme for
// the duration of one filter execution.  It acts like a map in its public
// API, but stores values in a fixed slot array indexed by field index, so
// reads during execution are constant time with no name or type checks on
// the hot path.
//
// A context is exclusively owned by a single evaluation flow; it provides no
// internal synchronization.  The scheme it was built from is borrowed, not
// owned, and every Field presented to it must have been resolved from that
// same scheme.
type ExecutionContext struct {
	scheme *Scheme
	values []*Value
}

// NewContext creates an execution context associated with the given scheme.
// Every slot starts empty.
func NewContext(scheme *Scheme) *ExecutionContext {
	return &ExecutionContext{
		scheme: scheme,
		values: make([]*Value, scheme.FieldCount()),
	}
}

// Scheme returns the scheme this context is bound to.
func (e *ExecutionContext) Scheme() *Scheme { return e.scheme }

// SetFieldValue binds a runtime value to the named field.  The value's type
// must exactly match the field's declared type; on mismatch the slot is left
// untouched and a *TypeMismatchError is returned.  Setting an already-bound
// field replaces its value.
func (e *ExecutionContext) SetFieldValue(name string, v Value) error {
	field, err := e.scheme.LookupField(name)
	if err != nil {
		return err
	}
	if field.Type() != v.Type() {
		return &TypeMismatchError{FieldType: field.Type(), ValueType: v.Type()}
	}
	e.values[field.Index()] = &v
	return nil
}

// FieldValue returns the value bound to field.  The returned pointer refers
// to storage owned by the context and is valid until the next SetFieldValue
// for that field or Reset.
//
// This is only reachable from filter execution, which has already checked
// scheme compatibility, but the invariant is cheap enough to keep checking.
//
// A compiled filter referencing field means a value for it must have been
// supplied before execution, so an empty slot is a contract violation in the
// surrounding pipeline, not a data error: FieldValue panics naming the field
// rather than inventing a default that would corrupt filter semantics.
func (e *ExecutionContext) FieldValue(field Field) *Value {
	if field.Scheme() != e.scheme {
		panic(fmt.Sprintf("sieve: field %q belongs to a different scheme", field.Name()))
	}
	v := e.values[field.Index()]
	if v == nil {
		panic(fmt.Sprintf("sieve: field %q was registered but not given a value", field.Name()))
	}
	return v
}

// Reset clears every slot so the context can be reused for another
// execution.  Hand-off between executions must guarantee exclusive
// ownership; Reset does no synchronization.
func (e *ExecutionContext) Reset() {
	for i := range e.values {
		e.values[i] = nil
	}
}
