// Package sieve implements a schema-typed boolean filter engine.  A Scheme
// declares the fields a filter may reference, each with a stable index and a
// declared type.  Filters are compiled once against a Scheme and then executed
// many times, each execution against an ExecutionContext that binds runtime
// values to the scheme's fields.  Field access during execution is an indexed
// array load; names and types are resolved exactly once, at compile or bind
// time, never in the evaluation hot path.
package sieve

import "fmt"

// A Type is the declared type of a scheme field or the runtime type of a
// bound value.  Types are package-level singletons, so two types agree iff
// they are the same pointer.  There is no subtyping and no coercion.
type Type interface {
	// ID returns a small unique integer identifying this type.
	ID() int
	String() string
}

var (
	TypeBool   = &TypeOfBool{}
	TypeInt    = &TypeOfInt{}
	TypeFloat  = &TypeOfFloat{}
	TypeString = &TypeOfString{}
	TypeIP     = &TypeOfIP{}
	TypeTime   = &TypeOfTime{}
)

const (
	IDBool = iota
	IDInt
	IDFloat
	IDString
	IDIP
	IDTime
)

type TypeOfBool struct{}

func (t *TypeOfBool) ID() int        { return IDBool }
func (t *TypeOfBool) String() string { return "bool" }

type TypeOfInt struct{}

func (t *TypeOfInt) ID() int        { return IDInt }
func (t *TypeOfInt) String() string { return "int" }

type TypeOfFloat struct{}

func (t *TypeOfFloat) ID() int        { return IDFloat }
func (t *TypeOfFloat) String() string { return "float" }

type TypeOfString struct{}

func (t *TypeOfString) ID() int        { return IDString }
func (t *TypeOfString) String() string { return "string" }

type TypeOfIP struct{}

func (t *TypeOfIP) ID() int        { return IDIP }
func (t *TypeOfIP) String() string { return "ip" }

type TypeOfTime struct{}

func (t *TypeOfTime) ID() int        { return IDTime }
func (t *TypeOfTime) String() string { return "time" }

// LookupType returns the type with the given name, as it appears in scheme
// definition files.
func LookupType(name string) (Type, error) {
	switch name {
	case "bool":
		return TypeBool, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "string":
		return TypeString, nil
	case "ip":
		return TypeIP, nil
	case "time":
		return TypeTime, nil
	}
	return nil, fmt.Errorf("no such type: %q", name)
}

// IsOrdered reports whether values of typ have a total order usable by the
// relational comparison operators.  Bool is equality-only.
func IsOrdered(typ Type) bool {
	return typ != TypeBool
}
