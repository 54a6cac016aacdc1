package sieve

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

var ErrNoSuchField = errors.New("no such field")

// A Column is one field declaration in a Scheme.
type Column struct {
	Name string
	Type Type
}

// A Scheme is an immutable catalog of field declarations.  It is built once,
// then shared read-only across any number of filters, contexts, and threads.
// Field names resolve to stable small indexes so that everything downstream
// can use array indexing instead of map lookups.
type Scheme struct {
	columns []Column
	lut     map[string]int
}

// NewScheme builds a scheme from the given columns.  Duplicate or empty field
// names are construction errors.
func NewScheme(columns ...Column) (*Scheme, error) {
	lut := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("field %d has empty name", i)
		}
		if c.Type == nil {
			return nil, fmt.Errorf("field %q has no type", c.Name)
		}
		if _, ok := lut[c.Name]; ok {
			return nil, fmt.Errorf("duplicate field name %q", c.Name)
		}
		lut[c.Name] = i
	}
	return &Scheme{columns: columns, lut: lut}, nil
}

// MustNewScheme is NewScheme for schemes known valid at compile time, e.g. in
// tests.
func MustNewScheme(columns ...Column) *Scheme {
	s, err := NewScheme(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scheme) FieldCount() int   { return len(s.columns) }
func (s *Scheme) Columns() []Column { return s.columns }

// LookupField resolves a field name to a Field handle.  Unknown names return
// an error wrapping ErrNoSuchField, with a suggestion when a declared field
// name is close.
func (s *Scheme) LookupField(name string) (Field, error) {
	i, ok := s.lut[name]
	if !ok {
		if hint := s.nearest(name); hint != "" {
			return Field{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrNoSuchField, name, hint)
		}
		return Field{}, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}
	c := s.columns[i]
	return Field{scheme: s, index: i, name: c.Name, typ: c.Type}, nil
}

func (s *Scheme) nearest(name string) string {
	best, bestDist := "", 3
	for _, c := range s.columns {
		if d := levenshtein.ComputeDistance(name, c.Name); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}
