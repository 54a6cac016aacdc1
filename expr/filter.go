package expr

import (
	"github.com/sievedata/sieve"
)

// A Filter is a compiled boolean filter bound to one scheme.  A Filter is
// immutable and safe to share across threads; the per-execution state lives
// entirely in the ExecutionContext passed to Eval.
type Filter struct {
	scheme *sieve.Scheme
	eval   Evaluator
	fields []sieve.Field
}

// NewFilter wraps a compiled evaluator.  fields lists every field the
// evaluator references, so callers can check boundness before executing.
func NewFilter(scheme *sieve.Scheme, eval Evaluator, fields []sieve.Field) *Filter {
	return &Filter{scheme: scheme, eval: eval, fields: fields}
}

func (f *Filter) Scheme() *sieve.Scheme { return f.scheme }

// Fields returns the fields the filter references, in first-use order.
func (f *Filter) Fields() []sieve.Field { return f.fields }

// Eval executes the filter against the values bound in ectx.  The context
// must have been created from the filter's scheme; anything else is a
// programmer error and panics.
func (f *Filter) Eval(ectx *sieve.ExecutionContext) (bool, error) {
	if ectx.Scheme() != f.scheme {
		panic("sieve: execution context scheme does not match filter scheme")
	}
	v, err := evalBool(f.eval, ectx)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}
