package sieve

// A Field is a resolved reference to one field of one Scheme: its index in
// the scheme's field list, its name, its declared type, and the scheme it was
// resolved from.  A Field is only meaningful against the scheme that produced
// it; presenting it to a context built from another scheme is a programmer
// error.
type Field struct {
	scheme *Scheme
	index  int
	name   string
	typ    Type
}

func (f Field) Scheme() *Scheme { return f.scheme }
func (f Field) Index() int      { return f.index }
func (f Field) Name() string    { return f.name }
func (f Field) Type() Type      { return f.typ }
