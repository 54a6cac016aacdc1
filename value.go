package sieve

import (
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// A Value is a tagged runtime value of one of the sieve types.  Values are
// small and immutable; they are passed and stored by value.  The accessors
// are unchecked: calling Int on a non-int value is a programmer error and
// panics.
type Value struct {
	typ Type
	// num holds the representation for bool (0/1), int, float (IEEE bits),
	// and time (Unix nanoseconds).
	num uint64
	str string
	ip  netip.Addr
}

var (
	False = Value{typ: TypeBool, num: 0}
	True  = Value{typ: TypeBool, num: 1}
)

func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func NewInt(i int64) Value {
	return Value{typ: TypeInt, num: uint64(i)}
}

func NewFloat(f float64) Value {
	return Value{typ: TypeFloat, num: math.Float64bits(f)}
}

func NewString(s string) Value {
	return Value{typ: TypeString, str: s}
}

func NewIP(a netip.Addr) Value {
	return Value{typ: TypeIP, ip: a}
}

func NewTime(t time.Time) Value {
	return Value{typ: TypeTime, num: uint64(t.UnixNano())}
}

func (v Value) Type() Type { return v.typ }

func (v Value) Bool() bool {
	v.mustBe(TypeBool)
	return v.num != 0
}

func (v Value) Int() int64 {
	v.mustBe(TypeInt)
	return int64(v.num)
}

func (v Value) Float() float64 {
	v.mustBe(TypeFloat)
	return math.Float64frombits(v.num)
}

func (v Value) StringVal() string {
	v.mustBe(TypeString)
	return v.str
}

func (v Value) IP() netip.Addr {
	v.mustBe(TypeIP)
	return v.ip
}

func (v Value) Time() time.Time {
	v.mustBe(TypeTime)
	return time.Unix(0, int64(v.num)).UTC()
}

func (v Value) mustBe(typ Type) {
	if v.typ != typ {
		panic(fmt.Sprintf("sieve: %s accessor called on %s value", typ, v.typ))
	}
}

// String implements fmt.Stringer.  It is for logs and diagnostics; any caller
// needing a parseable form should format per type.
func (v Value) String() string {
	if v.typ == nil {
		return "none"
	}
	switch v.typ {
	case TypeBool:
		return strconv.FormatBool(v.num != 0)
	case TypeInt:
		return strconv.FormatInt(int64(v.num), 10)
	case TypeFloat:
		return strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64)
	case TypeString:
		return strconv.Quote(v.str)
	case TypeIP:
		return v.ip.String()
	case TypeTime:
		return v.Time().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("unknown type %d", v.typ.ID())
}

// Equal reports whether v and w are the same value.  Values of different
// types are never equal.
func (v Value) Equal(w Value) bool {
	if v.typ != w.typ {
		return false
	}
	if v.typ == TypeString {
		return v.str == w.str
	}
	if v.typ == TypeIP {
		return v.ip == w.ip
	}
	return v.num == w.num
}

// Compare returns -1, 0, or 1 ordering v against w.  Both values must have
// the same ordered type; the compiler establishes this before a relational
// operator is ever built, so a mixed-type call is a programmer error and
// panics.
func (v Value) Compare(w Value) int {
	if v.typ != w.typ {
		panic(fmt.Sprintf("sieve: compare of %s value with %s value", v.typ, w.typ))
	}
	switch v.typ {
	case TypeInt, TypeTime:
		a, b := int64(v.num), int64(w.num)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case TypeFloat:
		a, b := math.Float64frombits(v.num), math.Float64frombits(w.num)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case TypeString:
		return strings.Compare(v.str, w.str)
	case TypeIP:
		return v.ip.Compare(w.ip)
	}
	panic(fmt.Sprintf("sieve: %s values are not ordered", v.typ))
}

// ParseValue parses a textual literal as a value of the given type.  This is
// the type-directed path used by the compiler for filter literals and by the
// CLI and service when binding externally supplied text.
func ParseValue(typ Type, text string) (Value, error) {
	switch typ {
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool literal %q", text)
		}
		return NewBool(b), nil
	case TypeInt:
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid int literal %q", text)
		}
		return NewInt(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q", text)
		}
		return NewFloat(f), nil
	case TypeString:
		return NewString(text), nil
	case TypeIP:
		a, err := netip.ParseAddr(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid ip literal %q", text)
		}
		return NewIP(a), nil
	case TypeTime:
		t, err := dateparse.ParseAny(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid time literal %q", text)
		}
		return NewTime(t), nil
	}
	return Value{}, fmt.Errorf("no literal form for type %s", typ)
}
