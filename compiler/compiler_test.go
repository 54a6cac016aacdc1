package compiler_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheme(t *testing.T) *sieve.Scheme {
	t.Helper()
	scheme, err := sieve.NewScheme(
		sieve.Column{Name: "ip.src", Type: sieve.TypeIP},
		sieve.Column{Name: "port", Type: sieve.TypeInt},
		sieve.Column{Name: "proto", Type: sieve.TypeString},
		sieve.Column{Name: "tcp.syn", Type: sieve.TypeBool},
		sieve.Column{Name: "latency", Type: sieve.TypeFloat},
		sieve.Column{Name: "ts", Type: sieve.TypeTime},
	)
	require.NoError(t, err)
	return scheme
}

type testcase struct {
	filter   string
	expected bool
}

func runCases(t *testing.T, scheme *sieve.Scheme, ectx *sieve.ExecutionContext, cases []testcase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.filter, func(t *testing.T) {
			f, err := compiler.Compile(scheme, c.filter)
			require.NoError(t, err, "filter: %q", c.filter)
			match, err := f.Eval(ectx)
			require.NoError(t, err, "filter: %q", c.filter)
			assert.Equal(t, c.expected, match, "filter: %q", c.filter)
		})
	}
}

func TestFilters(t *testing.T) {
	scheme := testScheme(t)
	ectx := sieve.NewContext(scheme)
	require.NoError(t, ectx.SetFieldValue("ip.src", sieve.NewIP(netip.MustParseAddr("10.1.2.3"))))
	require.NoError(t, ectx.SetFieldValue("port", sieve.NewInt(443)))
	require.NoError(t, ectx.SetFieldValue("proto", sieve.NewString("https")))
	require.NoError(t, ectx.SetFieldValue("tcp.syn", sieve.NewBool(true)))
	require.NoError(t, ectx.SetFieldValue("latency", sieve.NewFloat(0.25)))
	require.NoError(t, ectx.SetFieldValue("ts",
		sieve.NewTime(time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC))))

	runCases(t, scheme, ectx, []testcase{
		{`port == 443`, true},
		{`port == 80`, false},
		{`port != 80`, true},
		{`port < 1024`, true},
		{`port <= 443`, true},
		{`port > 443`, false},
		{`port >= 444`, false},
		{`port == 0x1bb`, true},
		{`proto == "https"`, true},
		{`proto == https`, true},
		{`proto != "http"`, true},
		{`proto contains "ttp"`, true},
		{`proto contains "udp"`, false},
		{`proto matches "^ht+ps$"`, true},
		{`proto matches "^udp"`, false},
		{`proto < "i"`, true},
		{`ip.src == 10.1.2.3`, true},
		{`ip.src != 10.1.2.3`, false},
		{`ip.src > 10.1.2.2`, true},
		{`ip.src in {10.0.0.1 10.1.2.3}`, true},
		{`ip.src in {10.0.0.1 10.0.0.2}`, false},
		{`port in {80 443 8080}`, true},
		{`proto in {"http" "https"}`, true},
		{`tcp.syn`, true},
		{`not tcp.syn`, false},
		{`!tcp.syn`, false},
		{`tcp.syn == true`, true},
		{`tcp.syn != false`, true},
		{`latency < 0.5`, true},
		{`latency >= 0.25`, true},
		{`ts > "2021-01-01T00:00:00Z"`, true},
		{`ts < "2021-01-01T00:00:00Z"`, false},
		{`port == 443 and proto == "https"`, true},
		{`port == 80 and proto == "https"`, false},
		{`port == 80 or proto == "https"`, true},
		{`port == 80 || proto == "http"`, false},
		{`port == 443 && tcp.syn`, true},
		{`tcp.syn && port == 443`, true},
		{`tcp.syn || port == 80`, true},
		{`not (port == 80 or proto == "http")`, true},
		{`(port == 80 or port == 443) and tcp.syn`, true},
		{`not not tcp.syn`, true},
	})
}

func TestCompileErrors(t *testing.T) {
	scheme := testScheme(t)
	cases := []struct {
		filter string
		errstr string
	}{
		{`porr == 443`, `no such field: "porr" (did you mean "port"?) at offset 0`},
		{`port == "x"`, `invalid int literal "x" at offset 8`},
		{`port contains "4"`, `contains requires a string field, but "port" has type int at offset 0`},
		{`port matches "4.*"`, `matches requires a string field, but "port" has type int at offset 0`},
		{`tcp.syn < true`, `< is not defined for bool fields at offset 0`},
		{`port`, `field "port" has type int and cannot stand alone as a boolean at offset 0`},
		{`port and tcp.syn`, `field "port" has type int and cannot stand alone as a boolean at offset 0`},
		{`not port`, `field "port" has type int and cannot stand alone as a boolean at offset 4`},
		{`port ==`, `expected literal, found end of input at offset 7`},
		{`(port == 443`, `expected ), found end of input at offset 12`},
		{`port == 443 extra`, `unexpected "extra" after expression at offset 12`},
		{`port in {}`, `empty set at offset 9`},
		{`ip.src in {10.0.0.1 80h}`, `invalid ip literal "80h" at offset 20`},
		{`proto matches "("`, `bad pattern: error parsing regexp: missing closing ): ` + "`(`" + ` at offset 14`},
		{`== 443`, `expected expression, found "==" at offset 0`},
		{`port == "x`, `unterminated string at offset 8`},
		{`port @ 3`, `unexpected character '@' at offset 5`},
	}
	for _, c := range cases {
		t.Run(c.filter, func(t *testing.T) {
			_, err := compiler.Compile(scheme, c.filter)
			assert.EqualError(t, err, c.errstr, "filter: %q", c.filter)
		})
	}
}

func TestFilterFields(t *testing.T) {
	scheme := testScheme(t)
	f, err := compiler.Compile(scheme, `port == 443 and (proto == "https" or port == 80)`)
	require.NoError(t, err)
	var names []string
	for _, field := range f.Fields() {
		names = append(names, field.Name())
	}
	assert.Equal(t, []string{"port", "proto"}, names)
}

func TestFilterUnsetFieldPanics(t *testing.T) {
	scheme := testScheme(t)
	f, err := compiler.Compile(scheme, `port == 443`)
	require.NoError(t, err)
	ectx := sieve.NewContext(scheme)
	assert.PanicsWithValue(t,
		`sieve: field "port" was registered but not given a value`,
		func() { f.Eval(ectx) })
}

func TestFilterCrossSchemeContextPanics(t *testing.T) {
	scheme := testScheme(t)
	other := sieve.MustNewScheme(sieve.Column{Name: "port", Type: sieve.TypeInt})
	f, err := compiler.Compile(scheme, `port == 443`)
	require.NoError(t, err)
	ectx := sieve.NewContext(other)
	require.NoError(t, ectx.SetFieldValue("port", sieve.NewInt(443)))
	assert.Panics(t, func() { f.Eval(ectx) })
}
