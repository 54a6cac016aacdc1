package schemecfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/schemecfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodScheme = `
fields:
  - name: ip.src
    type: ip
  - name: port
    type: int
  - name: tls
    type: bool
`

func TestParse(t *testing.T) {
	scheme, err := schemecfg.Parse([]byte(goodScheme))
	require.NoError(t, err)
	require.Equal(t, 3, scheme.FieldCount())
	field, err := scheme.LookupField("ip.src")
	require.NoError(t, err)
	assert.Same(t, sieve.TypeIP, field.Type())
}

func TestParseReportsAllFieldErrors(t *testing.T) {
	_, err := schemecfg.Parse([]byte(`
fields:
  - name: a
    type: intt
  - type: int
  - name: c
    type: wat
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "a": no such type: "intt"`)
	assert.Contains(t, err.Error(), "field 1: missing name")
	assert.Contains(t, err.Error(), `field "c": no such type: "wat"`)
}

func TestParseEmpty(t *testing.T) {
	_, err := schemecfg.Parse([]byte("fields: []"))
	assert.EqualError(t, err, "scheme has no fields")
}

func TestParseDuplicate(t *testing.T) {
	_, err := schemecfg.Parse([]byte(`
fields:
  - name: a
    type: int
  - name: a
    type: int
`))
	assert.EqualError(t, err, `duplicate field name "a"`)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(goodScheme), 0644))
	scheme, err := schemecfg.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, scheme.FieldCount())

	_, err = schemecfg.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
