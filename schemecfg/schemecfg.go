// Package schemecfg loads scheme definitions from YAML files of the form:
//
//	fields:
//	  - name: ip.src
//	    type: ip
//	  - name: port
//	    type: int
package schemecfg

import (
	"fmt"
	"os"

	"github.com/sievedata/sieve"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type fieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type schemeDef struct {
	Fields []fieldDef `yaml:"fields"`
}

// Load reads a scheme definition file.
func Load(path string) (*sieve.Scheme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scheme, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scheme, nil
}

// Parse builds a scheme from YAML bytes.  All per-field problems are
// reported together rather than one at a time.
func Parse(b []byte) (*sieve.Scheme, error) {
	var def schemeDef
	if err := yaml.Unmarshal(b, &def); err != nil {
		return nil, err
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("scheme has no fields")
	}
	var columns []sieve.Column
	var merr error
	for i, f := range def.Fields {
		if f.Name == "" {
			merr = multierr.Append(merr, fmt.Errorf("field %d: missing name", i))
			continue
		}
		typ, err := sieve.LookupType(f.Type)
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("field %q: %w", f.Name, err))
			continue
		}
		columns = append(columns, sieve.Column{Name: f.Name, Type: typ})
	}
	if merr != nil {
		return nil, merr
	}
	return sieve.NewScheme(columns...)
}
