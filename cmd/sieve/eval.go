package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler"
	"github.com/sievedata/sieve/schemecfg"
)

// errNoMatch distinguishes "filter evaluated to false" (exit 1) from real
// errors (exit 2).
var errNoMatch = errors.New("no match")

func evalCommand(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	schemePath := fs.String("s", "", "path to scheme YAML file")
	filterSrc := fs.String("f", "", "filter expression")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemePath == "" || *filterSrc == "" {
		return errors.New("eval requires -s <scheme> and -f <filter>")
	}
	scheme, err := schemecfg.Load(*schemePath)
	if err != nil {
		return err
	}
	f, err := compiler.Compile(scheme, *filterSrc)
	if err != nil {
		return err
	}
	ectx := sieve.NewContext(scheme)
	bound, err := bindArgs(ectx, scheme, fs.Args())
	if err != nil {
		return err
	}
	for _, field := range f.Fields() {
		if !bound[field.Name()] {
			return fmt.Errorf("filter references field %q but no value was given", field.Name())
		}
	}
	match, err := f.Eval(ectx)
	if err != nil {
		return err
	}
	if !match {
		fmt.Println("false")
		return errNoMatch
	}
	fmt.Println("true")
	return nil
}

// bindArgs binds name=value command line arguments, parsing each value as
// the named field's declared type.
func bindArgs(ectx *sieve.ExecutionContext, scheme *sieve.Scheme, args []string) (map[string]bool, error) {
	bound := make(map[string]bool, len(args))
	for _, arg := range args {
		name, text, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("bad binding %q, expected name=value", arg)
		}
		field, err := scheme.LookupField(name)
		if err != nil {
			return nil, err
		}
		val, err := sieve.ParseValue(field.Type(), text)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if err := ectx.SetFieldValue(name, val); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		bound[name] = true
	}
	return bound, nil
}
