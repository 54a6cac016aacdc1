package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler"
	"github.com/sievedata/sieve/schemecfg"
)

const replHelp = `commands:
  <filter>             compile the filter and report the fields it uses
  \set <field> <value> bind a value to a field
  \eval <filter>       evaluate a filter against the bound values
  \fields              list scheme fields and current bindings
  \quit                exit
`

type repl struct {
	scheme *sieve.Scheme
	ectx   *sieve.ExecutionContext
	bound  map[string]bool
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	schemePath := fs.String("s", "", "path to scheme YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemePath == "" {
		return errors.New("repl requires -s <scheme>")
	}
	scheme, err := schemecfg.Load(*schemePath)
	if err != nil {
		return err
	}
	r := &repl{
		scheme: scheme,
		ectx:   sieve.NewContext(scheme),
		bound:  make(map[string]bool),
	}
	l := liner.NewLiner()
	defer l.Close()
	l.SetMultiLineMode(true)
	for {
		line, err := l.Prompt("sieve> ")
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l.AppendHistory(line)
		if r.consume(line) {
			return nil
		}
	}
}

// consume handles one line and reports whether the REPL should exit.
func (r *repl) consume(line string) bool {
	switch {
	case line == `\quit` || line == `\q`:
		return true
	case line == `\help`:
		fmt.Print(replHelp)
	case line == `\fields`:
		r.printFields()
	case strings.HasPrefix(line, `\set `):
		r.set(strings.TrimPrefix(line, `\set `))
	case strings.HasPrefix(line, `\eval `):
		r.eval(strings.TrimPrefix(line, `\eval `))
	case strings.HasPrefix(line, `\`):
		fmt.Printf("unknown command %q; try \\help\n", line)
	default:
		r.check(line)
	}
	return false
}

func (r *repl) check(src string) {
	f, err := compiler.Compile(r.scheme, src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	var names []string
	for _, field := range f.Fields() {
		names = append(names, field.Name())
	}
	fmt.Printf("ok: uses %s\n", strings.Join(names, ", "))
}

func (r *repl) set(arg string) {
	name, text, ok := strings.Cut(strings.TrimSpace(arg), " ")
	if !ok {
		fmt.Println(`usage: \set <field> <value>`)
		return
	}
	field, err := r.scheme.LookupField(name)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	val, err := sieve.ParseValue(field.Type(), strings.TrimSpace(text))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := r.ectx.SetFieldValue(name, val); err != nil {
		fmt.Println("error:", err)
		return
	}
	r.bound[name] = true
	fmt.Printf("%s = %s\n", name, val)
}

func (r *repl) eval(src string) {
	f, err := compiler.Compile(r.scheme, src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, field := range f.Fields() {
		if !r.bound[field.Name()] {
			fmt.Printf("error: field %q has no value; bind it with \\set first\n", field.Name())
			return
		}
	}
	match, err := f.Eval(r.ectx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(match)
}

func (r *repl) printFields() {
	for _, c := range r.scheme.Columns() {
		line := fmt.Sprintf("  %s: %s", c.Name, c.Type)
		if r.bound[c.Name] {
			field, _ := r.scheme.LookupField(c.Name)
			line += " = " + r.ectx.FieldValue(field).String()
		}
		fmt.Println(line)
	}
}
