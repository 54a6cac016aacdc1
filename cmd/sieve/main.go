// Command sieve compiles and evaluates schema-typed boolean filters.
//
//	sieve repl -s scheme.yaml
//	sieve eval -s scheme.yaml -f 'port == 443' port=443 proto=https
//	sieve serve -s scheme.yaml -l :9867
package main

import (
	"fmt"
	"os"
)

var version = "unknown"

const usage = `usage: sieve <command> [options]

commands:
  repl   interactive filter shell against a scheme
  eval   compile a filter and evaluate it against field values
  serve  run the filter engine as an HTTP service

Run "sieve <command> -h" for command options.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "repl":
		err = replCommand(os.Args[2:])
	case "eval":
		err = evalCommand(os.Args[2:])
	case "serve":
		err = serveCommand(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		if err == errNoMatch {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "sieve: %s\n", err)
		os.Exit(2)
	}
}
