// Command sail is the entry point for the Sail interpreter.
//
// Usage:
//
//	sail              start an interactive REPL
//	sail <script>     interpret a script file
//
// With no arguments it starts the REPL; with one argument it interprets
// that file and exits 0 on success or non-zero if any error was reported;
// with more than one argument it prints a usage message and exits 64.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sail-lang/sail/interp"
	"github.com/sail-lang/sail/repl"
)

const version = "v0.1.0"

const line = "----------------------------------------------------------------"

const banner = `
   _____       _ _
  / ____|     (_) |
 | (___   __ _ _| |
  \___ \ / _` + "`" + ` | | |
  ____) | (_| | | |
 |_____/ \__,_|_|_|
`

const prompt = "> "

var redColor = color.New(color.FgRed)

func main() {
	switch len(os.Args) {
	case 1:
		repler := repl.NewRepl(banner, version, line, prompt)
		repler.Start(os.Stdin, os.Stdout)
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "usage: sail [script]")
		os.Exit(64)
	}
}

// runFile reads and interprets a single source file, returning the
// process exit code: 0 if it ran with no errors, 1 otherwise.
func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return 1
	}

	it := interp.New(os.Stdout)
	errs := interp.Run(it, string(source))
	for _, e := range errs {
		redColor.Fprintf(os.Stderr, "%s\n", e)
	}
	if len(errs) > 0 {
		return 1
	}
	return 0
}
