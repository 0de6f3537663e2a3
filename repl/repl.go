// Package repl implements the Read-Eval-Print Loop for Sail.
//
// The REPL provides an interactive environment where users can enter Sail
// code line by line, see immediate results, navigate command history with
// the arrow keys, and get colored feedback for errors versus ordinary
// output. It uses the readline library for line editing and drives a
// single, shared interp.Interpreter so that bindings made on one line are
// still visible on the next.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sail-lang/sail/interp"
)

// Color definitions for REPL output. These provide visual feedback to
// enhance user experience:
// - blueColor: decorative lines and separators
// - greenColor: banner text
// - yellowColor: version/info line
// - cyanColor: informational messages and instructions
// - redColor: error messages
var (
	blueColor   = color.New(color.FgBlue)
	greenColor  = color.New(color.FgGreen)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
	redColor    = color.New(color.FgRed)
)

// Repl represents the Read-Eval-Print Loop instance. It encapsulates the
// configuration needed to run an interactive session.
type Repl struct {
	Banner  string // ASCII art banner displayed at startup
	Version string // Version string of the interpreter
	Line    string // Separator line for visual formatting
	Prompt  string // Command prompt shown to the user, e.g. "> "
}

// NewRepl creates and initializes a new REPL instance.
func NewRepl(banner, version, line, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Line: line, Prompt: prompt}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Sail!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type 'exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the REPL main loop: print the banner, construct one
// interpreter for the whole session, then read-eval-print lines until the
// user types "exit" or input ends.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	it := interp.New(writer)

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}

		if line == "exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)

		r.executeWithRecovery(writer, line, it)
	}
}

// executeWithRecovery runs one line against it, recovering from any
// panic so a single bad line can't bring down the session, and printing
// every compile or runtime error in red before returning to the prompt.
func (r *Repl) executeWithRecovery(writer io.Writer, line string, it *interp.Interpreter) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[runtime panic] %v\n", recovered)
		}
	}()

	for _, err := range interp.Run(it, line) {
		redColor.Fprintf(writer, "%s\n", err)
	}
}
