// Command loxr runs a compiled Loxinas object file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dr8co/loxinas/debugtui"
	"github.com/dr8co/loxinas/diag"
	"github.com/dr8co/loxinas/objfile"
	"github.com/dr8co/loxinas/vm"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `loxr %s

USAGE:
    loxr <byte-code-file> [-i]

DESCRIPTION:
    Loads and runs a Loxinas object file's main function to completion.

OPTIONS:
    -i              Launch the interactive instruction-stepping debugger
                    instead of free-running
    -v, --version   Show version information
    -h, --help      Show this help message
`, version)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements loxr's CLI contract (exit 0 success, 70 runtime failure,
// 1 bad argument or missing main) and returns the exit code directly.
func run(args []string) int {
	fs := flag.NewFlagSet("loxr", flag.ContinueOnError)
	fs.Usage = printUsage
	interactive := fs.Bool("i", false, "Launch the interactive instruction-stepping debugger")
	showVersion := fs.Bool("version", false, "Show version information")
	fs.BoolVar(showVersion, "v", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Printf("loxr %s\n", version)
		return 0
	}

	if fs.NArg() != 1 {
		printUsage()
		return 1
	}

	//nolint:gosec // the path comes straight from the command line
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxr: %s\n", err)
		return 1
	}

	file, err := objfile.Parse(data)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxr: %s\n", err)
		return 1
	}

	machine, err := vm.New(file, os.Stdout)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxr: %s\n", err)
		return 1
	}

	if *interactive {
		if err := debugtui.Start(machine, debugtui.Options{}); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "loxr: %s\n", err)
			return 1
		}
		return 0
	}

	if err := machine.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, diag.RenderRuntime(err))
		return 70
	}
	return 0
}
