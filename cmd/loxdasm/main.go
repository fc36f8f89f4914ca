// Command loxdasm disassembles a Loxinas object file into a mnemonic
// listing on standard output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dr8co/loxinas/disasm"
	"github.com/dr8co/loxinas/objfile"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `loxdasm %s

USAGE:
    loxdasm <file>

DESCRIPTION:
    Decodes a Loxinas object file's code section into an address-annotated
    mnemonic listing on standard output.

OPTIONS:
    -v, --version   Show version information
    -h, --help      Show this help message
`, version)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements loxdasm's CLI contract (exit 0 success, 64 on a
// malformed file or a bad argument) and returns the exit code directly.
func run(args []string) int {
	fs := flag.NewFlagSet("loxdasm", flag.ContinueOnError)
	fs.Usage = printUsage
	showVersion := fs.Bool("version", false, "Show version information")
	fs.BoolVar(showVersion, "v", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return 64
	}

	if *showVersion {
		fmt.Printf("loxdasm %s\n", version)
		return 0
	}

	if fs.NArg() != 1 {
		printUsage()
		return 64
	}

	//nolint:gosec // the path comes straight from the command line
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxdasm: %s\n", err)
		return 64
	}

	file, err := objfile.Parse(data)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxdasm: %s\n", err)
		return 64
	}

	fmt.Print(disasm.Disassemble(file.Code))
	return 0
}
