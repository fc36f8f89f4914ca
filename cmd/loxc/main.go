// Command loxc compiles a Loxinas source file into an object file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dr8co/loxinas/globalcompiler"
	"github.com/dr8co/loxinas/lexer"
	"github.com/dr8co/loxinas/parser"
	"github.com/dr8co/loxinas/resolver"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `loxc %s

USAGE:
    loxc <source> [-o <output>]

DESCRIPTION:
    Compiles a Loxinas source file into a bytecode object file. Default
    output is the source's stem with a .loxc extension.

OPTIONS:
    -o <output>     Write the object file to <output>
    -v, --version   Show version information
    -h, --help      Show this help message
`, version)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements loxc's whole CLI contract and returns the process exit
// code directly (0 success, 64 compile failure, 1 bad argument) so tests
// can exercise it without calling os.Exit.
func run(args []string) int {
	fs := flag.NewFlagSet("loxc", flag.ContinueOnError)
	fs.Usage = printUsage
	output := fs.String("o", "", "Write the object file to <output>")
	showVersion := fs.Bool("version", false, "Show version information")
	fs.BoolVar(showVersion, "v", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Printf("loxc %s\n", version)
		return 0
	}

	if fs.NArg() != 1 {
		printUsage()
		return 1
	}
	source := fs.Arg(0)

	//nolint:gosec // the path comes straight from the command line
	content, err := os.ReadFile(source)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxc: %s\n", err)
		return 1
	}
	src := string(content)
	lines := strings.Split(src, "\n")

	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		_, _ = fmt.Fprint(os.Stderr, p.Errors().Render(lines))
		return 64
	}

	r := resolver.New()
	if errs := r.Resolve(prog); errs.HasErrors() {
		_, _ = fmt.Fprint(os.Stderr, errs.Render(lines))
		return 64
	}

	data, err := globalcompiler.New(prog).Compile()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Compile Error: %s\n", err)
		return 64
	}

	dest := *output
	if dest == "" {
		stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		dest = stem + ".loxc"
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxc: %s\n", err)
		return 1
	}
	return 0
}
