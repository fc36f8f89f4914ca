// Command loxhelp forwards a --help request to one of the Loxinas
// toolchain's other executables by name.
package main

import (
	"fmt"
	"os"
	"os/exec"
)

var subcommands = map[string]string{
	"compile":     "loxc",
	"disassemble": "loxdasm",
	"run":         "loxr",
}

func printUsage() {
	_, _ = fmt.Fprintln(os.Stderr, `loxhelp <compile|disassemble|run>

Forwards --help to the named Loxinas tool:
    compile        loxc --help
    disassemble    loxdasm --help
    run            loxr --help`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run resolves args[0] to one of loxc/loxdasm/loxr and execs it with
// --help, returning the exit code that Go process produced (1 on a bad
// argument, matching the rest of the toolchain's "bad CLI" convention).
func run(args []string) int {
	if len(args) != 1 {
		printUsage()
		return 1
	}

	tool, ok := subcommands[args[0]]
	if !ok {
		printUsage()
		return 1
	}

	path, err := exec.LookPath(tool)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loxhelp: %s: %s\n", tool, err)
		return 1
	}

	//nolint:gosec // tool is resolved from a fixed, hardcoded map above
	cmd := exec.Command(path, "--help")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}
