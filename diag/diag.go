// Package diag defines the compile-time diagnostic kinds Loxinas tools
// collect and render: lexical, syntactic and semantic (compile) errors,
// each carrying the source position responsible for it.
//
// Diagnostics are never short-circuited: a pass that can find more than one
// error reports all of them before the pipeline gives up and skips later
// passes, per spec.md §7.
package diag

import (
	"fmt"
	"strings"

	"github.com/dr8co/loxinas/token"
)

// Kind distinguishes the three compile-time diagnostic categories.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Compile
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "Lexical Error"
	case Syntactic:
		return "Syntax Error"
	case Compile:
		return "Compile Error"
	default:
		return "Error"
	}
}

// Error is a single diagnostic: a kind, a message, and the source position
// it applies to.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func (e Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// New builds an Error of the given kind at pos.
func New(kind Kind, pos token.Position, format string, args ...any) Error {
	return Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of diagnostics accumulated over a single
// compiler pass.
type List []Error

func (l List) HasErrors() bool { return len(l) > 0 }

// Render formats every diagnostic in l against the original source lines,
// one line per line of source (no trailing newline stripped from lines).
// The format matches the single-line / multi-line caret-range convention:
// same-line errors get one underlined source line; cross-line errors print
// the first and last source lines (with an ellipsis in between when more
// than one line separates them).
func (l List) Render(lines []string) string {
	var b strings.Builder
	for _, e := range l {
		b.WriteString(renderOne(lines, e))
	}
	return b.String()
}

func renderOne(lines []string, e Error) string {
	var b strings.Builder
	pos := e.Pos

	if pos.StartLine == pos.EndLine {
		fmt.Fprintf(&b, "%s: line %d at %d-%d: %s\n", e.Kind, pos.StartLine, pos.StartCol+1, pos.EndCol, e.Msg)
	} else {
		fmt.Fprintf(&b, "%s: from (line %d at %d) to (line %d at %d): %s\n",
			e.Kind, pos.StartLine, pos.StartCol+1, pos.EndLine, pos.EndCol+1, e.Msg)
	}

	if pos.StartLine-1 < 0 || pos.StartLine-1 >= len(lines) {
		return b.String()
	}
	first := lines[pos.StartLine-1]
	fmt.Fprintf(&b, "  |> %s\n     ", first)

	endCol := pos.EndCol
	if pos.StartLine != pos.EndLine {
		endCol = len([]rune(first)) - 1
	}
	b.WriteString(strings.Repeat(" ", max(pos.StartCol, 0)))
	if endCol > pos.StartCol {
		b.WriteString(strings.Repeat("^", endCol-pos.StartCol))
	}
	b.WriteByte('\n')

	if pos.StartLine != pos.EndLine {
		if pos.EndLine-pos.StartLine > 1 {
			b.WriteString("  |> ...\n")
		}
		if pos.EndLine-1 < len(lines) {
			last := lines[pos.EndLine-1]
			fmt.Fprintf(&b, "  |> %s\n     ", last)
			b.WriteString(strings.Repeat("^", max(pos.EndCol, 0)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderRuntime formats a VM runtime error the way cmd/loxr prints it.
func RenderRuntime(err error) string {
	return fmt.Sprintf("Runtime Error: %s", err)
}
