package diag

import (
	"strings"
	"testing"

	"github.com/dr8co/loxinas/token"
)

func TestRenderSingleLine(t *testing.T) {
	lines := []string{"let x: int = 5"}
	list := List{New(Compile, token.Position{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 5}, "unknown type %q", "int")}
	out := list.Render(lines)
	if !strings.Contains(out, "Compile Error: line 1 at 5-5:") {
		t.Fatalf("unexpected render: %q", out)
	}
	if !strings.Contains(out, "let x: int = 5") {
		t.Fatalf("expected source line echoed, got %q", out)
	}
}

func TestRenderMultiLineEllipsis(t *testing.T) {
	lines := []string{"func main() {", "let x;", "let y;", "}"}
	list := List{New(Syntactic, token.Position{StartLine: 1, StartCol: 0, EndLine: 4, EndCol: 1}, "unterminated block")}
	out := list.Render(lines)
	if !strings.Contains(out, "  |> ...\n") {
		t.Fatalf("expected ellipsis between far-apart lines, got %q", out)
	}
}

func TestHasErrors(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Fatalf("empty list should report no errors")
	}
	l = append(l, New(Lexical, token.Position{}, "bad"))
	if !l.HasErrors() {
		t.Fatalf("non-empty list should report errors")
	}
}
