// Package debugtui implements an interactive bytecode-stepping debugger
// for the `loxr -i` flag: one screen showing the instruction the VM is
// about to execute, the live operand stack, and the call depth, advanced
// one Step (or run-to-completion) at a time.
//
// It reuses the REPL's bubbletea/bubbles/lipgloss structure (a single
// Model/Update/View loop driving a terminal program), repurposed from a
// line-editing read-eval-print loop to a read-only instruction browser:
// there's no textinput.Model here, since nothing is typed in, just
// key.Binding-driven stepping.
package debugtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr8co/loxinas/code"
	"github.com/dr8co/loxinas/disasm"
	"github.com/dr8co/loxinas/vm"
)

// Options configures the debugger's display.
type Options struct {
	NoColor bool // Disable styled output
}

// Styling, carried over from the REPL's palette.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	instrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C")).
			Bold(true)

	stackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// keyMap binds the debugger's single-key commands.
type keyMap struct {
	Step     key.Binding
	Continue key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Step:     key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s/enter", "step")),
	Continue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// machine is the subset of *vm.VM the model drives. Matching vm.VM's
// exported surface with an interface keeps the model testable without a
// real object file.
type machine interface {
	Step() (bool, error)
	IP() int
	Code() code.Instructions
	CallDepth() int
	FrameStart() int
	StackBytes() []byte
}

// model is the debugger's bubbletea state.
type model struct {
	m       machine
	options Options

	halted bool
	err    error
	steps  int
}

// Start runs the interactive debugger over file's loaded VM until it
// halts, errors, or the user quits. It blocks until the bubbletea program
// exits.
func Start(v *vm.VM, options Options) error {
	p := tea.NewProgram(initialModel(v, options))
	_, err := p.Run()
	return err
}

func initialModel(m machine, options Options) model {
	return model{m: m, options: options}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Step):
		if m.halted || m.err != nil {
			return m, nil
		}
		halted, err := m.m.Step()
		m.steps++
		m.halted = halted
		m.err = err
		return m, nil

	case key.Matches(keyMsg, keys.Continue):
		if m.halted || m.err != nil {
			return m, nil
		}
		for {
			halted, err := m.m.Step()
			m.steps++
			if err != nil {
				m.err = err
				break
			}
			if halted {
				m.halted = true
				break
			}
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " Loxinas bytecode debugger "))
	s.WriteString("\n\n")

	fmt.Fprintf(&s, "step %d   call depth %d   frame start %d\n\n", m.steps, m.m.CallDepth(), m.m.FrameStart())

	switch {
	case m.err != nil:
		s.WriteString(m.applyStyle(errorStyle, m.err.Error()))
		s.WriteString("\n\n")
	case m.halted:
		s.WriteString(m.applyStyle(doneStyle, "program halted"))
		s.WriteString("\n\n")
	default:
		line, _, derr := disasm.DisassembleAt(m.m.Code(), m.m.IP())
		if derr != nil {
			line = derr.Error()
		}
		fmt.Fprintf(&s, "%08x  %s\n\n", m.m.IP(), m.applyStyle(instrStyle, line))
	}

	s.WriteString(m.applyStyle(stackStyle, formatStack(m.m.StackBytes())))
	s.WriteString("\n\n")

	help := "s/enter: step   c: continue   q: quit"
	s.WriteString(m.applyStyle(helpStyle, help))

	return s.String()
}

// formatStack renders the operand stack as a byte-per-cell hex dump, top
// (most recently pushed) last, matching the little-endian layout the VM
// itself uses.
func formatStack(stack []byte) string {
	if len(stack) == 0 {
		return "stack: (empty)"
	}
	var b strings.Builder
	b.WriteString("stack:")
	for i, by := range stack {
		if i%16 == 0 {
			b.WriteString("\n  ")
		}
		fmt.Fprintf(&b, "%02x ", by)
	}
	return b.String()
}
