package debugtui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dr8co/loxinas/code"
)

// fakeMachine is a minimal machine used to drive model.Update/View without a
// real VM or terminal.
type fakeMachine struct {
	ins        code.Instructions
	ip         int
	stack      []byte
	callDepth  int
	frameStart int
	stepErr    error
	haltAfter  int // Step reports halted once this many steps have run
	stepsRun   int
}

func (f *fakeMachine) Step() (bool, error) {
	if f.stepErr != nil {
		return false, f.stepErr
	}
	f.stepsRun++
	if f.stepsRun >= f.haltAfter {
		return true, nil
	}
	return false, nil
}

func (f *fakeMachine) IP() int                 { return f.ip }
func (f *fakeMachine) Code() code.Instructions { return f.ins }
func (f *fakeMachine) CallDepth() int          { return f.callDepth }
func (f *fakeMachine) FrameStart() int         { return f.frameStart }
func (f *fakeMachine) StackBytes() []byte      { return f.stack }

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelStepAdvancesAndRenders(t *testing.T) {
	ins := code.Make(code.OpPushByte, 1)
	f := &fakeMachine{ins: ins, haltAfter: 100}
	m := initialModel(f, Options{NoColor: true})

	next, _ := m.Update(keyMsg('s'))
	m = next.(model)

	if f.stepsRun != 1 {
		t.Fatalf("expected Step to run once, ran %d times", f.stepsRun)
	}
	view := m.View()
	if !strings.Contains(view, "step 1") {
		t.Errorf("expected view to show step count, got: %s", view)
	}
	if !strings.Contains(view, "PushByte") {
		t.Errorf("expected view to show the disassembled instruction, got: %s", view)
	}
}

func TestModelContinueRunsUntilHalted(t *testing.T) {
	f := &fakeMachine{ins: code.Make(code.OpReturnUnit), haltAfter: 5}
	m := initialModel(f, Options{NoColor: true})

	next, _ := m.Update(keyMsg('c'))
	m = next.(model)

	if !m.halted {
		t.Fatalf("expected model to be halted after continue")
	}
	if f.stepsRun != 5 {
		t.Errorf("expected 5 steps to run, got %d", f.stepsRun)
	}
	if !strings.Contains(m.View(), "halted") {
		t.Errorf("expected view to report the halted state")
	}
}

func TestModelStepSurfacesRuntimeError(t *testing.T) {
	f := &fakeMachine{ins: code.Make(code.OpReturnUnit), stepErr: errors.New("runtime error: division by zero")}
	m := initialModel(f, Options{NoColor: true})

	next, _ := m.Update(keyMsg('s'))
	m = next.(model)

	if m.err == nil {
		t.Fatalf("expected the model to record the step error")
	}
	if !strings.Contains(m.View(), "division by zero") {
		t.Errorf("expected view to surface the error, got: %s", m.View())
	}
}

func TestModelIgnoresStepAfterHalt(t *testing.T) {
	f := &fakeMachine{ins: code.Make(code.OpReturnUnit), haltAfter: 1}
	m := initialModel(f, Options{NoColor: true})

	next, _ := m.Update(keyMsg('s'))
	m = next.(model)
	if !m.halted {
		t.Fatalf("expected halt after first step")
	}

	next, _ = m.Update(keyMsg('s'))
	m = next.(model)
	if f.stepsRun != 1 {
		t.Errorf("expected Step not to run again once halted, ran %d times total", f.stepsRun)
	}
}

func TestModelQuitReturnsQuitCmd(t *testing.T) {
	f := &fakeMachine{ins: code.Make(code.OpReturnUnit), haltAfter: 100}
	m := initialModel(f, Options{NoColor: true})

	_, cmd := m.Update(keyMsg('q'))
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
}
