package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
)

type still struct {
	primes, steps int
	failAt        int
}

func (s *still) Prime(p *dynamo.Particles) (force.Result, error) {
	s.primes++
	return force.Result{Energy: -1, Method: force.MethodCellList}, nil
}

func (s *still) Step(p *dynamo.Particles, dt float64) (force.Result, error) {
	s.steps++
	if s.steps == s.failAt {
		return force.Result{}, dynamo.ErrCoincident
	}
	return force.Result{Energy: -1, Method: force.MethodCellList, Pairs: 3, Interactions: 1}, nil
}

func newTestModel(in *still, steps int) *Model {
	p := dynamo.NewParticles(2)
	p.SetPosition(0, 1, 1, 1)
	p.SetPosition(1, 5, 5, 5)
	p.Vel[0] = 1
	return NewModel(in, p, Config{Title: "test", Box: dynamo.Cube(10), Steps: steps, Dt: 0.1, StepsPerFrame: 4})
}

func tick(m *Model) tea.Cmd {
	_, cmd := m.Update(tickMsg(time.Now()))
	return cmd
}

func TestModelAdvances(t *testing.T) {
	in := &still{}
	m := newTestModel(in, 10)

	tick(m) // prime
	if in.primes != 1 || m.Step() != 0 {
		t.Fatalf("expected prime only, got primes=%d step=%d", in.primes, m.Step())
	}
	tick(m)
	tick(m)
	if m.Step() != 8 {
		t.Errorf("expected 8 steps, got %d", m.Step())
	}
	if cmd := tick(m); cmd == nil {
		t.Error("expected another tick before finishing")
	}
	if !m.Done() || m.Step() != 10 {
		t.Errorf("expected to finish at 10, got %d", m.Step())
	}
	if cmd := tick(m); cmd != nil {
		t.Error("finished model should stop ticking")
	}
	if in.steps != 10 {
		t.Errorf("integrator stepped %d times", in.steps)
	}
}

func TestModelKeys(t *testing.T) {
	in := &still{}
	m := newTestModel(in, 100)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if m.perFrame != 8 {
		t.Errorf("expected 8 steps per frame, got %d", m.perFrame)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.perFrame != 2 {
		t.Errorf("expected 2 steps per frame, got %d", m.perFrame)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	tick(m)
	if in.primes != 0 {
		t.Error("paused model should not advance")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show pause")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelStepError(t *testing.T) {
	m := newTestModel(&still{failAt: 3}, 10)
	tick(m)
	tick(m)

	if !errors.Is(m.Err(), dynamo.ErrCoincident) {
		t.Fatalf("expected ErrCoincident, got %v", m.Err())
	}
	if !m.Done() || m.Step() != 2 {
		t.Errorf("expected to stop after 2 steps, got %d", m.Step())
	}
	if !strings.Contains(m.View(), "FAILED") {
		t.Error("view should show failure")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(&still{}, 10)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	tick(m)
	tick(m)

	out := m.View()
	for _, want := range []string{"test", "RUNNING", "4/10", "cell-list", "1 / 3", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view misses %q", want)
		}
	}
}
