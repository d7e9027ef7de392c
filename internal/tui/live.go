// Package tui runs a simulation inside a bubbletea program and draws it
// as it goes.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mdforce/internal/dynamo"
	"github.com/san-kum/mdforce/internal/force"
	"github.com/san-kum/mdforce/internal/metrics"
	"github.com/san-kum/mdforce/internal/sim"
	"github.com/san-kum/mdforce/internal/viz"
)

const (
	historyLen  = 120
	canvasW     = 40
	canvasH     = 16
	maxPerFrame = 1024
)

type Config struct {
	Title         string
	Box           dynamo.Box
	Steps         int
	Dt            float64
	KB            float64
	StepsPerFrame int
	FPS           int
}

type tickMsg time.Time

// Model advances the integrator a few steps per frame.
type Model struct {
	cfg        Config
	integrator sim.Integrator
	p          *dynamo.Particles

	step     int
	perFrame int
	paused   bool
	primed   bool
	err      error
	last     force.Result
	width    int

	energy []float64
	temp   []float64
	e0     float64
}

func NewModel(integrator sim.Integrator, p *dynamo.Particles, cfg Config) *Model {
	if cfg.StepsPerFrame <= 0 {
		cfg.StepsPerFrame = 1
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 20
	}
	if cfg.KB <= 0 {
		cfg.KB = 1
	}
	return &Model{
		cfg:        cfg,
		integrator: integrator,
		p:          p,
		perFrame:   cfg.StepsPerFrame,
		width:      80,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			if m.perFrame < maxPerFrame {
				m.perFrame *= 2
			}
		case "-", "_":
			if m.perFrame > 1 {
				m.perFrame /= 2
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.Done() {
			return m, nil
		}
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if !m.primed {
		res, err := m.integrator.Prime(m.p)
		if err != nil {
			m.err = err
			return
		}
		m.primed = true
		m.last = res
		m.e0 = m.sample(res)
		return
	}
	for k := 0; k < m.perFrame && m.step < m.cfg.Steps; k++ {
		res, err := m.integrator.Step(m.p, m.cfg.Dt)
		if err != nil {
			m.err = sim.SimError{Time: float64(m.step+1) * m.cfg.Dt, Step: m.step + 1, Message: "step failed", Err: err}
			return
		}
		m.step++
		m.last = res
	}
	m.sample(m.last)
}

func (m *Model) sample(res force.Result) float64 {
	ke := metrics.KineticEnergy(m.p)
	total := res.Energy + ke
	m.energy = appendBounded(m.energy, total)
	m.temp = appendBounded(m.temp, metrics.Temperature(ke, m.p.Len(), m.cfg.KB))
	return total
}

func appendBounded(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyLen {
		xs = xs[len(xs)-historyLen:]
	}
	return xs
}

// Done reports whether all steps ran or a step failed.
func (m *Model) Done() bool { return m.err != nil || m.step >= m.cfg.Steps }

func (m *Model) Err() error { return m.err }

func (m *Model) Step() int { return m.step }

func (m *Model) Particles() *dynamo.Particles { return m.p }

func (m *Model) View() string {
	var b strings.Builder

	status := viz.StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = viz.StatusFailed.Render("FAILED")
	case m.Done():
		status = viz.StatusRunning.Render("DONE")
	case m.paused:
		status = viz.StatusPaused.Render("PAUSED")
	}
	b.WriteString(viz.Title.Render(m.cfg.Title) + "  " + status + "\n\n")

	frac := 0.0
	if m.cfg.Steps > 0 {
		frac = float64(m.step) / float64(m.cfg.Steps)
	}
	fmt.Fprintf(&b, "%s %d/%d\n\n", viz.ProgressBar(frac, 40), m.step, m.cfg.Steps)

	c := viz.NewCanvas(canvasW, canvasH)
	c.Project(m.p, m.cfg.Box, 0, 1)
	b.WriteString(viz.Panel.Render(strings.TrimRight(c.String(), "\n")) + "\n")

	var drift float64
	if n := len(m.energy); n > 0 && m.e0 != 0 {
		drift = (m.energy[n-1] - m.e0) / m.e0
	}
	fields := []viz.Field{
		viz.F("time", "%.4f", float64(m.step)*m.cfg.Dt),
		viz.F("pairs", "%d / %d", m.last.Interactions, m.last.Pairs),
		viz.F("potential", "%.6g", m.last.Energy),
		viz.F("energy drift", "%.3e", drift),
		viz.F("steps/frame", "%d", m.perFrame),
	}
	b.WriteString(viz.Summary(m.last.Method.String(), fields) + "\n")

	sw := m.width - 20
	if sw > historyLen {
		sw = historyLen
	}
	if sw < 10 {
		sw = 10
	}
	b.WriteString(viz.MetricLabel.Render("total energy") + viz.SparklineChart(m.energy, sw) + "\n")
	b.WriteString(viz.MetricLabel.Render("temperature") + viz.SparklineChart(m.temp, sw) + "\n\n")

	if m.err != nil {
		b.WriteString(viz.StatusFailed.Render(m.err.Error()) + "\n")
	}
	b.WriteString(viz.KeyHint.Render("space pause  +/- speed  q quit"))
	return b.String()
}

// Run drives the model until the user quits and returns the final model.
func Run(m *Model) (*Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	return final.(*Model), nil
}
