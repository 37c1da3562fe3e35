package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/integrators"
	"github.com/san-kum/floralyze/internal/physics"
	"github.com/san-kum/floralyze/internal/projection"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	stepsPerFrame   = 8
	viewExtent      = 5.0 // attractor stays within roughly +-5 in each axis
)

type TickMsg time.Time

// Model animates the projected Thomas attractor in the terminal.
type Model struct {
	sys        *physics.Thomas
	integrator *integrators.RK45
	state      dynamo.State
	initial    dynamo.State
	plane      projection.Plane
	rotation   projection.Rotation
	t, dt      float64
	canvas     *Canvas
	radiusHist []float64
	running    bool
	showHelp   bool
}

// NewModel initializes the live view for the given damping and projection.
func NewModel(b, dt float64, plane projection.Plane, rot projection.Rotation) Model {
	sys := physics.NewThomas(b)
	return Model{
		sys:        sys,
		integrator: integrators.NewRK45(),
		state:      sys.DefaultState(),
		initial:    sys.DefaultState(),
		plane:      plane,
		rotation:   rot,
		dt:         dt,
		canvas:     NewCanvas(width, height),
		radiusHist: make([]float64, 0, historyCapacity),
		running:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.adjustDamping(1.05)
		case "down", "j":
			m.adjustDamping(0.95)
		case "p":
			m.plane = (m.plane + 1) % 3
			m.canvas.Clear()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) adjustDamping(factor float64) {
	b := m.sys.Damping() * factor
	if b <= 0 {
		b = 1e-4
	}
	m.sys.SetParam("b", b)
}

func (m *Model) reset() {
	m.t = 0
	m.state = m.initial.Clone()
	m.radiusHist = m.radiusHist[:0]
	m.canvas.Clear()
}

// step advances the attractor a few substeps per frame and plots the
// projected point. The trail accumulates on the canvas, so the petal
// structure fills in over time.
func (m *Model) step() {
	for i := 0; i < stepsPerFrame; i++ {
		m.state = m.integrator.Step(m.sys, m.state, m.t, m.dt)
		m.t += m.dt

		sample := projection.Polar([]dynamo.State{m.state}, m.plane, m.rotation)[0]
		u := sample.Radius * math.Cos(sample.Angle)
		v := sample.Radius * math.Sin(sample.Angle)

		px := int((u/viewExtent + 1) / 2 * float64(width*2-1))
		py := int((1 - (v/viewExtent+1)/2) * float64(height*4-1))
		m.canvas.Set(px, py)

		m.radiusHist = append(m.radiusHist, sample.Radius)
		if len(m.radiusHist) > historyCapacity {
			m.radiusHist = m.radiusHist[1:]
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("THOMAS ATTRACTOR") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.radiusHist) > 1 {
		chart := asciigraph.Plot(m.radiusHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Radius"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Damping b") + valueStyle.Render(fmt.Sprintf("%.4f", m.sys.Damping())) + "\n")
	s.WriteString(labelStyle.Render("Plane") + valueStyle.Render(m.plane.String()) + "\n")
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nP:Plane ↑↓:Damping ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset trajectory         ║
║  Q        - Quit                     ║
║  P        - Cycle projection plane   ║
║  Up/K     - Increase damping (+5%)   ║
║  Down/J   - Decrease damping (-5%)   ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
