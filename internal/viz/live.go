package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/axonsim/internal/axon"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 48
	historyCapacity = 600
	frameRate       = time.Second / 30
)

// Projection selects how the filaments are drawn.
type Projection int

const (
	Side Projection = iota
	Top
	Orbit
)

func (p Projection) String() string {
	switch p {
	case Side:
		return "side"
	case Top:
		return "section"
	case Orbit:
		return "orbit"
	}
	return "unknown"
}

// Builder creates a fresh axon. It is called on start and on every reset.
type Builder func() (*axon.Axon, error)

type TickMsg time.Time

// Model steps an axon on every tick and draws it with the stats panel.
type Model struct {
	name          string
	build         Builder
	ax            *axon.Axon
	steps         int
	maxSteps      int
	perTick       int
	width, height int
	canvas        *Canvas
	camera        *Camera
	projection    Projection
	running       bool
	theme         Theme
	st            styles
	links         []float64
	acceptance    []float64
	showHelp      bool
	err           error
}

// NewModel builds the first axon. maxSteps <= 0 runs until quit.
func NewModel(name string, build Builder, maxSteps int) (Model, error) {
	ax, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		name:       name,
		build:      build,
		ax:         ax,
		maxSteps:   maxSteps,
		perTick:    1,
		width:      width,
		height:     height,
		canvas:     NewCanvas(width-panelWidth, height-4),
		camera:     NewCamera(),
		running:    true,
		theme:      Themes[0],
		st:         newStyles(Themes[0]),
		links:      make([]float64, 0, historyCapacity),
		acceptance: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Axon() *axon.Axon       { return m.ax }
func (m Model) Steps() int             { return m.steps }
func (m Model) Running() bool          { return m.running }
func (m Model) Projection() Projection { return m.projection }
func (m Model) Theme() Theme           { return m.theme }
func (m Model) LinkHistory() []float64 { return m.links }
func (m Model) Canvas() *Canvas        { return m.canvas }
func (m Model) Err() error             { return m.err }

// WithTheme returns m drawn with the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.st = newStyles(m.theme)
	return m
}

// Done reports whether the step limit has been reached.
func (m Model) Done() bool { return m.maxSteps > 0 && m.steps >= m.maxSteps }

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas = NewCanvas(max(w-panelWidth, 10), max(h-4, 4))
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
		case ".":
			if !m.running && !m.Done() {
				m.step()
			}
		case "r":
			m.reset()
		case "v":
			m.projection = (m.projection + 1) % 3
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.st = newStyles(m.theme)
		case "]":
			m.perTick = min(m.perTick*2, 64)
		case "[":
			m.perTick = max(m.perTick/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.perTick && !m.Done(); i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the axon one step and records the panel history.
func (m *Model) step() {
	m.ax.Step()
	m.steps++
	m.links = appendCapped(m.links, float64(m.ax.CountLinks()))
	m.acceptance = appendCapped(m.acceptance, m.ax.Stats().AcceptanceRate())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func last(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

// reset rebuilds the axon from the builder and clears the history.
func (m *Model) reset() {
	ax, err := m.build()
	if err != nil {
		m.err, m.running = err, false
		return
	}
	m.ax, m.err, m.steps = ax, nil, 0
	m.links = m.links[:0]
	m.acceptance = m.acceptance[:0]
}

// draw renders the current projection onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	switch m.projection {
	case Side:
		DrawSide(m.canvas, m.ax)
	case Top:
		DrawSection(m.canvas, m.ax, m.sectionHeight())
	case Orbit:
		Render3D(m.canvas, AxonWireframe(m.ax, 3), m.camera)
	}
}

// DrawSide projects the filaments onto the x-z plane, between the walls
// and up to the highest node.
func DrawSide(c *Canvas, a *axon.Axon) {
	r := a.Params().Radius
	top := Extent(a)
	vp := Viewport{U0: -r, U1: r, V0: 0, V1: top}
	c.Segment(vp, -r, 0, -r, top)
	c.Segment(vp, r, 0, r, top)
	for _, f := range a.Filaments() {
		if f.Len() == 1 {
			c.Plot(vp, f.Point(0).X, f.Point(0).Z)
		}
		for i := 1; i < f.Len(); i++ {
			p, q := f.Point(i-1), f.Point(i)
			c.Segment(vp, p.X, p.Z, q.X, q.Z)
		}
	}
}

// DrawSection plots the wall circle and the filament crossings at height z.
func DrawSection(c *Canvas, a *axon.Axon, z float64) {
	r := a.Params().Radius
	vp := Viewport{U0: -r, U1: r, V0: -r, V1: r}
	const sides = 64
	for s := 0; s < sides; s++ {
		a0 := 2 * math.Pi * float64(s) / sides
		a1 := 2 * math.Pi * float64(s+1) / sides
		c.Segment(vp, r*math.Cos(a0), r*math.Sin(a0), r*math.Cos(a1), r*math.Sin(a1))
	}
	for _, p := range a.CrossSection(z) {
		c.Plot(vp, p.X, p.Y)
	}
}

// sectionHeight is the height shown by the section projection: halfway up
// the shortest filament, so every filament crosses it.
func (m Model) sectionHeight() float64 {
	h := math.Inf(1)
	for _, f := range m.ax.Filaments() {
		h = math.Min(h, f.Tip().Z)
	}
	if math.IsInf(h, 1) {
		return 0
	}
	return h / 2
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.st
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	status := st.running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.failed.Render("ERROR " + m.err.Error())
	case m.Done():
		status = st.paused.Render("DONE")
	case !m.running:
		status = st.paused.Render("PAUSED")
	}
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(fmt.Sprintf("%s  %s x%d\n\n", status, st.muted.Render(m.projection.String()), m.perTick))

	if len(m.links) > 1 {
		chart := asciigraph.Plot(m.links, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Links"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	stats := m.ax.Stats()
	nf, capF := m.ax.NumFilaments(), m.ax.Params().MaxFilaments
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.steps))
	row("Filaments", fmt.Sprintf("%d/%d", nf, capF))
	s.WriteString(st.label.Render("") + st.progressBar(float64(nf)/float64(capF), 20) + "\n")
	row("Nodes", fmt.Sprintf("%d", m.ax.TotalNodes()))
	row("Links", fmt.Sprintf("%.0f", last(m.links)))
	row("Formed", fmt.Sprintf("%d", stats.LinksFormed))
	row("Broken", fmt.Sprintf("%d", stats.LinksBroken))
	row("Accept", fmt.Sprintf("%.3f", last(m.acceptance)))
	s.WriteString(st.label.Render("") + st.sparkline(m.acceptance, 20) + "\n")
	if m.projection == Top {
		row("Section z", fmt.Sprintf("%.3f", m.sectionHeight()))
	}
	s.WriteString(st.muted.Render("\nspace:pause .:step r:reset v:view\nt:theme [ ]:speed ?:help q:quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return st.panel.Render(help) + "\n\n" + mainView
	}
	return mainView
}

const help = `Space    pause or resume
.        single step while paused
R        rebuild the axon
V        cycle side, section and orbit views
T        cycle themes
[ ]      halve or double steps per frame
x/X y/Y  rotate the orbit camera
+ -      zoom the orbit camera
Q        quit`

// Run opens the live view for a single axon.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
