// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-timing/internal/logging"
	"github.com/litescript/ls-timing/internal/plot"
	"github.com/litescript/ls-timing/internal/timing"
	"github.com/litescript/ls-timing/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDiagram ViewMode = iota
	ViewSummary
)

// Header and footer take this many lines around the content.
const chromeHeight = 4

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	cache *DiagramCache
	log   *logging.Logger

	// Parameters
	initial Params
	params  Params

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string

	diagram *timing.Diagram
	err     error
	canvas  *plot.Canvas
}

// New creates a new root UI model showing the diagram for p.
func New(p Params, log *logging.Logger) (Model, error) {
	cache, err := NewDiagramCache(diagramCacheSize, diagramCacheBudget)
	if err != nil {
		return Model{}, err
	}
	if log == nil {
		log = logging.Discard()
	}
	m := Model{
		cache:   cache,
		log:     log.With("ui"),
		initial: p,
		params:  p,
		canvas:  plot.NewCanvas(0, 0),
	}
	m.refresh()
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.canvas.SetSize(msg.Width, msg.Height-chromeHeight)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.viewMode = (m.viewMode + 1) % 2

	case "left", "h":
		m.pan(-1)
	case "right", "l":
		m.pan(1)

	case "+", "=":
		m.params = m.params.AdjustDuty(dutyStep)
		m.refresh()
	case "-", "_":
		m.params = m.params.AdjustDuty(-dutyStep)
		m.refresh()

	case "]":
		m.adjustHeight(heightStep)
	case "[":
		m.adjustHeight(-heightStep)

	case "r":
		m.params = m.initial
		m.statusMsg = "Reset to initial parameters"
		m.refresh()
	}
	return m, nil
}

func (m *Model) pan(steps int) {
	p, ok := m.params.Pan(steps)
	if !ok {
		m.statusMsg = "PRF window already at lower limit"
		return
	}
	m.params = p
	m.refresh()
}

func (m *Model) adjustHeight(delta float64) {
	p, ok := m.params.AdjustHeight(delta)
	if !ok {
		m.statusMsg = fmt.Sprintf("Height cannot go below %.0f km", minHeight/1e3)
		return
	}
	m.params = p
	m.refresh()
}

// refresh loads the diagram for the current parameters. On error the last
// good diagram stays on screen.
func (m *Model) refresh() {
	d, err := m.cache.Get(m.params)
	if err != nil {
		m.log.Warn("build diagram (%s): %v", m.params, err)
		m.err = err
		return
	}
	m.err = nil
	m.diagram = d

	hits, misses := m.cache.Stats()
	m.log.Debug("diagram %s (cache %d/%d hits, %d entries, %.1f MB)",
		m.params, hits, hits+misses, m.cache.Len(), float64(m.cache.Bytes())/(1<<20))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDiagram:
		content = m.renderDiagram()
	case ViewSummary:
		content = m.renderSummary()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderDiagram() string {
	if m.diagram == nil {
		return dimStyle.Render("  No diagram")
	}
	m.canvas.Reset()
	if err := m.diagram.Draw(m.canvas); err != nil {
		return errorStyle.Render("  " + err.Error())
	}
	return m.canvas.Render()
}

func (m Model) renderSummary() string {
	if m.diagram == nil {
		return dimStyle.Render("  No diagram")
	}
	var b strings.Builder
	timing.WriteSummaryTable(&b, m.diagram)

	// Keep the table inside the content area.
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if limit := m.height - chromeHeight; limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("  ls-timing v%s", version.Version))
	tabs := []string{"Diagram", "Summary"}
	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, accentStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return title + "  " + strings.Join(parts, "  ") + "\n  " + dimStyle.Render(m.params.String())
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render("ERROR: " + m.err.Error())
	case m.statusMsg != "":
		status = dimStyle.Render(m.statusMsg)
	default:
		status = accentStyle.Render("●") + dimStyle.Render(fmt.Sprintf(" %d orders, %d nadir paths",
			len(m.diagram.Transmit), len(m.diagram.Nadir)))
	}
	help := dimStyle.Render("←/→: PRF | +/-: duty | [/]: height | r: reset | tab: view | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// Params returns the parameters currently shown.
func (m Model) Params() Params {
	return m.params
}

// Err returns the last build error, if the current parameters are invalid.
func (m Model) Err() error {
	return m.err
}
