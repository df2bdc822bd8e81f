// Package monitor shows the live scene state in the terminal.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ayusman/showreel/internal/render"
	"github.com/ayusman/showreel/internal/transform"
)

const historyCapacity = 120

var (
	panelStyle  = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// FrameMsg carries a render frame into the model.
type FrameMsg render.Frame

type toggledMsg struct {
	enabled bool
	err     error
}

// Tracking is the tracking control the model drives with the t key.
type Tracking interface {
	IsTracking() bool
	SetTracking(enabled bool) error
}

// Model is the bubbletea model of the monitor.
type Model struct {
	tracking Tracking
	frame    render.Frame
	frames   int
	scale    *History
	err      error
	width    int
}

// NewModel creates a Model. tracking may be nil, which disables the toggle.
func NewModel(tracking Tracking) Model {
	return Model{
		tracking: tracking,
		scale:    NewHistory(historyCapacity),
		frame:    render.Frame{Transform: transform.InitialState},
		width:    60,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles frames and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			if m.tracking == nil {
				return m, nil
			}
			enabled := !m.tracking.IsTracking()
			tracking := m.tracking
			return m, func() tea.Msg {
				return toggledMsg{enabled: enabled, err: tracking.SetTracking(enabled)}
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case FrameMsg:
		m.frame = render.Frame(msg)
		m.frames++
		m.scale.Push(m.frame.Transform.Scale)
	case toggledMsg:
		m.err = msg.err
	}
	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	f := m.frame
	var s strings.Builder

	s.WriteString(headerStyle.Render("SHOWREEL") + "\n")

	if m.tracking != nil {
		state := offStyle.Render("off")
		if m.tracking.IsTracking() {
			state = onStyle.Render("on")
		}
		s.WriteString(row("Tracking", state))
	}

	if f.Sample.Present {
		s.WriteString(row("Hand", onStyle.Render("present")))
	} else {
		s.WriteString(row("Hand", offStyle.Render("absent")))
	}
	s.WriteString(row("Pinch", valueStyle.Render(fmt.Sprintf("%.3f", f.Sample.Distance))))
	s.WriteString(row("Palm", valueStyle.Render(fmt.Sprintf("%.2f, %.2f", f.Sample.Position.X, f.Sample.Position.Y))))
	s.WriteString(row("Scale", valueStyle.Render(fmt.Sprintf("%.2f", f.Transform.Scale))))
	s.WriteString(row("Rotation", valueStyle.Render(fmt.Sprintf("x %.2f  y %.2f", f.Transform.RotationX, f.Transform.RotationY))))
	s.WriteString(row("Items", valueStyle.Render(fmt.Sprintf("%d (layout v%d)", len(f.Items), f.LayoutVersion))))
	s.WriteString(row("Tick", valueStyle.Render(fmt.Sprintf("%d (%.1f ms)", f.Tick, float64(f.Delta.Microseconds())/1000))))

	if m.scale.Len() > 1 {
		width := m.width - 16
		if width < 10 {
			width = 10
		}
		chart := asciigraph.Plot(m.scale.Values(),
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Caption("Scale"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	help := "q quit"
	if m.tracking != nil {
		help = "t toggle tracking · " + help
	}
	s.WriteString(helpStyle.Render(help))

	return panelStyle.Render(s.String())
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}
