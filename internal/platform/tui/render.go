package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fleetcrawl/internal/sim"
)

// Layout constants
const (
	panelWidth = 38
	barWidth   = 24
	maxLogRows = 12
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(panelWidth).
			Padding(0, 1)

	overheatPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("208"))

	wreckPanelStyle = panelStyle.
			BorderForeground(lipgloss.Color("1"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(7)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		"NOMINAL":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		"OVERHEAT": lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		"WRECK":    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}

	eventStyles = map[sim.EventKind]lipgloss.Style{
		sim.EventHit:              lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		sim.EventSuppressed:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		sim.EventJammed:           lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		sim.EventOverheat:         lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		sim.EventRecovered:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		sim.EventThermalDamage:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		sim.EventEffectDamage:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		sim.EventSegmentDestroyed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		sim.EventShipDestroyed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// Gauges renders the three status bars of a ship panel.
type Gauges struct {
	hull   progress.Model
	shield progress.Model
	heat   progress.Model
}

// NewGauges creates the bars with the fleetcrawl palette.
func NewGauges() Gauges {
	return Gauges{
		hull:   progress.New(progress.WithGradient("#5A0000", "#3CB371"), progress.WithWidth(barWidth)),
		shield: progress.New(progress.WithSolidFill("#00AFFF"), progress.WithWidth(barWidth)),
		heat:   progress.New(progress.WithGradient("#FFD75F", "#FF5F00"), progress.WithWidth(barWidth)),
	}
}

// shipStatus returns the status label for a ship.
func shipStatus(s *sim.Ship) string {
	switch {
	case s.Destroyed:
		return "WRECK"
	case s.Heat.Overheated:
		return "OVERHEAT"
	default:
		return "NOMINAL"
	}
}

// RenderShip renders one ship panel. heat01 is the smoothed display value.
func RenderShip(g Gauges, s *sim.Ship, heat01 float64) string {
	var b strings.Builder

	status := shipStatus(s)
	b.WriteString(titleStyle.Render(s.ID))
	b.WriteString("  ")
	b.WriteString(statusStyles[status].Render(status))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("hull"))
	b.WriteString(g.hull.ViewAs(s.HullFraction()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("shield"))
	b.WriteString(g.shield.ViewAs(s.ShieldFraction()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("heat"))
	b.WriteString(g.heat.ViewAs(heat01))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("dealt %.1f  taken %.1f  effects %d",
		s.DamageDealt, s.DamageTaken, len(s.Pending))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("fired %d  held %d  jammed %d  %s",
		s.ShotsFired, s.ShotsSuppressed, s.ShotsJammed, s.Safety)))

	style := panelStyle
	switch status {
	case "OVERHEAT":
		style = overheatPanelStyle
	case "WRECK":
		style = wreckPanelStyle
	}
	return style.Render(b.String())
}

// RenderEvent renders one log line.
func RenderEvent(e sim.Event) string {
	style, ok := eventStyles[e.Kind]
	if !ok {
		style = dimStyle
	}
	return style.Render(e.String())
}

// RenderPanels lays ship panels out in rows that fit width.
func RenderPanels(panels []string, width int) string {
	perRow := max(1, width/(panelWidth+4))
	var rows []string
	for i := 0; i < len(panels); i += perRow {
		end := min(len(panels), i+perRow)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}
