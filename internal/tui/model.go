package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"navigator/internal/logging"
	"navigator/internal/store"
)

const logLines = 10

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// SnapshotSource is polled on every redraw
type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// LogSource supplies the entries of the Log pane
type LogSource interface {
	Entries() []logging.Entry
}

type tickMsg time.Time

// Model is the terminal dashboard. It only reads snapshots; the store is
// fed by the reader goroutine.
type Model struct {
	source   SnapshotSource
	logs     LogSource
	device   string
	interval time.Duration

	snap    store.Snapshot
	entries []logging.Entry
	width   int

	showPosition   bool
	showSatellites bool
	showLog        bool
}

// NewModel creates a dashboard redrawn every interval with all panes shown
func NewModel(source SnapshotSource, logs LogSource, device string, interval time.Duration) Model {
	return Model{
		source:         source,
		logs:           logs,
		device:         device,
		interval:       interval,
		showPosition:   true,
		showSatellites: true,
		showLog:        true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() Model {
	m.snap = m.source.Snapshot()
	if m.logs != nil {
		m.entries = m.logs.Entries()
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return tickMsg(time.Now())
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.showPosition = !m.showPosition
		case "s":
			m.showSatellites = !m.showSatellites
		case "l":
			m.showLog = !m.showLog
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m.refresh(), m.tick()
	}
	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	if m.showPosition {
		m.viewPosition(&b)
	}
	if m.showSatellites {
		m.viewSatellites(&b)
	}
	if m.showLog {
		m.viewLog(&b)
	}

	width := m.width
	if width <= 0 {
		width = 60
	}
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	fmt.Fprintf(&b, " %s | %s | p position  s satellites  l log  q quit\n",
		m.device, m.snap.Location.Fix)

	return b.String()
}

func (m Model) viewPosition(b *strings.Builder) {
	loc := m.snap.Location
	b.WriteString(" Position\n")
	fmt.Fprintf(b, "   Latitude   %s\n", loc.Latitude.Format('N', 'S'))
	fmt.Fprintf(b, "   Longitude  %s\n", loc.Longitude.Format('E', 'W'))
	fmt.Fprintf(b, "   Time       %s\n", loc.Time)
	fmt.Fprintf(b, "   Status     %s (%s)\n", loc.Status, loc.Mode)
	fmt.Fprintf(b, "   Fix        %s\n", loc.Fix)
	fmt.Fprintf(b, "   PDOP %.2f  HDOP %.2f  VDOP %.2f\n", loc.PDOP, loc.HDOP, loc.VDOP)
	b.WriteString("\n")
}

func (m Model) viewSatellites(b *strings.Builder) {
	sats := m.snap.Satellites
	fmt.Fprintf(b, " Satellites  in view %d  connected %d\n", sats.InView, sats.Connected())

	sparkWidth := 40
	if m.width > 20 {
		sparkWidth = m.width - 12
	}
	fmt.Fprintf(b, "   SNR  %s\n", Sparkline(sats.SNRHistory, sparkWidth))

	b.WriteString("   ID   Elev   Azim   SNR\n")
	for _, sat := range sats.Satellites {
		fmt.Fprintf(b, "   %-4d %5s  %5s  %4s\n",
			sat.ID, optional(sat.Elevation), optional(sat.Azimuth), optional(sat.SNR))
	}
	b.WriteString("\n")
}

func (m Model) viewLog(b *strings.Builder) {
	b.WriteString(" Log\n")
	entries := m.entries
	if len(entries) > logLines {
		entries = entries[len(entries)-logLines:]
	}
	for _, e := range entries {
		fmt.Fprintf(b, "   %s %-5s %s\n",
			e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	}
	b.WriteString("\n")
}

// optional renders an absent value as "-"
func optional[T int8 | uint8 | uint16](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// Sparkline renders the last width values scaled to the largest of them
func Sparkline(values []float32, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var peak float32
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	out := make([]rune, len(values))
	for i, v := range values {
		level := 0
		if peak > 0 && v > 0 {
			level = int(math.Round(float64(v/peak) * float64(len(sparkBlocks)-1)))
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}

// NewProgram creates a full screen program for m
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}
