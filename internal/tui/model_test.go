package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/logging"
	"navigator/internal/nmea"
	"navigator/internal/store"
)

type staticSource struct {
	snap store.Snapshot
}

func (s staticSource) Snapshot() store.Snapshot { return s.snap }

type staticLogs []logging.Entry

func (l staticLogs) Entries() []logging.Entry { return l }

func testModel() Model {
	elev := int8(40)
	azim := uint16(83)
	snr := uint8(46)
	snap := store.Snapshot{
		Location: store.Location{
			Latitude:  49.275,
			Longitude: -123.185,
			Time:      nmea.Time{Hour: 22, Minute: 54, Second: 44},
			Status:    nmea.DataValid,
			Mode:      nmea.FaaModeAutonomous,
			Fix:       nmea.Fix3D,
			PDOP:      2.5,
			HDOP:      1.3,
			VDOP:      2.1,
		},
		Satellites: store.Satellites{
			InView: 2,
			Satellites: []nmea.Satellite{
				{ID: 1, Elevation: &elev, Azimuth: &azim, SNR: &snr},
				{ID: 2},
			},
			SNRHistory: []float32{10, 46},
		},
	}
	logs := staticLogs{{
		Time:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "GPS MESSAGE: ANTENNA OK",
	}}
	return NewModel(staticSource{snap: snap}, logs, "/dev/ttyUSB0", time.Second)
}

func refreshed(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_View(t *testing.T) {
	view := refreshed(t, testModel()).View()

	assert.Contains(t, view, "49°16'30\"N")
	assert.Contains(t, view, "22:54:44.00")
	assert.Contains(t, view, "DataValid")
	assert.Contains(t, view, "Fix3D")
	assert.Contains(t, view, "PDOP 2.50  HDOP 1.30  VDOP 2.10")
	assert.Contains(t, view, "in view 2  connected 1")
	assert.Contains(t, view, "GPS MESSAGE: ANTENNA OK")
	assert.Contains(t, view, "/dev/ttyUSB0 | Fix3D")
}

func TestModel_AbsentValuesShownAsDash(t *testing.T) {
	view := refreshed(t, testModel()).View()

	assert.Contains(t, view, "   1       40     83    46\n")
	assert.Contains(t, view, "   2        -      -     -\n")
}

func TestModel_EmptyBeforeFirstTick(t *testing.T) {
	view := testModel().View()
	assert.NotContains(t, view, "ANTENNA OK")
	assert.Contains(t, view, "NoFix")
}

func TestModel_TogglePanes(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		absent  []string
		present []string
	}{
		{
			name:    "Hide position",
			keys:    []string{"p"},
			absent:  []string{" Position\n"},
			present: []string{" Satellites", " Log\n"},
		},
		{
			name:    "Hide satellites",
			keys:    []string{"s"},
			absent:  []string{" Satellites"},
			present: []string{" Position\n", " Log\n"},
		},
		{
			name:    "Hide log",
			keys:    []string{"l"},
			absent:  []string{" Log\n"},
			present: []string{" Position\n", " Satellites"},
		},
		{
			name:    "Toggle twice",
			keys:    []string{"p", "p"},
			present: []string{" Position\n", " Satellites", " Log\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = refreshed(t, testModel())
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			view := m.View()
			for _, s := range tt.absent {
				assert.NotContains(t, view, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := testModel().Update(msg)
		require.NotNil(t, cmd, msg.String())
		assert.Equal(t, tea.Quit(), cmd(), msg.String())
	}
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := testModel().Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	assert.Contains(t, m.View(), "──────────────────────────────\n")
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
		width  int
		want   string
	}{
		{
			name: "Empty",
		},
		{
			name:   "Scaled to peak",
			values: []float32{0, 7, 14},
			width:  10,
			want:   "▁▅█",
		},
		{
			name:   "Keeps last values",
			values: []float32{14, 14, 0, 14},
			width:  2,
			want:   "▁█",
		},
		{
			name:   "All zero",
			values: []float32{0, 0},
			width:  5,
			want:   "▁▁",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values, tt.width))
		})
	}
}
