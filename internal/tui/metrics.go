package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/fibseq/internal/metrics"
)

// MetricsModel is the one-line status strip under the value list: event
// and value counts plus a heap reading refreshed on every tick.
type MetricsModel struct {
	mem    metrics.MemorySnapshot
	events int
	values int
	width  int
}

// SetWidth updates the available width.
func (m *MetricsModel) SetWidth(w int) { m.width = w }

// UpdateMemory stores the latest heap reading.
func (m *MetricsModel) UpdateMemory(s metrics.MemorySnapshot) { m.mem = s }

// Observe counts one received event.
func (m *MetricsModel) Observe() { m.events++ }

// SetValues records the size of the displayed list.
func (m *MetricsModel) SetValues(n int) { m.values = n }

// Reset clears the counters for a new task.
func (m *MetricsModel) Reset() {
	m.events = 0
	m.values = 0
}

// View renders the strip.
func (m MetricsModel) View() string {
	cols := []string{
		metricCol("Events:", fmt.Sprint(m.events)),
		metricCol("Values:", fmt.Sprint(m.values)),
		metricCol("Heap:", metrics.FormatBytes(m.mem.HeapAlloc)),
		metricCol("GC:", fmt.Sprint(m.mem.NumGC)),
	}
	return " " + strings.Join(cols, metricLabelStyle.Render(" | "))
}

func metricCol(label, value string) string {
	return metricLabelStyle.Render(label) + " " + metricValueStyle.Render(value)
}
