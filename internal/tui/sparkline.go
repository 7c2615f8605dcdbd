package tui

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// History keeps the most recent progress percentages of a task, oldest
// first, up to a fixed capacity.
type History struct {
	samples []uint8
	limit   int
}

// NewHistory returns an empty history holding at most limit samples.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 1)}
}

// Push records percent, evicting the oldest sample when full.
func (h *History) Push(percent uint8) {
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, min(percent, 100))
}

// Len returns the number of recorded samples.
func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy of the recorded samples.
func (h *History) Samples() []uint8 {
	if len(h.samples) == 0 {
		return nil
	}
	return append([]uint8(nil), h.samples...)
}

// Reset forgets every sample.
func (h *History) Reset() { h.samples = h.samples[:0] }

// Sparkline renders the samples as one block character each.
func (h *History) Sparkline() string {
	return RenderSparkline(h.samples)
}

// RenderSparkline maps percentages in [0, 100] onto eight block heights.
func RenderSparkline(percents []uint8) string {
	if len(percents) == 0 {
		return ""
	}
	top := len(sparkBlocks) - 1
	out := make([]rune, len(percents))
	for i, p := range percents {
		out[i] = sparkBlocks[int(min(p, 100))*top/100]
	}
	return string(out)
}
