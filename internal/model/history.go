package model

import "time"

const defaultRoundHistoryCap = 30

// RoundStat records how one fetch round went.
type RoundStat struct {
	Generation uint64
	Finished   time.Time
	Duration   time.Duration
	Failures   int  // requests that degraded to an empty value
	Stale      bool // superseded before it could be applied
}

// RoundHistory is a fixed-size ring buffer of RoundStats.
// When the buffer is full, new pushes overwrite the oldest entry.
type RoundHistory struct {
	buf  []RoundStat
	head int // index of the next write position
	size int // number of valid entries
}

// NewRoundHistory creates a RoundHistory with the given capacity.
// If capacity <= 0, defaultRoundHistoryCap (30) is used.
func NewRoundHistory(capacity int) *RoundHistory {
	if capacity <= 0 {
		capacity = defaultRoundHistoryCap
	}
	return &RoundHistory{
		buf: make([]RoundStat, capacity),
	}
}

// Push appends a stat, overwriting the oldest if full.
func (h *RoundHistory) Push(s RoundStat) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries.
func (h *RoundHistory) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *RoundHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Stats returns the entries in chronological order (oldest first).
func (h *RoundHistory) Stats() []RoundStat {
	out := make([]RoundStat, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Latencies returns round durations in milliseconds, oldest first.
func (h *RoundHistory) Latencies() []float64 {
	stats := h.Stats()
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = float64(s.Duration.Milliseconds())
	}
	return out
}

// Last returns the newest entry, if any.
func (h *RoundHistory) Last() (RoundStat, bool) {
	if h.size == 0 {
		return RoundStat{}, false
	}
	return h.buf[(h.head-1+len(h.buf))%len(h.buf)], true
}
