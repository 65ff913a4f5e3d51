package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHistory_PushAndLen(t *testing.T) {
	h := NewRoundHistory(5)
	assert.Equal(t, 0, h.Len())

	h.Push(RoundStat{Generation: 1, Duration: time.Millisecond})
	assert.Equal(t, 1, h.Len())

	h.Push(RoundStat{Generation: 2})
	h.Push(RoundStat{Generation: 3})
	assert.Equal(t, 3, h.Len())
}

func TestRoundHistory_OverwritesOldest(t *testing.T) {
	h := NewRoundHistory(3)

	h.Push(RoundStat{Generation: 1})
	h.Push(RoundStat{Generation: 2})
	h.Push(RoundStat{Generation: 3})
	require.Equal(t, 3, h.Len())

	// Push beyond capacity; generation 1 is overwritten
	h.Push(RoundStat{Generation: 4})
	assert.Equal(t, 3, h.Len())

	stats := h.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, uint64(2), stats[0].Generation)
	assert.Equal(t, uint64(4), stats[2].Generation)
}

func TestRoundHistory_LatenciesChronological(t *testing.T) {
	h := NewRoundHistory(4)
	for _, ms := range []int{10, 20, 30} {
		h.Push(RoundStat{Duration: time.Duration(ms) * time.Millisecond})
	}
	assert.Equal(t, []float64{10, 20, 30}, h.Latencies())
}

func TestRoundHistory_Last(t *testing.T) {
	h := NewRoundHistory(2)
	_, ok := h.Last()
	assert.False(t, ok)

	h.Push(RoundStat{Generation: 7})
	h.Push(RoundStat{Generation: 8})
	h.Push(RoundStat{Generation: 9})

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(9), last.Generation)
}

func TestRoundHistory_Clear(t *testing.T) {
	h := NewRoundHistory(4)
	h.Push(RoundStat{Generation: 1})
	h.Push(RoundStat{Generation: 2})
	require.Equal(t, 2, h.Len())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Stats())

	h.Push(RoundStat{Generation: 99})
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, uint64(99), h.Stats()[0].Generation)
}

func TestRoundHistory_DefaultCapacity(t *testing.T) {
	h := NewRoundHistory(0)
	for i := 0; i < 35; i++ {
		h.Push(RoundStat{Generation: uint64(i)})
	}
	assert.Equal(t, 30, h.Len())
	stats := h.Stats()
	// Oldest kept entry is 5 (0-4 were overwritten)
	assert.Equal(t, uint64(5), stats[0].Generation)
	assert.Equal(t, uint64(34), stats[29].Generation)
}
