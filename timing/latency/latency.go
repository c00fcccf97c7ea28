// Package latency estimates how long memory accesses take on a simulated
// cache hierarchy.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/cachesim/timing/cache"
)

// Table provides access latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// HitLatency returns the hit latency in cycles of the level at depth, with
// depth 0 being L1. Depths past the last cache level are main memory.
func (t *Table) HitLatency(depth, numLevels int) uint64 {
	switch {
	case depth >= numLevels:
		return t.config.MemoryLatency
	case depth == 0:
		return t.config.L1HitLatency
	default:
		return t.config.L2HitLatency
	}
}

// MissPenalty returns the average cycles an L1 miss waits for the levels
// below it.
func (t *Table) MissPenalty(h *cache.Hierarchy) float64 {
	levels := h.Levels()

	penalty := float64(t.config.MemoryLatency)
	for depth := len(levels) - 1; depth >= 1; depth-- {
		missRate := levels[depth].Stats().MissRate()
		penalty = float64(t.HitLatency(depth, len(levels))) + missRate*penalty
	}

	return penalty
}

// AverageAccessTime returns the average memory access time in cycles of the
// demand accesses h has served. Accesses served by a stream buffer count as
// L1 hits.
func (t *Table) AverageAccessTime(h *cache.Hierarchy) float64 {
	missRate := h.L1().Stats().MissRate()
	return float64(t.config.L1HitLatency) + missRate*t.MissPenalty(h)
}

// Config returns the timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
