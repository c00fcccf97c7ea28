package cache

import "github.com/sarchlab/akita/v4/sim"

// A Hierarchy is a chain of levels ending at main memory. Levels()[0] is the
// level the trace drives.
type Hierarchy struct {
	levels []*Level
}

// NewHierarchy builds the levels described by c, lowest level first so that
// each level can be handed the one below it. Stream buffers attach to the
// level that faces main memory. It panics if c does not validate.
func NewHierarchy(c *Config) *Hierarchy {
	if err := c.Validate(); err != nil {
		panic(err)
	}

	numStreams, depth := 0, 0
	if c.PrefetchEnabled() {
		numStreams, depth = int(c.PrefN), int(c.PrefM)
	}

	h := &Hierarchy{}

	var lower *Level
	if c.HasL2() {
		lower = MakeBuilder().
			WithBlockSize(c.BlockSize).
			WithSize(c.L2Size).
			WithAssociativity(c.L2Assoc).
			WithPrefetch(numStreams, depth).
			Build("L2")
		numStreams, depth = 0, 0
	}

	builder := MakeBuilder().
		WithBlockSize(c.BlockSize).
		WithSize(c.L1Size).
		WithAssociativity(c.L1Assoc).
		WithPrefetch(numStreams, depth)
	if lower != nil {
		builder = builder.WithLowerLevel(lower)
	}

	h.levels = append(h.levels, builder.Build("L1"))
	if lower != nil {
		h.levels = append(h.levels, lower)
	}

	return h
}

// Levels returns the levels from the top of the hierarchy down.
func (h *Hierarchy) Levels() []*Level {
	return h.levels
}

// L1 returns the top level.
func (h *Hierarchy) L1() *Level {
	return h.levels[0]
}

// L2 returns the second level, or nil if there is none.
func (h *Hierarchy) L2() *Level {
	if len(h.levels) < 2 {
		return nil
	}
	return h.levels[1]
}

// Request sends a demand access to the top level.
func (h *Hierarchy) Request(addr uint32, isWrite bool) AccessResult {
	return h.levels[0].Request(addr, isWrite)
}

// MemoryTraffic returns the blocks moved to or from main memory.
func (h *Hierarchy) MemoryTraffic() uint64 {
	return h.levels[len(h.levels)-1].Stats().MemoryTraffic
}

// AcceptHook attaches hook to every level.
func (h *Hierarchy) AcceptHook(hook sim.Hook) {
	for _, l := range h.levels {
		l.AcceptHook(hook)
	}
}
