package cache

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// A Builder can build cache levels.
type Builder struct {
	blockSize     uint32
	size          uint32
	associativity uint32
	numStreams    int
	streamDepth   int
	lower         LowerLevel
}

// MakeBuilder returns a Builder with a 32KB, 4-way, 64B-line geometry and no
// prefetcher.
func MakeBuilder() Builder {
	return Builder{
		blockSize:     64,
		size:          32 * 1024,
		associativity: 4,
	}
}

// WithBlockSize sets the cache line size in bytes.
func (b Builder) WithBlockSize(blockSize uint32) Builder {
	b.blockSize = blockSize
	return b
}

// WithSize sets the capacity in bytes.
func (b Builder) WithSize(size uint32) Builder {
	b.size = size
	return b
}

// WithAssociativity sets the number of ways per set.
func (b Builder) WithAssociativity(associativity uint32) Builder {
	b.associativity = associativity
	return b
}

// WithPrefetch attaches numStreams stream buffers of depth blocks each.
// Either argument being 0 disables prefetching.
func (b Builder) WithPrefetch(numStreams, depth int) Builder {
	b.numStreams = numStreams
	b.streamDepth = depth
	return b
}

// WithLowerLevel sets the level misses and write-backs go to. Without one
// the level faces main memory.
func (b Builder) WithLowerLevel(lower LowerLevel) Builder {
	b.lower = lower
	return b
}

// Build creates a level. It panics if the geometry cannot be decoded.
func (b Builder) Build(name string) *Level {
	g := Geometry{
		BlockSize:     b.blockSize,
		Size:          b.size,
		Associativity: b.associativity,
	}
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("cache %s: %v", name, err))
	}

	l := &Level{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		geometry:     g,
		directory:    newDirectory(g),
		lower:        b.lower,
	}

	if b.numStreams > 0 && b.streamDepth > 0 {
		l.prefetcher = NewStreamPrefetcher(b.numStreams, b.streamDepth)
	}

	return l
}
