// Package cache provides a trace-driven model of a write-back,
// write-allocate set-associative cache hierarchy with an optional
// stream-buffer prefetcher.
package cache

import (
	"fmt"
	"math/bits"
)

// AddressBits is the width of the physical addresses the model decodes.
const AddressBits = 32

// Geometry describes the shape of one cache level and decodes addresses
// against it.
type Geometry struct {
	// BlockSize in bytes (cache line size)
	BlockSize uint32
	// Size in bytes
	Size uint32
	// Associativity (number of ways)
	Associativity uint32
}

// NumSets returns the number of sets in the level.
func (g Geometry) NumSets() uint32 {
	return g.Size / (g.Associativity * g.BlockSize)
}

// OffsetBits returns the number of block-offset bits.
func (g Geometry) OffsetBits() uint32 {
	return log2(g.BlockSize)
}

// IndexBits returns the number of set-index bits.
func (g Geometry) IndexBits() uint32 {
	return log2(g.NumSets())
}

// TagBits returns the number of tag bits.
func (g Geometry) TagBits() uint32 {
	return AddressBits - g.IndexBits() - g.OffsetBits()
}

// Tag extracts the tag field of addr.
func (g Geometry) Tag(addr uint32) uint32 {
	shift := g.IndexBits() + g.OffsetBits()
	if shift >= AddressBits {
		return 0
	}

	return (addr >> shift) & mask(g.TagBits())
}

// Index extracts the set index of addr.
func (g Geometry) Index(addr uint32) uint32 {
	return (addr >> g.OffsetBits()) & mask(g.IndexBits())
}

// Offset extracts the byte offset of addr within its block.
func (g Geometry) Offset(addr uint32) uint32 {
	return addr & mask(g.OffsetBits())
}

// BlockAddress returns addr in block units, the unit stream buffers hold.
func (g Geometry) BlockAddress(addr uint32) uint32 {
	return addr >> g.OffsetBits()
}

// Validate checks that the geometry can be decoded with shifts and masks.
func (g Geometry) Validate() error {
	if g.BlockSize == 0 || g.Size == 0 || g.Associativity == 0 {
		return fmt.Errorf("block size, size and associativity must be > 0")
	}
	if !isPowerOfTwo(g.BlockSize) {
		return fmt.Errorf("block size %d is not a power of two", g.BlockSize)
	}
	if uint64(g.Associativity)*uint64(g.BlockSize) > uint64(g.Size) {
		return fmt.Errorf("size %d cannot hold one set of %d x %dB blocks",
			g.Size, g.Associativity, g.BlockSize)
	}
	if g.Size%(g.Associativity*g.BlockSize) != 0 {
		return fmt.Errorf("associativity %d x block size %d does not divide size %d",
			g.Associativity, g.BlockSize, g.Size)
	}
	if !isPowerOfTwo(g.NumSets()) {
		return fmt.Errorf("number of sets %d is not a power of two", g.NumSets())
	}
	return nil
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

func log2(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return uint32(bits.Len32(v) - 1)
}

func mask(n uint32) uint32 {
	if n >= AddressBits {
		return ^uint32(0)
	}
	return (uint32(1) << n) - 1
}
