package cache

import "github.com/google/btree"

// A StreamBuffer is a bounded FIFO of consecutive block addresses fetched
// ahead of demand.
type StreamBuffer struct {
	ID       int
	IsValid  bool
	Entries  []uint32
	Capacity int

	// Rank is the buffer's recency position. Unlike cache blocks, N-1 is
	// the most recently used buffer and 0 the least recently used one.
	Rank int
}

// GetRank returns the recency rank of the buffer.
func (b *StreamBuffer) GetRank() int {
	return b.Rank
}

// SetRank sets the recency rank of the buffer.
func (b *StreamBuffer) SetRank(rank int) {
	b.Rank = rank
}

// consume searches the FIFO front to back for blockAddr. On a match the
// entries up to and including it are dropped.
func (b *StreamBuffer) consume(blockAddr uint32) bool {
	for i, entry := range b.Entries {
		if entry != blockAddr {
			continue
		}

		n := copy(b.Entries, b.Entries[i+1:])
		b.Entries = b.Entries[:n]
		if n == 0 {
			b.IsValid = false
		}

		return true
	}

	return false
}

func (b *StreamBuffer) clear() {
	b.Entries = b.Entries[:0]
	b.IsValid = false
}

// A StreamPrefetcher owns the stream buffers attached to one cache level.
type StreamPrefetcher struct {
	buffers []*StreamBuffer
	depth   int
}

// NewStreamPrefetcher creates a prefetcher with numStreams buffers of depth
// blocks each. Buffer i starts with rank numStreams-1-i.
func NewStreamPrefetcher(numStreams, depth int) *StreamPrefetcher {
	if numStreams <= 0 || depth <= 0 {
		panic("stream prefetcher needs at least one buffer of depth one")
	}

	p := &StreamPrefetcher{
		buffers: make([]*StreamBuffer, numStreams),
		depth:   depth,
	}

	for i := range p.buffers {
		p.buffers[i] = &StreamBuffer{
			ID:       i,
			Entries:  make([]uint32, 0, depth),
			Capacity: depth,
			Rank:     numStreams - 1 - i,
		}
	}

	return p
}

// Reset empties every buffer and restores the initial ranks.
func (p *StreamPrefetcher) Reset() {
	for i, b := range p.buffers {
		b.clear()
		b.Rank = len(p.buffers) - 1 - i
	}
}

// NumStreams returns the number of stream buffers.
func (p *StreamPrefetcher) NumStreams() int {
	return len(p.buffers)
}

// Depth returns the capacity of each stream buffer in blocks.
func (p *StreamPrefetcher) Depth() int {
	return p.depth
}

// Buffers returns the stream buffers in construction order.
func (p *StreamPrefetcher) Buffers() []*StreamBuffer {
	return p.buffers
}

// byRank returns the buffer currently holding rank.
func (p *StreamPrefetcher) byRank(rank int) *StreamBuffer {
	for _, b := range p.buffers {
		if b.Rank == rank {
			return b
		}
	}

	panic("stream buffer ranks are not a permutation")
}

// Search looks for blockAddr in the valid buffers, most recently used
// buffer first. The matching buffer has its consumed prefix dropped and is
// returned; nil means a stream miss.
func (p *StreamPrefetcher) Search(blockAddr uint32) *StreamBuffer {
	for rank := len(p.buffers) - 1; rank >= 0; rank-- {
		b := p.byRank(rank)
		if !b.IsValid {
			continue
		}

		if b.consume(blockAddr) {
			return b
		}
	}

	return nil
}

// Allocate empties the least recently used buffer and returns it.
func (p *StreamPrefetcher) Allocate() *StreamBuffer {
	b := p.byRank(0)
	b.clear()
	return b
}

// Refill tops b up with the blocks following its last entry, or following
// anchor if b is empty, and makes b the most recently used buffer. issue is
// called once per appended block address.
func (p *StreamPrefetcher) Refill(
	b *StreamBuffer,
	anchor uint32,
	issue func(blockAddr uint32),
) {
	base := anchor
	if len(b.Entries) > 0 {
		base = b.Entries[len(b.Entries)-1]
	}

	for next := base + 1; len(b.Entries) < b.Capacity; next++ {
		b.Entries = append(b.Entries, next)
		issue(next)
	}

	b.IsValid = true
	Touch(p.buffers, b, MRUAtTop)
}

// Contents returns a copy of every buffer's entries, most recently used
// buffer first. Invalid buffers are reported empty.
func (p *StreamPrefetcher) Contents() [][]uint32 {
	contents := make([][]uint32, 0, len(p.buffers))

	rankOrder(p.buffers).Descend(func(i btree.Item) bool {
		b := p.buffers[i.(rankSlot).slot]
		if !b.IsValid {
			contents = append(contents, []uint32{})
			return true
		}

		contents = append(contents, append([]uint32(nil), b.Entries...))
		return true
	})

	return contents
}
