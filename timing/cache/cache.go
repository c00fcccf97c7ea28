package cache

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Request is one access arriving at a cache level.
type Request struct {
	Address uint32
	IsWrite bool

	// Prefetch marks a read issued by a higher level's stream buffers.
	Prefetch bool
}

// Kind names the request as read, write or prefetch-read.
func (r Request) Kind() string {
	switch {
	case r.Prefetch:
		return "prefetch-read"
	case r.IsWrite:
		return "write"
	default:
		return "read"
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the block was present in the cache.
	Hit bool
	// StreamHit indicates whether a stream buffer held the block.
	StreamHit bool
	// Evicted is true if a dirty block was written back.
	Evicted bool
	// EvictedAddr is the address written back (if Evicted is true).
	EvictedAddr uint32
}

func (r AccessResult) outcome() string {
	switch {
	case r.Hit && r.StreamHit:
		return "hit, stream-hit"
	case r.Hit:
		return "hit"
	case r.StreamHit:
		return "miss, stream-hit"
	default:
		return "miss"
	}
}

// LowerLevel is the next level in the memory hierarchy.
type LowerLevel interface {
	// Access serves a request from the level above.
	Access(req Request) AccessResult
}

// Level is one write-back, write-allocate cache level with LRU replacement
// and an optional stream-buffer prefetcher.
type Level struct {
	*sim.HookableBase

	name     string
	geometry Geometry

	directory  *directory
	prefetcher *StreamPrefetcher

	// lower is nil for the level that faces main memory.
	lower LowerLevel

	stats Statistics
}

// Name returns the name of the level.
func (l *Level) Name() string {
	return l.name
}

// Geometry returns the shape of the level.
func (l *Level) Geometry() Geometry {
	return l.geometry
}

// Stats returns cache statistics.
func (l *Level) Stats() Statistics {
	return l.stats
}

// ResetStats clears cache statistics.
func (l *Level) ResetStats() {
	l.stats = Statistics{}
}

// Reset invalidates all cache lines and stream buffers without write-back
// and clears the statistics.
func (l *Level) Reset() {
	l.directory.reset()
	if l.prefetcher != nil {
		l.prefetcher.Reset()
	}
	l.stats = Statistics{}
}

// LowerLevel returns the next level, or nil if the level faces memory.
func (l *Level) LowerLevel() LowerLevel {
	return l.lower
}

// PrefetchEnabled tells whether the level owns stream buffers.
func (l *Level) PrefetchEnabled() bool {
	return l.prefetcher != nil
}

// Prefetcher returns the level's stream buffers, or nil.
func (l *Level) Prefetcher() *StreamPrefetcher {
	return l.prefetcher
}

// Contents returns the valid blocks of every set, most recently used first.
func (l *Level) Contents() []SetSnapshot {
	return l.directory.snapshot()
}

// StreamBuffers returns the contents of the stream buffers, most recently
// used buffer first. It returns nil if prefetching is disabled.
func (l *Level) StreamBuffers() [][]uint32 {
	if l.prefetcher == nil {
		return nil
	}
	return l.prefetcher.Contents()
}

// Request performs a demand read or write.
func (l *Level) Request(addr uint32, isWrite bool) AccessResult {
	return l.Access(Request{Address: addr, IsWrite: isWrite})
}

// Access serves req. The stream buffers are searched before the set so that
// a block already in flight is not fetched twice.
func (l *Level) Access(req Request) AccessResult {
	l.countAccess(req)

	blockAddr := l.geometry.BlockAddress(req.Address)

	var streamBuf *StreamBuffer
	if l.prefetcher != nil {
		streamBuf = l.prefetcher.Search(blockAddr)
	}

	set, found := l.directory.lookup(req.Address)
	result := AccessResult{StreamHit: streamBuf != nil}

	if found.hit != nil {
		result.Hit = true
		l.handleHit(req, set, found.hit, streamBuf, blockAddr)
	} else {
		l.handleMiss(req, set, found.victim(), streamBuf, blockAddr, &result)
	}

	l.invoke(HookPosAccess, req, result)

	return result
}

func (l *Level) handleHit(
	req Request,
	set *Set,
	block *Block,
	streamBuf *StreamBuffer,
	blockAddr uint32,
) {
	if streamBuf != nil {
		l.refill(streamBuf, blockAddr)
	}

	if req.IsWrite {
		block.IsDirty = true
	}

	l.directory.visit(set, block)
}

func (l *Level) handleMiss(
	req Request,
	set *Set,
	victim *Block,
	streamBuf *StreamBuffer,
	blockAddr uint32,
	result *AccessResult,
) {
	if l.prefetcher != nil {
		if streamBuf != nil {
			l.refill(streamBuf, blockAddr)
		} else {
			l.refill(l.prefetcher.Allocate(), blockAddr)
		}
	}

	if victim.IsDirty {
		result.Evicted = true
		result.EvictedAddr = victim.Address
		l.writeBack(victim.Address)
	}

	// A stream hit means the block was already requested by a prefetch.
	if streamBuf == nil {
		l.countMiss(req)
		l.fetch(Request{Address: req.Address, Prefetch: req.Prefetch})
	}

	l.directory.install(set, victim, req.Address, req.IsWrite)
}

func (l *Level) writeBack(addr uint32) {
	l.stats.Writebacks++
	l.invoke(HookPosWriteBack, addr, nil)
	l.fetch(Request{Address: addr, IsWrite: true})
}

func (l *Level) refill(b *StreamBuffer, blockAddr uint32) {
	l.prefetcher.Refill(b, blockAddr, func(next uint32) {
		l.stats.Prefetches++
		l.invoke(HookPosPrefetch, next, nil)
		l.fetch(Request{
			Address:  next << l.geometry.OffsetBits(),
			Prefetch: true,
		})
	})
}

// fetch moves one block between this level and the one below it. With no
// lower level the block comes from or goes to main memory.
func (l *Level) fetch(req Request) {
	if l.lower == nil {
		l.stats.MemoryTraffic++
		return
	}

	l.lower.Access(req)
}

func (l *Level) countAccess(req Request) {
	switch {
	case req.Prefetch:
		l.stats.PrefetchReads++
	case req.IsWrite:
		l.stats.Writes++
	default:
		l.stats.Reads++
	}
}

func (l *Level) countMiss(req Request) {
	switch {
	case req.Prefetch:
		l.stats.PrefetchReadMisses++
	case req.IsWrite:
		l.stats.WriteMisses++
	default:
		l.stats.ReadMisses++
	}
}

func (l *Level) invoke(pos *sim.HookPos, item, detail interface{}) {
	if l.NumHooks() == 0 {
		return
	}

	l.InvokeHook(sim.HookCtx{
		Domain: l,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
