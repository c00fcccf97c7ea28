package cache

// Statistics holds the counters of one cache level.
//
// Reads, ReadMisses, Writes and WriteMisses count demand traffic. Reads a
// higher level's prefetcher issues to this level are counted separately in
// PrefetchReads and PrefetchReadMisses.
type Statistics struct {
	Reads       uint64
	ReadMisses  uint64
	Writes      uint64
	WriteMisses uint64
	Writebacks  uint64

	// MemoryTraffic counts blocks this level moved to or from main memory.
	// It only grows on a level with no lower level.
	MemoryTraffic uint64

	// Prefetches counts blocks this level's stream buffers requested.
	Prefetches uint64

	PrefetchReads      uint64
	PrefetchReadMisses uint64
}

// Accesses returns the number of demand reads and writes.
func (s Statistics) Accesses() uint64 {
	return s.Reads + s.Writes
}

// Misses returns the number of demand read and write misses.
func (s Statistics) Misses() uint64 {
	return s.ReadMisses + s.WriteMisses
}

// Hits returns the number of demand accesses that did not count as a miss.
func (s Statistics) Hits() uint64 {
	return s.Accesses() - s.Misses()
}

// MissRate returns (ReadMisses+WriteMisses)/(Reads+Writes), or 0 when the
// level saw no demand access.
func (s Statistics) MissRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}
	return float64(s.Misses()) / float64(s.Accesses())
}

// DemandReadMissRate returns ReadMisses/Reads, or 0 when the level saw no
// demand read.
func (s Statistics) DemandReadMissRate() float64 {
	if s.Reads == 0 {
		return 0
	}
	return float64(s.ReadMisses) / float64(s.Reads)
}
