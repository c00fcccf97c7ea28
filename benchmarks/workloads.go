package benchmarks

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/sarchlab/cachesim/trace"
)

const (
	wordSize = 4
	baseAddr = 0x10000000
)

// GetWorkloads returns the standard set of synthetic workloads. Each one
// targets a specific cache behavior.
func GetWorkloads() []Workload {
	return []Workload{
		SequentialRead(16 * 1024),
		StridedRead(64*1024, 256),
		RandomAccess(4096, 1024*1024, 42),
		LoopedWorkingSet(4*1024, 8),
		MixedReadWrite(16*1024, 4),
		StreamCopy(8 * 1024),
	}
}

// GetCoreWorkloads returns a minimal set for quick validation.
func GetCoreWorkloads() []Workload {
	return []Workload{
		SequentialRead(16 * 1024),
		LoopedWorkingSet(4*1024, 8),
		RandomAccess(4096, 1024*1024, 42),
	}
}

// SequentialRead reads every word of a region once.
func SequentialRead(bytes uint32) Workload {
	events := make([]trace.Event, 0, bytes/wordSize)
	for off := uint32(0); off < bytes; off += wordSize {
		events = append(events, trace.Event{Address: baseAddr + off})
	}

	return Workload{
		Name:        "sequential_read",
		Description: fmt.Sprintf("word reads over %d bytes - rewards stream buffers", bytes),
		Events:      events,
	}
}

// StridedRead reads one word every stride bytes.
func StridedRead(bytes, stride uint32) Workload {
	events := make([]trace.Event, 0, bytes/stride)
	for off := uint32(0); off < bytes; off += stride {
		events = append(events, trace.Event{Address: baseAddr + off})
	}

	return Workload{
		Name:        "strided_read",
		Description: fmt.Sprintf("reads %d bytes apart - one access per block", stride),
		Events:      events,
	}
}

// RandomAccess issues n word accesses spread uniformly over a region, a
// quarter of them writes. The sequence depends only on seed.
func RandomAccess(n int, bytes uint32, seed int64) Workload {
	rng := rand.New(rand.NewSource(seed))

	events := make([]trace.Event, 0, n)
	for i := 0; i < n; i++ {
		off := uint32(rng.Int63n(int64(bytes/wordSize))) * wordSize
		events = append(events, trace.Event{
			IsWrite: rng.Intn(4) == 0,
			Address: baseAddr + off,
		})
	}

	return Workload{
		Name:        "random_access",
		Description: fmt.Sprintf("%d uniform accesses over %d bytes - defeats locality", n, bytes),
		Events:      events,
	}
}

// LoopedWorkingSet reads a region block by block, passes times over.
func LoopedWorkingSet(bytes uint32, passes int) Workload {
	const stride = 32

	events := make([]trace.Event, 0, int(bytes/stride)*passes)
	for p := 0; p < passes; p++ {
		for off := uint32(0); off < bytes; off += stride {
			events = append(events, trace.Event{Address: baseAddr + off})
		}
	}

	return Workload{
		Name:        "looped_working_set",
		Description: fmt.Sprintf("%d passes over %d bytes - temporal locality", passes, bytes),
		Events:      events,
	}
}

// MixedReadWrite walks a region word by word, writing every writeEvery-th
// word and reading the rest.
func MixedReadWrite(bytes uint32, writeEvery int) Workload {
	events := make([]trace.Event, 0, bytes/wordSize)
	for i, off := 0, uint32(0); off < bytes; i, off = i+1, off+wordSize {
		events = append(events, trace.Event{
			IsWrite: i%writeEvery == writeEvery-1,
			Address: baseAddr + off,
		})
	}

	return Workload{
		Name:        "mixed_read_write",
		Description: fmt.Sprintf("sequential walk writing 1 word in %d - dirty evictions", writeEvery),
		Events:      events,
	}
}

// StreamCopy copies a region word by word into a second region.
func StreamCopy(bytes uint32) Workload {
	dst := uint32(baseAddr + 0x100000)

	events := make([]trace.Event, 0, 2*bytes/wordSize)
	for off := uint32(0); off < bytes; off += wordSize {
		events = append(events,
			trace.Event{Address: baseAddr + off},
			trace.Event{IsWrite: true, Address: dst + off},
		)
	}

	return Workload{
		Name:        "stream_copy",
		Description: "interleaved read and write streams - needs two stream buffers",
		Events:      events,
	}
}

// LoadWorkload reads a trace file into a workload named after the file.
func LoadWorkload(path string) (Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workload{}, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	events, err := trace.NewReader(f).ReadAll()
	if err != nil {
		return Workload{}, fmt.Errorf("failed to read trace %s: %w", path, err)
	}

	return Workload{
		Name:        path,
		Description: "trace file",
		Events:      events,
	}, nil
}
