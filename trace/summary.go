package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// A Summary describes the access mix and footprint of a trace.
type Summary struct {
	Reads  uint64
	Writes uint64

	// Blocks is the number of distinct blocks touched.
	Blocks uint64

	MinAddress uint32
	MaxAddress uint32
}

// Events returns the number of events summarized.
func (s Summary) Events() uint64 {
	return s.Reads + s.Writes
}

// Footprint returns the bytes covered by the distinct blocks touched.
func (s Summary) Footprint(blockSize uint32) uint64 {
	return s.Blocks * uint64(blockSize)
}

// Summarize reads every event of r, grouping addresses into blocks of
// blockSize bytes. blockSize must be a power of two.
func Summarize(r *Reader, blockSize uint32) (Summary, error) {
	if blockSize == 0 || blockSize&(blockSize-1) != 0 {
		return Summary{}, fmt.Errorf("block size %d is not a power of two", blockSize)
	}

	s := Summary{}
	blocks := make(map[uint32]struct{})

	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s, err
		}

		if s.Events() == 0 || e.Address < s.MinAddress {
			s.MinAddress = e.Address
		}
		if e.Address > s.MaxAddress {
			s.MaxAddress = e.Address
		}

		if e.IsWrite {
			s.Writes++
		} else {
			s.Reads++
		}

		blocks[e.Address/blockSize] = struct{}{}
	}

	s.Blocks = uint64(len(blocks))

	return s, nil
}

// SummarizeFile summarizes the trace stored at path.
func SummarizeFile(path string, blockSize uint32) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Summarize(NewReader(f), blockSize)
}
