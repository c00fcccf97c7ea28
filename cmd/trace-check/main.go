// Package main provides a CLI tool to check that trace files parse and to
// summarize what they contain.
//
// Usage:
//
//	trace-check [-block 32] <trace_file_or_dir>...
//
// The number of valid traces goes to stdout; details go to stderr.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/sarchlab/cachesim/trace"
)

func main() {
	blockFlag := flag.Uint64("block", 32, "block size used to measure footprints")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: trace-check [options] <trace_file_or_dir>...\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	blockSize, err := checkBlockSize(*blockFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths, err := collectTraces(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing traces: %v\n", err)
		os.Exit(1)
	}

	valid := 0
	var invalid []string

	for _, path := range paths {
		s, err := trace.SummarizeFile(path, blockSize)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("%s - %v", path, err))
			continue
		}

		valid++
		fmt.Fprintf(os.Stderr, "  ✅ %s - %d reads, %d writes, %d blocks (%d bytes), %x..%x\n",
			path, s.Reads, s.Writes, s.Blocks, s.Footprint(blockSize),
			s.MinAddress, s.MaxAddress)
	}

	fmt.Printf("%d\n", valid)

	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "\nInvalid traces (%d):\n", len(invalid))
		for _, msg := range invalid {
			fmt.Fprintf(os.Stderr, "  ❌ %s\n", msg)
		}
		os.Exit(1)
	}
}

// checkBlockSize narrows the -block flag to a block size, rejecting values
// that do not fit in 32 bits.
func checkBlockSize(v uint64) (uint32, error) {
	if v == 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("block size %d is out of range", v)
	}

	return uint32(v), nil
}

// collectTraces expands directories into the regular files they contain.
func collectTraces(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}

	sort.Strings(paths)

	return paths, nil
}
