// Package main provides the entry point for cachesim.
// Cachesim is a trace-driven L1/L2 cache simulator with stream-buffer
// prefetching.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - trace-driven cache hierarchy simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC PREF_N PREF_M trace_file")
	fmt.Println("       cachesim --config cache.json trace_file")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --config           Path to cache configuration JSON file")
	fmt.Println("  --record           Record the run into a SQLite database")
	fmt.Println("  --record-accesses  Record every access as well")
	fmt.Println("  --no-color         Plain section headers")
	fmt.Println("  -v                 Log every access")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
