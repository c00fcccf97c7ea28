// Command cachesim replays a memory trace through an L1/L2 cache hierarchy
// with optional stream-buffer prefetching, then prints the final cache
// contents and measurements.
//
// Usage:
//
//	cachesim BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC PREF_N PREF_M trace_file
//	cachesim --config cache.json trace_file
//	cachesim config init cache.json
//
// Flags:
//
//	--config           Load the hierarchy from a JSON file
//	--record           Store the run in a SQLite database (default $CACHESIM_RECORD)
//	--record-accesses  Also store every access in the database
//	--no-color         Print plain section headers (also $CACHESIM_NO_COLOR)
//	-v, --verbose      Log every access, write-back and prefetch to stderr
//
// Environment variables may also be set in a .env file in the working
// directory.
package main

import (
	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
