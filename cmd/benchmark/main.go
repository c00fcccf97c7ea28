// Command benchmark runs the synthetic cache workloads.
//
// Usage:
//
//	go run ./cmd/benchmark [flags] [trace_file...]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-json    Output results in JSON format
//	-core    Run only the core workloads
//	-config  Path to a cache configuration JSON file
//	-timing  Path to a latency configuration JSON file
//	-v       Print each workload as it starts
//
// Trace files given as arguments run as extra workloads.
//
// Example:
//
//	# Run all workloads on the default hierarchy
//	go run ./cmd/benchmark
//
//	# Compare configurations in a spreadsheet
//	go run ./cmd/benchmark -config small.json -csv > small.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/benchmarks"
	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/latency"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	coreOnly := flag.Bool("core", false, "Run only the core workloads")
	configPath := flag.String("config", "", "Path to cache configuration JSON file")
	timingPath := flag.String("timing", "", "Path to latency configuration JSON file")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	config.Verbose = *verbose && !*csvOutput && !*jsonOutput

	if *configPath != "" {
		cacheConfig, err := cache.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := cacheConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error validating config: %v\n", err)
			os.Exit(1)
		}
		config.Cache = cacheConfig
	}

	if *timingPath != "" {
		timingConfig, err := latency.LoadConfig(*timingPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error validating timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timingConfig
	}

	// Create harness and add workloads
	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddWorkloads(benchmarks.GetCoreWorkloads())
	} else {
		harness.AddWorkloads(benchmarks.GetWorkloads())
	}

	for _, path := range flag.Args() {
		w, err := benchmarks.LoadWorkload(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
			os.Exit(1)
		}
		harness.AddWorkload(w)
	}

	// Print configuration
	if !*csvOutput && !*jsonOutput {
		c := config.Cache
		fmt.Println("Cache Workload Harness")
		fmt.Println("======================")
		fmt.Printf("Block size: %d\n", c.BlockSize)
		fmt.Printf("L1: %d bytes, %d-way\n", c.L1Size, c.L1Assoc)
		if c.HasL2() {
			fmt.Printf("L2: %d bytes, %d-way\n", c.L2Size, c.L2Assoc)
		}
		if c.PrefetchEnabled() {
			fmt.Printf("Stream buffers: %d x %d blocks\n", c.PrefN, c.PrefM)
		}
		fmt.Printf("Latency: L1 %d, L2 %d, memory %d cycles\n",
			config.Timing.L1HitLatency, config.Timing.L2HitLatency,
			config.Timing.MemoryLatency)
		fmt.Println("")
	}

	// Run workloads
	results := harness.RunAll()

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
