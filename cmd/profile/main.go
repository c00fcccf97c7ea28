// Package main provides a profiling wrapper for cachesim to identify
// performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/trace"
)

var (
	configPath = flag.String("config", "", "Path to cache configuration JSON file")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	repeat     = flag.Int("repeat", 1, "number of times to replay the trace")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <trace_file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config := cache.DefaultConfig()
	if *configPath != "" {
		loaded, err := cache.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := loaded.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error validating config: %v\n", err)
			os.Exit(1)
		}
		config = loaded
	}

	tracePath := flag.Arg(0)

	// Load the trace up front so that parsing stays out of the profile
	events, err := loadTrace(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", tracePath)
	fmt.Printf("Events: %d\n", len(events))

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	start := time.Now()

	var h *cache.Hierarchy
	for i := 0; i < *repeat; i++ {
		h = cache.NewHierarchy(config)
		for _, e := range events {
			h.Request(e.Address, e.IsWrite)
		}
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	accesses := uint64(len(events)) * uint64(*repeat)

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Accesses simulated: %d\n", accesses)
	if h != nil {
		fmt.Printf("L1 miss rate: %.4f\n", h.L1().Stats().MissRate())
		fmt.Printf("Memory traffic: %d\n", h.MemoryTraffic())
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if accesses > 0 {
		fmt.Printf("Accesses/second: %.0f\n", float64(accesses)/elapsed.Seconds())
	}

	printResourceUsage()
}

func loadTrace(path string) ([]trace.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return trace.NewReader(f).ReadAll()
}

// printResourceUsage reports the CPU and memory use of this process.
func printResourceUsage() {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inspecting process: %v\n", err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading CPU usage: %v\n", err)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading memory usage: %v\n", err)
		return
	}

	fmt.Printf("CPU usage: %.1f%%\n", cpuPercent)
	fmt.Printf("Resident memory: %.1f MB\n", float64(memory.RSS)/(1024*1024))
}
