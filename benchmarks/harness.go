// Package benchmarks runs synthetic memory workloads through a cache
// hierarchy and reports how each configuration copes with them.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/latency"
	"github.com/sarchlab/cachesim/trace"
)

// BenchmarkResult holds the counters of a single workload run.
type BenchmarkResult struct {
	// Name identifies the workload
	Name string `json:"name"`

	// Description explains what the workload stresses
	Description string `json:"description"`

	// Accesses is the number of trace events replayed
	Accesses uint64 `json:"accesses"`

	L1Reads       uint64  `json:"l1_reads"`
	L1ReadMisses  uint64  `json:"l1_read_misses"`
	L1Writes      uint64  `json:"l1_writes"`
	L1WriteMisses uint64  `json:"l1_write_misses"`
	L1MissRate    float64 `json:"l1_miss_rate"`
	L1Writebacks  uint64  `json:"l1_writebacks"`
	L1Prefetches  uint64  `json:"l1_prefetches"`

	// L2 counters stay zero without an L2
	L2Reads       uint64  `json:"l2_reads,omitempty"`
	L2ReadMisses  uint64  `json:"l2_read_misses,omitempty"`
	L2Writes      uint64  `json:"l2_writes,omitempty"`
	L2WriteMisses uint64  `json:"l2_write_misses,omitempty"`
	L2MissRate    float64 `json:"l2_miss_rate,omitempty"`
	L2Writebacks  uint64  `json:"l2_writebacks,omitempty"`
	L2Prefetches  uint64  `json:"l2_prefetches,omitempty"`

	// MemoryTraffic is the number of blocks moved to or from main memory
	MemoryTraffic uint64 `json:"memory_traffic"`

	// AverageAccessTime is the estimated cycles per demand access
	AverageAccessTime float64 `json:"average_access_time"`

	// WallTime is the actual time taken to replay the workload
	WallTime time.Duration `json:"wall_time_ns"`
}

// Workload is a named sequence of memory accesses.
type Workload struct {
	// Name identifies the workload
	Name string

	// Description explains what the workload stresses
	Description string

	// Events is the access sequence to replay
	Events []trace.Event
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Cache is the hierarchy every workload runs on
	Cache *cache.Config

	// Timing gives the latencies used to estimate access times
	Timing *latency.TimingConfig

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose prints a line before each workload
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Cache:   cache.DefaultConfig(),
		Timing:  latency.DefaultTimingConfig(),
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs workloads and reports results.
type Harness struct {
	config    HarnessConfig
	timing    *latency.Table
	workloads []Workload
}

// NewHarness creates a new benchmark harness. It panics if the cache or
// timing configuration is invalid.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Cache == nil {
		config.Cache = cache.DefaultConfig()
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	if err := config.Cache.Validate(); err != nil {
		panic(fmt.Errorf("invalid cache config: %w", err))
	}
	if err := config.Timing.Validate(); err != nil {
		panic(fmt.Errorf("invalid timing config: %w", err))
	}

	return &Harness{
		config:    config,
		timing:    latency.NewTableWithConfig(config.Timing),
		workloads: []Workload{},
	}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll executes all workloads and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.workloads))

	for _, w := range h.workloads {
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "Running %s (%d accesses)\n",
				w.Name, len(w.Events))
		}

		results = append(results, h.runWorkload(w))
	}

	return results
}

// runWorkload replays a workload on a fresh hierarchy.
func (h *Harness) runWorkload(w Workload) BenchmarkResult {
	hierarchy := cache.NewHierarchy(h.config.Cache)

	start := time.Now()
	for _, e := range w.Events {
		hierarchy.Request(e.Address, e.IsWrite)
	}
	wallTime := time.Since(start)

	l1 := hierarchy.L1().Stats()
	result := BenchmarkResult{
		Name:          w.Name,
		Description:   w.Description,
		Accesses:      uint64(len(w.Events)),
		L1Reads:       l1.Reads,
		L1ReadMisses:  l1.ReadMisses,
		L1Writes:      l1.Writes,
		L1WriteMisses: l1.WriteMisses,
		L1MissRate:    l1.MissRate(),
		L1Writebacks:  l1.Writebacks,
		L1Prefetches:  l1.Prefetches,
		MemoryTraffic: hierarchy.MemoryTraffic(),
		WallTime:      wallTime,

		AverageAccessTime: h.timing.AverageAccessTime(hierarchy),
	}

	if l2Level := hierarchy.L2(); l2Level != nil {
		l2 := l2Level.Stats()
		result.L2Reads = l2.Reads
		result.L2ReadMisses = l2.ReadMisses
		result.L2Writes = l2.Writes
		result.L2WriteMisses = l2.WriteMisses
		result.L2MissRate = l2.MissRate()
		result.L2Writebacks = l2.Writebacks
		result.L2Prefetches = l2.Prefetches
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Cache Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Workload: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Accesses: %d\n", r.Accesses)
		_, _ = fmt.Fprintln(h.config.Output, "  --- L1 ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Reads:        %d\n", r.L1Reads)
		_, _ = fmt.Fprintf(h.config.Output, "  Read Misses:  %d\n", r.L1ReadMisses)
		_, _ = fmt.Fprintf(h.config.Output, "  Writes:       %d\n", r.L1Writes)
		_, _ = fmt.Fprintf(h.config.Output, "  Write Misses: %d\n", r.L1WriteMisses)
		_, _ = fmt.Fprintf(h.config.Output, "  Miss Rate:    %.4f\n", r.L1MissRate)
		_, _ = fmt.Fprintf(h.config.Output, "  Writebacks:   %d\n", r.L1Writebacks)
		if r.L1Prefetches > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Prefetches:   %d\n", r.L1Prefetches)
		}

		if r.L2Reads > 0 || r.L2Writes > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- L2 ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Reads:        %d\n", r.L2Reads)
			_, _ = fmt.Fprintf(h.config.Output, "  Read Misses:  %d\n", r.L2ReadMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Writes:       %d\n", r.L2Writes)
			_, _ = fmt.Fprintf(h.config.Output, "  Write Misses: %d\n", r.L2WriteMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Miss Rate:    %.4f\n", r.L2MissRate)
			_, _ = fmt.Fprintf(h.config.Output, "  Writebacks:   %d\n", r.L2Writebacks)
			if r.L2Prefetches > 0 {
				_, _ = fmt.Fprintf(h.config.Output, "  Prefetches:   %d\n", r.L2Prefetches)
			}
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Memory Traffic: %d\n", r.MemoryTraffic)
		_, _ = fmt.Fprintf(h.config.Output, "  Avg Access Time: %.2f cycles\n", r.AverageAccessTime)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,accesses,l1_reads,l1_read_misses,l1_writes,l1_write_misses,l1_miss_rate,l1_writebacks,l1_prefetches,l2_reads,l2_read_misses,l2_writes,l2_write_misses,l2_miss_rate,l2_writebacks,l2_prefetches,memory_traffic,average_access_time")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%.4f,%d,%d,%d,%d,%d,%d,%.4f,%d,%d,%d,%.2f\n",
			r.Name,
			r.Accesses,
			r.L1Reads,
			r.L1ReadMisses,
			r.L1Writes,
			r.L1WriteMisses,
			r.L1MissRate,
			r.L1Writebacks,
			r.L1Prefetches,
			r.L2Reads,
			r.L2ReadMisses,
			r.L2Writes,
			r.L2WriteMisses,
			r.L2MissRate,
			r.L2Writebacks,
			r.L2Prefetches,
			r.MemoryTraffic,
			r.AverageAccessTime,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual workload results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Config is the hierarchy the workloads ran on
	Config cache.Config `json:"config"`

	// Timing gives the latencies behind the access time estimates
	Timing latency.TimingConfig `json:"timing"`
}

// ReportSummary contains aggregate statistics across all workloads.
type ReportSummary struct {
	// TotalBenchmarks is the number of workloads run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalAccesses is the sum of all replayed events
	TotalAccesses uint64 `json:"total_accesses"`

	// L1MissRate is the miss rate over every L1 access of every workload
	L1MissRate float64 `json:"l1_miss_rate"`

	// TotalMemoryTraffic is the sum of all memory traffic
	TotalMemoryTraffic uint64 `json:"total_memory_traffic"`

	// TotalWallTime is the total wall clock time for all workloads
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Version is reported in the JSON metadata.
const Version = "0.1.0"

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalAccesses, totalMisses, totalTraffic uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalAccesses += r.L1Reads + r.L1Writes
		totalMisses += r.L1ReadMisses + r.L1WriteMisses
		totalTraffic += r.MemoryTraffic
		totalWallTime += r.WallTime
	}

	missRate := float64(0)
	if totalAccesses > 0 {
		missRate = float64(totalMisses) / float64(totalAccesses)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Config:    *h.config.Cache,
			Timing:    *h.config.Timing,
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:    len(results),
			TotalAccesses:      totalAccesses,
			L1MissRate:         missRate,
			TotalMemoryTraffic: totalTraffic,
			TotalWallTime:      totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
