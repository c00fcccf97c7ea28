package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the latency of each level of the memory hierarchy.
type TimingConfig struct {
	// L1HitLatency is the L1 cache hit latency.
	// Default: 4 cycles.
	L1HitLatency uint64 `json:"l1_hit_latency"`

	// L2HitLatency is the L2 cache hit latency.
	// Default: 12 cycles.
	L2HitLatency uint64 `json:"l2_hit_latency"`

	// MemoryLatency is the main memory access latency.
	// Default: 150 cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with typical desktop values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		L1HitLatency:  4,
		L2HitLatency:  12,
		MemoryLatency: 150,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0) and that every
// level is slower than the one above it.
func (c *TimingConfig) Validate() error {
	if c.L1HitLatency == 0 {
		return fmt.Errorf("l1_hit_latency must be > 0")
	}
	if c.L2HitLatency == 0 {
		return fmt.Errorf("l2_hit_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.L1HitLatency > c.L2HitLatency {
		return fmt.Errorf("l1_hit_latency must be <= l2_hit_latency")
	}
	if c.L2HitLatency > c.MemoryLatency {
		return fmt.Errorf("l2_hit_latency must be <= memory_latency")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		L1HitLatency:  c.L1HitLatency,
		L2HitLatency:  c.L2HitLatency,
		MemoryLatency: c.MemoryLatency,
	}
}
