package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the parameters of a simulated hierarchy.
type Config struct {
	// BlockSize is the line size shared by every level, in bytes.
	BlockSize uint32 `json:"block_size"`

	// L1Size and L1Assoc shape the first level.
	L1Size  uint32 `json:"l1_size"`
	L1Assoc uint32 `json:"l1_assoc"`

	// L2Size and L2Assoc shape the second level. L2Size 0 means no L2.
	L2Size  uint32 `json:"l2_size"`
	L2Assoc uint32 `json:"l2_assoc"`

	// PrefN is the number of stream buffers and PrefM the blocks each one
	// holds. Either one being 0 disables prefetching.
	PrefN uint32 `json:"pref_n"`
	PrefM uint32 `json:"pref_m"`
}

// DefaultConfig returns a 8KB 4-way L1 over a 256KB 8-way L2 with three
// 10-block stream buffers, all with 32B lines.
func DefaultConfig() *Config {
	return &Config{
		BlockSize: 32,
		L1Size:    8192,
		L1Assoc:   4,
		L2Size:    262144,
		L2Assoc:   8,
		PrefN:     3,
		PrefM:     10,
	}
}

// HasL2 tells whether the hierarchy has a second level.
func (c *Config) HasL2() bool {
	return c.L2Size != 0
}

// PrefetchEnabled tells whether stream buffers are attached.
func (c *Config) PrefetchEnabled() bool {
	return c.PrefN != 0 && c.PrefM != 0
}

// L1Geometry returns the shape of the first level.
func (c *Config) L1Geometry() Geometry {
	return Geometry{
		BlockSize:     c.BlockSize,
		Size:          c.L1Size,
		Associativity: c.L1Assoc,
	}
}

// L2Geometry returns the shape of the second level.
func (c *Config) L2Geometry() Geometry {
	return Geometry{
		BlockSize:     c.BlockSize,
		Size:          c.L2Size,
		Associativity: c.L2Assoc,
	}
}

// LoadConfig loads a Config from a JSON file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}

// Validate checks that every configured level has a decodable geometry.
func (c *Config) Validate() error {
	if err := c.L1Geometry().Validate(); err != nil {
		return fmt.Errorf("l1: %w", err)
	}
	if c.HasL2() {
		if err := c.L2Geometry().Validate(); err != nil {
			return fmt.Errorf("l2: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
