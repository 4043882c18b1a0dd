// Package config loads the YAML description of a soak run: the seed and
// operation budget, CPU pinning and memory locking, one sizing block per
// container, and where reports go.
//
//	seed: 42
//	ops: 1000000
//	time_limit: 30s
//	map:
//	  table_size: 128
//	  hash: keyed
//	report:
//	  db: history.db
//
// Fields missing from the file keep their Default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one soak run over the containers.
type Config struct {
	Seed       int64    `yaml:"seed"`        // RNG seed; 0 picks one from the clock
	Ops        int      `yaml:"ops"`         // operations per container
	TimeLimit  Duration `yaml:"time_limit"`  // optional wall-clock cap, e.g. "30s"
	CPU        int      `yaml:"cpu"`         // CPU to pin to, -1 = don't pin
	LockMemory bool     `yaml:"lock_memory"` // mlock container storage

	Ring  RingConfig  `yaml:"ring"`
	List  ListConfig  `yaml:"list"`
	Map   MapConfig   `yaml:"map"`
	Pool  PoolConfig  `yaml:"pool"`
	Queue QueueConfig `yaml:"queue"`

	Report ReportConfig `yaml:"report"`
}

// RingConfig sizes the byte ring run.
type RingConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`  // bytes
	MaxChunk int  `yaml:"max_chunk"` // largest single Put/Get
}

// ListConfig sizes the intrusive list run.
type ListConfig struct {
	Enabled bool `yaml:"enabled"`
	Nodes   int  `yaml:"nodes"` // element population shared by the list
}

// MapConfig sizes the hash map run.
type MapConfig struct {
	Enabled   bool   `yaml:"enabled"`
	TableSize int    `yaml:"table_size"`
	KeySpace  int    `yaml:"key_space"` // distinct keys drawn from
	Hash      string `yaml:"hash"`      // identity | mix | keyed
	Buckets   int    `yaml:"buckets"`   // >0 folds hashes into few homes to force collisions
}

// PoolConfig sizes the object pool run.
type PoolConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// QueueConfig sizes the pointer queue run.
type QueueConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`
}

// ReportConfig selects report sinks.
type ReportConfig struct {
	JSON string `yaml:"json"` // file for the JSON report, "" = none
	DB   string `yaml:"db"`   // SQLite history database, "" = none
}

// Duration wraps time.Duration for YAML strings like "5s", "10m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a time.ParseDuration string.  An empty string is
// zero.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// MarshalYAML writes the duration in time.Duration.String form, which
// UnmarshalYAML reads back.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Hash names accepted by MapConfig.Hash.
const (
	HashIdentity = "identity"
	HashMix      = "mix"
	HashKeyed    = "keyed"
)

// ErrInvalid marks every validation failure.
var ErrInvalid = errors.New("invalid config")

// Default returns a config that exercises all five containers with small
// tables and deliberate collisions.
func Default() *Config {
	return &Config{
		Seed: 1,
		Ops:  100_000,
		CPU:  -1,
		Ring: RingConfig{Enabled: true, Capacity: 61, MaxChunk: 24},
		List: ListConfig{Enabled: true, Nodes: 32},
		Map: MapConfig{
			Enabled:   true,
			TableSize: 64,
			KeySpace:  96,
			Hash:      HashMix,
			Buckets:   13,
		},
		Pool:  PoolConfig{Enabled: true, Size: 48},
		Queue: QueueConfig{Enabled: true, Capacity: 17},
	}
}

// Load reads and validates a YAML config.  Fields absent from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks sizes against the containers' construction rules.
func (c *Config) Validate() error {
	switch {
	case c.Ops < 0:
		return invalid("ops must be >= 0, got %d", c.Ops)
	case c.TimeLimit.Duration < 0:
		return invalid("time_limit must be >= 0")
	case c.CPU < -1:
		return invalid("cpu must be -1 or a CPU index, got %d", c.CPU)
	}
	if c.Ring.Enabled {
		if c.Ring.Capacity <= 0 {
			return invalid("ring.capacity must be > 0, got %d", c.Ring.Capacity)
		}
		if c.Ring.MaxChunk <= 0 {
			return invalid("ring.max_chunk must be > 0, got %d", c.Ring.MaxChunk)
		}
	}
	if c.List.Enabled && c.List.Nodes <= 0 {
		return invalid("list.nodes must be > 0, got %d", c.List.Nodes)
	}
	if c.Map.Enabled {
		if c.Map.TableSize <= 0 {
			return invalid("map.table_size must be > 0, got %d", c.Map.TableSize)
		}
		if c.Map.KeySpace <= 0 {
			return invalid("map.key_space must be > 0, got %d", c.Map.KeySpace)
		}
		if c.Map.Buckets < 0 {
			return invalid("map.buckets must be >= 0, got %d", c.Map.Buckets)
		}
		switch c.Map.Hash {
		case HashIdentity, HashMix, HashKeyed:
		default:
			return invalid("map.hash %q: want identity, mix or keyed", c.Map.Hash)
		}
	}
	if c.Pool.Enabled && c.Pool.Size <= 0 {
		return invalid("pool.size must be > 0, got %d", c.Pool.Size)
	}
	if c.Queue.Enabled && c.Queue.Capacity <= 0 {
		return invalid("queue.capacity must be > 0, got %d", c.Queue.Capacity)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
