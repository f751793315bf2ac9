package shipper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pbnjay/memory"
	"gopkg.in/yaml.v3"

	"logship/internal/global"
)

// Loads config from file, YAML for .yaml/.yml and JSON otherwise
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configFile, &cfg)
	default:
		err = json.Unmarshal(configFile, &cfg)
	}
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}
	return
}

// Config with every default applied
func DefaultConfig() (config Config) {
	config.MaxRetries = global.DefaultMaxRetries
	config.StateDir = global.DefaultStateDir
	config.setDefaults()
	return
}

// Parses file config into daemon config
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	config = DefaultConfig()

	config.SourcePath = cfg.Source.Path
	config.Follow = cfg.Source.Follow
	config.MaxRecordSize = cfg.Source.MaxRecordSize
	config.ReadBufferSize = cfg.Source.ReadBufferSize
	config.Outputs = cfg.Outputs
	config.QueueCapacity = cfg.QueueCapacity
	if cfg.StateDir != "" {
		config.StateDir = cfg.StateDir
	}
	if cfg.Network.MaxRetries != nil {
		config.MaxRetries = *cfg.Network.MaxRetries
	}

	durations := []struct {
		name  string
		raw   string
		value *time.Duration
	}{
		{"source poll interval", cfg.Source.PollInterval, &config.PollInterval},
		{"drain timeout", cfg.DrainTimeout, &config.DrainTimeout},
		{"checkpoint interval", cfg.CheckpointInterval, &config.CheckpointInterval},
		{"network emit timeout", cfg.Network.EmitTimeout, &config.EmitTimeout},
		{"network dial timeout", cfg.Network.DialTimeout, &config.DialTimeout},
		{"metric collection interval", cfg.Metrics.Interval, &config.MetricCollectionInterval},
		{"metric max age", cfg.Metrics.MaxAge, &config.MetricMaxAge},
	}
	for _, duration := range durations {
		if duration.raw == "" {
			*duration.value = 0
			continue
		}
		*duration.value, err = time.ParseDuration(duration.raw)
		if err != nil {
			err = fmt.Errorf("failed to parse %s: %w", duration.name, err)
			return
		}
		if *duration.value < 0 {
			err = fmt.Errorf("%s must not be negative, got %s", duration.name, duration.raw)
			return
		}
	}

	config.MetricsEnabled = cfg.Metrics.Enabled || cfg.Metrics.EnableQueryServer
	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort

	config.setDefaults()
	return
}

// Sets defaults for any missing/invalid values
func (cfg *Config) setDefaults() {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = global.DefaultPollInterval
	}
	if cfg.MaxRecordSize <= 0 {
		cfg.MaxRecordSize = global.DefaultMaxRecordSize
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = global.DefaultReadBufferSize
	}
	if len(cfg.Outputs) == 0 {
		cfg.Outputs = []string{"console"}
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = global.DefaultQueueCapacity
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = global.DefaultDrainTimeout
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = global.DefaultCheckpointInterval
	}
	if cfg.EmitTimeout <= 0 {
		cfg.EmitTimeout = global.DefaultEmitTimeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = global.DefaultDialTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.StateDir == "" {
		cfg.StateDir = global.DefaultStateDir
	}

	if cfg.MetricQueryServerEnabled {
		cfg.MetricsEnabled = true
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPort
	}
	if cfg.MetricCollectionInterval <= 0 {
		cfg.MetricCollectionInterval = global.DefaultMetricInterval
	}
	if cfg.MetricMaxAge <= 0 {
		cfg.MetricMaxAge = global.DefaultMetricMaxAge
	}
}

// Checks field combinations that defaults cannot fix
func (cfg Config) validate() (err error) {
	if cfg.SourcePath == "" {
		err = fmt.Errorf("no source file path given")
		return
	}
	if cfg.HasStartOffset && cfg.StartOffset < 0 {
		err = fmt.Errorf("start offset must not be negative, got %d", cfg.StartOffset)
		return
	}
	return
}

// Worst case bytes held by queued and in-flight records: one queue per output
func (cfg Config) queueMemoryBound() (bound uint64) {
	queues := uint64(len(cfg.Outputs))
	bound = queues * uint64(cfg.QueueCapacity) * uint64(cfg.MaxRecordSize)
	return
}

// Reports whether the queue bound fits in free system memory. Unknown free memory passes.
func (cfg Config) checkQueueMemory() (bound, available uint64, fits bool) {
	bound = cfg.queueMemoryBound()
	available = memory.FreeMemory()
	fits = available == 0 || bound <= available
	return
}
