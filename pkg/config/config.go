// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap/zapcore"
)

const (
	// DefMaxTasks is the default number of tasks one optimization may execute.
	DefMaxTasks = 200000
	// DefMaxDuration is the default wall clock budget of one optimization.
	DefMaxDuration = 10 * time.Second
	// DefRowCount is the row count assumed for tables whose statistics are unknown.
	// It is the same value pseudo statistics use.
	DefRowCount = 10000
	// DefStatsCacheTTL is the default time a cached table statistics snapshot stays valid.
	DefStatsCacheTTL = time.Minute
	// DefMVRefreshConcurrency is the default number of refresh plans made at the same time.
	DefMVRefreshConcurrency = 4
)

// ErrConfigValidationFailed is returned when a config file can not pass the validation.
var ErrConfigValidationFailed = errors.Normalize("config file %s contained invalid configuration options: %s", errors.RFCCodeText("Config:ValidationFailed"))

// Config contains configuration options.
type Config struct {
	Log       Log       `toml:"log" json:"log"`
	Optimizer Optimizer `toml:"optimizer" json:"optimizer"`
	Stats     Stats     `toml:"stats" json:"stats"`
	MV        MV        `toml:"mv" json:"mv"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format, one of json or text.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// Optimizer is the optimizer section of config.
type Optimizer struct {
	// MaxTasks bounds the number of tasks executed by one optimization.
	MaxTasks int `toml:"max-tasks" json:"max-tasks"`
	// MaxDuration bounds the wall clock time spent by one optimization, zero disables it.
	MaxDuration time.Duration `toml:"max-duration" json:"max-duration"`
	// DefaultRowCount is used when a table reports an unknown row count.
	DefaultRowCount float64 `toml:"default-row-count" json:"default-row-count"`
	// DefaultLimit wraps every query in a limit when it is positive.
	DefaultLimit uint64 `toml:"default-limit" json:"default-limit"`
	// DisabledRules lists rule names which are never applied.
	DisabledRules []string `toml:"disabled-rules" json:"disabled-rules"`

	CPUFactor    float64 `toml:"cpu-factor" json:"cpu-factor"`
	ScanFactor   float64 `toml:"scan-factor" json:"scan-factor"`
	MemoryFactor float64 `toml:"memory-factor" json:"memory-factor"`
	SortFactor   float64 `toml:"sort-factor" json:"sort-factor"`
}

// Stats is the statistics section of config.
type Stats struct {
	CacheTTL time.Duration `toml:"cache-ttl" json:"cache-ttl"`
}

// MV is the materialized view section of config.
type MV struct {
	// PartitionColumnAllowNull treats the partition columns of a source which writes NULL
	// values into a dedicated partition as nullable, even when the source declares them
	// NOT NULL. This allows creating materialized views over such sources, at the price of
	// the view not tracking rows written to the NULL partition.
	PartitionColumnAllowNull bool `toml:"partition-column-allow-null" json:"partition-column-allow-null"`
	// RefreshConcurrency bounds the refresh plans made at the same time.
	RefreshConcurrency int `toml:"refresh-concurrency" json:"refresh-concurrency"`
	// RefreshTimeout cancels a refresh plan running longer, zero disables it.
	RefreshTimeout time.Duration `toml:"refresh-timeout" json:"refresh-timeout"`
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	return &Config{
		Log: Log{
			Level:  logutil.DefaultLogLevel,
			Format: logutil.DefaultLogFormat,
			File:   logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
		},
		Optimizer: Optimizer{
			MaxTasks:        DefMaxTasks,
			MaxDuration:     DefMaxDuration,
			DefaultRowCount: DefRowCount,
			CPUFactor:       1.0,
			ScanFactor:      1.5,
			MemoryFactor:    2.0,
			SortFactor:      1.0,
		},
		Stats: Stats{
			CacheTTL: DefStatsCacheTTL,
		},
		MV: MV{
			PartitionColumnAllowNull: true,
			RefreshConcurrency:       DefMVRefreshConcurrency,
		},
	}
}

var globalConf = atomic.NewPointer(NewConfig())

// GetGlobalConfig returns the global configuration.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf. It mostly uses in the test to avoid some data races.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, item := range undecoded {
			keys = append(keys, item.String())
		}
		return ErrConfigValidationFailed.GenWithStackByArgs(confFile, strings.Join(keys, ", "))
	}
	return nil
}

// Valid checks if this config is valid.
func (c *Config) Valid() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Optimizer.MaxTasks <= 0 {
		return errors.Errorf("optimizer.max-tasks should be positive, got %d", c.Optimizer.MaxTasks)
	}
	if c.Optimizer.MaxDuration < 0 {
		return errors.Errorf("optimizer.max-duration should not be negative, got %s", c.Optimizer.MaxDuration)
	}
	if c.Optimizer.DefaultRowCount <= 0 {
		return errors.Errorf("optimizer.default-row-count should be positive, got %v", c.Optimizer.DefaultRowCount)
	}
	for name, factor := range map[string]float64{
		"cpu-factor":    c.Optimizer.CPUFactor,
		"scan-factor":   c.Optimizer.ScanFactor,
		"memory-factor": c.Optimizer.MemoryFactor,
		"sort-factor":   c.Optimizer.SortFactor,
	} {
		if factor <= 0 {
			return errors.Errorf("optimizer.%s should be positive, got %v", name, factor)
		}
	}
	if c.Stats.CacheTTL < 0 {
		return errors.Errorf("stats.cache-ttl should not be negative, got %s", c.Stats.CacheTTL)
	}
	if c.MV.RefreshConcurrency <= 0 {
		return errors.Errorf("mv.refresh-concurrency should be positive, got %d", c.MV.RefreshConcurrency)
	}
	if c.MV.RefreshTimeout < 0 {
		return errors.Errorf("mv.refresh-timeout should not be negative, got %s", c.MV.RefreshTimeout)
	}
	return nil
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}
