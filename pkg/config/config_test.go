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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "warn"

[optimizer]
max-tasks = 1000
max-duration = "2s"
default-row-count = 500.0
default-limit = 100
disabled-rules = ["JoinCommutativity"]

[stats]
cache-ttl = "30s"

[mv]
partition-column-allow-null = false
refresh-concurrency = 2
refresh-timeout = "5s"
`)
	conf := NewConfig()
	require.NoError(t, conf.Load(path))
	require.NoError(t, conf.Valid())
	require.Equal(t, "warn", conf.Log.Level)
	require.Equal(t, 1000, conf.Optimizer.MaxTasks)
	require.Equal(t, 2*time.Second, conf.Optimizer.MaxDuration)
	require.Equal(t, 500.0, conf.Optimizer.DefaultRowCount)
	require.Equal(t, uint64(100), conf.Optimizer.DefaultLimit)
	require.Equal(t, []string{"JoinCommutativity"}, conf.Optimizer.DisabledRules)
	require.Equal(t, 30*time.Second, conf.Stats.CacheTTL)
	require.False(t, conf.MV.PartitionColumnAllowNull)
	require.Equal(t, 2, conf.MV.RefreshConcurrency)
	require.Equal(t, 5*time.Second, conf.MV.RefreshTimeout)
	// untouched keys keep defaults.
	require.Equal(t, 1.0, conf.Optimizer.CPUFactor)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, `
[optimizer]
max-taskz = 10
`)
	conf := NewConfig()
	err := conf.Load(path)
	require.Error(t, err)
	require.True(t, ErrConfigValidationFailed.Equal(err))
	require.Contains(t, err.Error(), "optimizer.max-taskz")
}

func TestConfigValid(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Valid())
	require.True(t, conf.MV.PartitionColumnAllowNull)
	require.Equal(t, DefMVRefreshConcurrency, conf.MV.RefreshConcurrency)
	require.Zero(t, conf.MV.RefreshTimeout)

	conf.Optimizer.MaxTasks = 0
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Optimizer.DefaultRowCount = -1
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Optimizer.SortFactor = 0
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Log.Level = "verbose"
	require.Error(t, conf.Valid())
	for _, level := range []string{"debug", "info", "WARN", "error"} {
		conf.Log.Level = level
		require.NoError(t, conf.Valid(), level)
	}

	conf = NewConfig()
	conf.MV.RefreshConcurrency = 0
	require.ErrorContains(t, conf.Valid(), "mv.refresh-concurrency")

	conf = NewConfig()
	conf.MV.RefreshTimeout = -time.Second
	require.ErrorContains(t, conf.Valid(), "mv.refresh-timeout")
}

func TestGlobalConfig(t *testing.T) {
	orig := GetGlobalConfig()
	defer StoreGlobalConfig(orig)

	conf := NewConfig()
	conf.Optimizer.MaxTasks = 42
	StoreGlobalConfig(conf)
	require.Equal(t, 42, GetGlobalConfig().Optimizer.MaxTasks)
}
