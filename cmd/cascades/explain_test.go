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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/cascades/pkg/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	defer config.StoreGlobalConfig(config.NewConfig())
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExplainCommand(t *testing.T) {
	path := writeFile(t, "join.toml", joinScenario)
	out, err := runCommand(t, "explain", path, "--verify", "--memo", "-L", "error")
	require.NoError(t, err)
	require.Contains(t, out, "logical plan: Join{DataScan(A)->DataScan(B)}")
	require.Contains(t, out, "StreamAgg")
	require.Contains(t, out, "└─Sort")
	require.Contains(t, out, "HashJoin")
	require.NotContains(t, out, "HashAgg")
	require.Contains(t, out, "G1")
	require.Contains(t, out, "verify: ok, 2 rows")
	require.NotContains(t, out, "warning:")
}

func TestExplainCommandWarnings(t *testing.T) {
	// B has no statistics at all.
	content := strings.Replace(joinScenario, "row-count = 10.0\n", "", 1)
	path := writeFile(t, "missing.toml", content)
	out, err := runCommand(t, "explain", path, "-L", "error")
	require.NoError(t, err)
	require.Contains(t, out, "warning:")
}

func TestExplainCommandDefaultLimit(t *testing.T) {
	content := strings.Replace(joinScenario, "[optimizer]\n", "[optimizer]\ndefault-limit = 1\n", 1)
	path := writeFile(t, "limit.toml", content)
	out, err := runCommand(t, "explain", path, "--verify", "-L", "error")
	require.NoError(t, err)
	require.Contains(t, out, "Limit")
	require.Contains(t, out, "verify: ok, 1 rows")
}

func TestExplainCommandBudget(t *testing.T) {
	content := strings.Replace(joinScenario, "[optimizer]\n", "[optimizer]\nmax-tasks = 3\n", 1)
	path := writeFile(t, "budget.toml", content)
	_, err := runCommand(t, "explain", path, "-L", "error")
	require.Error(t, err)

	_, err = runCommand(t, "explain", filepath.Join(t.TempDir(), "missing.toml"), "-L", "error")
	require.Error(t, err)
	_, err = runCommand(t, "explain", "-L", "error")
	require.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	confPath := writeFile(t, "conf.toml", `
[log]
level = "error"

[optimizer]
disabled-rules = ["JoinCommutativity"]
`)
	out, err := runCommand(t, "rules", "-C", confPath)
	require.NoError(t, err)
	var found bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "JoinCommutativity") {
			found = true
			require.Contains(t, line, "false")
			require.Contains(t, line, "transformation")
		}
		if strings.Contains(line, "ImplHashJoin") {
			require.Contains(t, line, "true")
		}
	}
	require.True(t, found)
	require.Contains(t, out, "AddDefaultLimit")

	confPath = writeFile(t, "bad.toml", "[optimizer]\ndisabled-rules = [\"NoSuchRule\"]\n")
	_, err = runCommand(t, "rules", "-C", confPath, "-L", "error")
	require.Error(t, err)
}
