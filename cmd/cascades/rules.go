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
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/ruleset"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the optimizer rules and whether they are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs := ruleset.NewRuleSet()
			if _, err := rs.Disable(config.GetGlobalConfig().Optimizer.DisabledRules...); err != nil {
				return err
			}
			printRules(cmd.OutOrStdout(), rs)
			return nil
		},
	}
}

type ruleRow struct {
	id      uint
	name    string
	kind    string
	operand string
}

func printRules(w io.Writer, rs *ruleset.RuleSet) {
	var rows []ruleRow
	for operand, rules := range ruleset.DefaultTransformationRules {
		for _, r := range rules {
			rows = append(rows, ruleRow{r.ID(), r.String(), "transformation", operand.String()})
		}
	}
	for operand, rules := range ruleset.DefaultImplementationRules {
		for _, r := range rules {
			rows = append(rows, ruleRow{r.ID(), r.String(), "implementation", operand.String()})
		}
	}
	for _, r := range ruleset.DefaultRootRules {
		rows = append(rows, ruleRow{r.ID(), r.String(), "root", pattern.OperandAny.String()})
	}
	slices.SortFunc(rows, func(a, b ruleRow) int {
		return cmp.Compare(a.id, b.id)
	})

	t := table.NewWriter()
	t.AppendHeader(table.Row{"rule", "kind", "operand", "enabled"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.name, row.kind, row.operand, !rs.IsDisabled(rule.Type(row.id))})
	}
	fmt.Fprintln(w, t.Render())
}
