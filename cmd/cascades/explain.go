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
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/planner"
	"github.com/pingcap/cascades/pkg/planner/core"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/evaluator"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/cascades/pkg/statistics/handle"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type explainOptions struct {
	memo   bool
	verify bool
}

func defineExplainFlags(flags *pflag.FlagSet) {
	flags.Bool(flagMemo, false, "Dump the memo after the optimization")
	flags.Bool(flagVerify, false, "Execute the input plan and the chosen plan over the sample rows and compare the results")
}

func (o *explainOptions) parseFromFlags(flags *pflag.FlagSet) error {
	var err error
	if o.memo, err = flags.GetBool(flagMemo); err != nil {
		return errors.Trace(err)
	}
	o.verify, err = flags.GetBool(flagVerify)
	return errors.Trace(err)
}

func newExplainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <scenario.toml>",
		Short: "Optimize the plan of a scenario and print the chosen physical plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts explainOptions
			if err := opts.parseFromFlags(cmd.Flags()); err != nil {
				return err
			}
			sc, err := loadScenario(args[0], &config.GetGlobalConfig().Optimizer)
			if err != nil {
				return err
			}
			return runExplain(cmd.Context(), cmd.OutOrStdout(), sc, opts)
		},
	}
	defineExplainFlags(cmd.Flags())
	return cmd
}

func runExplain(ctx context.Context, w io.Writer, sc *scenario, opts explainOptions) error {
	fmt.Fprintf(w, "logical plan: %s\n", core.ToString(sc.plan))
	res, err := planner.Optimize(ctx, sc.plan,
		planner.WithStatsProvider(newStatsProvider(sc)),
		planner.WithOptimizerVars(base.NewOptimizerVars(&sc.optimizer)),
		planner.WithRequiredProperty(sc.required))
	if res != nil && res.Plan != nil {
		if err != nil {
			fmt.Fprintln(w, "the optimization stopped early, the best plan found so far:")
		}
		fmt.Fprintln(w, renderPlan(res.Plan))
	}
	if err != nil {
		return err
	}
	printWarnings(w, res.Diagnostics)
	if opts.memo {
		fmt.Fprint(w, res.Memo.String())
	}
	if opts.verify {
		rows, err := verifyPlan(sc, res.Plan)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "verify: ok, %d rows\n", rows)
	}
	return nil
}

// newStatsProvider puts the statistics of the scenario behind the statistics cache, the way a
// long running planner reads them.
func newStatsProvider(sc *scenario) statistics.Provider {
	return handle.NewCachedProvider(sc.stats, config.GetGlobalConfig().Stats.CacheTTL, 0)
}

func printWarnings(w io.Writer, diagnostics error) {
	for _, fault := range multierr.Errors(diagnostics) {
		fmt.Fprintf(w, "warning: %v\n", fault)
	}
}

// renderPlan renders the physical plan as a table, one operator per row.
func renderPlan(p base.PhysicalPlan) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"id", "estRows", "estCost", "operator info"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "estRows", Align: text.AlignRight},
		{Name: "estCost", Align: text.AlignRight},
	})
	appendPlanRows(t, p, "", true, true)
	return t.Render()
}

func appendPlanRows(t table.Writer, p base.PhysicalPlan, indent string, isLast, isRoot bool) {
	id := p.TP()
	childIndent := indent
	if !isRoot {
		if isLast {
			id = indent + "└─" + id
			childIndent += "  "
		} else {
			id = indent + "├─" + id
			childIndent += "│ "
		}
	}
	estRows := "N/A"
	if stats := p.StatsInfo(); stats != nil {
		estRows = strconv.FormatFloat(stats.RowCount, 'f', 2, 64)
	}
	t.AppendRow(table.Row{id, estRows, strconv.FormatFloat(p.Cost(), 'f', 2, 64), p.ExplainInfo()})
	children := p.Children()
	for i, child := range children {
		appendPlanRows(t, child, childIndent, i == len(children)-1, false)
	}
}

// verifyPlan executes both plans over the sample rows. The results are compared as
// multisets, the order is checked against the required property only. A limit added on
// top of the chosen plan only has to return a part of the rows.
func verifyPlan(sc *scenario, physical base.PhysicalPlan) (int, error) {
	cols := sc.plan.Schema().Columns
	expectedRows, err := evaluator.EvalLogical(sc.plan, sc.data)
	if err != nil {
		return 0, err
	}
	actualRows, err := evaluator.EvalPhysical(physical, sc.data)
	if err != nil {
		return 0, err
	}
	if !sc.required.IsSortItemEmpty() && !evaluator.IsSorted(actualRows, sc.required.SortItems) {
		return 0, errors.Errorf("the result isn't ordered by %s", sc.required)
	}
	expected := evaluator.Format(expectedRows, cols, false)
	actual := evaluator.Format(actualRows, cols, false)
	_, limited := sc.plan.(*logicalop.LogicalLimit)
	if limit, ok := physical.(*physicalop.PhysicalLimit); ok && !limited {
		if uint64(len(actual)) != min(uint64(len(expected)), limit.Count) || !isSubMultiset(actual, expected) {
			return 0, mismatch(expected, actual)
		}
		return len(actual), nil
	}
	if !slices.Equal(expected, actual) {
		return 0, mismatch(expected, actual)
	}
	return len(actual), nil
}

// isSubMultiset checks whether every row of sub appears in rows, both are sorted.
func isSubMultiset(sub, rows []string) bool {
	i := 0
	for _, row := range rows {
		if i < len(sub) && sub[i] == row {
			i++
		}
	}
	return i == len(sub)
}

func mismatch(expected, actual []string) error {
	logutil.BgLogger().Warn("the chosen plan returns different rows",
		zap.Strings("expected", expected),
		zap.Strings("actual", actual))
	return errors.Errorf("the chosen plan returns %d rows, the input plan returns %d rows", len(actual), len(expected))
}
