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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/mvs"
	"github.com/pingcap/cascades/pkg/planner"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <scenario.toml>...",
		Short: "Plan the query of every scenario as the refresh of a materialized view",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			scenarios := make([]*scenario, 0, len(args))
			for _, path := range args {
				sc, err := loadScenario(path, &cfg.Optimizer)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, sc)
			}
			return runRefreshes(cmd.Context(), cmd.OutOrStdout(), args, scenarios, &cfg.MV)
		},
	}
}

// runRefreshes plans the scenarios on a refresh executor, the output of each scenario is
// printed in argument order once all of them finished.
func runRefreshes(ctx context.Context, w io.Writer, paths []string, scenarios []*scenario, conf *config.MV) error {
	exec := mvs.NewRefreshExecutor(ctx, conf.RefreshConcurrency, conf.RefreshTimeout)
	exec.Run()
	defer exec.Close()

	outs := make([]bytes.Buffer, len(scenarios))
	errs := make([]error, len(scenarios))
	for i, sc := range scenarios {
		name := strings.TrimSuffix(filepath.Base(paths[i]), filepath.Ext(paths[i]))
		// overwritten by the job, kept when the job is rejected or panics.
		errs[i] = errors.Errorf("refresh of %s did not finish", name)
		exec.Submit(name, func(ctx context.Context) error {
			err := runRefresh(ctx, &outs[i], name, sc, conf.PartitionColumnAllowNull)
			errs[i] = err
			return err
		})
	}
	exec.Wait()
	for i := range outs {
		if _, err := w.Write(outs[i].Bytes()); err != nil {
			return errors.Trace(err)
		}
	}
	return multierr.Combine(errs...)
}

// runRefresh prints the tables the view depends on, checks their partitions can be tracked
// and plans the refresh query.
func runRefresh(ctx context.Context, w io.Writer, name string, sc *scenario, allowNull bool) error {
	provider := newStatsProvider(sc)
	rel := mvs.CollectRelation(sc.plan)
	fmt.Fprintf(w, "materialized view: %s\n", name)
	fmt.Fprintf(w, "expanded base tables: [%s]\n", strings.Join(rel.ExpandedBaseTables, ", "))
	fmt.Fprintf(w, "direct base tables: [%s]\n", strings.Join(rel.DirectBaseTables, ", "))
	fmt.Fprintf(w, "base views: [%s]\n", strings.Join(rel.BaseViews, ", "))
	if err := mvs.CheckPartitionTracking(ctx, provider, rel, allowNull); err != nil {
		return err
	}
	refresh, err := mvs.OptimizeForRefresh(ctx, name, sc.plan,
		planner.WithStatsProvider(provider),
		planner.WithOptimizerVars(base.NewOptimizerVars(&sc.optimizer)),
		planner.WithRequiredProperty(sc.required))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, renderPlan(refresh.Result.Plan))
	printWarnings(w, refresh.Result.Diagnostics)
	return nil
}
