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

package mvs

import (
	"context"

	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/planner"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"go.uber.org/zap"
)

// RefreshPlan is the planned refresh of one materialized view.
type RefreshPlan struct {
	Name     string
	Relation Relation
	Result   *planner.Result
}

// OptimizeForRefresh plans the query of a materialized view refresh. A refresh has to read
// the full result, so the default limit is suppressed for this optimization only.
func OptimizeForRefresh(ctx context.Context, name string, plan base.LogicalPlan, opts ...planner.OptimizeOption) (*RefreshPlan, error) {
	opts = append(opts, planner.WithDisabledRules(rule.RootAddDefaultLimit.String()))
	res, err := planner.Optimize(ctx, plan, opts...)
	if err != nil {
		metrics.MVRefreshOptimizeErrorCounter.Inc()
		logutil.Logger(ctx).Warn("plan mv refresh failed", zap.String("mv", name), zap.Error(err))
		return nil, err
	}
	metrics.MVRefreshOptimizeOKCounter.Inc()
	return &RefreshPlan{
		Name:     name,
		Relation: CollectRelation(plan),
		Result:   res,
	}, nil
}
