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

package memo

import (
	"container/list"
	"fmt"
	"slices"
	"strconv"
	"strings"

	base2 "github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/util"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// Memo is the main structure of the memo package.
type Memo struct {
	// groupIDGen is the incremental group id for internal usage.
	groupIDGen *GroupIDGenerator

	// rootGroup is the root group of the memo.
	rootGroup GroupID

	// groups is the list of all groups in the memo.
	groups *list.List

	// groupID2Group is the map from group id to group.
	groupID2Group map[GroupID]*list.Element

	// mergedInto redirects the id of a merged group to the group it is merged into.
	mergedInto map[GroupID]GroupID

	// hash2GroupExpr is the map from hash to the logical group expressions, collisions
	// are told apart by Equals.
	hash2GroupExpr map[uint64][]*GroupExpression

	// hasher is the pointer of hasher.
	hasher base2.Hasher
}

// NewMemo creates a new memo.
func NewMemo() *Memo {
	return &Memo{
		groupIDGen:     &GroupIDGenerator{id: 0},
		groups:         list.New(),
		groupID2Group:  make(map[GroupID]*list.Element),
		mergedInto:     make(map[GroupID]GroupID),
		hash2GroupExpr: make(map[uint64][]*GroupExpression),
		hasher:         base2.NewHashEqualer(),
	}
}

// GetHasher gets a hasher from the memo that ready to use.
func (mm *Memo) GetHasher() base2.Hasher {
	mm.hasher.Reset()
	return mm.hasher
}

// CopyIn copies a MemoExpression representation into the memo with format as GroupExpression inside.
// The generic logical forest inside memo is represented as memo group expression tree, while for entering
// and re-feeding the memo, we use the memoExpression as the currency：
//
// entering(init memo)
//
//	  lp                          ┌──────────┐
//	 /  \                         │ memo:    │
//	lp   lp       --copyIN->      │  G(ge)   │
//	    /  \                      │   /  \   │
//	  ...  ...                    │  G    G  │
//	                              └──────────┘
//
// re-feeding (intake XForm output)
//
//	  lp                          ┌──────────┐
//	 /  \                         │ memo:    │
//	GE  lp        --copyIN->      │  G(ge)   │
//	     |                        │   /  \   │
//	    GE                        │  G    G  │
//	                              └──────────┘
//
// A bare GroupExpression as lp stands for its whole group: when it is copied into another
// target group, the two groups are proven equivalent and merged.
func (mm *Memo) CopyIn(target *Group, lp base.LogicalPlan) (*GroupExpression, error) {
	if ge, ok := lp.(*GroupExpression); ok {
		if ge.IsAbandoned() || ge.group == nil {
			return nil, errors.Errorf("group expression %s is not in the memo", ge)
		}
		if target != nil && mm.Find(target.GroupID) != mm.Find(ge.group.GroupID) {
			if err := mm.MergeGroup(target, ge.group); err != nil {
				return nil, err
			}
		}
		return ge, nil
	}
	// Group the children first.
	inputs := make([]GroupID, 0, len(lp.Children()))
	for _, child := range lp.Children() {
		childGE, err := mm.CopyIn(nil, child)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, mm.Find(childGE.group.GroupID))
	}
	if target != nil {
		target = mm.GetGroup(target.GroupID)
		if slices.Contains(inputs, target.GroupID) {
			return nil, errors.Errorf("%s references its own group G%d", lp.TP(), target.GroupID)
		}
		if !lp.Schema().SameColumnSet(target.LogicalProp.Schema) {
			return nil, errors.Errorf("%s produces schema %s, group G%d expects %s",
				lp.TP(), lp.Schema(), target.GroupID, target.LogicalProp.Schema)
		}
	}
	groupExpr := NewGroupExpression(lp, inputs)
	ge, _, err := mm.InsertGroupExpression(groupExpr, target)
	return ge, err
}

// InsertGroupExpression insert ge into a target group, a nil target means a new group.
// When an equal expression already exists, the existing one is returned and the two
// groups are merged if they differ. @bool indicates whether groupExpr itself is inserted.
func (mm *Memo) InsertGroupExpression(groupExpr *GroupExpression, target *Group) (*GroupExpression, bool, error) {
	for i, id := range groupExpr.Inputs {
		groupExpr.Inputs[i] = mm.Find(id)
		if _, ok := mm.groupID2Group[groupExpr.Inputs[i]]; !ok {
			return nil, false, errors.Errorf("input group G%d doesn't exist", id)
		}
	}
	groupExpr.Init(mm.GetHasher())
	if existing := mm.lookup(groupExpr); existing != nil {
		if target != nil && mm.Find(target.GroupID) != mm.Find(existing.group.GroupID) {
			if err := mm.MergeGroup(target, existing.group); err != nil {
				return nil, false, err
			}
		}
		return existing, false, nil
	}
	if target == nil {
		target = mm.NewGroup(property.NewLogicalProp(groupExpr.LogicalPlan.Schema()))
	} else {
		target = mm.GetGroup(target.GroupID)
	}
	target.Insert(groupExpr)
	mm.hash2GroupExpr[groupExpr.hash64] = append(mm.hash2GroupExpr[groupExpr.hash64], groupExpr)
	return groupExpr, true, nil
}

// InsertPhysical adds a physical expression over the input groups into the group.
func (mm *Memo) InsertPhysical(g *Group, pp base.PhysicalPlan, inputs []GroupID) *GroupExpression {
	ge := NewPhysicalGroupExpression(pp, slices.Clone(inputs))
	mm.GetGroup(g.GroupID).InsertPhysical(ge)
	return ge
}

func (mm *Memo) lookup(ge *GroupExpression) *GroupExpression {
	for _, candidate := range mm.hash2GroupExpr[ge.hash64] {
		if candidate != ge && candidate.Equals(ge) {
			return candidate
		}
	}
	return nil
}

func (mm *Memo) removeFromIndex(ge *GroupExpression) {
	bucket := mm.hash2GroupExpr[ge.hash64]
	bucket = slices.DeleteFunc(bucket, func(e *GroupExpression) bool { return e == ge })
	if len(bucket) == 0 {
		delete(mm.hash2GroupExpr, ge.hash64)
	} else {
		mm.hash2GroupExpr[ge.hash64] = bucket
	}
}

// NewGroup creates a new group.
func (mm *Memo) NewGroup(prop *property.LogicalProperty) *Group {
	group := NewGroup(prop)
	group.GroupID = mm.groupIDGen.NextGroupID()
	mm.groupID2Group[group.GroupID] = mm.groups.PushBack(group)
	return group
}

// Find returns the id of the group that the id is currently merged into.
func (mm *Memo) Find(id GroupID) GroupID {
	root := id
	for {
		next, ok := mm.mergedInto[root]
		if !ok {
			break
		}
		root = next
	}
	// path compression.
	for id != root {
		next := mm.mergedInto[id]
		mm.mergedInto[id] = root
		id = next
	}
	return root
}

// GetGroup returns the live group of the id, following the merges.
func (mm *Memo) GetGroup(id GroupID) *Group {
	elem, ok := mm.groupID2Group[mm.Find(id)]
	if !ok {
		return nil
	}
	return elem.Value.(*Group)
}

type groupPair struct {
	a, b GroupID
}

// MergeGroup merges two equivalent groups. The group with the bigger id is merged into the
// other one and every expression referencing it is re-canonicalized, which may reveal new
// duplicates and therefore cascade into further merges. Expressions which end up
// referencing their own group are dropped.
func (mm *Memo) MergeGroup(g1, g2 *Group) error {
	worklist := []groupPair{{g1.GroupID, g2.GroupID}}
	for len(worklist) > 0 {
		pair := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		to, from := mm.Find(pair.a), mm.Find(pair.b)
		if to == from {
			continue
		}
		if to > from {
			to, from = from, to
		}
		dst, src := mm.GetGroup(to), mm.GetGroup(from)
		if !src.LogicalProp.Schema.SameColumnSet(dst.LogicalProp.Schema) {
			return errors.Errorf("can't merge group G%d%s into G%d%s", from, src.LogicalProp.Schema, to, dst.LogicalProp.Schema)
		}
		logutil.BgLogger().Debug("merge memo groups", zap.Uint64("from", uint64(from)), zap.Uint64("to", uint64(to)))

		mm.mergedInto[from] = to
		mm.groups.Remove(mm.groupID2Group[from])
		delete(mm.groupID2Group, from)
		if mm.rootGroup == from {
			mm.rootGroup = to
		}
		for _, ge := range src.GetLogicalExpressions() {
			src.Delete(ge)
			dst.Insert(ge)
		}
		for _, ge := range src.PhysicalExpressions {
			dst.InsertPhysical(ge)
		}
		for _, w := range src.winners {
			dst.UpdateWinner(w)
		}
		if dst.GetStats() == nil {
			dst.LogicalProp.Stats = src.GetStats()
		}
		dst.Explored = false
		dst.resetOptimized()
		worklist = append(worklist, mm.recanonicalize(from, to)...)
	}
	return nil
}

// recanonicalize rewrites every expression referencing the group from to the group to.
// It returns the pairs of groups which are found equivalent on the way.
func (mm *Memo) recanonicalize(from, to GroupID) []groupPair {
	var pairs []groupPair
	mm.ForEachGroup(func(g *Group) bool {
		for _, ge := range g.GetLogicalExpressions() {
			if !slices.Contains(ge.Inputs, from) && !slices.Contains(ge.Inputs, g.GroupID) {
				continue
			}
			mm.removeFromIndex(ge)
			g.Delete(ge)
			for i, id := range ge.Inputs {
				ge.Inputs[i] = mm.Find(id)
			}
			if slices.Contains(ge.Inputs, g.GroupID) {
				// a self loop carries no plan.
				ge.abandoned = true
				continue
			}
			ge.Init(mm.GetHasher())
			if existing := mm.lookup(ge); existing != nil {
				ge.abandoned = true
				if existing.group != g {
					pairs = append(pairs, groupPair{existing.group.GroupID, g.GroupID})
				}
				continue
			}
			g.Insert(ge)
			mm.hash2GroupExpr[ge.hash64] = append(mm.hash2GroupExpr[ge.hash64], ge)
		}
		g.PhysicalExpressions = slices.DeleteFunc(g.PhysicalExpressions, func(ge *GroupExpression) bool {
			for i, id := range ge.Inputs {
				ge.Inputs[i] = mm.Find(id)
			}
			if slices.Contains(ge.Inputs, g.GroupID) {
				ge.abandoned = true
				return true
			}
			return false
		})
		removed := false
		for key, w := range g.winners {
			if w.Expr != nil && w.Expr.abandoned {
				delete(g.winners, key)
				removed = true
			}
		}
		if removed {
			// enforcers sit on top of the unordered winner.
			for key, w := range g.winners {
				if w.Enforcer != nil {
					delete(g.winners, key)
				}
			}
		}
		return true
	})
	return pairs
}

// GetGroups gets all groups in the memo.
func (mm *Memo) GetGroups() *list.List {
	return mm.groups
}

// GetRootGroup gets the root group of the memo.
func (mm *Memo) GetRootGroup() *Group {
	return mm.GetGroup(mm.rootGroup)
}

// Init initializes the memo with a logical plan, converting logical plan tree format into group tree.
func (mm *Memo) Init(plan base.LogicalPlan) (*GroupExpression, error) {
	if mm.groups.Len() != 0 {
		return nil, errors.New("memo has already been initialized")
	}
	gE, err := mm.CopyIn(nil, plan)
	if err != nil {
		return nil, err
	}
	mm.rootGroup = gE.group.GroupID
	return gE, nil
}

// ForEachGroup traverse the inside group expression with f call on them each.
func (mm *Memo) ForEachGroup(f func(g *Group) bool) {
	var next bool
	for elem := mm.GetGroups().Front(); elem != nil; elem = elem.Next() {
		expr := elem.Value.(*Group)
		next = f(expr)
		if !next {
			break
		}
	}
}

// BestPlan builds the winning physical plan tree of the group for the required property.
func (mm *Memo) BestPlan(id GroupID, prop *property.PhysicalProperty) (base.PhysicalPlan, error) {
	g := mm.GetGroup(id)
	if g == nil {
		return nil, plannererrors.ErrPlanNotFound.GenWithStackByArgs(uint64(id), prop.String())
	}
	w := g.GetWinner(prop)
	if w == nil {
		return nil, plannererrors.ErrPlanNotFound.GenWithStackByArgs(uint64(g.GroupID), prop.String())
	}
	var plan base.PhysicalPlan
	var inputs []GroupID
	if w.Enforcer != nil {
		plan = w.Enforcer.Clone()
		inputs = []GroupID{g.GroupID}
	} else {
		plan = w.Expr.PhysicalPlan.Clone()
		inputs = w.Expr.Inputs
	}
	children := make([]base.PhysicalPlan, 0, len(inputs))
	for i, input := range inputs {
		child, err := mm.BestPlan(input, w.ChildProps[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	plan.SetChildren(children...)
	plan.SetStats(g.GetStats())
	plan.SetCost(w.Cost)
	return plan, nil
}

// Dump writes the memo into w, one group after another with its members and winners.
func (mm *Memo) Dump(w util.StrBufferWriter) {
	mm.ForEachGroup(func(g *Group) bool {
		w.WriteString("G" + strconv.FormatUint(uint64(g.GroupID), 10))
		if g.GroupID == mm.rootGroup {
			w.WriteString(" (root)")
		}
		w.WriteString(" schema:" + g.LogicalProp.Schema.String())
		if stats := g.GetStats(); stats != nil {
			w.WriteString(fmt.Sprintf(" rows:%.2f", stats.RowCount))
		}
		w.WriteString("\n")
		g.ForEachGE(func(ge *GroupExpression) bool {
			w.WriteString("  logical: " + ge.String() + "\n")
			return true
		})
		for _, ge := range g.PhysicalExpressions {
			w.WriteString("  physical: " + ge.String() + "\n")
		}
		keys := make([]string, 0, len(g.winners))
		for key := range g.winners {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			winner := g.winners[key]
			var name string
			if winner.Enforcer != nil {
				name = winner.Enforcer.TP() + "(enforcer)"
			} else {
				name = winner.Expr.String()
			}
			w.WriteString(fmt.Sprintf("  winner %s: %s cost:%.2f\n", winner.Prop, name, winner.Cost))
		}
		return true
	})
}

// String implements the fmt.Stringer interface.
func (mm *Memo) String() string {
	var b strings.Builder
	mm.Dump(&b)
	return b.String()
}

// Materialize rebuilds a concrete plan tree from lp, every GroupExpression leaf is expanded
// into the first logical expression of its group.
func (mm *Memo) Materialize(lp base.LogicalPlan) (base.LogicalPlan, error) {
	if ge, ok := lp.(*GroupExpression); ok {
		if ge.IsPhysical() || ge.group == nil {
			return nil, errors.Errorf("group expression %s is not a logical expression in the memo", ge)
		}
		return mm.materializeGroup(ge.group.GroupID)
	}
	children := make([]base.LogicalPlan, 0, len(lp.Children()))
	for _, child := range lp.Children() {
		c, err := mm.Materialize(child)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return lp.WithChildren(children...), nil
}

func (mm *Memo) materializeGroup(id GroupID) (base.LogicalPlan, error) {
	g := mm.GetGroup(id)
	if g == nil || g.LogicalExpressions.Len() == 0 {
		return nil, errors.Errorf("group G%d has no logical expression", id)
	}
	first := g.LogicalExpressions.Front().Value.(*GroupExpression)
	children := make([]base.LogicalPlan, 0, len(first.Inputs))
	for _, input := range first.Inputs {
		child, err := mm.materializeGroup(input)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return first.LogicalPlan.WithChildren(children...), nil
}
