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

package property

import (
	"strconv"
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
)

// SortItem wraps the column and its order.
type SortItem struct {
	Col  *expression.Column
	Desc bool
}

// String implements fmt.Stringer interface.
func (s SortItem) String() string {
	if s.Desc {
		return s.Col.String() + " desc"
	}
	return s.Col.String()
}

// SortItemsFromCols builds ascending or descending sort items from columns.
func SortItemsFromCols(cols []*expression.Column, desc bool) []SortItem {
	items := make([]SortItem, 0, len(cols))
	for _, col := range cols {
		items = append(items, SortItem{Col: col, Desc: desc})
	}
	return items
}

// PhysicalProperty stands for the required physical property by parents.
// It contains the orders and the task types. A nil PhysicalProperty requires nothing.
type PhysicalProperty struct {
	// SortItems contains the required sort attributes.
	SortItems []SortItem

	hashcode string
}

// NewPhysicalProperty builds property from sort items.
func NewPhysicalProperty(items ...SortItem) *PhysicalProperty {
	return &PhysicalProperty{SortItems: items}
}

// IsSortItemEmpty checks whether the order property is empty.
func (p *PhysicalProperty) IsSortItemEmpty() bool {
	return p == nil || len(p.SortItems) == 0
}

// IsPrefix checks whether the order property is the prefix of another.
func (p *PhysicalProperty) IsPrefix(prop *PhysicalProperty) bool {
	if p.IsSortItemEmpty() {
		return true
	}
	if prop.IsSortItemEmpty() || len(p.SortItems) > len(prop.SortItems) {
		return false
	}
	for i := range p.SortItems {
		if !p.SortItems[i].Col.EqualColumn(prop.SortItems[i].Col) || p.SortItems[i].Desc != prop.SortItems[i].Desc {
			return false
		}
	}
	return true
}

// SatisfiedBy checks whether data ordered by items satisfies the required property.
func (p *PhysicalProperty) SatisfiedBy(items []SortItem) bool {
	return p.IsPrefix(&PhysicalProperty{SortItems: items})
}

// AllColsFromSchema checks whether all the columns needed by this physical
// property can be found in the given schema.
func (p *PhysicalProperty) AllColsFromSchema(schema *expression.Schema) bool {
	if p == nil {
		return true
	}
	for _, col := range p.SortItems {
		if schema.ColumnIndex(col.Col) == -1 {
			return false
		}
	}
	return true
}

// HashCode calculates hash code for a PhysicalProperty object.
// The empty property and a nil property share the same hash code.
func (p *PhysicalProperty) HashCode() string {
	if p.IsSortItemEmpty() {
		return ""
	}
	if p.hashcode != "" {
		return p.hashcode
	}
	var b strings.Builder
	for i, item := range p.SortItems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(item.Col.UniqueID, 10))
		if item.Desc {
			b.WriteByte('d')
		} else {
			b.WriteByte('a')
		}
	}
	p.hashcode = b.String()
	return p.hashcode
}

// String implements fmt.Stringer interface. Just for test.
func (p *PhysicalProperty) String() string {
	if p.IsSortItemEmpty() {
		return "Prop{}"
	}
	items := make([]string, 0, len(p.SortItems))
	for _, item := range p.SortItems {
		items = append(items, item.String())
	}
	return "Prop{SortItems: [" + strings.Join(items, ", ") + "]}"
}

// CloneEssentialFields returns a copy of PhysicalProperty.
func (p *PhysicalProperty) CloneEssentialFields() *PhysicalProperty {
	if p == nil {
		return &PhysicalProperty{}
	}
	return &PhysicalProperty{SortItems: append([]SortItem(nil), p.SortItems...)}
}
