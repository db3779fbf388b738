/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opt

import (
	"fmt"
	"sort"

	"github.com/cloudwego/optsched/internal/opts"
)

// Entry is one step of a strategy.
type Entry struct {
	ID   ID
	Cond Condition
}

// Strategy is an ordered list of entries terminated by EndOpts. The entries
// of a group are terminated by EndGroup instead.
type Strategy []Entry

// Len returns the number of entries before the sentinel.
func (self Strategy) Len() int {
	for i, e := range self {
		if e.ID.IsSentinel() {
			return i
		}
	}
	return len(self)
}

// Group is a named sub-strategy. A repeating group runs again while any of
// its passes has requested blocks left, up to MaxGroupIterations times.
type Group struct {
	ID      ID
	Entries Strategy
	Repeats bool
	Clears  []ID
}

// Suite is a family of strategies indexed by hotness, with the groups they
// refer to.
type Suite struct {
	Name       string
	LocalOpts  []ID
	strategies [Hot + 1]Strategy
	groups     map[ID]*Group
}

func newSuite(name string, local []ID, strategies [Hot + 1]Strategy, groups ...*Group) *Suite {
	ret := &Suite{
		Name:       name,
		LocalOpts:  local,
		strategies: strategies,
		groups:     make(map[ID]*Group, len(groups)),
	}

	/* index the groups */
	for _, g := range groups {
		if !g.ID.IsGroup() {
			panic(fmt.Sprintf("opt: %s: %s is not a group", name, g.ID))
		}
		if _, ok := ret.groups[g.ID]; ok {
			panic(fmt.Sprintf("opt: %s: duplicated group %s", name, g.ID))
		}
		ret.groups[g.ID] = g
	}

	/* check every table */
	for h, s := range strategies {
		ret.check(Hotness(h).String(), s, EndOpts)
	}
	for _, g := range groups {
		ret.check(g.ID.String(), g.Entries, EndGroup)
	}
	return ret
}

func (self *Suite) check(what string, s Strategy, end ID) {
	if len(s) == 0 || s[len(s)-1].ID != end {
		panic(fmt.Sprintf("opt: %s: %s is not terminated by %s", self.Name, what, end))
	}

	/* references must resolve, and only the last entry is a sentinel */
	for _, e := range s[:len(s)-1] {
		switch {
		case e.Cond >= numConditions:
			panic(fmt.Sprintf("opt: %s: %s: invalid condition %d", self.Name, what, e.Cond))
		case e.ID.IsSentinel():
			panic(fmt.Sprintf("opt: %s: %s: early %s", self.Name, what, e.ID))
		case e.ID.IsGroup() && self.groups[e.ID] == nil:
			panic(fmt.Sprintf("opt: %s: %s: undefined group %s", self.Name, what, e.ID))
		case !e.ID.IsGroup() && !e.ID.IsPass():
			panic(fmt.Sprintf("opt: %s: %s: invalid id %s", self.Name, what, e.ID))
		}
	}
}

// Select returns the strategy for the hotness. Anything above hot uses the
// hot strategy.
func (self *Suite) Select(h Hotness) Strategy {
	switch {
	case h < NoOpt:
		return self.strategies[NoOpt]
	case h > Hot:
		return self.strategies[Hot]
	default:
		return self.strategies[h]
	}
}

func (self *Suite) Group(id ID) (*Group, bool) {
	g, ok := self.groups[id]
	return g, ok
}

// Groups returns every group of the suite ordered by ID.
func (self *Suite) Groups() []*Group {
	ret := make([]*Group, 0, len(self.groups))
	for _, g := range self.groups {
		ret = append(ret, g)
	}
	sort.Slice(ret, func(i int, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

// CustomStrategy decodes a strategy from a list of encoded entries. Each
// entry holds an ID in its low bits and may carry the must-be-done bit.
func CustomStrategy(enc []int32) (Strategy, error) {
	ret := make(Strategy, 0, len(enc)+1)
	for i, v := range enc {
		id := ID(v & opts.OptNumMask)
		if !id.IsPass() && !id.IsGroup() {
			return nil, fmt.Errorf("opt: invalid entry %d in custom strategy: %#x", i, v)
		}
		if v&opts.MustBeDone != 0 {
			ret = append(ret, Entry{id, MustBeDone})
		} else {
			ret = append(ret, Entry{id, Always})
		}
	}
	return append(ret, Entry{EndOpts, Always}), nil
}

// EncodeStrategy is the inverse of CustomStrategy.
func EncodeStrategy(s Strategy, mustBeDone ...ID) []int32 {
	ret := make([]int32, 0, len(s))
	for _, e := range s[:s.Len()] {
		v := int32(e.ID)
		for _, m := range mustBeDone {
			if m == e.ID {
				v |= opts.MustBeDone
			}
		}
		ret = append(ret, v)
	}
	return ret
}
