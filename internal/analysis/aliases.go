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

package analysis

import (
    `sort`

    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/topo`

    `github.com/cloudwego/optsched/internal/il`
)

// AliasSets partitions the symbol references so that two references may
// alias only if they share a partition.
type AliasSets struct {
    part []int
    sets [][]int
}

// BuildAliasSets computes the partitions as connected components of the
// may-alias graph. References naming the same storage always alias, and so
// do fields at the same offset of unknown bases.
func BuildAliasSets(syms *il.SymbolTable) *AliasSets {
    g := simple.NewUndirectedGraph()
    for _, v := range syms.All() {
        g.AddNode(simple.Node(v.Ref))
    }

    /* connect every pair that may overlap */
    edge := func(a int, b int) {
        if a != b && !g.HasEdgeBetween(int64(a), int64(b)) {
            g.SetEdge(g.NewEdge(simple.Node(a), simple.Node(b)))
        }
    }

    /* explicit aliases, same storage, same field offset */
    keys := make(map[il.SymbolKey]int)
    fields := make(map[int]int)
    for _, v := range syms.All() {
        for _, r := range v.MayAlias {
            if r < syms.Len() {
                edge(v.Ref, r)
            }
        }
        if p, ok := keys[v.Key()]; ok {
            edge(p, v.Ref)
        } else {
            keys[v.Key()] = v.Ref
        }
        if v.Kind == il.SymField {
            if p, ok := fields[v.Offset]; ok {
                edge(p, v.Ref)
            } else {
                fields[v.Offset] = v.Ref
            }
        }
    }

    /* number the components by their lowest member */
    comps := topo.ConnectedComponents(g)
    sets := make([][]int, 0, len(comps))
    for _, c := range comps {
        ids := make([]int, 0, len(c))
        for _, v := range c {
            ids = append(ids, int(v.ID()))
        }
        sort.Ints(ids)
        sets = append(sets, ids)
    }
    sort.Slice(sets, func(i int, j int) bool { return sets[i][0] < sets[j][0] })

    /* build the reverse mapping */
    ret := &AliasSets{sets: sets, part: make([]int, syms.Len())}
    for i, s := range sets {
        for _, r := range s {
            ret.part[r] = i
        }
    }
    return ret
}

// Covers reports whether the reference existed when the sets were built.
func (self *AliasSets) Covers(sym *il.Symbol) bool {
    return sym.Ref < len(self.part)
}

func (self *AliasSets) Partition(sym *il.Symbol) int {
    return self.part[sym.Ref]
}

func (self *AliasSets) NumPartitions() int {
    return len(self.sets)
}

func (self *AliasSets) Members(p int) []int {
    return self.sets[p]
}

// MayAlias is conservative for references the sets do not cover.
func (self *AliasSets) MayAlias(a *il.Symbol, b *il.Symbol) bool {
    if !self.Covers(a) || !self.Covers(b) {
        return true
    } else {
        return self.part[a.Ref] == self.part[b.Ref]
    }
}
