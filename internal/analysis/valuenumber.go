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
    `fmt`
    `sort`
    `strings`

    `github.com/cloudwego/optsched/internal/il`
)

// ValueNumberInfo assigns equal numbers to nodes computing equal values.
// Local numbers are only meaningful inside one block.
type ValueNumberInfo struct {
    globals bool
    next    int
    vn      map[*il.Node]int
}

func (self *ValueNumberInfo) HasGlobals() bool {
    return self.globals
}

func (self *ValueNumberInfo) ValueNumber(n *il.Node) (int, bool) {
    v, ok := self.vn[n]
    return v, ok
}

func (self *ValueNumberInfo) Equivalent(a *il.Node, b *il.Node) bool {
    x, ok1 := self.vn[a]
    y, ok2 := self.vn[b]
    return ok1 && ok2 && x == y
}

func (self *ValueNumberInfo) NumValues() int {
    return self.next
}

type _ValueNumbering struct {
    *ValueNumberInfo
    ud    *UseDefInfo
    table map[string]int
    gens  map[il.SymbolKey]int
    calls int
}

// BuildValueNumberInfo numbers every node of the graph. Global numbering
// spans the whole method and identifies loads of locals by their reaching
// definitions, so it needs use-def information. Loads it cannot identify get
// unique numbers.
func BuildValueNumberInfo(cfg *il.CFG, ud *UseDefInfo, globals bool) *ValueNumberInfo {
    vb := &_ValueNumbering {
        ud              : ud,
        table           : make(map[string]int),
        ValueNumberInfo : &ValueNumberInfo{globals: globals, vn: make(map[*il.Node]int)},
    }

    /* number the blocks in reverse post-order */
    cfg.ReversePostOrder(func(bb *il.Block) {
        if !globals {
            vb.table = make(map[string]int)
            vb.gens = make(map[il.SymbolKey]int)
            vb.calls = 0
        }
        bb.ForEachNode(vb.number)
    })
    return vb.ValueNumberInfo
}

func (self *_ValueNumbering) number(n *il.Node) {
    key := self.vid(n)

    /* a store carries the number of its value */
    if n.IsStore() {
        self.vn[n] = self.vn[n.Kids[0]]
        return
    }

    /* nodes without a value identity get a fresh number */
    if key == "" {
        self.vn[n] = self.fresh()
        return
    }

    /* look up or insert */
    if v, ok := self.table[key]; ok {
        self.vn[n] = v
    } else {
        v = self.fresh()
        self.vn[n] = v
        self.table[key] = v
    }
}

func (self *_ValueNumbering) fresh() int {
    self.next++
    return self.next
}

func (self *_ValueNumbering) vid(n *il.Node) string {
    switch {
        case n.Op == il.OpConst : return fmt.Sprintf("$%d", n.Value)
        case n.Op == il.OpLoad  : return self.loadvid(n)
        case n.Op.IsBinary()    : break
        case n.Op == il.OpStore : self.killStore(n); return ""
        case n.Op == il.OpCall  : self.calls++; return ""
        default                 : return ""
    }

    /* commutative operations, sort the operands */
    x := self.vn[n.Kids[0]]
    y := self.vn[n.Kids[1]]
    if n.Op.IsCommutative() && x > y {
        x, y = y, x
    }

    /* build the value ID */
    return fmt.Sprintf("(%s %d %d)", n.Op, x, y)
}

func (self *_ValueNumbering) loadvid(n *il.Node) string {
    if !self.globals && n.Sym.IsLocal() {
        return fmt.Sprintf("(load %s @%d)", n.Sym, self.gens[n.Sym.Key()])
    }

    /* calls may clobber everything but the frame */
    if !self.globals {
        return fmt.Sprintf("(load %s @%d.%d)", n.Sym, self.gens[n.Sym.Key()], self.calls)
    }

    /* not covered by the use-defs, cannot be numbered safely */
    if !n.Sym.IsLocal() || self.ud == nil || !self.ud.IsUse(n) {
        return ""
    }

    /* same symbol, same reaching definitions */
    defs, entry := self.ud.DefsOf(n)
    ids := make([]string, 0, len(defs) + 1)
    for _, d := range defs {
        ids = append(ids, fmt.Sprintf("%d", d.Id))
    }
    if entry {
        ids = append(ids, "entry")
    }
    sort.Strings(ids)
    return fmt.Sprintf("(load %s {%s})", n.Sym, strings.Join(ids, " "))
}

func (self *_ValueNumbering) killStore(n *il.Node) {
    if !self.globals {
        self.gens[n.Sym.Key()]++
    }
}
