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
    `github.com/oleiade/lane`

    `github.com/cloudwego/optsched/internal/il`
)

// DefaultUseDefLimit caps defs times uses, beyond which the information is
// considered too expensive to compute.
const DefaultUseDefLimit = 1 << 20

type UseDefOptions struct {
    Globals         bool
    PreferGlobals   bool
    LoadsAsDefs     bool
    KeepTrivialDefs bool
    Limit           int
}

// UseDefInfo links every load of a tracked symbol to the stores reaching it.
// Without globals only autos and parameters are tracked.
type UseDefInfo struct {
    globals     bool
    loadsAsDefs bool
    defs        []*il.Node
    isDef       map[*il.Node]bool
    defsOf      map[*il.Node][]*il.Node
    entry       map[*il.Node]bool
    usesOf      map[*il.Node][]*il.Node
}

func (self *UseDefInfo) HasGlobals() bool {
    return self.globals
}

func (self *UseDefInfo) HasLoadsAsDefs() bool {
    return self.loadsAsDefs
}

func (self *UseDefInfo) Tracks(sym *il.Symbol) bool {
    return sym != nil && (self.globals || sym.IsLocal())
}

func (self *UseDefInfo) NumDefs() int {
    return len(self.defs)
}

func (self *UseDefInfo) NumUses() int {
    return len(self.defsOf)
}

func (self *UseDefInfo) IsDef(n *il.Node) bool {
    return self.isDef[n]
}

func (self *UseDefInfo) IsUse(n *il.Node) bool {
    _, ok := self.defsOf[n]
    return ok
}

// DefsOf returns the stores reaching a use, and whether the value on method
// entry reaches it too.
func (self *UseDefInfo) DefsOf(use *il.Node) ([]*il.Node, bool) {
    return self.defsOf[use], self.entry[use]
}

func (self *UseDefInfo) UsesOf(def *il.Node) []*il.Node {
    return self.usesOf[def]
}

func BuildUseDefInfo(cfg *il.CFG, opts UseDefOptions) (*UseDefInfo, bool) {
    if opts.Limit <= 0 {
        opts.Limit = DefaultUseDefLimit
    }

    /* try the strongest variant first */
    if ud, ok := buildUseDefs(cfg, opts.Globals || opts.PreferGlobals, opts); ok {
        return ud, true
    }

    /* globals are only preferred, settle for locals */
    if opts.PreferGlobals && !opts.Globals {
        return buildUseDefs(cfg, false, opts)
    } else {
        return nil, false
    }
}

type _UseDefBlock struct {
    gen      bitset
    kill     bitset
    in       bitset
    out      bitset
    entryIn  bitset
    entryOut bitset
    killKeys bitset
}

func buildUseDefs(cfg *il.CFG, globals bool, opts UseDefOptions) (*UseDefInfo, bool) {
    var nuses int
    var keyDefs [][]int

    /* tracked symbols are numbered by storage key */
    keys := make(map[il.SymbolKey]int)
    keyOf := func(sym *il.Symbol) int {
        if sym == nil || !(globals || sym.IsLocal()) {
            return -1
        }
        k, ok := keys[sym.Key()]
        if !ok {
            k = len(keys)
            keys[sym.Key()] = k
            keyDefs = append(keyDefs, nil)
        }
        return k
    }

    ud := &UseDefInfo {
        globals     : globals,
        loadsAsDefs : opts.LoadsAsDefs,
        isDef       : make(map[*il.Node]bool),
        defsOf      : make(map[*il.Node][]*il.Node),
        entry       : make(map[*il.Node]bool),
        usesOf      : make(map[*il.Node][]*il.Node),
    }

    /* Phase 1: number all the definitions and count the uses */
    ids := make(map[*il.Node]int)
    defKey := []int(nil)
    for _, bb := range cfg.Blocks() {
        bb.ForEachNode(func(n *il.Node) {
            if k := keyOf(n.Sym); k >= 0 {
                switch {
                    case n.IsLoad()                                   : nuses++
                    case n.IsStore() && (opts.KeepTrivialDefs || !isTrivialDef(n)) : {
                        ids[n] = len(ud.defs)
                        keyDefs[k] = append(keyDefs[k], len(ud.defs))
                        defKey = append(defKey, k)
                        ud.defs = append(ud.defs, n)
                    }
                }
            }
        })
    }

    /* too large to be worth it */
    if len(ud.defs) * nuses > opts.Limit {
        return nil, false
    }

    /* Phase 2: local gen and kill sets */
    nd, nk := len(ud.defs), len(keys)
    info := make(map[int]*_UseDefBlock, cfg.NumBlocks())
    for _, bb := range cfg.Blocks() {
        last := make(map[int]int)
        bi := &_UseDefBlock {
            gen      : newBitset(nd),
            kill     : newBitset(nd),
            in       : newBitset(nd),
            out      : newBitset(nd),
            entryIn  : newBitset(nk),
            entryOut : newBitset(nk),
            killKeys : newBitset(nk),
        }

        /* the last definition of each key survives the block */
        bb.ForEachNode(func(n *il.Node) {
            if d, ok := ids[n]; ok {
                last[defKey[d]] = d
            }
        })
        for k, d := range last {
            bi.gen.set(d)
            bi.killKeys.set(k)
            for _, v := range keyDefs[k] {
                bi.kill.set(v)
            }
        }
        info[bb.Id] = bi
    }

    /* Phase 3: iterate reaching definitions to a fixed point */
    q := lane.NewQueue()
    queued := make(map[int]bool)
    cfg.ReversePostOrder(func(bb *il.Block) {
        q.Enqueue(bb)
        queued[bb.Id] = true
    })
    for !q.Empty() {
        bb := q.Dequeue().(*il.Block)
        bi := info[bb.Id]
        queued[bb.Id] = false

        /* the method entry defines everything */
        if bb == cfg.Root {
            for k := 0; k < nk; k++ {
                bi.entryIn.set(k)
            }
        }

        /* merge the predecessors */
        for _, p := range bb.Pred {
            if pi := info[p.Id]; pi != nil {
                bi.in.union(pi.out)
                bi.entryIn.union(pi.entryOut)
            }
        }

        /* out = gen | (in - kill) */
        out := bi.in.clone()
        out.minus(bi.kill)
        out.union(bi.gen)
        entry := bi.entryIn.clone()
        entry.minus(bi.killKeys)

        /* propagate changes to the successors */
        if !out.equal(bi.out) || !entry.equal(bi.entryOut) {
            bi.out, bi.entryOut = out, entry
            for _, v := range bb.Succ {
                if !queued[v.Id] {
                    q.Enqueue(v)
                    queued[v.Id] = true
                }
            }
        }
    }

    /* Phase 4: resolve every use against its block */
    for _, bb := range cfg.Blocks() {
        bi := info[bb.Id]
        local := make(map[int]int)
        bb.ForEachNode(func(n *il.Node) {
            k := keyOf(n.Sym)
            if k < 0 {
                return
            }

            /* a store shadows everything before it */
            if d, ok := ids[n]; ok {
                local[k] = d
                ud.isDef[n] = true
                return
            }
            if !n.IsLoad() {
                return
            }
            if opts.LoadsAsDefs {
                ud.isDef[n] = true
            }

            /* a definition earlier in the block wins */
            if d, ok := local[k]; ok {
                ud.link(n, ud.defs[d])
                return
            }

            /* otherwise everything flowing into the block */
            ud.defsOf[n] = nil
            for _, d := range keyDefs[k] {
                if bi.in.has(d) {
                    ud.link(n, ud.defs[d])
                }
            }
            if bi.entryIn.has(k) {
                ud.entry[n] = true
            }
        })
    }
    return ud, true
}

func (self *UseDefInfo) link(use *il.Node, def *il.Node) {
    self.defsOf[use] = append(self.defsOf[use], def)
    self.usesOf[def] = append(self.usesOf[def], use)
}

// isTrivialDef matches "x = x".
func isTrivialDef(n *il.Node) bool {
    v := n.Kids[0]
    return v.IsLoad() && v.Sym.Key() == n.Sym.Key()
}
