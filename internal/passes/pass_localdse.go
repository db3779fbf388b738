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

package passes

import (
    `github.com/cloudwego/optsched/internal/il`
    `github.com/cloudwego/optsched/internal/opt`
)

// LocalDeadStores removes stores that are overwritten later in the same
// block before anything may read them.
type LocalDeadStores struct{}

func (self LocalDeadStores) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (self LocalDeadStores) Perform(ctx *opt.Context) int {
    return performOnAll(ctx, self)
}

func (self LocalDeadStores) PerformOnBlock(ctx *opt.Context, bb *il.Block) int {
    cost := len(bb.Trees)
    removed := 0
    pending := make(map[il.SymbolKey]*il.Symbol)

    /* walk backwards, a pending store is overwritten before being read */
    for i := len(bb.Trees) - 1; i >= 0; i-- {
        tt := bb.Trees[i]
        sym := tt.Sym

        /* the store itself happens after its value is computed */
        if tt.IsStore() {
            if _, ok := pending[sym.Key()]; ok {
                removed++
                if dropStore(ctx.CFG(), bb, i) != 0 {
                    continue
                }
                tt = bb.Trees[i]
            } else {
                pending[sym.Key()] = sym
            }
        }

        /* anything read by the tree is no longer dead */
        tt.Walk(func(n *il.Node) {
            switch {
                case n.IsLoad()          : unpend(ctx, pending, n.Sym, false)
                case isCall(n)           : unpend(ctx, pending, nil, true)
                case n.Op == il.OpReturn : unpend(ctx, pending, nil, true)
            }
        })
    }

    /* trace the result */
    if removed != 0 {
        ctx.Tracef("removed %d dead stores from %s", removed, bb)
    }
    return cost
}

// unpend drops the pending stores a read of sym may observe. Calls and
// returns observe every non-local store.
func unpend(ctx *opt.Context, pending map[il.SymbolKey]*il.Symbol, sym *il.Symbol, escape bool) {
    for k, v := range pending {
        if (escape && !v.IsLocal()) || (!escape && mayAlias(ctx, v, sym)) {
            delete(pending, k)
        }
    }
}

func isCall(n *il.Node) bool {
    return n.Op == il.OpCall || n.Op == il.OpNew || n.Op == il.OpMonEnter || n.Op == il.OpMonExit
}
