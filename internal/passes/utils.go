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

// rewrite replaces every node of the tree rooted at n bottom-up with the
// result of fn. A node shared by several parents is rewritten once.
func rewrite(n *il.Node, memo map[*il.Node]*il.Node, fn func(n *il.Node) *il.Node) *il.Node {
    if v, ok := memo[n]; ok {
        return v
    }

    /* children first */
    for i, v := range n.Kids {
        n.Kids[i] = rewrite(v, memo, fn)
    }

    /* then the node itself */
    ret := fn(n)
    memo[n] = ret
    return ret
}

// mayAlias uses the alias sets if they are valid, and otherwise assumes
// that any two non-local references may overlap.
func mayAlias(ctx *opt.Context, a *il.Symbol, b *il.Symbol) bool {
    if a.Key() == b.Key() {
        return true
    } else if al := ctx.Aliases(); al != nil {
        return al.MayAlias(a, b)
    } else {
        return !a.IsLocal() && !b.IsLocal()
    }
}

// loadsOf collects the symbols loaded anywhere in the tree.
func loadsOf(n *il.Node) []*il.Symbol {
    var ret []*il.Symbol
    n.Walk(func(v *il.Node) {
        if v.IsLoad() {
            ret = append(ret, v.Sym)
        }
    })
    return ret
}

// dropStore removes the store at index i of the block. The value is kept
// anchored if computing it has side effects. It returns how many trees
// the block lost.
func dropStore(cfg *il.CFG, bb *il.Block, i int) int {
    if v := bb.Trees[i].Kids[0]; v.HasSideEffects() {
        bb.Trees[i] = cfg.Treetop(v)
        return 0
    } else {
        bb.Trees = append(bb.Trees[:i], bb.Trees[i + 1:]...)
        return 1
    }
}

// performOnAll runs a block pass over every live block.
func performOnAll(ctx *opt.Context, bp opt.BlockPass) int {
    cost := 0
    for _, bb := range append([]*il.Block(nil), ctx.CFG().Blocks()...) {
        if !bb.Removed() {
            cost += bp.PerformOnBlock(ctx, bb)
        }
    }
    return cost
}
