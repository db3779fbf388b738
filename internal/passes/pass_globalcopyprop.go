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
    `github.com/cloudwego/optsched/internal/analysis`
    `github.com/cloudwego/optsched/internal/il`
    `github.com/cloudwego/optsched/internal/opt`
)

// GlobalCopyPropagation replaces loads whose only reaching definition
// stores a constant with that constant.
type GlobalCopyPropagation struct{}

func (GlobalCopyPropagation) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (GlobalCopyPropagation) Perform(ctx *opt.Context) int {
    ud := ctx.UseDefs()
    cfg := ctx.CFG()

    /* def-use could not be built for this method */
    if ud == nil {
        return 0
    }

    /* rewrite every tree */
    cost := 0
    replaced := 0
    for _, bb := range cfg.Blocks() {
        count := replaced
        memo := make(map[*il.Node]*il.Node)

        /* replace the loads */
        for i, tt := range bb.Trees {
            bb.Trees[i] = rewrite(tt, memo, func(n *il.Node) *il.Node {
                if v, ok := constantDef(ud, n); ok {
                    replaced++
                    return cfg.Const(v)
                } else {
                    return n
                }
            })
        }

        /* the block may fold further */
        cost += len(memo)
        if replaced != count {
            ctx.RequestBlock(opt.TreeSimplification, bb)
        }
    }

    /* trace the result */
    if replaced != 0 {
        ctx.Tracef("propagated %d constants", replaced)
    }
    return cost
}

func constantDef(ud *analysis.UseDefInfo, n *il.Node) (int64, bool) {
    if !n.IsLoad() || !ud.IsUse(n) {
        return 0, false
    }

    /* exactly one store, and not the value on entry */
    defs, entry := ud.DefsOf(n)
    if entry || len(defs) != 1 || !defs[0].IsStore() {
        return 0, false
    }

    /* the store must write a constant */
    if v := defs[0].Kids[0]; v.Op == il.OpConst {
        return v.Value, true
    } else {
        return 0, false
    }
}
