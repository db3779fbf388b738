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

// BlockExtension merges a block into its only predecessor when that
// predecessor has no other successor.
type BlockExtension struct{}

func (BlockExtension) ShouldPerform(ctx *opt.Context) bool {
    return ctx.CFG().NumBlocks() > 1
}

func (BlockExtension) Perform(ctx *opt.Context) int {
    cost := 0
    merged := 0
    cfg := ctx.CFG()

    /* merge until nothing changes, a merged block may be extended again */
    for done := false; !done; {
        done = true
        for _, bb := range append([]*il.Block(nil), cfg.Blocks()...) {
            cost++
            for !bb.Removed() && canExtend(cfg, bb) {
                extend(cfg, bb)
                merged++
                done = false
            }
        }
    }

    /* the graph has fewer blocks now */
    if merged != 0 {
        ctx.SignalTopologyChanged()
        ctx.Tracef("merged %d blocks", merged)
    }
    return cost
}

func canExtend(cfg *il.CFG, bb *il.Block) bool {
    if len(bb.Succ) != 1 {
        return false
    }

    /* the predecessor must fall through or jump */
    if tr := bb.Terminator(); tr != nil && tr.Op != il.OpGoto {
        return false
    }

    /* the successor must only be reached from here */
    next := bb.Succ[0]
    return next != bb && next != cfg.Root && !next.Handler && len(next.Pred) == 1
}

func extend(cfg *il.CFG, bb *il.Block) {
    next := bb.Succ[0]
    succ := append([]*il.Block(nil), next.Succ...)

    /* drop the jump */
    if tr := bb.Terminator(); tr != nil {
        bb.Trees = bb.Trees[:len(bb.Trees) - 1]
    }

    /* take over the trees and the successors, in order */
    bb.Append(next.Trees...)
    for _, v := range succ {
        cfg.Link(bb, v)
    }

    /* the merged block is gone along with its edges */
    next.Trees = nil
    cfg.RemoveBlock(next)
}
