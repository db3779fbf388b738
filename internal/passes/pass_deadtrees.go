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

// DeadTrees removes anchored trees that compute a value nobody uses.
type DeadTrees struct{}

func (self DeadTrees) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (self DeadTrees) Perform(ctx *opt.Context) int {
    return performOnAll(ctx, self)
}

func (self DeadTrees) PerformOnBlock(ctx *opt.Context, bb *il.Block) int {
    cost := len(bb.Trees)
    trees := bb.Trees[:0]

    /* keep everything that does more than computing a value */
    for _, tt := range bb.Trees {
        if tt.Op != il.OpNop && (tt.Op != il.OpTreetop || tt.HasSideEffects()) {
            trees = append(trees, tt)
        }
    }

    /* trace the result */
    if n := cost - len(trees); n != 0 {
        ctx.Tracef("removed %d dead trees from %s", n, bb)
    }

    /* clear the tail to release the dropped trees */
    for i := len(trees); i < len(bb.Trees); i++ {
        bb.Trees[i] = nil
    }

    bb.Trees = trees
    return cost
}
