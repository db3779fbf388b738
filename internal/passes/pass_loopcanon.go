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

// LoopCanonicalization gives every loop a preheader, a block outside the
// loop whose only successor is the loop header and through which every
// entry into the loop goes.
type LoopCanonicalization struct{}

func (LoopCanonicalization) ShouldPerform(ctx *opt.Context) bool {
    return ctx.Compilation().MayHaveLoops()
}

func (LoopCanonicalization) Perform(ctx *opt.Context) int {
    st := ctx.Structure()
    cfg := ctx.CFG()

    /* the structure is required, but may have failed to build */
    if st == nil {
        return 0
    }

    /* outer loops come first */
    added := 0
    for _, lp := range st.Loops() {
        if entries := loopEntries(lp); needsPreheader(entries) {
            bb := cfg.NewBlock()
            bb.Append(cfg.Goto())

            /* redirect every entry edge */
            for _, p := range entries {
                for hasSucc(p, lp.Header) {
                    cfg.Redirect(p, lp.Header, bb)
                }
            }

            /* fall into the header */
            added++
            cfg.Link(bb, lp.Header)
            ctx.Tracef("added preheader %s for loop at %s", bb, lp.Header)
        }
    }

    /* preheaders are new blocks */
    if added != 0 {
        ctx.SignalTopologyChanged()
    }
    return len(st.Loops())
}

// loopEntries returns the distinct predecessors of the header outside the
// loop.
func loopEntries(lp *analysis.Region) []*il.Block {
    var ret []*il.Block
    for _, p := range lp.Header.Pred {
        if !lp.Contains(p) && !hasBlock(ret, p) {
            ret = append(ret, p)
        }
    }
    return ret
}

func hasSucc(bb *il.Block, succ *il.Block) bool {
    return hasBlock(bb.Succ, succ)
}

func hasBlock(bbs []*il.Block, bb *il.Block) bool {
    for _, v := range bbs {
        if v == bb {
            return true
        }
    }
    return false
}

// needsPreheader is false for loops entered only from the method entry,
// and for loops already entered through a single jumping block.
func needsPreheader(entries []*il.Block) bool {
    switch len(entries) {
        case 0  : return false
        case 1  : return len(entries[0].Succ) != 1
        default : return true
    }
}
