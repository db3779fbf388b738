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

// GlobalDeadStores removes stores to autos that reach no use anywhere in
// the method.
type GlobalDeadStores struct{}

func (GlobalDeadStores) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (GlobalDeadStores) Perform(ctx *opt.Context) int {
    ud := ctx.UseDefs()
    cfg := ctx.CFG()

    /* def-use could not be built for this method */
    if ud == nil {
        return 0
    }

    /* scan every store */
    cost := 0
    removed := 0
    for _, bb := range cfg.Blocks() {
        for i := 0; i < len(bb.Trees); i++ {
            cost++
            tt := bb.Trees[i]

            /* only autos are known to die with the frame */
            if !tt.IsStore() || tt.Sym.Kind != il.SymAuto || !ud.Tracks(tt.Sym) || !ud.IsDef(tt) {
                continue
            }

            /* still used somewhere */
            if len(ud.UsesOf(tt)) != 0 {
                continue
            }

            /* drop the store, keep the index if it was anchored instead */
            removed++
            i -= dropStore(cfg, bb, i)
        }
    }

    /* trace the result */
    if removed != 0 {
        ctx.Tracef("removed %d stores without uses", removed)
    }
    return cost
}
