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

// Package passes holds the reference optimization passes the scheduler
// runs over the il graphs.
package passes

import (
    `github.com/cloudwego/optsched/internal/opt`
)

type _Pass struct {
    id      opt.ID
    flags   opt.Requirement
    factory opt.Factory
}

var _Passes = [...]_Pass {
    { opt.DeadTreesElimination       , opt.DoesNotRequireAliasSets                                            , func(*opt.Manager) opt.Pass { return DeadTrees{} } },
    { opt.TreeSimplification         , opt.DoesNotRequireAliasSets                                            , func(*opt.Manager) opt.Pass { return new(TreeSimplification) } },
    { opt.LocalCSE                   , 0                                                                      , func(*opt.Manager) opt.Pass { return new(LocalCSE) } },
    { opt.LocalDeadStoreElimination  , 0                                                                      , func(*opt.Manager) opt.Pass { return LocalDeadStores{} } },
    { opt.BasicBlockExtension        , opt.DoesNotRequireAliasSets                                            , func(*opt.Manager) opt.Pass { return BlockExtension{} } },
    { opt.GlobalDeadStoreElimination , opt.RequiresGlobalsUseDefInfo | opt.DoesNotRequireLoadsAsDefsInUseDefs , func(*opt.Manager) opt.Pass { return GlobalDeadStores{} } },
    { opt.GlobalCopyPropagation      , opt.RequiresUseDefInfo | opt.DoesNotRequireLoadsAsDefsInUseDefs        , func(*opt.Manager) opt.Pass { return GlobalCopyPropagation{} } },
    { opt.LoopCanonicalization       , opt.RequiresStructure                                                  , func(*opt.Manager) opt.Pass { return LoopCanonicalization{} } },
    { opt.InductionVariableAnalysis  , opt.RequiresStructure | opt.StronglyPrefersGlobalsValueNumbering       , func(*opt.Manager) opt.Pass { return InductionVariables{} } },
}

// Register binds every reference pass to its id.
func Register(r *opt.Registry) {
    for _, p := range _Passes {
        r.Register(p.id, p.flags, p.factory)
    }
}

// Requirements returns the flags a reference pass is registered with.
func Requirements(id opt.ID) (opt.Requirement, bool) {
    for _, p := range _Passes {
        if p.id == id {
            return p.flags, true
        }
    }
    return 0, false
}

// IDs returns the ids of every reference pass in registration order.
func IDs() []opt.ID {
    ret := make([]opt.ID, len(_Passes))
    for i, p := range _Passes {
        ret[i] = p.id
    }
    return ret
}
