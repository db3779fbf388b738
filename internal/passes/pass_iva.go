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

// InductionVariable is a local symbol stepped by a constant amount exactly
// once per iteration of a loop.
type InductionVariable struct {
    Header int
    Symbol *il.Symbol
    Step   int64
}

// InductionVariableRecorder is implemented by compilations that keep the
// induction variables found in their loops.
type InductionVariableRecorder interface {
    RecordInductionVariable(iv InductionVariable)
}

// InductionVariables finds the basic induction variables of every loop.
type InductionVariables struct{}

func (InductionVariables) ShouldPerform(ctx *opt.Context) bool {
    return ctx.Compilation().MayHaveLoops()
}

func (InductionVariables) Perform(ctx *opt.Context) int {
    st := ctx.Structure()
    rec, _ := ctx.Compilation().(InductionVariableRecorder)

    /* the structure is required, but may have failed to build */
    if st == nil {
        return 0
    }

    /* check every loop */
    cost := 0
    for _, lp := range st.Loops() {
        ivs, n := findInductionVariables(st, lp)
        cost += n

        /* report the variables */
        for _, iv := range ivs {
            ctx.Tracef("induction variable %s in loop at bb_%d, step %d", iv.Symbol, iv.Header, iv.Step)
            if rec != nil {
                rec.RecordInductionVariable(iv)
            }
        }
    }
    return cost
}

type _Stepping struct {
    sym    *il.Symbol
    step   int64
    stores int
    linear bool
}

func findInductionVariables(st *analysis.Structure, lp *analysis.Region) ([]InductionVariable, int) {
    cost := 0
    var keys []il.SymbolKey
    vars := make(map[il.SymbolKey]*_Stepping)

    /* Phase 1: collect every store in the loop body */
    for _, bb := range lp.Blocks() {
        nested := st.LoopOf(bb) != lp
        for _, tt := range bb.Trees {
            cost++
            if !tt.IsStore() || !tt.Sym.IsLocal() {
                continue
            }

            /* first store to the symbol */
            v := vars[tt.Sym.Key()]
            if v == nil {
                v = &_Stepping{sym: tt.Sym, linear: true}
                vars[tt.Sym.Key()] = v
                keys = append(keys, tt.Sym.Key())
            }

            /* x = x + c, x = c + x or x = x - c, stepping once per iteration */
            step, ok := linearStep(tt)
            v.stores++
            v.step = step
            v.linear = v.linear && ok && !nested
        }
    }

    /* Phase 2: a single linear store makes a basic induction variable */
    var ret []InductionVariable
    for _, k := range keys {
        if v := vars[k]; v.stores == 1 && v.linear && v.step != 0 {
            ret = append(ret, InductionVariable {
                Header : lp.Header.Id,
                Symbol : v.sym,
                Step   : v.step,
            })
        }
    }
    return ret, cost
}

func linearStep(st *il.Node) (int64, bool) {
    v := st.Kids[0]
    if !v.Op.IsBinary() {
        return 0, false
    }

    /* split into the load and the constant */
    x, y := v.Kids[0], v.Kids[1]
    if v.Op == il.OpAdd && x.Op == il.OpConst {
        x, y = y, x
    }

    /* the load must read the stored symbol */
    if !x.IsLoad() || x.Sym.Key() != st.Sym.Key() || y.Op != il.OpConst {
        return 0, false
    }

    /* only additions and subtractions step linearly */
    switch v.Op {
        case il.OpAdd : return y.Value, true
        case il.OpSub : return -y.Value, true
        default       : return 0, false
    }
}
