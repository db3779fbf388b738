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

package passes_test

import (
    `sort`
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/optsched/internal/analysis`
    `github.com/cloudwego/optsched/internal/il`
    `github.com/cloudwego/optsched/internal/il/iltest`
    `github.com/cloudwego/optsched/internal/opt`
    `github.com/cloudwego/optsched/internal/passes`
)

func TestLoopCanonicalization(t *testing.T) {
    cfg := il.NewCFG()
    i := cfg.Symbols.Add("i", il.SymAuto, 0)
    p := cfg.Symbols.Add("p", il.SymParam, 0)
    mid, hdr, body, exit := cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock()

    /* the loop is entered from both the root and mid */
    cfg.Root.Append(cfg.Store(i, cfg.Const(0)), cfg.If(cfg.Load(p)))
    cfg.Link(cfg.Root, mid)
    cfg.Link(cfg.Root, hdr)
    mid.Append(cfg.Goto())
    cfg.Link(mid, hdr)
    hdr.Append(cfg.If(cfg.Binary(il.OpCmpLt, cfg.Load(i), cfg.Const(10))))
    cfg.Link(hdr, exit)
    cfg.Link(hdr, body)
    body.Append(cfg.Store(i, cfg.Binary(il.OpAdd, cfg.Load(i), cfg.Const(1))), cfg.Goto())
    cfg.Link(body, hdr)
    exit.Append(cfg.Return(cfg.Load(i)))

    /* a preheader takes over both entries */
    unit, e := optimize(t, cfg, opt.LoopCanonicalization, opt.InductionVariableAnalysis)
    require.Equal(t, 6, cfg.NumBlocks())
    pre := cfg.Block(5)
    require.Equal(t, []*il.Block{hdr}, pre.Succ)
    require.ElementsMatch(t, []*il.Block{cfg.Root, mid}, pre.Pred)
    require.ElementsMatch(t, []*il.Block{body, pre}, hdr.Pred)
    require.Equal(t, []string{"(goto)"}, trees(pre))
    checkEdges(t, cfg)

    /* the structure is rebuilt for the next pass */
    require.Equal(t, []analysis.Kind{analysis.KindStructure}, e.History()[1].Builds)
    require.Equal(t, []passes.InductionVariable{{Header: hdr.Id, Symbol: i, Step: 1}}, unit.ivs)
}

func TestLoopCanonicalization_AlreadyCanonical(t *testing.T) {
    cfg := iltest.Loops(2)
    _, e := optimize(t, cfg, opt.LoopCanonicalization)
    require.Equal(t, 7, cfg.NumBlocks())
    require.NotNil(t, e.Structure())
}

func TestInductionVariables(t *testing.T) {
    cfg := iltest.Loops(2)
    unit, _ := optimize(t, cfg, opt.InductionVariableAnalysis)
    sort.Slice(unit.ivs, func(i int, j int) bool { return unit.ivs[i].Header < unit.ivs[j].Header })
    require.Len(t, unit.ivs, 2)
    require.Equal(t, 1, unit.ivs[0].Header)
    require.Equal(t, 4, unit.ivs[1].Header)
    for _, iv := range unit.ivs {
        require.Equal(t, "i", iv.Symbol.Name)
        require.Equal(t, int64(1), iv.Step)
    }
}

func TestInductionVariables_Forms(t *testing.T) {
    cfg := il.NewCFG()
    hdr, body, exit := cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock()
    sym := func(name string) *il.Symbol { return cfg.Symbols.Add(name, il.SymAuto, 0) }
    i, j, k, m, g := sym("i"), sym("j"), sym("k"), sym("m"), cfg.Symbols.Add("g", il.SymStatic, 0)
    step := func(op il.Opcode, s *il.Symbol, v int64) *il.Node {
        return cfg.Store(s, cfg.Binary(op, cfg.Load(s), cfg.Const(v)))
    }

    /* a single loop with several candidates */
    cfg.Root.Append(cfg.Goto())
    cfg.Link(cfg.Root, hdr)
    hdr.Append(cfg.If(cfg.Binary(il.OpCmpLt, cfg.Load(i), cfg.Const(10))))
    cfg.Link(hdr, exit)
    cfg.Link(hdr, body)
    body.Append(
        step(il.OpAdd, i, 2),
        step(il.OpMul, j, 2),
        step(il.OpSub, k, 3),
        step(il.OpAdd, m, 1),
        step(il.OpAdd, m, 1),
        step(il.OpAdd, g, 1),
        cfg.Store(k, cfg.Binary(il.OpAdd, cfg.Const(0), cfg.Load(j))),
        cfg.Goto(),
    )
    cfg.Link(body, hdr)
    exit.Append(cfg.Return(nil))

    /* i steps by 2, k has two stores, j and m do not step linearly */
    unit, _ := optimize(t, cfg, opt.InductionVariableAnalysis)
    require.Equal(t, []passes.InductionVariable{{Header: hdr.Id, Symbol: i, Step: 2}}, unit.ivs)
}

func TestInductionVariables_Nested(t *testing.T) {
    cfg := il.NewCFG()
    i := cfg.Symbols.Add("i", il.SymAuto, 0)
    j := cfg.Symbols.Add("j", il.SymAuto, 0)
    oh, exit, ih, ib, ol := cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock(), cfg.NewBlock()
    cfg.Root.Append(cfg.Goto())
    cfg.Link(cfg.Root, oh)
    oh.Append(cfg.If(cfg.Load(i)))
    cfg.Link(oh, exit)
    cfg.Link(oh, ih)
    ih.Append(cfg.If(cfg.Load(j)))
    cfg.Link(ih, ol)
    cfg.Link(ih, ib)
    ib.Append(cfg.Store(j, cfg.Binary(il.OpSub, cfg.Load(j), cfg.Const(1))), cfg.Goto())
    cfg.Link(ib, ih)
    ol.Append(cfg.Store(i, cfg.Binary(il.OpAdd, cfg.Const(1), cfg.Load(i))), cfg.Goto())
    cfg.Link(ol, oh)
    exit.Append(cfg.Return(nil))

    /* j only steps in the inner loop */
    unit, _ := optimize(t, cfg, opt.InductionVariableAnalysis)
    sort.Slice(unit.ivs, func(a int, b int) bool { return unit.ivs[a].Header < unit.ivs[b].Header })
    require.Equal(t, []passes.InductionVariable {
        { Header: oh.Id, Symbol: i, Step: 1 },
        { Header: ih.Id, Symbol: j, Step: -1 },
    }, unit.ivs)
}
