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

// Package iltest builds synthetic graphs for tests.
package iltest

import (
    `fmt`

    `github.com/brianvoe/gofakeit/v6`

    `github.com/cloudwego/optsched/internal/il`
)

// Chain builds n blocks linked in a straight line. Each block stores a
// constant into a private auto.
func Chain(n int) *il.CFG {
    cfg := il.NewCFG()
    bb := cfg.Root

    /* the root is the first block */
    for i := 0; i < n; i++ {
        if i != 0 {
            next := cfg.NewBlock()
            cfg.Link(bb, next)
            bb.Append(cfg.Goto())
            bb = next
        }
        sym := cfg.Symbols.Add(fmt.Sprintf("t%d", i), il.SymAuto, 0)
        bb.Append(cfg.Store(sym, cfg.Const(int64(i))))
    }

    /* terminate the last block */
    bb.Append(cfg.Return(nil))
    return cfg
}

// Loops builds n natural loops in sequence. Every loop is a header with a
// single latch block.
func Loops(n int) *il.CFG {
    cfg := il.NewCFG()
    iv := cfg.Symbols.Add("i", il.SymAuto, 0)
    bb := cfg.Root
    bb.Append(cfg.Store(iv, cfg.Const(0)))

    /* header -> latch -> header, header -> exit */
    for i := 0; i < n; i++ {
        hdr := cfg.NewBlock()
        body := cfg.NewBlock()
        exit := cfg.NewBlock()
        cfg.Link(bb, hdr)
        bb.Append(cfg.Goto())
        hdr.Append(cfg.If(cfg.Binary(il.OpCmpLt, cfg.Load(iv), cfg.Const(10))))
        cfg.Link(hdr, exit)
        cfg.Link(hdr, body)
        body.Append(cfg.Store(iv, cfg.Binary(il.OpAdd, cfg.Load(iv), cfg.Const(1))))
        body.Append(cfg.Goto())
        cfg.Link(body, hdr)
        bb = exit
    }

    /* terminate the last block */
    bb.Append(cfg.Return(cfg.Load(iv)))
    return cfg
}

// Random builds a graph with the given number of blocks and random trees
// drawn from f. Without loops every edge goes forward, so the result is
// acyclic.
func Random(f *gofakeit.Faker, blocks int, loops bool) *il.CFG {
    cfg := il.NewCFG()
    syms := []*il.Symbol {
        cfg.Symbols.Add("a", il.SymAuto, 0),
        cfg.Symbols.Add("b", il.SymAuto, 0),
        cfg.Symbols.Add("p", il.SymParam, 0),
        cfg.Symbols.Add("g", il.SymStatic, 0),
    }

    /* allocate all blocks up front */
    bbs := []*il.Block{cfg.Root}
    for len(bbs) < blocks {
        bbs = append(bbs, cfg.NewBlock())
    }

    /* fill every block with a few statements */
    for i, bb := range bbs {
        for n := f.Number(1, 4); n > 0; n-- {
            bb.Append(cfg.Store(syms[f.Number(0, len(syms) - 1)], randexpr(f, cfg, syms, 2)))
        }

        /* the last block returns */
        if i == len(bbs) - 1 {
            bb.Append(cfg.Return(nil))
            continue
        }

        /* fall through to the next block, maybe branch further ahead */
        cfg.Link(bb, bbs[i + 1])
        if j := f.Number(i + 1, len(bbs) - 1); j != i + 1 && f.Bool() {
            bb.Append(cfg.If(randexpr(f, cfg, syms, 1)))
            cfg.Link(bb, bbs[j])
        } else if loops && i != 0 && f.Bool() {
            bb.Append(cfg.If(randexpr(f, cfg, syms, 1)))
            cfg.Link(bb, bbs[f.Number(1, i)])
        } else {
            bb.Append(cfg.Goto())
        }
    }
    return cfg
}

func randexpr(f *gofakeit.Faker, cfg *il.CFG, syms []*il.Symbol, depth int) *il.Node {
    switch {
        case depth == 0 || f.Number(0, 2) == 0 : return cfg.Const(int64(f.Number(-8, 8)))
        case f.Bool()                          : return cfg.Load(syms[f.Number(0, len(syms) - 1)])
    }

    /* pick a binary operator */
    ops := []il.Opcode{il.OpAdd, il.OpSub, il.OpMul, il.OpAnd, il.OpOr, il.OpXor, il.OpCmpEq, il.OpCmpLt}
    op := ops[f.Number(0, len(ops) - 1)]
    return cfg.Binary(op, randexpr(f, cfg, syms, depth - 1), randexpr(f, cfg, syms, depth - 1))
}
