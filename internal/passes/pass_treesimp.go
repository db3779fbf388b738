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

// TreeSimplification folds constants, applies algebraic identities and
// moves constants of commutative operators to the right.
type TreeSimplification struct {
    changed int
}

func (self *TreeSimplification) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (self *TreeSimplification) Perform(ctx *opt.Context) int {
    self.PrePerformOnBlocks(ctx)
    cost := performOnAll(ctx, self)
    self.PostPerformOnBlocks(ctx)
    return cost
}

func (self *TreeSimplification) PrePerformOnBlocks(_ *opt.Context) {
    self.changed = 0
}

func (self *TreeSimplification) PostPerformOnBlocks(ctx *opt.Context) {
    if self.changed != 0 {
        ctx.Request(opt.LocalCSE)
        ctx.Tracef("simplified %d nodes", self.changed)
    }
}

func (self *TreeSimplification) PerformOnBlock(ctx *opt.Context, bb *il.Block) int {
    cfg := ctx.CFG()
    memo := make(map[*il.Node]*il.Node)
    count := self.changed

    /* simplify every tree of the block */
    for i, tt := range bb.Trees {
        bb.Trees[i] = rewrite(tt, memo, func(n *il.Node) *il.Node {
            return self.simplify(cfg, n)
        })
    }

    /* the simplified trees may have left dead values behind */
    if self.changed != count {
        ctx.RequestBlock(opt.DeadTreesElimination, bb)
    }
    return len(memo)
}

func (self *TreeSimplification) simplify(cfg *il.CFG, n *il.Node) *il.Node {
    if !n.Op.IsBinary() {
        return n
    }

    /* fold constant operands */
    x, y := n.Kids[0], n.Kids[1]
    if x.Op == il.OpConst && y.Op == il.OpConst {
        self.changed++
        return cfg.Const(fold(n.Op, x.Value, y.Value))
    }

    /* canonical order, the constant goes to the right */
    if x.Op == il.OpConst && n.Op.IsCommutative() {
        self.changed++
        x, y = y, x
        n.Kids[0], n.Kids[1] = x, y
    }

    /* identities with a constant operand */
    if y.Op == il.OpConst {
        switch {
            case y.Value == 0 && (n.Op == il.OpAdd || n.Op == il.OpSub || n.Op == il.OpOr || n.Op == il.OpXor) : self.changed++; return x
            case y.Value == 1 && n.Op == il.OpMul                                                              : self.changed++; return x
            case y.Value == 0 && (n.Op == il.OpMul || n.Op == il.OpAnd) && !x.HasSideEffects()                 : self.changed++; return cfg.Const(0)
        }
    }

    /* identities with equal operands, which must be evaluated once */
    if x == y || (x.Equal(y) && !x.HasSideEffects()) {
        switch n.Op {
            case il.OpSub, il.OpXor, il.OpCmpNe, il.OpCmpLt : self.changed++; return cfg.Const(0)
            case il.OpCmpEq                                 : self.changed++; return cfg.Const(1)
            case il.OpAnd, il.OpOr                          : self.changed++; return x
        }
    }
    return n
}

func fold(op il.Opcode, x int64, y int64) int64 {
    switch op {
        case il.OpAdd   : return x + y
        case il.OpSub   : return x - y
        case il.OpMul   : return x * y
        case il.OpAnd   : return x & y
        case il.OpOr    : return x | y
        case il.OpXor   : return x ^ y
        case il.OpCmpEq : return bool2int(x == y)
        case il.OpCmpNe : return bool2int(x != y)
        case il.OpCmpLt : return bool2int(x < y)
        default         : panic("passes: cannot fold " + op.String())
    }
}

func bool2int(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}
