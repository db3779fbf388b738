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
    `fmt`
    `strings`

    `github.com/cloudwego/optsched/internal/il`
    `github.com/cloudwego/optsched/internal/opt`
)

type _Available struct {
    node  *il.Node
    loads []*il.Symbol
}

// LocalCSE commons identical pure subtrees inside each block. Stores kill
// every available expression loading a symbol they may alias, and calls
// kill every expression loading non-local storage.
type LocalCSE struct {
    commoned int
}

func (self *LocalCSE) ShouldPerform(_ *opt.Context) bool {
    return true
}

func (self *LocalCSE) Perform(ctx *opt.Context) int {
    return performOnAll(ctx, self)
}

func (self *LocalCSE) PerformOnBlock(ctx *opt.Context, bb *il.Block) int {
    count := self.commoned
    memo := make(map[*il.Node]*il.Node)
    avail := make(map[string]_Available)

    /* common the trees in evaluation order */
    for i, tt := range bb.Trees {
        bb.Trees[i] = rewrite(tt, memo, func(n *il.Node) *il.Node {
            return self.common(ctx, avail, n)
        })
    }

    /* trace the result */
    if n := self.commoned - count; n != 0 {
        ctx.Tracef("commoned %d nodes in %s", n, bb)
    }
    return len(memo)
}

func (self *LocalCSE) common(ctx *opt.Context, avail map[string]_Available, n *il.Node) *il.Node {
    switch {
        case n.IsStore()                              : self.killStore(ctx, avail, n.Sym)
        case n.Op == il.OpConst                       : break
        case n.Op.IsPure()                            : return self.lookup(avail, n)
        case n.Op != il.OpTreetop && !n.Op.IsBranch() : self.killCall(avail)
    }
    return n
}

func (self *LocalCSE) lookup(avail map[string]_Available, n *il.Node) *il.Node {
    key := exprkey(n)
    if v, ok := avail[key]; ok {
        self.commoned++
        return v.node
    }

    /* first occurrence, make it available */
    avail[key] = _Available {
        node  : n,
        loads : loadsOf(n),
    }
    return n
}

func (self *LocalCSE) killStore(ctx *opt.Context, avail map[string]_Available, sym *il.Symbol) {
    for k, v := range avail {
        for _, s := range v.loads {
            if mayAlias(ctx, s, sym) {
                delete(avail, k)
                break
            }
        }
    }
}

func (self *LocalCSE) killCall(avail map[string]_Available) {
    for k, v := range avail {
        for _, s := range v.loads {
            if !s.IsLocal() {
                delete(avail, k)
                break
            }
        }
    }
}

// exprkey identifies an expression by its operator, its operand and its
// children. Children are already commoned, so they are named by id, except
// constants which are named by value. Operands of commutative operators
// are ordered.
func exprkey(n *il.Node) string {
    var sb strings.Builder
    sb.WriteString(n.Op.String())

    /* the operand of the node itself */
    if n.Sym != nil {
        fmt.Fprintf(&sb, " &%d", n.Sym.Ref)
    }

    /* name every child */
    kids := make([]string, len(n.Kids))
    for i, v := range n.Kids {
        if v.Op == il.OpConst {
            kids[i] = fmt.Sprintf("=%d", v.Value)
        } else {
            kids[i] = fmt.Sprintf("#%d", v.Id)
        }
    }

    /* order the children of commutative operators */
    if len(kids) == 2 && n.Op.IsCommutative() && kids[0] > kids[1] {
        kids[0], kids[1] = kids[1], kids[0]
    }

    /* build the key */
    for _, v := range kids {
        sb.WriteByte(' ')
        sb.WriteString(v)
    }
    return sb.String()
}
