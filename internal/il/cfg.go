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

package il

import (
    `fmt`
    `strings`

    `github.com/oleiade/lane`
)

type Block struct {
    Id      int
    Trees   []*Node
    Succ    []*Block
    Pred    []*Block
    Handler bool
    removed bool
}

// Removed reports whether the block has been deleted from its graph. Stale
// references to a removed block may still be held by a request set.
func (self *Block) Removed() bool {
    return self.removed
}

func (self *Block) Append(trees ...*Node) {
    self.Trees = append(self.Trees, trees...)
}

// Terminator returns the trailing branch of the block, or nil if control
// falls through.
func (self *Block) Terminator() *Node {
    if n := len(self.Trees); n != 0 && self.Trees[n - 1].Op.IsBranch() {
        return self.Trees[n - 1]
    } else {
        return nil
    }
}

// ForEachNode visits every distinct node of the block in evaluation order.
func (self *Block) ForEachNode(action func(n *Node)) {
    seen := make(map[*Node]struct{})
    for _, tt := range self.Trees {
        tt.walk(seen, action)
    }
}

func (self *Block) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}

// CFG is the control flow graph of one method. Nodes must be allocated with
// the constructors of the graph so that NodeCount stays accurate.
type CFG struct {
    Root        *Block
    Symbols     *SymbolTable
    blocks      []*Block
    nextBlock   int
    nodes       int
    dead        int
    unreachable bool
}

func NewCFG() *CFG {
    cfg := &CFG{Symbols: new(SymbolTable)}
    cfg.Root = cfg.NewBlock()
    return cfg
}

func (self *CFG) NewBlock() *Block {
    bb := &Block{Id: self.nextBlock}
    self.nextBlock++
    self.blocks = append(self.blocks, bb)
    return bb
}

// Blocks returns the live blocks in creation order.
func (self *CFG) Blocks() []*Block {
    return self.blocks
}

func (self *CFG) NumBlocks() int {
    return len(self.blocks)
}

func (self *CFG) MaxBlock() int {
    return self.nextBlock
}

// NodeCount is the number of nodes ever allocated in this graph. It never
// decreases, so growth means a pass created nodes.
func (self *CFG) NodeCount() int {
    return self.nodes
}

func (self *CFG) SymbolCount() int {
    return self.Symbols.Len()
}

func (self *CFG) Block(id int) *Block {
    for _, bb := range self.blocks {
        if bb.Id == id {
            return bb
        }
    }
    return nil
}

func (self *CFG) Link(from *Block, to *Block) {
    from.Succ = append(from.Succ, to)
    to.Pred = append(to.Pred, from)
}

// Unlink removes one edge between the two blocks.
func (self *CFG) Unlink(from *Block, to *Block) {
    from.Succ = blockdel(from.Succ, to)
    to.Pred = blockdel(to.Pred, from)
    self.unreachable = true
}

// Redirect moves the edge from -> old so that it goes to repl instead.
func (self *CFG) Redirect(from *Block, old *Block, repl *Block) {
    for i, v := range from.Succ {
        if v == old {
            from.Succ[i] = repl
            old.Pred = blockdel(old.Pred, from)
            repl.Pred = append(repl.Pred, from)
            return
        }
    }
    panic(fmt.Sprintf("il: %s is not a successor of %s", old, from))
}

// RemoveBlock deletes the block and all of its edges.
func (self *CFG) RemoveBlock(bb *Block) {
    if bb == self.Root {
        panic("il: cannot remove the root block")
    }

    /* drop all the edges */
    for _, v := range bb.Succ {
        v.Pred = blockdel(v.Pred, bb)
    }
    for _, v := range bb.Pred {
        v.Succ = blockdel(v.Succ, bb)
    }

    /* mark as removed */
    bb.Succ = nil
    bb.Pred = nil
    bb.removed = true
    self.blocks = blockdel(self.blocks, bb)
    self.unreachable = true
}

func (self *CFG) MarkMightHaveUnreachableBlocks() {
    self.unreachable = true
}

func (self *CFG) MightHaveUnreachableBlocks() bool {
    return self.unreachable
}

// RemoveUnreachableBlocks deletes every block not reachable from the root,
// returning how many were removed.
func (self *CFG) RemoveUnreachableBlocks() int {
    q := lane.NewQueue()
    r := map[int]struct{}{ self.Root.Id: {} }

    /* breadth-first search from the root */
    for q.Enqueue(self.Root); !q.Empty(); {
        for _, v := range q.Dequeue().(*Block).Succ {
            if _, ok := r[v.Id]; !ok {
                r[v.Id] = struct{}{}
                q.Enqueue(v)
            }
        }
    }

    /* collect the dead blocks first, RemoveBlock mutates the list */
    var dead []*Block
    for _, bb := range self.blocks {
        if _, ok := r[bb.Id]; !ok {
            dead = append(dead, bb)
        }
    }

    /* remove them from the graph */
    for _, bb := range dead {
        self.RemoveBlock(bb)
    }

    /* the graph is clean now */
    self.unreachable = false
    return len(dead)
}

// PostOrder calls action for each block reachable from the root in DFS
// post-order.
func (self *CFG) PostOrder(action func(bb *Block)) {
    newBlockIter(self.Root).ForEach(action)
}

func (self *CFG) ReversePostOrder(action func(bb *Block)) {
    for _, bb := range newBlockIter(self.Root).Reversed() {
        action(bb)
    }
}

// MayHaveLoops reports whether the DFS from the root sees a retreating edge.
func (self *CFG) MayHaveLoops() bool {
    it := newBlockIter(self.Root)
    it.ForEach(func(*Block) {})
    return it.retreating
}

// ForEachNode visits every distinct node of the live blocks, statement by
// statement in evaluation order.
func (self *CFG) ForEachNode(action func(bb *Block, n *Node)) {
    seen := make(map[*Node]struct{})
    for _, bb := range self.blocks {
        for _, tt := range bb.Trees {
            tt.walk(seen, func(n *Node) { action(bb, n) })
        }
    }
}

// ReclaimDeadNodes returns the number of nodes that became unreferenced
// since the previous call.
func (self *CFG) ReclaimDeadNodes() int {
    live := 0
    self.ForEachNode(func(*Block, *Node) { live++ })

    /* only report what is newly dead */
    dead := self.nodes - live
    ret := dead - self.dead
    self.dead = dead

    /* nodes may have been revived by commoning */
    if ret < 0 {
        return 0
    } else {
        return ret
    }
}

func (self *CFG) NewNode(op Opcode, sym *Symbol, value int64, kids ...*Node) *Node {
    self.nodes++
    return &Node {
        Id    : self.nodes,
        Op    : op,
        Sym   : sym,
        Value : value,
        Kids  : kids,
    }
}

func (self *CFG) Const(v int64) *Node {
    return self.NewNode(OpConst, nil, v)
}

func (self *CFG) Load(sym *Symbol) *Node {
    return self.NewNode(OpLoad, sym, 0)
}

func (self *CFG) Store(sym *Symbol, v *Node) *Node {
    return self.NewNode(OpStore, sym, 0, v)
}

func (self *CFG) Binary(op Opcode, x *Node, y *Node) *Node {
    if !op.IsBinary() {
        panic("il: not a binary opcode: " + op.String())
    }
    return self.NewNode(op, nil, 0, x, y)
}

func (self *CFG) Treetop(v *Node) *Node {
    return self.NewNode(OpTreetop, nil, 0, v)
}

func (self *CFG) Call(sym *Symbol, args ...*Node) *Node {
    return self.NewNode(OpCall, sym, 0, args...)
}

func (self *CFG) If(cond *Node) *Node {
    return self.NewNode(OpIf, nil, 0, cond)
}

func (self *CFG) Goto() *Node {
    return self.NewNode(OpGoto, nil, 0)
}

func (self *CFG) Return(v *Node) *Node {
    if v == nil {
        return self.NewNode(OpReturn, nil, 0)
    } else {
        return self.NewNode(OpReturn, nil, 0, v)
    }
}

// Clone makes a deep copy of the graph, keeping block ids, node ids and
// commoned nodes intact.
func (self *CFG) Clone() *CFG {
    ret := &CFG {
        Symbols     : self.Symbols.clone(),
        nextBlock   : self.nextBlock,
        nodes       : self.nodes,
        dead        : self.dead,
        unreachable : self.unreachable,
    }

    /* copy every block */
    bbs := make(map[*Block]*Block, len(self.blocks))
    nodes := make(map[*Node]*Node)
    for _, bb := range self.blocks {
        nb := &Block{Id: bb.Id, Handler: bb.Handler}
        bbs[bb] = nb
        ret.blocks = append(ret.blocks, nb)
        for _, tt := range bb.Trees {
            nb.Trees = append(nb.Trees, ret.cloneNode(tt, nodes))
        }
    }

    /* copy the edges */
    for _, bb := range self.blocks {
        nb := bbs[bb]
        for _, v := range bb.Succ { nb.Succ = append(nb.Succ, bbs[v]) }
        for _, v := range bb.Pred { nb.Pred = append(nb.Pred, bbs[v]) }
    }

    /* the root is always live */
    ret.Root = bbs[self.Root]
    return ret
}

func (self *CFG) cloneNode(n *Node, nodes map[*Node]*Node) *Node {
    if p, ok := nodes[n]; ok {
        return p
    }

    /* shallow copy first */
    p := &Node {
        Id    : n.Id,
        Op    : n.Op,
        Value : n.Value,
    }

    /* remap the symbol into the new table */
    if n.Sym != nil {
        p.Sym = self.Symbols.At(n.Sym.Ref)
    }

    /* copy the children */
    nodes[n] = p
    for _, v := range n.Kids {
        p.Kids = append(p.Kids, self.cloneNode(v, nodes))
    }
    return p
}

func (self *CFG) String() string {
    buf := make([]string, 0, len(self.blocks))
    for _, bb := range self.blocks {
        buf = append(buf, blockdump(bb))
    }
    return strings.Join(buf, "\n")
}

func blockdump(bb *Block) string {
    var sb strings.Builder
    fmt.Fprintf(&sb, "%s:", bb)

    /* successors on the label line */
    if len(bb.Succ) != 0 {
        sb.WriteString(" ->")
        for _, v := range bb.Succ {
            fmt.Fprintf(&sb, " %s", v)
        }
    }

    /* one tree per line */
    for _, tt := range bb.Trees {
        fmt.Fprintf(&sb, "\n    %s", tt)
    }
    return sb.String()
}

func blockdel(bbs []*Block, bb *Block) []*Block {
    for i, v := range bbs {
        if v == bb {
            return append(bbs[:i], bbs[i + 1:]...)
        }
    }
    return bbs
}
