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

package analysis

import (
    `sort`

    `github.com/oleiade/lane`

    `github.com/cloudwego/optsched/internal/il`
)

// Region is a node of the structure tree. The root region spans the whole
// method and has no header, every other region is a natural loop.
type Region struct {
    Header   *il.Block
    Parent   *Region
    Children []*Region
    Latches  []*il.Block
    blocks   map[int]*il.Block
}

func (self *Region) IsLoop() bool {
    return self.Header != nil
}

func (self *Region) Contains(bb *il.Block) bool {
    _, ok := self.blocks[bb.Id]
    return ok
}

func (self *Region) NumBlocks() int {
    return len(self.blocks)
}

// Blocks returns the blocks of the region sorted by id.
func (self *Region) Blocks() []*il.Block {
    ret := make([]*il.Block, 0, len(self.blocks))
    for _, bb := range self.blocks {
        ret = append(ret, bb)
    }
    sort.Slice(ret, func(i int, j int) bool { return ret[i].Id < ret[j].Id })
    return ret
}

// Depth is the loop nesting depth, zero for the root region.
func (self *Region) Depth() int {
    n := 0
    for p := self.Parent; p != nil; p = p.Parent {
        n++
    }
    return n
}

// Structure decomposes a graph into nested natural loops.
type Structure struct {
    Root    *Region
    Dom     il.DominatorTree
    loops   []*Region
    innerOf map[int]*Region
    nblocks int
}

func (self *Structure) NumLoops() int {
    return len(self.loops)
}

func (self *Structure) NumBlocks() int {
    return self.nblocks
}

// Loops returns every loop, outer loops before the loops they contain.
func (self *Structure) Loops() []*Region {
    return self.loops
}

// LoopOf returns the innermost loop containing the block, or nil.
func (self *Structure) LoopOf(bb *il.Block) *Region {
    return self.innerOf[bb.Id]
}

func BuildStructure(cfg *il.CFG) *Structure {
    dt := il.BuildDominatorTree(cfg.Root)
    hdr := make(map[int]*Region)
    ret := &Structure {
        Dom     : dt,
        innerOf : make(map[int]*Region),
        nblocks : cfg.NumBlocks(),
        Root    : &Region{blocks: make(map[int]*il.Block)},
    }

    /* only reachable blocks take part in the structure */
    var rpo []*il.Block
    cfg.ReversePostOrder(func(bb *il.Block) {
        rpo = append(rpo, bb)
        ret.Root.blocks[bb.Id] = bb
    })

    /* Phase 1: find back edges, a back edge goes to a dominator */
    for _, bb := range rpo {
        for _, h := range bb.Succ {
            if dt.Dominates(h, bb) {
                lp := hdr[h.Id]

                /* loops sharing a header are merged */
                if lp == nil {
                    lp = &Region{Header: h, blocks: map[int]*il.Block{ h.Id: h }}
                    hdr[h.Id] = lp
                    ret.loops = append(ret.loops, lp)
                }

                /* collect the natural loop body of this edge */
                lp.Latches = append(lp.Latches, bb)
                collectLoopBody(lp, bb, ret.Root)
            }
        }
    }

    /* Phase 2: sort loops from the largest, an enclosing loop is always bigger */
    sort.SliceStable(ret.loops, func(i int, j int) bool {
        return len(ret.loops[i].blocks) > len(ret.loops[j].blocks)
    })

    /* Phase 3: the parent of a loop is the smallest loop containing its header */
    for i, lp := range ret.loops {
        lp.Parent = ret.Root
        for j := i - 1; j >= 0; j-- {
            if ret.loops[j].Contains(lp.Header) {
                lp.Parent = ret.loops[j]
                break
            }
        }
        lp.Parent.Children = append(lp.Parent.Children, lp)
    }

    /* Phase 4: larger loops come first, so inner loops overwrite */
    for _, lp := range ret.loops {
        for id := range lp.blocks {
            ret.innerOf[id] = lp
        }
    }
    return ret
}

func collectLoopBody(lp *Region, latch *il.Block, root *Region) {
    st := lane.NewStack()
    st.Push(latch)

    /* walk backwards from the latch until reaching the header */
    for !st.Empty() {
        bb := st.Pop().(*il.Block)
        if _, ok := lp.blocks[bb.Id]; ok {
            continue
        }
        lp.blocks[bb.Id] = bb
        for _, p := range bb.Pred {
            if root.Contains(p) {
                st.Push(p)
            }
        }
    }
}

// CountLoops counts the loops nested in a region, including itself.
func CountLoops(r *Region) int {
    n := 0
    if r.IsLoop() {
        n++
    }
    for _, v := range r.Children {
        n += CountLoops(v)
    }
    return n
}
