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
    `github.com/oleiade/lane`
)

// BlockIter walks the blocks reachable from a root in DFS post-order.
type BlockIter struct {
    b          *Block
    s          *lane.Stack
    v          map[int]struct{}
    e          map[int]struct{}
    retreating bool
}

func newBlockIter(root *Block) *BlockIter {
    s := lane.NewStack()
    s.Push(root)

    /* the root is visited and on the stack */
    return &BlockIter {
        s: s,
        v: map[int]struct{}{ root.Id: {} },
        e: map[int]struct{}{ root.Id: {} },
    }
}

func (self *BlockIter) Next() bool {
    var tail bool
    var this *Block

    /* scan until the stack is empty */
    for !self.s.Empty() {
        tail = true
        this = self.s.Head().(*Block)

        /* descend into the first unvisited successor */
        for _, p := range this.Succ {
            if _, ok := self.v[p.Id]; !ok {
                tail = false
                self.v[p.Id] = struct{}{}
                self.e[p.Id] = struct{}{}
                self.s.Push(p)
                break
            } else if _, ok = self.e[p.Id]; ok {
                self.retreating = true
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            self.b = self.s.Pop().(*Block)
            delete(self.e, self.b.Id)
            return true
        }
    }

    /* clear the basic block pointer to indicate no more blocks */
    self.b = nil
    return false
}

func (self *BlockIter) Block() *Block {
    return self.b
}

func (self *BlockIter) ForEach(action func(bb *Block)) {
    for self.Next() {
        action(self.b)
    }
}

func (self *BlockIter) Reversed() []*Block {
    var ret []*Block
    for self.Next() {
        ret = append(ret, self.b)
    }

    /* reverse the order */
    for i, j := 0, len(ret) - 1; i < j; i, j = i + 1, j - 1 {
        ret[i], ret[j] = ret[j], ret[i]
    }
    return ret
}
