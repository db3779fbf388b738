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
)

type Opcode uint8

const (
    OpNop Opcode = iota
    OpConst
    OpLoad
    OpStore
    OpAdd
    OpSub
    OpMul
    OpAnd
    OpOr
    OpXor
    OpCmpEq
    OpCmpNe
    OpCmpLt
    OpCall
    OpNew
    OpMonEnter
    OpMonExit
    OpTreetop
    OpIf
    OpGoto
    OpReturn
)

var _OpNames = [...]string {
    OpNop      : "nop",
    OpConst    : "const",
    OpLoad     : "load",
    OpStore    : "store",
    OpAdd      : "add",
    OpSub      : "sub",
    OpMul      : "mul",
    OpAnd      : "and",
    OpOr       : "or",
    OpXor      : "xor",
    OpCmpEq    : "cmpeq",
    OpCmpNe    : "cmpne",
    OpCmpLt    : "cmplt",
    OpCall     : "call",
    OpNew      : "new",
    OpMonEnter : "monent",
    OpMonExit  : "monexit",
    OpTreetop  : "treetop",
    OpIf       : "if",
    OpGoto     : "goto",
    OpReturn   : "return",
}

func (self Opcode) String() string {
    if int(self) < len(_OpNames) && _OpNames[self] != "" {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("op(%d)", self)
    }
}

// ParseOpcode is the inverse of Opcode.String.
func ParseOpcode(name string) (Opcode, bool) {
    for i, v := range _OpNames {
        if v == name {
            return Opcode(i), true
        }
    }
    return OpNop, false
}

func (self Opcode) IsBinary() bool {
    return self >= OpAdd && self <= OpCmpLt
}

func (self Opcode) IsCommutative() bool {
    switch self {
        case OpAdd   : return true
        case OpMul   : return true
        case OpAnd   : return true
        case OpOr    : return true
        case OpXor   : return true
        case OpCmpEq : return true
        case OpCmpNe : return true
        default      : return false
    }
}

// IsPure reports whether a node with this opcode only computes a value.
func (self Opcode) IsPure() bool {
    return self == OpConst || self == OpLoad || self.IsBinary()
}

func (self Opcode) IsBranch() bool {
    return self == OpIf || self == OpGoto || self == OpReturn
}

type Node struct {
    Id    int
    Op    Opcode
    Sym   *Symbol
    Value int64
    Kids  []*Node
}

func (self *Node) IsLoad() bool {
    return self.Op == OpLoad
}

func (self *Node) IsStore() bool {
    return self.Op == OpStore
}

// HasSideEffects reports whether evaluating the tree rooted at this node
// does anything besides producing a value.
func (self *Node) HasSideEffects() bool {
    if self.Op != OpTreetop && !self.Op.IsPure() {
        return true
    }
    for _, v := range self.Kids {
        if v.HasSideEffects() {
            return true
        }
    }
    return false
}

// Walk visits the tree in evaluation order (children before parents).
// A node commoned under several parents is visited once.
func (self *Node) Walk(fn func(n *Node)) {
    self.walk(make(map[*Node]struct{}), fn)
}

func (self *Node) walk(seen map[*Node]struct{}, fn func(n *Node)) {
    if _, ok := seen[self]; ok {
        return
    }
    seen[self] = struct{}{}
    for _, v := range self.Kids {
        v.walk(seen, fn)
    }
    fn(self)
}

// Equal reports structural equality of two trees.
func (self *Node) Equal(other *Node) bool {
    if self == other {
        return true
    }
    if self.Op != other.Op || self.Sym != other.Sym || self.Value != other.Value || len(self.Kids) != len(other.Kids) {
        return false
    }
    for i, v := range self.Kids {
        if !v.Equal(other.Kids[i]) {
            return false
        }
    }
    return true
}

func (self *Node) String() string {
    var sb strings.Builder
    self.format(&sb)
    return sb.String()
}

func (self *Node) format(sb *strings.Builder) {
    sb.WriteByte('(')
    sb.WriteString(self.Op.String())

    /* operand of the node itself */
    switch {
        case self.Op == OpConst : fmt.Fprintf(sb, " %d", self.Value)
        case self.Sym != nil    : fmt.Fprintf(sb, " %s", self.Sym)
    }

    /* format every child */
    for _, v := range self.Kids {
        sb.WriteByte(' ')
        v.format(sb)
    }
    sb.WriteByte(')')
}
