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
)

type SymbolKind uint8

const (
    SymAuto SymbolKind = iota
    SymParam
    SymStatic
    SymField
    SymMethod
)

var _SymbolKindNames = [...]string {
    SymAuto   : "auto",
    SymParam  : "param",
    SymStatic : "static",
    SymField  : "field",
    SymMethod : "method",
}

func (self SymbolKind) String() string {
    if int(self) < len(_SymbolKindNames) {
        return _SymbolKindNames[self]
    } else {
        return fmt.Sprintf("kind(%d)", self)
    }
}

// ParseSymbolKind is the inverse of SymbolKind.String.
func ParseSymbolKind(name string) (SymbolKind, bool) {
    for i, v := range _SymbolKindNames {
        if v == name {
            return SymbolKind(i), true
        }
    }
    return SymAuto, false
}

// SymbolKey identifies the storage a symbol reference names. Several
// references may share one key.
type SymbolKey struct {
    Name   string
    Offset int
}

// Symbol is a symbol reference. Ref is its index in the owning table.
type Symbol struct {
    Ref      int
    Name     string
    Kind     SymbolKind
    Offset   int
    MayAlias []int
}

// IsLocal reports whether the symbol lives in the method frame.
func (self *Symbol) IsLocal() bool {
    return self.Kind == SymAuto || self.Kind == SymParam
}

func (self *Symbol) Key() SymbolKey {
    return SymbolKey{Name: self.Name, Offset: self.Offset}
}

func (self *Symbol) String() string {
    if self.Offset == 0 {
        return self.Name
    } else {
        return fmt.Sprintf("%s+%d", self.Name, self.Offset)
    }
}

type SymbolTable struct {
    refs []*Symbol
}

func (self *SymbolTable) Add(name string, kind SymbolKind, offset int) *Symbol {
    sym := &Symbol {
        Ref    : len(self.refs),
        Name   : name,
        Kind   : kind,
        Offset : offset,
    }
    self.refs = append(self.refs, sym)
    return sym
}

// Alias records that the two references may name overlapping storage.
func (self *SymbolTable) Alias(a *Symbol, b *Symbol) {
    if a != b {
        a.MayAlias = append(a.MayAlias, b.Ref)
        b.MayAlias = append(b.MayAlias, a.Ref)
    }
}

func (self *SymbolTable) Len() int {
    return len(self.refs)
}

func (self *SymbolTable) At(i int) *Symbol {
    return self.refs[i]
}

func (self *SymbolTable) All() []*Symbol {
    return self.refs
}

// Lookup returns the first reference with the given name.
func (self *SymbolTable) Lookup(name string) *Symbol {
    for _, v := range self.refs {
        if v.Name == name {
            return v
        }
    }
    return nil
}

func (self *SymbolTable) clone() *SymbolTable {
    ret := &SymbolTable{refs: make([]*Symbol, len(self.refs))}
    for i, v := range self.refs {
        p := *v
        p.MayAlias = append([]int(nil), v.MayAlias...)
        ret.refs[i] = &p
    }
    return ret
}
