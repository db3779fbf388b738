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
    `github.com/cloudwego/optsched/internal/il`
)

// SymbolEquivalence maps every reference to the lowest reference naming the
// same storage.
type SymbolEquivalence []int

func BuildSymbolEquivalence(syms *il.SymbolTable) SymbolEquivalence {
    ret := make(SymbolEquivalence, syms.Len())
    first := make(map[il.SymbolKey]int)
    for _, v := range syms.All() {
        if p, ok := first[v.Key()]; ok {
            ret[v.Ref] = p
        } else {
            ret[v.Ref] = v.Ref
            first[v.Key()] = v.Ref
        }
    }
    return ret
}

func (self SymbolEquivalence) Canonical(sym *il.Symbol) int {
    return self[sym.Ref]
}

func (self SymbolEquivalence) Equivalent(a *il.Symbol, b *il.Symbol) bool {
    return self[a.Ref] == self[b.Ref]
}
