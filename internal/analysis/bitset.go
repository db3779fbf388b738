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
    `math/bits`
)

type bitset []uint64

func newBitset(n int) bitset {
    return make(bitset, (n + 63) / 64)
}

func (self bitset) set(i int) {
    self[i / 64] |= 1 << (i % 64)
}

func (self bitset) has(i int) bool {
    return self[i / 64] & (1 << (i % 64)) != 0
}

func (self bitset) clone() bitset {
    return append(bitset(nil), self...)
}

// union merges other into self and reports whether self changed.
func (self bitset) union(other bitset) bool {
    changed := false
    for i, v := range other {
        if w := self[i] | v; w != self[i] {
            self[i], changed = w, true
        }
    }
    return changed
}

func (self bitset) minus(other bitset) {
    for i, v := range other {
        self[i] &^= v
    }
}

func (self bitset) equal(other bitset) bool {
    for i, v := range other {
        if self[i] != v {
            return false
        }
    }
    return true
}

func (self bitset) forEach(fn func(i int)) {
    for i, w := range self {
        for w != 0 {
            b := bits.TrailingZeros64(w)
            fn(i * 64 + b)
            w &= w - 1
        }
    }
}
