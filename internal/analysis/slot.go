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
    `fmt`
)

type Kind uint8

const (
    KindStructure Kind = iota
    KindUseDefs
    KindValueNumbers
    KindAliases
    KindSymbolEquivalence
)

var _KindNames = [...]string {
    KindStructure         : "structure",
    KindUseDefs           : "usedefs",
    KindValueNumbers      : "valuenumbers",
    KindAliases           : "aliases",
    KindSymbolEquivalence : "symequiv",
}

func (self Kind) String() string {
    if int(self) < len(_KindNames) {
        return _KindNames[self]
    } else {
        return fmt.Sprintf("kind(%d)", self)
    }
}

// Slot holds at most one instance of an artifact. An invalidated artifact is
// dropped, never patched in place.
type Slot[T any] struct {
    v      T
    ok     bool
    builds int
}

func (self *Slot[T]) Valid() bool {
    return self.ok
}

// Get returns the artifact and panics if the slot is empty.
func (self *Slot[T]) Get() T {
    if !self.ok {
        panic("analysis: read of an invalid artifact")
    }
    return self.v
}

// Peek returns the artifact if the slot holds a valid one.
func (self *Slot[T]) Peek() (T, bool) {
    return self.v, self.ok
}

// Invalidate empties the slot and reports whether it held an artifact.
func (self *Slot[T]) Invalidate() bool {
    var zero T
    ok := self.ok
    self.v, self.ok = zero, false
    return ok
}

// Rebuild replaces the content of the slot with a new build. A builder that
// reports failure leaves the slot empty. Failed attempts count as builds.
func (self *Slot[T]) Rebuild(build func() (T, bool)) bool {
    self.Invalidate()
    self.builds++
    self.v, self.ok = build()
    if !self.ok {
        self.Invalidate()
    }
    return self.ok
}

// Builds is the number of build attempts made for this slot.
func (self *Slot[T]) Builds() int {
    return self.builds
}
