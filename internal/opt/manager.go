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

package opt

import (
	"sort"

	"github.com/cloudwego/optsched/internal/analysis"
	"github.com/cloudwego/optsched/internal/il"
)

// Requirement declares what a pass needs from the analyses, and what it
// does to them.
type Requirement uint16

const (
	RequiresStructure Requirement = 1 << iota
	RequiresUseDefInfo
	RequiresGlobalsUseDefInfo
	PrefersGlobalsUseDefInfo
	RequiresValueNumbering
	RequiresGlobalsValueNumbering
	PrefersGlobalsValueNumbering
	StronglyPrefersGlobalsValueNumbering
	DoesNotRequireAliasSets
	DoesNotRequireLoadsAsDefsInUseDefs
	CannotOmitTrivialDefs
	MaintainsUseDefInfo
	ChangesTopology
)

const _NeedsStructure = RequiresStructure |
	RequiresUseDefInfo |
	RequiresGlobalsUseDefInfo |
	RequiresValueNumbering |
	RequiresGlobalsValueNumbering

// Manager holds the scheduling state of one pass or group for one
// compilation.
type Manager struct {
	id        ID
	factory   Factory
	group     *Group
	flags     Requirement
	enabled   bool
	requested bool
	whole     bool
	lastRun   bool
	trace     bool
	blocks    map[int]*il.Block
}

func newManager(id ID, flags Requirement, factory Factory, group *Group) *Manager {
	return &Manager{
		id:      id,
		flags:   flags,
		group:   group,
		factory: factory,
		enabled: true,
		blocks:  make(map[int]*il.Block),
	}
}

func (self *Manager) ID() ID {
	return self.id
}

func (self *Manager) Name() string {
	return self.id.String()
}

func (self *Manager) IsGroup() bool {
	return self.group != nil
}

func (self *Manager) Group() *Group {
	return self.group
}

func (self *Manager) Enabled() bool {
	return self.enabled
}

func (self *Manager) SetEnabled(v bool) {
	self.enabled = v
}

func (self *Manager) Trace() bool {
	return self.trace
}

func (self *Manager) SetTrace(v bool) {
	self.trace = v
}

func (self *Manager) LastRun() bool {
	return self.lastRun
}

func (self *Manager) Requirements() Requirement {
	return self.flags
}

func (self *Manager) Has(r Requirement) bool {
	return self.flags&r == r
}

// RequiresStructure also holds for passes needing def-use or value numbers,
// which are built on top of the structure.
func (self *Manager) RequiresStructure() bool {
	return self.flags&_NeedsStructure != 0
}

func (self *Manager) Requested() bool {
	return self.requested
}

// SetRequested requests the whole unit, or drops every request.
func (self *Manager) SetRequested(v bool) {
	self.requested = v
	self.whole = v
	if !v && len(self.blocks) != 0 {
		self.blocks = make(map[int]*il.Block)
	}
}

// RequestBlock requests the pass on one block.
func (self *Manager) RequestBlock(bb *il.Block) {
	self.requested = true
	self.blocks[bb.Id] = bb
}

// Pending reports whether any request is left, live or not.
func (self *Manager) Pending() bool {
	return self.whole || len(self.blocks) != 0
}

// HasLiveRequest reports whether there is a whole-unit request, or at least
// one requested block still in the graph.
func (self *Manager) HasLiveRequest() bool {
	if self.whole {
		return true
	}
	for _, bb := range self.blocks {
		if !bb.Removed() {
			return true
		}
	}
	return false
}

// RequestedBlocks returns the requested blocks in block id order, removed
// ones included.
func (self *Manager) RequestedBlocks() []*il.Block {
	ret := make([]*il.Block, 0, len(self.blocks))
	for _, bb := range self.blocks {
		ret = append(ret, bb)
	}
	sort.Slice(ret, func(i int, j int) bool { return ret[i].Id < ret[j].Id })
	return ret
}

func (self *Manager) liveBlocks() []*il.Block {
	all := self.RequestedBlocks()
	ret := all[:0]
	for _, bb := range all {
		if !bb.Removed() {
			ret = append(ret, bb)
		}
	}
	return ret
}

func (self *Manager) request() analysis.Request {
	return analysis.Request{
		Structure:                        self.RequiresStructure(),
		UseDefs:                          self.Has(RequiresUseDefInfo),
		GlobalUseDefs:                    self.Has(RequiresGlobalsUseDefInfo),
		PreferGlobalUseDefs:              self.flags&(PrefersGlobalsUseDefInfo|PrefersGlobalsValueNumbering|StronglyPrefersGlobalsValueNumbering) != 0,
		ValueNumbers:                     self.Has(RequiresValueNumbering),
		GlobalValueNumbers:               self.Has(RequiresGlobalsValueNumbering),
		StronglyPreferGlobalValueNumbers: self.Has(StronglyPrefersGlobalsValueNumbering),
		NoAliasSets:                      self.Has(DoesNotRequireAliasSets),
		NoLoadsAsDefs:                    self.Has(DoesNotRequireLoadsAsDefsInUseDefs),
		KeepTrivialDefs:                  self.Has(CannotOmitTrivialDefs),
	}
}
