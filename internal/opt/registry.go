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
	"fmt"
)

type registration struct {
	flags   Requirement
	factory Factory
	group   *Group
}

// Registry maps IDs to pass factories and group definitions. Every engine
// built from a registry gets fresh managers, so a registry may be shared by
// concurrent compilations once populated.
type Registry struct {
	items map[ID]registration
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[ID]registration)}
}

// Register binds a pass to its factory and requirements. Registering the
// same pass again replaces it.
func (self *Registry) Register(id ID, flags Requirement, factory Factory) {
	if !id.IsPass() {
		panic(fmt.Sprintf("opt: %s is not a pass", id))
	}
	if factory == nil {
		panic(fmt.Sprintf("opt: nil factory for %s", id))
	}
	self.items[id] = registration{flags: flags, factory: factory}
}

func (self *Registry) RegisterGroup(g *Group) {
	if !g.ID.IsGroup() {
		panic(fmt.Sprintf("opt: %s is not a group", g.ID))
	}
	self.items[g.ID] = registration{group: g}
}

// IsRegistered reports whether the ID has a factory or a group definition.
func (self *Registry) IsRegistered(id ID) bool {
	_, ok := self.items[id]
	return ok
}

// Len returns the number of registered passes and groups.
func (self *Registry) Len() int {
	return len(self.items)
}

func (self *Registry) managers() map[ID]*Manager {
	ret := make(map[ID]*Manager, len(self.items))
	for id, r := range self.items {
		ret[id] = newManager(id, r.flags, r.factory, r.group)
	}
	return ret
}

// RegisterGroups registers every group of the suite.
func RegisterGroups(r *Registry, s *Suite) {
	for _, g := range s.Groups() {
		r.RegisterGroup(g)
	}
}
