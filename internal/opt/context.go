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

	"github.com/cloudwego/optsched/internal/analysis"
	"github.com/cloudwego/optsched/internal/il"
)

// Context is what a running pass sees of the engine. Analysis accessors
// return nil when the analysis is not valid.
type Context struct {
	engine   *Engine
	manager  *Manager
	topology bool
}

func (self *Context) Compilation() Compilation {
	return self.engine.comp
}

func (self *Context) CFG() *il.CFG {
	return self.engine.comp.CFG()
}

func (self *Context) Manager() *Manager {
	return self.manager
}

func (self *Context) Structure() *analysis.Structure {
	v, _ := self.engine.artifacts.Structure.Peek()
	return v
}

func (self *Context) UseDefs() *analysis.UseDefInfo {
	v, _ := self.engine.artifacts.UseDefs.Peek()
	return v
}

func (self *Context) ValueNumbers() *analysis.ValueNumberInfo {
	v, _ := self.engine.artifacts.ValueNumbers.Peek()
	return v
}

func (self *Context) Aliases() *analysis.AliasSets {
	v, _ := self.engine.artifacts.Aliases.Peek()
	return v
}

// SymbolEquivalence returns the symbol-equivalence table, building it on
// first use.
func (self *Context) SymbolEquivalence() analysis.SymbolEquivalence {
	return self.engine.artifacts.SymbolEquivalenceTable(self.CFG())
}

// Invalidate drops one analysis that the pass knows it made stale.
func (self *Context) Invalidate(kind analysis.Kind) {
	self.engine.invalidate(kind, self.manager.Name())
}

// Request asks for another pass or group to run on the whole unit.
func (self *Context) Request(id ID) {
	self.engine.SetRequested(id, true, nil)
}

// RequestBlock asks for another pass to run on one block.
func (self *Context) RequestBlock(id ID, bb *il.Block) {
	self.engine.SetRequested(id, true, bb)
}

// SignalTopologyChanged tells the engine that blocks or edges were changed,
// so that the structure is dropped after the pass.
func (self *Context) SignalTopologyChanged() {
	self.topology = true
}

func (self *Context) LoopOptsThatCanCreateLoopsDisabled() bool {
	return self.engine.loopOptsDisabled
}

// Tracef logs a message if tracing is enabled for the pass.
func (self *Context) Tracef(format string, args ...interface{}) {
	if self.manager.trace && self.engine.log != nil {
		self.engine.log.Info(fmt.Sprintf(format, args...), "pass", self.manager.Name(), "unit", self.engine.comp.Name())
	}
}
