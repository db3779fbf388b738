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
	"github.com/cloudwego/optsched/internal/il"
)

// Pass is one transformation. It is created by its factory right before it
// runs, and dropped right after.
type Pass interface {
	ShouldPerform(ctx *Context) bool
	Perform(ctx *Context) int
}

// Factory creates the pass of a manager.
type Factory func(m *Manager) Pass

// BlockPass is a pass that can also run on individual blocks. It is used
// when only some blocks of the unit were requested.
type BlockPass interface {
	Pass
	PerformOnBlock(ctx *Context, bb *il.Block) int
}

// BlockSetup brackets a block by block run.
type BlockSetup interface {
	PrePerformOnBlocks(ctx *Context)
	PostPerformOnBlocks(ctx *Context)
}

// Compilation is the unit being optimized, as seen by the engine.
type Compilation interface {
	Name() string
	CFG() *il.CFG
	Hotness() Hotness
	Flags() Flags
	MayHaveLoops() bool
	IsOutermostMethod() bool
	MaxInlinedHotness() Hotness
	ShouldBeInterrupted() bool
}

// DeadNodeCollector is implemented by compilations that can reclaim
// unreferenced nodes between strategy entries.
type DeadNodeCollector interface {
	ReclaimDeadNodes() int
}
