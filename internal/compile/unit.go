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

package compile

import (
	"context"
	"sync/atomic"

	"github.com/cloudwego/optsched/internal/il"
	"github.com/cloudwego/optsched/internal/opt"
	"github.com/cloudwego/optsched/internal/passes"
)

// Unit is one method compilation. It is not safe for concurrent use,
// except for Interrupt.
type Unit struct {
	name        string
	cfg         *il.CFG
	hotness     opt.Hotness
	flags       opt.Flags
	inlined     opt.Hotness
	inner       bool
	ctx         context.Context
	interrupted int32
	ivs         []passes.InductionVariable
}

func NewUnit(name string, cfg *il.CFG, hotness opt.Hotness) *Unit {
	return &Unit{
		name:    name,
		cfg:     cfg,
		hotness: hotness,
		inlined: opt.NoOpt,
		ctx:     context.Background(),
	}
}

func (self *Unit) Name() string                   { return self.name }
func (self *Unit) CFG() *il.CFG                   { return self.cfg }
func (self *Unit) Hotness() opt.Hotness           { return self.hotness }
func (self *Unit) Flags() opt.Flags               { return self.flags }
func (self *Unit) IsOutermostMethod() bool        { return !self.inner }
func (self *Unit) MaxInlinedHotness() opt.Hotness { return self.inlined }

func (self *Unit) MayHaveLoops() bool {
	return self.cfg.MayHaveLoops()
}

// ShouldBeInterrupted reports true once the bound context is done, or
// after Interrupt was called.
func (self *Unit) ShouldBeInterrupted() bool {
	if atomic.LoadInt32(&self.interrupted) != 0 {
		return true
	}
	select {
	case <-self.ctx.Done():
		return true
	default:
		return false
	}
}

// Interrupt asks the running strategy to stop after the current pass.
func (self *Unit) Interrupt() {
	atomic.StoreInt32(&self.interrupted, 1)
}

func (self *Unit) ReclaimDeadNodes() int {
	return self.cfg.ReclaimDeadNodes()
}

func (self *Unit) RecordInductionVariable(iv passes.InductionVariable) {
	self.ivs = append(self.ivs, iv)
}

// InductionVariables returns the induction variables found so far.
func (self *Unit) InductionVariables() []passes.InductionVariable {
	return self.ivs
}

func (self *Unit) SetFlags(flags opt.Flags) {
	self.flags = flags
}

// SetInlined records the hottest hotness among the inlined callees.
func (self *Unit) SetInlined(h opt.Hotness) {
	self.inlined = h
}

// SetInner marks the unit as a callee being inlined into another method.
func (self *Unit) SetInner(v bool) {
	self.inner = v
}

// WithContext binds the unit to ctx. The context is only polled between
// passes.
func (self *Unit) WithContext(ctx context.Context) *Unit {
	self.ctx = ctx
	return self
}

// Clone makes a fresh copy of the unit at the given hotness. The graph is
// deep copied, and the recorded induction variables are dropped.
func (self *Unit) Clone(hotness opt.Hotness) *Unit {
	return &Unit{
		name:    self.name,
		cfg:     self.cfg.Clone(),
		hotness: hotness,
		flags:   self.flags,
		inlined: self.inlined,
		inner:   self.inner,
		ctx:     self.ctx,
	}
}

var (
	_ opt.Compilation                  = (*Unit)(nil)
	_ opt.DeadNodeCollector            = (*Unit)(nil)
	_ passes.InductionVariableRecorder = (*Unit)(nil)
)
