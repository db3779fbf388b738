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
	"errors"

	"golang.org/x/exp/slog"

	"github.com/cloudwego/optsched/internal/analysis"
	"github.com/cloudwego/optsched/internal/il"
	"github.com/cloudwego/optsched/internal/opts"
)

// ErrAlreadyOptimized is returned when Optimize is called again on the same
// engine.
var ErrAlreadyOptimized = errors.New("opt: engine has already optimized its compilation")

const (
	MaxGroupIterations = 5
	MaxGroupDepth      = 16
)

const (
	_AliasBuildCost = 1
	_BuildCost      = 10
)

// Record describes one executed pass.
type Record struct {
	Index       int
	ID          ID
	Name        string
	Depth       int
	Cost        int
	Builds      []analysis.Kind
	BlockScoped bool
	Blocks      []int
}

// Engine runs one strategy over one compilation. It is not safe for
// concurrent use, and Optimize runs the strategy only once.
type Engine struct {
	comp             Compilation
	suite            *Suite
	strategy         Strategy
	opts             opts.Options
	log              *slog.Logger
	managers         map[ID]*Manager
	artifacts        analysis.Artifacts
	cost             int
	optIndex         int
	depth            int
	history          []Record
	loopOptsDisabled bool
	structureBuilt   bool
	optimized        bool
}

// NewEngine creates an engine for the compilation. The strategy is picked
// from the suite by hotness, unless the options carry a custom one.
func NewEngine(comp Compilation, reg *Registry, suite *Suite, o opts.Options) (*Engine, error) {
	ret := &Engine{
		comp:     comp,
		suite:    suite,
		opts:     o,
		log:      o.Logger,
		managers: reg.managers(),
	}

	/* custom strategies override the suite */
	if len(o.Strategy) == 0 {
		ret.strategy = suite.Select(comp.Hotness())
	} else if s, err := CustomStrategy(o.Strategy); err != nil {
		return nil, err
	} else {
		ret.strategy = s
	}

	/* passes traced by name */
	for _, m := range ret.managers {
		m.trace = o.ShouldTrace(m.Name(), -1)
	}

	/* analysis limits */
	ret.artifacts.UseDefLimit = o.UseDefLimit
	return ret, nil
}

// Optimize runs the strategy to its sentinel. Fatal failures are returned
// as *Failure, contract violations panic.
func (self *Engine) Optimize() error {
	if self.optimized {
		return ErrAlreadyOptimized
	}
	self.optimized = true
	self.debug("strategy start", "hotness", self.comp.Hotness(), "entries", self.strategy.Len())

	/* top-level entries */
	for _, e := range self.strategy[:self.strategy.Len()] {
		cost, err := self.perform(e)
		self.cost += cost

		/* abort on fatal failures */
		if err != nil {
			self.debug("strategy aborted", "error", err)
			return err
		}

		/* reclaimed nodes may still carry value numbers */
		if dc, ok := self.comp.(DeadNodeCollector); ok && dc.ReclaimDeadNodes() != 0 {
			self.invalidate(analysis.KindValueNumbers, "dead nodes reclaimed")
		}
	}

	/* ask for a recompilation if the inlined code is hotter */
	if err := self.checkAggressiveness(); err != nil {
		return err
	}

	self.debug("strategy end", "cost", self.cost)
	return nil
}

func (self *Engine) perform(e Entry) (int, error) {
	m := self.managers[e.ID]
	st := self.state()

	/* unregistered passes still take an opt index */
	if m == nil {
		if e.ID.IsPass() {
			self.nextIndex()
		}
		self.debug("skip", "pass", e.ID, "reason", "unregistered")
		return 0, nil
	}

	/* last run is marked whether the pass runs or not */
	d := Evaluate(e.Cond, &st, m)
	if d.MarkLastRun {
		if m.IsGroup() {
			panic(newFailure(PassContractViolation, self.comp.Name(), m.Name(), "cannot mark a group as last run"))
		}
		m.lastRun = true
	}

	/* groups are expanded in place */
	if !m.IsGroup() {
		return self.performPass(m, d)
	} else if d.Run {
		return self.expand(m)
	} else {
		return 0, nil
	}
}

func (self *Engine) expand(m *Manager) (int, error) {
	cost := 0
	grp := m.group

	/* the expansion attempt consumes the request */
	m.SetRequested(false)
	for _, id := range grp.Clears {
		if c := self.managers[id]; c != nil {
			c.SetRequested(false)
		}
	}

	/* bound the recursion of self-requesting groups */
	if self.depth >= MaxGroupDepth {
		self.debug("skip", "group", m.Name(), "reason", "nested too deep", "depth", self.depth)
		return 0, nil
	}

	self.depth++
	self.debug("group enter", "group", m.Name(), "depth", self.depth)
	defer func() { self.depth-- }()

	/* run the group, repeating while blocks are pending */
	for iter := 1; ; iter++ {
		for _, e := range grp.Entries[:grp.Entries.Len()] {
			c, err := self.perform(e)
			cost += c
			if err != nil {
				return cost, err
			}
		}
		if !grp.Repeats || !self.pending(grp) {
			break
		}
		if iter >= MaxGroupIterations {
			self.debug("group capped", "group", m.Name(), "iterations", iter)
			break
		}
	}

	self.debug("group exit", "group", m.Name(), "depth", self.depth, "cost", cost)
	return cost, nil
}

func (self *Engine) pending(grp *Group) bool {
	for _, e := range grp.Entries[:grp.Entries.Len()] {
		if m := self.managers[e.ID]; m != nil && m.Pending() {
			return true
		}
	}
	return false
}

func (self *Engine) performPass(m *Manager, d Decision) (int, error) {
	index := self.nextIndex()
	if !d.Run {
		return 0, nil
	}

	/* filters, which must-be-done passes ignore */
	if !d.MustBeDone {
		switch {
		case !self.opts.InOptWindow(index):
			self.debug("skip", "pass", m.Name(), "index", index, "reason", "outside opt index window")
			return 0, nil
		case !m.enabled:
			self.debug("skip", "pass", m.Name(), "index", index, "reason", "disabled")
			return 0, nil
		case self.opts.IsDisabled(m.Name(), index):
			self.debug("skip", "pass", m.Name(), "index", index, "reason", "disabled by options")
			return 0, nil
		}
	}

	/* the pass may decline to run */
	cfg := self.comp.CFG()
	ctx := &Context{engine: self, manager: m}
	pass := m.factory(m)
	if !pass.ShouldPerform(ctx) {
		self.debug("skip", "pass", m.Name(), "index", index, "reason", "declined")
		return 0, nil
	}

	/* bring the analyses up to date */
	rec := Record{Index: index, ID: m.id, Name: m.Name(), Depth: self.depth}
	rec.Builds = self.prepare(m)
	cost := buildCost(rec.Builds)

	/* index-based tracing lasts for this run only */
	trace := m.trace
	defer func() { m.trace = trace }()
	if self.opts.ShouldTrace(m.Name(), index) {
		m.trace = true
	}

	/* refuse units the loop analyses cannot handle */
	if s, ok := self.artifacts.Structure.Peek(); ok && m.RequiresStructure() {
		if err := self.checkComplexity(m, s); err != nil {
			return cost, err
		}
	}

	/* snapshot the counters the invalidation rules look at */
	nodes := cfg.NodeCount()
	syms := cfg.SymbolCount()
	bp, ok := pass.(BlockPass)
	self.debug("run", "pass", m.Name(), "index", index, "depth", self.depth, "gated", d.RequestGated)

	/* run on the requested blocks, or on the whole unit */
	if d.RequestGated && !m.whole && ok {
		blocks := m.liveBlocks()
		m.SetRequested(false)
		self.checkLastRun(m, d)
		rec.BlockScoped = true

		/* blocks removed by an earlier block run are skipped */
		if bs, ok := pass.(BlockSetup); ok {
			bs.PrePerformOnBlocks(ctx)
		}
		for _, bb := range blocks {
			if !bb.Removed() {
				rec.Blocks = append(rec.Blocks, bb.Id)
				cost += bp.PerformOnBlock(ctx, bb)
			}
		}
		if bs, ok := pass.(BlockSetup); ok {
			bs.PostPerformOnBlocks(ctx)
		}
	} else {
		self.checkLastRun(m, d)
		m.SetRequested(false)
		cost += pass.Perform(ctx)
	}

	/* record the run */
	rec.Cost = cost
	self.history = append(self.history, rec)

	/* interrupts are only honored between passes */
	if self.comp.ShouldBeInterrupted() {
		return cost, newFailure(CompilationInterrupted, self.comp.Name(), m.Name(), "interrupted between optimizations")
	}

	/* drop whatever the pass made stale */
	for _, k := range self.artifacts.Apply(analysis.Effects{
		NodesAdded:       cfg.NodeCount() > nodes,
		SymbolsChanged:   cfg.SymbolCount() != syms,
		TopologyChanged:  ctx.topology || m.Has(ChangesTopology),
		MaintainsUseDefs: m.Has(MaintainsUseDefInfo),
	}) {
		self.debug("invalidated", "artifact", k, "pass", m.Name())
	}

	/* sweep the blocks the pass disconnected */
	if cfg.MightHaveUnreachableBlocks() {
		if n := cfg.RemoveUnreachableBlocks(); n != 0 {
			self.debug("removed unreachable blocks", "pass", m.Name(), "blocks", n)
			self.invalidate(analysis.KindValueNumbers, "unreachable blocks removed")
			self.invalidate(analysis.KindStructure, "unreachable blocks removed")
		}
	}
	return cost, nil
}

func (self *Engine) prepare(m *Manager) []analysis.Kind {
	cfg := self.comp.CFG()
	built := self.artifacts.Prepare(cfg, m.request())

	/* log the builds */
	for _, k := range built {
		self.debug("built", "artifact", k, "pass", m.Name())
	}

	/* loops are counted on the first structure only */
	if s, ok := self.artifacts.Structure.Peek(); ok && !self.structureBuilt {
		self.structureBuilt = true
		if !self.opts.ProcessHugeMethods && s.NumLoops() >= self.opts.HighLoopCount-25 {
			self.loopOptsDisabled = true
			self.debug("loop opts that can create loops disabled", "loops", s.NumLoops())
		}
	}
	return built
}

func (self *Engine) checkLastRun(m *Manager, d Decision) {
	if m.lastRun && !d.MarkLastRun {
		panic(newFailure(PassContractViolation, self.comp.Name(), m.Name(), "%s shouldn't be run after LastRun was set", m.Name()))
	}
}

func (self *Engine) checkComplexity(m *Manager, s *analysis.Structure) error {
	blocks := self.comp.CFG().NumBlocks()
	loops := s.NumLoops()
	flags := self.comp.Flags()
	maxBlocks := self.opts.HighBasicBlockCount
	maxLoops := self.opts.HighLoopCount

	/* very hot and opt-server compilations get more room */
	if self.comp.Hotness() >= VeryHot {
		maxLoops = self.opts.VeryHotHighLoopCount
	}
	if flags.Has(FlagOptServer) {
		maxBlocks *= 2
		maxLoops *= 2
	}

	/* within limits */
	if blocks < maxBlocks && loops < maxLoops {
		return nil
	}

	/* huge methods may be forced through */
	if self.opts.ProcessHugeMethods {
		if self.log != nil {
			self.log.Warn("method is normally too large but limits overridden", "unit", self.comp.Name(), "pass", m.Name(), "blocks", blocks, "loops", loops)
		}
		return nil
	}

	/* fail the compilation */
	self.debug("excessive complexity", "pass", m.Name(), "blocks", blocks, "loops", loops)
	if flags.Has(FlagMimicInterpreterFrameShape) {
		return newFailure(ExcessiveComplexity, self.comp.Name(), m.Name(), "complex method under MimicInterpreterFrameShape")
	} else {
		return newFailure(ExcessiveComplexity, self.comp.Name(), m.Name(), "Method is too large")
	}
}

func (self *Engine) checkAggressiveness() error {
	h := self.comp.Hotness()
	if !self.opts.DeterministicOrientedCompilation || !self.comp.IsOutermostMethod() || h <= Cold || h >= Scorching {
		return nil
	}

	/* nothing hotter was inlined */
	next := self.comp.MaxInlinedHotness()
	if next <= h {
		return nil
	}

	/* recompile at the inlined hotness */
	ret := newFailure(InsufficientlyAggressiveCompilation, self.comp.Name(), "", "Method needs to be compiled at higher level")
	ret.NextHotness = next
	return ret
}

func (self *Engine) nextIndex() int {
	ret := self.optIndex + 1
	if self.comp.IsOutermostMethod() {
		self.optIndex++
	}
	return ret
}

func (self *Engine) state() State {
	return State{
		Hotness:    self.comp.Hotness(),
		HasLoops:   self.comp.MayHaveLoops(),
		MultiBlock: self.comp.CFG().NumBlocks() > 1,
		Flags:      self.comp.Flags(),
	}
}

func (self *Engine) invalidate(kind analysis.Kind, reason string) {
	ok := false
	switch kind {
	case analysis.KindStructure:
		ok = self.artifacts.Structure.Invalidate()
	case analysis.KindUseDefs:
		ok = self.artifacts.UseDefs.Invalidate()
	case analysis.KindValueNumbers:
		ok = self.artifacts.ValueNumbers.Invalidate()
	case analysis.KindAliases:
		ok = self.artifacts.Aliases.Invalidate()
	case analysis.KindSymbolEquivalence:
		ok = self.artifacts.SymbolEquivalence.Invalidate()
	}
	if ok {
		self.debug("invalidated", "artifact", kind, "reason", reason)
	}
}

func (self *Engine) debug(msg string, args ...interface{}) {
	if self.log != nil {
		self.log.Debug(msg, append([]interface{}{"unit", self.comp.Name()}, args...)...)
	}
}

func buildCost(built []analysis.Kind) int {
	ret := 0
	for _, k := range built {
		if k == analysis.KindAliases {
			ret += _AliasBuildCost
		} else {
			ret += _BuildCost
		}
	}
	return ret
}

// IsEnabled reports whether the pass or group is registered and enabled.
func (self *Engine) IsEnabled(id ID) bool {
	m := self.managers[id]
	return m != nil && m.enabled
}

// SetEnabled enables or disables a registered pass or group.
func (self *Engine) SetEnabled(id ID, v bool) {
	if m := self.managers[id]; m != nil {
		m.SetEnabled(v)
	}
}

func (self *Engine) LastRun(id ID) bool {
	m := self.managers[id]
	return m != nil && m.lastRun
}

// SetRequested requests the pass on bb, or on the whole unit if bb is nil.
// Clearing a request drops every requested block.
func (self *Engine) SetRequested(id ID, v bool, bb *il.Block) {
	if m := self.managers[id]; m == nil {
		return
	} else if v && bb != nil {
		m.RequestBlock(bb)
	} else {
		m.SetRequested(v)
	}
}

// EnableAllLocalOpts requests every local optimization of the suite.
func (self *Engine) EnableAllLocalOpts() {
	for _, id := range self.suite.LocalOpts {
		self.SetRequested(id, true, nil)
	}
}

// Manager returns the manager of id, or nil if it is not registered.
func (self *Engine) Manager(id ID) *Manager {
	return self.managers[id]
}

func (self *Engine) Strategy() Strategy {
	return self.strategy
}

func (self *Engine) Cost() int {
	return self.cost
}

// Structure returns the structure left valid by the last pass, if any.
func (self *Engine) Structure() *analysis.Structure {
	s, _ := self.artifacts.Structure.Peek()
	return s
}

func (self *Engine) History() []Record {
	return self.history
}

func (self *Engine) LoopOptsThatCanCreateLoopsDisabled() bool {
	return self.loopOptsDisabled
}
