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
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/cloudwego/optsched/internal/analysis"
	"github.com/cloudwego/optsched/internal/il"
	"github.com/cloudwego/optsched/internal/il/iltest"
	"github.com/cloudwego/optsched/internal/opts"
)

type testUnit struct {
	cfg         *il.CFG
	hotness     Hotness
	flags       Flags
	inner       bool
	inlined     Hotness
	interruptAt int
	checks      int
	reclaim     int
}

func (self *testUnit) Name() string               { return "test.unit" }
func (self *testUnit) CFG() *il.CFG               { return self.cfg }
func (self *testUnit) Hotness() Hotness           { return self.hotness }
func (self *testUnit) Flags() Flags               { return self.flags }
func (self *testUnit) MayHaveLoops() bool         { return self.cfg.MayHaveLoops() }
func (self *testUnit) IsOutermostMethod() bool    { return !self.inner }
func (self *testUnit) MaxInlinedHotness() Hotness { return self.inlined }
func (self *testUnit) ReclaimDeadNodes() int      { return self.reclaim }

func (self *testUnit) ShouldBeInterrupted() bool {
	self.checks++
	return self.interruptAt != 0 && self.checks >= self.interruptAt
}

type testPass struct {
	h    *harness
	id   ID
	cost int
	hook func(ctx *Context) int
}

func (self *testPass) ShouldPerform(*Context) bool {
	return !self.h.declined[self.id]
}

func (self *testPass) Perform(ctx *Context) int {
	self.h.trace = append(self.h.trace, self.id.String())
	if self.hook != nil {
		return self.hook(ctx)
	}
	return self.cost
}

type testBlockPass struct {
	testPass
}

func (self *testBlockPass) PerformOnBlock(ctx *Context, bb *il.Block) int {
	self.h.trace = append(self.h.trace, fmt.Sprintf("%s@%d", self.id, bb.Id))
	if self.hook != nil {
		return self.hook(ctx)
	}
	return self.cost
}

func (self *testBlockPass) PrePerformOnBlocks(*Context) {
	self.h.trace = append(self.h.trace, "pre")
}

func (self *testBlockPass) PostPerformOnBlocks(*Context) {
	self.h.trace = append(self.h.trace, "post")
}

type harness struct {
	t        *testing.T
	reg      *Registry
	trace    []string
	declined map[ID]bool
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:        t,
		reg:      NewRegistry(),
		declined: make(map[ID]bool),
	}
}

func (self *harness) pass(id ID, flags Requirement, cost int, hook func(ctx *Context) int) {
	self.reg.Register(id, flags, func(*Manager) Pass {
		return &testPass{h: self, id: id, cost: cost, hook: hook}
	})
}

func (self *harness) blockPass(id ID, flags Requirement, cost int, hook func(ctx *Context) int) {
	self.reg.Register(id, flags, func(*Manager) Pass {
		return &testBlockPass{testPass{h: self, id: id, cost: cost, hook: hook}}
	})
}

func (self *harness) engine(unit *testUnit, s Strategy, o opts.Options, groups ...*Group) *Engine {
	suite := newSuite("test", []ID{LocalCSE, LateLocalGroup}, [Hot + 1]Strategy{s, s, s, s}, groups...)
	RegisterGroups(self.reg, suite)
	e, err := NewEngine(unit, self.reg, suite, o)
	require.NoError(self.t, err)
	return e
}

func testOptions() opts.Options {
	return opts.Options{
		HighBasicBlockCount:  2500,
		HighLoopCount:        65,
		VeryHotHighLoopCount: 125,
		LastOptIndex:         math.MaxInt32,
	}
}

func strategy(entries ...Entry) Strategy {
	return append(Strategy(entries), Entry{EndOpts, Always})
}

func group(id ID, entries ...Entry) *Group {
	return &Group{ID: id, Entries: append(Strategy(entries), Entry{EndGroup, Always})}
}

func failureOf(t *testing.T, err error) *Failure {
	var f *Failure
	require.True(t, errors.As(err, &f), "%v", err)
	return f
}

func contractViolation(t *testing.T, fn func()) (ret *Failure) {
	defer func() {
		v := recover()
		require.NotNil(t, v)
		ret = v.(*Failure)
		require.Equal(t, PassContractViolation, ret.Kind)
	}()
	fn()
	return nil
}

func TestEngine_RequestsAffectOnlyLaterEntries(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.Request(TreeSimplification)
		return 0
	})
	h.pass(TreeSimplification, 0, 0, nil)
	h.pass(DeadTreesElimination, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, IfEnabled},
		Entry{LateLocalGroup, IfEnabled},
	), testOptions(), group(LateLocalGroup, Entry{DeadTreesElimination, Always}))
	require.NoError(t, e.Optimize())
	require.Equal(t, []string{"localCSE", "treeSimplification"}, h.trace)
	require.False(t, e.Manager(TreeSimplification).Requested())
}

func TestEngine_RunsOncePerRequest(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.Request(TreeSimplification)
		return 0
	})
	h.pass(TreeSimplification, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(2)}, strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, IfEnabled},
		Entry{TreeSimplification, IfEnabled},
		Entry{TreeSimplification, IfEnabledAndMoreThanOneBlock},
	), testOptions())
	require.NoError(t, e.Optimize())
	require.Equal(t, []string{"localCSE", "treeSimplification"}, h.trace)
}

func TestEngine_NoLoops(t *testing.T) {
	h := newHarness(t)
	h.pass(InductionVariableAnalysis, RequiresStructure|StronglyPrefersGlobalsValueNumbering, 0, nil)
	h.pass(LoopCanonicalization, RequiresUseDefInfo, 0, nil)
	h.pass(LoopStrider, RequiresGlobalsValueNumbering, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(4)}, strategy(
		Entry{InductionVariableAnalysis, IfLoops},
		Entry{LoopCanonicalization, IfLoopsMarkLastRun},
		Entry{LoopStrider, IfLoopsAndNotProfiling},
	), testOptions())
	require.NoError(t, e.Optimize())
	require.Empty(t, h.trace)
	require.Empty(t, e.History())
	require.False(t, e.artifacts.Structure.Valid())
	require.Zero(t, e.artifacts.Structure.Builds())
	require.Zero(t, e.artifacts.UseDefs.Builds())
	require.Zero(t, e.artifacts.ValueNumbers.Builds())
	require.Zero(t, e.Cost())
}

func TestEngine_StronglyPreferredGlobalsBuiltOnce(t *testing.T) {
	h := newHarness(t)
	h.pass(LoopStrider, RequiresValueNumbering|StronglyPrefersGlobalsValueNumbering, 0, func(ctx *Context) int {
		require.True(t, ctx.UseDefs().HasGlobals())
		return 0
	})
	e := h.engine(&testUnit{cfg: iltest.Loops(1)}, strategy(
		Entry{LoopStrider, Always},
		Entry{LoopStrider, Always},
		Entry{LoopStrider, Always},
	), testOptions())
	require.NoError(t, e.Optimize())

	hist := e.History()
	require.Len(t, hist, 3)
	require.Equal(t, []analysis.Kind{analysis.KindAliases, analysis.KindStructure, analysis.KindUseDefs, analysis.KindValueNumbers}, hist[0].Builds)
	require.Empty(t, hist[1].Builds)
	require.Empty(t, hist[2].Builds)
	require.Equal(t, 1, e.artifacts.UseDefs.Builds())
	require.Equal(t, 1+10+10+10, e.Cost())
}

func TestEngine_OptimizeOnce(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 2, nil)
	h.pass(DeadTreesElimination, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(2)}, strategy(
		Entry{LocalCSE, Always},
		Entry{DeadTreesElimination, IfEnabledMarkLastRun},
	), testOptions())
	e.Manager(DeadTreesElimination).SetRequested(true)
	require.NoError(t, e.Optimize())
	cost := e.Cost()
	require.Equal(t, 2+1, cost)

	/* a second walk is refused and leaves the results alone */
	require.ErrorIs(t, e.Optimize(), ErrAlreadyOptimized)
	require.Equal(t, []string{"localCSE", "deadTreesElimination"}, h.trace)
	require.Len(t, e.History(), 2)
	require.Equal(t, cost, e.Cost())
}

func TestEngine_BuildsOnlyWhatIsRequired(t *testing.T) {
	h := newHarness(t)
	h.pass(DeadTreesElimination, 0, 1, nil)
	h.pass(TreeSimplification, DoesNotRequireAliasSets, 1, nil)
	e := h.engine(&testUnit{cfg: iltest.Loops(2)}, strategy(
		Entry{DeadTreesElimination, Always},
		Entry{TreeSimplification, Always},
	), testOptions())
	require.NoError(t, e.Optimize())
	require.Equal(t, []analysis.Kind{analysis.KindAliases}, e.History()[0].Builds)
	require.Empty(t, e.History()[1].Builds)
	require.Zero(t, e.artifacts.Structure.Builds())
	require.Zero(t, e.artifacts.UseDefs.Builds())
	require.Zero(t, e.artifacts.ValueNumbers.Builds())
	require.Nil(t, e.Structure())
}

func TestEngine_RepeatGroupCapped(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.RequestBlock(LocalCSE, ctx.CFG().Root)
		return 0
	})
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{EachLocalAnalysisPassGroup, Always},
	), testOptions(), &Group{
		ID:      EachLocalAnalysisPassGroup,
		Repeats: true,
		Entries: Strategy{{LocalCSE, Always}, {EndGroup, Always}},
	})
	require.NoError(t, e.Optimize())
	require.Len(t, h.trace, MaxGroupIterations)
	require.True(t, e.Manager(LocalCSE).Pending())
}

func TestEngine_RepeatGroupStopsWhenNothingPending(t *testing.T) {
	h := newHarness(t)
	n := 0
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		if n++; n < 3 {
			ctx.RequestBlock(LocalCSE, ctx.CFG().Root)
		}
		return 0
	})
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{EachLocalAnalysisPassGroup, Always},
	), testOptions(), &Group{
		ID:      EachLocalAnalysisPassGroup,
		Repeats: true,
		Entries: Strategy{{LocalCSE, Always}, {EndGroup, Always}},
	})
	require.NoError(t, e.Optimize())
	require.Len(t, h.trace, 3)
}

func TestEngine_GroupDepthCapped(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.Request(LateLocalGroup)
		return 0
	})
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LateLocalGroup, Always},
	), testOptions(), group(LateLocalGroup, Entry{LocalCSE, Always}, Entry{LateLocalGroup, IfEnabled}))
	require.NoError(t, e.Optimize())
	require.Len(t, h.trace, MaxGroupDepth)
	require.Equal(t, MaxGroupDepth, e.History()[MaxGroupDepth-1].Depth)
	require.False(t, e.Manager(LateLocalGroup).Requested())
}

func TestEngine_GroupClearsCompanion(t *testing.T) {
	h := newHarness(t)
	h.pass(LoopVersioner, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LoopVersionerGroup, Always},
		Entry{LastLoopVersionerGroup, IfEnabled},
	), testOptions(),
		&Group{ID: LoopVersionerGroup, Clears: []ID{LastLoopVersionerGroup}, Entries: Strategy{{EndGroup, Always}}},
		group(LastLoopVersionerGroup, Entry{LoopVersioner, Always}),
	)
	e.SetRequested(LastLoopVersionerGroup, true, nil)
	require.NoError(t, e.Optimize())
	require.Empty(t, h.trace)
}

func TestEngine_ArtifactsRebuiltOnce(t *testing.T) {
	h := newHarness(t)
	h.pass(GlobalCopyPropagation, RequiresUseDefInfo, 0, nil)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		require.NotNil(t, ctx.UseDefs())
		ctx.CFG().Root.Append(ctx.CFG().Treetop(ctx.CFG().Const(1)))
		return 0
	})
	h.pass(GlobalDeadStoreElimination, RequiresUseDefInfo, 0, func(ctx *Context) int {
		require.NotNil(t, ctx.UseDefs())
		require.Nil(t, ctx.ValueNumbers())
		return 0
	})
	e := h.engine(&testUnit{cfg: iltest.Loops(1)}, strategy(
		Entry{GlobalCopyPropagation, Always},
		Entry{LocalCSE, Always},
		Entry{GlobalDeadStoreElimination, Always},
	), testOptions())
	require.NoError(t, e.Optimize())

	/* the second consumer rebuilds use-defs, and only them */
	hist := e.History()
	require.Len(t, hist, 3)
	require.Equal(t, []analysis.Kind{analysis.KindAliases, analysis.KindStructure, analysis.KindUseDefs}, hist[0].Builds)
	require.Empty(t, hist[1].Builds)
	require.Equal(t, []analysis.Kind{analysis.KindUseDefs}, hist[2].Builds)
	require.Equal(t, 2, e.artifacts.UseDefs.Builds())
	require.Equal(t, 1, e.artifacts.Structure.Builds())
	require.Equal(t, 1+10+10+10, e.Cost())
}

func TestEngine_MaintainsUseDefs(t *testing.T) {
	h := newHarness(t)
	h.pass(GlobalCopyPropagation, RequiresUseDefInfo, 0, nil)
	h.pass(LocalCSE, MaintainsUseDefInfo, 0, func(ctx *Context) int {
		ctx.CFG().Root.Append(ctx.CFG().Treetop(ctx.CFG().Const(1)))
		return 0
	})
	h.pass(GlobalDeadStoreElimination, RequiresUseDefInfo, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Loops(1)}, strategy(
		Entry{GlobalCopyPropagation, Always},
		Entry{LocalCSE, Always},
		Entry{GlobalDeadStoreElimination, Always},
	), testOptions())
	require.NoError(t, e.Optimize())
	require.Empty(t, e.History()[2].Builds)
	require.Equal(t, 1, e.artifacts.UseDefs.Builds())
}

func TestEngine_SymbolsAndTopology(t *testing.T) {
	h := newHarness(t)
	h.pass(InductionVariableAnalysis, RequiresStructure, 0, nil)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.CFG().Symbols.Add("tmp", il.SymAuto, 0)
		ctx.SignalTopologyChanged()
		return 0
	})
	h.pass(BasicBlockExtension, ChangesTopology, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Loops(1)}, strategy(
		Entry{InductionVariableAnalysis, Always},
		Entry{LocalCSE, Always},
		Entry{InductionVariableAnalysis, Always},
		Entry{BasicBlockExtension, Always},
	), testOptions())
	require.NoError(t, e.Optimize())
	hist := e.History()
	require.Equal(t, []analysis.Kind{analysis.KindAliases, analysis.KindStructure}, hist[2].Builds)
	require.Empty(t, hist[3].Builds)
	require.Nil(t, e.Structure())
}

func TestEngine_UnreachableBlocksRemoved(t *testing.T) {
	h := newHarness(t)
	h.pass(InductionVariableAnalysis, RequiresStructure|DoesNotRequireAliasSets, 0, nil)
	h.pass(CFGSimplification, DoesNotRequireAliasSets, 0, func(ctx *Context) int {
		cfg := ctx.CFG()
		cfg.Unlink(cfg.Block(1), cfg.Block(2))
		return 0
	})
	cfg := iltest.Chain(3)
	e := h.engine(&testUnit{cfg: cfg}, strategy(
		Entry{InductionVariableAnalysis, Always},
		Entry{CFGSimplification, Always},
		Entry{InductionVariableAnalysis, Always},
	), testOptions())
	require.NoError(t, e.Optimize())
	require.Equal(t, 2, cfg.NumBlocks())
	require.Equal(t, []analysis.Kind{analysis.KindStructure}, e.History()[2].Builds)
	require.Equal(t, 2, e.Structure().NumBlocks())
}

func TestEngine_DeadNodesDropValueNumbers(t *testing.T) {
	for _, reclaim := range []int{0, 3} {
		t.Run(fmt.Sprint(reclaim), func(t *testing.T) {
			h := newHarness(t)
			h.pass(LocalCSE, RequiresValueNumbering, 0, nil)
			e := h.engine(&testUnit{cfg: iltest.Chain(2), reclaim: reclaim}, strategy(Entry{LocalCSE, Always}), testOptions())
			require.NoError(t, e.Optimize())
			require.Equal(t, reclaim == 0, e.artifacts.ValueNumbers.Valid())
			require.True(t, e.artifacts.UseDefs.Valid())
		})
	}
}

func TestEngine_ComplexityThreshold(t *testing.T) {
	tests := []struct {
		name   string
		blocks int
		flags  Flags
		huge   bool
		fails  bool
	}{
		{"below", 9, 0, false, false},
		{"at", 10, 0, false, true},
		{"override", 10, 0, true, false},
		{"server/below", 19, FlagOptServer, false, false},
		{"server/at", 20, FlagOptServer, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.pass(InductionVariableAnalysis, RequiresStructure, 0, nil)
			h.pass(LocalCSE, 0, 0, nil)
			o := testOptions()
			o.HighBasicBlockCount = 10
			o.ProcessHugeMethods = tc.huge
			e := h.engine(&testUnit{cfg: iltest.Chain(tc.blocks), flags: tc.flags}, strategy(
				Entry{LocalCSE, Always},
				Entry{InductionVariableAnalysis, Always},
				Entry{LocalCSE, Always},
			), o)

			/* the pass itself never runs on a unit that is too large */
			err := e.Optimize()
			if !tc.fails {
				require.NoError(t, err)
				require.Equal(t, []string{"localCSE", "inductionVariableAnalysis", "localCSE"}, h.trace)
				return
			}
			f := failureOf(t, err)
			require.Equal(t, ExcessiveComplexity, f.Kind)
			require.Equal(t, "inductionVariableAnalysis", f.Pass)
			require.Equal(t, "Method is too large", f.Message)
			require.Equal(t, []string{"localCSE"}, h.trace)
		})
	}
}

func TestEngine_LoopThresholds(t *testing.T) {
	tests := []struct {
		name    string
		loops   int
		hotness Hotness
		flags   Flags
		fails   bool
	}{
		{"warm below", 2, Warm, 0, false},
		{"warm at", 3, Warm, 0, true},
		{"very hot", 3, VeryHot, 0, false},
		{"very hot at", 5, Scorching, 0, true},
		{"opt server", 5, Warm, FlagOptServer, false},
		{"opt server at", 6, Warm, FlagOptServer, true},
		{"frame shape", 3, Warm, FlagMimicInterpreterFrameShape, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.pass(InductionVariableAnalysis, RequiresStructure, 0, nil)
			o := testOptions()
			o.HighLoopCount = 3
			o.VeryHotHighLoopCount = 5
			unit := &testUnit{cfg: iltest.Loops(tc.loops), hotness: tc.hotness, flags: tc.flags}
			e := h.engine(unit, strategy(Entry{InductionVariableAnalysis, Always}), o)
			err := e.Optimize()
			if !tc.fails {
				require.NoError(t, err)
				return
			}
			f := failureOf(t, err)
			require.Equal(t, ExcessiveComplexity, f.Kind)
			if tc.flags.Has(FlagMimicInterpreterFrameShape) {
				require.Equal(t, "complex method under MimicInterpreterFrameShape", f.Message)
			}
		})
	}
}

func TestEngine_LoopOptsThatCanCreateLoops(t *testing.T) {
	for _, huge := range []bool{false, true} {
		t.Run(fmt.Sprint(huge), func(t *testing.T) {
			h := newHarness(t)
			h.pass(InductionVariableAnalysis, RequiresStructure, 0, func(ctx *Context) int {
				require.Equal(t, !huge, ctx.LoopOptsThatCanCreateLoopsDisabled())
				return 0
			})
			o := testOptions()
			o.HighLoopCount = 27
			o.ProcessHugeMethods = huge
			e := h.engine(&testUnit{cfg: iltest.Loops(2)}, strategy(Entry{InductionVariableAnalysis, Always}), o)
			require.NoError(t, e.Optimize())
			require.Equal(t, !huge, e.LoopOptsThatCanCreateLoopsDisabled())
		})
	}
}

func TestEngine_LastRun(t *testing.T) {
	t.Run("rerun", func(t *testing.T) {
		h := newHarness(t)
		h.pass(BasicBlockExtension, 0, 0, nil)
		e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
			Entry{BasicBlockExtension, MarkLastRun},
			Entry{BasicBlockExtension, Always},
		), testOptions())
		f := contractViolation(t, func() { _ = e.Optimize() })
		require.Equal(t, "basicBlockExtension", f.Pass)
		require.True(t, e.LastRun(BasicBlockExtension))
	})
	t.Run("marked without running", func(t *testing.T) {
		h := newHarness(t)
		h.pass(GlobalValuePropagation, 0, 0, nil)
		e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
			Entry{GlobalValuePropagation, IfEnabledMarkLastRun},
			Entry{GlobalValuePropagation, Always},
		), testOptions())
		contractViolation(t, func() { _ = e.Optimize() })
		require.Empty(t, h.trace)
	})
	t.Run("marking entries", func(t *testing.T) {
		h := newHarness(t)
		h.pass(LoopVersioner, 0, 0, nil)
		e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
			Entry{LoopVersioner, MarkLastRun},
			Entry{LoopVersioner, MarkLastRun},
			Entry{LoopVersioner, IfEnabled},
		), testOptions())
		require.NoError(t, e.Optimize())
		require.Len(t, h.trace, 2)
	})
	t.Run("group", func(t *testing.T) {
		h := newHarness(t)
		e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
			Entry{LateLocalGroup, MarkLastRun},
		), testOptions(), group(LateLocalGroup))
		contractViolation(t, func() { _ = e.Optimize() })
	})
}

func TestEngine_BlockScoped(t *testing.T) {
	h := newHarness(t)
	cfg := iltest.Chain(4)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.RequestBlock(TreeSimplification, cfg.Block(3))
		ctx.RequestBlock(TreeSimplification, cfg.Block(1))
		ctx.RequestBlock(TreeSimplification, cfg.Block(2))
		ctx.RequestBlock(DeadTreesElimination, cfg.Block(2))
		cfg.RemoveBlock(cfg.Block(3))
		return 0
	})
	h.blockPass(TreeSimplification, 0, 1, nil)
	h.pass(DeadTreesElimination, 0, 1, nil)
	e := h.engine(&testUnit{cfg: cfg}, strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, IfEnabled},
		Entry{DeadTreesElimination, IfEnabled},
	), testOptions())
	require.NoError(t, e.Optimize())

	/* removed blocks are skipped, passes without block support run whole */
	require.Equal(t, []string{"localCSE", "pre", "treeSimplification@1", "treeSimplification@2", "post", "deadTreesElimination"}, h.trace)
	hist := e.History()
	require.True(t, hist[1].BlockScoped)
	require.Equal(t, []int{1, 2}, hist[1].Blocks)
	require.Equal(t, 2, hist[1].Cost)
	require.False(t, hist[2].BlockScoped)
	require.False(t, e.Manager(TreeSimplification).Pending())
}

func TestEngine_BlockPassWholeRequest(t *testing.T) {
	h := newHarness(t)
	cfg := iltest.Chain(3)
	h.blockPass(TreeSimplification, 0, 0, func(ctx *Context) int {
		ctx.RequestBlock(TreeSimplification, cfg.Block(1))
		return 0
	})
	e := h.engine(&testUnit{cfg: cfg}, strategy(
		Entry{TreeSimplification, IfEnabled},
		Entry{TreeSimplification, Always},
	), testOptions())
	e.SetRequested(TreeSimplification, true, cfg.Block(2))
	e.SetRequested(TreeSimplification, true, nil)
	require.NoError(t, e.Optimize())

	/* a whole-unit request wins over requested blocks, ungated runs are whole */
	require.Equal(t, []string{"treeSimplification", "treeSimplification"}, h.trace)
	require.True(t, e.Manager(TreeSimplification).Pending())
}

func TestEngine_Interrupted(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, nil)
	h.pass(TreeSimplification, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(1), interruptAt: 1}, strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, Always},
	), testOptions())
	f := failureOf(t, e.Optimize())
	require.Equal(t, CompilationInterrupted, f.Kind)
	require.Equal(t, "localCSE", f.Pass)
	require.Equal(t, []string{"localCSE"}, h.trace)
	require.Len(t, e.History(), 1)
}

func TestEngine_InsufficientlyAggressive(t *testing.T) {
	tests := []struct {
		name    string
		hotness Hotness
		inlined Hotness
		inner   bool
		fails   bool
	}{
		{"hotter inline", Warm, Hot, false, true},
		{"same", Warm, Warm, false, false},
		{"cold", Cold, Hot, false, false},
		{"scorching", Scorching, Scorching + 1, false, false},
		{"inner", Warm, Hot, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			o := testOptions()
			o.DeterministicOrientedCompilation = true
			unit := &testUnit{cfg: iltest.Chain(1), hotness: tc.hotness, inlined: tc.inlined, inner: tc.inner}
			err := h.engine(unit, strategy(), o).Optimize()
			if !tc.fails {
				require.NoError(t, err)
				return
			}
			f := failureOf(t, err)
			require.Equal(t, InsufficientlyAggressiveCompilation, f.Kind)
			require.Equal(t, tc.inlined, f.NextHotness)
		})
	}
}

func TestEngine_Filters(t *testing.T) {
	s := strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, Always},
		Entry{DeadTreesElimination, Always},
	)
	tests := []struct {
		name   string
		setup  func(o *opts.Options)
		expect []string
	}{
		{"window", func(o *opts.Options) { o.FirstOptIndex, o.LastOptIndex = 2, 2 }, []string{"treeSimplification"}},
		{"by name", func(o *opts.Options) { o.DisabledOpts = []string{"localCSE"} }, []string{"treeSimplification", "deadTreesElimination"}},
		{"by index", func(o *opts.Options) { o.DisabledOpts = []string{"3"} }, []string{"localCSE", "treeSimplification"}},
		{"must be done", func(o *opts.Options) {
			o.LastOptIndex = 0
			o.DisabledOpts = []string{"deadTreesElimination"}
			o.Strategy = EncodeStrategy(s, DeadTreesElimination)
		}, []string{"deadTreesElimination"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.pass(LocalCSE, 0, 0, nil)
			h.pass(TreeSimplification, 0, 0, nil)
			h.pass(DeadTreesElimination, 0, 0, nil)
			o := testOptions()
			tc.setup(&o)
			require.NoError(t, h.engine(&testUnit{cfg: iltest.Chain(1)}, s, o).Optimize())
			require.Equal(t, tc.expect, h.trace)
		})
	}
}

func TestEngine_OptIndex(t *testing.T) {
	for _, inner := range []bool{false, true} {
		t.Run(fmt.Sprint(inner), func(t *testing.T) {
			h := newHarness(t)
			h.pass(LocalCSE, 0, 0, nil)
			h.pass(TreeSimplification, 0, 0, nil)
			h.pass(DeadTreesElimination, 0, 0, nil)
			e := h.engine(&testUnit{cfg: iltest.Chain(1), inner: inner}, strategy(
				Entry{LocalCSE, Always},
				Entry{Inlining, Always},
				Entry{TreeSimplification, IfEnabled},
				Entry{LateLocalGroup, Always},
			), testOptions(), group(LateLocalGroup, Entry{DeadTreesElimination, Always}))
			require.NoError(t, e.Optimize())

			/* unregistered and skipped passes still count, groups do not */
			hist := e.History()
			require.Len(t, hist, 2)
			require.Equal(t, 1, hist[0].Index)
			if inner {
				require.Equal(t, 1, hist[1].Index)
			} else {
				require.Equal(t, 4, hist[1].Index)
			}
			require.Equal(t, 1, hist[1].Depth)
		})
	}
}

func TestEngine_DisabledAndDeclined(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, nil)
	h.pass(TreeSimplification, 0, 0, nil)
	h.declined[TreeSimplification] = true
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LocalCSE, Always},
		Entry{TreeSimplification, Always},
	), testOptions())
	e.SetEnabled(LocalCSE, false)
	require.False(t, e.IsEnabled(LocalCSE))
	require.False(t, e.IsEnabled(Inlining))
	require.True(t, e.IsEnabled(TreeSimplification))
	require.NoError(t, e.Optimize())
	require.Empty(t, h.trace)
	require.Empty(t, e.History())
}

func TestEngine_Cost(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 3, nil)
	h.pass(InductionVariableAnalysis, RequiresStructure, 2, nil)
	h.pass(DeadTreesElimination, DoesNotRequireAliasSets, 5, nil)
	e := h.engine(&testUnit{cfg: iltest.Loops(1)}, strategy(
		Entry{LocalCSE, Always},
		Entry{InductionVariableAnalysis, Always},
		Entry{LateLocalGroup, Always},
	), testOptions(), group(LateLocalGroup, Entry{DeadTreesElimination, Always}, Entry{DeadTreesElimination, Always}))
	require.NoError(t, e.Optimize())
	require.Equal(t, (3+1)+(2+10)+5+5, e.Cost())
	require.Equal(t, 4, e.History()[0].Cost)
	require.Equal(t, 12, e.History()[1].Cost)
	require.NotNil(t, e.Structure())
}

func TestEngine_EnableAllLocalOpts(t *testing.T) {
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, nil)
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LocalCSE, IfEnabled},
		Entry{LateLocalGroup, IfEnabled},
	), testOptions(), group(LateLocalGroup))
	e.EnableAllLocalOpts()
	require.True(t, e.Manager(LocalCSE).Requested())
	require.True(t, e.Manager(LateLocalGroup).Requested())
	require.NoError(t, e.Optimize())
	require.Equal(t, []string{"localCSE"}, h.trace)
	require.False(t, e.Manager(LateLocalGroup).Requested())
}

func TestEngine_Trace(t *testing.T) {
	buf := new(bytes.Buffer)
	h := newHarness(t)
	h.pass(LocalCSE, 0, 0, func(ctx *Context) int {
		ctx.Tracef("commoned %d nodes", 2)
		return 0
	})
	o := testOptions()
	o.TraceOpts = []string{"2"}
	o.Logger = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(
		Entry{LocalCSE, Always},
		Entry{LocalCSE, Always},
	), o)
	require.NoError(t, e.Optimize())
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("commoned 2 nodes")))
	require.False(t, e.Manager(LocalCSE).Trace())
}

func TestEngine_CustomStrategy(t *testing.T) {
	h := newHarness(t)
	h.pass(DeadTreesElimination, 0, 0, nil)
	o := testOptions()
	o.Strategy = []int32{int32(DeadTreesElimination), int32(DeadTreesElimination)}
	e := h.engine(&testUnit{cfg: iltest.Chain(1)}, strategy(Entry{LocalCSE, Always}), o)
	require.Equal(t, 2, e.Strategy().Len())
	require.NoError(t, e.Optimize())
	require.Len(t, h.trace, 2)

	/* bad encodings are rejected */
	o.Strategy = []int32{-1}
	_, err := NewEngine(&testUnit{cfg: iltest.Chain(1)}, h.reg, Small, o)
	require.Error(t, err)
}
