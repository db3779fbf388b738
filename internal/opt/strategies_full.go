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

var _LocalValuePropagationGroup = &Group{
	ID: LocalValuePropagationGroup,
	Entries: Strategy{
		{LocalCSE, Always},
		{LocalValuePropagation, Always},
		{LocalCSE, IfEnabled},
		{LocalValuePropagation, IfEnabled},
		{EndGroup, Always},
	},
}

var _ArrayPrivatizationGroup = &Group{
	ID: ArrayPrivatizationGroup,
	Entries: Strategy{
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{VeryCheapGlobalValuePropagationGroup, IfEnabled},
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, IfLoops},
		{TreeSimplification, Always},
		{DeadTreesElimination, Always},
		{BasicBlockOrdering, IfLoops},
		{TreesCleansing, IfLoops},
		{InductionVariableAnalysis, IfLoops},
		{BasicBlockOrdering, IfEnabled},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlock},
		{EndGroup, Always},
	},
}

var _ReorderArrayExprGroup = &Group{
	ID: ReorderArrayExprGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{ReorderArrayIndexExpr, IfLoops},
		{EndGroup, Always},
	},
}

var _CheapObjectAllocationGroup = &Group{
	ID: CheapObjectAllocationGroup,
	Entries: Strategy{
		{ExplicitNewInitialization, IfNews},
		{EndGroup, Always},
	},
}

var _ExpensiveObjectAllocationGroup = &Group{
	ID: ExpensiveObjectAllocationGroup,
	Entries: Strategy{
		{EachEscapeAnalysisPassGroup, IfEAOpportunities},
		{ExplicitNewInitialization, IfNews},
		{EndGroup, Always},
	},
}

var _EachEscapeAnalysisPassGroup = &Group{
	ID: EachEscapeAnalysisPassGroup,
	Entries: Strategy{
		{PreEscapeAnalysis, IfOSR},
		{EscapeAnalysis, Always},
		{PostEscapeAnalysis, IfOSR},
		{EachEscapeAnalysisPassGroup, IfEnabled},
		{EndGroup, Always},
	},
}

var _VeryCheapGlobalValuePropagationGroup = &Group{
	ID: VeryCheapGlobalValuePropagationGroup,
	Entries: Strategy{
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{EndGroup, Always},
	},
}

var _CheapGlobalValuePropagationGroup = &Group{
	ID: CheapGlobalValuePropagationGroup,
	Entries: Strategy{
		{CFGSimplification, IfOptServer},
		{TreeSimplification, IfOptServer},
		{LocalCSE, IfEnabledAndOptServer},
		{TreeSimplification, IfEnabledAndOptServer},
		{GlobalValuePropagation, IfLoopsMarkLastRun},
		{TreeSimplification, IfEnabled},
		{CheapObjectAllocationGroup, Always},
		{TreeSimplification, IfEnabled},
		{CatchBlockRemoval, IfEnabled},
		{OsrExceptionEdgeRemoval, Always},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlockMarkLastRun},
		{VirtualGuardTailSplitter, IfEnabled},
		{CFGSimplification, Always},
		{EndGroup, Always},
	},
}

var _ExpensiveGlobalValuePropagationGroup = &Group{
	ID: ExpensiveGlobalValuePropagationGroup,
	Entries: Strategy{
		{CFGSimplification, IfOptServer},
		{TreeSimplification, IfOptServer},
		{LocalCSE, IfEnabledAndOptServer},
		{TreeSimplification, IfEnabled},
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{TreeSimplification, IfEnabled},
		{DeadTreesElimination, Always},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlock},
		{TreeSimplification, IfEnabled},
		{CatchBlockRemoval, IfEnabled},
		{OsrExceptionEdgeRemoval, Always},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlock},
		{VirtualGuardTailSplitter, IfEnabled},
		{CFGSimplification, Always},
		{EndGroup, Always},
	},
}

var _EachExpensiveGlobalValuePropagationGroup = &Group{
	ID: EachExpensiveGlobalValuePropagationGroup,
	Entries: Strategy{
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{TreeSimplification, IfEnabled},
		{VeryCheapGlobalValuePropagationGroup, IfEnabled},
		{DeadTreesElimination, Always},
		{EachExpensiveGlobalValuePropagationGroup, IfEnabled},
		{EndGroup, Always},
	},
}

var _VeryExpensiveGlobalValuePropagationGroup = &Group{
	ID: VeryExpensiveGlobalValuePropagationGroup,
	Entries: Strategy{
		{EachExpensiveGlobalValuePropagationGroup, Always},
		{LocalDeadStoreElimination, Always},
		{TreeSimplification, IfEnabled},
		{CatchBlockRemoval, IfEnabled},
		{OsrExceptionEdgeRemoval, Always},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlock},
		{VirtualGuardTailSplitter, IfEnabled},
		{CFGSimplification, Always},
		{EndGroup, Always},
	},
}

var _PartialRedundancyEliminationGroup = &Group{
	ID: PartialRedundancyEliminationGroup,
	Entries: Strategy{
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{DeadTreesElimination, Always},
		{TreeSimplification, IfEnabled},
		{TreeSimplification, Always},
		{TreeSimplification, IfEnabled},
		{ReorderArrayExprGroup, IfEnabled},
		{PartialRedundancyElimination, IfMoreThanOneBlock},
		{LocalCSE, Always},
		{CatchBlockRemoval, IfEnabled},
		{DeadTreesElimination, IfEnabled},
		{CompactNullChecks, IfEnabled},
		{LocalReordering, IfEnabled},
		{GlobalValuePropagation, IfEnabledAndMoreThanOneBlockMarkLastRun},
		{BasicBlockOrdering, IfLoops},
		{GlobalCopyPropagation, IfLoops},
		{LoopVersionerGroup, IfEnabledAndLoops},
		{TreeSimplification, IfEnabled},
		{TreesCleansing, Always},
		{RedundantGotoElimination, IfNotJitProfiling},
		{LoopReduction, IfLoops},
		{LocalCSE, IfEnabled},
		{GlobalDeadStoreElimination, IfEnabledAndMoreThanOneBlock},
		{DeadTreesElimination, Always},
		{LoopReduction, Always},
		{LastLoopVersionerGroup, IfLoops},
		{TreeSimplification, Always},
		{DeadTreesElimination, Always},
		{InductionVariableAnalysis, IfLoopsAndNotProfiling},
		{LoopStrider, IfLoops},
		{TreeSimplification, IfEnabled},
		{LastLoopVersionerGroup, IfEnabledAndLoops},
		{TreeSimplification, Always},
		{LocalCSE, Always},
		{DeadTreesElimination, Always},
		{LoopStrider, IfLoops},
		{TreeSimplification, IfEnabled},
		{LoopInversion, IfLoops},
		{EndGroup, Always},
	},
}

var _MethodHandleInvokeInliningGroup = &Group{
	ID: MethodHandleInvokeInliningGroup,
	Entries: Strategy{
		{TreeSimplification, Always},
		{LocalCSE, Always},
		{LocalValuePropagation, Always},
		{DeadTreesElimination, Always},
		{MethodHandleInvokeInliningGroup, IfEnabled},
		{EndGroup, Always},
	},
}

var _EarlyGlobalGroup = &Group{
	ID: EarlyGlobalGroup,
	Entries: Strategy{
		{MethodHandleInvokeInliningGroup, IfMethodHandleInvokes},
		{OsrExceptionEdgeRemoval, Always},
		{TreeSimplification, IfEnabled},
		{CompactNullChecks, Always},
		{EndGroup, Always},
	},
}

var _EarlyLocalGroup = &Group{
	ID: EarlyLocalGroup,
	Entries: Strategy{
		{LocalValuePropagation, Always},
		{LocalReordering, Always},
		{SwitchAnalyzer, Always},
		{TreeSimplification, IfEnabled},
		{DeadTreesElimination, Always},
		{ProfiledNodeVersioning, Always},
		{EndGroup, Always},
	},
}

var _IsolatedStoreGroup = &Group{
	ID: IsolatedStoreGroup,
	Entries: Strategy{
		{IsolatedStoreElimination, Always},
		{DeadTreesElimination, Always},
		{EndGroup, Always},
	},
}

var _LoopAliasRefinerGroup = &Group{
	ID: LoopAliasRefinerGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, Always},
		{GlobalValuePropagation, IfMoreThanOneBlock},
		{LoopAliasRefiner, Always},
		{EndGroup, Always},
	},
}

var _LoopSpecializerGroup = &Group{
	ID: LoopSpecializerGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, Always},
		{LoopSpecializer, Always},
		{EndGroup, Always},
	},
}

var _LoopVersionerGroup = &Group{
	ID:     LoopVersionerGroup,
	Clears: []ID{LastLoopVersionerGroup},
	Entries: Strategy{
		{BasicBlockOrdering, Always},
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, Always},
		{LoopVersioner, Always},
		{EndGroup, Always},
	},
}

var _LastLoopVersionerGroup = &Group{
	ID: LastLoopVersionerGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, Always},
		{LoopVersioner, MarkLastRun},
		{EndGroup, Always},
	},
}

var _LoopCanonicalizationGroup = &Group{
	ID: LoopCanonicalizationGroup,
	Entries: Strategy{
		{GlobalCopyPropagation, IfLoops},
		{LoopVersionerGroup, Always},
		{DeadTreesElimination, Always},
		{TreeSimplification, Always},
		{FieldPrivatization, Always},
		{TreeSimplification, Always},
		{LoopSpecializerGroup, IfEnabledAndLoops},
		{DeadTreesElimination, IfEnabledAndLoops},
		{TreeSimplification, IfEnabledAndLoops},
		{EndGroup, Always},
	},
}

var _StripMiningGroup = &Group{
	ID: StripMiningGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, Always},
		{InductionVariableAnalysis, Always},
		{StripMining, Always},
		{EndGroup, Always},
	},
}

var _BlockManipulationGroup = &Group{
	ID: BlockManipulationGroup,
	Entries: Strategy{
		{ColdBlockOutlining, Always},
		{CFGSimplification, IfNotJitProfiling},
		{BasicBlockHoisting, IfNotJitProfiling},
		{TreeSimplification, Always},
		{RedundantGotoElimination, IfNotJitProfiling},
		{TreesCleansing, Always},
		{VirtualGuardHeadMerger, Always},
		{BasicBlockExtension, MarkLastRun},
		{TreeSimplification, Always},
		{BasicBlockPeepHole, IfEnabled},
		{EndGroup, Always},
	},
}

var _EachLocalAnalysisPassGroup = &Group{
	ID:      EachLocalAnalysisPassGroup,
	Repeats: true,
	Entries: Strategy{
		{LocalValuePropagationGroup, IfEnabled},
		{TreeSimplification, IfEnabled},
		{LocalCSE, IfEnabled},
		{LocalDeadStoreElimination, IfEnabled},
		{Rematerialization, IfEnabled},
		{CompactNullChecks, IfEnabled},
		{DeadTreesElimination, IfEnabled},
		{EndGroup, Always},
	},
}

var _LateLocalGroup = &Group{
	ID: LateLocalGroup,
	Entries: Strategy{
		{EachLocalAnalysisPassGroup, Always},
		{AndSimplification, Always},
		{TreesCleansing, Always},
		{EachLocalAnalysisPassGroup, Always},
		{LocalDeadStoreElimination, Always},
		{DeadTreesElimination, Always},
		{GlobalDeadStoreGroup, Always},
		{EachLocalAnalysisPassGroup, Always},
		{TreeSimplification, Always},
		{EndGroup, Always},
	},
}

var _TacticalGlobalRegisterAllocatorGroup = &Group{
	ID: TacticalGlobalRegisterAllocatorGroup,
	Entries: Strategy{
		{InductionVariableAnalysis, IfLoops},
		{LoopCanonicalization, IfLoops},
		{LiveRangeSplitter, IfLoops},
		{RedundantGotoElimination, IfNotJitProfiling},
		{TreeSimplification, MarkLastRun},
		{TacticalGlobalRegisterAllocator, IfEnabled},
		{LocalCSE, Always},
		{GlobalCopyPropagation, IfEnabledAndMoreThanOneBlock},
		{LocalCSE, Always},
		{GlobalDeadStoreGroup, IfEnabled},
		{RedundantGotoElimination, IfEnabledAndNotJitProfiling},
		{DeadTreesElimination, Always},
		{DeadTreesElimination, IfEnabled},
		{DeadTreesElimination, IfEnabled},
		{EndGroup, Always},
	},
}

var _FinalGlobalGroup = &Group{
	ID: FinalGlobalGroup,
	Entries: Strategy{
		{Rematerialization, Always},
		{CompactNullChecks, IfEnabled},
		{DeadTreesElimination, Always},
		{LocalLiveRangeReduction, Always},
		{CompactLocals, IfNotJitProfiling},
		{EndGroup, Always},
	},
}

var _FullNoOpt = Strategy{
	{EndOpts, Always},
}

var _FullCold = Strategy{
	{BasicBlockExtension, Always},
	{LocalCSE, Always},
	{TreeSimplification, Always},
	{LocalCSE, Always},
	{EndOpts, Always},
}

var _FullWarm = Strategy{
	{BasicBlockExtension, Always},
	{LocalCSE, Always},
	{TreeSimplification, Always},
	{LocalCSE, Always},
	{LocalDeadStoreElimination, Always},
	{GlobalDeadStoreGroup, Always},
	{EndOpts, Always},
}

var _FullHot = Strategy{
	{ColdBlockOutlining, Always},
	{EarlyGlobalGroup, Always},
	{EarlyLocalGroup, Always},
	{AndSimplification, Always},
	{StripMiningGroup, Always},
	{LoopReplicator, Always},
	{BlockSplitter, Always},
	{ArrayPrivatizationGroup, Always},
	{VeryExpensiveGlobalValuePropagationGroup, Always},
	{GlobalDeadStoreGroup, Always},
	{GlobalCopyPropagation, Always},
	{LoopCanonicalizationGroup, Always},
	{ExpressionsSimplification, Always},
	{PartialRedundancyEliminationGroup, Always},
	{GlobalDeadStoreElimination, Always},
	{InductionVariableAnalysis, Always},
	{LoopSpecializerGroup, Always},
	{InductionVariableAnalysis, Always},
	{GeneralLoopUnroller, Always},
	{BlockSplitter, MarkLastRun},
	{BlockManipulationGroup, Always},
	{LateLocalGroup, Always},
	{RedundantAsyncCheckRemoval, Always},
	{GlobalCopyPropagation, Always},
	{GeneralStoreSinking, Always},
	{LocalCSE, Always},
	{TreeSimplification, Always},
	{TrivialBlockExtension, Always},
	{LocalDeadStoreElimination, Always},
	{LocalCSE, Always},
	{ArraysetStoreElimination, Always},
	{LocalValuePropagation, MarkLastRun},
	{CheckcastAndProfiledGuardCoalescer, Always},
	{OsrExceptionEdgeRemoval, MarkLastRun},
	{TacticalGlobalRegisterAllocatorGroup, Always},
	{GlobalDeadStoreElimination, Always},
	{DeadTreesElimination, Always},
	{CompactNullChecks, Always},
	{FinalGlobalGroup, Always},
	{RegDepCopyRemoval, Always},
	{EndOpts, Always},
}

var _FullLocalOpts = append(_SmallLocalOpts[:len(_SmallLocalOpts):len(_SmallLocalOpts)],
	AndSimplification,
	CatchBlockRemoval,
	LateLocalGroup,
	LocalReordering,
	LocalValuePropagationGroup,
)

var _FullGroups = []*Group{
	_LocalValuePropagationGroup,
	_ArrayPrivatizationGroup,
	_ReorderArrayExprGroup,
	_CheapObjectAllocationGroup,
	_ExpensiveObjectAllocationGroup,
	_EachEscapeAnalysisPassGroup,
	_VeryCheapGlobalValuePropagationGroup,
	_CheapGlobalValuePropagationGroup,
	_ExpensiveGlobalValuePropagationGroup,
	_EachExpensiveGlobalValuePropagationGroup,
	_VeryExpensiveGlobalValuePropagationGroup,
	_PartialRedundancyEliminationGroup,
	_MethodHandleInvokeInliningGroup,
	_EarlyGlobalGroup,
	_EarlyLocalGroup,
	_IsolatedStoreGroup,
	_LoopAliasRefinerGroup,
	_LoopSpecializerGroup,
	_LoopVersionerGroup,
	_LastLoopVersionerGroup,
	_LoopCanonicalizationGroup,
	_StripMiningGroup,
	_BlockManipulationGroup,
	_EachLocalAnalysisPassGroup,
	_LateLocalGroup,
	_TacticalGlobalRegisterAllocatorGroup,
	_FinalGlobalGroup,
	_GlobalDeadStoreGroup,
	_CheapTacticalGRAGroup,
}

// Full is the suite of the full optimizer.
var Full = newSuite("full", _FullLocalOpts, [Hot + 1]Strategy{
	NoOpt: _FullNoOpt,
	Cold:  _FullCold,
	Warm:  _FullWarm,
	Hot:   _FullHot,
}, _FullGroups...)
