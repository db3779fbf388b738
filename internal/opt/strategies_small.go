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

var _CheapTacticalGRAGroup = &Group{
	ID: CheapTacticalGlobalRegisterAllocatorGroup,
	Entries: Strategy{
		{RedundantGotoElimination, IfNotProfiling},
		{TacticalGlobalRegisterAllocator, IfEnabled},
		{EndGroup, Always},
	},
}

var _GlobalDeadStoreGroup = &Group{
	ID: GlobalDeadStoreGroup,
	Entries: Strategy{
		{GlobalDeadStoreElimination, IfMoreThanOneBlock},
		{LocalDeadStoreElimination, IfOneBlock},
		{DeadTreesElimination, Always},
		{EndGroup, Always},
	},
}

var _SmallLocalOpts = []ID{
	LocalCSE,
	TreeSimplification,
	LocalDeadStoreElimination,
	DeadTreesElimination,
	CompactNullChecks,
	RedundantGotoElimination,
}

var _SmallNoOpt = Strategy{
	{EndOpts, Always},
}

var _SmallCold = Strategy{
	{DeadTreesElimination, Always},
	{TreeSimplification, Always},
	{LocalCSE, Always},
	{BasicBlockExtension, Always},
	{CheapTacticalGlobalRegisterAllocatorGroup, Always},
	{EndOpts, Always},
}

var _SmallWarm = Strategy{
	{DeadTreesElimination, Always},
	{Inlining, Always},
	{TreeSimplification, Always},
	{LocalCSE, Always},
	{BasicBlockOrdering, Always},
	{GlobalCopyPropagation, Always},
	{GlobalDeadStoreElimination, IfMoreThanOneBlock},
	{DeadTreesElimination, Always},
	{TreeSimplification, Always},
	{BasicBlockHoisting, Always},
	{TreeSimplification, Always},
	{GlobalValuePropagation, IfMoreThanOneBlock},
	{LocalValuePropagation, IfOneBlock},
	{SwitchAnalyzer, Always},
	{LocalCSE, Always},
	{TreeSimplification, Always},
	{TrivialDeadTreeRemoval, IfEnabled},
	{BasicBlockOrdering, IfLoops},
	{LoopCanonicalization, IfLoops},
	{InductionVariableAnalysis, IfLoops},
	{GeneralLoopUnroller, IfLoops},
	{BasicBlockExtension, MarkLastRun},
	{TreeSimplification, Always},
	{LocalCSE, Always},
	{TreeSimplification, IfEnabled},
	{TrivialDeadTreeRemoval, IfEnabled},
	{CheapTacticalGlobalRegisterAllocatorGroup, Always},
	{GlobalDeadStoreGroup, Always},
	{RedundantGotoElimination, IfEnabled},
	{Rematerialization, Always},
	{DeadTreesElimination, IfEnabled},
	{DeadTreesElimination, IfEnabled},
	{RegDepCopyRemoval, Always},
	{EndOpts, Always},
}

// Small is the suite of the small optimizer. Hot compilations reuse the
// warm strategy.
var Small = newSuite("small", _SmallLocalOpts, [Hot + 1]Strategy{
	NoOpt: _SmallNoOpt,
	Cold:  _SmallCold,
	Warm:  _SmallWarm,
	Hot:   _SmallWarm,
}, _CheapTacticalGRAGroup, _GlobalDeadStoreGroup)
