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

// ID names a pass or a group of passes. Passes sort between EndOpts and
// numOpts, groups between EndGroup and numGroups.
type ID int

const (
	EndOpts ID = iota
	AndSimplification
	ArraysetStoreElimination
	BasicBlockExtension
	BasicBlockHoisting
	BasicBlockOrdering
	BasicBlockPeepHole
	BlockSplitter
	CatchBlockRemoval
	CFGSimplification
	CheckcastAndProfiledGuardCoalescer
	ColdBlockOutlining
	CompactLocals
	CompactNullChecks
	DeadTreesElimination
	EscapeAnalysis
	ExplicitNewInitialization
	ExpressionsSimplification
	FieldPrivatization
	GeneralLoopUnroller
	GeneralStoreSinking
	GlobalCopyPropagation
	GlobalDeadStoreElimination
	GlobalValuePropagation
	InductionVariableAnalysis
	Inlining
	IsolatedStoreElimination
	LiveRangeSplitter
	LocalCSE
	LocalDeadStoreElimination
	LocalLiveRangeReduction
	LocalReordering
	LocalValuePropagation
	LoopAliasRefiner
	LoopCanonicalization
	LoopInversion
	LoopReduction
	LoopReplicator
	LoopSpecializer
	LoopStrider
	LoopVersioner
	OsrExceptionEdgeRemoval
	PartialRedundancyElimination
	PostEscapeAnalysis
	PreEscapeAnalysis
	ProfiledNodeVersioning
	RedundantAsyncCheckRemoval
	RedundantGotoElimination
	RegDepCopyRemoval
	Rematerialization
	ReorderArrayIndexExpr
	StripMining
	SwitchAnalyzer
	TacticalGlobalRegisterAllocator
	TreeSimplification
	TreesCleansing
	TrivialBlockExtension
	TrivialDeadTreeRemoval
	VirtualGuardHeadMerger
	VirtualGuardTailSplitter
	numOpts

	EndGroup
	ArrayPrivatizationGroup
	BlockManipulationGroup
	CheapGlobalValuePropagationGroup
	CheapObjectAllocationGroup
	CheapTacticalGlobalRegisterAllocatorGroup
	EachEscapeAnalysisPassGroup
	EachExpensiveGlobalValuePropagationGroup
	EachLocalAnalysisPassGroup
	EarlyGlobalGroup
	EarlyLocalGroup
	ExpensiveGlobalValuePropagationGroup
	ExpensiveObjectAllocationGroup
	FinalGlobalGroup
	GlobalDeadStoreGroup
	IsolatedStoreGroup
	LastLoopVersionerGroup
	LateLocalGroup
	LocalValuePropagationGroup
	LoopAliasRefinerGroup
	LoopCanonicalizationGroup
	LoopSpecializerGroup
	LoopVersionerGroup
	MethodHandleInvokeInliningGroup
	PartialRedundancyEliminationGroup
	ReorderArrayExprGroup
	StripMiningGroup
	TacticalGlobalRegisterAllocatorGroup
	VeryCheapGlobalValuePropagationGroup
	VeryExpensiveGlobalValuePropagationGroup
	numGroups
)

var _IDNames = [...]string{
	EndOpts:                                   "endOpts",
	AndSimplification:                         "andSimplification",
	ArraysetStoreElimination:                  "arraysetStoreElimination",
	BasicBlockExtension:                       "basicBlockExtension",
	BasicBlockHoisting:                        "basicBlockHoisting",
	BasicBlockOrdering:                        "basicBlockOrdering",
	BasicBlockPeepHole:                        "basicBlockPeepHole",
	BlockSplitter:                             "blockSplitter",
	CatchBlockRemoval:                         "catchBlockRemoval",
	CFGSimplification:                         "CFGSimplification",
	CheckcastAndProfiledGuardCoalescer:        "checkcastAndProfiledGuardCoalescer",
	ColdBlockOutlining:                        "coldBlockOutlining",
	CompactLocals:                             "compactLocals",
	CompactNullChecks:                         "compactNullChecks",
	DeadTreesElimination:                      "deadTreesElimination",
	EscapeAnalysis:                            "escapeAnalysis",
	ExplicitNewInitialization:                 "explicitNewInitialization",
	ExpressionsSimplification:                 "expressionsSimplification",
	FieldPrivatization:                        "fieldPrivatization",
	GeneralLoopUnroller:                       "generalLoopUnroller",
	GeneralStoreSinking:                       "generalStoreSinking",
	GlobalCopyPropagation:                     "globalCopyPropagation",
	GlobalDeadStoreElimination:                "globalDeadStoreElimination",
	GlobalValuePropagation:                    "globalValuePropagation",
	InductionVariableAnalysis:                 "inductionVariableAnalysis",
	Inlining:                                  "inlining",
	IsolatedStoreElimination:                  "isolatedStoreElimination",
	LiveRangeSplitter:                         "liveRangeSplitter",
	LocalCSE:                                  "localCSE",
	LocalDeadStoreElimination:                 "localDeadStoreElimination",
	LocalLiveRangeReduction:                   "localLiveRangeReduction",
	LocalReordering:                           "localReordering",
	LocalValuePropagation:                     "localValuePropagation",
	LoopAliasRefiner:                          "loopAliasRefiner",
	LoopCanonicalization:                      "loopCanonicalization",
	LoopInversion:                             "loopInversion",
	LoopReduction:                             "loopReduction",
	LoopReplicator:                            "loopReplicator",
	LoopSpecializer:                           "loopSpecializer",
	LoopStrider:                               "loopStrider",
	LoopVersioner:                             "loopVersioner",
	OsrExceptionEdgeRemoval:                   "osrExceptionEdgeRemoval",
	PartialRedundancyElimination:              "partialRedundancyElimination",
	PostEscapeAnalysis:                        "postEscapeAnalysis",
	PreEscapeAnalysis:                         "preEscapeAnalysis",
	ProfiledNodeVersioning:                    "profiledNodeVersioning",
	RedundantAsyncCheckRemoval:                "redundantAsyncCheckRemoval",
	RedundantGotoElimination:                  "redundantGotoElimination",
	RegDepCopyRemoval:                         "regDepCopyRemoval",
	Rematerialization:                         "rematerialization",
	ReorderArrayIndexExpr:                     "reorderArrayIndexExpr",
	StripMining:                               "stripMining",
	SwitchAnalyzer:                            "switchAnalyzer",
	TacticalGlobalRegisterAllocator:           "tacticalGlobalRegisterAllocator",
	TreeSimplification:                        "treeSimplification",
	TreesCleansing:                            "treesCleansing",
	TrivialBlockExtension:                     "trivialBlockExtension",
	TrivialDeadTreeRemoval:                    "trivialDeadTreeRemoval",
	VirtualGuardHeadMerger:                    "virtualGuardHeadMerger",
	VirtualGuardTailSplitter:                  "virtualGuardTailSplitter",
	EndGroup:                                  "endGroup",
	ArrayPrivatizationGroup:                   "arrayPrivatizationGroup",
	BlockManipulationGroup:                    "blockManipulationGroup",
	CheapGlobalValuePropagationGroup:          "cheapGlobalValuePropagationGroup",
	CheapObjectAllocationGroup:                "cheapObjectAllocationGroup",
	CheapTacticalGlobalRegisterAllocatorGroup: "cheapTacticalGlobalRegisterAllocatorGroup",
	EachEscapeAnalysisPassGroup:               "eachEscapeAnalysisPassGroup",
	EachExpensiveGlobalValuePropagationGroup:  "eachExpensiveGlobalValuePropagationGroup",
	EachLocalAnalysisPassGroup:                "eachLocalAnalysisPassGroup",
	EarlyGlobalGroup:                          "earlyGlobalGroup",
	EarlyLocalGroup:                           "earlyLocalGroup",
	ExpensiveGlobalValuePropagationGroup:      "expensiveGlobalValuePropagationGroup",
	ExpensiveObjectAllocationGroup:            "expensiveObjectAllocationGroup",
	FinalGlobalGroup:                          "finalGlobalGroup",
	GlobalDeadStoreGroup:                      "globalDeadStoreGroup",
	IsolatedStoreGroup:                        "isolatedStoreGroup",
	LastLoopVersionerGroup:                    "lastLoopVersionerGroup",
	LateLocalGroup:                            "lateLocalGroup",
	LocalValuePropagationGroup:                "localValuePropagationGroup",
	LoopAliasRefinerGroup:                     "loopAliasRefinerGroup",
	LoopCanonicalizationGroup:                 "loopCanonicalizationGroup",
	LoopSpecializerGroup:                      "loopSpecializerGroup",
	LoopVersionerGroup:                        "loopVersionerGroup",
	MethodHandleInvokeInliningGroup:           "methodHandleInvokeInliningGroup",
	PartialRedundancyEliminationGroup:         "partialRedundancyEliminationGroup",
	ReorderArrayExprGroup:                     "reorderArrayExprGroup",
	StripMiningGroup:                          "stripMiningGroup",
	TacticalGlobalRegisterAllocatorGroup:      "tacticalGlobalRegisterAllocatorGroup",
	VeryCheapGlobalValuePropagationGroup:      "veryCheapGlobalValuePropagationGroup",
	VeryExpensiveGlobalValuePropagationGroup:  "veryExpensiveGlobalValuePropagationGroup",
}

var _IDByName = make(map[string]ID, len(_IDNames))

func init() {
	for i, v := range _IDNames {
		if v != "" {
			_IDByName[v] = ID(i)
		}
	}
}

func (self ID) String() string {
	if self >= 0 && int(self) < len(_IDNames) && _IDNames[self] != "" {
		return _IDNames[self]
	} else {
		return fmt.Sprintf("<%d>", self)
	}
}

// IsPass reports whether the ID names a single pass.
func (self ID) IsPass() bool {
	return self > EndOpts && self < numOpts
}

// IsGroup reports whether the ID names a group of passes.
func (self ID) IsGroup() bool {
	return self > EndGroup && self < numGroups
}

// IsSentinel reports whether the ID terminates a strategy or a group.
func (self ID) IsSentinel() bool {
	return self == EndOpts || self == EndGroup
}

// ParseID looks up a pass or group by its name.
func ParseID(name string) (ID, bool) {
	id, ok := _IDByName[name]
	return id, ok
}
