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

// Condition gates one strategy entry.
type Condition uint8

const (
	Always Condition = iota
	MustBeDone
	MarkLastRun
	IfLoops
	IfNoLoops
	IfLoopsMarkLastRun
	IfMoreThanOneBlock
	IfOneBlock
	IfProfiling
	IfNotProfiling
	IfJitProfiling
	IfNotJitProfiling
	IfNews
	IfOptServer
	IfMonitors
	IfEnabledAndMonitors
	IfEnabledAndOptServer
	IfNotClassLoadPhase
	IfNotClassLoadPhaseAndNotProfiling
	IfEnabledAndLoops
	IfEnabledAndNoLoops
	IfEnabledAndMoreThanOneBlock
	IfEnabledAndMoreThanOneBlockMarkLastRun
	IfNoLoopsOREnabledAndLoops
	IfEnabledAndProfiling
	IfEnabledAndNotProfiling
	IfEnabledAndNotJitProfiling
	IfLoopsAndNotProfiling
	IfFullInliningUnderOSRDebug
	IfNotFullInliningUnderOSRDebug
	IfOSR
	IfVoluntaryOSR
	IfInvoluntaryOSR
	IfEnabled
	IfEnabledMarkLastRun
	IfAOTAndEnabled
	IfMethodHandleInvokes
	IfNotQuickStart
	IfEAOpportunities
	IfEAOpportunitiesMarkLastRun
	IfEAOpportunitiesAndNotOptServer
	IfAggressiveLiveness
	IfVectorAPI
	IfExceptionHandlers
	IfLoopsAndNotCompileTimeSensitive
	numConditions
)

// Decision is the outcome of evaluating a condition.
//
// A request-gated decision only holds while the manager has a live request,
// and makes a block pass run on the requested blocks only.
type Decision struct {
	Run          bool
	RequestGated bool
	MarkLastRun  bool
	MustBeDone   bool
}

type (
	rule      func(st *State, m *Manager) Decision
	predicate func(st *State) bool
)

var _Rules = [numConditions]rule{
	Always:                                  always(),
	MustBeDone:                              mustBeDone(),
	MarkLastRun:                             markLastRun(always()),
	IfLoops:                                 when(hasLoops),
	IfNoLoops:                               when(not(hasLoops)),
	IfLoopsMarkLastRun:                      markLastRun(when(hasLoops)),
	IfMoreThanOneBlock:                      when(multiBlock),
	IfOneBlock:                              when(not(multiBlock)),
	IfProfiling:                             when(flag(FlagProfiling)),
	IfNotProfiling:                          when(not(flag(FlagProfiling))),
	IfJitProfiling:                          when(flag(FlagJitProfiling)),
	IfNotJitProfiling:                       when(not(flag(FlagJitProfiling))),
	IfNews:                                  when(flag(FlagHasNews)),
	IfOptServer:                             when(flag(FlagOptServer)),
	IfMonitors:                              when(flag(FlagMonitors)),
	IfEnabledAndMonitors:                    requestedPlain(flag(FlagMonitors)),
	IfEnabledAndOptServer:                   requestedAnd(flag(FlagOptServer)),
	IfNotClassLoadPhase:                     when(notClassLoadPhase),
	IfNotClassLoadPhaseAndNotProfiling:      when(and(notClassLoadPhase, not(flag(FlagProfiling)))),
	IfEnabledAndLoops:                       requestedAnd(hasLoops),
	IfEnabledAndNoLoops:                     requestedAnd(not(hasLoops)),
	IfEnabledAndMoreThanOneBlock:            requestedAnd(multiBlock),
	IfEnabledAndMoreThanOneBlockMarkLastRun: markLastRun(requestedAnd(multiBlock)),
	IfNoLoopsOREnabledAndLoops:              whenOrRequested(not(hasLoops)),
	IfEnabledAndProfiling:                   requestedAnd(flag(FlagProfiling)),
	IfEnabledAndNotProfiling:                requestedAnd(not(flag(FlagProfiling))),
	IfEnabledAndNotJitProfiling:             requestedAnd(not(flag(FlagJitProfiling))),
	IfLoopsAndNotProfiling:                  when(and(hasLoops, not(flag(FlagProfiling)))),
	IfFullInliningUnderOSRDebug:             when(flag(FlagFullSpeedDebug | FlagEnableOSR | FlagFullInlineUnderOSRDebug)),
	IfNotFullInliningUnderOSRDebug:          when(and(flag(FlagFullSpeedDebug), not(flag(FlagEnableOSR|FlagFullInlineUnderOSRDebug)))),
	IfOSR:                                   when(flag(FlagEnableOSR)),
	IfVoluntaryOSR:                          when(flag(FlagEnableOSR | FlagVoluntaryOSR)),
	IfInvoluntaryOSR:                        when(flag(FlagEnableOSR | FlagInvoluntaryOSR)),
	IfEnabled:                               requestedAnd(nil),
	IfEnabledMarkLastRun:                    markLastRun(requestedAnd(nil)),
	IfAOTAndEnabled:                         requestedAnd(coldCheapTacticalGRA),
	IfMethodHandleInvokes:                   when(and(flag(FlagMethodHandleInvokes), not(flag(FlagDisableMethodHandleInvokeOpts)))),
	IfNotQuickStart:                         when(not(flag(FlagQuickStart))),
	IfEAOpportunities:                       when(flag(FlagEAOpportunities)),
	IfEAOpportunitiesMarkLastRun:            markLastRun(when(flag(FlagEAOpportunities))),
	IfEAOpportunitiesAndNotOptServer:        when(and(flag(FlagEAOpportunities), not(flag(FlagOptServer)))),
	IfAggressiveLiveness:                    when(flag(FlagAggressiveLiveness)),
	IfVectorAPI:                             when(and(flag(FlagVectorAPI), not(flag(FlagDisableVectorAPIExpansion)))),
	IfExceptionHandlers:                     when(flag(FlagExceptionHandlers)),
	IfLoopsAndNotCompileTimeSensitive:       when(and(hasLoops, flag(FlagNotCompileTimeSensitive))),
}

var _ConditionNames = [numConditions]string{
	Always:                                  "Always",
	MustBeDone:                              "MustBeDone",
	MarkLastRun:                             "MarkLastRun",
	IfLoops:                                 "IfLoops",
	IfNoLoops:                               "IfNoLoops",
	IfLoopsMarkLastRun:                      "IfLoopsMarkLastRun",
	IfMoreThanOneBlock:                      "IfMoreThanOneBlock",
	IfOneBlock:                              "IfOneBlock",
	IfProfiling:                             "IfProfiling",
	IfNotProfiling:                          "IfNotProfiling",
	IfJitProfiling:                          "IfJitProfiling",
	IfNotJitProfiling:                       "IfNotJitProfiling",
	IfNews:                                  "IfNews",
	IfOptServer:                             "IfOptServer",
	IfMonitors:                              "IfMonitors",
	IfEnabledAndMonitors:                    "IfEnabledAndMonitors",
	IfEnabledAndOptServer:                   "IfEnabledAndOptServer",
	IfNotClassLoadPhase:                     "IfNotClassLoadPhase",
	IfNotClassLoadPhaseAndNotProfiling:      "IfNotClassLoadPhaseAndNotProfiling",
	IfEnabledAndLoops:                       "IfEnabledAndLoops",
	IfEnabledAndNoLoops:                     "IfEnabledAndNoLoops",
	IfEnabledAndMoreThanOneBlock:            "IfEnabledAndMoreThanOneBlock",
	IfEnabledAndMoreThanOneBlockMarkLastRun: "IfEnabledAndMoreThanOneBlockMarkLastRun",
	IfNoLoopsOREnabledAndLoops:              "IfNoLoopsOREnabledAndLoops",
	IfEnabledAndProfiling:                   "IfEnabledAndProfiling",
	IfEnabledAndNotProfiling:                "IfEnabledAndNotProfiling",
	IfEnabledAndNotJitProfiling:             "IfEnabledAndNotJitProfiling",
	IfLoopsAndNotProfiling:                  "IfLoopsAndNotProfiling",
	IfFullInliningUnderOSRDebug:             "IfFullInliningUnderOSRDebug",
	IfNotFullInliningUnderOSRDebug:          "IfNotFullInliningUnderOSRDebug",
	IfOSR:                                   "IfOSR",
	IfVoluntaryOSR:                          "IfVoluntaryOSR",
	IfInvoluntaryOSR:                        "IfInvoluntaryOSR",
	IfEnabled:                               "IfEnabled",
	IfEnabledMarkLastRun:                    "IfEnabledMarkLastRun",
	IfAOTAndEnabled:                         "IfAOTAndEnabled",
	IfMethodHandleInvokes:                   "IfMethodHandleInvokes",
	IfNotQuickStart:                         "IfNotQuickStart",
	IfEAOpportunities:                       "IfEAOpportunities",
	IfEAOpportunitiesMarkLastRun:            "IfEAOpportunitiesMarkLastRun",
	IfEAOpportunitiesAndNotOptServer:        "IfEAOpportunitiesAndNotOptServer",
	IfAggressiveLiveness:                    "IfAggressiveLiveness",
	IfVectorAPI:                             "IfVectorAPI",
	IfExceptionHandlers:                     "IfExceptionHandlers",
	IfLoopsAndNotCompileTimeSensitive:       "IfLoopsAndNotCompileTimeSensitive",
}

func init() {
	for i := Condition(0); i < numConditions; i++ {
		if _Rules[i] == nil || _ConditionNames[i] == "" {
			panic(fmt.Sprintf("opt: condition %d has no rule", i))
		}
	}
}

func (self Condition) String() string {
	if self < numConditions {
		return _ConditionNames[self]
	} else {
		return fmt.Sprintf("condition(%d)", self)
	}
}

// Evaluate decides whether the entry of m gated by cond runs in the given
// state.
func Evaluate(cond Condition, st *State, m *Manager) Decision {
	if cond >= numConditions {
		panic(fmt.Sprintf("opt: invalid condition %d", cond))
	}

	/* request-gated entries need something left to work on */
	ret := _Rules[cond](st, m)
	if ret.RequestGated && !m.HasLiveRequest() {
		ret.Run = false
	}
	return ret
}

func always() rule {
	return func(*State, *Manager) Decision { return Decision{Run: true} }
}

func mustBeDone() rule {
	return func(*State, *Manager) Decision { return Decision{Run: true, MustBeDone: true} }
}

func when(p predicate) rule {
	return func(st *State, _ *Manager) Decision { return Decision{Run: p(st)} }
}

// requestedAnd runs the pass if it was requested and p holds. A nil p
// always holds.
func requestedAnd(p predicate) rule {
	return func(st *State, m *Manager) Decision {
		if m.Requested() && (p == nil || p(st)) {
			return Decision{Run: true, RequestGated: true}
		} else {
			return Decision{}
		}
	}
}

// requestedPlain checks the requested flag but does not narrow the run to the
// requested blocks. A request left with only removed blocks does not count.
func requestedPlain(p predicate) rule {
	return func(st *State, m *Manager) Decision {
		return Decision{Run: m.Requested() && m.HasLiveRequest() && p(st)}
	}
}

func whenOrRequested(p predicate) rule {
	return func(st *State, m *Manager) Decision {
		switch {
		case p(st):
			return Decision{Run: true}
		case m.Requested():
			return Decision{Run: true, RequestGated: true}
		default:
			return Decision{}
		}
	}
}

func markLastRun(r rule) rule {
	return func(st *State, m *Manager) Decision {
		ret := r(st, m)
		ret.MarkLastRun = true
		return ret
	}
}

func hasLoops(st *State) bool {
	return st.HasLoops
}

func multiBlock(st *State) bool {
	return st.MultiBlock
}

func flag(f Flags) predicate {
	return func(st *State) bool { return st.Flags.Has(f) }
}

func not(p predicate) predicate {
	return func(st *State) bool { return !p(st) }
}

func and(a predicate, b predicate) predicate {
	return func(st *State) bool { return a(st) && b(st) }
}

func notClassLoadPhase(st *State) bool {
	return !st.Flags.Has(FlagClassLoadPhase) || st.Flags.Has(FlagDontDowngradeToCold)
}

func coldCheapTacticalGRA(st *State) bool {
	if st.Flags.Has(FlagDisableAOTColdCheapTacticalGRA) {
		return false
	} else {
		return st.Flags.Has(FlagAOT) || st.Flags.Has(FlagEnableColdCheapTacticalGRA)
	}
}
