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
	"strings"
)

// Hotness is the compilation tier, it selects the strategy.
type Hotness int8

const (
	NoOpt Hotness = iota
	Cold
	Warm
	Hot
	VeryHot
	Scorching
)

var _HotnessNames = [...]string{
	NoOpt:     "noOpt",
	Cold:      "cold",
	Warm:      "warm",
	Hot:       "hot",
	VeryHot:   "veryHot",
	Scorching: "scorching",
}

func (self Hotness) String() string {
	if self >= 0 && int(self) < len(_HotnessNames) {
		return _HotnessNames[self]
	} else {
		return fmt.Sprintf("hotness(%d)", self)
	}
}

func ParseHotness(name string) (Hotness, bool) {
	for i, v := range _HotnessNames {
		if strings.EqualFold(v, name) {
			return Hotness(i), true
		}
	}
	return 0, false
}

// Flags are the build modes and method traits consulted by conditions.
type Flags uint32

const (
	FlagProfiling Flags = 1 << iota
	FlagJitProfiling
	FlagHasNews
	FlagOptServer
	FlagMonitors
	FlagClassLoadPhase
	FlagDontDowngradeToCold
	FlagFullSpeedDebug
	FlagEnableOSR
	FlagFullInlineUnderOSRDebug
	FlagVoluntaryOSR
	FlagInvoluntaryOSR
	FlagAOT
	FlagEnableColdCheapTacticalGRA
	FlagDisableAOTColdCheapTacticalGRA
	FlagMethodHandleInvokes
	FlagDisableMethodHandleInvokeOpts
	FlagQuickStart
	FlagEAOpportunities
	FlagAggressiveLiveness
	FlagVectorAPI
	FlagDisableVectorAPIExpansion
	FlagExceptionHandlers
	FlagNotCompileTimeSensitive
	FlagMimicInterpreterFrameShape
	numFlags = iota
)

var _FlagNames = [numFlags]string{
	"profiling",
	"jitProfiling",
	"hasNews",
	"optServer",
	"monitors",
	"classLoadPhase",
	"dontDowngradeToCold",
	"fullSpeedDebug",
	"enableOSR",
	"fullInlineUnderOSRDebug",
	"voluntaryOSR",
	"involuntaryOSR",
	"aot",
	"enableColdCheapTacticalGRA",
	"disableAOTColdCheapTacticalGRA",
	"methodHandleInvokes",
	"disableMethodHandleInvokeOpts",
	"quickStart",
	"eaOpportunities",
	"aggressiveLiveness",
	"vectorAPI",
	"disableVectorAPIExpansion",
	"exceptionHandlers",
	"notCompileTimeSensitive",
	"mimicInterpreterFrameShape",
}

// Has reports whether every flag in f is set.
func (self Flags) Has(f Flags) bool {
	return self&f == f
}

func (self Flags) String() string {
	var names []string
	for i, v := range _FlagNames {
		if self&(1<<i) != 0 {
			names = append(names, v)
		}
	}
	return strings.Join(names, "|")
}

func ParseFlag(name string) (Flags, bool) {
	for i, v := range _FlagNames {
		if v == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// State is the view of the compilation that conditions are evaluated on.
type State struct {
	Hotness    Hotness
	HasLoops   bool
	MultiBlock bool
	Flags      Flags
}
