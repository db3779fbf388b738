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

package opts

import (
	"strconv"

	"golang.org/x/exp/slog"
)

// Encoding of custom strategy entries, an ID in the low bits plus flags.
const (
	OptNumMask = 0xffff
	MustBeDone = 0x10000
)

type Options struct {
	ProcessHugeMethods               bool
	HighBasicBlockCount              int
	HighLoopCount                    int
	VeryHotHighLoopCount             int
	UseDefLimit                      int
	FirstOptIndex                    int
	LastOptIndex                     int
	DisabledOpts                     []string
	TraceOpts                        []string
	Strategy                         []int32
	SmallOptimizer                   bool
	DeterministicOrientedCompilation bool
	Parallelism                      int
	Logger                           *slog.Logger
}

// InOptWindow reports whether the opt index falls inside [FirstOptIndex, LastOptIndex].
func (self *Options) InOptWindow(index int) bool {
	return index >= self.FirstOptIndex && index <= self.LastOptIndex
}

// IsDisabled matches the pass against DisabledOpts, either by name or by
// opt index.
func (self *Options) IsDisabled(name string, index int) bool {
	return matchOpt(self.DisabledOpts, name, index)
}

func (self *Options) ShouldTrace(name string, index int) bool {
	return matchOpt(self.TraceOpts, name, index)
}

func matchOpt(list []string, name string, index int) bool {
	if len(list) == 0 {
		return false
	}

	/* match by name or by index */
	idx := strconv.Itoa(index)
	for _, v := range list {
		if v == name || v == idx {
			return true
		}
	}
	return false
}

func GetDefaultOptions() Options {
	return Options{
		ProcessHugeMethods:   ProcessHugeMethods,
		HighBasicBlockCount:  HighBasicBlockCount,
		HighLoopCount:        HighLoopCount,
		VeryHotHighLoopCount: VeryHotHighLoopCount,
		FirstOptIndex:        0,
		LastOptIndex:         _DefaultLastOptIndex,
		DisabledOpts:         DisabledOpts,
		TraceOpts:            TraceOpts,
		SmallOptimizer:       SmallOptimizer,
		Parallelism:          Parallelism,
	}
}
