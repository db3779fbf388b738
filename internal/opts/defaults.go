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
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
)

const (
	_DefaultHighBasicBlockCount  = 2500          // blocks before a method is too large
	_DefaultHighLoopCount        = 65            // loops before a method is too large
	_DefaultVeryHotHighLoopCount = 125           // same, for very hot compilations
	_DefaultLastOptIndex         = math.MaxInt32 // no upper bound
)

var (
	HighBasicBlockCount  = parseOrDefault("OPTSCHED_HIGH_BASIC_BLOCK_COUNT", _DefaultHighBasicBlockCount, 1)
	HighLoopCount        = parseOrDefault("OPTSCHED_HIGH_LOOP_COUNT", _DefaultHighLoopCount, 25)
	VeryHotHighLoopCount = parseOrDefault("OPTSCHED_VERY_HOT_HIGH_LOOP_COUNT", _DefaultVeryHotHighLoopCount, 25)
)

var (
	ProcessHugeMethods = env.Bool("OPTSCHED_PROCESS_HUGE_METHODS")
	SmallOptimizer     = env.Bool("OPTSCHED_SMALL")
	DisabledOpts       = parseList(env.Str("OPTSCHED_DISABLE"))
	TraceOpts          = parseList(env.Str("OPTSCHED_TRACE"))
	Parallelism        = runtime.NumCPU()
)

func parseOrDefault(key string, def int, min int) int {
	if str := os.Getenv(key); str == "" {
		return def
	} else if val, err := strconv.ParseUint(str, 0, 64); err != nil {
		panic("optsched: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("optsched: value too small for " + key)
	} else {
		return ret
	}
}

func parseList(v string) []string {
	var ret []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}
