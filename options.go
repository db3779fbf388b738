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

package optsched

import (
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/cloudwego/optsched/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithProcessHugeMethods lets methods over the complexity thresholds through
// the loop analyses instead of failing them.
//
// This value can also be configured with the `OPTSCHED_PROCESS_HUGE_METHODS`
// environment variable.
//
// The default value of this option is "false".
func WithProcessHugeMethods(v bool) Option {
	return func(o *opts.Options) { o.ProcessHugeMethods = v }
}

// WithThresholds sets the block and loop counts at which a method is
// considered too large for the passes that require the loop structure.
// Very hot compilations use veryHotLoops instead of loops.
//
// The default values are "2500", "65" and "125".
func WithThresholds(blocks int, loops int, veryHotLoops int) Option {
	if blocks <= 0 || loops <= 0 || veryHotLoops <= 0 {
		panic(fmt.Sprintf("optsched: invalid thresholds: %d, %d, %d", blocks, loops, veryHotLoops))
	} else {
		return func(o *opts.Options) {
			o.HighBasicBlockCount = blocks
			o.HighLoopCount = loops
			o.VeryHotHighLoopCount = veryHotLoops
		}
	}
}

// WithUseDefLimit caps the number of definitions and uses a def-use build
// may track. Larger methods go without def-use information.
//
// Set this option to "0" disables this limit.
func WithUseDefLimit(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("optsched: invalid use-def limit: %d", n))
	} else {
		return func(o *opts.Options) { o.UseDefLimit = n }
	}
}

// WithLogger sets the sink of the optimizer diagnostics. A nil logger
// silences them.
func WithLogger(log *slog.Logger) Option {
	return func(o *opts.Options) { o.Logger = log }
}

// WithDisabledOpts disables passes by name or by opt index.
//
// This value can also be configured with the `OPTSCHED_DISABLE` environment
// variable, as a comma separated list.
func WithDisabledOpts(names ...string) Option {
	return func(o *opts.Options) { o.DisabledOpts = append(o.DisabledOpts, names...) }
}

// WithTraceOpts traces passes by name or by opt index.
//
// This value can also be configured with the `OPTSCHED_TRACE` environment
// variable, as a comma separated list.
func WithTraceOpts(names ...string) Option {
	return func(o *opts.Options) { o.TraceOpts = append(o.TraceOpts, names...) }
}

// WithOptIndexRange only runs the passes whose opt index falls inside
// [first, last]. Passes marked as must-be-done always run.
func WithOptIndexRange(first int, last int) Option {
	if first < 0 || last < first {
		panic(fmt.Sprintf("optsched: invalid opt index range: [%d, %d]", first, last))
	} else {
		return func(o *opts.Options) { o.FirstOptIndex, o.LastOptIndex = first, last }
	}
}

// WithSmallOptimizer selects the reduced strategies.
//
// This value can also be configured with the `OPTSCHED_SMALL` environment
// variable.
func WithSmallOptimizer(v bool) Option {
	return func(o *opts.Options) { o.SmallOptimizer = v }
}

// WithDeterministicOrientedCompilation makes the optimizer ask for a
// recompilation when an inlined callee is hotter than the method itself.
func WithDeterministicOrientedCompilation(v bool) Option {
	return func(o *opts.Options) { o.DeterministicOrientedCompilation = v }
}

// WithParallelism sets how many units OptimizeAll compiles at once.
//
// The default value of this option is the number of CPUs.
func WithParallelism(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("optsched: invalid parallelism: %d", n))
	} else {
		return func(o *opts.Options) { o.Parallelism = n }
	}
}

// SetProcessHugeMethods sets the default of WithProcessHugeMethods for all
// compilations from now on.
//
// Returns the old opts.ProcessHugeMethods value.
func SetProcessHugeMethods(v bool) bool {
	v, opts.ProcessHugeMethods = opts.ProcessHugeMethods, v
	return v
}

// SetSmallOptimizer sets the default of WithSmallOptimizer for all
// compilations from now on.
//
// Returns the old opts.SmallOptimizer value.
func SetSmallOptimizer(v bool) bool {
	v, opts.SmallOptimizer = opts.SmallOptimizer, v
	return v
}

func makeOptions(options []Option) opts.Options {
	ret := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&ret)
	}
	return ret
}
