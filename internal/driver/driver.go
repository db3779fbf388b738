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

package driver

import (
	"context"
	"errors"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/cloudwego/optsched/internal/analysis"
	"github.com/cloudwego/optsched/internal/compile"
	"github.com/cloudwego/optsched/internal/opt"
	"github.com/cloudwego/optsched/internal/opts"
	"github.com/cloudwego/optsched/internal/passes"
)

var (
	CompileCount uint64 = 0
	RetryCount   uint64 = 0
	FailureCount uint64 = 0
	PassCount    uint64 = 0
	CostSum      uint64 = 0
)

// Retries only go up to the inlined hotness or down to cold, so a unit
// never needs more than this.
const _MaxAttempts = 4

// Result is the outcome of one unit. Unit is the copy that was compiled
// last, with the optimized graph.
type Result struct {
	Unit      *compile.Unit
	Hotness   opt.Hotness
	Attempts  int
	Cost      int
	History   []opt.Record
	Structure *analysis.Structure
	Err       error
}

// Driver compiles units with the reference passes. A driver may be used by
// several goroutines at once.
type Driver struct {
	opts  opts.Options
	suite *opt.Suite
	reg   *opt.Registry
	log   *slog.Logger
}

func New(o opts.Options) *Driver {
	ret := &Driver{
		opts:  o,
		suite: opt.Full,
		reg:   opt.NewRegistry(),
		log:   o.Logger,
	}

	/* the small optimizer has its own strategies */
	if o.SmallOptimizer {
		ret.suite = opt.Small
	}

	/* populate the registry once */
	passes.Register(ret.reg)
	opt.RegisterGroups(ret.reg, ret.suite)
	return ret
}

// Suite returns the strategies the driver picks from.
func (self *Driver) Suite() *opt.Suite {
	return self.suite
}

// Compile optimizes the unit, recompiling it when the optimizer asks for
// another hotness. The unit itself is left untouched, every attempt works
// on a fresh copy.
func (self *Driver) Compile(ctx context.Context, unit *compile.Unit) *Result {
	ret := &Result{Hotness: unit.Hotness()}
	defer self.account(ret)

	/* keep trying until the optimizer is satisfied */
	for ret.Attempts < _MaxAttempts {
		ret.Attempts++
		ret.Unit = unit.Clone(ret.Hotness).WithContext(ctx)

		/* optimize the copy */
		err := self.optimize(ret)
		if err == nil {
			ret.Err = nil
			return ret
		}

		/* only failures may be retried */
		var f *opt.Failure
		if ret.Err = pkgerrors.Wrapf(err, "cannot compile %s", unit.Name()); !errors.As(err, &f) {
			return ret
		}

		/* pick the next hotness */
		next, ok := retryHotness(f, ret.Hotness)
		if !ok {
			return ret
		}

		/* start over */
		atomic.AddUint64(&RetryCount, 1)
		self.info("recompiling", "unit", unit.Name(), "reason", f.Kind, "from", ret.Hotness, "to", next)
		ret.Hotness = next
	}
	return ret
}

func (self *Driver) optimize(r *Result) error {
	e, err := opt.NewEngine(r.Unit, self.reg, self.suite, self.opts)
	if err != nil {
		return err
	}

	/* record whatever ran, even on failures */
	err = e.Optimize()
	r.Cost += e.Cost()
	r.History = e.History()
	r.Structure = e.Structure()
	atomic.AddUint64(&PassCount, uint64(len(r.History)))
	return err
}

func (self *Driver) account(r *Result) {
	atomic.AddUint64(&CostSum, uint64(r.Cost))
	if r.Err == nil {
		atomic.AddUint64(&CompileCount, 1)
	} else {
		atomic.AddUint64(&FailureCount, 1)
		self.info("compilation failed", "error", r.Err)
	}
}

func (self *Driver) info(msg string, args ...interface{}) {
	if self.log != nil {
		self.log.Info(msg, args...)
	}
}

// retryHotness decides whether a failed compilation is worth another try.
func retryHotness(f *opt.Failure, h opt.Hotness) (opt.Hotness, bool) {
	switch f.Kind {
	case opt.InsufficientlyAggressiveCompilation:
		return f.NextHotness, f.NextHotness > h
	case opt.ExcessiveComplexity:
		return opt.Cold, h > opt.Cold
	default:
		return h, false
	}
}

// CompileAll compiles the units concurrently, at most Parallelism at a time.
// Every unit gets a result, and the first failure is returned as well.
func (self *Driver) CompileAll(ctx context.Context, units []*compile.Unit) ([]*Result, error) {
	var wg errgroup.Group
	ret := make([]*Result, len(units))

	/* limit the fan out */
	if self.opts.Parallelism > 0 {
		wg.SetLimit(self.opts.Parallelism)
	}

	/* one engine per unit */
	for i, unit := range units {
		i, unit := i, unit
		wg.Go(func() error {
			ret[i] = self.Compile(ctx, unit)
			return ret[i].Err
		})
	}
	return ret, wg.Wait()
}
