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

// Package optsched schedules optimization passes over method compilations.
//
// A unit is described by a YAML file holding its graph and its compilation
// attributes. The optimizer picks a strategy for the unit hotness, runs the
// reference passes over it, and reports every pass that ran with its cost.
package optsched

import (
	"context"
	"io"

	"github.com/cloudwego/optsched/internal/compile"
	"github.com/cloudwego/optsched/internal/driver"
	"github.com/cloudwego/optsched/internal/opt"
)

// Unit is a method compilation waiting to be optimized.
type Unit struct {
	unit *compile.Unit
}

// Load reads a unit description file.
func Load(path string) (*Unit, error) {
	if u, err := compile.Load(path); err != nil {
		return nil, DescriptionError{Path: path, Err: err}
	} else {
		return &Unit{u}, nil
	}
}

// Parse decodes a unit description.
func Parse(data []byte) (*Unit, error) {
	if u, err := compile.Parse(data); err != nil {
		return nil, DescriptionError{Path: "<memory>", Err: err}
	} else {
		return &Unit{u}, nil
	}
}

func (self *Unit) Name() string {
	return self.unit.Name()
}

func (self *Unit) Hotness() string {
	return self.unit.Hotness().String()
}

// SetHotness overrides the hotness the unit is compiled at.
func (self *Unit) SetHotness(name string) error {
	if h, ok := opt.ParseHotness(name); !ok {
		return HotnessError{Name: name}
	} else {
		self.unit = self.unit.Clone(h)
		return nil
	}
}

// String prints the graph of the unit.
func (self *Unit) String() string {
	return self.unit.CFG().String()
}

// PassRecord is one executed pass.
type PassRecord struct {
	Index       int
	Name        string
	Depth       int
	Cost        int
	Builds      []string
	BlockScoped bool
	Blocks      []int
}

// Report is the outcome of one unit. Loops is -1 when the loop structure
// was not valid at the end of the strategy.
type Report struct {
	Unit     string
	Hotness  string
	Attempts int
	Cost     int
	Loops    int
	Passes   []PassRecord
	Graph    string
}

func newReport(r *driver.Result) *Report {
	ret := &Report{
		Unit:     r.Unit.Name(),
		Hotness:  r.Hotness.String(),
		Attempts: r.Attempts,
		Cost:     r.Cost,
		Loops:    -1,
		Graph:    r.Unit.CFG().String(),
	}

	/* the structure left behind */
	if r.Structure != nil {
		ret.Loops = r.Structure.NumLoops()
	}

	/* every executed pass */
	for _, v := range r.History {
		rec := PassRecord{
			Index:       v.Index,
			Name:        v.Name,
			Depth:       v.Depth,
			Cost:        v.Cost,
			BlockScoped: v.BlockScoped,
			Blocks:      v.Blocks,
		}
		for _, k := range v.Builds {
			rec.Builds = append(rec.Builds, k.String())
		}
		ret.Passes = append(ret.Passes, rec)
	}
	return ret
}

// Optimize compiles a single unit. The report is returned even when the
// compilation fails, and holds whatever ran until then.
func Optimize(ctx context.Context, unit *Unit, options ...Option) (*Report, error) {
	r := driver.New(makeOptions(options)).Compile(ctx, unit.unit)
	return newReport(r), convertError(r.Err)
}

// OptimizeAll compiles the units concurrently. Every unit gets a report, and
// the first failure is returned.
func OptimizeAll(ctx context.Context, units []*Unit, options ...Option) ([]*Report, error) {
	in := make([]*compile.Unit, len(units))
	for i, u := range units {
		in[i] = u.unit
	}

	/* compile and convert the results */
	res, err := driver.New(makeOptions(options)).CompileAll(ctx, in)
	ret := make([]*Report, len(res))
	for i, r := range res {
		ret[i] = newReport(r)
	}
	return ret, convertError(err)
}

// DumpStrategy prints the strategy picked for a hotness, with every group
// expanded.
func DumpStrategy(w io.Writer, hotness string, small bool) error {
	h, ok := opt.ParseHotness(hotness)
	if !ok {
		return HotnessError{Name: hotness}
	}

	/* pick the suite */
	suite := opt.Full
	if small {
		suite = opt.Small
	}
	return opt.DumpStrategy(w, suite, suite.Select(h))
}
