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

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cloudwego/optsched"
)

type runOptions struct {
	hotness  string
	huge     bool
	parallel int
	graph    bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <unit.yaml>...",
		Short: "Optimize units and print the passes that ran",
		Long: `Optimize the units described by the given files, and print every pass
that ran with its cost and the analyses it had rebuilt.

Units are compiled concurrently. A unit that fails is still reported with
the passes that ran before the failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnits(cmd.Context(), root, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	/* local flags */
	cmd.Flags().StringVar(&opts.hotness, "hotness", "", "compile every unit at this hotness")
	cmd.Flags().BoolVar(&opts.huge, "huge", false, "process methods over the complexity thresholds")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "j", 1, "units compiled at once")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "print the optimized graphs")
	return cmd
}

func runUnits(ctx context.Context, root *rootOptions, opts *runOptions, paths []string, stdout io.Writer, stderr io.Writer) error {
	var units []*optsched.Unit
	if ctx == nil {
		ctx = context.Background()
	}

	/* load everything first */
	for _, path := range paths {
		unit, err := optsched.Load(path)
		if err != nil {
			return err
		}
		if opts.hotness != "" {
			if err = unit.SetHotness(opts.hotness); err != nil {
				return errors.Wrapf(err, "--hotness")
			}
		}
		units = append(units, unit)
	}

	/* WithParallelism panics on bad values */
	if opts.parallel <= 0 {
		return errors.Errorf("invalid parallelism: %d", opts.parallel)
	}

	/* compile all units */
	options := append(root.options(stderr),
		optsched.WithProcessHugeMethods(opts.huge),
		optsched.WithParallelism(opts.parallel),
	)
	reports, err := optsched.OptimizeAll(ctx, units, options...)

	/* report every unit, failed or not */
	for _, rep := range reports {
		printReport(stdout, rep, opts.graph)
	}
	if err != nil {
		return errors.Wrapf(err, "optimization failed")
	}
	return nil
}

func printReport(w io.Writer, rep *optsched.Report, graph bool) {
	fmt.Fprintf(w, "unit %s at %s, %d attempt(s), cost %d", rep.Unit, rep.Hotness, rep.Attempts, rep.Cost)
	if rep.Loops >= 0 {
		fmt.Fprintf(w, ", %d loop(s)", rep.Loops)
	}
	fmt.Fprintln(w)

	/* one row per executed pass */
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Index", "Pass", "Depth", "Builds", "Blocks", "Cost"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, v := range rep.Passes {
		table.Append([]string{
			strconv.Itoa(v.Index),
			strings.Repeat("  ", v.Depth) + v.Name,
			strconv.Itoa(v.Depth),
			strings.Join(v.Builds, ","),
			formatBlocks(v),
			strconv.Itoa(v.Cost),
		})
	}
	table.Render()

	/* the graph after optimization */
	if graph {
		fmt.Fprintln(w, rep.Graph)
	}
}

func formatBlocks(v optsched.PassRecord) string {
	if !v.BlockScoped {
		return "all"
	}
	ids := make([]string, 0, len(v.Blocks))
	for _, id := range v.Blocks {
		ids = append(ids, "bb_"+strconv.Itoa(id))
	}
	return strings.Join(ids, ",")
}
