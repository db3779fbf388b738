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
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/cloudwego/optsched"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	verbose bool
	small   bool
	disable []string
	trace   []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "optsched",
		Short:         "Optimization pass scheduler",
		Long:          "Runs the optimization strategies over method compilations described in YAML, and dumps the strategies themselves.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	/* global flags */
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log optimizer diagnostics to stderr")
	cmd.PersistentFlags().BoolVar(&opts.small, "small", false, "use the reduced strategies")
	cmd.PersistentFlags().StringSliceVar(&opts.disable, "disable", nil, "disable passes by name or opt index")
	cmd.PersistentFlags().StringSliceVar(&opts.trace, "trace", nil, "trace passes by name or opt index")

	/* subcommands */
	cmd.AddCommand(newStrategyCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func (self *rootOptions) options(stderr io.Writer) []optsched.Option {
	ret := []optsched.Option{
		optsched.WithSmallOptimizer(self.small),
		optsched.WithDisabledOpts(self.disable...),
		optsched.WithTraceOpts(self.trace...),
	}

	/* diagnostics go to stderr, the tables to stdout */
	if self.verbose || len(self.trace) != 0 {
		log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ret = append(ret, optsched.WithLogger(log))
	}
	return ret
}
