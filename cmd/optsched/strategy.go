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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cloudwego/optsched"
)

func newStrategyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy <hotness>",
		Short: "Dump the strategy picked for a hotness",
		Long: `Dump the strategy picked for a hotness, with every group expanded.

Hotness is one of noOpt, cold, warm, hot, veryHot and scorching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := optsched.DumpStrategy(cmd.OutOrStdout(), args[0], opts.small); err != nil {
				return errors.Wrapf(err, "cannot dump strategy")
			}
			return nil
		},
	}
}
