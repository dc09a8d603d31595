// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/blast-proof/blast/internal/core/engine"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/diag"
	"github.com/blast-proof/blast/internal/goalfile"
	"github.com/blast-proof/blast/internal/options"
)

func newRunCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <goalfile>",
		Short: "search for a proof of the goal described in a YAML file",
		Long: `run reads a goal description - a set of global declarations, a
hypothesis context, and a target - from a YAML file and searches for a
closed proof using iterative-deepening backtracking search.

On success it prints the proof term and exits 0. If the search exhausts
its depth budget without finding a proof it prints "no proof found" and
exits 1.`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runRun),
	}
	addRunFlags(cmd.Flags())
	return cmd
}

func runRun(c *Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	env, goal, err := goalfile.Decode(f)
	if err != nil {
		return err
	}

	opts := options.New().
		SetUnsigned("blast.max_depth", flagMaxDepth.Uint64(c)).
		SetUnsigned("blast.init_depth", flagInitDepth.Uint64(c)).
		SetUnsigned("blast.inc_depth", flagIncDepth.Uint64(c))

	e := engine.New(env, opts, flagHint.StringArray(c), flagUnfold.StringArray(c))
	if flagTrace.Bool(c) {
		e.SetSink(diag.NewStdSink(log.New(c.Stderr(), "", 0)))
	}

	proof, err := e.Run(goal)
	if err != nil {
		return err
	}
	if proof == nil {
		fmt.Fprintln(c.OutOrStdout(), "no proof found")
		return ErrPrintedError
	}

	fmt.Fprintln(c.OutOrStdout(), term.Sprint(proof))
	return nil
}
