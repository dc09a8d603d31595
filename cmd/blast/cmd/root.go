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

// Package cmd is the blast command-line driver: a thin cobra-based
// wrapper around the engine library. The engine has no CLI of its own;
// this package is one external caller among any a tactic framework could
// build.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// newRootCmd creates the base command when called without any subcommands.
func newRootCmd() *Command {
	root := &cobra.Command{
		Use:          "blast",
		Short:        "blast searches for a proof of a goal",
		Long:         `blast reads a goal description and searches for a closed proof using iterative-deepening backtracking search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: root, root: root}

	addGlobalFlags(root.PersistentFlags())

	subCommands := []*cobra.Command{
		newRunCmd(c),
		newVersionCmd(c),
	}
	for _, sub := range subCommands {
		root.AddCommand(sub)
	}

	return c
}

// Command wraps the currently active cobra.Command with the extra state
// the blast subcommands need (an error writer that tracks whether
// anything was ever written to it).
type Command struct {
	*cobra.Command

	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that marks the command as having failed, even
// if the command itself ultimately returns a nil error.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// ErrPrintedError indicates error messages have already been printed to
// stderr, so the caller should exit non-zero without printing err again.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run() error {
	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

// Main runs the blast command and returns the code to pass to os.Exit.
func Main() int {
	cmd := newRootCmd()
	cmd.root.SetArgs(os.Args[1:])
	if err := cmd.Run(); err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
