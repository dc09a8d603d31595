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

import "github.com/spf13/pflag"

type flagName string

const (
	flagMaxDepth  flagName = "max-depth"
	flagInitDepth flagName = "init-depth"
	flagIncDepth  flagName = "inc-depth"
	flagHint      flagName = "hint"
	flagUnfold    flagName = "unfold"
	flagTrace     flagName = "trace"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.Bool(string(flagTrace), false, "print search trace diagnostics to stderr")
}

func addRunFlags(f *pflag.FlagSet) {
	f.Uint64(string(flagMaxDepth), 128, "maximum proof depth to search to")
	f.Uint64(string(flagInitDepth), 1, "initial proof depth")
	f.Uint64(string(flagIncDepth), 5, "depth increment between iterations")
	f.StringArray(string(flagHint), nil, "name of a lemma hint passed to the engine (repeatable; recorded but not consulted by the search)")
	f.StringArray(string(flagUnfold), nil, "name of a constant the type context does not treat as opaque for being non-reducible (repeatable)")
}

func (f flagName) Bool(cmd *Command) bool {
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) Uint64(cmd *Command) uint64 {
	v, _ := cmd.Flags().GetUint64(string(f))
	return v
}

func (f flagName) StringArray(cmd *Command) []string {
	v, _ := cmd.Flags().GetStringArray(string(f))
	return v
}
