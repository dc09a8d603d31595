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

package engine

import (
	"testing"

	"github.com/blast-proof/blast/internal/core/internalize"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/options"
)

type identityEnv struct{}

func (identityEnv) ConstType(string, []term.Level) (term.Expr, bool)            { return nil, false }
func (identityEnv) IsReducible(string) bool                                    { return false }
func (identityEnv) IsProjection(string) bool                                   { return false }
func (identityEnv) IsClassOrInstance(string) bool                              { return false }
func (identityEnv) Unfold(string, []term.Level, []term.Expr) (term.Expr, bool) { return nil, false }
func (identityEnv) WhnfReducibleOnly(e term.Expr) term.Expr                    { return e }

func TestRunTrivialAssumption(t *testing.T) {
	e := New(identityEnv{}, nil, nil, nil)
	h := &term.LocalConst{ID: 1, Name: "h", Type: &term.Const{Name: "P"}}
	goal := internalize.ExternalGoal{
		Hyps:   []internalize.ExternalHypothesis{{Local: h, Type: &term.Const{Name: "P"}}},
		Target: &term.Const{Name: "P"},
	}
	pr, err := e.Run(goal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !term.Equal(pr, h) {
		t.Fatalf("Run(P | h:P) = %#v, want %#v", pr, h)
	}
}

func TestRunSearchExhaustedReturnsNilNil(t *testing.T) {
	opts := options.New().SetUnsigned("blast.max_depth", 2).SetUnsigned("blast.init_depth", 1).SetUnsigned("blast.inc_depth", 1)
	e := New(identityEnv{}, opts, nil, nil)
	goal := internalize.ExternalGoal{Target: &term.Const{Name: "Unreachable"}}
	pr, err := e.Run(goal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pr != nil {
		t.Fatalf("Run(Unreachable) = %#v, want nil", pr)
	}
}

func TestRunPropagatesIllFormedGoal(t *testing.T) {
	e := New(identityEnv{}, nil, nil, nil)
	stray := &term.LocalConst{ID: 99, Name: "stray"}
	goal := internalize.ExternalGoal{Target: stray}
	_, err := e.Run(goal)
	if err == nil {
		t.Fatalf("expected an ill-formed-goal error")
	}
}

func TestInstallIsNestableLIFO(t *testing.T) {
	e1 := New(identityEnv{}, nil, nil, nil)
	e2 := New(identityEnv{}, nil, nil, nil)

	done1 := e1.Install()
	if Current() != e1 {
		t.Fatalf("Current() after installing e1 should be e1")
	}
	done2 := e2.Install()
	if Current() != e2 {
		t.Fatalf("Current() after installing e2 should be e2")
	}
	done2()
	if Current() != e1 {
		t.Fatalf("Current() after uninstalling e2 should revert to e1")
	}
	done1()
	if Current() != nil {
		t.Fatalf("Current() after uninstalling both should be nil")
	}
}
