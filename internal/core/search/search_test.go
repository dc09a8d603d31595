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

package search

import (
	"testing"

	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/core/typectx"
)

type fakeEnv struct{}

func (fakeEnv) ConstType(string, []term.Level) (term.Expr, bool)              { return nil, false }
func (fakeEnv) IsReducible(string) bool                                       { return false }
func (fakeEnv) IsProjection(string) bool                                      { return false }
func (fakeEnv) IsClassOrInstance(string) bool                                 { return false }
func (fakeEnv) Unfold(string, []term.Level, []term.Expr) (term.Expr, bool)    { return nil, false }
func (fakeEnv) WhnfReducibleOnly(e term.Expr) term.Expr                       { return e }

func prop() term.Expr { return &term.Sort{Level: &term.LZero{}} }

// newDriver returns a Driver over a fresh, empty State (no hypotheses;
// each test declares its own), plus that State.
func newDriver(cfg Config) (*Driver, *state.State) {
	st := state.New()
	tc := typectx.New(fakeEnv{}, st, nil, nil)
	return New(st, tc, cfg, nil), st
}

func TestTrivialAssumption(t *testing.T) {
	d, st := newDriver(DefaultConfig())
	p := &term.Const{Name: "P"}
	href := st.MkHypothesis("h", p, nil)
	st.ActivateHypothesis() // exposes h

	pr, err := d.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := &term.HRef{Index: href}
	if !term.Equal(pr, want) {
		t.Fatalf("Run(P) = %#v, want %#v", pr, want)
	}
}

func TestIntroductionThenAssumption(t *testing.T) {
	d, _ := newDriver(DefaultConfig())
	p := &term.Const{Name: "P"}
	target := &term.Pi{Name: "h", Domain: p, Body: p} // P -> P, non-dependent

	pr, err := d.Run(target)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	lam, ok := pr.(*term.Lambda)
	if !ok {
		t.Fatalf("Run(P -> P) = %#v, want *term.Lambda", pr)
	}
	if !term.Equal(lam.Body, &term.Var{Index: 0}) {
		t.Fatalf("lambda body = %#v, want Var{0} (the introduced hypothesis)", lam.Body)
	}
}

func TestIteratedIntroduction(t *testing.T) {
	d, _ := newDriver(DefaultConfig())
	a := &term.Const{Name: "A"}
	b := &term.Const{Name: "B"}
	// A -> B -> A, non-dependent: the conclusion is the proposition A again,
	// not a reference to the bound proof of A.
	target := &term.Pi{Name: "a", Domain: a, Body: &term.Pi{Name: "b", Domain: b, Body: a}}

	pr, err := d.Run(target)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	outer, ok := pr.(*term.Lambda)
	if !ok {
		t.Fatalf("Run(A -> B -> A) outer = %#v, want *term.Lambda", pr)
	}
	inner, ok := outer.Body.(*term.Lambda)
	if !ok {
		t.Fatalf("Run(A -> B -> A) inner = %#v, want *term.Lambda", outer.Body)
	}
	if !term.Equal(inner.Body, &term.Var{Index: 1}) {
		t.Fatalf("innermost body = %#v, want Var{1} (the first introduced hypothesis)", inner.Body)
	}
}

func TestDepthExhaustion(t *testing.T) {
	// A target that is never a pi and matches no hypothesis, under a
	// budget too small for anything but immediate failure: no action
	// applies, so the search must exhaust every depth and return no proof.
	cfg := Config{MaxDepth: 3, InitDepth: 1, IncDepth: 1}
	d, _ := newDriver(cfg)
	unreachable := &term.Const{Name: "Unreachable"}

	pr, err := d.Run(unreachable)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pr != nil {
		t.Fatalf("Run(Unreachable) = %#v, want nil (search exhausted)", pr)
	}
}

func TestAssumptionCommitsToFirstOfTwoCandidates(t *testing.T) {
	// Two active hypotheses of the same type as the target: the driver
	// commits to the first found (lowest index) without needing to
	// backtrack, but the second remains recorded as an alternative — this
	// exercises that nextAction pushes a choice point whenever a later
	// candidate remains after a match, even though this particular run never visits
	// it (the snapshot/choice-point machinery must not corrupt the
	// straightforwardly-successful run).
	d, st := newDriver(DefaultConfig())
	p := &term.Const{Name: "P"}
	h1 := st.MkHypothesis("h1", p, nil)
	st.MkHypothesis("h2", p, nil)
	st.ActivateHypothesis()
	st.ActivateHypothesis()

	pr, err := d.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := &term.HRef{Index: h1}
	if !term.Equal(pr, want) {
		t.Fatalf("Run(P) = %#v, want first active hypothesis %#v", pr, want)
	}
}

func TestSnapshotRollback(t *testing.T) {
	st := state.New()
	tc := typectx.New(fakeEnv{}, st, nil, nil)
	m1 := st.MkMetavar(nil, prop())
	m2 := st.MkMetavar(nil, prop())

	tc.Push()
	tc.UpdateAssignmentM(m1, prop())
	tc.UpdateAssignmentM(m2, prop())
	tc.Pop()

	if _, ok := tc.GetAssignmentM(m1); ok {
		t.Fatalf("expected m1 to be rolled back")
	}
	if _, ok := tc.GetAssignmentM(m2); ok {
		t.Fatalf("expected m2 to be rolled back")
	}
}
