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

package typectx

import (
	"testing"

	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
)

type fakeEnv struct {
	reducible map[string]bool
	bodies    map[string]term.Expr
}

func (e *fakeEnv) ConstType(name string, _ []term.Level) (term.Expr, bool) { return nil, false }
func (e *fakeEnv) IsReducible(name string) bool                            { return e.reducible[name] }
func (e *fakeEnv) IsProjection(string) bool                                { return false }
func (e *fakeEnv) IsClassOrInstance(string) bool                           { return false }
func (e *fakeEnv) Unfold(name string, _ []term.Level, args []term.Expr) (term.Expr, bool) {
	b, ok := e.bodies[name]
	if !ok {
		return nil, false
	}
	return term.Apply(b, args), true
}
func (e *fakeEnv) WhnfReducibleOnly(x term.Expr) term.Expr { return x }

func propType() term.Expr { return &term.Sort{Level: &term.LZero{}} }

func TestSnapshotRollbackRestoresNoAssignment(t *testing.T) {
	st := state.New()
	m1 := st.MkMetavar(nil, propType())
	m2 := st.MkMetavar(nil, propType())
	f := New(&fakeEnv{}, st, nil, nil)

	f.Push()
	f.UpdateAssignmentM(m1, propType())
	f.UpdateAssignmentM(m2, propType())
	f.Pop()

	if _, ok := f.GetAssignmentM(m1); ok {
		t.Fatalf("expected m1 assignment to be rolled back")
	}
	if _, ok := f.GetAssignmentM(m2); ok {
		t.Fatalf("expected m2 assignment to be rolled back")
	}
}

func TestNestedPushPopIsLIFO(t *testing.T) {
	st := state.New()
	m1 := st.MkMetavar(nil, propType())
	m2 := st.MkMetavar(nil, propType())
	f := New(&fakeEnv{}, st, nil, nil)

	f.Push()
	f.UpdateAssignmentM(m1, propType())
	f.Push()
	f.UpdateAssignmentM(m2, propType())
	f.Pop() // reverts m2 only
	if _, ok := f.GetAssignmentM(m2); ok {
		t.Fatalf("expected m2 to be rolled back")
	}
	if _, ok := f.GetAssignmentM(m1); !ok {
		t.Fatalf("expected m1 to survive inner rollback")
	}
	f.Pop() // reverts m1
	if _, ok := f.GetAssignmentM(m1); ok {
		t.Fatalf("expected m1 to be rolled back")
	}
}

func TestIsDefEqAssignsUnassignedMref(t *testing.T) {
	st := state.New()
	h := st.MkHypothesis("h", propType(), nil)
	m := st.MkMetavar([]uint64{h}, propType())
	f := New(&fakeEnv{}, st, nil, nil)

	mrefApp := &term.MRef{Index: m, Args: []term.Expr{&term.HRef{Index: h}}}
	target := &term.HRef{Index: h}

	if !f.IsDefEq(mrefApp, target) {
		t.Fatalf("expected IsDefEq to succeed by assigning the mref")
	}
	v, ok := f.GetAssignmentM(m)
	if !ok || !term.Equal(v, target) {
		t.Fatalf("expected m assigned to %#v, got %#v (ok=%v)", target, v, ok)
	}
}

func TestValidateAssignmentRejectsHRefOutsideContext(t *testing.T) {
	st := state.New()
	h0 := st.MkHypothesis("A", propType(), nil)
	h1 := st.MkHypothesis("B", propType(), nil)
	m := st.MkMetavar([]uint64{h0}, propType())
	f := New(&fakeEnv{}, st, nil, nil)

	if f.ValidateAssignment(m, &term.HRef{Index: h1}) {
		t.Fatalf("expected assignment referencing an out-of-context href to be rejected")
	}
}

func TestValidateAssignmentRejectsOccursCheck(t *testing.T) {
	st := state.New()
	m := st.MkMetavar(nil, propType())
	f := New(&fakeEnv{}, st, nil, nil)

	if f.ValidateAssignment(m, &term.MRef{Index: m}) {
		t.Fatalf("expected self-referential assignment to be rejected")
	}
}

func TestWhnfUnfoldsReducibleConstAndBeta(t *testing.T) {
	st := state.New()
	env := &fakeEnv{
		reducible: map[string]bool{"id": true},
		bodies: map[string]term.Expr{
			"id": &term.Lambda{Name: "x", Domain: propType(), Body: &term.Var{Index: 0}},
		},
	}
	f := New(env, st, nil, nil)

	e := &term.App{Fn: &term.Const{Name: "id"}, Arg: &term.Const{Name: "P"}}
	got := f.Whnf(e)
	if !term.Equal(got, &term.Const{Name: "P"}) {
		t.Fatalf("Whnf(id P) = %#v, want P", got)
	}
}

func TestPoolReusesGuards(t *testing.T) {
	st := state.New()
	pool := NewPool(&fakeEnv{})
	g1 := pool.Acquire(st, nil, nil)
	f1 := g1.Facade
	g1.Release()

	g2 := pool.Acquire(st, nil, nil)
	if g2.Facade != f1 {
		t.Fatalf("expected pool to reuse the released façade")
	}
}
