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

package state

import (
	"testing"

	"github.com/blast-proof/blast/internal/core/term"
)

func propType() term.Expr { return &term.Sort{Level: &term.LZero{}} }

func TestSaveRestoreAssignmentIsNoOp(t *testing.T) {
	s := New()
	m := s.MkMetavar(nil, propType())
	u := s.MkURef()

	snap := s.SaveAssignment()
	s.AssignMRef(m, &term.Sort{Level: &term.LZero{}})
	s.AssignURef(u, &term.LZero{})

	if _, ok := s.GetMRefAssignment(m); !ok {
		t.Fatalf("expected mref to be assigned before rollback")
	}

	s.RestoreAssignment(snap)

	if _, ok := s.GetMRefAssignment(m); ok {
		t.Fatalf("expected mref assignment to be rolled back")
	}
	if _, ok := s.GetURefAssignment(u); ok {
		t.Fatalf("expected uref assignment to be rolled back")
	}
}

func TestNestedSnapshotsCommuteLIFO(t *testing.T) {
	s := New()
	m1 := s.MkMetavar(nil, propType())
	m2 := s.MkMetavar(nil, propType())

	outer := s.SaveAssignment()
	s.AssignMRef(m1, propType())
	inner := s.SaveAssignment()
	s.AssignMRef(m2, propType())

	s.RestoreAssignment(inner)
	if _, ok := s.GetMRefAssignment(m2); ok {
		t.Fatalf("inner assignment should have been rolled back")
	}
	if _, ok := s.GetMRefAssignment(m1); !ok {
		t.Fatalf("outer assignment should survive inner rollback")
	}

	s.RestoreAssignment(outer)
	if _, ok := s.GetMRefAssignment(m1); ok {
		t.Fatalf("outer assignment should have been rolled back")
	}
}

func TestActivateHypothesisOrdersByReadiness(t *testing.T) {
	s := New()
	h0 := s.MkHypothesis("A", propType(), nil)
	// h1's type mentions h0 via an href occurring in an application, so
	// h1 is ready only once h0 is active: h0 (lowest index, no refs)
	// activates first, after which h1 is no longer blocked.
	h1 := s.MkHypothesis("B", &term.App{Fn: &term.HRef{Index: h0}, Arg: propType()}, nil)

	got0, ok := s.ActivateHypothesis()
	if !ok || got0 != h0 {
		t.Fatalf("expected h0 (%d) to activate first, got %d ok=%v", h0, got0, ok)
	}
	got1, ok := s.ActivateHypothesis()
	if !ok || got1 != h1 {
		t.Fatalf("expected h1 (%d) to activate second, got %d ok=%v", h1, got1, ok)
	}
	if _, ok := s.ActivateHypothesis(); ok {
		t.Fatalf("expected no more hypotheses to activate")
	}
}

func TestRestrictMrefContextUsingNarrowsAndRejects(t *testing.T) {
	s := New()
	h0 := s.MkHypothesis("A", propType(), nil)
	h1 := s.MkHypothesis("B", propType(), nil)

	m := s.MkMetavar([]uint64{h0, h1}, propType())
	narrow := s.MkMetavar([]uint64{h0}, propType())

	if err := s.RestrictMrefContextUsing(m, narrow); err != nil {
		t.Fatalf("unexpected error narrowing context: %v", err)
	}
	decl, _ := s.GetMetaDecl(m)
	if len(decl.ContextOrd) != 1 || decl.ContextOrd[0] != h0 {
		t.Fatalf("expected context narrowed to {h0}, got %v", decl.ContextOrd)
	}

	m2 := s.MkMetavar([]uint64{h0, h1}, propType())
	s.AssignMRef(m2, &term.HRef{Index: h1})
	if err := s.RestrictMrefContextUsing(m2, narrow); err == nil {
		t.Fatalf("expected restriction to fail: existing assignment uses href outside narrowed context")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	h0 := s.MkHypothesis("A", propType(), nil)
	m := s.MkMetavar([]uint64{h0}, propType())

	clone := s.Clone()
	clone.AssignMRef(m, &term.HRef{Index: h0})
	clone.SetTarget(propType())

	if _, ok := s.GetMRefAssignment(m); ok {
		t.Fatalf("mutating the clone must not affect the original state")
	}
	if s.GetTarget() != nil {
		t.Fatalf("mutating the clone's target must not affect the original")
	}
}

func TestInstantiateUrefsMrefsSubstitutesThroughContext(t *testing.T) {
	s := New()
	h0 := s.MkHypothesis("A", propType(), nil)
	m := s.MkMetavar([]uint64{h0}, propType())
	s.AssignMRef(m, &term.HRef{Index: h0})

	e := &term.MRef{Index: m, Args: []term.Expr{&term.HRef{Index: h0}}}
	got := s.InstantiateUrefsMrefs(e)
	want := &term.HRef{Index: h0}
	if !term.Equal(got, want) {
		t.Fatalf("InstantiateUrefsMrefs = %#v, want %#v", got, want)
	}
}

func TestCheckInvariantCatchesOccursCheckViolation(t *testing.T) {
	s := New()
	m := s.MkMetavar(nil, propType())
	s.AssignMRef(m, &term.MRef{Index: m})
	if err := s.CheckInvariant(); err == nil {
		t.Fatalf("expected occurs-check violation to be reported")
	}
}
