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

package term

import "testing"

func TestAbstractThenInstantiateRoundTrips(t *testing.T) {
	// body = App(href7, href7): a proof mentioning the introduced
	// hypothesis twice.
	href := &HRef{Index: 7}
	body := &App{Fn: href, Arg: href}

	abstracted := AbstractHRef(body, 7)
	want := &App{Fn: &Var{Index: 0}, Arg: &Var{Index: 0}}
	if !Equal(abstracted, want) {
		t.Fatalf("AbstractHRef = %#v, want %#v", abstracted, want)
	}

	back := Instantiate(abstracted, href)
	if !Equal(back, body) {
		t.Fatalf("Instantiate(Abstract(e)) = %#v, want %#v", back, body)
	}
}

func TestAbstractLeavesInternallyBoundVarsAlone(t *testing.T) {
	// Simulate a second, outer intros wrapping a body that already
	// contains a Var{0} bound by an earlier, inner intros.
	inner := &Lambda{Name: "h1", Domain: &Sort{Level: &LZero{}}, Body: &Var{Index: 0}}
	outer := AbstractHRef(inner, 3)
	// No HRef{3} occurs in inner, and the pre-existing Var{0} inside the
	// Lambda body is bound by the Lambda itself, not free relative to
	// the new outer binder, so it must be left alone.
	if !Equal(outer, inner) {
		t.Fatalf("AbstractHRef with no matching href and no free vars should be identity, got %#v", outer)
	}
}

func TestAbstractShiftsFreeVarsEvenWithoutMatch(t *testing.T) {
	// e references a binder outside of itself (free relative to e's own
	// top level). Wrapping e in one more binder, even one that doesn't
	// bind any href occurring in e, must still shift that reference.
	e := &Var{Index: 0}
	got := AbstractHRef(e, 99)
	want := &Var{Index: 1}
	if !Equal(got, want) {
		t.Fatalf("AbstractHRef = %#v, want %#v", got, want)
	}
}

func TestSubstHRefsLiftsAcrossBinders(t *testing.T) {
	// (\x. href5) --- substituting href5 with a value that itself
	// references Var{0} from an enclosing scope must lift that
	// reference across the new lambda.
	e := &Lambda{Name: "x", Domain: &Sort{Level: &LZero{}}, Body: &HRef{Index: 5}}
	repl := map[uint64]Expr{5: &Var{Index: 0}}

	got := SubstHRefs(e, repl)
	want := &Lambda{Name: "x", Domain: &Sort{Level: &LZero{}}, Body: &Var{Index: 1}}
	if !Equal(got, want) {
		t.Fatalf("SubstHRefs = %#v, want %#v", got, want)
	}
}

func TestEqualDistinguishesLocalsByID(t *testing.T) {
	a := &LocalConst{ID: 1, Name: "x"}
	b := &LocalConst{ID: 2, Name: "x"}
	if Equal(a, b) {
		t.Fatalf("locals with distinct IDs but equal names must not be Equal")
	}
	c := &LocalConst{ID: 1, Name: "renamed"}
	if !Equal(a, c) {
		t.Fatalf("locals with equal IDs but distinct names must be Equal")
	}
}

func TestOccursMRef(t *testing.T) {
	e := &App{Fn: &MRef{Index: 2, Args: nil}, Arg: &Sort{Level: &LZero{}}}
	if !OccursMRef(2, e) {
		t.Fatalf("expected mref 2 to occur")
	}
	if OccursMRef(3, e) {
		t.Fatalf("did not expect mref 3 to occur")
	}
}

func TestFreeHRefsAndMRefs(t *testing.T) {
	e := &App{
		Fn:  &MRef{Index: 9, Args: []Expr{&HRef{Index: 1}}},
		Arg: &HRef{Index: 2},
	}
	hrefs := map[uint64]bool{}
	FreeHRefs(e, hrefs)
	if !hrefs[1] || !hrefs[2] || len(hrefs) != 2 {
		t.Fatalf("FreeHRefs = %v, want {1,2}", hrefs)
	}
	mrefs := map[uint64]bool{}
	FreeMRefs(e, mrefs)
	if !mrefs[9] || len(mrefs) != 1 {
		t.Fatalf("FreeMRefs = %v, want {9}", mrefs)
	}
}
