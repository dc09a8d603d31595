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

package goalfile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blast-proof/blast/internal/core/term"
)

func TestDecodeHypothesesAndTarget(t *testing.T) {
	src := `
hypotheses:
  - local: {id: 1, name: h}
    type: {const: P}
target: {const: P}
`
	_, goal, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !term.Equal(goal.Target, &term.Const{Name: "P"}) {
		t.Fatalf("Target = %#v, want Const{P}", goal.Target)
	}
	if len(goal.Hyps) != 1 || goal.Hyps[0].Local.Name != "h" || goal.Hyps[0].Local.ID != 1 {
		t.Fatalf("Hyps = %#v, want one hypothesis named h with ID 1", goal.Hyps)
	}
	if !term.Equal(goal.Hyps[0].Type, &term.Const{Name: "P"}) {
		t.Fatalf("Hyps[0].Type = %#v, want Const{P}", goal.Hyps[0].Type)
	}
}

func TestDecodeNestedPiAndLambda(t *testing.T) {
	src := `
hypotheses: []
target:
  pi:
    name: a
    domain: {sort: {level: zero}}
    body:
      pi:
        name: b
        domain: {var: 0}
        body: {var: 1}
`
	_, goal, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := &term.Pi{
		Name:   "a",
		Domain: &term.Sort{Level: &term.LZero{}},
		Body: &term.Pi{
			Name:   "b",
			Domain: &term.Var{Index: 0},
			Body:   &term.Var{Index: 1},
		},
	}
	if diff := cmp.Diff(want, goal.Target); diff != "" {
		t.Errorf("Target mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeGlobalsBuildEnvironment(t *testing.T) {
	src := `
globals:
  - name: P
    type: {sort: {level: zero}}
    reducible: false
  - name: idP
    type: {const: P}
    reducible: true
    unfold:
      params: 1
      body: {var: 0}
hypotheses: []
target: {const: P}
`
	env, _, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	pType, ok := env.ConstType("P", nil)
	if !ok || !term.Equal(pType, &term.Sort{Level: &term.LZero{}}) {
		t.Fatalf("ConstType(P) = %#v, %v", pType, ok)
	}
	if env.IsReducible("P") {
		t.Fatalf("P should not be reducible")
	}
	if !env.IsReducible("idP") {
		t.Fatalf("idP should be reducible")
	}
	arg := &term.Const{Name: "witness"}
	got, ok := env.Unfold("idP", nil, []term.Expr{arg})
	if !ok {
		t.Fatalf("Unfold(idP, witness) should succeed")
	}
	if !term.Equal(got, arg) {
		t.Fatalf("Unfold(idP, witness) = %#v, want %#v", got, arg)
	}
}

func TestWhnfReducibleOnlyUnfoldsConstant(t *testing.T) {
	env := NewEnvironment([]Global{
		{Name: "P", Type: &term.Sort{Level: &term.LZero{}}},
		{
			Name:         "idP",
			Type:         &term.Const{Name: "P"},
			Reducible:    true,
			UnfoldParams: 1,
			UnfoldBody:   &term.Var{Index: 0},
		},
	})
	arg := &term.Const{Name: "witness"}
	applied := &term.App{Fn: &term.Const{Name: "idP"}, Arg: arg}
	got := env.WhnfReducibleOnly(applied)
	if !term.Equal(got, arg) {
		t.Fatalf("WhnfReducibleOnly(idP witness) = %#v, want %#v", got, arg)
	}
}

func TestDecodeRejectsUnrecognizedNode(t *testing.T) {
	src := `
hypotheses: []
target: {bogus: true}
`
	if _, _, err := Decode(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for an unrecognized expression node")
	}
}
