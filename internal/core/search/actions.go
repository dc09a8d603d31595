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
	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/core/typectx"
)

// introsAction is the mandatory baseline action 1: if the target is a pi
// form, introduce its binder as a fresh hypothesis and replace the
// target by its body.
type introsAction struct{}

func (introsAction) Name() string           { return "intros" }
func (introsAction) Nondeterministic() bool { return false }

func (introsAction) Try(st *state.State, tc *typectx.Facade) (ActionResult, bool, error) {
	target := tc.Whnf(st.GetTarget())
	pi, ok := target.(*term.Pi)
	if !ok {
		return ActionResult{}, false, nil
	}
	href := st.MkHypothesis(pi.Name, pi.Domain, nil)
	st.SetTarget(term.Instantiate(pi.Body, &term.HRef{Index: href}))
	st.PushProofStep(&IntrosStep{HRef: href, Name: pi.Name, Domain: pi.Domain, Info: pi.Info})
	return ActionResult{Outcome: OutcomeContinue}, true, nil
}

// IntrosStep is the proof step introsAction pushes: it re-abstracts the
// accumulated subproof into a lambda over the hypothesis it introduced.
type IntrosStep struct {
	HRef   uint64
	Name   string
	Domain term.Expr
	Info   term.BinderInfo
}

// Resolve always accepts: introduction never needs more than the one
// subgoal it created.
func (s *IntrosStep) Resolve(_ *state.State, partial term.Expr) (term.Expr, bool) {
	body := term.AbstractHRef(partial, s.HRef)
	return &term.Lambda{Name: s.Name, Domain: s.Domain, Body: body, Info: s.Info}, true
}

// activateAction is the mandatory baseline action 2: expose the next
// inactive hypothesis whose type references no still-inactive one.
type activateAction struct{}

func (activateAction) Name() string           { return "activate" }
func (activateAction) Nondeterministic() bool { return false }

func (activateAction) Try(st *state.State, _ *typectx.Facade) (ActionResult, bool, error) {
	if _, ok := st.ActivateHypothesis(); ok {
		return ActionResult{Outcome: OutcomeContinue}, true, nil
	}
	return ActionResult{}, false, nil
}

// assumptionAction is the mandatory baseline action 3: close the branch
// with any active hypothesis whose type is definitionally equal to the
// target. Multiple active hypotheses may qualify — is_def_eq can assign
// metavariables, so trying one before another is a genuine non-deterministic
// commitment — so every candidate beyond the first that succeeds is kept as
// an Alternative for backtracking.
type assumptionAction struct{}

func (assumptionAction) Name() string           { return "assumption" }
func (assumptionAction) Nondeterministic() bool { return true }

func (assumptionAction) Try(st *state.State, tc *typectx.Facade) (ActionResult, bool, error) {
	active := st.ActiveHypotheses()
	candidates := make([]uint64, len(active))
	for i, h := range active {
		candidates[i] = h.Index
	}
	return tryAssumptions(st, tc, candidates)
}

func tryAssumptions(st *state.State, tc *typectx.Facade, candidates []uint64) (ActionResult, bool, error) {
	for i, href := range candidates {
		h, ok := st.GetHypothesis(href)
		if !ok {
			continue
		}
		if tc.IsDefEq(h.Type, st.GetTarget()) {
			rest := candidates[i+1:]
			var alts []Alternative
			if len(rest) > 0 {
				alts = []Alternative{func(st2 *state.State, tc2 *typectx.Facade) (ActionResult, error) {
					res, ok, err := tryAssumptions(st2, tc2, rest)
					if err != nil {
						return ActionResult{}, err
					}
					if !ok {
						return ActionResult{Outcome: OutcomeNoAction}, nil
					}
					return res, nil
				}}
			}
			return ActionResult{Outcome: OutcomeClosedBranch, Proof: &term.HRef{Index: href}, Alternatives: alts}, true, nil
		}
	}
	return ActionResult{}, false, nil
}
