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

// Package search implements the iterative-deepening backtracking driver:
// it composes a fixed-priority action catalog, records choice points
// before any non-deterministic commitment, and resolves the proof-step
// stack when a branch closes.
package search

import (
	"fmt"

	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/core/typectx"
)

// Config holds the three depth options the driver iterates over.
type Config struct {
	MaxDepth  uint64
	InitDepth uint64
	IncDepth  uint64
}

// DefaultConfig returns the standard defaults (128, 1, 5).
func DefaultConfig() Config {
	return Config{MaxDepth: 128, InitDepth: 1, IncDepth: 5}
}

// Stats tracks the engine's search counters as a plain struct of
// counters.
type Stats struct {
	ChoicePoints uint64
	Backtracks   uint64
	FoundAtDepth uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("choice_points=%d backtracks=%d found_at_depth=%d", s.ChoicePoints, s.Backtracks, s.FoundAtDepth)
}

// Outcome is an action attempt's three-way result.
type Outcome int

const (
	// OutcomeContinue means the action mutated the State; the driver loops.
	OutcomeContinue Outcome = iota
	// OutcomeClosedBranch means the current subgoal is proved.
	OutcomeClosedBranch
	// OutcomeNoAction means no action in the catalog applies.
	OutcomeNoAction
)

// Alternative is a deferred way an action could have proceeded, retried
// against a fresh clone of the State as it stood before the action first
// ran. Backtracking into a choice point pops and tries the next
// Alternative in order.
type Alternative func(st *state.State, tc *typectx.Facade) (ActionResult, error)

// ActionResult is what an Action produces on one attempt.
type ActionResult struct {
	Outcome Outcome
	// Proof is set when Outcome is OutcomeClosedBranch.
	Proof term.Expr
	// Alternatives are additional candidate resolutions of this same
	// dispatch point, tried in order on backtrack. A non-empty
	// Alternatives list causes the driver to push a choice point.
	Alternatives []Alternative
}

// Action is one entry in the fixed-priority catalog.
type Action interface {
	// Name identifies the action for diagnostics.
	Name() string
	// Nondeterministic reports whether Try may return alternatives, so the
	// driver knows whether it must clone the State before attempting it
	// (the clone becomes the choice point's snapshot).
	Nondeterministic() bool
	// Try attempts to apply the action. ok is false when the action does
	// not apply at all — the driver moves on to the next action in
	// priority order without consulting res.
	Try(st *state.State, tc *typectx.Facade) (res ActionResult, ok bool, err error)
}

type choicePoint struct {
	snapshot     *state.State
	alternatives []Alternative
}

// ActionRegistry is an ordered list of extension actions consulted after
// the three mandatory baseline actions. It is empty by default; nothing
// in this package populates it.
type ActionRegistry []Action

// Driver runs one iterative-deepening search against a State.
type Driver struct {
	tc           *typectx.Facade
	state        *state.State
	cfg          Config
	registry     ActionRegistry
	baseline     []Action
	choicePoints []*choicePoint
	stats        Stats
}

// New returns a Driver that will search st (via tc) with cfg, dispatching
// the mandatory baseline actions before any registered extension action.
func New(st *state.State, tc *typectx.Facade, cfg Config, registry ActionRegistry) *Driver {
	return &Driver{
		tc:       tc,
		state:    st,
		cfg:      cfg,
		registry: registry,
		baseline: []Action{introsAction{}, activateAction{}, assumptionAction{}},
	}
}

// Stats returns the counters accumulated so far.
func (d *Driver) Stats() Stats { return d.stats }

func (d *Driver) actions() []Action {
	if len(d.registry) == 0 {
		return d.baseline
	}
	all := make([]Action, 0, len(d.baseline)+len(d.registry))
	all = append(all, d.baseline...)
	all = append(all, d.registry...)
	return all
}

// Run searches for a closed proof of target using iterative deepening.
// It returns (nil, nil) on search exhaustion, a negative result rather
// than an error, and a non-nil error only for the two fatal kinds an
// Action might surface.
func (d *Driver) Run(target term.Expr) (term.Expr, error) {
	base := d.state
	base.SetTarget(target)
	for depth := d.cfg.InitDepth; depth <= d.cfg.MaxDepth; depth += d.cfg.IncDepth {
		d.state = base.Clone()
		d.tc.Rebind(d.state)
		d.choicePoints = d.choicePoints[:0]

		pr, err := d.searchAtDepth(depth)
		if err != nil {
			return nil, err
		}
		if pr != nil {
			d.stats.FoundAtDepth = depth
			return pr, nil
		}
	}
	return nil, nil
}

func (d *Driver) searchAtDepth(depth uint64) (term.Expr, error) {
	for {
		var res ActionResult
		if d.state.GetProofDepth() > depth {
			r, ok, err := d.backtrack()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			res = r
		} else {
			r, err := d.nextAction()
			if err != nil {
				return nil, err
			}
			if r.Outcome == OutcomeNoAction {
				br, ok, err := d.backtrack()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, nil
				}
				res = br
			} else {
				res = r
			}
		}

		if res.Outcome == OutcomeClosedBranch {
			pr, done := d.resolve(res.Proof)
			if done {
				return pr, nil
			}
		}
	}
}

// nextAction consults the catalog in priority order, cloning the State
// first for any action that might yield alternatives so the clone can
// serve as that choice point's snapshot.
func (d *Driver) nextAction() (ActionResult, error) {
	for _, a := range d.actions() {
		var pre *state.State
		if a.Nondeterministic() {
			pre = d.state.Clone()
		}
		res, ok, err := a.Try(d.state, d.tc)
		if err != nil {
			return ActionResult{}, err
		}
		if !ok {
			continue
		}
		if len(res.Alternatives) > 0 && pre != nil {
			d.pushChoicePoint(pre, res.Alternatives)
		}
		return res, nil
	}
	return ActionResult{Outcome: OutcomeNoAction}, nil
}

func (d *Driver) pushChoicePoint(snapshot *state.State, alts []Alternative) {
	d.choicePoints = append(d.choicePoints, &choicePoint{snapshot: snapshot, alternatives: alts})
	d.stats.ChoicePoints++
}

// backtrack pops the innermost choice point with a remaining alternative,
// restores its snapshot, and tries that alternative. It keeps trying and
// discarding exhausted choice points until it finds an alternative that
// applies (Outcome != OutcomeNoAction) or the stack is empty.
func (d *Driver) backtrack() (ActionResult, bool, error) {
	for len(d.choicePoints) > 0 {
		n := len(d.choicePoints)
		cp := d.choicePoints[n-1]
		if len(cp.alternatives) == 0 {
			d.choicePoints = d.choicePoints[:n-1]
			continue
		}
		next := cp.alternatives[0]
		cp.alternatives = cp.alternatives[1:]

		d.state = cp.snapshot.Clone()
		d.tc.Rebind(d.state)
		d.stats.Backtracks++

		res, err := next(d.state, d.tc)
		if err != nil {
			return ActionResult{}, false, err
		}
		if res.Outcome == OutcomeNoAction {
			continue
		}
		if len(res.Alternatives) > 0 {
			d.pushChoicePoint(cp.snapshot, res.Alternatives)
		}
		return res, true, nil
	}
	return ActionResult{}, false, nil
}

// resolve loops while the proof-step stack is non-empty: pop-try-commit-or
// -stop. It returns done=true only once the stack empties,
// at which point pr is the proof of the original goal.
func (d *Driver) resolve(pr term.Expr) (result term.Expr, done bool) {
	for d.state.HasProofSteps() {
		top := d.state.TopProofStep()
		next, ok := top.Resolve(d.state, pr)
		if !ok {
			return nil, false
		}
		d.state.PopProofStep()
		pr = next
	}
	return pr, true
}
