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

// Package typectx implements the type-context façade: a
// unification and whnf service that reads and writes the State's
// assignments and can push/pop/commit an assignment snapshot. It bridges
// the generic, State-agnostic notion of "is this opaque", "what's this
// local's type" etc. to the concrete State of one proof search.
package typectx

import (
	"github.com/blast-proof/blast/internal/core/ambient"
	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
)

// Facade services definitional equality and unification against one
// State. It is not safe for concurrent use; it is single-threaded
// cooperative within one engine.
type Facade struct {
	env   ambient.Environment
	state *state.State

	// LemmaHints and UnfoldHints are the named lemmas and unfold targets
	// supplied by the caller at engine construction time. IsOpaque
	// consults UnfoldHints; LemmaHints is recorded here but no code in
	// the engine reads it.
	LemmaHints  []string
	UnfoldHints map[string]bool

	snapshots []state.Snapshot
}

// New returns a Facade bound to st, consulting env for opacity and
// constant lookup.
func New(env ambient.Environment, st *state.State, lemmaHints, unfoldHints []string) *Facade {
	uh := make(map[string]bool, len(unfoldHints))
	for _, n := range unfoldHints {
		uh[n] = true
	}
	return &Facade{env: env, state: st, LemmaHints: lemmaHints, UnfoldHints: uh}
}

// Rebind retargets the façade at a different State, e.g. after the search
// driver backtracks to a cloned snapshot. Any open snapshot stack is
// cleared: snapshots are scoped to a single State's lifetime; crossing
// scopes with an open snapshot is undefined.
func (f *Facade) Rebind(st *state.State) {
	f.state = st
	f.snapshots = f.snapshots[:0]
}

// State returns the State this façade currently operates on.
func (f *Facade) State() *state.State { return f.state }

// IsUVar reports whether l is a universe metavariable reference.
func (f *Facade) IsUVar(l term.Level) bool {
	_, ok := l.(*term.URef)
	return ok
}

// IsMVar reports whether e is a term metavariable reference.
func (f *Facade) IsMVar(e term.Expr) bool {
	_, ok := e.(*term.MRef)
	return ok
}

// InferLocal returns the recorded type of a hypothesis reference.
func (f *Facade) InferLocal(href uint64) (term.Expr, bool) {
	h, ok := f.state.GetHypothesis(href)
	if !ok {
		return nil, false
	}
	return h.Type, true
}

// InferMetavar returns the recorded type of a metavariable declaration.
func (f *Facade) InferMetavar(mref uint64) (term.Expr, bool) {
	m, ok := f.state.GetMetaDecl(mref)
	if !ok {
		return nil, false
	}
	return m.Type, true
}

// GetAssignmentU looks up a universe metavariable's current assignment.
func (f *Facade) GetAssignmentU(u uint64) (term.Level, bool) {
	return f.state.GetURefAssignment(u)
}

// GetAssignmentM looks up a term metavariable's current assignment.
func (f *Facade) GetAssignmentM(m uint64) (term.Expr, bool) {
	return f.state.GetMRefAssignment(m)
}

// IsOpaque reports whether a constant should be treated as non-unfoldable
// during conversion: it is opaque if it is a projection known to the
// engine, or if it is marked non-reducible in the environment and is not
// named in UnfoldHints. Class and
// instance names are currently treated as non-opaque; a future special
// case for them remains an open question.
func (f *Facade) IsOpaque(name string) bool {
	if f.env == nil {
		return true
	}
	if f.env.IsProjection(name) {
		return true
	}
	if f.UnfoldHints[name] {
		return false
	}
	return !f.env.IsReducible(name)
}

// UpdateAssignmentU records u ↦ lvl without validation. There is no
// validating counterpart for universe assignments; the four-check
// validation applies to term metavariables via ValidateAndAssignM.
func (f *Facade) UpdateAssignmentU(u uint64, lvl term.Level) {
	f.state.AssignURef(u, lvl)
}

// UpdateAssignmentM is UpdateAssignmentU's term-level twin.
func (f *Facade) UpdateAssignmentM(m uint64, v term.Expr) {
	f.state.AssignMRef(m, v)
}

// Push records a snapshot of the current assignment state on the façade's
// internal stack.
func (f *Facade) Push() {
	f.snapshots = append(f.snapshots, f.state.SaveAssignment())
}

// Pop restores the most recently pushed snapshot, reverting any
// assignments made since. Pop and Commit must be called in LIFO order
// relative to Push.
func (f *Facade) Pop() {
	n := len(f.snapshots)
	if n == 0 {
		return
	}
	snap := f.snapshots[n-1]
	f.snapshots = f.snapshots[:n-1]
	f.state.RestoreAssignment(snap)
}

// Commit drops the most recently pushed snapshot without reverting,
// keeping whatever assignments were made since.
func (f *Facade) Commit() {
	n := len(f.snapshots)
	if n == 0 {
		return
	}
	f.snapshots = f.snapshots[:n-1]
}

// Scoped runs fn inside a fresh Push/Pop-or-Commit scope: if fn returns
// true the scope is committed, otherwise it is rolled back. This is the
// guard pattern used in place of a linear resource type.
func (f *Facade) Scoped(fn func() bool) bool {
	f.Push()
	ok := fn()
	if ok {
		f.Commit()
	} else {
		f.Pop()
	}
	return ok
}
