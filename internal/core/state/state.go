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

// Package state implements the mutable core of a single proof search: the
// hypothesis table, the metavariable declaration table, the universe- and
// term-metavariable assignments, the current target, and the proof-step
// stack. It supports cheap value-semantic cloning for choice points and
// append-only assignment logs for checkpoint/rollback.
package state

import (
	"fmt"
	"sort"

	"github.com/blast-proof/blast/internal/core/term"
)

// Hypothesis is a declaration in the goal's local context: a pretty name,
// a type, an optional definitional value (for introduced let-like
// hypotheses), and the original external local constant retained for
// externalization.
type Hypothesis struct {
	Index  uint64
	Name   string
	Type   term.Expr
	Value  term.Expr // nil if this hypothesis has no definitional value
	Source *term.LocalConst
}

// MetaDecl is a term metavariable declaration: its type and its ordered
// admissible context (the hrefs a value assigned to it may mention). The
// order matters: it is positional with the leading arguments of any
// application of this metavariable.
type MetaDecl struct {
	Index       uint64
	Type        term.Expr
	ContextOrd  []uint64
	contextSet  map[uint64]bool
}

// InContext reports whether href is in m's admissible context.
func (m *MetaDecl) InContext(href uint64) bool {
	return m.contextSet[href]
}

// MetaOrigin records the external identity a metavariable was allocated
// from, so the Externalizer can reconstitute an unassigned mref back into
// the caller's own metavariable application rather than inventing a new
// one: reconstitute the original external metavariable application.
type MetaOrigin struct {
	ExternalID uint64
	Name       string
}

// Snapshot is an opaque token recording the sizes of the assignment logs
// at the moment it was taken, so SaveAssignment/RestoreAssignment can
// truncate back to it in O(1) extra bookkeeping.
type Snapshot struct {
	uLen, mLen int
}

// State owns all goal-local data for one proof search.
type State struct {
	hyps  []*Hypothesis
	metas []*MetaDecl

	// Assignment maps plus append-only logs of the keys assigned, in
	// order, so that RestoreAssignment can shrink both the map and the
	// log back to a recorded size without ever mutating an entry
	// in place ahead of a rollback.
	uMap map[uint64]term.Level
	uLog []uint64
	mMap map[uint64]term.Expr
	mLog []uint64

	target term.Expr

	proofSteps []ProofStep

	active map[uint64]bool // hrefs exposed to the search so far

	// localToHRef records, for every external local constant seen
	// during internalization, the href it was rewritten to. It backs
	// the "every free external local constant is in the provided local
	// scope" assignment check.
	localToHRef map[uint64]uint64

	// metaOrigin records, for every mref allocated while internalizing an
	// external metavariable application, the caller's own identity for
	// it. Mrefs allocated for any other reason (none yet in this engine)
	// have no entry.
	metaOrigin map[uint64]*MetaOrigin

	nextHRef uint64
	nextURef uint64
}

// New returns an empty State.
func New() *State {
	return &State{
		uMap:        map[uint64]term.Level{},
		mMap:        map[uint64]term.Expr{},
		active:      map[uint64]bool{},
		localToHRef: map[uint64]uint64{},
		metaOrigin:  map[uint64]*MetaOrigin{},
	}
}

// RecordMetaOrigin associates mref with the external metavariable identity
// it was internalized from.
func (s *State) RecordMetaOrigin(mref, externalID uint64, name string) {
	s.metaOrigin[mref] = &MetaOrigin{ExternalID: externalID, Name: name}
}

// GetMetaOrigin looks up the external identity a mref was internalized
// from, if any.
func (s *State) GetMetaOrigin(mref uint64) (*MetaOrigin, bool) {
	o, ok := s.metaOrigin[mref]
	return o, ok
}

// MkHypothesis appends a hypothesis and returns its stable index.
func (s *State) MkHypothesis(name string, typ term.Expr, source *term.LocalConst) uint64 {
	href := s.nextHRef
	s.nextHRef++
	s.hyps = append(s.hyps, &Hypothesis{Index: href, Name: name, Type: typ, Source: source})
	if source != nil {
		s.localToHRef[source.ID] = href
	}
	return href
}

// MkLetHypothesis is like MkHypothesis but also records a definitional
// value, as introduced by let-like bindings.
func (s *State) MkLetHypothesis(name string, typ, value term.Expr, source *term.LocalConst) uint64 {
	href := s.MkHypothesis(name, typ, source)
	s.hyps[len(s.hyps)-1].Value = value
	return href
}

// MkURef allocates a fresh universe metavariable reference.
func (s *State) MkURef() uint64 {
	u := s.nextURef
	s.nextURef++
	return u
}

// MkMetavar allocates a metavariable. If ctx is nil, the admissible
// context defaults to the current full hypothesis set.
func (s *State) MkMetavar(ctx []uint64, typ term.Expr) uint64 {
	if ctx == nil {
		ctx = make([]uint64, len(s.hyps))
		for i, h := range s.hyps {
			ctx[i] = h.Index
		}
	}
	m := uint64(len(s.metas))
	set := make(map[uint64]bool, len(ctx))
	for _, h := range ctx {
		set[h] = true
	}
	s.metas = append(s.metas, &MetaDecl{Index: m, Type: typ, ContextOrd: ctx, contextSet: set})
	return m
}

// Hypotheses returns the hypothesis table in insertion order. Callers must
// not mutate the returned slice.
func (s *State) Hypotheses() []*Hypothesis { return s.hyps }

// GetHypothesis looks up a hypothesis by its href.
func (s *State) GetHypothesis(href uint64) (*Hypothesis, bool) {
	for _, h := range s.hyps {
		if h.Index == href {
			return h, true
		}
	}
	return nil, false
}

// GetMetaDecl looks up a metavariable declaration by its mref.
func (s *State) GetMetaDecl(mref uint64) (*MetaDecl, bool) {
	if mref >= uint64(len(s.metas)) {
		return nil, false
	}
	return s.metas[mref], true
}

// LocalToHRef looks up the href an external local constant was rewritten
// to during internalization.
func (s *State) LocalToHRef(id uint64) (uint64, bool) {
	href, ok := s.localToHRef[id]
	return href, ok
}

// KnownLocalIDs returns the set of external local-constant IDs that were
// mapped into this State during internalization; it is the "provided
// local scope" referenced by assignment validation.
func (s *State) KnownLocalIDs() map[uint64]bool {
	out := make(map[uint64]bool, len(s.localToHRef))
	for id := range s.localToHRef {
		out[id] = true
	}
	return out
}

// SetTarget replaces the current goal target.
func (s *State) SetTarget(e term.Expr) { s.target = e }

// GetTarget returns the current goal target.
func (s *State) GetTarget() term.Expr { return s.target }

// AssignURef records u ↦ lvl. Callers (the type-context façade) must have
// already run validate_assignment; State trusts its caller.
func (s *State) AssignURef(u uint64, lvl term.Level) {
	s.uMap[u] = lvl
	s.uLog = append(s.uLog, u)
}

// AssignMRef records m ↦ v.
func (s *State) AssignMRef(m uint64, v term.Expr) {
	s.mMap[m] = v
	s.mLog = append(s.mLog, m)
}

// GetURefAssignment looks up the current assignment of a universe
// metavariable, if any.
func (s *State) GetURefAssignment(u uint64) (term.Level, bool) {
	l, ok := s.uMap[u]
	return l, ok
}

// GetMRefAssignment looks up the current assignment of a term
// metavariable, if any.
func (s *State) GetMRefAssignment(m uint64) (term.Expr, bool) {
	v, ok := s.mMap[m]
	return v, ok
}

// SaveAssignment checkpoints the current assignment logs.
func (s *State) SaveAssignment() Snapshot {
	return Snapshot{uLen: len(s.uLog), mLen: len(s.mLog)}
}

// RestoreAssignment rolls back every assignment made since snap was taken.
func (s *State) RestoreAssignment(snap Snapshot) {
	for len(s.uLog) > snap.uLen {
		last := s.uLog[len(s.uLog)-1]
		s.uLog = s.uLog[:len(s.uLog)-1]
		delete(s.uMap, last)
	}
	for len(s.mLog) > snap.mLen {
		last := s.mLog[len(s.mLog)-1]
		s.mLog = s.mLog[:len(s.mLog)-1]
		delete(s.mMap, last)
	}
}

// RestrictMrefContextUsing narrows m' admissible context to the
// intersection of its own context and m's context. It fails (returns an
// error) if doing so would invalidate an existing assignment of m' (i.e.
// that assignment mentions an href no longer in the narrowed context).
func (s *State) RestrictMrefContextUsing(mPrime, m uint64) error {
	declP, ok := s.GetMetaDecl(mPrime)
	if !ok {
		return fmt.Errorf("state: unknown mref %d", mPrime)
	}
	declM, ok := s.GetMetaDecl(m)
	if !ok {
		return fmt.Errorf("state: unknown mref %d", m)
	}
	newOrd := make([]uint64, 0, len(declP.ContextOrd))
	newSet := make(map[uint64]bool, len(declP.ContextOrd))
	for _, h := range declP.ContextOrd {
		if declM.contextSet[h] {
			newOrd = append(newOrd, h)
			newSet[h] = true
		}
	}
	if v, assigned := s.GetMRefAssignment(mPrime); assigned {
		used := map[uint64]bool{}
		term.FreeHRefs(v, used)
		for h := range used {
			if !newSet[h] {
				return fmt.Errorf("state: restricting mref %d would invalidate its existing assignment (href %d)", mPrime, h)
			}
		}
	}
	declP.ContextOrd = newOrd
	declP.contextSet = newSet
	return nil
}

// ActivateHypothesis picks the next inactive hypothesis to expose to the
// search: the lowest-index inactive hypothesis whose type references no
// still-inactive hypothesis. Returns false if none qualifies (either all
// hypotheses are active, or every remaining one is blocked — which cannot
// happen for a well-formed goal since hypothesis types only ever refer to
// earlier hypotheses).
func (s *State) ActivateHypothesis() (uint64, bool) {
	sorted := make([]*Hypothesis, 0, len(s.hyps))
	for _, h := range s.hyps {
		if !s.active[h.Index] {
			sorted = append(sorted, h)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	for _, h := range sorted {
		refs := map[uint64]bool{}
		term.FreeHRefs(h.Type, refs)
		blocked := false
		for r := range refs {
			if !s.active[r] && r != h.Index {
				if _, ok := s.GetHypothesis(r); ok {
					blocked = true
					break
				}
			}
		}
		if !blocked {
			s.active[h.Index] = true
			return h.Index, true
		}
	}
	return 0, false
}

// IsActive reports whether href has already been activated.
func (s *State) IsActive(href uint64) bool { return s.active[href] }

// ActiveHypotheses returns the currently active hypotheses, in insertion
// order.
func (s *State) ActiveHypotheses() []*Hypothesis {
	out := make([]*Hypothesis, 0, len(s.active))
	for _, h := range s.hyps {
		if s.active[h.Index] {
			out = append(out, h)
		}
	}
	return out
}

// PushProofStep pushes a new proof step, deepening the current search by
// one: GetProofDepth tracks the stack length.
func (s *State) PushProofStep(p ProofStep) { s.proofSteps = append(s.proofSteps, p) }

// TopProofStep returns the innermost proof step without removing it.
func (s *State) TopProofStep() ProofStep {
	if len(s.proofSteps) == 0 {
		return nil
	}
	return s.proofSteps[len(s.proofSteps)-1]
}

// PopProofStep removes and returns the innermost proof step.
func (s *State) PopProofStep() ProofStep {
	p := s.TopProofStep()
	if p != nil {
		s.proofSteps = s.proofSteps[:len(s.proofSteps)-1]
	}
	return p
}

// HasProofSteps reports whether any subgoal remains open.
func (s *State) HasProofSteps() bool { return len(s.proofSteps) > 0 }

// GetProofDepth is the current proof depth: the number of open proof
// steps.
func (s *State) GetProofDepth() uint64 { return uint64(len(s.proofSteps)) }

// InstantiateUrefsMrefs recursively substitutes every assigned
// metavariable and universe metavariable throughout e.
func (s *State) InstantiateUrefsMrefs(e term.Expr) term.Expr {
	e = term.SubstLevelsInExpr(e, s.uMap)
	return s.instMrefs(e)
}

func (s *State) instMrefs(e term.Expr) term.Expr {
	switch x := e.(type) {
	case *term.Var, *term.Sort, *term.Const, *term.LocalConst, *term.HRef:
		return x
	case *term.App:
		return &term.App{Fn: s.instMrefs(x.Fn), Arg: s.instMrefs(x.Arg)}
	case *term.Lambda:
		return &term.Lambda{Name: x.Name, Domain: s.instMrefs(x.Domain), Body: s.instMrefs(x.Body), Info: x.Info}
	case *term.Pi:
		return &term.Pi{Name: x.Name, Domain: s.instMrefs(x.Domain), Body: s.instMrefs(x.Body), Info: x.Info}
	case *term.Macro:
		return &term.Macro{Name: x.Name, Args: s.instMrefsAll(x.Args)}
	case *term.MetaApp:
		var typ term.Expr
		if x.Type != nil {
			typ = s.instMrefs(x.Type)
		}
		return &term.MetaApp{ID: x.ID, Name: x.Name, Type: typ, Args: s.instMrefsAll(x.Args)}
	case *term.MRef:
		args := s.instMrefsAll(x.Args)
		v, ok := s.GetMRefAssignment(x.Index)
		if !ok {
			return &term.MRef{Index: x.Index, Args: args}
		}
		v = term.SubstLevelsInExpr(v, s.uMap)
		return s.instMrefs(s.SubstituteMetaContext(x.Index, v, args))
	}
	return e
}

func (s *State) instMrefsAll(args []term.Expr) []term.Expr {
	if len(args) == 0 {
		return args
	}
	out := make([]term.Expr, len(args))
	for i, a := range args {
		out[i] = s.instMrefs(a)
	}
	return out
}

// SubstituteMetaContext substitutes value's free hrefs by the leading
// args positionally, per mref's declared admissible context order, and
// applies any remaining args on top. It is the shared core of
// InstantiateUrefsMrefs's mref-unfolding step and the type-context
// façade's whnf.
func (s *State) SubstituteMetaContext(mref uint64, value term.Expr, args []term.Expr) term.Expr {
	decl, ok := s.GetMetaDecl(mref)
	if !ok {
		return term.Apply(value, args)
	}
	n := len(decl.ContextOrd)
	if n > len(args) {
		n = len(args)
	}
	repl := make(map[uint64]term.Expr, n)
	for i := 0; i < n; i++ {
		repl[decl.ContextOrd[i]] = args[i]
	}
	substituted := term.SubstHRefs(value, repl)
	return term.Apply(substituted, args[n:])
}

// CheckInvariant performs debug-only sanity checks: every recorded mref
// assignment must still respect its declared context, the
// occurs-check, and monotonic narrowing of any nested mref's context.
func (s *State) CheckInvariant() error {
	for m, v := range s.mMap {
		decl, ok := s.GetMetaDecl(m)
		if !ok {
			return fmt.Errorf("state: assignment to unknown mref %d", m)
		}
		if term.OccursMRef(m, v) {
			return fmt.Errorf("state: mref %d occurs in its own assignment", m)
		}
		used := map[uint64]bool{}
		term.FreeHRefs(v, used)
		for h := range used {
			if !decl.InContext(h) {
				return fmt.Errorf("state: mref %d assignment uses href %d outside its admissible context", m, h)
			}
		}
		nested := map[uint64]bool{}
		term.FreeMRefs(v, nested)
		for mp := range nested {
			declP, ok := s.GetMetaDecl(mp)
			if !ok {
				continue
			}
			for _, h := range declP.ContextOrd {
				if !decl.InContext(h) {
					return fmt.Errorf("state: nested mref %d context not a subset of mref %d's context (href %d escapes)", mp, m, h)
				}
			}
		}
	}
	return nil
}

// Clone returns a deep, value-semantic copy of s suitable for capture as a
// choice point: mutating the clone never affects s, and vice versa.
func (s *State) Clone() *State {
	c := &State{
		hyps:        make([]*Hypothesis, len(s.hyps)),
		metas:       make([]*MetaDecl, len(s.metas)),
		uMap:        make(map[uint64]term.Level, len(s.uMap)),
		uLog:        append([]uint64(nil), s.uLog...),
		mMap:        make(map[uint64]term.Expr, len(s.mMap)),
		mLog:        append([]uint64(nil), s.mLog...),
		target:      s.target,
		proofSteps:  append([]ProofStep(nil), s.proofSteps...),
		active:      make(map[uint64]bool, len(s.active)),
		localToHRef: make(map[uint64]uint64, len(s.localToHRef)),
		metaOrigin:  make(map[uint64]*MetaOrigin, len(s.metaOrigin)),
		nextHRef:    s.nextHRef,
		nextURef:    s.nextURef,
	}
	copy(c.hyps, s.hyps) // Hypothesis values are immutable post-creation.
	for i, m := range s.metas {
		c.metas[i] = &MetaDecl{
			Index:      m.Index,
			Type:       m.Type,
			ContextOrd: append([]uint64(nil), m.ContextOrd...),
			contextSet: copyBoolMap(m.contextSet),
		}
	}
	for k, v := range s.uMap {
		c.uMap[k] = v
	}
	for k, v := range s.mMap {
		c.mMap[k] = v
	}
	for k, v := range s.active {
		c.active[k] = v
	}
	for k, v := range s.localToHRef {
		c.localToHRef[k] = v
	}
	for k, v := range s.metaOrigin {
		c.metaOrigin[k] = v
	}
	return c
}

func copyBoolMap(m map[uint64]bool) map[uint64]bool {
	out := make(map[uint64]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
