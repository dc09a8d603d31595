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

// Package internalize implements the Internalizer: it turns an
// externally-supplied goal into a State, rewriting every local
// constant to a fresh href, every universe metavariable to a fresh uref,
// and every metavariable application to an mref application that obeys
// the higher-order-pattern restriction.
package internalize

import (
	"github.com/blast-proof/blast/internal/core/ambient"
	"github.com/blast-proof/blast/internal/core/blasterr"
	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
)

// ExternalHypothesis is one entry of an external goal's local context: a
// local constant and its type, as supplied by the caller.
type ExternalHypothesis struct {
	Local *term.LocalConst
	Type  term.Expr
}

// ExternalGoal is a hypothesis context plus a target proposition, in the
// caller's (pre-internalization) representation.
type ExternalGoal struct {
	Hyps   []ExternalHypothesis
	Target term.Expr
}

// metaRecord remembers the prefix a metavariable was first seen applied
// to, so a later occurrence can be checked for a positional match.
type metaRecord struct {
	mref     uint64
	localIDs []uint64
}

// Internalizer converts external goals to States. It is stateless between
// calls to Run; each call starts from a fresh private map.
type Internalizer struct {
	Env ambient.Environment
}

// New returns an Internalizer that normalizes against env.
func New(env ambient.Environment) *Internalizer {
	return &Internalizer{Env: env}
}

type run struct {
	env      ambient.Environment
	st       *state.State
	priv     map[uint64]uint64 // external local ID -> href
	uMemo    map[uint64]uint64 // external LMeta ID -> uref
	metaMemo map[uint64]*metaRecord
}

// Run produces a fresh State from goal.
func (in *Internalizer) Run(goal ExternalGoal) (*state.State, error) {
	r := &run{
		env:      in.Env,
		st:       state.New(),
		priv:     map[uint64]uint64{},
		uMemo:    map[uint64]uint64{},
		metaMemo: map[uint64]*metaRecord{},
	}

	for _, h := range goal.Hyps {
		normalized := r.normalize(h.Type)
		rewritten, err := r.rewrite(normalized)
		if err != nil {
			return nil, err
		}
		name := ""
		if h.Local != nil {
			name = h.Local.Name
		}
		href := r.st.MkHypothesis(name, rewritten, h.Local)
		if h.Local != nil {
			r.priv[h.Local.ID] = href
		}
	}

	normTarget := r.normalize(goal.Target)
	target, err := r.rewrite(normTarget)
	if err != nil {
		return nil, err
	}
	r.st.SetTarget(target)

	return r.st, nil
}

func (r *run) normalize(e term.Expr) term.Expr {
	if r.env == nil {
		return e
	}
	return r.env.WhnfReducibleOnly(e)
}

func (r *run) rewriteLevel(l term.Level) term.Level {
	switch x := l.(type) {
	case *term.LZero, *term.LParam, *term.LGlobal, *term.URef:
		return x
	case *term.LSucc:
		return &term.LSucc{Of: r.rewriteLevel(x.Of)}
	case *term.LMax:
		return &term.LMax{A: r.rewriteLevel(x.A), B: r.rewriteLevel(x.B)}
	case *term.LIMax:
		return &term.LIMax{A: r.rewriteLevel(x.A), B: r.rewriteLevel(x.B)}
	case *term.LMeta:
		if u, ok := r.uMemo[x.ID]; ok {
			return &term.URef{Index: u}
		}
		u := r.st.MkURef()
		r.uMemo[x.ID] = u
		return &term.URef{Index: u}
	}
	return l
}

func (r *run) rewriteLevels(ls []term.Level) []term.Level {
	if len(ls) == 0 {
		return ls
	}
	out := make([]term.Level, len(ls))
	for i, l := range ls {
		out[i] = r.rewriteLevel(l)
	}
	return out
}

func (r *run) rewrite(e term.Expr) (term.Expr, error) {
	switch x := e.(type) {
	case *term.Var:
		return x, nil
	case *term.Sort:
		return &term.Sort{Level: r.rewriteLevel(x.Level)}, nil
	case *term.Const:
		return &term.Const{Name: x.Name, Levels: r.rewriteLevels(x.Levels)}, nil
	case *term.App:
		fn, err := r.rewrite(x.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := r.rewrite(x.Arg)
		if err != nil {
			return nil, err
		}
		if mref, ok := fn.(*term.MRef); ok {
			args := make([]term.Expr, len(mref.Args)+1)
			copy(args, mref.Args)
			args[len(mref.Args)] = arg
			return &term.MRef{Index: mref.Index, Args: args}, nil
		}
		return &term.App{Fn: fn, Arg: arg}, nil
	case *term.Lambda:
		domain, err := r.rewrite(x.Domain)
		if err != nil {
			return nil, err
		}
		body, err := r.rewrite(x.Body)
		if err != nil {
			return nil, err
		}
		return &term.Lambda{Name: x.Name, Domain: domain, Body: body, Info: x.Info}, nil
	case *term.Pi:
		domain, err := r.rewrite(x.Domain)
		if err != nil {
			return nil, err
		}
		body, err := r.rewrite(x.Body)
		if err != nil {
			return nil, err
		}
		return &term.Pi{Name: x.Name, Domain: domain, Body: body, Info: x.Info}, nil
	case *term.Macro:
		args, err := r.rewriteAll(x.Args)
		if err != nil {
			return nil, err
		}
		return &term.Macro{Name: x.Name, Args: args}, nil
	case *term.LocalConst:
		href, ok := r.priv[x.ID]
		if !ok {
			return nil, blasterr.IllFormedGoal(x.Name)
		}
		return &term.HRef{Index: href}, nil
	case *term.MetaApp:
		return r.rewriteMetaApp(x)
	case *term.HRef, *term.MRef:
		// Already-internal leaves are passed through unchanged; a
		// well-formed external goal never contains them, but
		// re-internalizing an already-internal term (e.g. in tests)
		// should be harmless.
		return x, nil
	}
	return e, nil
}

func (r *run) rewriteAll(args []term.Expr) ([]term.Expr, error) {
	if len(args) == 0 {
		return args, nil
	}
	out := make([]term.Expr, len(args))
	for i, a := range args {
		v, err := r.rewrite(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *run) rewriteMetaApp(x *term.MetaApp) (term.Expr, error) {
	localIDs := make([]uint64, len(x.Args))
	hrefs := make([]uint64, len(x.Args))
	seen := map[uint64]bool{}
	for i, a := range x.Args {
		lc, ok := a.(*term.LocalConst)
		if !ok {
			return nil, blasterr.UnsupportedMetavarOccurrence(x.Name, "argument is not a local constant")
		}
		href, ok := r.priv[lc.ID]
		if !ok {
			return nil, blasterr.UnsupportedMetavarOccurrence(x.Name, "argument local constant is not bound by any hypothesis")
		}
		if seen[lc.ID] {
			return nil, blasterr.UnsupportedMetavarOccurrence(x.Name, "argument local constants must be distinct")
		}
		seen[lc.ID] = true
		localIDs[i] = lc.ID
		hrefs[i] = href
	}

	hrefArgs := make([]term.Expr, len(hrefs))
	for i, h := range hrefs {
		hrefArgs[i] = &term.HRef{Index: h}
	}

	if rec, ok := r.metaMemo[x.ID]; ok {
		if len(rec.localIDs) != len(localIDs) {
			return nil, blasterr.UnsupportedMetavarOccurrence(x.Name, "reoccurrence has a different argument count than its first occurrence")
		}
		for i := range rec.localIDs {
			if rec.localIDs[i] != localIDs[i] {
				return nil, blasterr.UnsupportedMetavarOccurrence(x.Name, "reoccurrence does not match its first occurrence positionally")
			}
		}
		return &term.MRef{Index: rec.mref, Args: hrefArgs}, nil
	}

	typ := x.Type
	if typ == nil {
		typ = &term.Sort{Level: &term.LZero{}}
	}
	typ, err := r.rewrite(typ)
	if err != nil {
		return nil, err
	}
	mref := r.st.MkMetavar(hrefs, typ)
	r.st.RecordMetaOrigin(mref, x.ID, x.Name)
	r.metaMemo[x.ID] = &metaRecord{mref: mref, localIDs: localIDs}
	return &term.MRef{Index: mref, Args: hrefArgs}, nil
}
