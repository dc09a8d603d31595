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

// Package externalize implements the Externalizer: a compositional
// rewrite that turns a proof term in internal form (possibly still
// containing href/mref/uref) back into the caller's representation.
package externalize

import (
	"fmt"

	"github.com/blast-proof/blast/internal/core/state"
	"github.com/blast-proof/blast/internal/core/term"
)

// Externalizer produces caller-facing terms from internal proof terms.
type Externalizer struct{}

// New returns an Externalizer.
func New() *Externalizer { return &Externalizer{} }

// Run externalizes e against st: every assigned uref/mref is instantiated
// to a fixed point first, then every href is replaced by its recorded
// external local constant (inlining any definitional value), every
// remaining unassigned mref is reconstituted into the external
// metavariable application it came from, and every remaining unassigned
// uref into an external universe metavariable.
func (x *Externalizer) Run(st *state.State, e term.Expr) (term.Expr, error) {
	return x.externalize(st, st.InstantiateUrefsMrefs(e))
}

func (x *Externalizer) externalize(st *state.State, e term.Expr) (term.Expr, error) {
	switch v := e.(type) {
	case *term.Var:
		return v, nil
	case *term.Sort:
		return &term.Sort{Level: x.externalizeLevel(v.Level)}, nil
	case *term.Const:
		levels := make([]term.Level, len(v.Levels))
		for i, l := range v.Levels {
			levels[i] = x.externalizeLevel(l)
		}
		return &term.Const{Name: v.Name, Levels: levels}, nil
	case *term.App:
		fn, err := x.externalize(st, v.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := x.externalize(st, v.Arg)
		if err != nil {
			return nil, err
		}
		return &term.App{Fn: fn, Arg: arg}, nil
	case *term.Lambda:
		domain, err := x.externalize(st, v.Domain)
		if err != nil {
			return nil, err
		}
		body, err := x.externalize(st, v.Body)
		if err != nil {
			return nil, err
		}
		return &term.Lambda{Name: v.Name, Domain: domain, Body: body, Info: v.Info}, nil
	case *term.Pi:
		domain, err := x.externalize(st, v.Domain)
		if err != nil {
			return nil, err
		}
		body, err := x.externalize(st, v.Body)
		if err != nil {
			return nil, err
		}
		return &term.Pi{Name: v.Name, Domain: domain, Body: body, Info: v.Info}, nil
	case *term.Macro:
		args, err := x.externalizeAll(st, v.Args)
		if err != nil {
			return nil, err
		}
		return &term.Macro{Name: v.Name, Args: args}, nil
	case *term.LocalConst, *term.MetaApp:
		// Already-external leaves pass through unchanged; a well-formed
		// proof term never contains them, but externalizing a term that
		// was never internalized (e.g. in tests) should be harmless.
		return v, nil
	case *term.HRef:
		return x.externalizeHRef(st, v)
	case *term.MRef:
		return x.externalizeMRef(st, v)
	}
	return e, nil
}

func (x *Externalizer) externalizeAll(st *state.State, args []term.Expr) ([]term.Expr, error) {
	if len(args) == 0 {
		return args, nil
	}
	out := make([]term.Expr, len(args))
	for i, a := range args {
		v, err := x.externalize(st, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (x *Externalizer) externalizeHRef(st *state.State, h *term.HRef) (term.Expr, error) {
	hyp, ok := st.GetHypothesis(h.Index)
	if !ok {
		return nil, fmt.Errorf("externalize: href %d has no recorded hypothesis", h.Index)
	}
	if hyp.Value != nil {
		return x.externalize(st, hyp.Value)
	}
	if hyp.Source != nil {
		return hyp.Source, nil
	}
	// A hypothesis introduced during search (e.g. by intros) and never
	// abstracted away before reaching the externalizer: synthesize a local
	// constant from its own identity so the caller still gets something it
	// can bind, rather than failing outright.
	typ, err := x.externalize(st, hyp.Type)
	if err != nil {
		return nil, err
	}
	return &term.LocalConst{ID: h.Index, Name: hyp.Name, Type: typ}, nil
}

func (x *Externalizer) externalizeMRef(st *state.State, m *term.MRef) (term.Expr, error) {
	n := 0
	var declType term.Expr
	if decl, ok := st.GetMetaDecl(m.Index); ok {
		n = len(decl.ContextOrd)
		declType = decl.Type
	}
	if n > len(m.Args) {
		n = len(m.Args)
	}
	ctxArgs, extra := m.Args[:n], m.Args[n:]

	metaArgs, err := x.externalizeAll(st, ctxArgs)
	if err != nil {
		return nil, err
	}
	var typ term.Expr
	if declType != nil {
		typ, err = x.externalize(st, declType)
		if err != nil {
			return nil, err
		}
	}

	id, name := m.Index, fmt.Sprintf("m%d", m.Index)
	if origin, ok := st.GetMetaOrigin(m.Index); ok {
		id, name = origin.ExternalID, origin.Name
	}

	var result term.Expr = &term.MetaApp{ID: id, Name: name, Type: typ, Args: metaArgs}
	for _, a := range extra {
		av, err := x.externalize(st, a)
		if err != nil {
			return nil, err
		}
		result = &term.App{Fn: result, Arg: av}
	}
	return result, nil
}

func (x *Externalizer) externalizeLevel(l term.Level) term.Level {
	switch v := l.(type) {
	case *term.LZero, *term.LParam, *term.LGlobal, *term.LMeta:
		return v
	case *term.LSucc:
		return &term.LSucc{Of: x.externalizeLevel(v.Of)}
	case *term.LMax:
		return &term.LMax{A: x.externalizeLevel(v.A), B: x.externalizeLevel(v.B)}
	case *term.LIMax:
		return &term.LIMax{A: x.externalizeLevel(v.A), B: x.externalizeLevel(v.B)}
	case *term.URef:
		return &term.LMeta{ID: v.Index}
	}
	return l
}
