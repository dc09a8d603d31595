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
	"fmt"

	"github.com/blast-proof/blast/internal/core/term"
)

// Infer computes the type of e. It handles every leaf the core itself
// constructs during search (Sort, HRef, MRef, Const, App) fully; Lambda
// and Pi are only ever inferred on the external side before intros turns
// their binders into hrefs, so their cases are a conservative best
// effort rather than a fully dependent inferencer — the core never calls
// Infer on a term still containing a bound Var outside of that binder's
// own Domain/Body position.
func (f *Facade) Infer(e term.Expr) (term.Expr, error) {
	switch x := e.(type) {
	case *term.Sort:
		return &term.Sort{Level: &term.LSucc{Of: x.Level}}, nil
	case *term.HRef:
		t, ok := f.InferLocal(x.Index)
		if !ok {
			return nil, fmt.Errorf("typectx: unknown href %d", x.Index)
		}
		return t, nil
	case *term.MRef:
		t, ok := f.InferMetavar(x.Index)
		if !ok {
			return nil, fmt.Errorf("typectx: unknown mref %d", x.Index)
		}
		return f.inferApplied(t, x.Args)
	case *term.Const:
		if f.env == nil {
			return nil, fmt.Errorf("typectx: no environment to infer constant %q", x.Name)
		}
		t, ok := f.env.ConstType(x.Name, x.Levels)
		if !ok {
			return nil, fmt.Errorf("typectx: unknown constant %q", x.Name)
		}
		return t, nil
	case *term.App:
		fnType, err := f.Infer(x.Fn)
		if err != nil {
			return nil, err
		}
		return f.inferApplied(fnType, []term.Expr{x.Arg})
	case *term.Lambda:
		bodyType, err := f.Infer(x.Body)
		if err != nil {
			return nil, err
		}
		return &term.Pi{Name: x.Name, Domain: x.Domain, Body: bodyType, Info: x.Info}, nil
	case *term.Pi:
		return &term.Sort{Level: &term.LZero{}}, nil
	}
	return nil, fmt.Errorf("typectx: cannot infer type of %T", e)
}

// inferApplied infers the type of fnType applied successively to args,
// instantiating each Pi binder in turn.
func (f *Facade) inferApplied(fnType term.Expr, args []term.Expr) (term.Expr, error) {
	t := fnType
	for _, a := range args {
		whnfT := f.Whnf(t)
		pi, ok := whnfT.(*term.Pi)
		if !ok {
			return nil, fmt.Errorf("typectx: applying a non-function type %T", whnfT)
		}
		t = term.Instantiate(pi.Body, a)
	}
	return t, nil
}

// IsProp reports whether e's type is the impredicative sort, "Prop",
// modeled here as Sort{LZero}.
func (f *Facade) IsProp(e term.Expr) bool {
	t, err := f.Infer(e)
	if err != nil {
		return false
	}
	s, ok := f.Whnf(t).(*term.Sort)
	return ok && term.LevelEqual(f.resolveLevel(s.Level), &term.LZero{})
}
