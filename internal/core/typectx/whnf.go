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

import "github.com/blast-proof/blast/internal/core/term"

// spine decomposes e into its head and the (outer-to-inner) arguments
// applied to it via App nodes.
func spine(e term.Expr) (head term.Expr, args []term.Expr) {
	for {
		app, ok := e.(*term.App)
		if !ok {
			return e, args
		}
		args = append([]term.Expr{app.Arg}, args...)
		e = app.Fn
	}
}

// Whnf reduces e to weak head normal form: it beta-reduces lambda
// applications, unfolds assigned mrefs, and delta-unfolds constants that
// are not opaque (per IsOpaque).
func (f *Facade) Whnf(e term.Expr) term.Expr {
	for {
		head, args := spine(e)
		switch h := head.(type) {
		case *term.MRef:
			v, ok := f.state.GetMRefAssignment(h.Index)
			if !ok {
				return e
			}
			applied := f.state.SubstituteMetaContext(h.Index, v, h.Args)
			e = term.Apply(applied, args)
		case *term.Lambda:
			if len(args) == 0 {
				return e
			}
			e = term.Apply(term.Instantiate(h.Body, args[0]), args[1:])
		case *term.Const:
			if f.IsOpaque(h.Name) {
				return e
			}
			body, ok := f.env.Unfold(h.Name, h.Levels, args)
			if !ok {
				return e
			}
			e = body
		default:
			return e
		}
	}
}
