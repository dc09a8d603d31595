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

// Lift shifts every bound variable in e with index >= cutoff up by amount.
// It is the standard de Bruijn re-indexing operation needed whenever a term
// is relocated under additional binders.
func Lift(e Expr, amount, cutoff uint64) Expr {
	if amount == 0 {
		return e
	}
	switch x := e.(type) {
	case *Var:
		if x.Index >= cutoff {
			return &Var{Index: x.Index + amount}
		}
		return x
	case *Sort, *Const, *LocalConst:
		return x
	case *App:
		return &App{Fn: Lift(x.Fn, amount, cutoff), Arg: Lift(x.Arg, amount, cutoff)}
	case *Lambda:
		return &Lambda{Name: x.Name, Domain: Lift(x.Domain, amount, cutoff), Body: Lift(x.Body, amount, cutoff+1), Info: x.Info}
	case *Pi:
		return &Pi{Name: x.Name, Domain: Lift(x.Domain, amount, cutoff), Body: Lift(x.Body, amount, cutoff+1), Info: x.Info}
	case *Macro:
		return &Macro{Name: x.Name, Args: liftAll(x.Args, amount, cutoff)}
	case *MetaApp:
		return &MetaApp{ID: x.ID, Name: x.Name, Args: liftAll(x.Args, amount, cutoff)}
	case *HRef:
		return x
	case *MRef:
		return &MRef{Index: x.Index, Args: liftAll(x.Args, amount, cutoff)}
	}
	return e
}

func liftAll(args []Expr, amount, cutoff uint64) []Expr {
	if len(args) == 0 {
		return args
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = Lift(a, amount, cutoff)
	}
	return out
}

// Instantiate substitutes value for the outermost bound variable (Var{0})
// in body, decrementing every other free Var by one. value's own free
// variables are lifted to account for the binder depth at which each
// occurrence is found.
func Instantiate(body, value Expr) Expr {
	return instantiateAt(body, 0, value)
}

func instantiateAt(e Expr, depth uint64, value Expr) Expr {
	switch x := e.(type) {
	case *Var:
		switch {
		case x.Index == depth:
			return Lift(value, depth, 0)
		case x.Index > depth:
			return &Var{Index: x.Index - 1}
		default:
			return x
		}
	case *Sort, *Const, *LocalConst:
		return x
	case *App:
		return &App{Fn: instantiateAt(x.Fn, depth, value), Arg: instantiateAt(x.Arg, depth, value)}
	case *Lambda:
		return &Lambda{Name: x.Name, Domain: instantiateAt(x.Domain, depth, value), Body: instantiateAt(x.Body, depth+1, value), Info: x.Info}
	case *Pi:
		return &Pi{Name: x.Name, Domain: instantiateAt(x.Domain, depth, value), Body: instantiateAt(x.Body, depth+1, value), Info: x.Info}
	case *Macro:
		return &Macro{Name: x.Name, Args: instantiateAllAt(x.Args, depth, value)}
	case *MetaApp:
		return &MetaApp{ID: x.ID, Name: x.Name, Args: instantiateAllAt(x.Args, depth, value)}
	case *HRef:
		return x
	case *MRef:
		return &MRef{Index: x.Index, Args: instantiateAllAt(x.Args, depth, value)}
	}
	return e
}

func instantiateAllAt(args []Expr, depth uint64, value Expr) []Expr {
	if len(args) == 0 {
		return args
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = instantiateAt(a, depth, value)
	}
	return out
}

// AbstractHRef replaces every occurrence of HRef{href} in e with a bound
// variable pointing at a new, outermost binder, shifting every existing
// bound variable up by one to make room for it. It is the inverse of
// Instantiate and is used by the introduction action's proof step to
// re-abstract a subproof over the hypothesis it introduced.
func AbstractHRef(e Expr, href uint64) Expr {
	return abstractAt(e, href, 0)
}

func abstractAt(e Expr, href uint64, depth uint64) Expr {
	switch x := e.(type) {
	case *Var:
		if x.Index >= depth {
			return &Var{Index: x.Index + 1}
		}
		return x
	case *Sort, *Const, *LocalConst:
		return x
	case *HRef:
		if x.Index == href {
			return &Var{Index: depth}
		}
		return x
	case *App:
		return &App{Fn: abstractAt(x.Fn, href, depth), Arg: abstractAt(x.Arg, href, depth)}
	case *Lambda:
		return &Lambda{Name: x.Name, Domain: abstractAt(x.Domain, href, depth), Body: abstractAt(x.Body, href, depth+1), Info: x.Info}
	case *Pi:
		return &Pi{Name: x.Name, Domain: abstractAt(x.Domain, href, depth), Body: abstractAt(x.Body, href, depth+1), Info: x.Info}
	case *Macro:
		return &Macro{Name: x.Name, Args: abstractAllAt(x.Args, href, depth)}
	case *MetaApp:
		return &MetaApp{ID: x.ID, Name: x.Name, Args: abstractAllAt(x.Args, href, depth)}
	case *MRef:
		return &MRef{Index: x.Index, Args: abstractAllAt(x.Args, href, depth)}
	}
	return e
}

func abstractAllAt(args []Expr, href uint64, depth uint64) []Expr {
	if len(args) == 0 {
		return args
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = abstractAt(a, href, depth)
	}
	return out
}

// SubstHRefs replaces every HRef whose index has an entry in repl with the
// corresponding expression, lifting each replacement to account for the
// binder depth at which it is substituted. HRefs with no entry in repl are
// left untouched. This is the workhorse behind both metavariable-context
// instantiation (replacing the context prefix of an mref's admissible
// hypotheses with its actual arguments) and externalization (replacing
// hrefs by their original local constants or let-values).
func SubstHRefs(e Expr, repl map[uint64]Expr) Expr {
	if len(repl) == 0 {
		return e
	}
	return substHRefsAt(e, repl, 0)
}

func substHRefsAt(e Expr, repl map[uint64]Expr, depth uint64) Expr {
	switch x := e.(type) {
	case *Var, *Sort, *Const, *LocalConst:
		return x
	case *HRef:
		if v, ok := repl[x.Index]; ok {
			return Lift(v, depth, 0)
		}
		return x
	case *App:
		return &App{Fn: substHRefsAt(x.Fn, repl, depth), Arg: substHRefsAt(x.Arg, repl, depth)}
	case *Lambda:
		return &Lambda{Name: x.Name, Domain: substHRefsAt(x.Domain, repl, depth), Body: substHRefsAt(x.Body, repl, depth+1), Info: x.Info}
	case *Pi:
		return &Pi{Name: x.Name, Domain: substHRefsAt(x.Domain, repl, depth), Body: substHRefsAt(x.Body, repl, depth+1), Info: x.Info}
	case *Macro:
		return &Macro{Name: x.Name, Args: substHRefsAllAt(x.Args, repl, depth)}
	case *MetaApp:
		return &MetaApp{ID: x.ID, Name: x.Name, Args: substHRefsAllAt(x.Args, repl, depth)}
	case *MRef:
		return &MRef{Index: x.Index, Args: substHRefsAllAt(x.Args, repl, depth)}
	}
	return e
}

func substHRefsAllAt(args []Expr, repl map[uint64]Expr, depth uint64) []Expr {
	if len(args) == 0 {
		return args
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = substHRefsAt(a, repl, depth)
	}
	return out
}

// SubstURefs replaces every URef with an entry in repl by the corresponding
// level. Levels carry no binders, so no lifting is required.
func SubstURefs(l Level, repl map[uint64]Level) Level {
	if len(repl) == 0 {
		return l
	}
	switch x := l.(type) {
	case *LZero, *LParam, *LGlobal, *LMeta:
		return x
	case *LSucc:
		return &LSucc{Of: SubstURefs(x.Of, repl)}
	case *LMax:
		return &LMax{A: SubstURefs(x.A, repl), B: SubstURefs(x.B, repl)}
	case *LIMax:
		return &LIMax{A: SubstURefs(x.A, repl), B: SubstURefs(x.B, repl)}
	case *URef:
		if v, ok := repl[x.Index]; ok {
			return v
		}
		return x
	}
	return l
}

// SubstLevelsInExpr applies SubstURefs to every Level occurring in e's
// Sort and Const nodes, leaving hrefs/mrefs untouched.
func SubstLevelsInExpr(e Expr, repl map[uint64]Level) Expr {
	if len(repl) == 0 {
		return e
	}
	switch x := e.(type) {
	case *Var, *LocalConst:
		return x
	case *Sort:
		return &Sort{Level: SubstURefs(x.Level, repl)}
	case *Const:
		levels := make([]Level, len(x.Levels))
		for i, l := range x.Levels {
			levels[i] = SubstURefs(l, repl)
		}
		return &Const{Name: x.Name, Levels: levels}
	case *App:
		return &App{Fn: SubstLevelsInExpr(x.Fn, repl), Arg: SubstLevelsInExpr(x.Arg, repl)}
	case *Lambda:
		return &Lambda{Name: x.Name, Domain: SubstLevelsInExpr(x.Domain, repl), Body: SubstLevelsInExpr(x.Body, repl), Info: x.Info}
	case *Pi:
		return &Pi{Name: x.Name, Domain: SubstLevelsInExpr(x.Domain, repl), Body: SubstLevelsInExpr(x.Body, repl), Info: x.Info}
	case *Macro:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = SubstLevelsInExpr(a, repl)
		}
		return &Macro{Name: x.Name, Args: args}
	case *MetaApp:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = SubstLevelsInExpr(a, repl)
		}
		var typ Expr
		if x.Type != nil {
			typ = SubstLevelsInExpr(x.Type, repl)
		}
		return &MetaApp{ID: x.ID, Name: x.Name, Type: typ, Args: args}
	case *HRef:
		return x
	case *MRef:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = SubstLevelsInExpr(a, repl)
		}
		return &MRef{Index: x.Index, Args: args}
	}
	return e
}

// Apply builds a left-associated application of fn to args. Exported for
// use by components that reconstruct applications outside this package
// (the mkApp helper in term.go is its unexported twin used internally).
func Apply(fn Expr, args []Expr) Expr {
	return mkApp(fn, args)
}
