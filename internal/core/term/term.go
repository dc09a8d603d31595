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

// Package term defines the expression and universe-level representation
// shared by every component of the proof-search engine, including the
// three fresh reference leaves (href, mref, uref) that the internalizer
// introduces.
package term

// A Level is a universe level: the usual lattice of zero, successor,
// parameter, global, max and imax, extended with a reference to a
// universe metavariable (URef).
type Level interface {
	isLevel()
}

// LZero is the smallest universe level.
type LZero struct{}

// LSucc is the successor of a level.
type LSucc struct{ Of Level }

// LParam is a level parameter bound by an enclosing declaration.
type LParam struct{ Name string }

// LGlobal is a named global level constant.
type LGlobal struct{ Name string }

// LMax is the least upper bound of two levels.
type LMax struct{ A, B Level }

// LIMax is the impredicative max of two levels (collapses to zero when B is
// zero, regardless of A).
type LIMax struct{ A, B Level }

// LMeta is an external universe metavariable, as supplied by the caller
// before internalization. It is identified by the caller's own numbering;
// the internalizer maps each distinct LMeta to a fresh URef.
type LMeta struct{ ID uint64 }

// URef is a universe metavariable reference allocated by the engine. It is
// one of the three fresh-kind leaves the engine allocates on the fly.
type URef struct{ Index uint64 }

func (*LZero) isLevel()   {}
func (*LSucc) isLevel()   {}
func (*LParam) isLevel()  {}
func (*LGlobal) isLevel() {}
func (*LMax) isLevel()    {}
func (*LIMax) isLevel()   {}
func (*LMeta) isLevel()   {}
func (*URef) isLevel()    {}

// LevelEqual reports whether two levels are syntactically identical.
func LevelEqual(a, b Level) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *LZero:
		_, ok := b.(*LZero)
		return ok
	case *LSucc:
		y, ok := b.(*LSucc)
		return ok && LevelEqual(x.Of, y.Of)
	case *LParam:
		y, ok := b.(*LParam)
		return ok && x.Name == y.Name
	case *LGlobal:
		y, ok := b.(*LGlobal)
		return ok && x.Name == y.Name
	case *LMax:
		y, ok := b.(*LMax)
		return ok && LevelEqual(x.A, y.A) && LevelEqual(x.B, y.B)
	case *LIMax:
		y, ok := b.(*LIMax)
		return ok && LevelEqual(x.A, y.A) && LevelEqual(x.B, y.B)
	case *LMeta:
		y, ok := b.(*LMeta)
		return ok && x.ID == y.ID
	case *URef:
		y, ok := b.(*URef)
		return ok && x.Index == y.Index
	}
	return false
}

// LevelFreeURefs collects every URef index occurring in l.
func LevelFreeURefs(l Level, into map[uint64]bool) {
	switch x := l.(type) {
	case *LSucc:
		LevelFreeURefs(x.Of, into)
	case *LMax:
		LevelFreeURefs(x.A, into)
		LevelFreeURefs(x.B, into)
	case *LIMax:
		LevelFreeURefs(x.A, into)
		LevelFreeURefs(x.B, into)
	case *URef:
		into[x.Index] = true
	}
}

// BinderInfo records how a Pi/Lambda binder was declared, mirroring the
// binder annotations of the ambient calculus (default, implicit, strict
// implicit, instance-implicit).
type BinderInfo uint8

const (
	BinderDefault BinderInfo = iota
	BinderImplicit
	BinderStrictImplicit
	BinderInstImplicit
)

// An Expr is a term of the ambient calculus, extended with the three
// reference leaves HRef, MRef and URef-carrying Sorts. Expressions form a
// closed sum type; the set of constructors below is exhaustive by
// construction (the isExpr method is unexported).
type Expr interface {
	isExpr()
}

// Var is a bound variable, addressed by de Bruijn index (0 = nearest
// enclosing binder).
type Var struct{ Index uint64 }

// Sort is a universe, e.g. Prop or Type u.
type Sort struct{ Level Level }

// Const is a reference to a global declaration, applied to universe
// arguments.
type Const struct {
	Name   string
	Levels []Level
}

// App is function application.
type App struct{ Fn, Arg Expr }

// Lambda is a function abstraction.
type Lambda struct {
	Name   string
	Domain Expr
	Body   Expr
	Info   BinderInfo
}

// Pi is a dependent function type.
type Pi struct {
	Name   string
	Domain Expr
	Body   Expr
	Info   BinderInfo
}

// Macro is an opaque extension leaf: a named node with subterm arguments
// that the core treats as atomic (no congruence, no unfolding) but whose
// arguments are still traversed structurally. It is the escape hatch for
// constructs the core does not otherwise model (e.g. a let, a match).
type Macro struct {
	Name string
	Args []Expr
}

// LocalConst is an external local constant: a free variable in the
// caller's representation, identified by a stable ID (not by Name — two
// distinct locals may share a pretty name). It appears only in goals that
// have not yet been internalized, or in values threaded back through
// Infer from the ambient environment.
type LocalConst struct {
	ID   uint64
	Name string
	Type Expr
}

// MetaApp is an external metavariable application `?m a1 ... an`, as
// supplied by the caller before internalization. Args carries exactly the
// arguments the caller attached directly to the metavariable; any further
// application on top (an "ordinary" argument beyond the higher-order
// pattern) is expressed by wrapping a MetaApp in an
// ordinary App node, not by appending to Args.
type MetaApp struct {
	ID   uint64
	Name string
	Type Expr // the metavariable's own type, or nil to use a default
	Args []Expr
}

// HRef is a hypothesis reference: the internal stand-in for a local
// constant, introduced by the Internalizer.
type HRef struct{ Index uint64 }

// MRef is a metavariable application `?m a1 ... an` where ?m is an
// internal term metavariable reference.
type MRef struct {
	Index uint64
	Args  []Expr
}

func (*Var) isExpr()        {}
func (*Sort) isExpr()       {}
func (*Const) isExpr()      {}
func (*App) isExpr()        {}
func (*Lambda) isExpr()     {}
func (*Pi) isExpr()         {}
func (*Macro) isExpr()      {}
func (*LocalConst) isExpr() {}
func (*MetaApp) isExpr()    {}
func (*HRef) isExpr()       {}
func (*MRef) isExpr()       {}

// mkApp builds a left-associated application of fn to args.
func mkApp(fn Expr, args []Expr) Expr {
	e := fn
	for _, a := range args {
		e = &App{Fn: e, Arg: a}
	}
	return e
}
