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

// IsDefEq reports whether a and b are definitionally equal, assigning
// unassigned metavariables along the way when doing so would make them
// equal (standard unification-as-you-go conversion checking). Any
// assignment attempted this way still passes through ValidateAssignment;
// a rejected assignment is signalled to the unifier as a failure, which
// makes IsDefEq report false rather than erroring, and backtracks.
func (f *Facade) IsDefEq(a, b term.Expr) bool {
	return f.isDefEq(a, b)
}

func (f *Facade) isDefEq(a, b term.Expr) bool {
	a = f.Whnf(a)
	b = f.Whnf(b)
	if term.Equal(a, b) {
		return true
	}
	if mv, ok := a.(*term.MRef); ok {
		if _, assigned := f.state.GetMRefAssignment(mv.Index); !assigned {
			if f.ValidateAndAssignM(mv.Index, b) {
				return true
			}
		}
	}
	if mv, ok := b.(*term.MRef); ok {
		if _, assigned := f.state.GetMRefAssignment(mv.Index); !assigned {
			if f.ValidateAndAssignM(mv.Index, a) {
				return true
			}
		}
	}
	switch x := a.(type) {
	case *term.Sort:
		y, ok := b.(*term.Sort)
		return ok && f.isLevelDefEq(x.Level, y.Level)
	case *term.Const:
		y, ok := b.(*term.Const)
		if !ok || x.Name != y.Name || len(x.Levels) != len(y.Levels) {
			return false
		}
		for i := range x.Levels {
			if !f.isLevelDefEq(x.Levels[i], y.Levels[i]) {
				return false
			}
		}
		return true
	case *term.App:
		y, ok := b.(*term.App)
		return ok && f.isDefEq(x.Fn, y.Fn) && f.isDefEq(x.Arg, y.Arg)
	case *term.Lambda:
		y, ok := b.(*term.Lambda)
		return ok && f.isDefEq(x.Domain, y.Domain) && f.isDefEq(x.Body, y.Body)
	case *term.Pi:
		y, ok := b.(*term.Pi)
		return ok && f.isDefEq(x.Domain, y.Domain) && f.isDefEq(x.Body, y.Body)
	case *term.HRef:
		y, ok := b.(*term.HRef)
		return ok && x.Index == y.Index
	case *term.Var:
		y, ok := b.(*term.Var)
		return ok && x.Index == y.Index
	case *term.Macro:
		y, ok := b.(*term.Macro)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !f.isDefEq(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *term.MRef:
		y, ok := b.(*term.MRef)
		if !ok || x.Index != y.Index || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !f.isDefEq(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (f *Facade) isLevelDefEq(a, b term.Level) bool {
	a = f.resolveLevel(a)
	b = f.resolveLevel(b)
	if term.LevelEqual(a, b) {
		return true
	}
	if u, ok := a.(*term.URef); ok {
		return f.tryAssignURef(u, b)
	}
	if u, ok := b.(*term.URef); ok {
		return f.tryAssignURef(u, a)
	}
	switch x := a.(type) {
	case *term.LSucc:
		y, ok := b.(*term.LSucc)
		return ok && f.isLevelDefEq(x.Of, y.Of)
	case *term.LMax:
		y, ok := b.(*term.LMax)
		return ok && f.isLevelDefEq(x.A, y.A) && f.isLevelDefEq(x.B, y.B)
	case *term.LIMax:
		y, ok := b.(*term.LIMax)
		return ok && f.isLevelDefEq(x.A, y.A) && f.isLevelDefEq(x.B, y.B)
	}
	return false
}

// resolveLevel follows a chain of uref assignments to the current value,
// or returns l unchanged if it is not an assigned uref.
func (f *Facade) resolveLevel(l term.Level) term.Level {
	for {
		u, ok := l.(*term.URef)
		if !ok {
			return l
		}
		v, ok := f.state.GetURefAssignment(u.Index)
		if !ok {
			return l
		}
		l = v
	}
}

func (f *Facade) tryAssignURef(u *term.URef, lvl term.Level) bool {
	if ur, ok := lvl.(*term.URef); ok && ur.Index == u.Index {
		return true
	}
	if levelOccursURef(u.Index, lvl) {
		return false
	}
	f.state.AssignURef(u.Index, lvl)
	return true
}

func levelOccursURef(uref uint64, l term.Level) bool {
	switch x := l.(type) {
	case *term.URef:
		return x.Index == uref
	case *term.LSucc:
		return levelOccursURef(uref, x.Of)
	case *term.LMax:
		return levelOccursURef(uref, x.A) || levelOccursURef(uref, x.B)
	case *term.LIMax:
		return levelOccursURef(uref, x.A) || levelOccursURef(uref, x.B)
	}
	return false
}
