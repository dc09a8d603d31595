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

// Equal reports whether a and b are syntactically identical, up to the
// identity comparison of LocalConst/MetaApp by ID rather than Name. It does
// not perform any definitional reasoning; that is the façade's job.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Index == y.Index
	case *Sort:
		y, ok := b.(*Sort)
		return ok && LevelEqual(x.Level, y.Level)
	case *Const:
		y, ok := b.(*Const)
		if !ok || x.Name != y.Name || len(x.Levels) != len(y.Levels) {
			return false
		}
		for i := range x.Levels {
			if !LevelEqual(x.Levels[i], y.Levels[i]) {
				return false
			}
		}
		return true
	case *App:
		y, ok := b.(*App)
		return ok && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && x.Info == y.Info && Equal(x.Domain, y.Domain) && Equal(x.Body, y.Body)
	case *Pi:
		y, ok := b.(*Pi)
		return ok && x.Info == y.Info && Equal(x.Domain, y.Domain) && Equal(x.Body, y.Body)
	case *Macro:
		y, ok := b.(*Macro)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *LocalConst:
		y, ok := b.(*LocalConst)
		return ok && x.ID == y.ID
	case *MetaApp:
		y, ok := b.(*MetaApp)
		if !ok || x.ID != y.ID || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *HRef:
		y, ok := b.(*HRef)
		return ok && x.Index == y.Index
	case *MRef:
		y, ok := b.(*MRef)
		if !ok || x.Index != y.Index || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
