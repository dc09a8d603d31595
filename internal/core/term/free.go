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

// FreeHRefs collects the index of every HRef occurring anywhere in e.
func FreeHRefs(e Expr, into map[uint64]bool) {
	switch x := e.(type) {
	case *HRef:
		into[x.Index] = true
	case *App:
		FreeHRefs(x.Fn, into)
		FreeHRefs(x.Arg, into)
	case *Lambda:
		FreeHRefs(x.Domain, into)
		FreeHRefs(x.Body, into)
	case *Pi:
		FreeHRefs(x.Domain, into)
		FreeHRefs(x.Body, into)
	case *Macro:
		for _, a := range x.Args {
			FreeHRefs(a, into)
		}
	case *MetaApp:
		for _, a := range x.Args {
			FreeHRefs(a, into)
		}
	case *MRef:
		for _, a := range x.Args {
			FreeHRefs(a, into)
		}
	}
}

// FreeMRefs collects the index of every MRef occurring anywhere in e.
func FreeMRefs(e Expr, into map[uint64]bool) {
	switch x := e.(type) {
	case *MRef:
		into[x.Index] = true
		for _, a := range x.Args {
			FreeMRefs(a, into)
		}
	case *App:
		FreeMRefs(x.Fn, into)
		FreeMRefs(x.Arg, into)
	case *Lambda:
		FreeMRefs(x.Domain, into)
		FreeMRefs(x.Body, into)
	case *Pi:
		FreeMRefs(x.Domain, into)
		FreeMRefs(x.Body, into)
	case *Macro:
		for _, a := range x.Args {
			FreeMRefs(a, into)
		}
	case *MetaApp:
		for _, a := range x.Args {
			FreeMRefs(a, into)
		}
	}
}

// FreeLocalConsts collects every external LocalConst occurring anywhere in
// e, keyed by its stable ID.
func FreeLocalConsts(e Expr, into map[uint64]*LocalConst) {
	switch x := e.(type) {
	case *LocalConst:
		into[x.ID] = x
	case *App:
		FreeLocalConsts(x.Fn, into)
		FreeLocalConsts(x.Arg, into)
	case *Lambda:
		FreeLocalConsts(x.Domain, into)
		FreeLocalConsts(x.Body, into)
	case *Pi:
		FreeLocalConsts(x.Domain, into)
		FreeLocalConsts(x.Body, into)
	case *Macro:
		for _, a := range x.Args {
			FreeLocalConsts(a, into)
		}
	case *MetaApp:
		for _, a := range x.Args {
			FreeLocalConsts(a, into)
		}
	case *MRef:
		for _, a := range x.Args {
			FreeLocalConsts(a, into)
		}
	}
}

// OccursMRef reports whether mref occurs anywhere in e, used by the
// assignment-validation occurs-check.
func OccursMRef(mref uint64, e Expr) bool {
	switch x := e.(type) {
	case *MRef:
		if x.Index == mref {
			return true
		}
		for _, a := range x.Args {
			if OccursMRef(mref, a) {
				return true
			}
		}
		return false
	case *App:
		return OccursMRef(mref, x.Fn) || OccursMRef(mref, x.Arg)
	case *Lambda:
		return OccursMRef(mref, x.Domain) || OccursMRef(mref, x.Body)
	case *Pi:
		return OccursMRef(mref, x.Domain) || OccursMRef(mref, x.Body)
	case *Macro:
		for _, a := range x.Args {
			if OccursMRef(mref, a) {
				return true
			}
		}
		return false
	case *MetaApp:
		for _, a := range x.Args {
			if OccursMRef(mref, a) {
				return true
			}
		}
		return false
	}
	return false
}
