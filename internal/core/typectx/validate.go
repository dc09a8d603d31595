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

// ValidateAssignment runs the four checks required before any
// m ↦ value is recorded:
//
//  1. every href in value is in m's admissible context;
//  2. every external local constant in value is in the goal's local
//     scope;
//  3. m does not occur in value;
//  4. any other mref in value has its admissible context narrowed to a
//     subset of m's (a side-effecting restriction).
//
// It returns false on any breach, leaving the State unmodified except
// for whatever context restrictions it already performed while checking
// (4) for mrefs that passed; those restrictions are themselves pure
// narrowing and do not need to be undone on an overall failure.
func (f *Facade) ValidateAssignment(m uint64, value term.Expr) bool {
	decl, ok := f.state.GetMetaDecl(m)
	if !ok {
		return false
	}

	hrefs := map[uint64]bool{}
	term.FreeHRefs(value, hrefs)
	for h := range hrefs {
		if !decl.InContext(h) {
			return false
		}
	}

	locals := map[uint64]*term.LocalConst{}
	term.FreeLocalConsts(value, locals)
	known := f.state.KnownLocalIDs()
	for id := range locals {
		if !known[id] {
			return false
		}
	}

	if term.OccursMRef(m, value) {
		return false
	}

	nested := map[uint64]bool{}
	term.FreeMRefs(value, nested)
	for mp := range nested {
		if mp == m {
			continue
		}
		if err := f.state.RestrictMrefContextUsing(mp, m); err != nil {
			return false
		}
	}

	return true
}

// ValidateAndAssignM validates then, on success, records m ↦ value.
func (f *Facade) ValidateAndAssignM(m uint64, value term.Expr) bool {
	if !f.ValidateAssignment(m, value) {
		return false
	}
	f.state.AssignMRef(m, value)
	return true
}
