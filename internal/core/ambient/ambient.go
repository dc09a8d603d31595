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

// Package ambient declares the narrow interface through which the core
// reaches its external collaborators: Environment covers both the ambient
// logical environment and the reducible-only normalizer. The core never
// depends on an implementation, only on this capability set.
package ambient

import "github.com/blast-proof/blast/internal/core/term"

// Environment is the ambient logical environment: constant lookup,
// reducibility classification, projection classification, and a
// reducible-only normalizer. It is consulted by the internalizer (to
// normalize hypothesis types and the target before internalizing them)
// and by the type-context façade (to decide opacity and to perform whnf).
type Environment interface {
	// ConstType returns the type of a global constant applied to the
	// given universe arguments, if the constant is known.
	ConstType(name string, levels []term.Level) (term.Expr, bool)

	// IsReducible reports whether a constant may be unfolded during
	// conversion checking.
	IsReducible(name string) bool

	// IsProjection reports whether a constant is a structure projection
	// known to the engine; such constants are always treated as opaque
	// regardless of IsReducible.
	IsProjection(name string) bool

	// IsClassOrInstance reports whether name is a type class or a
	// registered instance. The current contract treats class/instance
	// names as non-opaque; callers wire this for future use.
	IsClassOrInstance(name string) bool

	// Unfold performs one step of delta-reduction on a reducible
	// constant application, returning false if name cannot be unfolded.
	Unfold(name string, levels []term.Level, args []term.Expr) (term.Expr, bool)

	// WhnfReducibleOnly normalizes e to weak head normal form, unfolding
	// only constants classified as reducible by IsReducible.
	WhnfReducibleOnly(e term.Expr) term.Expr
}
