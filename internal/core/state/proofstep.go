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

package state

import "github.com/blast-proof/blast/internal/core/term"

// ProofStep is an opaque resolver paired with the continuation it captured
// when it was pushed. When the branch below it closes, the driver calls
// Resolve with the accumulated partial proof; a true return means the
// step accepted it and produced a (possibly still partial) proof of its
// own subgoal, so the step should be popped. A false return means the
// step needs more subgoals proved first; it stays on the stack and the
// driver is told the branch is not yet fully closed.
type ProofStep interface {
	Resolve(s *State, partial term.Expr) (term.Expr, bool)
}
