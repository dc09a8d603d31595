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
	"github.com/blast-proof/blast/internal/core/ambient"
	"github.com/blast-proof/blast/internal/core/state"
)

// Pool is a free-list of scratch Facades: a caller doing nested tentative
// unification acquires a scratch façade from the pool instead of
// allocating a fresh one, and returns it via a scoped guard.
type Pool struct {
	env  ambient.Environment
	free []*Facade
}

// NewPool returns an empty pool bound to env.
func NewPool(env ambient.Environment) *Pool {
	return &Pool{env: env}
}

// Guard wraps a pooled Facade; Release returns it to the pool. A Guard
// must not be used after Release.
type Guard struct {
	pool   *Pool
	Facade *Facade
}

// Release returns the guarded façade to its pool.
func (g *Guard) Release() {
	g.pool.free = append(g.pool.free, g.Facade)
}

// Acquire returns a scratch Facade bound to st, reusing a pooled one if
// available rather than allocating.
func (p *Pool) Acquire(st *state.State, lemmaHints, unfoldHints []string) *Guard {
	if n := len(p.free); n > 0 {
		f := p.free[n-1]
		p.free = p.free[:n-1]
		f.Rebind(st)
		f.LemmaHints = lemmaHints
		uh := make(map[string]bool, len(unfoldHints))
		for _, name := range unfoldHints {
			uh[name] = true
		}
		f.UnfoldHints = uh
		return &Guard{pool: p, Facade: f}
	}
	return &Guard{pool: p, Facade: New(p.env, st, lemmaHints, unfoldHints)}
}
