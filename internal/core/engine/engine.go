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

// Package engine implements the engine entry point: it instantiates one
// process-local engine, runs internalize → search → externalize, and
// returns the proof or a negative result. The engine itself is passed
// explicitly; a thin convenience layer (Install/Current) over one
// process-wide engine stack exists only for call sites that want
// free-function ergonomics.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/blast-proof/blast/internal/core/ambient"
	"github.com/blast-proof/blast/internal/core/externalize"
	"github.com/blast-proof/blast/internal/core/internalize"
	"github.com/blast-proof/blast/internal/core/search"
	"github.com/blast-proof/blast/internal/core/term"
	"github.com/blast-proof/blast/internal/core/typectx"
	"github.com/blast-proof/blast/internal/diag"
	"github.com/blast-proof/blast/internal/options"
)

// Engine is one proof-search engine instance. It owns its scratch
// type-context pool and nothing else is shared across instances.
type Engine struct {
	ID uuid.UUID

	env                     ambient.Environment
	lemmaHints, unfoldHints []string
	cfg                     search.Config
	sink                    diag.Sink
	pool                    *typectx.Pool
	registry                search.ActionRegistry
}

// New constructs an Engine bound to env, reading blast.max_depth,
// blast.init_depth and blast.inc_depth from opts, and carrying the
// lemma/unfold hint lists through to the type-context façade.
func New(env ambient.Environment, opts options.Set, lemmaHints, unfoldHints []string) *Engine {
	if opts == nil {
		opts = options.New()
	}
	cfg := search.Config{
		MaxDepth:  opts.Unsigned("blast.max_depth", 128),
		InitDepth: opts.Unsigned("blast.init_depth", 1),
		IncDepth:  opts.Unsigned("blast.inc_depth", 5),
	}
	return &Engine{
		ID:          uuid.New(),
		env:         env,
		lemmaHints:  lemmaHints,
		unfoldHints: unfoldHints,
		cfg:         cfg,
		sink:        diag.Discard,
		pool:        typectx.NewPool(env),
	}
}

// SetSink attaches a diagnostics sink; passing nil reverts to discarding
// every line.
func (e *Engine) SetSink(s diag.Sink) {
	if s == nil {
		s = diag.Discard
	}
	e.sink = s
}

// SetRegistry installs the extension action catalog consulted after the
// three mandatory baseline actions.
func (e *Engine) SetRegistry(r search.ActionRegistry) { e.registry = r }

var (
	mu    sync.Mutex
	stack []*Engine
)

// Install pushes e onto the engine stack and returns a function that pops
// it again. Install calls nest LIFO. The stack is process-wide, guarded by
// a mutex and shared by all goroutines; it is not per-thread.
func (e *Engine) Install() func() {
	mu.Lock()
	stack = append(stack, e)
	mu.Unlock()
	return func() {
		mu.Lock()
		if n := len(stack); n > 0 && stack[n-1] == e {
			stack = stack[:n-1]
		}
		mu.Unlock()
	}
}

// Current returns the innermost installed Engine, or nil if none is
// installed.
func Current() *Engine {
	mu.Lock()
	defer mu.Unlock()
	if n := len(stack); n > 0 {
		return stack[n-1]
	}
	return nil
}

// Run performs internalize → search → externalize against goal,
// returning (nil, nil) on search exhaustion (a negative result, not an
// error), and a non-nil error for the two fatal kinds the internalizer
// can surface, for an error from an Action, or for an externalization
// failure.
func (e *Engine) Run(goal internalize.ExternalGoal) (term.Expr, error) {
	done := e.Install()
	defer done()

	st, err := internalize.New(e.env).Run(goal)
	if err != nil {
		return nil, err
	}

	guard := e.pool.Acquire(st, e.lemmaHints, e.unfoldHints)
	defer guard.Release()

	d := search.New(st, guard.Facade, e.cfg, e.registry)
	pr, err := d.Run(st.GetTarget())
	if err != nil {
		return nil, err
	}
	if pr == nil {
		e.sink.Logf("blast[%s]: search exhausted (max_depth=%d)", e.ID, e.cfg.MaxDepth)
		return nil, nil
	}

	out, err := externalize.New().Run(guard.Facade.State(), pr)
	if err != nil {
		e.sink.Errf("blast[%s]: externalization failed: %v", e.ID, err)
		return nil, err
	}
	return out, nil
}
