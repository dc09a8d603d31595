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

// Package goalfile decodes an external goal description — a hypothesis
// context plus a target proposition — from YAML into the
// internalize.ExternalGoal the core's Internalizer consumes. This boundary
// lives outside the core proper: the core never reads a file; something
// has to hand it a goal, and for cmd/blast that something is a small
// YAML format.
package goalfile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/blast-proof/blast/internal/core/ambient"
	"github.com/blast-proof/blast/internal/core/internalize"
	"github.com/blast-proof/blast/internal/core/term"
)

// Node wraps one expression in the goal file's node encoding: each
// expression is a YAML mapping with exactly one recognized key
// identifying the constructor.
type Node struct {
	Expr term.Expr
}

type rawLocal struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
}

type rawApp struct {
	Fn  Node `yaml:"fn"`
	Arg Node `yaml:"arg"`
}

type rawBinder struct {
	Name   string `yaml:"name"`
	Domain Node   `yaml:"domain"`
	Body   Node   `yaml:"body"`
}

type rawSort struct {
	Level LevelNode `yaml:"level"`
}

type rawMeta struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
	Args []Node `yaml:"args"`
}

type rawExpr struct {
	Const  *string    `yaml:"const"`
	Local  *rawLocal  `yaml:"local"`
	Var    *uint64    `yaml:"var"`
	App    *rawApp    `yaml:"app"`
	Pi     *rawBinder `yaml:"pi"`
	Lambda *rawBinder `yaml:"lambda"`
	Sort   *rawSort   `yaml:"sort"`
	Meta   *rawMeta   `yaml:"meta"`
}

// UnmarshalYAML implements yaml.Unmarshaler, dispatching on whichever
// constructor key is present.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw rawExpr
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Const != nil:
		n.Expr = &term.Const{Name: *raw.Const}
	case raw.Local != nil:
		n.Expr = &term.LocalConst{ID: raw.Local.ID, Name: raw.Local.Name}
	case raw.Var != nil:
		n.Expr = &term.Var{Index: *raw.Var}
	case raw.App != nil:
		n.Expr = &term.App{Fn: raw.App.Fn.Expr, Arg: raw.App.Arg.Expr}
	case raw.Pi != nil:
		n.Expr = &term.Pi{Name: raw.Pi.Name, Domain: raw.Pi.Domain.Expr, Body: raw.Pi.Body.Expr}
	case raw.Lambda != nil:
		n.Expr = &term.Lambda{Name: raw.Lambda.Name, Domain: raw.Lambda.Domain.Expr, Body: raw.Lambda.Body.Expr}
	case raw.Sort != nil:
		n.Expr = &term.Sort{Level: raw.Sort.Level.Level}
	case raw.Meta != nil:
		args := make([]term.Expr, len(raw.Meta.Args))
		for i, a := range raw.Meta.Args {
			args[i] = a.Expr
		}
		n.Expr = &term.MetaApp{ID: raw.Meta.ID, Name: raw.Meta.Name, Args: args}
	default:
		return fmt.Errorf("goalfile: expression node has no recognized key (const/local/var/app/pi/lambda/sort/meta)")
	}
	return nil
}

// LevelNode wraps one universe level in the goal file's node encoding.
type LevelNode struct {
	Level term.Level
}

// UnmarshalYAML implements yaml.Unmarshaler. "zero" decodes to LZero;
// otherwise the node is a mapping with exactly one of succ/param/global.
func (l *LevelNode) UnmarshalYAML(value *yaml.Node) error {
	var tag string
	if err := value.Decode(&tag); err == nil {
		if tag == "zero" {
			l.Level = &term.LZero{}
			return nil
		}
		return fmt.Errorf("goalfile: unrecognized level scalar %q", tag)
	}
	var raw struct {
		Succ   *LevelNode `yaml:"succ"`
		Param  *string    `yaml:"param"`
		Global *string    `yaml:"global"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Succ != nil:
		l.Level = &term.LSucc{Of: raw.Succ.Level}
	case raw.Param != nil:
		l.Level = &term.LParam{Name: *raw.Param}
	case raw.Global != nil:
		l.Level = &term.LGlobal{Name: *raw.Global}
	default:
		return fmt.Errorf("goalfile: level node has no recognized key (succ/param/global)")
	}
	return nil
}

type rawHypothesis struct {
	Local rawLocal `yaml:"local"`
	Type  Node     `yaml:"type"`
}

type rawUnfold struct {
	Params int  `yaml:"params"`
	Body   Node `yaml:"body"`
}

type rawGlobal struct {
	Name            string     `yaml:"name"`
	Type            Node       `yaml:"type"`
	Reducible       bool       `yaml:"reducible"`
	Projection      bool       `yaml:"projection"`
	ClassOrInstance bool       `yaml:"classOrInstance"`
	Unfold          *rawUnfold `yaml:"unfold"`
}

// File is the top-level goal file shape: a list of global declarations
// making up a minimal ambient environment, a list of hypotheses, and a
// target.
type File struct {
	Globals    []rawGlobal     `yaml:"globals"`
	Hypotheses []rawHypothesis `yaml:"hypotheses"`
	Target     Node            `yaml:"target"`
}

// Global is one global constant declaration: its type and its
// classification (reducible, projection, class/instance), plus an
// optional unfolding rule.
type Global struct {
	Name            string
	Type            term.Expr
	Reducible       bool
	Projection      bool
	ClassOrInstance bool

	// UnfoldParams and UnfoldBody describe delta-reduction: applying Name
	// to n >= UnfoldParams arguments unfolds to UnfoldBody with the first
	// UnfoldParams arguments substituted for Var{UnfoldParams-1} down to
	// Var{0}, the same binder convention Pi/Lambda bodies use elsewhere.
	UnfoldParams int
	UnfoldBody   term.Expr
}

// Environment is a minimal ambient.Environment backed by a fixed table of
// Globals, read from a goal file's globals section. It exists for
// cmd/blast: the core treats the ambient environment purely as an
// external collaborator and never constructs one itself.
type Environment struct {
	byName map[string]Global
}

// NewEnvironment indexes globals by name. A later entry with the same
// name overrides an earlier one.
func NewEnvironment(globals []Global) *Environment {
	byName := make(map[string]Global, len(globals))
	for _, g := range globals {
		byName[g.Name] = g
	}
	return &Environment{byName: byName}
}

var _ ambient.Environment = (*Environment)(nil)

func (e *Environment) ConstType(name string, _ []term.Level) (term.Expr, bool) {
	g, ok := e.byName[name]
	if !ok {
		return nil, false
	}
	return g.Type, true
}

func (e *Environment) IsReducible(name string) bool {
	g, ok := e.byName[name]
	return ok && g.Reducible
}

func (e *Environment) IsProjection(name string) bool {
	g, ok := e.byName[name]
	return ok && g.Projection
}

func (e *Environment) IsClassOrInstance(name string) bool {
	g, ok := e.byName[name]
	return ok && g.ClassOrInstance
}

func (e *Environment) Unfold(name string, _ []term.Level, args []term.Expr) (term.Expr, bool) {
	g, ok := e.byName[name]
	if !ok || !g.Reducible || g.UnfoldBody == nil || len(args) < g.UnfoldParams {
		return nil, false
	}
	body := g.UnfoldBody
	for i := g.UnfoldParams - 1; i >= 0; i-- {
		body = term.Instantiate(body, args[i])
	}
	return term.Apply(body, args[g.UnfoldParams:]), true
}

func envSpine(e term.Expr) (head term.Expr, args []term.Expr) {
	for {
		app, ok := e.(*term.App)
		if !ok {
			return e, args
		}
		args = append([]term.Expr{app.Arg}, args...)
		e = app.Fn
	}
}

// WhnfReducibleOnly beta-reduces lambda applications and delta-unfolds
// constants marked reducible, ignoring opacity policy entirely (the
// environment has no notion of the current search's hint lists).
func (e *Environment) WhnfReducibleOnly(x term.Expr) term.Expr {
	for {
		head, args := envSpine(x)
		switch h := head.(type) {
		case *term.Lambda:
			if len(args) == 0 {
				return x
			}
			x = term.Apply(term.Instantiate(h.Body, args[0]), args[1:])
		case *term.Const:
			body, ok := e.Unfold(h.Name, h.Levels, args)
			if !ok {
				return x
			}
			x = body
		default:
			return x
		}
	}
}

// Decode reads one goal description from r, converting it into the
// ambient environment its globals describe and the external goal its
// hypotheses and target describe.
func Decode(r io.Reader) (*Environment, internalize.ExternalGoal, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, internalize.ExternalGoal{}, fmt.Errorf("goalfile: %w", err)
	}

	globals := make([]Global, 0, len(f.Globals))
	for _, g := range f.Globals {
		global := Global{
			Name:            g.Name,
			Type:            g.Type.Expr,
			Reducible:       g.Reducible,
			Projection:      g.Projection,
			ClassOrInstance: g.ClassOrInstance,
		}
		if g.Unfold != nil {
			global.UnfoldParams = g.Unfold.Params
			global.UnfoldBody = g.Unfold.Body.Expr
		}
		globals = append(globals, global)
	}

	goal := internalize.ExternalGoal{Target: f.Target.Expr}
	for _, h := range f.Hypotheses {
		local := &term.LocalConst{ID: h.Local.ID, Name: h.Local.Name, Type: h.Type.Expr}
		goal.Hyps = append(goal.Hyps, internalize.ExternalHypothesis{Local: local, Type: h.Type.Expr})
	}
	return NewEnvironment(globals), goal, nil
}
