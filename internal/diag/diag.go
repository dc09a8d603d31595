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

// Package diag is the thin logging sink the core writes best-effort
// diagnostics through. The core never imports an output stream directly;
// a caller attaches a Sink of its choosing, or leaves it nil for silence.
package diag

import (
	"fmt"
	"log"
)

// Sink receives leveled diagnostic lines. Errf is for conditions worth a
// caller's attention (the engine uses it for an externalization failure);
// Logf is for ordinary trace output. cmd/blast attaches a Sink only when
// its --trace flag is set.
type Sink interface {
	Logf(format string, args ...any)
	Errf(format string, args ...any)
}

// Discard is a Sink that drops every line. It is the default when no Sink
// is supplied, matching the core's "diagnostics are best-effort" posture.
var Discard Sink = discard{}

type discard struct{}

func (discard) Logf(string, ...any) {}
func (discard) Errf(string, ...any) {}

// StdSink adapts a standard library *log.Logger into a Sink, prefixing
// error lines so they stand out in mixed output — the same convention
// cmd/cue/cmd/root.go uses for its own diagnostic writer.
type StdSink struct {
	L *log.Logger
}

// NewStdSink wraps l.
func NewStdSink(l *log.Logger) *StdSink { return &StdSink{L: l} }

func (s *StdSink) Logf(format string, args ...any) {
	s.L.Print(fmt.Sprintf(format, args...))
}

func (s *StdSink) Errf(format string, args ...any) {
	s.L.Print("error: " + fmt.Sprintf(format, args...))
}
