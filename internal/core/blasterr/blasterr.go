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

// Package blasterr holds the two error kinds that escape the engine: an
// ill-formed input goal and an unsupported metavariable occurrence.
// Everything else — assignment rejection, invariant violations, search
// exhaustion — is absorbed by backtracking or reported as a negative
// result, never as an error value.
package blasterr

import (
	"errors"
	"fmt"
)

// Sentinel errors, inspected with errors.Is by callers that only care
// about the error's kind, not its offending-subterm detail.
var (
	ErrUnsupportedMetavarOccurrence = errors.New("unsupported metavariable occurrence")
	ErrIllFormedGoal                = errors.New("ill-formed input goal")

	// ErrSearchExhausted is not a fatal error kind. It is returned as a
	// negative result, not propagated as a failure, but is exposed as a
	// sentinel so callers that do treat "no proof found" as an error
	// condition can recognize it with errors.Is.
	ErrSearchExhausted = errors.New("search exhausted")
)

// UnsupportedMetavarOccurrence reports a metavariable application outside
// the higher-order-pattern fragment, naming the offending metavariable.
func UnsupportedMetavarOccurrence(metaName string, reason string) error {
	return fmt.Errorf("metavariable ?%s: %s: %w", metaName, reason, ErrUnsupportedMetavarOccurrence)
}

// IllFormedGoal reports a free local constant outside any recognized
// binding position.
func IllFormedGoal(localName string) error {
	return fmt.Errorf("local constant %q is free in the goal but not bound by any hypothesis: %w", localName, ErrIllFormedGoal)
}
