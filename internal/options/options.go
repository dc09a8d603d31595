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

// Package options implements the dotted-name option set the engine reads
// its depth budget from (blast.max_depth, blast.init_depth,
// blast.inc_depth): a thin map with typed getters, the same shape as a
// typical option accessor.
package options

// Set is a collection of options recognized by dotted name.
type Set map[string]any

// New returns an empty Set.
func New() Set { return Set{} }

// SetUnsigned records an unsigned option value, returning the Set for
// chaining.
func (s Set) SetUnsigned(name string, v uint64) Set {
	s[name] = v
	return s
}

// SetBool records a boolean option value, returning the Set for chaining.
func (s Set) SetBool(name string, v bool) Set {
	s[name] = v
	return s
}

// Unsigned returns the named option's value if set and of the right type,
// otherwise def.
func (s Set) Unsigned(name string, def uint64) uint64 {
	if v, ok := s[name]; ok {
		if u, ok := v.(uint64); ok {
			return u
		}
	}
	return def
}

// Bool returns the named option's value if set and of the right type,
// otherwise def.
func (s Set) Bool(name string, def bool) bool {
	if v, ok := s[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
