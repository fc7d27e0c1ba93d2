// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package names provides collision-free name allocation scopes.
//
// A Scope is local to one composition operation.  It is a plain value,
// never shared or global, so independent compositions cannot interfere
// with each other's name spaces.
package names

import (
	"fmt"
	"strings"
)

// Scope records the names already issued together with a retry counter
// per name stem.
type Scope struct {
	used map[string]struct{}
	next map[string]int
}

// NewScope creates an empty allocation scope.
func NewScope() *Scope {
	return &Scope{
		used: make(map[string]struct{}),
		next: make(map[string]int),
	}
}

// Reserve marks name as used without deriving a fresh one.  Reserving a
// name twice is a no-op.
func (s *Scope) Reserve(name string) {
	s.used[name] = struct{}{}
}

// Used reports whether name has been reserved or allocated in s.
func (s *Scope) Used(name string) bool {
	_, ok := s.used[name]
	return ok
}

// Allocate returns a name that is unused in s, reserving it immediately.
// If hint itself is unused, it is returned verbatim.  Otherwise the hint
// is reduced to a stem by stripping one trailing run of digits and
// underscores, and candidates stem_1, stem_2, ... are probed with a
// single counter per stem, so repeated identical hints come out as
// hint, hint_1, hint_2, ...
//
// The empty hint denotes an anonymous slot; it is returned unchanged and
// never reserved.
func (s *Scope) Allocate(hint string) string {
	if hint == "" {
		return ""
	}
	if !s.Used(hint) {
		s.Reserve(hint)
		return hint
	}
	stem := strings.TrimRight(hint, "0123456789_")
	if stem == "" {
		stem = hint
	}
	k := s.next[stem]
	for {
		k++
		name := fmt.Sprintf("%s_%d", stem, k)
		if !s.Used(name) {
			s.next[stem] = k
			s.Reserve(name)
			return name
		}
	}
}
