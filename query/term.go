//  Copyright (c) 2024 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the
//  License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing,
//  software distributed under the License is distributed on an "AS
//  IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
//  express or implied. See the License for the specific language
//  governing permissions and limitations under the License.

package query

import "errors"

// ErrTooDeep guards against pathologically deep Term trees. The grammar
// this module's parsers produce is always finite (no cycles are
// constructible), so this is defense-in-depth, not a real limit in
// practice.
var ErrTooDeep = errors.New("query: term tree exceeds maximum depth")

const maxTermDepth = 64

// Term is the structured-search AST produced by a grammar parser over
// resource type R: a free-form token matches a resource (Match), or
// terms compose via negation/conjunction/disjunction.
type Term[R any] interface {
	isTerm()
}

// Match wraps a single parsed resource leaf.
type Match[R any] struct{ Resource R }

// Not negates a term.
type Not[R any] struct{ Term Term[R] }

// And is a conjunction of terms.
type And[R any] struct{ Terms []Term[R] }

// Or is a disjunction of terms.
type Or[R any] struct{ Terms []Term[R] }

func (Match[R]) isTerm() {}
func (Not[R]) isTerm()   {}
func (And[R]) isTerm()   {}
func (Or[R]) isTerm()    {}
