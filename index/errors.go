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

// Package index implements the generic searchable document-store core:
// it owns a bleve index, admits a single writer at a time, and executes
// searches through a plugin-supplied [Plugin] contract.
package index

import (
	"errors"
	"fmt"
)

// Sentinel members of the closed error taxonomy. Use errors.Is against
// these for the variants that carry no payload.
var (
	ErrOpen         = errors.New("error opening index")
	ErrSnapshot     = errors.New("error snapshotting index")
	ErrNotFound     = errors.New("not found")
	ErrNotPersisted = errors.New("index is not persisted")
)

// ParserError wraps a query-string that failed to parse. Surfaced by
// hosts as a 400-class error.
type ParserError struct {
	Msg string
}

func (e *ParserError) Error() string { return fmt.Sprintf("failed to parse query: %s", e.Msg) }

// SearchError wraps an underlying bleve engine failure.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string { return fmt.Sprintf("error in search index: %v", e.Err) }
func (e *SearchError) Unwrap() error { return e.Err }

// IOError wraps a directory or archive I/O failure.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("i/o error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
