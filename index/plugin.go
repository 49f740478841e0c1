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

package index

import (
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/couchbase/docindex/query"
)

// Settings are the engine-level settings a plugin declares: an optional
// default sort field (applied unless a search request overrides it) and
// a docstore-compressor hint carried for parity with the plugin
// contract (see DESIGN.md's Open Question decision; bleve's storage
// layer has no pluggable per-index compressor to wire this to).
type Settings struct {
	SortField      string
	SortDescending bool
	DocCompressor  string
}

// Plugin is the schema-plugin contract every domain implements
// (component C): schema declaration, document lowering, query
// preparation, hit projection, and id-term derivation.
type Plugin interface {
	// Settings returns the engine-level settings for this plugin.
	Settings() Settings

	// Schema returns the field declaration as a bleve index mapping.
	Schema() *mapping.IndexMapping

	// PrepareQuery parses a query string into a primitive query, or
	// fails with a *ParserError. An empty string must produce an
	// all-documents query.
	PrepareQuery(q string) (query.Query, error)

	// ProcessHit retrieves/projects a matched document into a
	// domain-specific hit. When explain is true the hit should carry a
	// structured explanation. Required fields missing from the stored
	// document must fail with ErrNotFound.
	ProcessHit(hit *search.DocumentMatch, explain bool) (any, error)

	// IndexDoc lowers a domain document into one or more primitive
	// documents. The id must be embedded in the identity field so that
	// DocIDToTerm's output matches what gets indexed here.
	IndexDoc(id string, doc any) ([]Document, error)

	// DocIDToTerm is the deletion key: deterministic, and byte-equal to
	// the identity value IndexDoc embeds.
	DocIDToTerm(id string) string
}
