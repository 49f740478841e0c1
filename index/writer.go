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
	bleve "github.com/blevesearch/bleve/v2"
)

// Writer is a scoped acquisition of write capability over a Store. At
// most one Writer may be live per Store at a time (enforced by
// Store.Writer/releaseWriter); a Writer must be Committed or Discarded
// before another can be acquired. Discarding a Writer without committing
// drops its buffered mutations, since they only ever lived in the
// in-memory bleve.Batch.
type Writer struct {
	store *Store
	batch *bleve.Batch
}

// AddDocument first deletes any existing document under id (replace-on-
// add), then lowers raw via the plugin and buffers every resulting
// primitive document into the batch.
func (w *Writer) AddDocument(plugin Plugin, id string, raw any) error {
	w.DeleteDocument(plugin, id)

	docs, err := plugin.IndexDoc(id, raw)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := w.batch.Index(doc.ID, doc.Fields); err != nil {
			return &SearchError{Err: err}
		}
	}
	return nil
}

// DeleteDocument buffers a delete-by-term; it takes effect on Commit.
func (w *Writer) DeleteDocument(plugin Plugin, id string) {
	w.batch.Delete(plugin.DocIDToTerm(id))
}

// Commit consumes the writer: applies the buffered batch (bleve's
// scorch Batch apply is itself synchronous, the Go analogue of
// tantivy's "wait for merge threads to drain"), then releases the
// store's writer slot so another Writer becomes admissible.
func (w *Writer) Commit() error {
	defer w.store.releaseWriter()

	if err := w.store.idx.Batch(w.batch); err != nil {
		return &SearchError{Err: err}
	}
	w.store.mx.commits.Inc()
	return nil
}

// Discard releases the writer slot without applying any buffered
// mutation - the scoped-resource-destruction-without-commit discipline
// spec.md §9 calls for.
func (w *Writer) Discard() {
	w.store.releaseWriter()
}
