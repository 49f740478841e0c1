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

package index_test

import (
	"fmt"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/docindex/index"
	"github.com/couchbase/docindex/query"
)

// docPlugin is a minimal index.Plugin over a single "title" text field,
// used to exercise Store/Writer independently of the advisory worked
// example.
type docPlugin struct{}

func (docPlugin) Settings() index.Settings { return index.Settings{} }

func (docPlugin) Schema() *mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	dm := bleve.NewDocumentMapping()
	dm.AddFieldMappingsAt("id", index.Field{Name: "id", Type: index.FieldString, Stored: true, Indexed: true}.Mapping())
	dm.AddFieldMappingsAt("title", index.Field{Name: "title", Type: index.FieldText, Stored: true, Indexed: true}.Mapping())
	im.DefaultMapping = dm
	return im
}

func (docPlugin) PrepareQuery(q string) (query.Query, error) {
	if q == "" {
		return bleve.NewMatchAllQuery(), nil
	}
	m := bleve.NewMatchQuery(q)
	m.SetField("title")
	return m, nil
}

func (docPlugin) ProcessHit(hit *search.DocumentMatch, explain bool) (any, error) {
	title, ok := hit.Fields["title"].(string)
	if !ok {
		return nil, index.ErrNotFound
	}
	return fmt.Sprintf("%s: %s", hit.ID, title), nil
}

func (docPlugin) IndexDoc(id string, raw any) ([]index.Document, error) {
	title, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("docPlugin: expected string, got %T", raw)
	}
	doc := index.NewDocument(id)
	doc.Set("id", id)
	doc.Set("title", title)
	return []index.Document{*doc}, nil
}

func (docPlugin) DocIDToTerm(id string) string { return id }

func addAndCommit(t *testing.T, store *index.Store, plugin index.Plugin, id, title string) {
	t.Helper()
	w, err := store.Writer()
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(plugin, id, title))
	require.NoError(t, w.Commit())
}

func TestReplaceOnAdd(t *testing.T) {
	plugin := docPlugin{}
	store, err := index.NewInMemory(plugin)
	require.NoError(t, err)

	addAndCommit(t, store, plugin, "doc-1", "hello world")
	addAndCommit(t, store, plugin, "doc-1", "hello world")

	hits, total, err := store.Search("hello", 0, 10, false)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, hits, 1)
}

func TestDeleteThenSearch(t *testing.T) {
	plugin := docPlugin{}
	store, err := index.NewInMemory(plugin)
	require.NoError(t, err)

	addAndCommit(t, store, plugin, "doc-1", "hello world")

	w, err := store.Writer()
	require.NoError(t, err)
	w.DeleteDocument(plugin, "doc-1")
	require.NoError(t, w.Commit())

	_, total, err := store.Search("hello", 0, 10, false)
	require.NoError(t, err)
	require.Equal(t, 0, total)
}

func TestEmptyQueryReturnsAll(t *testing.T) {
	plugin := docPlugin{}
	store, err := index.NewInMemory(plugin)
	require.NoError(t, err)

	addAndCommit(t, store, plugin, "doc-1", "hello world")
	addAndCommit(t, store, plugin, "doc-2", "goodbye world")

	_, total, err := store.Search("", 0, 10, false)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestWriterSingleWriterInvariant(t *testing.T) {
	plugin := docPlugin{}
	store, err := index.NewInMemory(plugin)
	require.NoError(t, err)

	w, err := store.Writer()
	require.NoError(t, err)

	_, err = store.Writer()
	require.Error(t, err)

	require.NoError(t, w.Commit())

	_, err = store.Writer()
	require.NoError(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	plugin := docPlugin{}
	dir := t.TempDir()
	store, err := index.New(index.Config{Dir: dir}, plugin)
	require.NoError(t, err)

	addAndCommit(t, store, plugin, "doc-1", "hello world")

	w, err := store.Writer()
	require.NoError(t, err)
	snap, err := store.Snapshot(w)
	require.NoError(t, err)

	restoreDir := t.TempDir()
	restored, err := index.Restore(index.Config{Dir: restoreDir}, snap, plugin)
	require.NoError(t, err)

	_, total, err := restored.Search("hello", 0, 10, false)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}
