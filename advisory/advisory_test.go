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

package advisory_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/docindex/advisory"
	"github.com/couchbase/docindex/index"
)

func newTestStore(t *testing.T) *index.Store {
	t.Helper()

	data, err := os.ReadFile("testdata/rhsa-2023_1441.json")
	require.NoError(t, err)

	doc, err := advisory.DecodeDocument(data)
	require.NoError(t, err)

	plugin := advisory.NewPlugin()
	store, err := index.NewInMemory(plugin)
	require.NoError(t, err)

	w, err := store.Writer()
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(plugin, doc.Doc.Tracking.ID, doc))
	require.NoError(t, w.Commit())

	return store
}

func search(t *testing.T, store *index.Store, q string) []any {
	t.Helper()
	hits, _, err := store.Search(q, 0, 10000, false)
	require.NoError(t, err)
	return hits
}

func TestFreeFormSimplePrimary(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "openssl"), 1)
}

func TestFreeFormSimplePrimaryCVE(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "CVE-2023-0286"), 1)
}

func TestFreeFormSimplePrimaryAdvisoryID(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "RHSA-2023:1441"), 1)
}

func TestFreeFormPrimaryScoped(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "RHSA-2023:1441 in:id"), 1)
}

func TestFreeFormPredicateFinal(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "is:final"), 1)
}

func TestFreeFormPredicateHigh(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "is:high"), 1)
}

func TestFreeFormPredicateCritical(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "is:critical"), 0)
}

func TestFreeFormCvssRanges(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "cvss:>5"), 1)
	require.Len(t, search(t, store, "cvss:<5"), 0)
}

func TestFreeFormDates(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "initial:>2022-01-01"), 1)
	require.Len(t, search(t, store, "discovery:>2022-01-01"), 1)
	require.Len(t, search(t, store, "release:>2022-01-01"), 1)
	require.Len(t, search(t, store, "release:>2023-02-08"), 1)
	require.Len(t, search(t, store, "release:2022-01-01..2023-01-01"), 0)
	require.Len(t, search(t, store, "release:2022-01-01..2024-01-01"), 1)
	require.Len(t, search(t, store, "release:2023-03-23"), 1)
	require.Len(t, search(t, store, "release:2023-03-24"), 0)
	require.Len(t, search(t, store, "release:2023-03-22"), 0)
}

func TestPackages(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, `affected:"pkg:rpm/redhat/openssl@1.1.1k-7.el8_6?arch=x86_64&epoch=1"`), 1)
}

func TestProducts(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, `fixed:"cpe:/o:redhat:rhel_eus:8.6::baseos"`), 1)
}

func TestDeleteDocument(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, "RHSA-2023:1441 in:id"), 1)

	plugin := advisory.NewPlugin()
	w, err := store.Writer()
	require.NoError(t, err)
	w.DeleteDocument(plugin, "RHSA-2023:1441")
	require.NoError(t, w.Commit())

	require.Len(t, search(t, store, "RHSA-2023:1441 in:id"), 0)
}

func TestSearchAll(t *testing.T) {
	store := newTestStore(t)
	require.Len(t, search(t, store, ""), 1)
}
