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

package query_test

import (
	"testing"
	"time"

	bq "github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/docindex/query"
)

func TestDateEqualRangeIsHalfOpenUTC(t *testing.T) {
	d := time.Date(2023, 3, 23, 14, 30, 0, 0, time.UTC)
	from, to := query.DateEqualRange(d)
	require.Equal(t, time.Date(2023, 3, 23, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2023, 3, 24, 0, 0, 0, 0, time.UTC), to)
}

func TestCreateDateQueryEqualBuildsHalfOpenRange(t *testing.T) {
	d := time.Date(2023, 3, 23, 0, 0, 0, 0, time.UTC)
	q := query.CreateDateQuery("release_date", query.EqualOrdered(d))

	rq, ok := q.(*bq.DateRangeQuery)
	require.True(t, ok)
	require.Equal(t, "2023-03-23T00:00:00Z", rq.Start.Format(time.RFC3339))
	require.Equal(t, "2023-03-24T00:00:00Z", rq.End.Format(time.RFC3339))
	require.True(t, *rq.InclusiveStart)
	require.False(t, *rq.InclusiveEnd)
}

func TestCreateStringQueryPartialIsUnion(t *testing.T) {
	q := query.CreateStringQuery("id", query.Partial("RHSA"))
	_, ok := q.(*bq.DisjunctionQuery)
	require.True(t, ok)
}

func TestCreateStringQueryEqualIsTerm(t *testing.T) {
	q := query.CreateStringQuery("id", query.Equal("RHSA-2023:1441"))
	term, ok := q.(*bq.TermQuery)
	require.True(t, ok)
	require.Equal(t, "RHSA-2023:1441", term.Term)
}

func TestCreatePartialOrderedQueryRange(t *testing.T) {
	o := query.RangeP(query.IncludedBound(5.0), query.ExcludedBound(9.0))
	q := query.CreatePartialOrderedQuery("cve_cvss", o)

	rq, ok := q.(*bq.NumericRangeQuery)
	require.True(t, ok)
	require.Equal(t, 5.0, *rq.Min)
	require.Equal(t, 9.0, *rq.Max)
	require.True(t, *rq.InclusiveMin)
	require.False(t, *rq.InclusiveMax)
}

type testResource struct{ value string }

func resourceToQuery(r testResource) query.Query {
	return query.CreateStringQuery("id", query.Equal(r.value))
}

func TestTerm2QueryMatch(t *testing.T) {
	term := query.Match[testResource]{Resource: testResource{value: "a"}}
	q, err := query.Term2Query[testResource](term, resourceToQuery)
	require.NoError(t, err)
	_, ok := q.(*bq.TermQuery)
	require.True(t, ok)
}

func TestTerm2QueryNotIsMustNotOnly(t *testing.T) {
	term := query.Not[testResource]{Term: query.Match[testResource]{Resource: testResource{value: "a"}}}
	q, err := query.Term2Query[testResource](term, resourceToQuery)
	require.NoError(t, err)

	bqq, ok := q.(*bq.BooleanQuery)
	require.True(t, ok)
	require.Nil(t, bqq.Must)
	require.Nil(t, bqq.Should)
	require.NotNil(t, bqq.MustNot)
}

func TestTerm2QueryAndOr(t *testing.T) {
	and := query.And[testResource]{Terms: []query.Term[testResource]{
		query.Match[testResource]{Resource: testResource{value: "a"}},
		query.Match[testResource]{Resource: testResource{value: "b"}},
	}}
	q, err := query.Term2Query[testResource](and, resourceToQuery)
	require.NoError(t, err)
	_, ok := q.(*bq.ConjunctionQuery)
	require.True(t, ok)

	or := query.Or[testResource]{Terms: []query.Term[testResource]{
		query.Match[testResource]{Resource: testResource{value: "a"}},
		query.Match[testResource]{Resource: testResource{value: "b"}},
	}}
	q, err = query.Term2Query[testResource](or, resourceToQuery)
	require.NoError(t, err)
	_, ok = q.(*bq.DisjunctionQuery)
	require.True(t, ok)
}
