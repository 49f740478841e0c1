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

import (
	"fmt"
	"time"

	bleve "github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

// Query is the compiled primitive query type this package lowers AST
// fragments into. bleve's own query.Query interface already plays the
// role tantivy's `Box<dyn Query>` played in the original core.
type Query = bq.Query

// Occur mirrors tantivy's clause occurrence for CreateBooleanQuery.
type Occur int

const (
	Must Occur = iota
	MustNot
	Should
)

var log = zap.NewNop()

// SetLogger lets a host wire its own zap logger into this package's
// (rare) warning paths, e.g. a malformed partial-match pattern.
func SetLogger(l *zap.Logger) { log = l }

// CreateStringQuery lowers a Primary[string] over an atomic STRING-typed
// field. Equal lowers to exact term equality; Partial lowers to the
// union of a wildcard scan and the same term-equality query, so an
// exact hit still scores even when the wildcard construction fails.
func CreateStringQuery(field string, p Primary[string]) Query {
	switch p.Op {
	case PrimaryPartial:
		term := bleve.NewTermQuery(p.Value)
		term.SetField(field)

		queries := []Query{term}
		pattern := fmt.Sprintf("*%s*", p.Value)
		wc := bleve.NewWildcardQuery(pattern)
		wc.SetField(field)
		if err := wc.Validate(); err != nil {
			log.Warn("unable to build partial query", zap.String("pattern", pattern), zap.Error(err))
		} else {
			queries = append(queries, wc)
		}
		return bleve.NewDisjunctionQuery(queries...)
	default:
		term := bleve.NewTermQuery(p.Value)
		term.SetField(field)
		return term
	}
}

// CreateTextQuery lowers a Primary[string] over a TEXT-tokenized field.
// Both variants lower to the same analyzed match query: text fields are
// already tokenized at index time, so substring semantics need no
// separate wildcard path.
func CreateTextQuery(field string, p Primary[string]) Query {
	m := bleve.NewMatchQuery(p.Value)
	m.SetField(field)
	return m
}

// DateEqualRange expands a single instant into the half-open
// [midnight, next-midnight) UTC range the Equal variant of a date query
// always resolves to.
func DateEqualRange(d time.Time) (time.Time, time.Time) {
	d = d.UTC()
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	return from, to
}

// CreateDateQuery lowers an Ordered[time.Time] over a date field into a
// (possibly half-open) date range query.
func CreateDateQuery(field string, o Ordered[time.Time]) Query {
	var start, end time.Time
	var startInc, endInc bool

	switch o.Op {
	case OrderedLess:
		end, endInc = o.Value, false
	case OrderedLessEqual:
		end, endInc = o.Value, true
	case OrderedGreater:
		start, startInc = o.Value, false
	case OrderedGreaterEqual:
		start, startInc = o.Value, true
	case OrderedEqual:
		start, end = DateEqualRange(o.Value)
		startInc, endInc = true, false
	case OrderedRange:
		start, startInc = boundTime(o.From)
		end, endInc = boundTime(o.To)
	}

	q := bleve.NewDateRangeInclusiveQuery(start, end, &startInc, &endInc)
	q.SetField(field)
	return q
}

func boundTime(b Bound[time.Time]) (time.Time, bool) {
	switch b.Kind {
	case Included:
		return b.Value, true
	case Excluded:
		return b.Value, false
	default:
		return time.Time{}, false
	}
}

func boundFloat(b Bound[float64]) *float64 {
	if b.Kind == Unbounded {
		return nil
	}
	v := b.Value
	return &v
}

func boundFloatInclusive(b Bound[float64]) *bool {
	if b.Kind == Unbounded {
		return nil
	}
	inc := b.Kind == Included
	return &inc
}

// CreatePartialOrderedQuery lowers a PartialOrdered[float64] (numeric
// score) range into a numeric range query, matching the pack's own
// NewNumericRangeInclusiveQuery idiom for bounded-on-both-sides ranges.
func CreatePartialOrderedQuery(field string, o PartialOrdered[float64]) Query {
	var min, max *float64
	var minInc, maxInc *bool

	switch o.Op {
	case OrderedLess:
		max = floatPtr(o.Value)
		maxInc = boolPtr(false)
	case OrderedLessEqual:
		max = floatPtr(o.Value)
		maxInc = boolPtr(true)
	case OrderedGreater:
		min = floatPtr(o.Value)
		minInc = boolPtr(false)
	case OrderedGreaterEqual:
		min = floatPtr(o.Value)
		minInc = boolPtr(true)
	case OrderedRange:
		min, minInc = boundFloat(o.From), boundFloatInclusive(o.From)
		max, maxInc = boundFloat(o.To), boundFloatInclusive(o.To)
	}

	q := bleve.NewNumericRangeInclusiveQuery(min, max, minInc, maxInc)
	q.SetField(field)
	return q
}

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// CreateBooleanQuery wraps a single term into a one-clause boolean query
// with the given occurrence.
func CreateBooleanQuery(occur Occur, field, value string) Query {
	term := bleve.NewTermQuery(value)
	term.SetField(field)

	b := bleve.NewBooleanQuery()
	switch occur {
	case Must:
		b.AddMust(term)
	case MustNot:
		b.AddMustNot(term)
	case Should:
		b.AddShould(term)
	}
	return b
}

// Term2Query recursively lowers a structured-search AST into a
// primitive query via f, the leaf resource lowering function supplied
// by the plugin. Not lowers to a boolean query with a single must-not
// clause; callers that need a true complement must pair it with an
// all-documents clause themselves (this mirrors the original core
// exactly: a lone must-not clause matches nothing on its own in most
// inverted-index engines).
func Term2Query[R any](t Term[R], f func(R) Query) (Query, error) {
	return term2query(t, f, 0)
}

func term2query[R any](t Term[R], f func(R) Query, depth int) (Query, error) {
	if depth > maxTermDepth {
		return nil, ErrTooDeep
	}

	switch n := t.(type) {
	case Match[R]:
		return f(n.Resource), nil
	case Not[R]:
		inner, err := term2query(n.Term, f, depth+1)
		if err != nil {
			return nil, err
		}
		b := bleve.NewBooleanQuery()
		b.AddMustNot(inner)
		return b, nil
	case And[R]:
		qs := make([]Query, 0, len(n.Terms))
		for _, term := range n.Terms {
			q, err := term2query(term, f, depth+1)
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
		}
		return bleve.NewConjunctionQuery(qs...), nil
	case Or[R]:
		qs := make([]Query, 0, len(n.Terms))
		for _, term := range n.Terms {
			q, err := term2query(term, f, depth+1)
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
		}
		return bleve.NewDisjunctionQuery(qs...), nil
	default:
		return nil, fmt.Errorf("query: unknown term variant %T", t)
	}
}
