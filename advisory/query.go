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

package advisory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/couchbase/docindex/index"
	"github.com/couchbase/docindex/query"
)

// resourceKind enumerates every label (and nullary predicate) the
// Vulnerabilities grammar understands, per spec.md §4.F's query-grammar
// table, supplemented with the full free-form default set recovered
// from original_source/vexination/index/src/search.rs.
type resourceKind int

const (
	resID resourceKind = iota
	resCve
	resTitle
	resDescription
	resStatus
	resSeverity
	resPackage
	resFixed
	resAffected
	resCvss
	resInitial
	resRelease
	resDiscovery
	resFinal
	resCritical
	resHigh
	resMedium
	resLow
)

// resource is the leaf payload of a Match[resource] node: a tagged
// union over the three AST payload shapes the grammar produces
// (string primary, date range, numeric range), plus the five nullary
// predicates that carry no payload at all.
type resource struct {
	kind resourceKind
	str  query.Primary[string]
	date query.Ordered[time.Time]
	cvss query.PartialOrdered[float64]
}

var stringLabels = map[string]resourceKind{
	"id":          resID,
	"cve":         resCve,
	"title":       resTitle,
	"description": resDescription,
	"status":      resStatus,
	"severity":    resSeverity,
	"package":     resPackage,
	"fixed":       resFixed,
	"affected":    resAffected,
}

var dateLabels = map[string]resourceKind{
	"initial":   resInitial,
	"release":   resRelease,
	"discovery": resDiscovery,
}

var defaultKinds = map[string]resourceKind{
	"id":          resID,
	"cve":         resCve,
	"title":       resTitle,
	"description": resDescription,
}

var nullaryPredicates = map[string]resourceKind{
	"final":    resFinal,
	"critical": resCritical,
	"high":     resHigh,
	"medium":   resMedium,
	"low":      resLow,
}

// PrepareQuery parses q per the Vulnerabilities grammar and lowers it
// to a primitive query. An empty/blank string always yields an
// all-documents query (spec.md §4.F, §8).
func (Plugin) PrepareQuery(q string) (query.Query, error) {
	if strings.TrimSpace(q) == "" {
		return bleve.NewMatchAllQuery(), nil
	}

	term, err := parseVulnerabilities(q)
	if err != nil {
		return nil, err
	}
	return query.Term2Query(term, resource2query)
}

// parseVulnerabilities tokenizes q (whitespace-separated, double-quoted
// phrases kept intact) and lowers every token into a Term[resource]
// leaf, conjoining them. "in:<label>" tokens don't themselves produce a
// term; they scope every unlabeled token of the query, wherever the
// "in:" appears, to a single default resource instead of the union of
// all four (the last "in:" wins) - the simplified analogue of sikula's
// "in:" qualifier for multi-#[search(default)] fields.
func parseVulnerabilities(q string) (query.Term[resource], error) {
	tokens := tokenize(q)

	var terms []query.Term[resource]
	scope := ""
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if strings.HasPrefix(lower, "in:") {
			scope = strings.TrimPrefix(lower, "in:")
		}
	}

	for _, tok := range tokens {
		lower := strings.ToLower(tok)

		if strings.HasPrefix(lower, "in:") {
			continue
		}

		if strings.HasPrefix(lower, "is:") {
			predicate := strings.TrimPrefix(lower, "is:")
			kind, ok := nullaryPredicates[predicate]
			if !ok {
				return nil, &index.ParserError{Msg: fmt.Sprintf("unknown predicate %q", tok)}
			}
			terms = append(terms, query.Match[resource]{Resource: resource{kind: kind}})
			continue
		}

		label, value, hasLabel := splitLabel(tok)
		if hasLabel {
			term, err := buildLabeledTerm(label, value)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
			continue
		}

		terms = append(terms, defaultTerm(tok, scope))
	}

	switch len(terms) {
	case 0:
		return query.And[resource]{}, nil
	case 1:
		return terms[0], nil
	default:
		return query.And[resource]{Terms: terms}, nil
	}
}

// tokenize splits on whitespace, treating a double-quoted run (which
// may itself follow a "label:" prefix with no intervening space) as a
// single token.
func tokenize(q string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range q {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			if inQuotes {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// splitLabel recognizes a "label:value" token against the known label
// set. Tokens whose prefix isn't a known label (e.g. "RHSA-2023:1441",
// whose embedded colon is just data) are reported as unlabeled.
func splitLabel(tok string) (label, value string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx < 0 {
		return "", tok, false
	}
	label = strings.ToLower(tok[:idx])
	if !isKnownLabel(label) {
		return "", tok, false
	}
	return label, tok[idx+1:], true
}

func isKnownLabel(label string) bool {
	if _, ok := stringLabels[label]; ok {
		return true
	}
	if _, ok := dateLabels[label]; ok {
		return true
	}
	return label == "cvss"
}

func buildLabeledTerm(label, rawValue string) (query.Term[resource], error) {
	if kind, ok := stringLabels[label]; ok {
		value, exact := unquote(rawValue)
		switch kind {
		case resPackage, resFixed, resAffected:
			value = rewriteCPE(value)
		}
		return query.Match[resource]{Resource: resource{kind: kind, str: primaryOf(value, exact)}}, nil
	}

	if kind, ok := dateLabels[label]; ok {
		ordered, err := parseDateTerm(rawValue)
		if err != nil {
			return nil, err
		}
		return query.Match[resource]{Resource: resource{kind: kind, date: ordered}}, nil
	}

	if label == "cvss" {
		partial, err := parseCvssTerm(rawValue)
		if err != nil {
			return nil, err
		}
		return query.Match[resource]{Resource: resource{kind: resCvss, cvss: partial}}, nil
	}

	return nil, &index.ParserError{Msg: fmt.Sprintf("unknown label %q", label)}
}

func defaultTerm(tok, scope string) query.Term[resource] {
	value, exact := unquote(tok)

	if scope != "" {
		if kind, ok := defaultKinds[scope]; ok {
			return query.Match[resource]{Resource: resource{kind: kind, str: primaryOf(value, exact)}}
		}
	}

	terms := make([]query.Term[resource], 0, len(defaultKinds))
	for _, kind := range []resourceKind{resID, resCve, resTitle, resDescription} {
		terms = append(terms, query.Match[resource]{Resource: resource{kind: kind, str: primaryOf(value, exact)}})
	}
	return query.Or[resource]{Terms: terms}
}

func primaryOf(value string, exact bool) query.Primary[string] {
	if exact {
		return query.Equal(value)
	}
	return query.Partial(value)
}

func unquote(s string) (value string, exact bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}
	return s, false
}

func parseDateTerm(value string) (query.Ordered[time.Time], error) {
	switch {
	case strings.Contains(value, ".."):
		parts := strings.SplitN(value, "..", 2)
		from, err := parseDate(parts[0])
		if err != nil {
			return query.Ordered[time.Time]{}, err
		}
		to, err := parseDate(parts[1])
		if err != nil {
			return query.Ordered[time.Time]{}, err
		}
		return query.RangeOrdered(query.IncludedBound(from), query.IncludedBound(to)), nil
	case strings.HasPrefix(value, ">="):
		d, err := parseDate(value[2:])
		return query.GreaterEqual(d), err
	case strings.HasPrefix(value, "<="):
		d, err := parseDate(value[2:])
		return query.LessEqual(d), err
	case strings.HasPrefix(value, ">"):
		d, err := parseDate(value[1:])
		return query.Greater(d), err
	case strings.HasPrefix(value, "<"):
		d, err := parseDate(value[1:])
		return query.Less(d), err
	default:
		d, err := parseDate(value)
		return query.EqualOrdered(d), err
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &index.ParserError{Msg: fmt.Sprintf("invalid date %q", s)}
	}
	return d.UTC(), nil
}

func parseCvssTerm(value string) (query.PartialOrdered[float64], error) {
	switch {
	case strings.Contains(value, ".."):
		parts := strings.SplitN(value, "..", 2)
		from, err := parseFloat(parts[0])
		if err != nil {
			return query.PartialOrdered[float64]{}, err
		}
		to, err := parseFloat(parts[1])
		if err != nil {
			return query.PartialOrdered[float64]{}, err
		}
		return query.RangeP(query.IncludedBound(from), query.IncludedBound(to)), nil
	case strings.HasPrefix(value, ">="):
		f, err := parseFloat(value[2:])
		return query.GreaterEqualP(f), err
	case strings.HasPrefix(value, "<="):
		f, err := parseFloat(value[2:])
		return query.LessEqualP(f), err
	case strings.HasPrefix(value, ">"):
		f, err := parseFloat(value[1:])
		return query.GreaterP(f), err
	case strings.HasPrefix(value, "<"):
		f, err := parseFloat(value[1:])
		return query.LessP(f), err
	default:
		f, err := parseFloat(value)
		if err != nil {
			return query.PartialOrdered[float64]{}, err
		}
		return query.RangeP(query.IncludedBound(f), query.IncludedBound(f)), nil
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &index.ParserError{Msg: fmt.Sprintf("invalid number %q", s)}
	}
	return f, nil
}

// resource2query lowers one resource leaf to a primitive query -
// advisory's analogue of the original's resource2query match.
func resource2query(r resource) query.Query {
	switch r.kind {
	case resID:
		return query.CreateStringQuery(fieldAdvisoryID, r.str)
	case resCve:
		return query.CreateStringQuery(fieldCVEID, r.str)
	case resTitle:
		return bleve.NewDisjunctionQuery(
			query.CreateTextQuery(fieldAdvisoryTitle, r.str),
			query.CreateTextQuery(fieldCVETitle, r.str),
		)
	case resDescription:
		return bleve.NewDisjunctionQuery(
			query.CreateTextQuery(fieldAdvisoryDescription, r.str),
			query.CreateTextQuery(fieldCVEDescription, r.str),
		)
	case resStatus:
		return query.CreateStringQuery(fieldAdvisoryStatus, r.str)
	case resSeverity:
		return query.CreateStringQuery(fieldCVESeverity, r.str)
	case resPackage:
		return bleve.NewDisjunctionQuery(
			query.CreateStringQuery(fieldCVEAffected, r.str),
			query.CreateStringQuery(fieldCVEFixed, r.str),
		)
	case resFixed:
		return query.CreateStringQuery(fieldCVEFixed, r.str)
	case resAffected:
		return query.CreateStringQuery(fieldCVEAffected, r.str)
	case resCvss:
		return query.CreatePartialOrderedQuery(fieldCVECvss, r.cvss)
	case resInitial:
		return query.CreateDateQuery(fieldAdvisoryInitial, r.date)
	case resRelease:
		return bleve.NewDisjunctionQuery(
			query.CreateDateQuery(fieldAdvisoryCurrent, r.date),
			query.CreateDateQuery(fieldCVEReleaseDate, r.date),
		)
	case resDiscovery:
		return query.CreateDateQuery(fieldCVEDiscoveryDate, r.date)
	case resFinal:
		return query.CreateStringQuery(fieldAdvisoryStatus, query.Equal("final"))
	case resCritical:
		return query.CreateStringQuery(fieldCVESeverity, query.Equal("critical"))
	case resHigh:
		return query.CreateStringQuery(fieldCVESeverity, query.Equal("high"))
	case resMedium:
		return query.CreateStringQuery(fieldCVESeverity, query.Equal("medium"))
	case resLow:
		return query.CreateStringQuery(fieldCVESeverity, query.Equal("low"))
	default:
		return bleve.NewMatchNoneQuery()
	}
}
