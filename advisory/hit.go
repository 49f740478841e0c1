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
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2/search"

	"github.com/couchbase/docindex/index"
)

// SearchDocument is the projected view of one matched advisory.
//
// Both CVSSMin and CVSSMax are exposed rather than a single aggregate:
// spec.md §9's open question notes that the original implementation
// names its field cvss_max but updates it with a `>=` comparison,
// making it compute a minimum. Rather than guess which was intended,
// both are computed correctly here and named for what they actually
// are.
type SearchDocument struct {
	AdvisoryID      string    `json:"advisory_id"`
	AdvisoryTitle   string    `json:"advisory_title"`
	AdvisoryDate    time.Time `json:"advisory_date"`
	AdvisorySnippet string    `json:"advisory_snippet"`
	AdvisoryDesc    string    `json:"advisory_desc"`
	Cves            []string  `json:"cves"`
	CVSSMin         *float64  `json:"cvss_min,omitempty"`
	CVSSMax         *float64  `json:"cvss_max,omitempty"`
}

// SearchHit wraps a projected document with its score and, when
// requested, a structured explanation of why it matched.
type SearchHit struct {
	Document    SearchDocument `json:"document"`
	Score       float64        `json:"score"`
	Explanation any            `json:"explanation,omitempty"`
}

// ProcessHit projects a matched document, per spec.md §4.F's
// "Hit projection (process_hit)". Required fields missing from the
// stored document fail with index.ErrNotFound, per the Plugin
// contract; the snippet is taken from bleve's own highlighter output
// against advisory_description rather than a hand-rolled snippet
// generator, since Store.Search already requests highlighting for
// every field.
func (Plugin) ProcessHit(hit *search.DocumentMatch, explain bool) (any, error) {
	advisoryID, err := field2str(hit, fieldAdvisoryID)
	if err != nil {
		return nil, err
	}
	advisoryTitle, err := field2str(hit, fieldAdvisoryTitle)
	if err != nil {
		return nil, err
	}
	advisoryDate, err := field2date(hit, fieldAdvisoryCurrent)
	if err != nil {
		return nil, err
	}
	advisoryDesc, err := field2str(hit, fieldAdvisoryDescription)
	if err != nil {
		return nil, err
	}

	cves := field2strvec(hit, fieldCVEID)

	var cvssMin, cvssMax *float64
	for _, score := range field2f64vec(hit, fieldCVECvss) {
		score := score
		if cvssMin == nil || score < *cvssMin {
			cvssMin = &score
		}
		if cvssMax == nil || score > *cvssMax {
			cvssMax = &score
		}
	}

	doc := SearchDocument{
		AdvisoryID:      advisoryID,
		AdvisoryTitle:   advisoryTitle,
		AdvisoryDate:    advisoryDate,
		AdvisorySnippet: snippet(hit, fieldAdvisoryDescription),
		AdvisoryDesc:    advisoryDesc,
		Cves:            cves,
		CVSSMin:         cvssMin,
		CVSSMax:         cvssMax,
	}

	result := SearchHit{Document: doc, Score: hit.Score}
	if explain && hit.Expl != nil {
		result.Explanation = hit.Expl
	}
	return result, nil
}

func snippet(hit *search.DocumentMatch, field string) string {
	fragments, ok := hit.Fragments[field]
	if !ok || len(fragments) == 0 {
		s, _ := field2str(hit, field)
		if len(s) > 240 {
			return s[:240] + "..."
		}
		return s
	}
	if len(fragments) > 2 {
		fragments = fragments[:2]
	}
	return strings.Join(fragments, " ... ")
}

func field2str(hit *search.DocumentMatch, field string) (string, error) {
	v, ok := hit.Fields[field]
	if !ok {
		return "", index.ErrNotFound
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []any:
		if len(t) == 0 {
			return "", index.ErrNotFound
		}
		s, ok := t[0].(string)
		if !ok {
			return "", index.ErrNotFound
		}
		return s, nil
	default:
		return "", index.ErrNotFound
	}
}

func field2date(hit *search.DocumentMatch, field string) (time.Time, error) {
	s, err := field2str(hit, field)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, index.ErrNotFound
}

func field2strvec(hit *search.DocumentMatch, field string) []string {
	v, ok := hit.Fields[field]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func field2f64vec(hit *search.DocumentMatch, field string) []float64 {
	v, ok := hit.Fields[field]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return []float64{t}
	case []any:
		out := make([]float64, 0, len(t))
		for _, e := range t {
			if f, ok := e.(float64); ok {
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}
