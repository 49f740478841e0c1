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

// Document is a primitive, multi-valued document ready to hand to
// bleve: Fields maps a field name to one or more values (a []any when a
// field repeats, as cve_affected/cve_fixed/cve_description do in the
// worked example). A single domain document may lower to more than one
// Document (see Plugin.IndexDoc).
type Document struct {
	ID     string
	Fields map[string]any
}

// NewDocument starts an empty primitive document under id.
func NewDocument(id string) *Document {
	return &Document{ID: id, Fields: map[string]any{}}
}

// Add appends v to the values already stored under field, turning the
// entry into a slice on the second and subsequent call - the Go
// equivalent of tantivy's multi-valued Document.add_*.
func (d *Document) Add(field string, v any) {
	existing, ok := d.Fields[field]
	if !ok {
		d.Fields[field] = v
		return
	}
	switch cur := existing.(type) {
	case []any:
		d.Fields[field] = append(cur, v)
	default:
		d.Fields[field] = []any{cur, v}
	}
}

// Set overwrites field unconditionally with a single value.
func (d *Document) Set(field string, v any) {
	d.Fields[field] = v
}
