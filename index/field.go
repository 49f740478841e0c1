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

import "github.com/blevesearch/bleve/v2/mapping"

// FieldType is the logical type of a Field, mirroring the primitive
// types the original tantivy-based core distinguished (text, string,
// date, f64).
type FieldType int

const (
	FieldText FieldType = iota
	FieldString
	FieldDate
	FieldF64
)

// Field is an opaque handle identifying a column in the primitive
// index. Unlike tantivy's interned Field handle, bleve addresses fields
// by name directly, so Field is a small value type a plugin's Schema
// builds once and reuses for both mapping construction and document
// lowering.
type Field struct {
	Name    string
	Type    FieldType
	Stored  bool // retrievable on hit
	Indexed bool // searchable
	Fast    bool // sortable/aggregable (bleve: DocValues)
}

// Mapping builds the bleve field mapping this Field describes.
func (f Field) Mapping() *mapping.FieldMapping {
	var fm *mapping.FieldMapping
	switch f.Type {
	case FieldText:
		fm = mapping.NewTextFieldMapping()
		fm.Analyzer = "en"
	case FieldString:
		fm = mapping.NewTextFieldMapping()
		fm.Analyzer = "keyword"
	case FieldDate:
		fm = mapping.NewDateTimeFieldMapping()
	case FieldF64:
		fm = mapping.NewNumericFieldMapping()
	}
	fm.Store = f.Stored
	fm.Index = f.Indexed
	fm.DocValues = f.Fast || f.Stored
	fm.IncludeInAll = false
	return fm
}
