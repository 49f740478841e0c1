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
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/couchbase/docindex/index"
)

// Primitive field names, exactly as spec.md §4.F's schema table names
// them. Kept as package constants rather than a Fields struct (unlike
// the teacher lineage's interned tantivy Field handles) since bleve
// addresses fields by name directly - see index.Field's doc comment.
const (
	fieldAdvisoryID          = "advisory_id"
	fieldAdvisoryStatus      = "advisory_status"
	fieldAdvisoryTitle       = "advisory_title"
	fieldAdvisoryDescription = "advisory_description"
	fieldAdvisoryRevision    = "advisory_revision"
	fieldAdvisorySeverity    = "advisory_severity"
	fieldAdvisoryInitial     = "advisory_initial_date"
	fieldAdvisoryCurrent     = "advisory_current_date"

	fieldCVEID            = "cve_id"
	fieldCVETitle         = "cve_title"
	fieldCVEDescription   = "cve_description"
	fieldCVEDiscoveryDate = "cve_discovery_date"
	fieldCVEReleaseDate   = "cve_release_date"
	fieldCVESeverity      = "cve_severity"
	fieldCVEAffected      = "cve_affected"
	fieldCVEFixed         = "cve_fixed"
	fieldCVECvss          = "cve_cvss"
	fieldCVECwe           = "cve_cwe"
)

var schemaFields = []index.Field{
	{Name: fieldAdvisoryID, Type: index.FieldString, Stored: true, Indexed: true, Fast: true},
	{Name: fieldAdvisoryStatus, Type: index.FieldString, Indexed: true},
	{Name: fieldAdvisoryTitle, Type: index.FieldText, Stored: true, Indexed: true},
	{Name: fieldAdvisoryDescription, Type: index.FieldText, Stored: true, Indexed: true},
	{Name: fieldAdvisoryRevision, Type: index.FieldString, Stored: true, Indexed: true},
	{Name: fieldAdvisorySeverity, Type: index.FieldString, Stored: true, Indexed: true},
	{Name: fieldAdvisoryInitial, Type: index.FieldDate, Indexed: true},
	{Name: fieldAdvisoryCurrent, Type: index.FieldDate, Stored: true, Indexed: true, Fast: true},

	{Name: fieldCVEID, Type: index.FieldString, Stored: true, Indexed: true, Fast: true},
	{Name: fieldCVETitle, Type: index.FieldText, Stored: true, Indexed: true},
	{Name: fieldCVEDescription, Type: index.FieldText, Stored: true, Indexed: true},
	{Name: fieldCVEDiscoveryDate, Type: index.FieldDate, Indexed: true},
	{Name: fieldCVEReleaseDate, Type: index.FieldDate, Stored: true, Indexed: true},
	{Name: fieldCVESeverity, Type: index.FieldString, Indexed: true, Fast: true},
	{Name: fieldCVEAffected, Type: index.FieldString, Stored: true, Indexed: true},
	{Name: fieldCVEFixed, Type: index.FieldString, Stored: true, Indexed: true},
	{Name: fieldCVECvss, Type: index.FieldF64, Stored: true, Indexed: true, Fast: true},
	{Name: fieldCVECwe, Type: index.FieldString, Stored: true, Indexed: true},
}

// Plugin implements index.Plugin over the CSAF-like advisory model.
type Plugin struct{}

// NewPlugin constructs the advisory worked-example plugin.
func NewPlugin() *Plugin { return &Plugin{} }

// Settings sorts by the advisory's current release date, descending -
// the newest advisory first, matching the original's index-wide sort
// order. DocCompressor is informational only (see index.Settings).
func (Plugin) Settings() index.Settings {
	return index.Settings{
		SortField:      fieldAdvisoryCurrent,
		SortDescending: true,
		DocCompressor:  "zstd",
	}
}

// Schema builds the flat single-document-type mapping every primitive
// field above lives under.
func (Plugin) Schema() *mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	dm := bleve.NewDocumentMapping()
	for _, f := range schemaFields {
		dm.AddFieldMappingsAt(f.Name, f.Mapping())
	}
	im.DefaultMapping = dm
	return im
}
