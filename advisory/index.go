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
	"strings"

	"github.com/couchbase/docindex/index"
)

// DocIDToTerm returns the bleve document id verbatim: unlike the
// teacher lineage's tantivy-style delete-by-term, bleve deletes by the
// document id supplied to Batch.Index, so no separate term derivation
// is needed - advisory ids (CSAF tracking.id, e.g. "RHSA-2023:1441")
// are already the identity this plugin indexes under.
func (Plugin) DocIDToTerm(id string) string { return id }

// IndexDoc lowers a *Document into a single primitive document, per
// spec.md §4.F's "Lowering (index_doc)".
func (p Plugin) IndexDoc(id string, raw any) ([]index.Document, error) {
	doc, ok := raw.(*Document)
	if !ok {
		return nil, fmt.Errorf("advisory: IndexDoc expects *advisory.Document, got %T", raw)
	}

	out := index.NewDocument(id)
	out.Set(fieldAdvisoryID, id)
	out.Set(fieldAdvisoryStatus, string(doc.Doc.Tracking.Status))
	out.Set(fieldAdvisoryTitle, doc.Doc.Title)

	for _, note := range doc.Doc.Notes {
		if note.Category == NoteDescription || note.Category == NoteSummary {
			out.Add(fieldAdvisoryDescription, note.Text)
		}
	}

	if doc.Doc.AggregateSeverity != nil {
		out.Set(fieldAdvisorySeverity, doc.Doc.AggregateSeverity.Text)
	}

	for _, rev := range doc.Doc.Tracking.RevisionHistory {
		out.Add(fieldAdvisoryRevision, rev.Summary)
	}

	out.Set(fieldAdvisoryInitial, doc.Doc.Tracking.InitialReleaseDate)
	out.Set(fieldAdvisoryCurrent, doc.Doc.Tracking.CurrentReleaseDate)

	for _, vuln := range doc.Vulnerabilities {
		indexVulnerability(out, doc, vuln)
	}

	return []index.Document{*out}, nil
}

func indexVulnerability(out *index.Document, doc *Document, vuln Vulnerability) {
	if vuln.Title != "" {
		out.Add(fieldCVETitle, vuln.Title)
	}
	if vuln.CVE != "" {
		out.Add(fieldCVEID, vuln.CVE)
	}

	for _, score := range vuln.Scores {
		if score.CVSSV3 == nil {
			continue
		}
		out.Add(fieldCVECvss, score.CVSSV3.BaseScore)
		out.Add(fieldCVESeverity, normalizeSeverity(score.CVSSV3.BaseSeverity))
	}

	if vuln.CWE != nil {
		out.Add(fieldCVECwe, vuln.CWE.ID)
	}

	for _, note := range vuln.Notes {
		if note.Category == NoteDescription {
			out.Add(fieldCVEDescription, note.Text)
		}
	}

	if vuln.ProductStatus != nil {
		for _, productID := range vuln.ProductStatus.KnownAffected {
			addProductIdentifiers(out, doc, productID, fieldCVEAffected)
		}
		for _, productID := range vuln.ProductStatus.Fixed {
			addProductIdentifiers(out, doc, productID, fieldCVEFixed)
		}
	}

	if vuln.DiscoveryDate != nil {
		out.Add(fieldCVEDiscoveryDate, *vuln.DiscoveryDate)
	}
	if vuln.ReleaseDate != nil {
		out.Add(fieldCVEReleaseDate, *vuln.ReleaseDate)
	}
}

func addProductIdentifiers(out *index.Document, doc *Document, productID, field string) {
	pp, relatedPP := findProductPackage(doc, productID)
	for _, p := range []*ProductPackage{pp, relatedPP} {
		if p == nil {
			continue
		}
		if p.CPE != "" {
			out.Add(field, rewriteCPE(p.CPE))
		}
		if p.PURL != "" {
			out.Add(field, p.PURL)
		}
	}
}

// normalizeSeverity lowercases a CVSS base severity label ("HIGH" as
// NVD's JSON schema spells it) to the form cve_severity is indexed and
// queried under ("high").
func normalizeSeverity(s string) string {
	return strings.ToLower(s)
}
