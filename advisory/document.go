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

// Package advisory is the worked-example plugin (component F): a
// CSAF-like vulnerability-advisory schema, document lowering, a small
// structured query grammar, and hit projection with snippets.
package advisory

import "time"

// Status is the CSAF document-level publication status.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusInterim Status = "interim"
	StatusFinal   Status = "final"
)

// NoteCategory distinguishes the kinds of free-text notes a CSAF
// document or vulnerability entry carries. Only Description and
// Summary notes contribute to the searchable description fields.
type NoteCategory string

const (
	NoteDescription    NoteCategory = "description"
	NoteSummary        NoteCategory = "summary"
	NoteDetails        NoteCategory = "details"
	NoteGeneral        NoteCategory = "general"
	NoteLegalDisclaimer NoteCategory = "legal_disclaimer"
)

// Note is a single free-text note attached to a document or a
// vulnerability entry.
type Note struct {
	Category NoteCategory `json:"category"`
	Text     string       `json:"text"`
	Title    string       `json:"title,omitempty"`
}

// Revision is one entry of a document's revision history.
type Revision struct {
	Date    time.Time `json:"date"`
	Number  string    `json:"number"`
	Summary string    `json:"summary"`
}

// Tracking carries the advisory's identity, status, and revision log.
type Tracking struct {
	ID                 string     `json:"id"`
	Status             Status     `json:"status"`
	InitialReleaseDate time.Time  `json:"initial_release_date"`
	CurrentReleaseDate time.Time  `json:"current_release_date"`
	RevisionHistory    []Revision `json:"revision_history,omitempty"`
}

// AggregateSeverity is the document-level severity summary.
type AggregateSeverity struct {
	Text string `json:"text"`
}

// DocumentMeta is the CSAF top-level "document" object.
type DocumentMeta struct {
	Title             string             `json:"title"`
	Tracking          Tracking           `json:"tracking"`
	Notes             []Note             `json:"notes,omitempty"`
	AggregateSeverity *AggregateSeverity `json:"aggregate_severity,omitempty"`
}

// CVSSv3 is a CVSS v3.x vector, carrying its base score and the base
// severity label the way NVD's own CVSS v3 JSON representation does
// (no CVSS calculator library exists anywhere in the retrieved pack,
// so the label travels with the document instead of being derived).
type CVSSv3 struct {
	Version      string  `json:"version"`
	VectorString string  `json:"vectorString"`
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
}

// Score is one scoring entry of a vulnerability.
type Score struct {
	CVSSV3 *CVSSv3 `json:"cvss_v3,omitempty"`
}

// CWE identifies the weakness class a vulnerability belongs to.
type CWE struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProductStatus lists the product ids affected by / fixed for a
// vulnerability. CSAF defines more status buckets (known_not_affected,
// under_investigation, recommended, first_affected, ...); only the two
// this plugin's grammar exposes (affected/fixed) are modeled.
type ProductStatus struct {
	KnownAffected []string `json:"known_affected,omitempty"`
	Fixed         []string `json:"fixed,omitempty"`
}

// Vulnerability is one CVE entry of an advisory.
type Vulnerability struct {
	CVE           string        `json:"cve,omitempty"`
	Title         string        `json:"title,omitempty"`
	Notes         []Note        `json:"notes,omitempty"`
	CWE           *CWE          `json:"cwe,omitempty"`
	Scores        []Score       `json:"scores,omitempty"`
	ProductStatus *ProductStatus `json:"product_status,omitempty"`
	DiscoveryDate *time.Time    `json:"discovery_date,omitempty"`
	ReleaseDate   *time.Time    `json:"release_date,omitempty"`
}

// ProductIdentificationHelper carries the external package identifiers
// CSAF allows a product node to declare.
type ProductIdentificationHelper struct {
	CPE  string `json:"cpe,omitempty"`
	PURL string `json:"purl,omitempty"`
}

// FullProductName names one concrete product node.
type FullProductName struct {
	ProductID                   string                       `json:"product_id"`
	Name                        string                       `json:"name,omitempty"`
	ProductIdentificationHelper *ProductIdentificationHelper `json:"product_identification_helper,omitempty"`
}

// Branch is one node of the product tree: either a leaf naming a
// product, or an interior node fanning out into further branches.
type Branch struct {
	Name     string           `json:"name,omitempty"`
	Category string           `json:"category,omitempty"`
	Product  *FullProductName `json:"product,omitempty"`
	Branches []Branch         `json:"branches,omitempty"`
}

// Relationship links a product id to the (product, related-product)
// pair it was derived from - e.g. "openssl as shipped in RHEL 8.6
// BaseOS". ProductStatus entries reference the relationship's own
// FullProductName.ProductID, not either side of the pair directly.
type Relationship struct {
	ProductReference           string          `json:"product_reference"`
	RelatesToProductReference  string          `json:"relates_to_product_reference"`
	Category                   string          `json:"category,omitempty"`
	FullProductName            FullProductName `json:"full_product_name"`
}

// ProductTree is the document-wide catalog of products and their
// relationships, resolved by id from ProductStatus entries.
type ProductTree struct {
	Branches      []Branch       `json:"branches,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// Document is the CSAF-like domain document this plugin indexes.
type Document struct {
	Doc             DocumentMeta    `json:"document"`
	ProductTree     *ProductTree    `json:"product_tree,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
}

// ProductPackage is the pair of external identifiers a resolved
// product id carries, either of which may be absent.
type ProductPackage struct {
	CPE  string
	PURL string
}
