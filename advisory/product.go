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

// findProductIdentifier walks a branch list depth-first looking for a
// leaf product matching id, returning its identification helper if
// found. Mirrors the original's recursive find_product_identifier
// exactly (direct product_id match, then recurse into sub-branches).
func findProductIdentifier(branches []Branch, id string) *ProductIdentificationHelper {
	for _, b := range branches {
		if b.Product != nil && b.Product.ProductID == id {
			if b.Product.ProductIdentificationHelper != nil {
				return b.Product.ProductIdentificationHelper
			}
		}
		if len(b.Branches) > 0 {
			if ret := findProductIdentifier(b.Branches, id); ret != nil {
				return ret
			}
		}
	}
	return nil
}

// findProductRef looks up the (product_reference, relates_to_product_reference)
// pair for a relationship-derived product id - the two-level indirection
// CSAF's product_status entries reference through, rather than naming a
// tree leaf directly.
func findProductRef(tree *ProductTree, id string) (string, string, bool) {
	if tree == nil {
		return "", "", false
	}
	for _, r := range tree.Relationships {
		if r.FullProductName.ProductID == id {
			return r.ProductReference, r.RelatesToProductReference, true
		}
	}
	return "", "", false
}

// findProductPackage resolves a product_status entry's product id into
// the (direct, related) identifier pairs the original carries through
// as two independently-optional ProductPackage values.
func findProductPackage(doc *Document, id string) (pp, relatedPP *ProductPackage) {
	if doc.ProductTree == nil {
		return nil, nil
	}
	ref, relatedRef, ok := findProductRef(doc.ProductTree, id)
	if !ok {
		return nil, nil
	}
	branches := doc.ProductTree.Branches

	if h := findProductIdentifier(branches, ref); h != nil {
		pp = &ProductPackage{CPE: h.CPE, PURL: h.PURL}
	}
	if h := findProductIdentifier(branches, relatedRef); h != nil {
		relatedPP = &ProductPackage{CPE: h.CPE, PURL: h.PURL}
	}
	return pp, relatedPP
}
