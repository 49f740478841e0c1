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

import "github.com/facebookincubator/nvdtools/wfn"

// rewriteCPE re-serializes a "cpe:/..." URI-bound identifier through a
// canonical CPE 2.2 parser so that equivalent encodings of the same
// platform converge on one indexed/queried form (spec.md §4.F,
// "CPE normalization round-trip" in §8). Values that don't look like a
// CPE URI, or fail to parse as one, pass through unchanged - mirroring
// the original's "best effort, never fatal" rewrite_cpe.
func rewriteCPE(value string) string {
	if len(value) < 5 || value[:5] != "cpe:/" {
		return value
	}
	attrs, err := wfn.UnbindURI(value)
	if err != nil {
		return value
	}
	return attrs.BindToURI()
}
