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

import "github.com/bytedance/sonic"

// DecodeDocument parses a CSAF-like advisory document from JSON using
// sonic's fast decoder rather than encoding/json, matching the pack's
// own JSON codec choice for document-heavy paths.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
