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

import "time"

// Config is the host-facing configuration surface for a [Store],
// bindable to CLI flags via pflag.StringVar/DurationVar (see
// cmd/docindex) the way the rest of the retrieved pack wires cobra/pflag
// flags to config structs.
type Config struct {
	// Dir is the on-disk directory to persist the index in. Empty means
	// in-memory-equivalent: a freshly created, randomly named temp
	// directory is used instead (see Store.New).
	Dir string

	// SyncInterval is how often a host should snapshot/persist the
	// index. The core does not act on this itself; it is carried here
	// purely as configuration surface for callers (e.g. a periodic
	// Store.Snapshot loop).
	SyncInterval time.Duration
}

// DefaultSyncInterval matches the teacher pack's own convention of a
// conservative default duration flag value.
const DefaultSyncInterval = 30 * time.Second
