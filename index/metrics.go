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

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeMetrics mirrors the teacher's own atomic TotalSearch/
// TotalSearchDuration counters (n1fty's FTSIndexer.stats), reimplemented
// with the pack's own prometheus client instead of hand-rolled
// sync/atomic bookkeeping. Registered once per process, since every
// Store shares the default registry.
type storeMetrics struct {
	searches       prometheus.Counter
	searchDuration prometheus.Histogram
	commits        prometheus.Counter
	snapshots      prometheus.Counter
	hitsDropped    prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *storeMetrics
)

func sharedMetrics() *storeMetrics {
	metricsOnce.Do(func() {
		const ns = "docindex"
		metrics = &storeMetrics{
			searches: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: ns,
				Name:      "searches_total",
				Help:      "Total number of Store.Search calls.",
			}),
			searchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "search_duration_seconds",
				Help:      "Duration of Store.Search calls.",
			}),
			commits: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: ns,
				Name:      "writer_commits_total",
				Help:      "Total number of Writer.Commit calls.",
			}),
			snapshots: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: ns,
				Name:      "snapshots_total",
				Help:      "Total number of Store.Snapshot calls.",
			}),
			hitsDropped: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: ns,
				Name:      "hits_dropped_total",
				Help:      "Hits dropped because ProcessHit failed (count is not decremented).",
			}),
		}
	})
	return metrics
}
