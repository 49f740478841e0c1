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
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	bleve "github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

// Store owns the search index handle, the optional directory path, and
// the plugin instance (component D). It admits at most one live
// [Writer] at a time and services concurrent [Store.Search] calls
// against bleve's own internal reader snapshots.
type Store struct {
	idx    bleve.Index
	dir    string
	plugin Plugin
	log    *zap.Logger
	mx     *storeMetrics

	// writerMu enforces the "at most one live writer" invariant that
	// bleve's scorch engine does not itself enforce the way tantivy
	// refuses a second IndexWriter. It doubles as the directory lock
	// Snapshot takes, since bleve exposes no equivalent to tantivy's
	// acquirable INDEX_WRITER_LOCK.
	writerMu sync.Mutex
	hasWriter bool
}

func newStore(idx bleve.Index, dir string, plugin Plugin) *Store {
	return &Store{
		idx:    idx,
		dir:    dir,
		plugin: plugin,
		log:    zap.NewNop(),
		mx:     sharedMetrics(),
	}
}

// SetLogger wires a host's zap logger into this Store.
func (s *Store) SetLogger(l *zap.Logger) { s.log = l }

// NewInMemory builds an engine backed by volatile storage (path is unset).
func NewInMemory(plugin Plugin) (*Store, error) {
	idx, err := bleve.NewMemOnly(plugin.Schema())
	if err != nil {
		return nil, &IOError{Err: err}
	}
	logSettings(zap.NewNop(), plugin)
	return newStore(idx, "", plugin), nil
}

// New opens (or creates) an engine bound to a directory. If
// cfg.Dir is unset, a randomly named directory under the system temp
// root is created and used instead (pattern "index.<u32>"), matching
// spec.md §4.D. On first open the directory is created; on re-open the
// existing index is reused.
func New(cfg Config, plugin Plugin) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		name := fmt.Sprintf("index.%d", rand.Uint32())
		dir = filepath.Join(os.TempDir(), name)
	}

	idx, err := bleve.Open(dir)
	switch err {
	case nil:
		// existing index reused as-is.
	case bleve.ErrorIndexPathDoesNotExist, bleve.ErrorIndexMetaMissing:
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpen, mkErr)
		}
		idx, err = bleve.New(dir, plugin.Schema())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpen, err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	logSettings(zap.NewNop(), plugin)
	return newStore(idx, dir, plugin), nil
}

func logSettings(log *zap.Logger, plugin Plugin) {
	s := plugin.Settings()
	log.Debug("index settings",
		zap.String("sort_field", s.SortField),
		zap.Bool("sort_descending", s.SortDescending),
		zap.String("doc_compressor", s.DocCompressor))
}

// Index returns the plugin instance this store was built with.
func (s *Store) Index() Plugin { return s.plugin }

// Dir returns the bound directory, or "" for an in-memory store.
func (s *Store) Dir() string { return s.dir }

// Writer allocates a writer backed by a fresh in-memory bleve.Batch.
// No memory budget is applied: the batch grows with every buffered
// mutation until Commit. Fails with *SearchError if one is already live.
func (s *Store) Writer() (*Writer, error) {
	s.writerMu.Lock()
	if s.hasWriter {
		s.writerMu.Unlock()
		return nil, &SearchError{Err: fmt.Errorf("a writer is already live for this store")}
	}
	s.hasWriter = true
	s.writerMu.Unlock()

	return &Writer{
		store: s,
		batch: s.idx.NewBatch(),
	}, nil
}

func (s *Store) releaseWriter() {
	s.writerMu.Lock()
	s.hasWriter = false
	s.writerMu.Unlock()
}

// Search acquires a reader snapshot, prepares the query via the
// plugin, runs it with offset/size pagination plus a total-count
// collector, and projects every hit through the plugin. Hits whose
// projection fails are logged and skipped; the returned total count
// reflects the engine's match count, not the post-projection survivor
// count (spec.md §7/§9).
func (s *Store) Search(q string, offset, size int, explain bool) ([]any, int, error) {
	start := time.Now()
	defer func() {
		s.mx.searches.Inc()
		s.mx.searchDuration.Observe(time.Since(start).Seconds())
	}()

	query, err := s.plugin.PrepareQuery(q)
	if err != nil {
		return nil, 0, err
	}
	s.log.Debug("processed query", zap.String("q", q))

	req := bleve.NewSearchRequestOptions(query, size, offset, explain)
	req.Fields = []string{"*"}
	req.Highlight = bleve.NewHighlight()

	settings := s.plugin.Settings()
	if settings.SortField != "" {
		field := settings.SortField
		if settings.SortDescending {
			field = "-" + field
		}
		req.SortBy([]string{field})
	}

	res, err := s.idx.SearchInContext(context.Background(), req)
	if err != nil {
		return nil, 0, &SearchError{Err: err}
	}
	s.log.Debug("found docs", zap.Uint64("count", res.Total))

	hits := make([]any, 0, len(res.Hits))
	for _, hit := range res.Hits {
		value, err := s.plugin.ProcessHit(hit, explain)
		if err != nil {
			s.log.Warn("error processing hit", zap.String("id", hit.ID), zap.Error(err))
			s.mx.hitsDropped.Inc()
			continue
		}
		hits = append(hits, value)
	}
	s.log.Debug("filtered hits", zap.Int("kept", len(hits)))

	return hits, int(res.Total), nil
}
