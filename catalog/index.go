// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/core"
	"github.com/finsight/cardpilot/rank"
	"github.com/finsight/cardpilot/storage"
)

// defaultBatchSize is how many products go into one embedding request.
const defaultBatchSize = 16

// Index builds embedded catalog snapshots and publishes them atomically.
// Concurrent readers always see a complete snapshot.
type Index struct {
	embedder  ai.Embedder
	store     storage.SnapshotStore
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
	current   atomic.Pointer[core.Snapshot]
}

// IndexOption configures an Index.
type IndexOption func(*Index) error

// WithStore attaches a snapshot store. Rebuilt snapshots are persisted to it
// and LoadPersisted reads from it.
func WithStore(store storage.SnapshotStore) IndexOption {
	return func(idx *Index) error {
		idx.store = store
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) IndexOption {
	return func(idx *Index) error {
		if size < 1 {
			size = 1
		}
		if idx.pool != nil {
			idx.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		idx.pool = pool
		return nil
	}
}

// WithBatchSize sets how many products share one embedding request.
func WithBatchSize(size int) IndexOption {
	return func(idx *Index) error {
		if size < 1 {
			size = 1
		}
		idx.batchSize = size
		return nil
	}
}

// WithIndexLogger sets the logger.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// NewIndex creates a snapshot index over embedder.
func NewIndex(embedder ai.Embedder, opts ...IndexOption) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		embedder:  embedder,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(idx); optErr != nil {
			idx.Release()
			return nil, optErr
		}
	}
	return idx, nil
}

// Snapshot returns the current snapshot, or nil when none has been built or
// loaded yet.
func (idx *Index) Snapshot() *core.Snapshot {
	return idx.current.Load()
}

// Rebuild embeds the products, publishes the resulting snapshot, and
// persists it when a store is attached. Persistence failure is logged, not
// returned: the fresh snapshot is already serving.
func (idx *Index) Rebuild(ctx context.Context, products []core.Product) (*core.Snapshot, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	texts := make([]string, len(products))
	for i := range products {
		texts[i] = embedText(&products[i])
	}

	vectors := make([][]float32, len(products))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for start := 0; start < len(texts); start += idx.batchSize {
		end := start + idx.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		if err := idx.pool.Submit(func() {
			defer wg.Done()
			batch, err := idx.embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			for i, vector := range batch {
				vectors[start+i] = rank.NormalizeVector(vector)
			}
		}); err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	snap := &core.Snapshot{
		Products: append([]core.Product(nil), products...),
		Vectors:  make([]core.ProductVector, 0, len(products)),
		BuiltAt:  time.Now().UTC(),
	}
	for i := range products {
		if len(vectors[i]) == 0 {
			idx.logger.Warn("embedder returned empty vector, product will not rank",
				"name", products[i].Name)
			continue
		}
		snap.Vectors = append(snap.Vectors, core.ProductVector{
			Id:     products[i].Id,
			Vector: vectors[i],
		})
	}
	if err := core.ValidateSnapshot(snap); err != nil {
		return nil, err
	}

	idx.current.Store(snap)
	idx.logger.Info("snapshot rebuilt",
		"products", len(snap.Products), "vectors", len(snap.Vectors))

	if idx.store != nil {
		if err := idx.store.SaveSnapshot(ctx, snap); err != nil {
			idx.logger.Warn("failed to persist snapshot", "error", err)
		}
	}
	return snap, nil
}

// LoadPersisted publishes the snapshot saved in the attached store. Returns
// ErrNoSnapshot when no store is attached or nothing was ever saved.
func (idx *Index) LoadPersisted(ctx context.Context) (*core.Snapshot, error) {
	if idx.store == nil {
		return nil, ErrNoSnapshot
	}
	snap, err := idx.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	if err := core.ValidateSnapshot(snap); err != nil {
		return nil, err
	}
	idx.current.Store(snap)
	idx.logger.Info("snapshot loaded from store",
		"products", len(snap.Products), "built_at", snap.BuiltAt)
	return snap, nil
}

// Release releases the worker pool. The index should not be used after
// calling Release.
func (idx *Index) Release() {
	if idx.pool != nil {
		idx.pool.Release()
	}
}

// embedText is the text a product is embedded under: the name plus the
// descriptive fields that carry meaning for similarity.
func embedText(product *core.Product) string {
	parts := []string{product.Name}
	if summary := product.Summary(); summary != "" {
		parts = append(parts, summary)
	}
	if rewards, ok := product.Attr(core.RewardsAliases); ok {
		parts = append(parts, rewards)
	}
	if category, ok := product.Attr(core.CategoryAliases); ok {
		parts = append(parts, category)
	}
	if audience, ok := product.Attr(core.AudienceAliases); ok {
		parts = append(parts, audience)
	}
	return strings.Join(parts, ". ")
}
