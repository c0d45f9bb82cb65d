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


// Package cardpilot answers free-text questions about a credit-card catalog.
// The Advisor facade wires the catalog loader, the embedding index, the
// classification pipeline, filtering, similarity ranking, result assembly and
// output validation into a single Ask entry point.
package cardpilot

import (
	"context"
	"log/slog"
	"time"

	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/ai/openai"
	"github.com/finsight/cardpilot/assemble"
	"github.com/finsight/cardpilot/catalog"
	"github.com/finsight/cardpilot/classify"
	"github.com/finsight/cardpilot/core"
	"github.com/finsight/cardpilot/filter"
	"github.com/finsight/cardpilot/rank"
	"github.com/finsight/cardpilot/render"
	"github.com/finsight/cardpilot/storage"
	"github.com/finsight/cardpilot/storage/badger"
)

// Advisor is the top-level entry point. It owns the AI provider, the catalog
// cache and vector index, and the request pipeline stages. An Advisor is safe
// for concurrent Ask calls.
type Advisor struct {
	provider  ai.Provider
	catalog   *catalog.Catalog
	index     *catalog.Index
	store     storage.SnapshotStore
	pipeline  *classify.Pipeline
	engine    *filter.Engine
	ranker    *rank.Ranker
	assembler *assemble.Assembler
	validator *render.Validator
	logger    *slog.Logger

	maxResults int
	rankDepth  int
}

// AdvisorOption configures an Advisor.
type AdvisorOption func(*advisorOptions)

type advisorOptions struct {
	aiConfig       *ai.Config
	provider       ai.Provider
	store          storage.SnapshotStore
	storePath      string
	maxResults     int
	lowFeeCeiling  float64
	matchThreshold float64
	featuredLimit  int
	catalogTTL     time.Duration
	logger         *slog.Logger
}

// WithAIConfig sets the OpenAI provider configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) AdvisorOption {
	return func(o *advisorOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an AI provider directly, bypassing OpenAI construction.
func WithProvider(provider ai.Provider) AdvisorOption {
	return func(o *advisorOptions) {
		o.provider = provider
	}
}

// WithStorePath persists catalog snapshots to a Badger database at path, so a
// restarted process can serve from the last built index before its first
// refresh completes.
func WithStorePath(path string) AdvisorOption {
	return func(o *advisorOptions) {
		o.storePath = path
	}
}

// WithStore injects a snapshot store directly.
// Ignored when WithStorePath is also given.
func WithStore(store storage.SnapshotStore) AdvisorOption {
	return func(o *advisorOptions) {
		o.store = store
	}
}

// WithMaxResults caps the number of recommendations per answer.
// Default is assemble.DefaultMaxResults.
func WithMaxResults(n int) AdvisorOption {
	return func(o *advisorOptions) {
		if n > 0 {
			o.maxResults = n
		}
	}
}

// WithLowFeeCeiling overrides the dollar ceiling for the "low fee" tier.
func WithLowFeeCeiling(ceiling float64) AdvisorOption {
	return func(o *advisorOptions) {
		o.lowFeeCeiling = ceiling
	}
}

// WithMatchThreshold overrides the fuzzy-match score above which a query is
// treated as naming one specific card. Default is
// classify.DefaultMatchThreshold.
func WithMatchThreshold(threshold float64) AdvisorOption {
	return func(o *advisorOptions) {
		if threshold > 0 {
			o.matchThreshold = threshold
		}
	}
}

// WithFeaturedInjectLimit caps how many featured cards may be spliced into a
// slate the organic ranking left without one. Default is
// assemble.DefaultFeaturedInjectLimit.
func WithFeaturedInjectLimit(n int) AdvisorOption {
	return func(o *advisorOptions) {
		if n >= 0 {
			o.featuredLimit = n
		}
	}
}

// WithCatalogTTL overrides how long fetched catalog rows are served from
// cache. Default is catalog.DefaultTTL.
func WithCatalogTTL(ttl time.Duration) AdvisorOption {
	return func(o *advisorOptions) {
		o.catalogTTL = ttl
	}
}

// WithLogger sets the logger for the Advisor and every stage it constructs.
func WithLogger(logger *slog.Logger) AdvisorOption {
	return func(o *advisorOptions) {
		o.logger = logger
	}
}

// NewAdvisor builds an Advisor over the given catalog source. Without
// WithProvider an OpenAI provider is constructed from the AI config; without
// WithStorePath or WithStore, snapshots live only in memory.
func NewAdvisor(source catalog.Source, opts ...AdvisorOption) (*Advisor, error) {
	options := &advisorOptions{
		aiConfig:       ai.DefaultConfig(),
		maxResults:     assemble.DefaultMaxResults,
		matchThreshold: classify.DefaultMatchThreshold,
		featuredLimit:  assemble.DefaultFeaturedInjectLimit,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		p, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	store := options.store
	if options.storePath != "" {
		s, err := badger.NewSnapshotStore(options.storePath)
		if err != nil {
			provider.Close()
			return nil, err
		}
		store = s
	}

	catalogOpts := []catalog.Option{catalog.WithLogger(options.logger)}
	if options.catalogTTL > 0 {
		catalogOpts = append(catalogOpts, catalog.WithTTL(options.catalogTTL))
	}
	cat, err := catalog.NewCatalog(source, catalogOpts...)
	if err != nil {
		closeQuietly(store, provider, options.logger)
		return nil, err
	}

	indexOpts := []catalog.IndexOption{catalog.WithIndexLogger(options.logger)}
	if store != nil {
		indexOpts = append(indexOpts, catalog.WithStore(store))
	}
	index, err := catalog.NewIndex(provider.Embedder(), indexOpts...)
	if err != nil {
		closeQuietly(store, provider, options.logger)
		return nil, err
	}

	pipeline, err := classify.NewPipeline(provider.Classifier(),
		classify.WithLogger(options.logger),
		classify.WithMatchThreshold(options.matchThreshold))
	if err != nil {
		index.Release()
		closeQuietly(store, provider, options.logger)
		return nil, err
	}

	engineOpts := []filter.Option{filter.WithLogger(options.logger)}
	if options.lowFeeCeiling > 0 {
		engineOpts = append(engineOpts, filter.WithLowFeeCeiling(options.lowFeeCeiling))
	}

	return &Advisor{
		provider: provider,
		catalog:  cat,
		index:    index,
		store:    store,
		pipeline: pipeline,
		engine:   filter.NewEngine(engineOpts...),
		ranker:   rank.NewRanker(rank.WithLogger(options.logger)),
		assembler: assemble.NewAssembler(
			assemble.WithMaxResults(options.maxResults),
			assemble.WithFeaturedInjectLimit(options.featuredLimit),
			assemble.WithLogger(options.logger),
		),
		validator:  render.NewValidator(render.WithLogger(options.logger)),
		logger:     options.logger,
		maxResults: options.maxResults,
		rankDepth:  options.maxResults * 4,
	}, nil
}

// Refresh fetches the catalog and rebuilds the vector index. force bypasses
// the catalog's TTL cache. The returned snapshot is already published for
// subsequent Ask calls.
func (a *Advisor) Refresh(ctx context.Context, force bool) (*core.Snapshot, error) {
	products, err := a.catalog.Products(ctx, force)
	if err != nil {
		return nil, err
	}
	return a.index.Rebuild(ctx, products)
}

// Warm ensures a snapshot is available before the first Ask: it tries the
// persisted snapshot first and falls back to a full refresh.
func (a *Advisor) Warm(ctx context.Context) error {
	if a.index.Snapshot() != nil {
		return nil
	}
	if _, err := a.index.LoadPersisted(ctx); err == nil {
		return nil
	}
	_, err := a.Refresh(ctx, false)
	return err
}

// Close releases the AI provider, the index worker pool and the snapshot
// store.
func (a *Advisor) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	a.index.Release()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("error closing snapshot store", "err", err)
			return err
		}
	}
	return nil
}

// snapshot returns the freshest snapshot it can get without failing the
// request: the published one, then the persisted one, then a full refresh.
// Returns nil when every path fails.
func (a *Advisor) snapshot(ctx context.Context) *core.Snapshot {
	if snap := a.index.Snapshot(); snap != nil {
		return snap
	}
	if snap, err := a.index.LoadPersisted(ctx); err == nil {
		return snap
	}
	snap, err := a.Refresh(ctx, false)
	if err != nil {
		a.logger.Warn("no catalog snapshot available", "err", err)
		return nil
	}
	return snap
}

func closeQuietly(store storage.SnapshotStore, provider ai.Provider, logger *slog.Logger) {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("error closing snapshot store", "err", err)
		}
	}
	if err := provider.Close(); err != nil {
		logger.Error("error closing AI provider", "err", err)
	}
}
