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
	"log/slog"
	"sync"
	"time"

	"github.com/finsight/cardpilot/core"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = 15 * time.Minute

// Catalog caches the product list fetched from a Source. A fetch failure
// after a successful one serves the stale copy rather than failing the
// request; the catalog changes rarely and an outdated list beats no list.
type Catalog struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	cached    []core.Product
	fetchedAt time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithTTL overrides the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// NewCatalog creates a cached catalog over source.
func NewCatalog(source Source, opts ...Option) (*Catalog, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	c := &Catalog{
		source: source,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Products returns the catalog, fetching when the cache is cold, expired or
// force is set. Returns ErrEmptyCatalog when the source yields no rows and
// nothing cached can stand in.
func (c *Catalog) Products(ctx context.Context, force bool) ([]core.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl
	if fresh && !force {
		return c.cached, nil
	}

	products, err := c.source.Fetch(ctx)
	if err != nil {
		if c.cached != nil {
			c.logger.Warn("catalog fetch failed, serving stale copy",
				"error", err, "age", c.now().Sub(c.fetchedAt))
			return c.cached, nil
		}
		return nil, err
	}

	products = sanitize(products, c.logger)
	if len(products) == 0 {
		if c.cached != nil {
			c.logger.Warn("catalog fetch returned no products, serving stale copy")
			return c.cached, nil
		}
		return nil, ErrEmptyCatalog
	}

	c.cached = products
	c.fetchedAt = c.now()
	return c.cached, nil
}

// sanitize drops invalid rows and fills in derived IDs.
func sanitize(products []core.Product, logger *slog.Logger) []core.Product {
	kept := make([]core.Product, 0, len(products))
	for i := range products {
		if err := core.ValidateProduct(&products[i]); err != nil {
			logger.Warn("dropping invalid catalog product", "error", err)
			continue
		}
		if products[i].Id == 0 {
			products[i].Id = core.IDFromContent(products[i].Name)
		}
		kept = append(kept, products[i])
	}
	return kept
}
