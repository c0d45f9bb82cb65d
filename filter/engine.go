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


// Package filter evaluates structured filter criteria against the product
// catalog. Criteria compose with AND semantics, each criterion is evaluated
// independently, and unknown attribute values are handled conservatively per
// criterion: a fee ceiling excludes unknown-fee products, while a no-fee
// requirement demands positive evidence of a zero fee.
//
// The engine returns the exact matching subset in original order, with no
// scoring. An empty result is returned as-is; relaxing constraints is an
// orchestrator-level policy decision, never the engine's.
package filter

import (
	"log/slog"

	"github.com/finsight/cardpilot/core"
)

// DefaultLowFeeCeiling is the dollar ceiling for the "low" fee tier.
const DefaultLowFeeCeiling = 100.0

// Engine evaluates FilterCriteria against product sets.
type Engine struct {
	lowFeeCeiling float64
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLowFeeCeiling overrides the "low fee" dollar ceiling.
// Default is DefaultLowFeeCeiling.
func WithLowFeeCeiling(ceiling float64) Option {
	return func(e *Engine) {
		if ceiling > 0 {
			e.lowFeeCeiling = ceiling
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a new filter engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lowFeeCeiling: DefaultLowFeeCeiling,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the subset of products matching every set criterion, in the
// original order. The result is always a subset of products; an empty result
// means nothing matched.
func (e *Engine) Apply(criteria core.FilterCriteria, products []core.Product) []core.Product {
	if criteria.IsEmpty() {
		return products
	}

	matched := make([]core.Product, 0, len(products))
	for i := range products {
		if e.matches(criteria, &products[i]) {
			matched = append(matched, products[i])
		}
	}

	e.logger.Debug("applied filter criteria", "in", len(products), "out", len(matched))
	return matched
}

// matches evaluates every set criterion against one product, AND-composed.
func (e *Engine) matches(criteria core.FilterCriteria, p *core.Product) bool {
	switch criteria.FeeTier {
	case core.FeeTierNone:
		if !p.HasZeroFee() {
			return false
		}
	case core.FeeTierLow:
		fee, known := p.AnnualFee()
		if !known || fee > e.lowFeeCeiling {
			return false
		}
	}

	if criteria.MaxAnnualFee != nil {
		fee, known := p.AnnualFee()
		// Unknown fee is excluded: a ceiling needs evidence the product
		// is under it.
		if !known || fee > *criteria.MaxAnnualFee {
			return false
		}
	}

	if len(criteria.Issuers) > 0 && !matchesAnyTag(p, criteria.Issuers, core.IssuerAliases) {
		return false
	}
	if len(criteria.Networks) > 0 && !matchesAnyTag(p, criteria.Networks, core.NetworkAliases) {
		return false
	}
	if len(criteria.Categories) > 0 && !matchesAnyTag(p, criteria.Categories, core.CategoryAliases) {
		return false
	}
	if len(criteria.Audiences) > 0 && !matchesAnyTag(p, criteria.Audiences, core.AudienceAliases) {
		return false
	}
	if len(criteria.SpendingCategories) > 0 && !matchesAnySpending(p, criteria.SpendingCategories) {
		return false
	}

	if len(criteria.RewardTypes) > 0 {
		any := false
		for _, rewardType := range criteria.RewardTypes {
			if matchesRewardType(p, rewardType) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}

	if criteria.WantsWelcomeBonus != nil && *criteria.WantsWelcomeBonus && !hasWelcomeBonus(p) {
		return false
	}
	if criteria.NoForeignTxFee != nil && *criteria.NoForeignTxFee && !hasNoForeignTxFee(p) {
		return false
	}

	return true
}
