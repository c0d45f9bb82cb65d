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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/finsight/cardpilot/ai"
	"github.com/tmc/langchaingo/llms"
)

// FilterExtractor implements ai.FilterExtractor using OpenAI-compatible chat APIs.
type FilterExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newFilterExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFilterExtractor(config *ai.Config) (*FilterExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &FilterExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewFilterExtractor creates a new filter extractor using the provided
// configuration.
//
// Returns ai.FilterExtractor interface to enforce abstraction.
func NewFilterExtractor(config *ai.Config) (ai.FilterExtractor, error) {
	return newFilterExtractor(config)
}

// ExtractFilters pulls structured filter criteria out of a free-text query
// using an LLM. Tag values are normalized to lowercase. Callers must treat
// any returned error as "no constraint": extraction failure degrades to
// empty filters by contract.
func (e *FilterExtractor) ExtractFilters(ctx context.Context, query string) (ai.Filters, error) {
	var filters ai.Filters
	if err := generateJSON(ctx, e.client, e.logger, extractionPrompt, scrubString(query), &filters); err != nil {
		return ai.Filters{}, err
	}

	filters.FeeTier = strings.ToLower(strings.TrimSpace(filters.FeeTier))
	filters.Categories = normalizeTags(filters.Categories)
	filters.Issuers = normalizeTags(filters.Issuers)
	filters.Networks = normalizeTags(filters.Networks)
	filters.RewardTypes = normalizeTags(filters.RewardTypes)
	filters.SpendingCategories = normalizeTags(filters.SpendingCategories)
	filters.Audiences = normalizeTags(filters.Audiences)

	return filters, nil
}

// normalizeTags lowercases and trims tag values, dropping empties.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
