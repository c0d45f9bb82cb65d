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
	"fmt"
	"log/slog"
	"strings"

	"github.com/finsight/cardpilot/ai"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
// Its output is free text with a requested structure; the render package is
// responsible for verifying and repairing that structure.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// DescribeCards produces a bulleted markdown listing for the given cards.
func (g *Generator) DescribeCards(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
	user := fmt.Sprintf("User query: %s\n\nCards:\n%s", query, renderCardBlock(cards))

	text, err := generateText(ctx, g.client, listingPrompt, user, llms.WithTemperature(0.3))
	if err != nil {
		g.logger.Error("failed to generate card listing", "cards", len(cards), "err", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// AnswerAboutCards answers a question using only the given cards.
func (g *Generator) AnswerAboutCards(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
	user := fmt.Sprintf("User query: %s\n\nCards:\n%s", query, renderCardBlock(cards))

	text, err := generateText(ctx, g.client, cardAnswerPrompt, user, llms.WithTemperature(0.3))
	if err != nil {
		g.logger.Error("failed to generate card answer", "cards", len(cards), "err", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Explain answers a general definition question without naming catalog items.
func (g *Generator) Explain(ctx context.Context, query string) (string, error) {
	text, err := generateText(ctx, g.client, explainPrompt, query, llms.WithTemperature(0.3))
	if err != nil {
		g.logger.Error("failed to generate explanation", "err", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// renderCardBlock formats the card facts handed to the model. Only name,
// URL, and summary are exposed; the model never sees the raw catalog row.
func renderCardBlock(cards []ai.CardInfo) string {
	var b strings.Builder
	for _, card := range cards {
		fmt.Fprintf(&b, "- name: %s\n  url: %s\n  summary: %s\n", card.Name, card.URL, card.Summary)
	}
	return b.String()
}
