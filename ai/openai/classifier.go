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

// Classifier implements ai.Classifier using OpenAI-compatible chat APIs.
// Every method asks the model a single yes/no question in JSON mode.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// verdict is the wrapper structure for the model's yes/no JSON response.
type verdict struct {
	Answer bool `json:"answer"`
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new classifier using the provided configuration.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// IsOnTopic reports whether the query concerns the card domain.
func (c *Classifier) IsOnTopic(ctx context.Context, query string, history []ai.Turn) (bool, error) {
	user := query
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("Conversation so far:\n")
		for _, turn := range history {
			b.WriteString(turn.Role)
			b.WriteString(": ")
			b.WriteString(turn.Content)
			b.WriteString("\n")
		}
		b.WriteString("\nLatest query: ")
		b.WriteString(query)
		user = b.String()
	}

	return c.ask(ctx, topicPrompt, user)
}

// RefersToPrevious reports whether the query refers back to items already shown.
func (c *Classifier) RefersToPrevious(ctx context.Context, query string) (bool, error) {
	return c.ask(ctx, previousReferencePrompt, query)
}

// NeedsCurrentInfo reports whether the query requires up-to-date facts.
func (c *Classifier) NeedsCurrentInfo(ctx context.Context, query string) (bool, error) {
	return c.ask(ctx, currentInfoPrompt, query)
}

func (c *Classifier) ask(ctx context.Context, system, user string) (bool, error) {
	var v verdict
	if err := generateJSON(ctx, c.client, c.logger, system, scrubString(user), &v); err != nil {
		return false, err
	}
	return v.Answer, nil
}
