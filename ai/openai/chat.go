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
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/finsight/cardpilot/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// errNoChoices is returned when the model produces no completion choices.
var errNoChoices = errors.New("no choices returned from model")

// newChatClient creates a langchaingo chat client for classification,
// extraction, and generation against the configured chat host.
// Uses "none" as token for local OpenAI-compatible services that don't
// require authentication.
func newChatClient(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
}

// generateText runs one chat completion and returns the raw text of the
// first choice.
func generateText(ctx context.Context, client llms.Model, system, user string, opts ...llms.CallOption) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	response, err := client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errNoChoices
	}
	return response.Choices[0].Content, nil
}

// generateJSON runs a chat completion in JSON mode at temperature 0 and
// unmarshals the response into out. Markdown code fences are stripped and
// common JSON defects repaired before parsing. Tries up to 3 times in case
// of malformed JSON.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger, system, user string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		text, err := generateText(ctx, client, system, user,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		text = strings.TrimSpace(text)
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
		text = repairJSON(text)

		if err := json.Unmarshal([]byte(text), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", text,
				"err", err)
			continue
		}
		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return lastErr
}
