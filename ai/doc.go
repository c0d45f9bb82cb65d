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


// Package ai provides abstractions for the AI services used in cardpilot.
//
// This package defines interfaces for text embeddings, yes/no query
// classification, structured filter extraction, and answer generation. It
// follows the dependency inversion principle: the routing and retrieval core
// depends on these abstractions, never on a concrete client.
//
// # Design Principles
//
// The package is designed around four service interfaces plus an aggregate:
//
//   - Embedder: generates vector embeddings from text
//   - Classifier: answers the routing pipeline's yes/no questions
//   - FilterExtractor: pulls structured filter criteria out of free text
//   - Generator: produces the natural-language parts of an answer
//   - Provider: aggregates the four for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without
//     external dependencies
//
// Every service is fallible by contract, and every caller in the core has a
// documented safe default it substitutes on failure: classification errors
// assume the query is on-topic and needs retrieval, extraction errors yield
// empty filters, and generation errors yield a fixed fallback message. A
// service error therefore never fails a request outright.
package ai
