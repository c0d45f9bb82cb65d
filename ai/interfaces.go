package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier answers the yes/no classification questions the routing pipeline
// cannot settle by pattern matching alone. Every method is fallible; callers
// substitute the stage's documented safe default on error and never propagate
// the failure. Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// IsOnTopic reports whether the query concerns the card domain at all.
	// History provides conversational context, most-recent turn last.
	IsOnTopic(ctx context.Context, query string, history []Turn) (bool, error)

	// RefersToPrevious reports whether the query is an anaphoric reference
	// to recommendations already shown ("do any of these...").
	RefersToPrevious(ctx context.Context, query string) (bool, error)

	// NeedsCurrentInfo reports whether answering the query requires facts
	// fresher than the catalog (current rates, active promotions).
	NeedsCurrentInfo(ctx context.Context, query string) (bool, error)
}

// FilterExtractor turns a free-text query into structured filter criteria.
// Extraction failure must degrade to no constraint, so callers treat any
// error as "empty filters", never as a request failure.
type FilterExtractor interface {
	// ExtractFilters analyzes the query and returns the structured
	// constraints it expresses. Fields the query does not mention are left
	// at their zero values.
	ExtractFilters(ctx context.Context, query string) (Filters, error)
}

// Generator produces the natural-language portions of an answer. Its output
// is not structurally guaranteed; the render package checks and repairs it.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// DescribeCards produces a bulleted listing for the given cards, with
	// each card's name rendered as a single markdown link followed by a
	// feature description and a connecting sentence.
	DescribeCards(ctx context.Context, query string, cards []CardInfo) (string, error)

	// AnswerAboutCards answers a question using only the given cards,
	// without introducing any others.
	AnswerAboutCards(ctx context.Context, query string, cards []CardInfo) (string, error)

	// Explain answers a general definition or how-does-it-work question
	// without referencing specific catalog items.
	Explain(ctx context.Context, query string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages the Embedder, Classifier,
// FilterExtractor and Generator instances, ensuring they share configuration
// and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Classifier returns the query classification service.
	// The returned Classifier is safe for concurrent use.
	Classifier() Classifier

	// FilterExtractor returns the structured filter extraction service.
	// The returned FilterExtractor is safe for concurrent use.
	FilterExtractor() FilterExtractor

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
