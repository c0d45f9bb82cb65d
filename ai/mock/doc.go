// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Classifier,
// ai.FilterExtractor, ai.Generator, and ai.Provider for use in unit tests.
// The mocks allow tests to run without external AI service dependencies and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
// The defaults are rich enough to run the full routing pipeline offline:
//
//   - MockEmbedder: deterministic vectors from a text hash, with shared
//     keyword dimensions so related texts score above unrelated ones
//   - MockClassifier: keyword heuristics (card vocabulary for topic,
//     anaphora for previous-reference, "current"/"rate" for freshness)
//   - MockFilterExtractor: keyword-driven structured filters
//   - MockGenerator: templated listings built from the given card facts
package mock
