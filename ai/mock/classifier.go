package mock

import (
	"context"
	"strings"

	"github.com/finsight/cardpilot/ai"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// IsOnTopicFunc is called by IsOnTopic if set.
	IsOnTopicFunc func(ctx context.Context, query string, history []ai.Turn) (bool, error)

	// RefersToPreviousFunc is called by RefersToPrevious if set.
	RefersToPreviousFunc func(ctx context.Context, query string) (bool, error)

	// NeedsCurrentInfoFunc is called by NeedsCurrentInfo if set.
	NeedsCurrentInfoFunc func(ctx context.Context, query string) (bool, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with keyword-heuristic defaults.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// cardVocabulary are words whose presence makes the default mock consider a
// query on-topic.
var cardVocabulary = []string{
	"card", "credit", "fee", "apr", "reward", "cash back", "cashback",
	"miles", "points", "issuer", "visa", "mastercard", "amex", "bonus",
	"balance", "interest", "travel",
}

// IsOnTopic reports on-topic when the query contains card vocabulary.
func (m *MockClassifier) IsOnTopic(ctx context.Context, query string, history []ai.Turn) (bool, error) {
	m.callCount++

	if m.IsOnTopicFunc != nil {
		return m.IsOnTopicFunc(ctx, query, history)
	}

	lower := strings.ToLower(query)
	for _, word := range cardVocabulary {
		if strings.Contains(lower, word) {
			return true, nil
		}
	}
	return false, nil
}

// RefersToPrevious reports true for anaphoric phrasing.
func (m *MockClassifier) RefersToPrevious(ctx context.Context, query string) (bool, error) {
	m.callCount++

	if m.RefersToPreviousFunc != nil {
		return m.RefersToPreviousFunc(ctx, query)
	}

	lower := strings.ToLower(query)
	for _, phrase := range []string{"these", "those", "of them", "the first", "the second", "the last one"} {
		if strings.Contains(lower, phrase) {
			return true, nil
		}
	}
	return false, nil
}

// NeedsCurrentInfo reports true for queries about current rates or offers.
func (m *MockClassifier) NeedsCurrentInfo(ctx context.Context, query string) (bool, error) {
	m.callCount++

	if m.NeedsCurrentInfoFunc != nil {
		return m.NeedsCurrentInfoFunc(ctx, query)
	}

	lower := strings.ToLower(query)
	for _, phrase := range []string{"current", "today", "right now", "latest", "this month"} {
		if strings.Contains(lower, phrase) {
			return true, nil
		}
	}
	return false, nil
}

// CallCount returns the number of times any method was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.IsOnTopicFunc = nil
	m.RefersToPreviousFunc = nil
	m.NeedsCurrentInfoFunc = nil
}
