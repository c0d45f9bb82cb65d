package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight/cardpilot/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// DescribeCardsFunc is called by DescribeCards if set.
	DescribeCardsFunc func(ctx context.Context, query string, cards []ai.CardInfo) (string, error)

	// AnswerAboutCardsFunc is called by AnswerAboutCards if set.
	AnswerAboutCardsFunc func(ctx context.Context, query string, cards []ai.CardInfo) (string, error)

	// ExplainFunc is called by Explain if set.
	ExplainFunc func(ctx context.Context, query string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default templated output.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// DescribeCards builds a structurally valid listing from the card facts:
// one bullet per card with a markdown link and two sentences after it.
func (m *MockGenerator) DescribeCards(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
	m.callCount++

	if m.DescribeCardsFunc != nil {
		return m.DescribeCardsFunc(ctx, query, cards)
	}

	var b strings.Builder
	for i, card := range cards {
		summary := card.Summary
		if summary == "" {
			summary = "A solid all-around pick"
		}
		fmt.Fprintf(&b, "- [%s](%s): %s. A good fit for this request (option %d).\n",
			card.Name, card.URL, strings.TrimRight(summary, "."), i+1)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// AnswerAboutCards builds a short deterministic answer naming only the given cards.
func (m *MockGenerator) AnswerAboutCards(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
	m.callCount++

	if m.AnswerAboutCardsFunc != nil {
		return m.AnswerAboutCardsFunc(ctx, query, cards)
	}

	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = fmt.Sprintf("[%s](%s)", card.Name, card.URL)
	}
	return fmt.Sprintf("Looking at %s: this depends on the details of each card.",
		strings.Join(names, ", ")), nil
}

// Explain returns a fixed explanatory answer.
func (m *MockGenerator) Explain(ctx context.Context, query string) (string, error) {
	m.callCount++

	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, query)
	}

	return fmt.Sprintf("In short: %s is a general credit-card concept; here is how it works in practice.",
		strings.TrimRight(query, "?")), nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.DescribeCardsFunc = nil
	m.AnswerAboutCardsFunc = nil
	m.ExplainFunc = nil
}
