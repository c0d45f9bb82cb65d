package mock

import (
	"context"
	"strings"

	"github.com/finsight/cardpilot/ai"
)

// MockFilterExtractor is a test double for ai.FilterExtractor.
// It allows custom behavior injection via function fields.
type MockFilterExtractor struct {
	// ExtractFiltersFunc is called by ExtractFilters if set.
	// If nil, uses default keyword-driven extraction.
	ExtractFiltersFunc func(ctx context.Context, query string) (ai.Filters, error)

	callCount int
}

// NewMockFilterExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockFilterExtractor() *MockFilterExtractor {
	return &MockFilterExtractor{}
}

// ExtractFilters extracts filters from obvious keywords in the query.
// Default behavior covers the phrasings the unit tests exercise; anything
// subtler should inject ExtractFiltersFunc.
func (m *MockFilterExtractor) ExtractFilters(ctx context.Context, query string) (ai.Filters, error) {
	m.callCount++

	if m.ExtractFiltersFunc != nil {
		return m.ExtractFiltersFunc(ctx, query)
	}

	lower := strings.ToLower(query)
	var filters ai.Filters

	if strings.Contains(lower, "no annual fee") || strings.Contains(lower, "no fee") {
		filters.FeeTier = "none"
	} else if strings.Contains(lower, "low fee") || strings.Contains(lower, "cheap") {
		filters.FeeTier = "low"
	}

	for _, network := range []string{"visa", "mastercard", "discover"} {
		if strings.Contains(lower, network) {
			filters.Networks = append(filters.Networks, network)
		}
	}

	if strings.Contains(lower, "cash back") || strings.Contains(lower, "cashback") {
		filters.RewardTypes = append(filters.RewardTypes, "cash back")
	}
	if strings.Contains(lower, "miles") {
		filters.RewardTypes = append(filters.RewardTypes, "miles")
	}

	for _, spend := range []string{"dining", "groceries", "gas", "travel"} {
		if strings.Contains(lower, spend) {
			filters.SpendingCategories = append(filters.SpendingCategories, spend)
		}
	}

	if strings.Contains(lower, "student") {
		filters.Audiences = append(filters.Audiences, "student")
	}
	if strings.Contains(lower, "welcome bonus") || strings.Contains(lower, "sign-up bonus") {
		yes := true
		filters.WantsWelcomeBonus = &yes
	}
	if strings.Contains(lower, "foreign transaction") {
		yes := true
		filters.NoForeignTxFee = &yes
	}

	return filters, nil
}

// CallCount returns the number of times ExtractFilters was called.
func (m *MockFilterExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockFilterExtractor) Reset() {
	m.callCount = 0
	m.ExtractFiltersFunc = nil
}
