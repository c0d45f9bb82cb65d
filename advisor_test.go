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


package cardpilot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/ai/mock"
	"github.com/finsight/cardpilot/catalog"
	"github.com/finsight/cardpilot/core"
	"github.com/finsight/cardpilot/render"
)

func testCatalog() []core.Product {
	return []core.Product{
		{Name: "Skyline Voyager", URL: "https://cards.example/skyline-voyager", Attributes: map[string]string{
			"annual_fee":  "$95",
			"brand_group": "skyline",
			"rewards":     "2x miles on travel",
			"summary":     "Earns 2x miles on travel and dining. No foreign transaction fees.",
		}},
		{Name: "Summit Reserve", URL: "https://cards.example/summit-reserve", Attributes: map[string]string{
			"annual_fee":  "$550",
			"featured":    "true",
			"brand_group": "summit",
			"rewards":     "3x points on travel",
			"summary":     "Premium travel perks, lounge access and an annual travel credit.",
		}},
		{Name: "Harbor Cash", URL: "https://cards.example/harbor-cash", Attributes: map[string]string{
			"annual_fee":  "no annual fee",
			"brand_group": "harbor",
			"rewards":     "1.5% cash back",
			"summary":     "Flat cash back on every purchase with nothing to keep track of.",
		}},
		{Name: "Campus Starter", URL: "https://cards.example/campus-starter", Attributes: map[string]string{
			"annual_fee": "$0",
			"audience":   "student",
			"summary":    "A first card for students building credit.",
		}},
		{Name: "Globetrotter Lite", URL: "https://cards.example/globetrotter-lite", Attributes: map[string]string{
			"annual_fee":  "$0",
			"brand_group": "globetrotter",
			"rewards":     "1.2x miles on travel",
			"summary":     "An entry travel card with simple miles earning.",
		}},
	}
}

func newTestAdvisor(t *testing.T) (*Advisor, *mock.MockProvider) {
	t.Helper()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	source := catalog.SourceFunc(func(ctx context.Context) ([]core.Product, error) {
		return testCatalog(), nil
	})

	advisor, err := NewAdvisor(source, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { advisor.Close() })
	return advisor, provider
}

func TestAsk_NoFeeTravelQuery(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "I want a travel card with no annual fee"})

	assert.Equal(t, core.OutcomeRecommend.String(), answer.Metadata.Stage)
	require.Len(t, answer.Recommendations, 3)
	for _, rec := range answer.Recommendations {
		assert.True(t, rec.Product.HasZeroFee(), "recommended %q without a provably zero fee", rec.Product.Name)
	}
	// The listing must survive structural validation exactly as returned.
	assert.NoError(t, render.NewValidator().Validate(answer.SummaryText, answer.Recommendations))
}

func TestAsk_RecommendationsAreBrandDiverse(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	source := catalog.SourceFunc(func(ctx context.Context) ([]core.Product, error) {
		return []core.Product{
			{Name: "Sky Voyager", URL: "https://cards.example/sky-voyager", Attributes: map[string]string{
				"annual_fee":  "$95",
				"brand_group": "skyair",
				"rewards":     "2x miles on travel",
				"summary":     "Earns miles on travel and dining with airline perks.",
			}},
			{Name: "Sky Voyager Plus", URL: "https://cards.example/sky-voyager-plus", Attributes: map[string]string{
				"annual_fee":  "$0",
				"brand_group": "skyair",
				"rewards":     "1.5x miles on travel",
				"summary":     "The entry travel card with simple miles earning.",
			}},
			{Name: "Harbor Cash", URL: "https://cards.example/harbor-cash", Attributes: map[string]string{
				"annual_fee":  "no annual fee",
				"brand_group": "harbor",
				"rewards":     "1.5% cash back",
				"summary":     "Flat cash back on every purchase.",
			}},
			{Name: "Campus Starter", URL: "https://cards.example/campus-starter", Attributes: map[string]string{
				"annual_fee": "$0",
				"audience":   "student",
				"summary":    "A first card for students building credit.",
			}},
		}, nil
	})
	advisor, err := NewAdvisor(source, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { advisor.Close() })

	// Two same-brand travel cards rank top; the query names no brand, so at
	// most one of them may come back.
	answer := advisor.Ask(context.Background(), Request{Query: "best travel card"})

	assert.Equal(t, core.OutcomeRecommend.String(), answer.Metadata.Stage)
	require.NotEmpty(t, answer.Recommendations)
	seen := make(map[string]bool)
	for _, rec := range answer.Recommendations {
		if rec.BrandGroup == "" {
			continue
		}
		assert.False(t, seen[rec.BrandGroup],
			"two recommendations share brand group %q", rec.BrandGroup)
		seen[rec.BrandGroup] = true
	}
}

func TestAsk_OffTopicQuery(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "how do I learn woodworking?"})

	assert.Equal(t, core.OutcomeOffTopic.String(), answer.Metadata.Stage)
	assert.Empty(t, answer.Recommendations)
	assert.Equal(t, offTopicText, answer.SummaryText)
}

func TestAsk_MetaQuery(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "what model are you?"})

	assert.Equal(t, core.OutcomeMeta.String(), answer.Metadata.Stage)
	assert.Empty(t, answer.Recommendations)
	assert.Equal(t, metaText, answer.SummaryText)
}

func TestAsk_SpecificCardQuery(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "Is the Summit Reserve card any good?"})

	assert.Equal(t, core.OutcomeSpecific.String(), answer.Metadata.Stage)
	require.Len(t, answer.Recommendations, 1)
	assert.Equal(t, "Summit Reserve", answer.Recommendations[0].Product.Name)
	assert.Equal(t, "Summit Reserve", answer.Title)
	assert.Contains(t, answer.SummaryText, "Summit Reserve")
}

func TestAsk_MatchThresholdIsTunable(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	source := catalog.SourceFunc(func(ctx context.Context) ([]core.Product, error) {
		return testCatalog(), nil
	})
	advisor, err := NewAdvisor(source, WithProvider(provider), WithMatchThreshold(0.9))
	require.NoError(t, err)
	t.Cleanup(func() { advisor.Close() })

	// The same query TestAsk_SpecificCardQuery routes as specific scores 0.8
	// on the fuzzy match; a 0.9 threshold pushes it past that stage.
	answer := advisor.Ask(context.Background(), Request{Query: "Is the Summit Reserve card any good?"})

	assert.Equal(t, core.OutcomeRecommend.String(), answer.Metadata.Stage)
}

func TestAsk_FollowUpRechecksFees(t *testing.T) {
	advisor, provider := newTestAdvisor(t)
	products := testCatalog()

	var consulted []string
	provider.GetMockGenerator().AnswerAboutCardsFunc = func(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
		for _, card := range cards {
			consulted = append(consulted, card.Name)
		}
		return "Only Harbor Cash has no annual fee.", nil
	}

	previous := []core.Recommendation{
		{Candidate: core.Candidate{Product: products[1]}}, // Summit Reserve, $550
		{Candidate: core.Candidate{Product: products[2]}}, // Harbor Cash, no fee
	}
	answer := advisor.Ask(context.Background(), Request{
		Query:    "Which of these have no annual fee?",
		Previous: previous,
	})

	assert.Equal(t, core.OutcomePrevious.String(), answer.Metadata.Stage)
	assert.Empty(t, answer.Recommendations)
	// The fee-bearing card must not even reach the generator.
	assert.Equal(t, []string{"Harbor Cash"}, consulted)
}

func TestAsk_FollowUpAllFeeBearing(t *testing.T) {
	advisor, _ := newTestAdvisor(t)
	products := testCatalog()

	answer := advisor.Ask(context.Background(), Request{
		Query:    "Which of these have no annual fee?",
		Previous: []core.Recommendation{{Candidate: core.Candidate{Product: products[1]}}},
	})

	assert.Equal(t, core.StageNoMatch, answer.Metadata.Stage)
	assert.Empty(t, answer.Recommendations)
}

func TestAsk_ImpossibleConstraints(t *testing.T) {
	advisor, provider := newTestAdvisor(t)
	provider.GetMockExtractor().ExtractFiltersFunc = func(ctx context.Context, query string) (ai.Filters, error) {
		return ai.Filters{Issuers: []string{"zenith"}}, nil
	}

	answer := advisor.Ask(context.Background(), Request{Query: "best card from Zenith Bank"})

	assert.Equal(t, core.StageNoMatch, answer.Metadata.Stage)
	assert.Empty(t, answer.Recommendations)
	// No-match is a real answer, not the failure apology.
	assert.NotEqual(t, apologyText, answer.SummaryText)
}

func TestAsk_GeneralQuestion(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "What is a balance transfer?"})

	assert.Equal(t, core.OutcomeGeneral.String(), answer.Metadata.Stage)
	assert.False(t, answer.Metadata.UsedFallback)
	assert.Empty(t, answer.Recommendations)
	assert.Contains(t, answer.SummaryText, "balance transfer")
}

func TestAsk_GeneralQuestionNeedingCurrentInfo(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	answer := advisor.Ask(context.Background(), Request{Query: "What is the current APR on travel cards?"})

	assert.Equal(t, core.OutcomeGeneral.String(), answer.Metadata.Stage)
	assert.True(t, answer.Metadata.UsedFallback)
	assert.Equal(t, "current_info", answer.Metadata.Reason)
	assert.NotEmpty(t, answer.SummaryText)
}

func TestAsk_EmbeddingFailureDegradesToCatalogOrder(t *testing.T) {
	advisor, provider := newTestAdvisor(t)
	require.NoError(t, advisor.Warm(context.Background()))
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	answer := advisor.Ask(context.Background(), Request{Query: "best travel card"})

	assert.Equal(t, core.OutcomeRecommend.String(), answer.Metadata.Stage)
	assert.True(t, answer.Metadata.UsedFallback)
	assert.Equal(t, "ranking", answer.Metadata.Reason)
	require.Len(t, answer.Recommendations, 3)
	// Featured cards still lead the degraded slate.
	assert.Equal(t, "Summit Reserve", answer.Recommendations[0].Product.Name)
}

func TestAsk_GenerationFailureResynthesizes(t *testing.T) {
	advisor, provider := newTestAdvisor(t)
	provider.GetMockGenerator().DescribeCardsFunc = func(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
		return "", errors.New("generation service down")
	}

	answer := advisor.Ask(context.Background(), Request{Query: "best travel card"})

	assert.Equal(t, core.OutcomeRecommend.String(), answer.Metadata.Stage)
	assert.True(t, answer.Metadata.UsedFallback)
	assert.Equal(t, "generation", answer.Metadata.Reason)
	require.NotEmpty(t, answer.Recommendations)
	assert.Equal(t, render.Resynthesize(answer.Recommendations), answer.SummaryText)
}

func TestAsk_MalformedListingFallsBack(t *testing.T) {
	advisor, provider := newTestAdvisor(t)
	provider.GetMockGenerator().DescribeCardsFunc = func(ctx context.Context, query string, cards []ai.CardInfo) (string, error) {
		return "The generator rambled on with no structure at all.", nil
	}

	answer := advisor.Ask(context.Background(), Request{Query: "best travel card"})

	assert.True(t, answer.Metadata.UsedFallback)
	assert.Equal(t, "validation", answer.Metadata.Reason)
	require.NotEmpty(t, answer.Recommendations)
	assert.NoError(t, render.NewValidator().Validate(answer.SummaryText, answer.Recommendations))
}

func TestAsk_CatalogUnavailable(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	source := catalog.SourceFunc(func(ctx context.Context) ([]core.Product, error) {
		return nil, errors.New("catalog endpoint unreachable")
	})
	advisor, err := NewAdvisor(source, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { advisor.Close() })

	// Retrieval degrades to the apology fallback.
	answer := advisor.Ask(context.Background(), Request{Query: "best travel card"})
	assert.Equal(t, core.StageFallback, answer.Metadata.Stage)
	assert.Equal(t, "catalog_unavailable", answer.Metadata.Reason)
	assert.Equal(t, apologyText, answer.SummaryText)

	// Outcomes that need no catalog still work.
	answer = advisor.Ask(context.Background(), Request{Query: "how do I learn woodworking?"})
	assert.Equal(t, core.OutcomeOffTopic.String(), answer.Metadata.Stage)
}

func TestAsk_HistoryReachesClassifier(t *testing.T) {
	advisor, provider := newTestAdvisor(t)

	var seen []ai.Turn
	provider.GetMockClassifier().IsOnTopicFunc = func(ctx context.Context, query string, history []ai.Turn) (bool, error) {
		seen = history
		return true, nil
	}

	advisor.Ask(context.Background(), Request{
		Query: "best travel card",
		History: []core.Turn{
			{Role: core.RoleUser, Content: "hi"},
			{Role: core.RoleAssistant, Content: "hello, ask me about cards"},
		},
	})

	require.Len(t, seen, 2)
	assert.Equal(t, "user", seen[0].Role)
	assert.Equal(t, "assistant", seen[1].Role)
}

func TestAdvisor_Warm(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	require.NoError(t, advisor.Warm(context.Background()))
	assert.NotNil(t, advisor.index.Snapshot())

	// Second call is a no-op on the already published snapshot.
	require.NoError(t, advisor.Warm(context.Background()))
}

func TestNamesBrandGroup(t *testing.T) {
	snap := &core.Snapshot{Products: testCatalog()}

	assert.True(t, namesBrandGroup("any good skyline cards?", snap))
	assert.False(t, namesBrandGroup("any good titanium cards?", snap))
}
