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
	"strings"

	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/assemble"
	"github.com/finsight/cardpilot/classify"
	"github.com/finsight/cardpilot/core"
	"github.com/finsight/cardpilot/render"
)

// Request is one question put to the Advisor. History carries prior
// conversation turns, most-recent last. Previous carries the recommendations
// already shown in this conversation, so follow-up references can be resolved
// without re-retrieval.
type Request struct {
	Query    string
	History  []core.Turn
	Previous []core.Recommendation
}

// Canned answer texts. Everything generated goes through validation; these
// never do, so they must be correct by construction.
const (
	metaText = "I'm a card recommendation assistant. I answer questions about " +
		"the cards in my catalog and suggest ones that match what you're looking " +
		"for. Ask me something like \"best travel card with no annual fee\"."

	offTopicText = "I can only help with credit-card questions. Ask me about " +
		"cards, fees, rewards or which card fits a kind of spending."

	apologyText = "Sorry, I wasn't able to put together an answer just now. " +
		"Please try again in a moment."

	noMatchText = "I couldn't find any cards that satisfy everything you asked " +
		"for. Try relaxing one of the constraints, like the fee limit or the " +
		"reward type."
)

// Ask answers one question. It never fails: every external error degrades to
// the stage's safe default or to a fallback answer, and the answer's metadata
// records which path was taken.
func (a *Advisor) Ask(ctx context.Context, req Request) *core.Answer {
	snap := a.snapshot(ctx)

	result := a.pipeline.Classify(ctx, classify.Request{
		Query:    req.Query,
		History:  toAITurns(req.History),
		Previous: req.Previous,
	}, snap)

	a.logger.Debug("classified query", "outcome", result.Outcome.String(), "fallback", result.UsedFallback)

	switch result.Outcome {
	case core.OutcomeMeta:
		return cannedAnswer(result.Outcome, "About this assistant", metaText)
	case core.OutcomeOffTopic:
		return cannedAnswer(result.Outcome, "Out of scope", offTopicText)
	case core.OutcomeGeneral:
		return a.answerGeneral(ctx, req.Query, result)
	case core.OutcomePrevious:
		return a.answerPrevious(ctx, req.Query, req.Previous)
	case core.OutcomeSpecific:
		return a.answerSpecific(ctx, req.Query, result.Card)
	default:
		return a.recommend(ctx, req.Query, result, snap)
	}
}

// answerGeneral handles definition and how-does-it-work questions. No
// retrieval: the generator answers from general knowledge. Questions that
// hinge on current rates or promotions are answered statically and flagged,
// since the catalog is the only data source here.
func (a *Advisor) answerGeneral(ctx context.Context, query string, result classify.Result) *core.Answer {
	text, err := a.provider.Generator().Explain(ctx, query)
	if err != nil {
		a.logger.Warn("explanation generation failed", "err", err)
		return fallbackAnswer("generation")
	}

	meta := core.AnswerMetadata{Stage: core.OutcomeGeneral.String(), UsedFallback: result.UsedFallback}
	if result.NeedsCurrentInfo {
		meta.UsedFallback = true
		meta.Reason = "current_info"
	}
	return &core.Answer{SummaryText: text, Title: "Good question", Metadata: meta}
}

// answerPrevious handles follow-ups about recommendations already shown. Only
// the previously shown cards are consulted, never fresh retrieval. A no-fee
// follow-up re-checks the fee predicate strictly: previously shown cards
// without a provably zero fee are silently excluded.
func (a *Advisor) answerPrevious(ctx context.Context, query string, previous []core.Recommendation) *core.Answer {
	shown := previous
	if classify.WantsNoFee(query) {
		shown = make([]core.Recommendation, 0, len(previous))
		for i := range previous {
			if previous[i].Product.HasZeroFee() {
				shown = append(shown, previous[i])
			}
		}
	}
	if len(shown) == 0 {
		return noMatchAnswer()
	}

	text, err := a.provider.Generator().AnswerAboutCards(ctx, query, toCardInfos(shown))
	if err != nil {
		a.logger.Warn("follow-up generation failed", "err", err)
		return fallbackAnswer("generation")
	}

	return &core.Answer{
		SummaryText: text,
		Title:       "About those cards",
		Metadata:    core.AnswerMetadata{Stage: core.OutcomePrevious.String()},
	}
}

// answerSpecific handles questions naming exactly one catalog card.
func (a *Advisor) answerSpecific(ctx context.Context, query string, card *core.Product) *core.Answer {
	rec := core.Recommendation{Candidate: core.Candidate{
		Product:    *card,
		Featured:   card.Featured(),
		BrandGroup: card.BrandGroup(),
	}}

	meta := core.AnswerMetadata{Stage: core.OutcomeSpecific.String()}
	text, err := a.provider.Generator().AnswerAboutCards(ctx, query, toCardInfos([]core.Recommendation{rec}))
	if err != nil {
		a.logger.Warn("single-card generation failed", "err", err, "card", card.Name)
		text = render.Resynthesize([]core.Recommendation{rec})
		meta.UsedFallback = true
		meta.Reason = "generation"
	}

	return &core.Answer{
		Recommendations: []core.Recommendation{rec},
		SummaryText:     text,
		Title:           card.Name,
		Metadata:        meta,
	}
}

// recommend is the full retrieval path: extract filters, rank the eligible
// subset by similarity, assemble the slate, generate and validate the listing.
func (a *Advisor) recommend(ctx context.Context, query string, result classify.Result, snap *core.Snapshot) *core.Answer {
	if snap == nil || len(snap.Products) == 0 {
		return fallbackAnswer("catalog_unavailable")
	}

	usedFallback := result.UsedFallback
	reason := ""

	wantsNoFee := classify.WantsNoFee(query)
	criteria, extractionFailed := a.extractCriteria(ctx, query)
	if extractionFailed {
		usedFallback = true
		reason = "filter_extraction"
	}
	// The phrase check is sharper than extraction for the no-fee ask, and the
	// assembler re-checks the predicate on the final slate either way.
	if wantsNoFee && criteria.FeeTier == core.FeeTierAny {
		criteria.FeeTier = core.FeeTierNone
	}

	eligible := a.engine.Apply(criteria, snap.Products)
	if len(eligible) == 0 {
		return noMatchAnswer()
	}

	ranked, featuredRanked, unrestricted, rankFailed := a.rankPools(ctx, query, snap, eligible)
	if rankFailed {
		usedFallback = true
		if reason == "" {
			reason = "ranking"
		}
	}

	slate := a.assembler.Assemble(assemble.Input{
		Ranked:         ranked,
		FeaturedRanked: featuredRanked,
		Unrestricted:   unrestricted,
		RequireZeroFee: wantsNoFee,
		BrandNamed:     namesBrandGroup(query, snap),
	})
	if len(slate) == 0 {
		return noMatchAnswer()
	}

	recs := make([]core.Recommendation, len(slate))
	for i := range slate {
		recs[i] = core.Recommendation{Candidate: slate[i]}
	}

	text, err := a.provider.Generator().DescribeCards(ctx, query, toCardInfos(recs))
	if err != nil {
		a.logger.Warn("listing generation failed, re-rendering", "err", err)
		text = render.Resynthesize(recs)
		usedFallback = true
		if reason == "" {
			reason = "generation"
		}
	} else {
		final, fellBack := a.validator.Finalize(text, recs)
		text = final
		if fellBack {
			usedFallback = true
			if reason == "" {
				reason = "validation"
			}
		}
	}

	return &core.Answer{
		Recommendations: recs,
		SummaryText:     text,
		Title:           "Cards worth a look",
		Metadata: core.AnswerMetadata{
			Stage:        core.OutcomeRecommend.String(),
			UsedFallback: usedFallback,
			Reason:       reason,
		},
	}
}

// extractCriteria turns the query into filter criteria. Extraction failure
// degrades to no constraint; the second return reports that.
func (a *Advisor) extractCriteria(ctx context.Context, query string) (core.FilterCriteria, bool) {
	filters, err := a.provider.FilterExtractor().ExtractFilters(ctx, query)
	if err != nil {
		a.logger.Warn("filter extraction failed, using no constraints", "err", err)
		return core.FilterCriteria{}, true
	}
	return core.FilterCriteria{
		FeeTier:            core.FeeTier(filters.FeeTier),
		MaxAnnualFee:       filters.MaxAnnualFee,
		Categories:         filters.Categories,
		Issuers:            filters.Issuers,
		Networks:           filters.Networks,
		RewardTypes:        filters.RewardTypes,
		SpendingCategories: filters.SpendingCategories,
		Audiences:          filters.Audiences,
		WantsWelcomeBonus:  filters.WantsWelcomeBonus,
		NoForeignTxFee:     filters.NoForeignTxFee,
	}, false
}

// rankPools ranks the three candidate pools assembly needs: the eligible
// subset, the featured cards within it, and the unrestricted catalog. When
// embedding or scoring fails it degrades to catalog order with zero scores,
// which keeps the slate deterministic and the request alive.
func (a *Advisor) rankPools(ctx context.Context, query string, snap *core.Snapshot, eligible []core.Product) (ranked, featuredRanked, unrestricted []core.Candidate, failed bool) {
	queryVector, err := a.provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		a.logger.Warn("query embedding failed, ranking by catalog order", "err", err)
		return a.orderedPools(eligible, snap)
	}

	eligibleIDs := make([]core.ID, len(eligible))
	var featuredIDs []core.ID
	for i := range eligible {
		eligibleIDs[i] = eligible[i].Id
		if eligible[i].Featured() {
			featuredIDs = append(featuredIDs, eligible[i].Id)
		}
	}
	if featuredIDs == nil {
		featuredIDs = []core.ID{}
	}

	ranked, err = a.ranker.TopN(queryVector, snap, eligibleIDs, a.rankDepth)
	if err != nil {
		a.logger.Warn("ranking failed, using catalog order", "err", err)
		return a.orderedPools(eligible, snap)
	}
	// The pools share the snapshot's vectors; a dimension mismatch would have
	// surfaced on the first ranking above.
	featuredRanked, _ = a.ranker.TopN(queryVector, snap, featuredIDs, a.rankDepth)
	unrestricted, _ = a.ranker.TopN(queryVector, snap, nil, len(snap.Products))
	return ranked, featuredRanked, unrestricted, false
}

// orderedPools is the no-similarity fallback: candidates in catalog order.
func (a *Advisor) orderedPools(eligible []core.Product, snap *core.Snapshot) (ranked, featuredRanked, unrestricted []core.Candidate, failed bool) {
	ranked = candidatesInOrder(eligible, a.rankDepth)
	for i := range eligible {
		if eligible[i].Featured() {
			featuredRanked = append(featuredRanked, newCandidate(&eligible[i]))
		}
	}
	unrestricted = candidatesInOrder(snap.Products, len(snap.Products))
	return ranked, featuredRanked, unrestricted, true
}

func candidatesInOrder(products []core.Product, limit int) []core.Candidate {
	candidates := make([]core.Candidate, 0, min(len(products), limit))
	for i := range products {
		if len(candidates) == limit {
			break
		}
		candidates = append(candidates, newCandidate(&products[i]))
	}
	return candidates
}

func newCandidate(p *core.Product) core.Candidate {
	return core.Candidate{Product: *p, Featured: p.Featured(), BrandGroup: p.BrandGroup()}
}

// namesBrandGroup reports whether the query mentions one of the snapshot's
// brand groups, which switches off brand diversity in assembly.
func namesBrandGroup(query string, snap *core.Snapshot) bool {
	lower := strings.ToLower(query)
	for i := range snap.Products {
		group := snap.Products[i].BrandGroup()
		if len(group) > 2 && strings.Contains(lower, strings.ToLower(group)) {
			return true
		}
	}
	return false
}

func toAITurns(history []core.Turn) []ai.Turn {
	if len(history) == 0 {
		return nil
	}
	turns := make([]ai.Turn, len(history))
	for i, turn := range history {
		role := "user"
		if turn.Role == core.RoleAssistant {
			role = "assistant"
		}
		turns[i] = ai.Turn{Role: role, Content: turn.Content}
	}
	return turns
}

// toCardInfos projects recommendations down to the fields the generator is
// allowed to see.
func toCardInfos(recs []core.Recommendation) []ai.CardInfo {
	infos := make([]ai.CardInfo, len(recs))
	for i := range recs {
		infos[i] = ai.CardInfo{
			Name:    recs[i].Product.Name,
			URL:     recs[i].Product.URL,
			Summary: recs[i].Product.Summary(),
		}
	}
	return infos
}

func cannedAnswer(outcome core.Outcome, title, text string) *core.Answer {
	return &core.Answer{
		SummaryText: text,
		Title:       title,
		Metadata:    core.AnswerMetadata{Stage: outcome.String()},
	}
}

func noMatchAnswer() *core.Answer {
	return &core.Answer{
		SummaryText: noMatchText,
		Title:       "No matches",
		Metadata:    core.AnswerMetadata{Stage: core.StageNoMatch},
	}
}

func fallbackAnswer(reason string) *core.Answer {
	return &core.Answer{
		SummaryText: apologyText,
		Title:       "Something went wrong",
		Metadata:    core.AnswerMetadata{Stage: core.StageFallback, UsedFallback: true, Reason: reason},
	}
}
