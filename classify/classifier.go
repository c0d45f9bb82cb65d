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


// Package classify routes an incoming query through a fixed sequence of
// checks and assigns it exactly one outcome. The stages run in a set order
// and the first stage that claims the query wins; later stages never see it.
// Every stage that depends on an external call has a safe local default, so
// classification always produces an answer even when the model is down.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/finsight/cardpilot/ai"
	"github.com/finsight/cardpilot/core"
)

// DefaultMatchThreshold is the minimum fuzzy score for a query to be treated
// as naming a specific catalog item.
const DefaultMatchThreshold = 0.5

// Request carries everything classification may consult.
type Request struct {
	Query    string
	History  []ai.Turn
	Previous []core.Recommendation
}

// Result is the pipeline's verdict.
type Result struct {
	Outcome core.Outcome

	// Card is set when Outcome is OutcomeSpecific.
	Card *core.Product

	// NeedsCurrentInfo is set for general questions whose answer depends on
	// rates or terms that drift over time.
	NeedsCurrentInfo bool

	// UsedFallback records that at least one external check failed and its
	// safe default was applied instead.
	UsedFallback bool
}

// Pipeline classifies queries. Construct with NewPipeline.
type Pipeline struct {
	classifier ai.Classifier
	threshold  float64
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMatchThreshold overrides the fuzzy name-match threshold.
func WithMatchThreshold(threshold float64) Option {
	return func(p *Pipeline) {
		p.threshold = threshold
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a classification pipeline backed by classifier.
func NewPipeline(classifier ai.Classifier, opts ...Option) (*Pipeline, error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	p := &Pipeline{
		classifier: classifier,
		threshold:  DefaultMatchThreshold,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Classify assigns req exactly one outcome. snap may be nil when no catalog
// is available; the specific-card stage is then skipped.
func (p *Pipeline) Classify(ctx context.Context, req Request, snap *core.Snapshot) Result {
	query := strings.TrimSpace(req.Query)
	usedFallback := false

	// Stage 1: questions about the assistant itself.
	if IsMetaQuery(query) {
		return Result{Outcome: core.OutcomeMeta}
	}

	// Stage 2: topic gate. On failure assume the query is relevant; refusing
	// a legitimate question costs more than answering an odd one.
	onTopic, err := p.classifier.IsOnTopic(ctx, query, req.History)
	if err != nil {
		p.logger.Warn("topic check failed, assuming on-topic", "error", err)
		onTopic = true
		usedFallback = true
	}
	if !onTopic {
		return Result{Outcome: core.OutcomeOffTopic, UsedFallback: usedFallback}
	}

	// Stage 3: definition questions that do not ask for a pick.
	if LooksGeneral(query) {
		needsCurrent, err := p.classifier.NeedsCurrentInfo(ctx, query)
		if err != nil {
			p.logger.Warn("freshness check failed, assuming static", "error", err)
			needsCurrent = false
			usedFallback = true
		}
		return Result{
			Outcome:          core.OutcomeGeneral,
			NeedsCurrentInfo: needsCurrent,
			UsedFallback:     usedFallback,
		}
	}

	// Stage 4: follow-ups about cards already shown. Patterns are checked
	// first so the common anaphora never costs a model call; the classifier
	// only breaks the ambiguous cases, and on failure the query falls
	// through to a fresh classification.
	if len(req.Previous) > 0 {
		if RefersToShown(query) {
			return Result{Outcome: core.OutcomePrevious, UsedFallback: usedFallback}
		}
		refers, err := p.classifier.RefersToPrevious(ctx, query)
		if err != nil {
			p.logger.Warn("previous-reference check failed, treating as fresh query", "error", err)
			usedFallback = true
		} else if refers {
			return Result{Outcome: core.OutcomePrevious, UsedFallback: usedFallback}
		}
	}

	// Stage 5: the query names one specific catalog item.
	if snap != nil {
		if card := p.matchSpecific(query, snap.Products); card != nil {
			return Result{
				Outcome:      core.OutcomeSpecific,
				Card:         card,
				UsedFallback: usedFallback,
			}
		}
	}

	// Stage 6: everything left is a recommendation request.
	return Result{Outcome: core.OutcomeRecommend, UsedFallback: usedFallback}
}

// matchSpecific returns the single catalog item the query names, or nil when
// it names none or more than one. Two strong containment hits mean the query
// compares cards, which reads better as a recommendation.
func (p *Pipeline) matchSpecific(query string, products []core.Product) *core.Product {
	matches := BestMatches(query, products, p.threshold)
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 && matches[0].Score >= 0.8 && matches[1].Score >= 0.8 {
		return nil
	}
	return matches[0].Product
}
