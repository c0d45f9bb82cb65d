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


// Package assemble turns a ranked candidate list into the final slate shown
// to the user. The policies run in a fixed order: featured injection, the
// strict zero-fee recheck, featured-first ordering, brand diversity, padding
// from the unrestricted ranking, and truncation to the slate size. Every
// step is deterministic for a given input.
package assemble

import (
	"log/slog"
	"strings"

	"github.com/finsight/cardpilot/core"
)

const (
	// DefaultMaxResults is the slate size.
	DefaultMaxResults = 3

	// DefaultFeaturedInjectLimit caps how many featured cards may be added
	// on top of the organically ranked candidates.
	DefaultFeaturedInjectLimit = 3
)

// Input is everything assembly considers.
type Input struct {
	// Ranked are the filtered candidates, best first.
	Ranked []core.Candidate

	// FeaturedRanked are the featured items within the active filter subset,
	// best first. Injection draws from it when Ranked surfaces no featured
	// card on its own.
	FeaturedRanked []core.Candidate

	// Unrestricted is the full catalog ranked against the same query without
	// filters. Padding draws from it.
	Unrestricted []core.Candidate

	// RequireZeroFee makes zero annual fee a hard requirement: any candidate
	// without a provably zero fee is dropped, injected ones included.
	RequireZeroFee bool

	// BrandNamed disables brand diversity because the user asked for a
	// specific brand and a single-brand slate is the point.
	BrandNamed bool
}

// Assembler applies the slate policies. Construct with NewAssembler.
type Assembler struct {
	maxResults    int
	featuredLimit int
	logger        *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithMaxResults overrides the slate size.
func WithMaxResults(n int) Option {
	return func(a *Assembler) {
		a.maxResults = n
	}
}

// WithFeaturedInjectLimit overrides the featured-injection cap.
func WithFeaturedInjectLimit(n int) Option {
	return func(a *Assembler) {
		a.featuredLimit = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates an Assembler with the default slate policies.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		maxResults:    DefaultMaxResults,
		featuredLimit: DefaultFeaturedInjectLimit,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble produces the final slate. An empty slate means nothing eligible
// survived the policies; the caller decides what to tell the user.
func (a *Assembler) Assemble(input Input) []core.Candidate {
	slate := append([]core.Candidate(nil), input.Ranked...)
	slate = a.injectFeatured(slate, input.FeaturedRanked, input.RequireZeroFee)

	if input.RequireZeroFee {
		slate = keepZeroFee(slate)
	}

	slate = featuredFirst(slate)

	if !input.BrandNamed {
		slate = a.diversify(slate)
	}

	if len(slate) < a.maxResults {
		slate = a.pad(slate, input)
	}

	if len(slate) > a.maxResults {
		slate = slate[:a.maxResults]
	}
	return slate
}

// injectFeatured guarantees promotional visibility: when the organic ranking
// surfaced no featured card, the best featured cards from the filter subset
// are spliced in, up to the configured cap. When zero fee is a hard
// requirement only provably free featured cards qualify.
func (a *Assembler) injectFeatured(slate, pool []core.Candidate, requireZeroFee bool) []core.Candidate {
	for _, candidate := range slate {
		if candidate.Featured {
			return slate
		}
	}

	seen := nameSet(slate)
	injected := 0
	for _, candidate := range pool {
		if injected >= a.featuredLimit {
			break
		}
		if !candidate.Featured {
			continue
		}
		key := normalizeName(candidate.Product.Name)
		if seen[key] {
			continue
		}
		if requireZeroFee && !candidate.Product.HasZeroFee() {
			continue
		}
		slate = append(slate, candidate)
		seen[key] = true
		injected++
	}
	if injected > 0 {
		a.logger.Debug("injected featured candidates", "count", injected)
	}
	return slate
}

// keepZeroFee drops every candidate whose annual fee is not provably zero.
// Unknown fees are treated as non-zero.
func keepZeroFee(slate []core.Candidate) []core.Candidate {
	kept := slate[:0]
	for _, candidate := range slate {
		if candidate.Product.HasZeroFee() {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// featuredFirst moves featured candidates ahead of the rest while preserving
// relative order inside each group.
func featuredFirst(slate []core.Candidate) []core.Candidate {
	ordered := make([]core.Candidate, 0, len(slate))
	for _, candidate := range slate {
		if candidate.Featured {
			ordered = append(ordered, candidate)
		}
	}
	for _, candidate := range slate {
		if !candidate.Featured {
			ordered = append(ordered, candidate)
		}
	}
	return ordered
}

// diversify keeps the first candidate of each brand group and drops the
// rest. A dropped duplicate never comes back: a short slate is the correct
// outcome when the eligible pool holds only one brand.
func (a *Assembler) diversify(slate []core.Candidate) []core.Candidate {
	seenBrand := make(map[string]bool, len(slate))
	kept := make([]core.Candidate, 0, len(slate))
	for _, candidate := range slate {
		brand := candidate.BrandGroup
		if brand != "" && seenBrand[brand] {
			continue
		}
		if brand != "" {
			seenBrand[brand] = true
		}
		kept = append(kept, candidate)
	}
	return kept
}

// pad tops the slate up from the unrestricted ranking, honoring the same
// dedupe, zero-fee and diversity rules as the main pass. An already-seen
// brand group disqualifies a padding candidate unless the query named the
// brand.
func (a *Assembler) pad(slate []core.Candidate, input Input) []core.Candidate {
	seen := nameSet(slate)
	seenBrand := make(map[string]bool, len(slate))
	for _, candidate := range slate {
		if candidate.BrandGroup != "" {
			seenBrand[candidate.BrandGroup] = true
		}
	}

	for _, candidate := range input.Unrestricted {
		if len(slate) >= a.maxResults {
			break
		}
		if seen[normalizeName(candidate.Product.Name)] {
			continue
		}
		if input.RequireZeroFee && !candidate.Product.HasZeroFee() {
			continue
		}
		if !input.BrandNamed && candidate.BrandGroup != "" && seenBrand[candidate.BrandGroup] {
			continue
		}
		slate = append(slate, candidate)
		seen[normalizeName(candidate.Product.Name)] = true
		if candidate.BrandGroup != "" {
			seenBrand[candidate.BrandGroup] = true
		}
	}
	return slate
}

// normalizeName canonicalizes a product name for dedupe purposes.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastSpace := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func nameSet(slate []core.Candidate) map[string]bool {
	seen := make(map[string]bool, len(slate))
	for _, candidate := range slate {
		seen[normalizeName(candidate.Product.Name)] = true
	}
	return seen
}
