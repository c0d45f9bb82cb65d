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


// Package render checks the structure of generated card listings and falls
// back to a deterministic rendering when the generated text cannot be
// trusted. Validation is purely structural: it never judges the prose, only
// that every recommended card appears exactly once as a well-formed bullet
// and nothing else does.
package render

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/finsight/cardpilot/core"
)

// minSentences is the number of sentence delimiters a bullet must carry
// after its link: one feature sentence plus one connecting sentence.
const minSentences = 2

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// Validator checks and repairs generated listings. Construct with
// NewValidator.
type Validator struct {
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reports whether text is a well-formed listing of exactly the
// given recommendations: one bullet per card, each with a markdown link to
// the card's URL and at least two sentences after it, no extras and no
// omissions.
func (v *Validator) Validate(text string, recs []core.Recommendation) error {
	bullets := extractBullets(text)
	if len(bullets) == 0 {
		return ErrNoListing
	}

	expected := make(map[string]*core.Recommendation, len(recs))
	for i := range recs {
		expected[normalizeName(recs[i].Product.Name)] = &recs[i]
	}

	seen := make(map[string]bool, len(bullets))
	for _, bullet := range bullets {
		loc := linkPattern.FindStringSubmatchIndex(bullet)
		if loc == nil {
			return fmt.Errorf("%w: no link in %q", ErrBadLink, truncate(bullet))
		}
		name := bullet[loc[2]:loc[3]]
		url := bullet[loc[4]:loc[5]]

		key := normalizeName(name)
		rec, ok := expected[key]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnexpectedCard, name)
		}
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateCard, name)
		}
		seen[key] = true

		if rec.Product.URL != "" && url != rec.Product.URL {
			return fmt.Errorf("%w: %q links to %q", ErrBadLink, name, url)
		}
		if countSentences(bullet[loc[1]:]) < minSentences {
			return fmt.Errorf("%w: %q", ErrShortDescription, name)
		}
	}

	for key, rec := range expected {
		if !seen[key] {
			return fmt.Errorf("%w: %q", ErrMissingCard, rec.Product.Name)
		}
	}
	return nil
}

// RepairDuplicates collapses the doubled-name glitch generators produce
// ("Summit Reserve Summit Reserve is..." or "Summit Reserve, Summit
// Reserve..."). Applying it to already-clean text changes nothing.
func (v *Validator) RepairDuplicates(text string, recs []core.Recommendation) string {
	for i := range recs {
		name := recs[i].Product.Name
		if name == "" {
			continue
		}
		for _, doubled := range []string{name + " " + name, name + ", " + name} {
			for strings.Contains(text, doubled) {
				text = strings.ReplaceAll(text, doubled, name)
			}
		}
	}
	return text
}

// Finalize returns a listing that is guaranteed well-formed: the generated
// text when it validates (after duplicate repair), otherwise a deterministic
// rendering built from the structured recommendations. The second return
// reports whether the fallback was used.
func (v *Validator) Finalize(text string, recs []core.Recommendation) (string, bool) {
	repaired := v.RepairDuplicates(text, recs)
	if err := v.Validate(repaired, recs); err != nil {
		v.logger.Warn("generated listing failed validation, re-rendering", "error", err)
		return Resynthesize(recs), true
	}
	return repaired, false
}

// connectives are cycled through during deterministic rendering so adjacent
// bullets do not repeat the same closing sentence.
var connectives = []string{
	"A strong match for what you described.",
	"Worth a close look for this kind of spending.",
	"A dependable pick if the terms above suit you.",
}

// Resynthesize renders the recommendations as a listing without any
// generation. Output is fully determined by the input.
func Resynthesize(recs []core.Recommendation) string {
	var b strings.Builder
	for i := range recs {
		rec := &recs[i]

		description := strings.TrimSpace(rec.Description)
		if description == "" {
			if summary := rec.Product.Summary(); summary != "" {
				description = firstSentence(summary)
			} else {
				description = "See the issuer's page for full terms"
			}
		}
		description = strings.TrimRight(description, ".!? ")

		connective := strings.TrimSpace(rec.Connective)
		if connective == "" {
			connective = connectives[i%len(connectives)]
		}

		fmt.Fprintf(&b, "- [%s](%s): %s. %s\n", rec.Product.Name, rec.Product.URL, description, connective)
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractBullets returns the bullet lines of a markdown listing.
func extractBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			bullets = append(bullets, trimmed[2:])
		}
	}
	return bullets
}

// countSentences counts sentence delimiters in s.
func countSentences(s string) int {
	count := 0
	for _, r := range s {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}

func firstSentence(s string) string {
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func truncate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
