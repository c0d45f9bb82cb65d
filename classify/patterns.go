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


package classify

import (
	"regexp"
	"strings"
)

// metaPatterns flag questions about the assistant itself rather than about
// cards. These are checked before anything else because they need no catalog
// and no external call.
var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bhow (?:were|was) you (?:trained|built|made)\b`),
	regexp.MustCompile(`\bwhat (?:model|llm|ai) are you\b`),
	regexp.MustCompile(`\bare you (?:an? )?(?:ai|bot|chatbot|llm|chatgpt|gpt)\b`),
	regexp.MustCompile(`\bwho (?:built|made|created|trained) you\b`),
	regexp.MustCompile(`\bwhat (?:data|dataset).* trained\b`),
	regexp.MustCompile(`\bsystem prompt\b`),
	regexp.MustCompile(`\bwhat are your instructions\b`),
}

// generalPatterns recognize definition or how-things-work phrasing.
var generalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:what is|what's|what are|what does)\b`),
	regexp.MustCompile(`^(?:how does|how do|how is|how are)\b.*\bwork`),
	regexp.MustCompile(`^(?:explain|define|describe)\b`),
	regexp.MustCompile(`\bwhat does\b.*\bmean\b`),
	regexp.MustCompile(`^tell me about\b`),
}

// recommendMarkers veto the general-question stage: phrasing that asks for a
// pick is a recommendation request even when it opens like a definition
// question ("what is the best card for travel").
var recommendMarkers = []string{
	"recommend",
	"suggest",
	"best",
	"top ",
	"which card",
	"what card",
	"should i get",
	"should i apply",
	"looking for",
	"find me",
	"good card for",
	"card for me",
}

// previousPatterns recognize anaphoric references to the cards already shown
// in this conversation.
var previousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:these|those) (?:cards|ones|options)\b`),
	regexp.MustCompile(`\b(?:any|either|which|all|none) of (?:them|these|those)\b`),
	regexp.MustCompile(`\bof the (?:cards|ones|options) you (?:mentioned|listed|showed|recommended)\b`),
	regexp.MustCompile(`\bthe (?:first|second|third|last) (?:one|card|option)\b`),
	regexp.MustCompile(`\byou (?:just )?(?:mentioned|listed|showed|recommended)\b`),
	regexp.MustCompile(`\bbetween (?:them|these|those)\b`),
}

// noFeePhrases are the spellings that signal a strict zero-fee request.
var noFeePhrases = []string{
	"no annual fee",
	"no annual fees",
	"without an annual fee",
	"without annual fee",
	"without annual fees",
	"zero annual fee",
	"no yearly fee",
	"no fee card",
	"no-fee card",
	"free card",
}

func matchesAny(patterns []*regexp.Regexp, query string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(query) {
			return true
		}
	}
	return false
}

func containsAny(query string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(query, phrase) {
			return true
		}
	}
	return false
}

// IsMetaQuery reports whether the query asks about the assistant itself.
func IsMetaQuery(query string) bool {
	return matchesAny(metaPatterns, strings.ToLower(query))
}

// LooksGeneral reports whether the query reads as a definition question and
// does not ask for a pick.
func LooksGeneral(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if containsAny(q, recommendMarkers) {
		return false
	}
	return matchesAny(generalPatterns, q)
}

// RefersToShown reports whether the query points back at previously shown
// cards using anaphora alone, without an external call.
func RefersToShown(query string) bool {
	return matchesAny(previousPatterns, strings.ToLower(query))
}

// WantsNoFee reports whether the query demands a card with no annual fee.
// Downstream this makes zero-fee a hard requirement rather than a preference.
func WantsNoFee(query string) bool {
	return containsAny(strings.ToLower(query), noFeePhrases)
}
