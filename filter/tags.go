package filter

import (
	"strings"

	"github.com/finsight/cardpilot/core"
)

// matchesAnyTag reports whether any of the terms appears, case-insensitively,
// in the product's name, the aliased dedicated field, or the summary text.
func matchesAnyTag(p *core.Product, terms []string, aliases []string) bool {
	field, _ := p.Attr(aliases)
	haystacks := []string{
		strings.ToLower(p.Name),
		strings.ToLower(field),
		strings.ToLower(p.Summary()),
	}

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		for _, haystack := range haystacks {
			if haystack != "" && strings.Contains(haystack, term) {
				return true
			}
		}
	}
	return false
}

// matchesAnySpending checks spending-category terms against the rewards text
// and the summary; spending categories rarely get a dedicated column.
func matchesAnySpending(p *core.Product, terms []string) bool {
	rewards, _ := p.Attr(core.RewardsAliases)
	haystacks := []string{
		strings.ToLower(rewards),
		strings.ToLower(p.Summary()),
		strings.ToLower(p.Name),
	}

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		for _, haystack := range haystacks {
			if haystack != "" && strings.Contains(haystack, term) {
				return true
			}
		}
	}
	return false
}

// rewardTypeVocab maps a requested reward type to the spellings that count as
// evidence for it.
var rewardTypeVocab = map[string][]string{
	"cash back": {"cash back", "cashback", "cash rewards"},
	"cashback":  {"cash back", "cashback", "cash rewards"},
	"points":    {"points"},
	"miles":     {"miles", "mileage"},
}

// matchesRewardType reports whether the product earns the given reward type.
// The dedicated rewards field and the name are trusted as-is. Summary text
// needs disambiguation: "points"/"miles" in a summary only count when not
// immediately preceded by a number, so a cash-back card whose summary
// advertises a "20,000 points" welcome bonus is not mistaken for a points
// card.
func matchesRewardType(p *core.Product, rewardType string) bool {
	rewardType = strings.ToLower(strings.TrimSpace(rewardType))
	vocab, ok := rewardTypeVocab[rewardType]
	if !ok {
		vocab = []string{rewardType}
	}

	rewards, _ := p.Attr(core.RewardsAliases)
	trusted := strings.ToLower(rewards + " " + p.Name)
	for _, spelling := range vocab {
		if strings.Contains(trusted, spelling) {
			return true
		}
	}

	summary := strings.ToLower(p.Summary())
	for _, spelling := range vocab {
		if containsUncounted(summary, spelling) {
			return true
		}
	}
	return false
}

// containsUncounted reports whether needle occurs in haystack at a position
// not immediately preceded by a digit (ignoring separating spaces and
// commas). "earn points on dining" matches; "20,000 points" does not.
func containsUncounted(haystack, needle string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		idx += offset

		precededByCount := false
		for j := idx - 1; j >= 0; j-- {
			c := haystack[j]
			if c == ' ' || c == ',' {
				continue
			}
			precededByCount = c >= '0' && c <= '9'
			break
		}
		if !precededByCount {
			return true
		}
		offset = idx + len(needle)
	}
}

// hasWelcomeBonus reports positive evidence of a welcome or sign-up bonus.
func hasWelcomeBonus(p *core.Product) bool {
	if bonus, ok := p.Attr(core.WelcomeBonusAliases); ok {
		lower := strings.ToLower(bonus)
		return lower != "none" && lower != "no" && lower != "n/a"
	}
	summary := strings.ToLower(p.Summary())
	for _, phrase := range []string{"welcome bonus", "sign-up bonus", "signup bonus", "welcome offer", "intro bonus"} {
		if strings.Contains(summary, phrase) {
			return true
		}
	}
	return false
}

// hasNoForeignTxFee reports positive evidence the product waives foreign
// transaction fees. An absent field is unknown, which fails the criterion.
func hasNoForeignTxFee(p *core.Product) bool {
	if ftf, ok := p.Attr(core.ForeignTxFeeAliases); ok {
		lower := strings.ToLower(ftf)
		for _, spelling := range []string{"none", "no", "$0", "0", "0%", "waived"} {
			if lower == spelling {
				return true
			}
		}
		return false
	}
	summary := strings.ToLower(p.Summary())
	return strings.Contains(summary, "no foreign transaction fee")
}
