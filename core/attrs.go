package core

import (
	"strconv"
	"strings"
)

// Alias lists for logical fields, tried in order. Catalog sources are
// inconsistent about column names; resolution must walk the whole list
// before concluding a field is unknown.
var (
	// FeeAliases resolve the annual fee field.
	FeeAliases = []string{
		"annual_fee", "annual fee", "annualfee", "fee", "annual fee ($)", "yearly fee",
	}

	// RewardsAliases resolve the rewards-rate / rewards-program field.
	RewardsAliases = []string{
		"rewards", "rewards_rate", "rewards rate", "reward_rate", "earning", "earn rate",
	}

	// IssuerAliases resolve the issuing bank field.
	IssuerAliases = []string{
		"issuer", "bank", "issuing_bank", "issuing bank",
	}

	// NetworkAliases resolve the payment network field.
	NetworkAliases = []string{
		"network", "card_network", "card network", "payment_network",
	}

	// SummaryAliases resolve the free-text summary field.
	SummaryAliases = []string{
		"summary", "description", "overview", "details",
	}

	// BrandGroupAliases resolve the brand-partner grouping key.
	BrandGroupAliases = []string{
		"brand_group", "brand group", "brand", "partner", "co_brand", "cobrand",
	}

	// CategoryAliases resolve the card-category field.
	CategoryAliases = []string{
		"category", "card_type", "card type", "type",
	}

	// AudienceAliases resolve the target-audience field.
	AudienceAliases = []string{
		"audience", "target_audience", "target audience", "best_for", "best for",
	}

	// FeaturedAliases resolve the promotional "featured" flag.
	FeaturedAliases = []string{
		"featured", "is_featured", "promoted", "sponsored",
	}

	// WelcomeBonusAliases resolve the welcome / sign-up bonus field.
	WelcomeBonusAliases = []string{
		"welcome_bonus", "welcome bonus", "signup_bonus", "sign-up bonus", "intro_bonus",
	}

	// ForeignTxFeeAliases resolve the foreign-transaction-fee field.
	ForeignTxFeeAliases = []string{
		"foreign_transaction_fee", "foreign transaction fee", "ftf", "foreign_fee",
	}
)

// Attr resolves an attribute through an ordered alias list.
// Keys are compared case-insensitively with surrounding whitespace ignored.
// Returns the first non-empty value found and true, or "" and false.
func (p *Product) Attr(aliases []string) (string, bool) {
	if len(p.Attributes) == 0 {
		return "", false
	}
	for _, alias := range aliases {
		for key, value := range p.Attributes {
			if strings.EqualFold(strings.TrimSpace(key), alias) && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value), true
			}
		}
	}
	return "", false
}

// Summary returns the product's free-text summary, or "".
func (p *Product) Summary() string {
	s, _ := p.Attr(SummaryAliases)
	return s
}

// Issuer returns the issuing bank, or "".
func (p *Product) Issuer() string {
	s, _ := p.Attr(IssuerAliases)
	return s
}

// BrandGroup returns the brand-partner grouping key in normalized lowercase
// form, or "" when the product belongs to no brand group.
func (p *Product) BrandGroup() string {
	s, ok := p.Attr(BrandGroupAliases)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Featured reports whether the product carries the promotional flag.
// Accepts the truthy spellings seen in real source data.
func (p *Product) Featured() bool {
	s, ok := p.Attr(FeaturedAliases)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "featured":
		return true
	}
	return false
}

// zeroFeePhrases are fee-text spellings that count as positive evidence of a
// zero annual fee.
var zeroFeePhrases = []string{
	"no annual fee", "no fee", "none", "$0", "0", "free", "n/a - no fee",
}

// AnnualFee resolves the annual fee through FeeAliases and parses numeric or
// free-text representations ("$95", "95", "$0 intro, then $95", "no annual
// fee"). Returns the fee in dollars and whether it could be determined.
// For "intro then $X" text the steady-state fee X is returned.
func (p *Product) AnnualFee() (float64, bool) {
	raw, ok := p.Attr(FeeAliases)
	if !ok {
		return 0, false
	}
	text := strings.ToLower(raw)

	for _, phrase := range zeroFeePhrases {
		if text == phrase {
			return 0, true
		}
	}
	if strings.Contains(text, "no annual fee") || strings.Contains(text, "no fee") {
		return 0, true
	}

	// Pull every dollar amount out of the text; "then $95" style intro
	// offers resolve to the last (steady-state) amount.
	amounts := parseDollarAmounts(text)
	if len(amounts) == 0 {
		return 0, false
	}
	return amounts[len(amounts)-1], true
}

// HasZeroFee is the strict fee-zero predicate used for no-fee queries.
// It requires positive evidence of a zero fee: an unknown or unresolvable
// fee fails, however plain or premium the name, because wrongly excluding a
// no-fee card beats leaking a fee-bearing one into a no-fee result.
func (p *Product) HasZeroFee() bool {
	fee, known := p.AnnualFee()
	return known && fee == 0
}

// parseDollarAmounts extracts all dollar amounts from fee text, in order.
// Handles "$95", "95", "$1,299" and ignores percentage figures.
func parseDollarAmounts(text string) []float64 {
	var amounts []float64
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if runes[i] != '$' && !isDigit(runes[i]) {
			i++
			continue
		}
		if runes[i] == '$' {
			i++
		}
		numStart := i
		for i < len(runes) && (isDigit(runes[i]) || runes[i] == ',' || runes[i] == '.') {
			i++
		}
		if i == numStart {
			continue
		}
		// A trailing '%' means this was a rate, not a fee.
		if i < len(runes) && runes[i] == '%' {
			i++
			continue
		}
		num := strings.ReplaceAll(string(runes[numStart:i]), ",", "")
		num = strings.TrimRight(num, ".")
		value, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, value)
	}
	return amounts
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
