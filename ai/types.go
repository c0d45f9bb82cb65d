package ai

// Turn is one message of conversation history passed to the classifier.
type Turn struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// CardInfo is the slice of a catalog entry the generator is allowed to see:
// the name to link, the URL to link it to, and the summary to describe.
type CardInfo struct {
	Name    string
	URL     string
	Summary string
}

// Filters is the structured constraint object an extractor pulls from a
// free-text query. Zero-valued fields mean the query did not express that
// constraint. The JSON tags define the extraction schema sent to the model.
type Filters struct {
	// FeeTier is "", "none" or "low".
	FeeTier string `json:"fee_tier,omitempty"`

	// MaxAnnualFee is a fee ceiling in dollars, nil when unconstrained.
	MaxAnnualFee *float64 `json:"max_annual_fee,omitempty"`

	Categories         []string `json:"categories,omitempty"`
	Issuers            []string `json:"issuers,omitempty"`
	Networks           []string `json:"networks,omitempty"`
	RewardTypes        []string `json:"reward_types,omitempty"`
	SpendingCategories []string `json:"spending_categories,omitempty"`
	Audiences          []string `json:"audiences,omitempty"`

	WantsWelcomeBonus *bool `json:"wants_welcome_bonus,omitempty"`
	NoForeignTxFee    *bool `json:"no_foreign_transaction_fee,omitempty"`
}
