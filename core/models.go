package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Product IDs are derived from the canonical product name, so the same
// catalog row always produces the same ID across snapshot rebuilds.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// The text is lower-cased and trimmed first so cosmetic differences in the
// source data do not produce distinct IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Product is a single catalog entry. Beyond the fixed core fields it carries
// an open attribute map: real catalog sources disagree on column names, so
// logical fields (fee, rewards, issuer, ...) are resolved through the alias
// lists in attrs.go rather than assuming one canonical key.
type Product struct {
	Id         ID
	Name       string
	URL        string            // Application / reference URL
	Attributes map[string]string // Open attribute map, keys as the source spelled them
}

// ProductVector is the embedding for one product. It is owned 1:1 by the
// Product with the same Id and lives exactly as long as the Snapshot that
// produced it.
type ProductVector struct {
	Id     ID
	Vector []float32
}

// Snapshot is an immutable, timestamped view of the catalog together with
// its precomputed vectors. Snapshots are never mutated after construction;
// concurrent requests may share one without locking.
type Snapshot struct {
	Products []Product
	Vectors  []ProductVector
	BuiltAt  time.Time
}

// ProductByID returns the product with the given ID, or nil.
func (s *Snapshot) ProductByID(id ID) *Product {
	for i := range s.Products {
		if s.Products[i].Id == id {
			return &s.Products[i]
		}
	}
	return nil
}

// VectorByID returns the vector owned by the given product ID, or nil.
func (s *Snapshot) VectorByID(id ID) *ProductVector {
	for i := range s.Vectors {
		if s.Vectors[i].Id == id {
			return &s.Vectors[i]
		}
	}
	return nil
}

// FeeTier is a coarse annual-fee bucket used in extracted filter criteria.
type FeeTier string

const (
	// FeeTierAny imposes no fee constraint.
	FeeTierAny FeeTier = ""
	// FeeTierNone requires positive evidence of a zero annual fee.
	FeeTierNone FeeTier = "none"
	// FeeTierLow requires a known fee at or below the configured low-fee ceiling.
	FeeTierLow FeeTier = "low"
)

// FilterCriteria is the structured constraint object extracted from a free-text
// query. Zero-valued fields impose no constraint. Criteria compose with AND
// semantics and are pure data: nothing mutates them after extraction.
type FilterCriteria struct {
	FeeTier            FeeTier
	MaxAnnualFee       *float64 // Fee ceiling in dollars; nil means unconstrained
	Categories         []string // e.g. "travel", "business", "student"
	Issuers            []string // e.g. "chase", "amex"
	Networks           []string // e.g. "visa", "mastercard"
	RewardTypes        []string // e.g. "cash back", "points", "miles"
	SpendingCategories []string // e.g. "dining", "groceries", "gas"
	Audiences          []string // e.g. "student", "business owner"
	WantsWelcomeBonus  *bool
	NoForeignTxFee     *bool
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.FeeTier == FeeTierAny &&
		c.MaxAnnualFee == nil &&
		len(c.Categories) == 0 &&
		len(c.Issuers) == 0 &&
		len(c.Networks) == 0 &&
		len(c.RewardTypes) == 0 &&
		len(c.SpendingCategories) == 0 &&
		len(c.Audiences) == 0 &&
		c.WantsWelcomeBonus == nil &&
		c.NoForeignTxFee == nil
}

// Candidate is a product under consideration for the final result.
type Candidate struct {
	Product    Product
	Score      float32 // Cosine similarity to the query, 0 when not computed
	Featured   bool
	BrandGroup string // Brand-group key for diversity de-duplication, "" when none
}

// Recommendation is a Candidate enriched with generated explanatory text.
// It is the unit returned to the caller.
type Recommendation struct {
	Candidate
	Description string // Short generated feature description
	Connective  string // Per-item connecting sentence
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser is a human party in the conversation.
	RoleUser Role = iota + 1
	// RoleAssistant is the assistant party.
	RoleAssistant
)

// Turn is one message of conversation history, most-recent last.
type Turn struct {
	Role    Role
	Content string
}

// Outcome is the single terminal intent assigned to a query by the
// classification pipeline. Exactly one outcome per query, never several.
type Outcome int

const (
	// OutcomeMeta is a question about the assistant's own construction.
	OutcomeMeta Outcome = iota + 1
	// OutcomeOffTopic is a query outside the card domain.
	OutcomeOffTopic
	// OutcomeGeneral is a definition or how-does-it-work question answered
	// without retrieval.
	OutcomeGeneral
	// OutcomePrevious is an anaphoric reference to items already shown.
	OutcomePrevious
	// OutcomeSpecific names exactly one catalog item.
	OutcomeSpecific
	// OutcomeRecommend requests a ranked list of items (the default).
	OutcomeRecommend
)

// String returns the outcome name used in answer metadata and logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeMeta:
		return "meta"
	case OutcomeOffTopic:
		return "off_topic"
	case OutcomeGeneral:
		return "general"
	case OutcomePrevious:
		return "previous"
	case OutcomeSpecific:
		return "specific"
	case OutcomeRecommend:
		return "recommend"
	default:
		return "unknown"
	}
}

// Answer metadata stage values. StageNoMatch distinguishes "nothing matched"
// from failures, which report StageFallback.
const (
	StageNoMatch  = "no_match"
	StageFallback = "fallback"
)

// AnswerMetadata describes how an answer was produced.
type AnswerMetadata struct {
	Stage        string // Outcome name, or StageNoMatch / StageFallback
	UsedFallback bool
	Reason       string
}

// Answer is the structured result of one request. Recommendations is empty
// for all non-retrieval outcomes and has length min(K, eligible pool size)
// for retrieval outcomes.
type Answer struct {
	Recommendations []Recommendation
	SummaryText     string
	Title           string
	Metadata        AnswerMetadata
}
