package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/cardpilot/core"
)

func recommendation(name, url, description string) core.Recommendation {
	return core.Recommendation{
		Candidate: core.Candidate{
			Product: core.Product{
				Id:   core.IDFromContent(name),
				Name: name,
				URL:  url,
			},
		},
		Description: description,
	}
}

func testRecs() []core.Recommendation {
	return []core.Recommendation{
		recommendation("Everyday Cash", "https://cards.example/everyday", "Earns 2% back on all purchases"),
		recommendation("Voyager Miles", "https://cards.example/voyager", "Earns 2x miles on travel"),
	}
}

const goodListing = `Here are two cards that fit:

- [Everyday Cash](https://cards.example/everyday): Flat 2% back everywhere. Great if you want simplicity.
- [Voyager Miles](https://cards.example/voyager): 2x miles on travel and dining. A solid travel companion.`

func TestValidateAcceptsWellFormedListing(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(goodListing, testRecs()))
}

func TestValidateRejectsTextWithoutBullets(t *testing.T) {
	v := NewValidator()
	err := v.Validate("These cards are all great, trust me.", testRecs())
	assert.ErrorIs(t, err, ErrNoListing)
}

func TestValidateRejectsMissingCard(t *testing.T) {
	v := NewValidator()
	partial := "- [Everyday Cash](https://cards.example/everyday): Flat 2% back. Simple and free."
	err := v.Validate(partial, testRecs())
	assert.ErrorIs(t, err, ErrMissingCard)
}

func TestValidateRejectsUnexpectedCard(t *testing.T) {
	v := NewValidator()
	extra := goodListing + "\n- [Summit Reserve](https://cards.example/summit): Premium perks. For big spenders."
	err := v.Validate(extra, testRecs())
	assert.ErrorIs(t, err, ErrUnexpectedCard)
}

func TestValidateRejectsDuplicateBullets(t *testing.T) {
	v := NewValidator()
	doubled := goodListing + "\n- [Everyday Cash](https://cards.example/everyday): Again. Twice now."
	err := v.Validate(doubled, testRecs())
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestValidateRejectsWrongURL(t *testing.T) {
	v := NewValidator()
	wrong := strings.Replace(goodListing, "https://cards.example/voyager", "https://evil.example/voyager", 1)
	err := v.Validate(wrong, testRecs())
	assert.ErrorIs(t, err, ErrBadLink)
}

func TestValidateRejectsBulletWithoutLink(t *testing.T) {
	v := NewValidator()
	bare := "- Everyday Cash: Flat 2% back. Simple.\n- [Voyager Miles](https://cards.example/voyager): 2x miles. Nice."
	err := v.Validate(bare, testRecs())
	assert.ErrorIs(t, err, ErrBadLink)
}

func TestValidateRejectsSingleSentenceBullet(t *testing.T) {
	v := NewValidator()
	terse := strings.Replace(goodListing,
		"Flat 2% back everywhere. Great if you want simplicity.",
		"Flat 2% back everywhere", 1)
	err := v.Validate(terse, testRecs())
	assert.ErrorIs(t, err, ErrShortDescription)
}

func TestRepairDuplicatesCollapsesDoubledNames(t *testing.T) {
	v := NewValidator()
	glitched := "- [Everyday Cash](https://cards.example/everyday): Everyday Cash Everyday Cash is a flat-rate card. Simple to use."
	repaired := v.RepairDuplicates(glitched, testRecs())
	assert.Contains(t, repaired, "Everyday Cash is a flat-rate card")
	assert.NotContains(t, repaired, "Everyday Cash Everyday Cash")

	commaGlitch := "Voyager Miles, Voyager Miles earns 2x."
	assert.Equal(t, "Voyager Miles earns 2x.", v.RepairDuplicates(commaGlitch, testRecs()))
}

func TestRepairDuplicatesIsIdempotent(t *testing.T) {
	v := NewValidator()
	glitched := "- [Everyday Cash](https://cards.example/everyday): Everyday Cash Everyday Cash Everyday Cash wins. Really."
	once := v.RepairDuplicates(glitched, testRecs())
	twice := v.RepairDuplicates(once, testRecs())
	assert.Equal(t, once, twice)

	clean := v.RepairDuplicates(goodListing, testRecs())
	assert.Equal(t, goodListing, clean)
}

func TestFinalizeKeepsValidText(t *testing.T) {
	v := NewValidator()
	out, resynthesized := v.Finalize(goodListing, testRecs())
	assert.False(t, resynthesized)
	assert.Equal(t, goodListing, out)
}

func TestFinalizeFallsBackOnMalformedText(t *testing.T) {
	v := NewValidator()
	out, resynthesized := v.Finalize("Sorry, I could not produce a list.", testRecs())
	assert.True(t, resynthesized)
	require.NoError(t, v.Validate(out, testRecs()))
}

func TestResynthesizeIsDeterministicAndValid(t *testing.T) {
	v := NewValidator()
	recs := testRecs()

	first := Resynthesize(recs)
	second := Resynthesize(recs)
	assert.Equal(t, first, second)
	require.NoError(t, v.Validate(first, recs))

	assert.Contains(t, first, "- [Everyday Cash](https://cards.example/everyday): Earns 2% back on all purchases.")
	assert.Contains(t, first, "- [Voyager Miles](https://cards.example/voyager): Earns 2x miles on travel.")
}

func TestResynthesizeVariesConnectives(t *testing.T) {
	recs := []core.Recommendation{
		recommendation("Alpha", "https://cards.example/a", "First pick"),
		recommendation("Bravo", "https://cards.example/b", "Second pick"),
		recommendation("Charlie", "https://cards.example/c", "Third pick"),
	}
	lines := strings.Split(Resynthesize(recs), "\n")
	require.Len(t, lines, 3)
	assert.NotEqual(t, lineTail(lines[0]), lineTail(lines[1]))
	assert.NotEqual(t, lineTail(lines[1]), lineTail(lines[2]))
}

func lineTail(line string) string {
	idx := strings.LastIndex(line, ". ")
	if idx < 0 {
		return line
	}
	return line[idx:]
}
