package core

import (
	"testing"
)

func productWith(attrs map[string]string) *Product {
	return &Product{Id: 1, Name: "Test Card", Attributes: attrs}
}

func TestAttr_AliasOrder(t *testing.T) {
	p := productWith(map[string]string{
		"fee":        "$95",
		"annual_fee": "$0",
	})

	// "annual_fee" comes before "fee" in the alias list, so it wins even
	// though both keys are present.
	got, ok := p.Attr(FeeAliases)
	if !ok || got != "$0" {
		t.Errorf("Attr(FeeAliases) = %q, %v; want $0, true", got, ok)
	}
}

func TestAttr_CaseAndWhitespace(t *testing.T) {
	p := productWith(map[string]string{" Annual Fee ": " $250 "})

	got, ok := p.Attr(FeeAliases)
	if !ok || got != "$250" {
		t.Errorf("Attr(FeeAliases) = %q, %v; want $250, true", got, ok)
	}
}

func TestAttr_Missing(t *testing.T) {
	p := productWith(map[string]string{"color": "blue"})

	if _, ok := p.Attr(FeeAliases); ok {
		t.Errorf("Attr(FeeAliases) should report unknown for unrelated attributes")
	}
	if _, ok := (&Product{}).Attr(FeeAliases); ok {
		t.Errorf("Attr on empty attribute map should report unknown")
	}
}

func TestAnnualFee(t *testing.T) {
	tests := []struct {
		name      string
		attrs     map[string]string
		wantFee   float64
		wantKnown bool
	}{
		{name: "numeric", attrs: map[string]string{"annual_fee": "95"}, wantFee: 95, wantKnown: true},
		{name: "dollar sign", attrs: map[string]string{"annual_fee": "$550"}, wantFee: 550, wantKnown: true},
		{name: "thousands separator", attrs: map[string]string{"annual_fee": "$1,299"}, wantFee: 1299, wantKnown: true},
		{name: "zero", attrs: map[string]string{"annual_fee": "$0"}, wantFee: 0, wantKnown: true},
		{name: "no annual fee text", attrs: map[string]string{"fee": "No Annual Fee"}, wantFee: 0, wantKnown: true},
		{name: "intro offer resolves to steady state", attrs: map[string]string{"annual_fee": "$0 intro for the first year, then $95"}, wantFee: 95, wantKnown: true},
		{name: "missing", attrs: map[string]string{}, wantKnown: false},
		{name: "unparseable", attrs: map[string]string{"annual_fee": "varies"}, wantKnown: false},
		{name: "rate is not a fee", attrs: map[string]string{"annual_fee": "2% of balance"}, wantKnown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := productWith(tt.attrs)
			fee, known := p.AnnualFee()
			if known != tt.wantKnown {
				t.Fatalf("AnnualFee() known = %v, want %v", known, tt.wantKnown)
			}
			if known && fee != tt.wantFee {
				t.Errorf("AnnualFee() = %v, want %v", fee, tt.wantFee)
			}
		})
	}
}

func TestHasZeroFee_Strict(t *testing.T) {
	zero := productWith(map[string]string{"annual_fee": "$0"})
	if !zero.HasZeroFee() {
		t.Errorf("explicit $0 should pass the strict predicate")
	}

	unknown := productWith(nil)
	if unknown.HasZeroFee() {
		t.Errorf("unknown fee must not pass the strict predicate")
	}

	premium := &Product{Name: "Obsidian Reserve", Attributes: map[string]string{"annual_fee": "call for details"}}
	if premium.HasZeroFee() {
		t.Errorf("premium name with unresolvable fee must not pass")
	}

	withFee := productWith(map[string]string{"annual_fee": "$95"})
	if withFee.HasZeroFee() {
		t.Errorf("known nonzero fee must not pass")
	}
}

func TestFeatured(t *testing.T) {
	for _, truthy := range []string{"true", "Yes", "1", "featured"} {
		p := productWith(map[string]string{"featured": truthy})
		if !p.Featured() {
			t.Errorf("Featured() = false for %q", truthy)
		}
	}

	p := productWith(map[string]string{"featured": "no"})
	if p.Featured() {
		t.Errorf("Featured() = true for \"no\"")
	}
	if productWith(nil).Featured() {
		t.Errorf("Featured() = true with no attribute")
	}
}

func TestBrandGroup(t *testing.T) {
	p := productWith(map[string]string{"Brand Group": " SkyMiles Partners "})
	if got := p.BrandGroup(); got != "skymiles partners" {
		t.Errorf("BrandGroup() = %q, want normalized lowercase", got)
	}
	if productWith(nil).BrandGroup() != "" {
		t.Errorf("BrandGroup() should be empty when unset")
	}
}
