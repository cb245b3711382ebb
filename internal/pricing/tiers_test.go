package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

var volumeTiers = []Tier{
	{MinQuantity: 10, Percent: 25},
	{MinQuantity: 50, Percent: 30},
	{MinQuantity: 100, Percent: 35},
}

func TestActiveTier(t *testing.T) {
	tests := []struct {
		quantity    int
		wantOK      bool
		wantPercent float64
	}{
		{quantity: 5, wantOK: false},
		{quantity: 10, wantOK: true, wantPercent: 25},
		{quantity: 49, wantOK: true, wantPercent: 25},
		{quantity: 50, wantOK: true, wantPercent: 30},
		{quantity: 1000, wantOK: true, wantPercent: 35},
	}
	for _, tt := range tests {
		tier, ok := ActiveTier(volumeTiers, tt.quantity)
		if ok != tt.wantOK {
			t.Fatalf("qty %d: ok=%v, want %v", tt.quantity, ok, tt.wantOK)
		}
		if ok && tier.Percent != tt.wantPercent {
			t.Fatalf("qty %d: got %.2f, want %.2f", tt.quantity, tier.Percent, tt.wantPercent)
		}
	}
}

func TestNextTier(t *testing.T) {
	tests := []struct {
		quantity int
		wantOK   bool
		wantMin  int
	}{
		{quantity: 5, wantOK: true, wantMin: 10},
		{quantity: 10, wantOK: true, wantMin: 50},
		{quantity: 99, wantOK: true, wantMin: 100},
		{quantity: 100, wantOK: false},
	}
	for _, tt := range tests {
		tier, ok := NextTier(volumeTiers, tt.quantity)
		if ok != tt.wantOK {
			t.Fatalf("qty %d: ok=%v, want %v", tt.quantity, ok, tt.wantOK)
		}
		if ok && tier.MinQuantity != tt.wantMin {
			t.Fatalf("qty %d: got next %d, want %d", tt.quantity, tier.MinQuantity, tt.wantMin)
		}
	}
}

func TestEffectivePercent(t *testing.T) {
	base := Resolution{Percent: 15, Source: enums.DiscountSourceGlobal}

	if got := EffectivePercent(base, volumeTiers, 5); got != 15 {
		t.Fatalf("below first threshold: got %.2f, want base 15.00", got)
	}
	if got := EffectivePercent(base, volumeTiers, 50); got != 30 {
		t.Fatalf("at threshold: got %.2f, want 30.00", got)
	}
	if got := EffectivePercent(base, nil, 500); got != 15 {
		t.Fatalf("no tiers: got %.2f, want base 15.00", got)
	}
}

func TestTiersForScopeSelection(t *testing.T) {
	productTiers := []Tier{{MinQuantity: 5, Percent: 21}}
	firstCollTiers := []Tier{{MinQuantity: 5, Percent: 22}}
	secondCollTiers := []Tier{{MinQuantity: 5, Percent: 23}}
	globalTiers := []Tier{{MinQuantity: 5, Percent: 24}}

	store := &fakeRuleStore{
		tiers: map[enums.DiscountScope]map[string][]Tier{
			enums.DiscountScopeProduct: {
				"prod-a": productTiers,
			},
			enums.DiscountScopeCategory: {
				"coll-1": firstCollTiers,
				"coll-2": secondCollTiers,
			},
			enums.DiscountScopeGlobal: {
				enums.GlobalTierReferenceID: globalTiers,
			},
		},
	}
	resolver := newTestResolver(t, store)

	refs := []ProductRef{
		{ProductID: "prod-a", CollectionIDs: []string{"coll-1"}},
		{ProductID: "prod-b", CollectionIDs: []string{"coll-1", "coll-2"}},
		{ProductID: "prod-c", CollectionIDs: []string{"coll-3", "coll-2"}},
		{ProductID: "prod-d", CollectionIDs: []string{"coll-9"}},
	}
	rs, err := resolver.Snapshot(context.Background(), nil, refs)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	tests := []struct {
		name        string
		ref         ProductRef
		wantPercent float64
	}{
		{"product tiers win", refs[0], 21},
		{"first collection with tiers", refs[1], 22},
		{"skips tierless collection", refs[2], 23},
		{"global fallback", refs[3], 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiers := rs.TiersFor(tt.ref, enums.DiscountSourceGlobal)
			if len(tiers) != 1 || tiers[0].Percent != tt.wantPercent {
				t.Fatalf("got %+v, want single tier at %.2f", tiers, tt.wantPercent)
			}
		})
	}
}

func TestTiersSuppressedForDealerSources(t *testing.T) {
	store := &fakeRuleStore{
		tiers: map[enums.DiscountScope]map[string][]Tier{
			enums.DiscountScopeProduct: {
				"prod-a": volumeTiers,
			},
		},
	}
	resolver := newTestResolver(t, store)
	ref := ProductRef{ProductID: "prod-a"}
	rs, err := resolver.Snapshot(context.Background(), &DealerContext{DealerID: uuid.New()}, []ProductRef{ref})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	for _, source := range []enums.DiscountSource{
		enums.DiscountSourceDealerProduct,
		enums.DiscountSourceDealerCategory,
		enums.DiscountSourceDealer,
	} {
		if tiers := rs.TiersFor(ref, source); tiers != nil {
			t.Fatalf("source %s: got %+v, want nil", source, tiers)
		}
	}
	if tiers := rs.TiersFor(ref, enums.DiscountSourceProduct); len(tiers) != len(volumeTiers) {
		t.Fatalf("source %s should keep tiers, got %+v", enums.DiscountSourceProduct, tiers)
	}
}

func TestWholesalePrice(t *testing.T) {
	tests := []struct {
		retail  string
		percent float64
		want    string
	}{
		{"100.00", 25, "75"},
		{"199.99", 33, "133.99"},
		{"10.01", 15, "8.51"},
		{"0.01", 50, "0.01"},
		{"100.00", 0, "100"},
		{"100.00", 100, "0"},
	}
	for _, tt := range tests {
		retail := decimal.RequireFromString(tt.retail)
		got := WholesalePrice(retail, tt.percent)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("%s at %.0f%%: got %s, want %s", tt.retail, tt.percent, got, tt.want)
		}
	}
}

func TestDiscountPercentFromPrice(t *testing.T) {
	tests := []struct {
		override string
		retail   string
		want     float64
	}{
		{"75.00", "100.00", 25},
		{"133.99", "199.99", 33},
		{"120.00", "100.00", -20},
		{"50.00", "0.00", 0},
	}
	for _, tt := range tests {
		got := DiscountPercentFromPrice(
			decimal.RequireFromString(tt.override),
			decimal.RequireFromString(tt.retail),
		)
		if got != tt.want {
			t.Fatalf("%s over %s: got %.2f, want %.2f", tt.override, tt.retail, got, tt.want)
		}
	}
}
