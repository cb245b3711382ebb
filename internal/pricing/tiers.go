package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// Tier is one quantity threshold rule: at or above MinQuantity the percent
// replaces the base discount outright.
type Tier struct {
	MinQuantity int     `json:"min_quantity"`
	Percent     float64 `json:"discount_percent"`
}

// tierIndex holds the prefetched tier rows for a snapshot. Lists are sorted by
// ascending MinQuantity.
type tierIndex struct {
	product  map[string][]Tier
	category map[string][]Tier
	global   []Tier
}

// TiersFor selects the tier set for a product: product-scoped tiers win, then
// the first collection (in the product's own collection order) that has any,
// then the global set. Dealer-scoped base prices are exact, so any dealer
// source suppresses tiers entirely.
func (rs *RuleSet) TiersFor(ref ProductRef, source enums.DiscountSource) []Tier {
	if source.IsDealerScoped() {
		return nil
	}
	if tiers := rs.tiers.product[ref.ProductID]; len(tiers) > 0 {
		return tiers
	}
	for _, collectionID := range ref.CollectionIDs {
		if tiers := rs.tiers.category[collectionID]; len(tiers) > 0 {
			return tiers
		}
	}
	return rs.tiers.global
}

// ActiveTier returns the tier with the largest MinQuantity satisfied by the
// quantity. ok is false when the quantity is below every threshold or the set
// is empty, in which case the base percent stands.
func ActiveTier(tiers []Tier, quantity int) (Tier, bool) {
	var active Tier
	found := false
	for _, tier := range tiers {
		if tier.MinQuantity > quantity {
			continue
		}
		if !found || tier.MinQuantity > active.MinQuantity {
			active = tier
			found = true
		}
	}
	return active, found
}

// NextTier returns the nearest tier the quantity does not yet satisfy, for
// "order N more and save" messaging.
func NextTier(tiers []Tier, quantity int) (Tier, bool) {
	var next Tier
	found := false
	for _, tier := range tiers {
		if tier.MinQuantity <= quantity {
			continue
		}
		if !found || tier.MinQuantity < next.MinQuantity {
			next = tier
			found = true
		}
	}
	return next, found
}

// EffectivePercent overlays the active tier, if any, on the base resolution.
func EffectivePercent(base Resolution, tiers []Tier, quantity int) float64 {
	if tier, ok := ActiveTier(tiers, quantity); ok {
		return tier.Percent
	}
	return base.Percent
}

// WholesalePrice applies a discount percent to a retail price, rounding
// half-up at the cent.
func WholesalePrice(retail decimal.Decimal, percent float64) decimal.Decimal {
	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))
	return retail.Mul(factor).Round(2)
}

// DiscountPercentFromPrice back-computes the percent implied by an explicit
// price override, for display and audit only. Not clamped: an override above
// retail legitimately yields a negative percent.
func DiscountPercentFromPrice(override, retail decimal.Decimal) float64 {
	if retail.IsZero() {
		return 0
	}
	one := decimal.NewFromInt(1)
	percent := one.Sub(override.Div(retail)).Mul(decimal.NewFromInt(100))
	value, _ := percent.Round(2).Float64()
	return value
}
