package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// RuleStore is the persistence abstraction holding every discount rule flavor.
// All methods are batch shaped: callers pass the full set of reference ids they
// care about and get back a map, so a catalog page costs a bounded number of
// queries no matter how many products it shows.
type RuleStore interface {
	// DealerProductPercents returns dealer-specific product overrides keyed by
	// product id.
	DealerProductPercents(ctx context.Context, dealerID uuid.UUID, productIDs []string) (map[string]float64, error)

	// DealerCategoryPercents returns dealer-specific collection overrides keyed
	// by collection id.
	DealerCategoryPercents(ctx context.Context, dealerID uuid.UUID, collectionIDs []string) (map[string]float64, error)

	// ProductPercents returns global product rules keyed by product id.
	ProductPercents(ctx context.Context, productIDs []string) (map[string]float64, error)

	// CategoryPercents returns global collection rules keyed by collection id.
	CategoryPercents(ctx context.Context, collectionIDs []string) (map[string]float64, error)

	// SettingsPercent returns the configured fallback percent, or nil when the
	// settings row does not exist.
	SettingsPercent(ctx context.Context) (*float64, error)

	// TiersByReference returns quantity tiers for the given scope keyed by
	// reference id, each list sorted by ascending MinQuantity.
	TiersByReference(ctx context.Context, scope enums.DiscountScope, referenceIDs []string) (map[string][]Tier, error)
}
