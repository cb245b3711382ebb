package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/metrics"
)

// DefaultFallbackPercent applies when no settings row exists. Silent
// degradation rather than an error; a misconfigured install still prices.
const DefaultFallbackPercent = 20

// Resolution is the outcome of the precedence cascade: the single applicable
// percent and the level that produced it. Levels never stack or average.
type Resolution struct {
	Percent float64              `json:"percent"`
	Source  enums.DiscountSource `json:"source"`
}

// DealerContext carries the dealer-side resolution inputs. A nil context means
// anonymous: the dealer levels of the cascade are skipped entirely.
type DealerContext struct {
	DealerID       uuid.UUID
	BlanketPercent *float64
}

// ProductRef identifies a product and its collection memberships. Collection
// order matters for tier scope selection, not for percent resolution.
type ProductRef struct {
	ProductID     string
	CollectionIDs []string
}

// Resolver walks the six-level precedence cascade over a rule snapshot.
type Resolver struct {
	store   RuleStore
	metrics *metrics.PricingMetrics
}

// NewResolver builds a resolver backed by the provided rule store. Metrics may
// be nil.
func NewResolver(store RuleStore, m *metrics.PricingMetrics) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("rule store required")
	}
	return &Resolver{store: store, metrics: m}, nil
}

// resolverStep is one precedence level. Steps receive the same snapshot and
// product and report whether their level applies. The engine tries them in
// order and stops at the first hit, which keeps the cascade's order explicit
// and extension a matter of inserting a step.
type resolverStep struct {
	source enums.DiscountSource
	apply  func(rs *RuleSet, ref ProductRef) (float64, bool)
}

var cascade = []resolverStep{
	{
		source: enums.DiscountSourceDealerProduct,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			if !rs.hasDealer {
				return 0, false
			}
			percent, ok := rs.dealerProduct[ref.ProductID]
			return percent, ok
		},
	},
	{
		source: enums.DiscountSourceDealerCategory,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			if !rs.hasDealer {
				return 0, false
			}
			return maxPercent(rs.dealerCategory, ref.CollectionIDs)
		},
	},
	{
		source: enums.DiscountSourceDealer,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			if !rs.hasDealer || rs.blanket == nil {
				return 0, false
			}
			return *rs.blanket, true
		},
	},
	{
		source: enums.DiscountSourceProduct,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			percent, ok := rs.product[ref.ProductID]
			return percent, ok
		},
	},
	{
		source: enums.DiscountSourceCategory,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			return maxPercent(rs.category, ref.CollectionIDs)
		},
	},
	{
		source: enums.DiscountSourceGlobal,
		apply: func(rs *RuleSet, ref ProductRef) (float64, bool) {
			return rs.fallback, true
		},
	},
}

// maxPercent picks the best matching rule among the product's collections.
// Category levels are the only ones needing a tie-break: product and dealer
// rules are uniquely keyed.
func maxPercent(rules map[string]float64, collectionIDs []string) (float64, bool) {
	best := 0.0
	found := false
	for _, id := range collectionIDs {
		percent, ok := rules[id]
		if !ok {
			continue
		}
		if !found || percent > best {
			best = percent
		}
		found = true
	}
	return best, found
}

// Resolve computes the discount for a single product. It is the batch path
// with a one-element input, so single and batch resolution cannot diverge.
func (r *Resolver) Resolve(ctx context.Context, dealer *DealerContext, ref ProductRef) (Resolution, error) {
	rs, err := r.Snapshot(ctx, dealer, []ProductRef{ref})
	if err != nil {
		return Resolution{}, err
	}
	return rs.Resolve(ref), nil
}

// ResolveBatch computes discounts for every product from one snapshot, keyed
// by product id.
func (r *Resolver) ResolveBatch(ctx context.Context, dealer *DealerContext, refs []ProductRef) (map[string]Resolution, error) {
	rs, err := r.Snapshot(ctx, dealer, refs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Resolution, len(refs))
	for _, ref := range refs {
		out[ref.ProductID] = rs.Resolve(ref)
	}
	return out, nil
}

// Snapshot prefetches every rule row relevant to the given products in a
// bounded number of store queries: one per rule flavor plus the settings row
// and the three tier scopes, regardless of how many products are passed.
func (r *Resolver) Snapshot(ctx context.Context, dealer *DealerContext, refs []ProductRef) (*RuleSet, error) {
	productIDs := make([]string, 0, len(refs))
	seenCollections := make(map[string]struct{})
	collectionIDs := make([]string, 0)
	for _, ref := range refs {
		productIDs = append(productIDs, ref.ProductID)
		for _, id := range ref.CollectionIDs {
			if _, ok := seenCollections[id]; ok {
				continue
			}
			seenCollections[id] = struct{}{}
			collectionIDs = append(collectionIDs, id)
		}
	}

	rs := &RuleSet{
		resolver: r,
		fallback: DefaultFallbackPercent,
	}

	if dealer != nil {
		rs.hasDealer = true
		rs.blanket = dealer.BlanketPercent

		dealerProduct, err := r.store.DealerProductPercents(ctx, dealer.DealerID, productIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer product rules")
		}
		rs.dealerProduct = dealerProduct

		dealerCategory, err := r.store.DealerCategoryPercents(ctx, dealer.DealerID, collectionIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer category rules")
		}
		rs.dealerCategory = dealerCategory
	}

	product, err := r.store.ProductPercents(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product rules")
	}
	rs.product = product

	category, err := r.store.CategoryPercents(ctx, collectionIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category rules")
	}
	rs.category = category

	configured, err := r.store.SettingsPercent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	if configured != nil {
		rs.fallback = *configured
	}

	productTiers, err := r.store.TiersByReference(ctx, enums.DiscountScopeProduct, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product tiers")
	}
	categoryTiers, err := r.store.TiersByReference(ctx, enums.DiscountScopeCategory, collectionIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category tiers")
	}
	globalTiers, err := r.store.TiersByReference(ctx, enums.DiscountScopeGlobal, []string{enums.GlobalTierReferenceID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load global tiers")
	}
	rs.tiers = tierIndex{
		product:  productTiers,
		category: categoryTiers,
		global:   globalTiers[enums.GlobalTierReferenceID],
	}

	return rs, nil
}

// RuleSet is an immutable in-memory snapshot of every rule row relevant to a
// request. Resolution over a snapshot is pure: no queries, no shared state.
type RuleSet struct {
	resolver  *Resolver
	hasDealer bool
	blanket   *float64

	dealerProduct  map[string]float64
	dealerCategory map[string]float64
	product        map[string]float64
	category       map[string]float64
	fallback       float64

	tiers tierIndex
}

// Resolve walks the cascade for one product. The final global step always
// applies, so resolution cannot fail.
func (rs *RuleSet) Resolve(ref ProductRef) Resolution {
	for _, step := range cascade {
		percent, ok := step.apply(rs, ref)
		if !ok {
			continue
		}
		if rs.resolver != nil {
			rs.resolver.metrics.IncResolved(step.source.String())
		}
		return Resolution{Percent: percent, Source: step.source}
	}
	// Unreachable: the global step always matches.
	return Resolution{Percent: rs.fallback, Source: enums.DiscountSourceGlobal}
}
