package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

// FallbackPolicy controls which discount fields count towards a category.
type FallbackPolicy string

const (
	// FallbackByCategory lets a discount's generic rate reduction stand in
	// for a missing spread or fixed-tranche reduction.
	FallbackByCategory FallbackPolicy = "category"
	// FallbackStrict only counts the reduction declared for the exact category.
	FallbackStrict FallbackPolicy = "strict"
)

// ParseFallbackPolicy maps a config value to a policy; empty means FallbackByCategory.
func ParseFallbackPolicy(value string) (FallbackPolicy, error) {
	switch FallbackPolicy(value) {
	case "", FallbackByCategory:
		return FallbackByCategory, nil
	case FallbackStrict:
		return FallbackStrict, nil
	}
	return "", fmt.Errorf("unknown reduction fallback policy %q", value)
}

// reduction returns the amount a single discount contributes to the category.
func (p FallbackPolicy) reduction(d Discount, category Category) float64 {
	var specific *float64
	switch category {
	case CategorySpread:
		specific = d.SpreadReduction
	case CategoryFixedTranche:
		specific = d.FixedTrancheReduction
	default:
		specific = d.RateReduction
	}
	if specific != nil {
		return *specific
	}
	if category != CategoryRate && p != FallbackStrict && d.RateReduction != nil {
		return *d.RateReduction
	}
	return 0
}

// SumReductions adds up the reductions for the category. When activeOnly is
// set, disabled discounts are skipped.
func SumReductions(discounts []Discount, category Category, policy FallbackPolicy, activeOnly bool) float64 {
	total := 0.0
	for _, discount := range discounts {
		if activeOnly && !discount.Active() {
			continue
		}
		total += policy.reduction(discount, category)
	}
	return total
}

// CategoryAt returns the rate category in force for the given 1-based month.
func (o Offer) CategoryAt(month int) Category {
	switch o.Type {
	case OfferFloating:
		return CategorySpread
	case OfferHybrid:
		if month <= o.FixedMonths() {
			return CategoryFixedTranche
		}
		return CategorySpread
	default:
		return CategoryRate
	}
}

// pairFor returns the published values for the category.
func (o Offer) pairFor(category Category) RatePair {
	if category.floating() {
		return o.Spread
	}
	return o.Rate
}

// inferenceReduction is the reduction assumed to separate a published
// discounted value from its baseline.
func (o Offer) inferenceReduction(category Category, policy FallbackPolicy) float64 {
	if o.ReductionCap != nil {
		return *o.ReductionCap
	}
	return SumReductions(o.Discounts, category, policy, false)
}

// appliedReduction is the reduction actually granted for the active discounts.
func (o Offer) appliedReduction(category Category, policy FallbackPolicy) float64 {
	active := SumReductions(o.Discounts, category, policy, true)
	if o.ReductionCap != nil {
		return math.Min(active, *o.ReductionCap)
	}
	return active
}

// ResolveAnnualRate returns the annual percentage rate in force for the given
// month and whether the baseline had to be inferred. The result is floored at
// zero.
func ResolveAnnualRate(offer Offer, referenceRate float64, applyDiscounts bool, month int, policy FallbackPolicy) (float64, bool) {
	category := offer.CategoryAt(month)
	pair := offer.pairFor(category)

	index := 0.0
	if category.floating() {
		index = referenceRate
	}

	var baseRate float64
	inferred := false
	switch {
	case pair.Baseline != nil:
		baseRate = index + *pair.Baseline
	case pair.Discounted != nil:
		baseRate = index + *pair.Discounted + offer.inferenceReduction(category, policy)
		inferred = true
	default:
		baseRate = index
		inferred = true
	}

	rate := baseRate
	if applyDiscounts {
		rate -= offer.appliedReduction(category, policy)
	}
	return math.Max(0, rate), inferred
}

// ResolveMonthlyRate is ResolveAnnualRate converted to a monthly decimal rate.
func ResolveMonthlyRate(offer Offer, referenceRate float64, applyDiscounts bool, month int, policy FallbackPolicy) (float64, bool) {
	annual, inferred := ResolveAnnualRate(offer, referenceRate, applyDiscounts, month, policy)
	return annual / (constants.PercentageMultiplier * constants.MonthsPerYear), inferred
}
