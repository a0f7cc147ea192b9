package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnnualRatePrecedence(t *testing.T) {
	discounts := []Discount{
		{Name: "Payroll", AnnualCost: 0, RateReduction: Float(0.3), SpreadReduction: Float(0.2)},
		{Name: "Home insurance", AnnualCost: 300, RateReduction: Float(0.2)},
	}

	tests := []struct {
		name          string
		offer         Offer
		apply         bool
		month         int
		expectedRate  float64
		expectedGuess bool
	}{
		{
			name:         "Fixed explicit baseline",
			offer:        Offer{Type: OfferFixed, Rate: RatePair{Baseline: Float(3.0), Discounted: Float(2.0)}, Discounts: discounts},
			expectedRate: 3.0,
		},
		{
			name:         "Fixed explicit baseline with discounts",
			offer:        Offer{Type: OfferFixed, Rate: RatePair{Baseline: Float(3.0)}, Discounts: discounts},
			apply:        true,
			expectedRate: 2.5,
		},
		{
			name:          "Fixed inferred from discounted",
			offer:         Offer{Type: OfferFixed, Rate: RatePair{Discounted: Float(2.1)}, Discounts: discounts},
			expectedRate:  2.6,
			expectedGuess: true,
		},
		{
			name:          "Fixed with no rate",
			offer:         Offer{Type: OfferFixed, Discounts: discounts},
			expectedRate:  0,
			expectedGuess: true,
		},
		{
			name:          "Fixed with no rate is floored after discounts",
			offer:         Offer{Type: OfferFixed, Discounts: discounts},
			apply:         true,
			expectedRate:  0,
			expectedGuess: true,
		},
		{
			name:         "Floating explicit spread",
			offer:        Offer{Type: OfferFloating, Spread: RatePair{Baseline: Float(0.99)}, Discounts: discounts},
			expectedRate: 3.99,
		},
		{
			name:         "Floating explicit spread with discounts uses spread then rate fallback",
			offer:        Offer{Type: OfferFloating, Spread: RatePair{Baseline: Float(0.99)}, Discounts: discounts},
			apply:        true,
			expectedRate: 3.99 - 0.2 - 0.2,
		},
		{
			name:          "Floating inferred from discounted spread",
			offer:         Offer{Type: OfferFloating, Spread: RatePair{Discounted: Float(0.5)}, Discounts: discounts},
			expectedRate:  3.0 + 0.5 + 0.4,
			expectedGuess: true,
		},
		{
			name:          "Floating with no spread is the index alone",
			offer:         Offer{Type: OfferFloating},
			expectedRate:  3.0,
			expectedGuess: true,
		},
		{
			name: "Hybrid fixed tranche",
			offer: Offer{Type: OfferHybrid, FixedYears: 5,
				Rate: RatePair{Baseline: Float(2.8)}, Spread: RatePair{Baseline: Float(1.0)}, Discounts: discounts},
			month:        60,
			expectedRate: 2.8,
		},
		{
			name: "Hybrid floating tranche",
			offer: Offer{Type: OfferHybrid, FixedYears: 5,
				Rate: RatePair{Baseline: Float(2.8)}, Spread: RatePair{Baseline: Float(1.0)}, Discounts: discounts},
			month:        61,
			expectedRate: 4.0,
		},
		{
			name: "Hybrid fixed tranche falls back to rate reductions",
			offer: Offer{Type: OfferHybrid, FixedYears: 5,
				Rate: RatePair{Baseline: Float(2.8)}, Spread: RatePair{Baseline: Float(1.0)}, Discounts: discounts},
			apply:        true,
			month:        1,
			expectedRate: 2.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month := tt.month
			if month == 0 {
				month = 1
			}
			rate, inferred := ResolveAnnualRate(tt.offer, 3.0, tt.apply, month, FallbackByCategory)
			assert.InDelta(t, tt.expectedRate, rate, 1e-9)
			assert.Equal(t, tt.expectedGuess, inferred)

			monthly, monthlyInferred := ResolveMonthlyRate(tt.offer, 3.0, tt.apply, month, FallbackByCategory)
			assert.InDelta(t, tt.expectedRate/100/12, monthly, 1e-12)
			assert.Equal(t, inferred, monthlyInferred)
		})
	}
}

func TestResolveAnnualRateStrictPolicy(t *testing.T) {
	offer := Offer{
		Type:   OfferFloating,
		Spread: RatePair{Baseline: Float(1.0)},
		Discounts: []Discount{
			{Name: "Payroll", RateReduction: Float(0.3)},
			{Name: "Life insurance", SpreadReduction: Float(0.25)},
		},
	}

	byCategory, _ := ResolveAnnualRate(offer, 2.5, true, 1, FallbackByCategory)
	strict, _ := ResolveAnnualRate(offer, 2.5, true, 1, FallbackStrict)

	assert.InDelta(t, 3.5-0.55, byCategory, 1e-9)
	assert.InDelta(t, 3.5-0.25, strict, 1e-9)
}

func TestBaselineInferenceConsistency(t *testing.T) {
	discounts := []Discount{
		{Name: "Payroll", RateReduction: Float(0.35), SpreadReduction: Float(0.25), FixedTrancheReduction: Float(0.4)},
		{Name: "Cards", RateReduction: Float(0.1)},
		{Name: "Insurance", RateReduction: Float(0.15), Assumed: true},
	}

	offers := map[string]Offer{
		"fixed":    {Type: OfferFixed, Rate: RatePair{Discounted: Float(2.45)}, Discounts: discounts},
		"floating": {Type: OfferFloating, Spread: RatePair{Discounted: Float(0.6)}, Discounts: discounts},
		"hybrid": {Type: OfferHybrid, FixedYears: 10, Rate: RatePair{Discounted: Float(2.2)},
			Spread: RatePair{Discounted: Float(0.75)}, Discounts: discounts},
	}

	for name, offer := range offers {
		t.Run(name, func(t *testing.T) {
			for _, month := range []int{1, 121} {
				category := offer.CategoryAt(month)
				reduction := SumReductions(offer.Discounts, category, FallbackByCategory, false)
				pair := offer.pairFor(category)
				index := 0.0
				if category == CategorySpread {
					index = 2.75
				}

				baseline, inferred := ResolveAnnualRate(offer, 2.75, false, month, FallbackByCategory)
				require.True(t, inferred)
				assert.InDelta(t, index+*pair.Discounted+reduction, baseline, 1e-9)

				discounted, _ := ResolveAnnualRate(offer, 2.75, true, month, FallbackByCategory)
				assert.InDelta(t, index+*pair.Discounted, discounted, 1e-9)
			}
		})
	}
}

func TestDisabledDiscountsStillDriveInference(t *testing.T) {
	offer := Offer{
		Type: OfferFixed,
		Rate: RatePair{Discounted: Float(2.0)},
		Discounts: []Discount{
			{Name: "Payroll", RateReduction: Float(0.5)},
			{Name: "Insurance", RateReduction: Float(0.3), Enabled: Bool(false)},
		},
	}

	baseline, inferred := ResolveAnnualRate(offer, 0, false, 1, FallbackByCategory)
	assert.True(t, inferred)
	assert.InDelta(t, 2.8, baseline, 1e-9)

	discounted, _ := ResolveAnnualRate(offer, 0, true, 1, FallbackByCategory)
	assert.InDelta(t, 2.3, discounted, 1e-9)
}

func TestReductionCap(t *testing.T) {
	offer := Offer{
		Type:         OfferFixed,
		Rate:         RatePair{Discounted: Float(2.0)},
		ReductionCap: Float(0.6),
		Discounts: []Discount{
			{Name: "Payroll", RateReduction: Float(0.5)},
			{Name: "Insurance", RateReduction: Float(0.3)},
		},
	}

	baseline, _ := ResolveAnnualRate(offer, 0, false, 1, FallbackByCategory)
	assert.InDelta(t, 2.6, baseline, 1e-9, "inference uses the cap")

	discounted, _ := ResolveAnnualRate(offer, 0, true, 1, FallbackByCategory)
	assert.InDelta(t, 2.0, discounted, 1e-9, "applied reduction is capped")

	offer.Discounts[0].Enabled = Bool(false)
	partial, _ := ResolveAnnualRate(offer, 0, true, 1, FallbackByCategory)
	assert.InDelta(t, 2.3, partial, 1e-9)
}

func TestParseFallbackPolicy(t *testing.T) {
	policy, err := ParseFallbackPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FallbackByCategory, policy)

	policy, err = ParseFallbackPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, FallbackStrict, policy)

	_, err = ParseFallbackPolicy("loose")
	assert.Error(t, err)
}

func TestCategoryAt(t *testing.T) {
	hybrid := Offer{Type: OfferHybrid, FixedYears: 3}
	assert.Equal(t, CategoryFixedTranche, hybrid.CategoryAt(36))
	assert.Equal(t, CategorySpread, hybrid.CategoryAt(37))
	assert.Equal(t, CategorySpread, Offer{Type: OfferFloating}.CategoryAt(1))
	assert.Equal(t, CategoryRate, Offer{Type: OfferFixed}.CategoryAt(400))
	assert.Equal(t, "fixedTranche", CategoryFixedTranche.String())
}
