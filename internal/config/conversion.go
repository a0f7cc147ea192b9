// Package config defines conversion utilities for configuration objects.
package config

import (
	"strings"

	"github.com/iwvelando/mortgage-compare/pkg/loans"
)

// ToLoansOffer converts a config Offer into the engine's loans.Offer.
// Slices are copied so the result never aliases the configuration.
func (o Offer) ToLoansOffer() loans.Offer {
	offer := loans.Offer{
		ID:           o.ID,
		Lender:       strings.TrimSpace(o.Lender),
		Type:         loans.OfferType(strings.ToLower(strings.TrimSpace(o.Type))),
		Rate:         o.Rate.toLoans(),
		Spread:       o.Spread.toLoans(),
		FixedYears:   o.FixedYears,
		ReductionCap: copyFloat(o.ReductionCap),
	}

	for _, cost := range o.Costs {
		offer.Costs = append(offer.Costs, loans.Cost{Name: cost.Name, Amount: cost.Amount})
	}

	for _, discount := range o.Discounts {
		converted := loans.Discount{
			Name:                  discount.Name,
			AnnualCost:            discount.AnnualCost,
			RateReduction:         copyFloat(discount.RateReduction),
			SpreadReduction:       copyFloat(discount.SpreadReduction),
			FixedTrancheReduction: copyFloat(discount.FixedTrancheReduction),
			Assumed:               discount.Assumed,
		}
		if discount.Enabled != nil {
			converted.Enabled = loans.Bool(*discount.Enabled)
		}
		offer.Discounts = append(offer.Discounts, converted)
	}

	return offer
}

// FromLoansOffer converts an engine offer back to its config form, e.g. for export.
func FromLoansOffer(offer loans.Offer) Offer {
	converted := Offer{
		ID:           offer.ID,
		Lender:       offer.Lender,
		Type:         string(offer.Type),
		Rate:         RatePair{Baseline: copyFloat(offer.Rate.Baseline), Discounted: copyFloat(offer.Rate.Discounted)},
		Spread:       RatePair{Baseline: copyFloat(offer.Spread.Baseline), Discounted: copyFloat(offer.Spread.Discounted)},
		FixedYears:   offer.FixedYears,
		ReductionCap: copyFloat(offer.ReductionCap),
	}
	for _, cost := range offer.Costs {
		converted.Costs = append(converted.Costs, Cost{Name: cost.Name, Amount: cost.Amount})
	}
	for _, discount := range offer.Discounts {
		d := Discount{
			Name:                  discount.Name,
			AnnualCost:            discount.AnnualCost,
			RateReduction:         copyFloat(discount.RateReduction),
			SpreadReduction:       copyFloat(discount.SpreadReduction),
			FixedTrancheReduction: copyFloat(discount.FixedTrancheReduction),
			Assumed:               discount.Assumed,
		}
		if discount.Enabled != nil {
			d.Enabled = loans.Bool(*discount.Enabled)
		}
		converted.Discounts = append(converted.Discounts, d)
	}
	return converted
}

// LoansOffers converts every configured offer.
func (c *Configuration) LoansOffers() []loans.Offer {
	offers := make([]loans.Offer, 0, len(c.Offers))
	for _, offer := range c.Offers {
		offers = append(offers, offer.ToLoansOffer())
	}
	return offers
}

// ToExtraProducts converts the extra products; a missing enabled flag means enabled.
func (c *Configuration) ToExtraProducts() []loans.ExtraProduct {
	if len(c.ExtraProducts) == 0 {
		return nil
	}
	products := make([]loans.ExtraProduct, 0, len(c.ExtraProducts))
	for _, product := range c.ExtraProducts {
		enabled := product.Enabled == nil || *product.Enabled
		products = append(products, loans.ExtraProduct{
			Name:       product.Name,
			AnnualCost: product.AnnualCost,
			Enabled:    enabled,
		})
	}
	return products
}

// ToLoans converts the solver settings, filling unset limits with defaults.
func (s SolverConfig) ToLoans() loans.SolverConfig {
	cfg := loans.DefaultSolverConfig()
	if s.Lower != 0 {
		cfg.Lower = s.Lower
	}
	if s.Upper != 0 {
		cfg.Upper = s.Upper
	}
	if s.WidenedLower != 0 {
		cfg.WidenedLower = s.WidenedLower
	}
	if s.WidenedUpper != 0 {
		cfg.WidenedUpper = s.WidenedUpper
	}
	if s.Tolerance > 0 {
		cfg.Tolerance = s.Tolerance
	}
	if s.MaxIterations > 0 {
		cfg.MaxIterations = s.MaxIterations
	}
	return cfg
}

// EvaluatorOptions returns the loans.Evaluator options selected by the configuration.
func (c *Configuration) EvaluatorOptions() ([]loans.Option, error) {
	policy, err := loans.ParseFallbackPolicy(c.Policy.ReductionFallback)
	if err != nil {
		return nil, err
	}
	return []loans.Option{
		loans.WithPolicy(policy),
		loans.WithSolver(c.Solver.ToLoans()),
	}, nil
}

func (p RatePair) toLoans() loans.RatePair {
	return loans.RatePair{Baseline: copyFloat(p.Baseline), Discounted: copyFloat(p.Discounted)}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return loans.Float(*v)
}
