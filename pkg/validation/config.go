// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
)

var (
	// ErrUnknownOfferType is returned for offers whose type is not fixed, floating or hybrid.
	ErrUnknownOfferType = errors.New("unknown offer type")
	// ErrInvalidMarket is returned when the principal, term or reference rate cannot be used.
	ErrInvalidMarket = errors.New("invalid market")
	// ErrInvalidOffer is returned when an offer is structurally unusable.
	ErrInvalidOffer = errors.New("invalid offer")
)

// ValidateMarket checks the loan amount, term and reference rate shared by all offers.
func ValidateMarket(principal float64, termYears int, referenceRate float64) error {
	if math.IsNaN(principal) || principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidMarket, principal)
	}
	if termYears <= 0 {
		return fmt.Errorf("%w: term must be at least one year, got %d", ErrInvalidMarket, termYears)
	}
	if math.IsNaN(referenceRate) || math.IsInf(referenceRate, 0) {
		return fmt.Errorf("%w: reference rate must be a finite number", ErrInvalidMarket)
	}
	return nil
}

// ValidateOffer rejects offers the engine cannot evaluate and returns warnings
// for those it can evaluate only by assuming defaults.
func ValidateOffer(offer loans.Offer, termYears int) ([]string, error) {
	label := offerLabel(offer)

	if !offer.Type.Valid() {
		return nil, fmt.Errorf("%w %q for offer %s", ErrUnknownOfferType, offer.Type, label)
	}
	if offer.Type == loans.OfferHybrid && offer.FixedYears <= 0 {
		return nil, fmt.Errorf("%w: hybrid offer %s needs a positive fixedYears", ErrInvalidOffer, label)
	}
	if offer.ReductionCap != nil && *offer.ReductionCap < 0 {
		return nil, fmt.Errorf("%w: offer %s has a negative reduction cap", ErrInvalidOffer, label)
	}
	for _, cost := range offer.Costs {
		if cost.Amount < 0 {
			return nil, fmt.Errorf("%w: offer %s has negative cost '%s'", ErrInvalidOffer, label, cost.Name)
		}
	}

	var warnings []string
	if offer.Lender == "" {
		warnings = append(warnings, fmt.Sprintf("Offer %s has no lender name", label))
	}

	switch offer.Type {
	case loans.OfferFixed:
		if missing(offer.Rate) {
			warnings = append(warnings, fmt.Sprintf("Offer %s publishes no rate; 0%% is assumed", label))
		}
	case loans.OfferFloating:
		if missing(offer.Spread) {
			warnings = append(warnings, fmt.Sprintf("Offer %s publishes no spread; the reference rate alone is used", label))
		}
	case loans.OfferHybrid:
		if missing(offer.Rate) {
			warnings = append(warnings, fmt.Sprintf("Offer %s publishes no fixed-tranche rate; 0%% is assumed", label))
		}
		if missing(offer.Spread) {
			warnings = append(warnings, fmt.Sprintf("Offer %s publishes no floating spread; the reference rate alone is used", label))
		}
		if offer.FixedYears >= termYears {
			warnings = append(warnings, fmt.Sprintf("Offer %s fixed tranche (%d years) covers the whole %d-year term",
				label, offer.FixedYears, termYears))
		}
	}

	for _, discount := range offer.Discounts {
		if discount.RateReduction == nil && discount.SpreadReduction == nil && discount.FixedTrancheReduction == nil {
			warnings = append(warnings, fmt.Sprintf("Offer %s discount '%s' declares no reduction", label, discount.Name))
		}
		if discount.AnnualCost < 0 {
			warnings = append(warnings, fmt.Sprintf("Offer %s discount '%s' has a negative annual cost", label, discount.Name))
		}
	}

	return warnings, nil
}

// OfferSetValidator validates a whole comparison request.
type OfferSetValidator struct {
	Principal     float64
	TermYears     int
	ReferenceRate float64
	Offers        []loans.Offer
}

// ValidateAll validates the market and every offer. It stops at the first
// error and otherwise returns the accumulated warnings.
func (v *OfferSetValidator) ValidateAll() ([]string, error) {
	if err := ValidateMarket(v.Principal, v.TermYears, v.ReferenceRate); err != nil {
		return nil, err
	}
	if len(v.Offers) == 0 {
		return nil, fmt.Errorf("%w: no offers to compare", ErrInvalidOffer)
	}

	var warnings []string
	seen := make(map[string]struct{}, len(v.Offers))
	for _, offer := range v.Offers {
		if offer.ID != "" {
			if _, dup := seen[offer.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate offer id %s", ErrInvalidOffer, offer.ID)
			}
			seen[offer.ID] = struct{}{}
		}

		offerWarnings, err := ValidateOffer(offer, v.TermYears)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, offerWarnings...)
	}

	if v.ReferenceRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Reference rate is negative (%.2f%%); floating rates are floored at 0%%", v.ReferenceRate))
	}
	if v.TermYears > constants.MaxUsualTermYears {
		warnings = append(warnings, fmt.Sprintf("Term of %d years is unusually long", v.TermYears))
	}

	return warnings, nil
}

func missing(pair loans.RatePair) bool {
	return pair.Baseline == nil && pair.Discounted == nil
}

func offerLabel(offer loans.Offer) string {
	switch {
	case offer.Lender != "" && offer.ID != "":
		return fmt.Sprintf("'%s' (%s)", offer.Lender, offer.ID)
	case offer.Lender != "":
		return fmt.Sprintf("'%s'", offer.Lender)
	case offer.ID != "":
		return offer.ID
	}
	return "<unnamed>"
}
