package loans

import (
	"strings"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

// OfferType discriminates the rate structure of an Offer.
type OfferType string

const (
	// OfferFixed uses a single annual rate for the whole term.
	OfferFixed OfferType = "fixed"
	// OfferFloating uses a spread over the reference index for the whole term.
	OfferFloating OfferType = "floating"
	// OfferHybrid uses a fixed tranche followed by a floating tranche.
	OfferHybrid OfferType = "hybrid"
)

// Valid reports whether t is one of the known offer types.
func (t OfferType) Valid() bool {
	switch t {
	case OfferFixed, OfferFloating, OfferHybrid:
		return true
	}
	return false
}

// Category identifies which rate a discount reduction applies to.
type Category int

const (
	// CategoryRate is the generic nominal rate of a fixed offer.
	CategoryRate Category = iota
	// CategorySpread is the spread of a floating offer or tranche.
	CategorySpread
	// CategoryFixedTranche is the rate of the fixed tranche of a hybrid offer.
	CategoryFixedTranche
)

func (c Category) String() string {
	switch c {
	case CategorySpread:
		return "spread"
	case CategoryFixedTranche:
		return "fixedTranche"
	default:
		return "rate"
	}
}

// floating reports whether values in this category are spreads over the index.
func (c Category) floating() bool {
	return c == CategorySpread
}

// RatePair holds the published baseline and discounted values of a rate or
// spread, both annual percentages. Either may be absent.
type RatePair struct {
	Baseline   *float64 `json:"baseline,omitempty"`
	Discounted *float64 `json:"discounted,omitempty"`
}

// Cost is an upfront or ancillary cost charged when the loan is signed.
type Cost struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Discount is a conditional rate reduction tied to an ancillary product.
type Discount struct {
	Name                  string   `json:"name"`
	AnnualCost            float64  `json:"annualCost"`
	RateReduction         *float64 `json:"rateReduction,omitempty"`
	SpreadReduction       *float64 `json:"spreadReduction,omitempty"`
	FixedTrancheReduction *float64 `json:"fixedTrancheReduction,omitempty"`
	// Assumed marks the reduction values as estimates rather than contractual figures.
	Assumed bool `json:"assumed,omitempty"`
	// Enabled defaults to true when nil.
	Enabled *bool `json:"enabled,omitempty"`
}

// Active reports whether the discount is currently taken by the borrower.
func (d Discount) Active() bool {
	return d.Enabled == nil || *d.Enabled
}

// ExtraProduct is a personal financial product the borrower pays for
// regardless of the offer, unless the offer already counts it as a discount.
type ExtraProduct struct {
	Name       string  `json:"name"`
	AnnualCost float64 `json:"annualCost"`
	Enabled    bool    `json:"enabled"`
}

// Offer is a mortgage offer. Type selects which fields are meaningful:
// fixed offers read Rate, floating offers read Spread, and hybrid offers read
// Rate for the first FixedYears and Spread afterwards.
type Offer struct {
	ID           string     `json:"id,omitempty"`
	Lender       string     `json:"lender"`
	Type         OfferType  `json:"type"`
	Rate         RatePair   `json:"rate"`
	Spread       RatePair   `json:"spread"`
	FixedYears   int        `json:"fixedYears,omitempty"`
	ReductionCap *float64   `json:"reductionCap,omitempty"`
	Costs        []Cost     `json:"costs,omitempty"`
	Discounts    []Discount `json:"discounts,omitempty"`
}

// FixedMonths returns the length of the fixed tranche of a hybrid offer.
func (o Offer) FixedMonths() int {
	if o.Type != OfferHybrid {
		return 0
	}
	return o.FixedYears * constants.MonthsPerYear
}

// UpfrontCosts sums the offer's cost list.
func (o Offer) UpfrontCosts() float64 {
	total := 0.0
	for _, cost := range o.Costs {
		total += cost.Amount
	}
	return total
}

// AnnualDiscountCost sums the annual maintenance cost of the active discounts.
func (o Offer) AnnualDiscountCost() float64 {
	total := 0.0
	for _, discount := range o.Discounts {
		if discount.Active() {
			total += discount.AnnualCost
		}
	}
	return total
}

// HasDiscountLike reports whether any discount name contains the given product
// name, ignoring case and surrounding whitespace.
func (o Offer) HasDiscountLike(productName string) bool {
	needle := normalizeName(productName)
	for _, discount := range o.Discounts {
		if strings.Contains(normalizeName(discount.Name), needle) {
			return true
		}
	}
	return false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Float returns a pointer to v, for building optional rate fields.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
