package config

// Offer is a mortgage offer as written in the configuration file.
type Offer struct {
	ID           string     `yaml:"id,omitempty"`
	Lender       string     `yaml:"lender"`
	Type         string     `yaml:"type"` // fixed, floating, hybrid
	Rate         RatePair   `yaml:"rate,omitempty"`
	Spread       RatePair   `yaml:"spread,omitempty"`
	FixedYears   int        `yaml:"fixedYears,omitempty"`
	ReductionCap *float64   `yaml:"reductionCap,omitempty"`
	Costs        []Cost     `yaml:"costs,omitempty"`
	Discounts    []Discount `yaml:"discounts,omitempty"`
}

// RatePair holds the published baseline and discounted values, annual %.
type RatePair struct {
	Baseline   *float64 `yaml:"baseline,omitempty"`
	Discounted *float64 `yaml:"discounted,omitempty"`
}

// Cost is a one-off amount paid when signing.
type Cost struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
}

// Discount is a rate reduction conditioned on contracting a product.
type Discount struct {
	Name                  string   `yaml:"name"`
	AnnualCost            float64  `yaml:"annualCost,omitempty"`
	RateReduction         *float64 `yaml:"rateReduction,omitempty"`
	SpreadReduction       *float64 `yaml:"spreadReduction,omitempty"`
	FixedTrancheReduction *float64 `yaml:"fixedTrancheReduction,omitempty"`
	Assumed               bool     `yaml:"assumed,omitempty"`
	Enabled               *bool    `yaml:"enabled,omitempty"`
}

// ExtraProduct is a product the borrower pays for with any lender.
type ExtraProduct struct {
	Name       string  `yaml:"name"`
	AnnualCost float64 `yaml:"annualCost"`
	Enabled    *bool   `yaml:"enabled,omitempty"` // defaults to true
}
