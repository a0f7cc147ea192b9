package loans

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"go.uber.org/zap"
)

// Result is the evaluation of one offer under a given market. It is never
// modified after Evaluate returns it.
type Result struct {
	OfferID string    `json:"offerId,omitempty"`
	Lender  string    `json:"lender"`
	Type    OfferType `json:"type"`

	BaselineAPR   float64 `json:"baselineApr"`
	DiscountedAPR float64 `json:"discountedApr"`

	BaselinePayment   float64 `json:"baselinePayment"`
	DiscountedPayment float64 `json:"discountedPayment"`
	// Hybrid offers only: first payment of the floating tranche.
	FloatingBaselinePayment   *float64 `json:"floatingBaselinePayment,omitempty"`
	FloatingDiscountedPayment *float64 `json:"floatingDiscountedPayment,omitempty"`

	UpfrontCosts          float64  `json:"upfrontCosts"`
	DiscountCost          float64  `json:"discountCost"`
	BaselineTotalCost     float64  `json:"baselineTotalCost"`
	DiscountedTotalCost   float64  `json:"discountedTotalCost"`
	TotalCostWithExtras   float64  `json:"totalCostWithExtras"`
	IncludedExtraProducts []string `json:"includedExtraProducts,omitempty"`

	// Annual rates at month 1 (the fixed tranche for hybrid offers).
	BaselineRate   float64 `json:"baselineRate"`
	DiscountedRate float64 `json:"discountedRate"`
	// Spreads over the reference rate: month 1 for floating offers, the
	// floating tranche for hybrid offers.
	BaselineSpread   *float64 `json:"baselineSpread,omitempty"`
	DiscountedSpread *float64 `json:"discountedSpread,omitempty"`
	BaselineInferred bool     `json:"baselineInferred"`

	Costs     []Cost     `json:"costs,omitempty"`
	Discounts []Discount `json:"discounts,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`

	BaselinePayments   []float64 `json:"baselinePayments,omitempty"`
	DiscountedPayments []float64 `json:"discountedPayments,omitempty"`
}

// ComparableCost is the figure used to rank offers against each other.
func (r Result) ComparableCost() float64 {
	return r.TotalCostWithExtras
}

// APRSolved reports whether both APR figures could be computed.
func (r Result) APRSolved() bool {
	return !math.IsNaN(r.BaselineAPR) && !math.IsNaN(r.DiscountedAPR)
}

// Summary returns a copy of the result without the month-by-month payment streams.
func (r Result) Summary() Result {
	r.BaselinePayments = nil
	r.DiscountedPayments = nil
	return r
}

// MarshalJSON encodes unresolvable APRs as null since JSON has no NaN.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		BaselineAPR   *float64 `json:"baselineApr"`
		DiscountedAPR *float64 `json:"discountedApr"`
	}{
		plain:         plain(r),
		BaselineAPR:   finiteOrNil(r.BaselineAPR),
		DiscountedAPR: finiteOrNil(r.DiscountedAPR),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Evaluator evaluates offers with a fixed discount policy and solver setup.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	logger *zap.Logger
	policy FallbackPolicy
	solver SolverConfig
}

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithPolicy sets the discount fallback policy.
func WithPolicy(policy FallbackPolicy) Option {
	return func(e *Evaluator) {
		e.policy = policy
	}
}

// WithSolver sets the APR solver configuration.
func WithSolver(cfg SolverConfig) Option {
	return func(e *Evaluator) {
		e.solver = cfg
	}
}

// NewEvaluator creates a new evaluator instance
func NewEvaluator(logger *zap.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Evaluator{
		logger: logger,
		policy: FallbackByCategory,
		solver: DefaultSolverConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the evaluator's discount fallback policy.
func (e *Evaluator) Policy() FallbackPolicy {
	return e.policy
}

// Evaluate computes both the baseline and the discounted scenario of an offer.
func (e *Evaluator) Evaluate(offer Offer, principal float64, termYears int, referenceRate float64,
	extras []ExtraProduct) Result {
	termMonths := termYears * constants.MonthsPerYear
	upfront := offer.UpfrontCosts()

	result := Result{
		OfferID:      offer.ID,
		Lender:       offer.Lender,
		Type:         offer.Type,
		UpfrontCosts: upfront,
		Costs:        append([]Cost(nil), offer.Costs...),
		Discounts:    append([]Discount(nil), offer.Discounts...),
	}

	baseline := PaymentStream(offer, principal, termMonths, referenceRate, false, e.policy)
	result.BaselinePayments = baseline
	result.BaselineTotalCost = Sum(baseline) + upfront
	result.BaselineAPR = SolveAPR(principal, termMonths, upfront, baseline, 0, e.solver)

	discounted := PaymentStream(offer, principal, termMonths, referenceRate, true, e.policy)
	result.DiscountedPayments = discounted
	result.DiscountCost = offer.AnnualDiscountCost() * float64(termYears)
	result.DiscountedTotalCost = Sum(discounted) + upfront + result.DiscountCost
	recurring := 0.0
	if termMonths > 0 {
		recurring = result.DiscountCost / float64(termMonths)
	}
	result.DiscountedAPR = SolveAPR(principal, termMonths, upfront, discounted, recurring, e.solver)

	if len(baseline) > 0 {
		result.BaselinePayment = baseline[0]
	}
	if len(discounted) > 0 {
		result.DiscountedPayment = discounted[0]
	}

	e.resolveDisplayRates(&result, offer, referenceRate)

	if offer.Type == OfferHybrid {
		firstFloating := offer.FixedMonths()
		if termMonths > firstFloating {
			result.FloatingBaselinePayment = Float(baseline[firstFloating])
			result.FloatingDiscountedPayment = Float(discounted[firstFloating])
		}
	}

	result.TotalCostWithExtras = result.DiscountedTotalCost
	for _, extra := range extras {
		if !extra.Enabled || offer.HasDiscountLike(extra.Name) {
			continue
		}
		result.TotalCostWithExtras += extra.AnnualCost * float64(termYears)
		result.IncludedExtraProducts = append(result.IncludedExtraProducts, extra.Name)
	}

	result.Warnings = append(result.Warnings, e.capWarnings(offer)...)

	if math.IsNaN(result.BaselineAPR) || math.IsNaN(result.DiscountedAPR) {
		e.logger.Debug(fmt.Sprintf("no APR bracket found for offer %s", offer.Lender),
			zap.String("op", "loans.Evaluate"),
			zap.Float64("baselineApr", result.BaselineAPR),
			zap.Float64("discountedApr", result.DiscountedAPR),
		)
	}
	if result.BaselineInferred {
		e.logger.Debug(fmt.Sprintf("baseline rate inferred for offer %s", offer.Lender),
			zap.String("op", "loans.Evaluate"),
			zap.Float64("baselineRate", result.BaselineRate),
		)
	}

	return result
}

// resolveDisplayRates fills the annual rate and spread figures and the
// rate-mismatch warnings.
func (e *Evaluator) resolveDisplayRates(result *Result, offer Offer, referenceRate float64) {
	toAnnual := func(monthly float64) float64 {
		return monthly * constants.AnnualPercentPerMonthlyRate
	}

	baseMonthly, inferred := ResolveMonthlyRate(offer, referenceRate, false, 1, e.policy)
	discMonthly, _ := ResolveMonthlyRate(offer, referenceRate, true, 1, e.policy)
	result.BaselineRate = toAnnual(baseMonthly)
	result.DiscountedRate = toAnnual(discMonthly)
	result.BaselineInferred = inferred

	switch offer.Type {
	case OfferFixed:
		if d := offer.Rate.Discounted; d != nil && mismatch(result.DiscountedRate, *d) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("discounted rate %.2f%% is not reached with the active discounts", *d))
		}
	case OfferFloating:
		result.BaselineSpread = Float(result.BaselineRate - referenceRate)
		result.DiscountedSpread = Float(math.Max(0, result.DiscountedRate-referenceRate))
		if d := offer.Spread.Discounted; d != nil && mismatch(*result.DiscountedSpread, *d) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("discounted spread %.2f%% is not reached with the active discounts", *d))
		}
	case OfferHybrid:
		month := offer.FixedMonths() + 1
		floatBase, floatInferred := ResolveMonthlyRate(offer, referenceRate, false, month, e.policy)
		floatDisc, _ := ResolveMonthlyRate(offer, referenceRate, true, month, e.policy)
		result.BaselineSpread = Float(toAnnual(floatBase) - referenceRate)
		result.DiscountedSpread = Float(math.Max(0, toAnnual(floatDisc)-referenceRate))
		if floatInferred {
			result.BaselineInferred = true
		}
		if d := offer.Rate.Discounted; d != nil && mismatch(result.DiscountedRate, *d) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("discounted fixed-tranche rate %.2f%% is not reached with the active discounts", *d))
		} else if d := offer.Spread.Discounted; d != nil && mismatch(*result.DiscountedSpread, *d) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("discounted floating spread %.2f%% is not reached with the active discounts", *d))
		}
	}
}

func (e *Evaluator) capWarnings(offer Offer) []string {
	if offer.ReductionCap == nil {
		return nil
	}
	active := SumReductions(offer.Discounts, offer.CategoryAt(1), e.policy, true)
	if math.Round(active*100) < math.Round(*offer.ReductionCap*100) {
		return []string{fmt.Sprintf("maximum discount not reached: active %.2f%%, cap %.2f%%",
			active, *offer.ReductionCap)}
	}
	return nil
}

func mismatch(resolved, published float64) bool {
	return !mathutil.WithinTolerance(resolved, published, constants.RateMismatchTolerance)
}
