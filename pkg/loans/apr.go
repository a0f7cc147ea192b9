package loans

import (
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

// NoSolution is returned by SolveAPR when no rate brackets a root.
var NoSolution = math.NaN()

// SolverConfig tunes the APR bisection. Rates are decimals (0.05 == 5%).
type SolverConfig struct {
	Lower         float64 `json:"lower"`
	Upper         float64 `json:"upper"`
	WidenedLower  float64 `json:"widenedLower"`
	WidenedUpper  float64 `json:"widenedUpper"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"maxIterations"`
}

// DefaultSolverConfig returns the standard bracket [0, 0.20], widened once to
// -0.05 or 0.50, with 500 iterations down to a 1e-7 bracket.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Lower:         constants.DefaultAPRLower,
		Upper:         constants.DefaultAPRUpper,
		WidenedLower:  constants.DefaultAPRWidenedLower,
		WidenedUpper:  constants.DefaultAPRWidenedUpper,
		Tolerance:     constants.DefaultAPRTolerance,
		MaxIterations: constants.DefaultAPRMaxIterations,
	}
}

// withDefaults fills zero-valued limits. A zero Lower is meaningful and kept.
func (c SolverConfig) withDefaults() SolverConfig {
	def := DefaultSolverConfig()
	if c.Upper == 0 {
		c.Upper = def.Upper
	}
	if c.WidenedLower == 0 {
		c.WidenedLower = def.WidenedLower
	}
	if c.WidenedUpper == 0 {
		c.WidenedUpper = def.WidenedUpper
	}
	if c.Tolerance <= 0 {
		c.Tolerance = def.Tolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	return c
}

// NetPresentValue discounts the payments (plus the recurring monthly cost) at
// the annual rate and subtracts the net amount received by the borrower.
// The monthly rate is the compounding-equivalent (1+r)^(1/12)-1.
func NetPresentValue(annualRate, principal float64, numPayments int, upfrontCosts float64,
	payments []float64, recurringMonthlyCost float64) float64 {
	monthlyRate := math.Pow(1+annualRate, 1.0/12) - 1
	sum := 0.0
	for i := 0; i < numPayments && i < len(payments); i++ {
		sum += (payments[i] + recurringMonthlyCost) / math.Pow(1+monthlyRate, float64(i+1))
	}
	return sum - (principal - upfrontCosts)
}

// SolveAPR finds the annual rate, as a percentage, at which the payment
// stream repays the principal net of upfront costs. It returns NoSolution
// (NaN) when no sign change is found even after widening the bracket once.
func SolveAPR(principal float64, numPayments int, upfrontCosts float64, payments []float64,
	recurringMonthlyCost float64, cfg SolverConfig) float64 {
	cfg = cfg.withDefaults()
	npv := func(rate float64) float64 {
		return NetPresentValue(rate, principal, numPayments, upfrontCosts, payments, recurringMonthlyCost)
	}

	lower, upper := cfg.Lower, cfg.Upper
	npvLower := npv(lower)
	if npvLower == 0 {
		return lower * constants.PercentageMultiplier
	}
	if npvLower*npv(upper) >= 0 {
		// NPV falls as the rate rises: a negative NPV at the lower bound puts
		// the root below it, a positive one puts it above the upper bound.
		if npvLower < 0 {
			lower = cfg.WidenedLower
			npvLower = npv(lower)
		} else {
			upper = cfg.WidenedUpper
		}
		if npvLower*npv(upper) >= 0 {
			return NoSolution
		}
	}

	mid := 0.0
	for iter := 0; upper-lower >= cfg.Tolerance && iter < cfg.MaxIterations; iter++ {
		mid = (lower + upper) / 2
		npvMid := npv(mid)
		if npvMid == 0 {
			break
		}
		if npvMid*npvLower < 0 {
			upper = mid
		} else {
			lower = mid
			npvLower = npvMid
		}
	}

	return mid * constants.PercentageMultiplier
}
