// Package loans provides the rate resolution, amortization and APR engine
// used to compare mortgage offers.
package loans

import (
	"math"
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
	MonthlyRate        float64 `json:"monthlyRate"`
}

// CalculateMonthlyPayment calculates the equal installment that repays
// balance over periods months at the given monthly decimal rate.
func CalculateMonthlyPayment(balance, monthlyRate float64, periods int) float64 {
	if monthlyRate <= 0 {
		// No interest: plain linear amortization.
		return balance / float64(periods)
	}

	power := math.Pow(1.00+monthlyRate, float64(periods))
	return balance * monthlyRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, monthlyRate float64) float64 {
	return remainingPrincipal * monthlyRate
}

// GenerateSchedule produces the month-by-month amortization of an offer.
// Fixed offers pay one installment computed over the whole term. Floating
// offers re-amortize the outstanding balance every month. Hybrid offers keep
// the full-term fixed installment during the fixed tranche and then behave
// like floating offers.
func GenerateSchedule(offer Offer, principal float64, termMonths int, referenceRate float64,
	applyDiscounts bool, policy FallbackPolicy) []Payment {
	if termMonths <= 0 {
		return nil
	}

	schedule := make([]Payment, 0, termMonths)
	balance := principal

	amortize := func(month int, payment, rate float64) {
		interest := CalculateInterestPayment(balance, rate)
		principalPaid := payment - interest
		balance -= principalPaid
		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            payment,
			Principal:          principalPaid,
			Interest:           interest,
			RemainingPrincipal: balance,
			MonthlyRate:        rate,
		})
	}

	reamortize := func(from int) {
		for month := from; month <= termMonths; month++ {
			rate, _ := ResolveMonthlyRate(offer, referenceRate, applyDiscounts, month, policy)
			payment := CalculateMonthlyPayment(balance, rate, termMonths-month+1)
			amortize(month, payment, rate)
		}
	}

	switch offer.Type {
	case OfferFixed:
		rate, _ := ResolveMonthlyRate(offer, referenceRate, applyDiscounts, 1, policy)
		payment := CalculateMonthlyPayment(principal, rate, termMonths)
		for month := 1; month <= termMonths; month++ {
			amortize(month, payment, rate)
		}
	case OfferFloating:
		reamortize(1)
	case OfferHybrid:
		fixedMonths := offer.FixedMonths()
		if fixedMonths > termMonths {
			fixedMonths = termMonths
		}
		rate, _ := ResolveMonthlyRate(offer, referenceRate, applyDiscounts, 1, policy)
		payment := CalculateMonthlyPayment(principal, rate, termMonths)
		for month := 1; month <= fixedMonths; month++ {
			amortize(month, payment, rate)
		}
		reamortize(fixedMonths + 1)
	default:
		return nil
	}

	return schedule
}

// PaymentStream returns only the installment amounts of GenerateSchedule.
func PaymentStream(offer Offer, principal float64, termMonths int, referenceRate float64,
	applyDiscounts bool, policy FallbackPolicy) []float64 {
	schedule := GenerateSchedule(offer, principal, termMonths, referenceRate, applyDiscounts, policy)
	payments := make([]float64, len(schedule))
	for i, payment := range schedule {
		payments[i] = payment.Payment
	}
	return payments
}

// Series holds cumulative amortization data suitable for charting.
type Series struct {
	Months              []int     `json:"months"`
	RemainingPrincipal  []float64 `json:"remainingPrincipal"`
	CumulativeInterest  []float64 `json:"cumulativeInterest"`
	CumulativePrincipal []float64 `json:"cumulativePrincipal"`
}

// AmortizationSeries derives the cumulative series of a schedule. Remaining
// principal is floored at zero.
func AmortizationSeries(schedule []Payment) Series {
	series := Series{
		Months:              make([]int, len(schedule)),
		RemainingPrincipal:  make([]float64, len(schedule)),
		CumulativeInterest:  make([]float64, len(schedule)),
		CumulativePrincipal: make([]float64, len(schedule)),
	}

	interest, principal := 0.0, 0.0
	for i, payment := range schedule {
		interest += payment.Interest
		principal += payment.Principal
		series.Months[i] = payment.Month
		series.RemainingPrincipal[i] = math.Max(0, payment.RemainingPrincipal)
		series.CumulativeInterest[i] = interest
		series.CumulativePrincipal[i] = principal
	}
	return series
}

// Sum adds up a payment stream.
func Sum(payments []float64) float64 {
	total := 0.0
	for _, payment := range payments {
		total += payment
	}
	return total
}
