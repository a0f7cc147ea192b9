// Package compare evaluates every configured mortgage offer under the same
// market conditions and ranks them by comparable cost.
package compare

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/iwvelando/mortgage-compare/internal/config"
	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"github.com/iwvelando/mortgage-compare/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrOfferNotFound is returned when a schedule is requested for an unknown offer.
var ErrOfferNotFound = errors.New("offer not found")

// Comparison is the evaluation of one offer together with its ranking.
type Comparison struct {
	Result loans.Result `json:"result"`
	// Rank is 1 for the cheapest offer by comparable cost.
	Rank int  `json:"rank"`
	Best bool `json:"best"`
	// ConfigWarnings are the validation warnings raised for this offer.
	ConfigWarnings []string `json:"configWarnings,omitempty"`
}

// Warnings returns the configuration and evaluation warnings together.
func (c Comparison) Warnings() []string {
	if len(c.ConfigWarnings) == 0 {
		return c.Result.Warnings
	}
	warnings := append([]string(nil), c.ConfigWarnings...)
	return append(warnings, c.Result.Warnings...)
}

// Run validates the configuration and evaluates all offers concurrently.
// Results keep the configuration order.
func Run(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Comparison, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluator, err := newEvaluator(logger, conf)
	if err != nil {
		return nil, err
	}

	market := conf.Market
	if err := validation.ValidateMarket(market.Principal, market.TermYears, market.ReferenceRate); err != nil {
		return nil, err
	}

	offers := conf.LoansOffers()
	if len(offers) == 0 {
		return nil, fmt.Errorf("%w: no offers to compare", validation.ErrInvalidOffer)
	}

	results := make([]Comparison, len(offers))
	for i, offer := range offers {
		warnings, err := validation.ValidateOffer(offer, market.TermYears)
		if err != nil {
			return nil, err
		}
		results[i].ConfigWarnings = warnings
	}

	extras := conf.ToExtraProducts()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, offer := range offers {
		i, offer := i, offer
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Result = evaluator.Evaluate(offer, market.Principal, market.TermYears, market.ReferenceRate, extras)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison interrupted: %w", err)
	}

	rank(results)

	for _, comparison := range results {
		logger.Debug(fmt.Sprintf("evaluated offer %s", comparison.Result.Lender),
			zap.String("op", "compare.Run"),
			zap.String("offerId", comparison.Result.OfferID),
			zap.Int("rank", comparison.Rank),
			zap.Float64("comparableCost", comparison.Result.ComparableCost()),
			zap.Strings("includedExtras", comparison.Result.IncludedExtraProducts),
		)
	}
	logger.Info("comparison computed",
		zap.String("op", "compare.Run"),
		zap.Int("offers", len(results)),
	)

	return results, nil
}

// Best returns the comparison flagged as the cheapest, if any.
func Best(results []Comparison) (Comparison, bool) {
	for _, result := range results {
		if result.Best {
			return result, true
		}
	}
	return Comparison{}, false
}

// rank orders offers by comparable cost rounded to cents. On a tie the
// offer listed first ranks higher.
func rank(results []Comparison) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		costA := results[order[a]].Result.ComparableCost()
		costB := results[order[b]].Result.ComparableCost()
		return !mathutil.SameCurrencyAmount(costA, costB) && costA < costB
	})
	for position, index := range order {
		results[index].Rank = position + 1
		results[index].Best = position == 0
	}
}

// Schedule is the month-by-month detail of one offer.
type Schedule struct {
	Offer            loans.Offer     `json:"offer"`
	Baseline         []loans.Payment `json:"baseline"`
	Discounted       []loans.Payment `json:"discounted"`
	BaselineSeries   loans.Series    `json:"baselineSeries"`
	DiscountedSeries loans.Series    `json:"discountedSeries"`
}

// BuildSchedule generates both amortization schedules for the offer whose id
// or lender name matches key.
func BuildSchedule(logger *zap.Logger, conf config.Configuration, key string) (*Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluator, err := newEvaluator(logger, conf)
	if err != nil {
		return nil, err
	}

	market := conf.Market
	if err := validation.ValidateMarket(market.Principal, market.TermYears, market.ReferenceRate); err != nil {
		return nil, err
	}

	configured, ok := conf.FindOffer(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, key)
	}
	offer := configured.ToLoansOffer()
	if _, err := validation.ValidateOffer(offer, market.TermYears); err != nil {
		return nil, err
	}

	termMonths := market.TermYears * constants.MonthsPerYear
	policy := evaluator.Policy()
	schedule := &Schedule{
		Offer:      offer,
		Baseline:   loans.GenerateSchedule(offer, market.Principal, termMonths, market.ReferenceRate, false, policy),
		Discounted: loans.GenerateSchedule(offer, market.Principal, termMonths, market.ReferenceRate, true, policy),
	}
	schedule.BaselineSeries = loans.AmortizationSeries(schedule.Baseline)
	schedule.DiscountedSeries = loans.AmortizationSeries(schedule.Discounted)

	logger.Debug(fmt.Sprintf("built schedule for offer %s", offer.Lender),
		zap.String("op", "compare.BuildSchedule"),
		zap.Int("months", termMonths),
	)

	return schedule, nil
}

func newEvaluator(logger *zap.Logger, conf config.Configuration) (*loans.Evaluator, error) {
	opts, err := conf.EvaluatorOptions()
	if err != nil {
		return nil, err
	}
	return loans.NewEvaluator(logger, opts...), nil
}
