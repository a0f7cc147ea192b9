// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/mortgage-compare/internal/compare"
	"github.com/iwvelando/mortgage-compare/internal/config"
	"github.com/iwvelando/mortgage-compare/pkg/format"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(market config.MarketConfig, results []compare.Comparison) {
	fmt.Print(PrettyString(market, results))
}

// PrettyString renders the same report as PrettyFormat.
func PrettyString(market config.MarketConfig, results []compare.Comparison) string {
	p := message.NewPrinter(language.Spanish)
	var b strings.Builder

	_, _ = p.Fprintf(&b, "=== %d offers for %s over %d years, reference rate %s ===\n\n",
		len(results), format.Currency(market.Principal), market.TermYears, format.Percent(market.ReferenceRate))

	for i, comparison := range results {
		r := comparison.Result
		header := fmt.Sprintf("--- Results for offer %s (%s) ---", r.Lender, r.OfferID)
		if comparison.Best {
			header = fmt.Sprintf("--- Results for offer %s (%s) [BEST] ---", r.Lender, r.OfferID)
		}
		b.WriteString(header + "\n")
		row(&b, "Rank", strconv.Itoa(comparison.Rank))
		row(&b, "Type", string(r.Type))
		row(&b, "Rate", pair(format.Percent(r.BaselineRate), format.Percent(r.DiscountedRate)))
		if r.BaselineSpread != nil {
			row(&b, "Spread", pair(format.PercentPtr(r.BaselineSpread), format.PercentPtr(r.DiscountedSpread)))
		}
		if r.BaselineInferred {
			row(&b, "Baseline", "inferred from the discounted value")
		}
		row(&b, "Monthly payment", pair(format.Currency(r.BaselinePayment), format.Currency(r.DiscountedPayment)))
		if r.FloatingBaselinePayment != nil {
			row(&b, "Floating payment", pair(format.Currency(*r.FloatingBaselinePayment), format.Currency(*r.FloatingDiscountedPayment)))
		}
		row(&b, "APR", pair(format.Percent(r.BaselineAPR), format.Percent(r.DiscountedAPR)))
		row(&b, "Upfront costs", format.Currency(r.UpfrontCosts))
		if !mathutil.IsZero(r.DiscountCost) {
			row(&b, "Discount costs", format.Currency(r.DiscountCost))
		}
		row(&b, "Total cost", pair(format.Currency(r.BaselineTotalCost), format.Currency(r.DiscountedTotalCost)))
		withExtras := format.Currency(r.TotalCostWithExtras)
		if len(r.IncludedExtraProducts) > 0 {
			withExtras += " (" + strings.Join(r.IncludedExtraProducts, ", ") + ")"
		}
		row(&b, "Total with extras", withExtras)
		for _, warning := range comparison.Warnings() {
			row(&b, "Warning", warning)
		}
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}

	if best, ok := compare.Best(results); ok && len(results) > 1 {
		_, _ = p.Fprintf(&b, "\nBest offer: %s with a total cost of %s\n",
			best.Result.Lender, format.Currency(best.Result.ComparableCost()))
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-17s | %s\n", label, value)
}

func pair(baseline, discounted string) string {
	return baseline + " -> " + discounted
}

var csvHeader = []string{
	"rank", "best", "id", "lender", "type",
	"baseline rate", "discounted rate", "baseline spread", "discounted spread",
	"baseline payment", "discounted payment", "floating baseline payment", "floating discounted payment",
	"baseline apr", "discounted apr",
	"upfront costs", "discount cost", "baseline total", "discounted total", "total with extras",
	"included extras", "warnings",
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []compare.Comparison) {
	fmt.Print(CsvString(results))
}

// CsvString renders the comparison as CSV with one row per offer. Amounts use
// a "." decimal point and no grouping; unresolved values are left empty.
func CsvString(results []compare.Comparison) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader)
	for _, comparison := range results {
		r := comparison.Result
		_ = w.Write([]string{
			strconv.Itoa(comparison.Rank),
			strconv.FormatBool(comparison.Best),
			r.OfferID,
			r.Lender,
			string(r.Type),
			format.Plain(r.BaselineRate),
			format.Plain(r.DiscountedRate),
			plainPtr(r.BaselineSpread),
			plainPtr(r.DiscountedSpread),
			format.Plain(r.BaselinePayment),
			format.Plain(r.DiscountedPayment),
			plainPtr(r.FloatingBaselinePayment),
			plainPtr(r.FloatingDiscountedPayment),
			format.Plain(r.BaselineAPR),
			format.Plain(r.DiscountedAPR),
			format.Plain(r.UpfrontCosts),
			format.Plain(r.DiscountCost),
			format.Plain(r.BaselineTotalCost),
			format.Plain(r.DiscountedTotalCost),
			format.Plain(r.TotalCostWithExtras),
			strings.Join(r.IncludedExtraProducts, ";"),
			strings.Join(comparison.Warnings(), ";"),
		})
	}
	w.Flush()
	return buf.String()
}

func plainPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return format.Plain(*v)
}

// JSONFormat outputs the comparison as an indented JSON document.
func JSONFormat(results []compare.Comparison) error {
	data, err := JSONBytes(results)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// JSONBytes encodes the comparison without the month-by-month payment streams.
func JSONBytes(results []compare.Comparison) ([]byte, error) {
	summaries := make([]compare.Comparison, len(results))
	for i, comparison := range results {
		summaries[i] = comparison
		summaries[i].Result = comparison.Result.Summary()
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode comparison: %w", err)
	}
	return data, nil
}

// ScheduleCsv renders the baseline and discounted schedules side by side.
func ScheduleCsv(schedule *compare.Schedule) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"month",
		"baseline payment", "baseline principal", "baseline interest", "baseline remaining",
		"discounted payment", "discounted principal", "discounted interest", "discounted remaining",
	})
	for i := range schedule.Baseline {
		record := []string{strconv.Itoa(schedule.Baseline[i].Month)}
		record = append(record, paymentColumns(schedule.Baseline[i])...)
		if i < len(schedule.Discounted) {
			record = append(record, paymentColumns(schedule.Discounted[i])...)
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.String()
}

func paymentColumns(p loans.Payment) []string {
	return []string{
		format.Plain(p.Payment),
		format.Plain(p.Principal),
		format.Plain(p.Interest),
		format.Plain(p.RemainingPrincipal),
	}
}
