// Package testutil provides common utility functions for testing.
package testutil

import (
	"strings"

	"github.com/iwvelando/mortgage-compare/internal/compare"
)

// FindComparison finds a comparison by offer id or, case-insensitively, by
// lender name. Returns nil if no offer matches.
func FindComparison(results []compare.Comparison, key string) *compare.Comparison {
	for i := range results {
		if results[i].Result.OfferID == key || strings.EqualFold(results[i].Result.Lender, key) {
			return &results[i]
		}
	}
	return nil
}
