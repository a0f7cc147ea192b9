// Package constants provides shared constants for the mortgage-compare application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyDecimals is the number of decimals kept when rounding currency
	CurrencyDecimals int32 = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// AnnualPercentPerMonthlyRate converts a monthly decimal rate back to an
	// annual percentage (12 * 100).
	AnnualPercentPerMonthlyRate = 1200.0
)

// APR solver defaults
const (
	// DefaultAPRLower is the lower end of the initial bisection bracket.
	DefaultAPRLower = 0.00

	// DefaultAPRUpper is the upper end of the initial bisection bracket.
	DefaultAPRUpper = 0.20

	// DefaultAPRWidenedLower replaces the lower bound when NPV is negative there.
	DefaultAPRWidenedLower = -0.05

	// DefaultAPRWidenedUpper replaces the upper bound when NPV is positive at both ends.
	DefaultAPRWidenedUpper = 0.50

	// DefaultAPRTolerance is the bracket width at which bisection stops.
	DefaultAPRTolerance = 1e-7

	// DefaultAPRMaxIterations caps the bisection loop.
	DefaultAPRMaxIterations = 500
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RateMismatchTolerance is the tolerance in percentage points used when
	// checking a published discounted rate against the resolved one.
	RateMismatchTolerance = 0.001

	// MaxUsualTermYears is the longest term accepted without a warning
	MaxUsualTermYears = 40
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "offers.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. MORTGAGE_MARKET_REFERENCERATE.
	EnvPrefix = "MORTGAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds how long in-flight requests may run after a shutdown signal
	DefaultShutdownTimeout = 15 * time.Second
)
