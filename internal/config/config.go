// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfiguration marks policy and solver settings the comparison cannot run with.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration holds all configuration for mortgage-compare.
type Configuration struct {
	Logging       LoggingConfig  `yaml:"logging,omitempty"`
	Output        OutputConfig   `yaml:"output,omitempty"`
	Market        MarketConfig   `yaml:"market"`
	Policy        PolicyConfig   `yaml:"policy,omitempty"`
	Solver        SolverConfig   `yaml:"solver,omitempty"`
	ExtraProducts []ExtraProduct `yaml:"extraProducts,omitempty"`
	Offers        []Offer        `yaml:"offers"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// MarketConfig holds the loan request shared by every offer.
type MarketConfig struct {
	Principal     float64 `yaml:"principal"`
	TermYears     int     `yaml:"termYears"`
	ReferenceRate float64 `yaml:"referenceRate"` // annual %, e.g. 12-month Euribor
}

// PolicyConfig selects how discount reductions are attributed to rate categories.
type PolicyConfig struct {
	ReductionFallback string `yaml:"reductionFallback,omitempty"` // category, strict
}

// SolverConfig tunes the APR bisection. Zero values fall back to the defaults.
type SolverConfig struct {
	Lower         float64 `yaml:"lower,omitempty"`
	Upper         float64 `yaml:"upper,omitempty"`
	WidenedLower  float64 `yaml:"widenedLower,omitempty"`
	WidenedUpper  float64 `yaml:"widenedUpper,omitempty"`
	Tolerance     float64 `yaml:"tolerance,omitempty"`
	MaxIterations int     `yaml:"maxIterations,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the config, if any, is loaded into
// the environment first so that MORTGAGE_* overrides can live alongside it.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := loadEnvFile(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// Environment overrides apply here too.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.AssignOfferIDs()
	return &configuration, nil
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading env file %s, %w", path, err)
}

// AssignOfferIDs gives every offer without an id a random one so results can
// be referenced (e.g. to print a single schedule).
func (c *Configuration) AssignOfferIDs() {
	for i := range c.Offers {
		if strings.TrimSpace(c.Offers[i].ID) == "" {
			c.Offers[i].ID = uuid.NewString()
		}
	}
}

// FindOffer returns the offer with the given id or lender name.
func (c *Configuration) FindOffer(key string) (Offer, bool) {
	for _, offer := range c.Offers {
		if offer.ID == key {
			return offer, true
		}
	}
	for _, offer := range c.Offers {
		if strings.EqualFold(offer.Lender, key) {
			return offer, true
		}
	}
	return Offer{}, false
}

// ValidateConfiguration performs general validation of the configuration.
// It returns an error for anything the comparison cannot run with and
// warnings for values that were assumed.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	if _, err := loans.ParseFallbackPolicy(c.Policy.ReductionFallback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := c.Solver.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	validator := validation.OfferSetValidator{
		Principal:     c.Market.Principal,
		TermYears:     c.Market.TermYears,
		ReferenceRate: c.Market.ReferenceRate,
		Offers:        c.LoansOffers(),
	}
	return validator.ValidateAll()
}

func (s SolverConfig) validate() error {
	cfg := s.ToLoans()
	if cfg.Lower >= cfg.Upper {
		return fmt.Errorf("solver lower bound %v must be below upper bound %v", cfg.Lower, cfg.Upper)
	}
	if cfg.WidenedLower > cfg.Lower || cfg.WidenedUpper < cfg.Upper {
		return fmt.Errorf("solver widened bracket [%v, %v] must contain [%v, %v]",
			cfg.WidenedLower, cfg.WidenedUpper, cfg.Lower, cfg.Upper)
	}
	return nil
}
