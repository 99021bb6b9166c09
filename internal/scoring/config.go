// Package scoring implements the confidence scorer: pure, deterministic
// functions that map a pair of raw field values to a similarity score in
// [0,1] and roll that score into a comparison status.
//
// The scorer is multi-modal. Depending on the field name and the shape of
// the values it applies, in order:
//  1. Consistent-absence and single-absence checks
//  2. Normalized exact string equality
//  3. Prefix/suffix matching for identifier fields
//  4. Tolerance-banded numeric comparison (integer-truncated for amounts)
//  5. Date and date-range comparison with day-difference banding
//  6. Token-set similarity with business-tuned boosts and penalties
//
// All thresholds live in an immutable Config injected at construction,
// which keeps alternate threshold profiles testable.
//
// Example usage:
//
//	scorer := scoring.NewScorer(scoring.DefaultConfig())
//	score := scorer.Score("1,000.40", "1000.60", "InvoiceBaseAmount")
//	status := scorer.Config().StatusFor(score)
package scoring

import (
	"fmt"
	"strings"

	"invoice-reconciliation-service/internal/models"
)

// NumericBand maps a maximum relative difference to a confidence value.
type NumericBand struct {
	MaxDiffRatio float64 `json:"max_diff_ratio"`
	Confidence   float64 `json:"confidence"`
}

// DateBand maps a maximum day difference to a confidence value.
type DateBand struct {
	MaxDays    int     `json:"max_days"`
	Confidence float64 `json:"confidence"`
}

// Config holds the threshold tables and field classifications used by the
// scorer. Treat a Config as immutable once constructed; use Clone before
// mutating a profile for experiments.
type Config struct {
	// NumericBands is consulted in order; the first band whose MaxDiffRatio
	// covers the relative difference wins.
	NumericBands []NumericBand `json:"numeric_bands"`

	// NumericFloor is the confidence for differences beyond every band.
	NumericFloor float64 `json:"numeric_floor"`

	// DateBands is consulted in order by absolute day difference.
	DateBands []DateBand `json:"date_bands"`

	// DateFloor is the confidence for day differences beyond every band.
	DateFloor float64 `json:"date_floor"`

	// MatchedThreshold and PartialThreshold are the status cut lines:
	// score >= MatchedThreshold is Matched, >= PartialThreshold is
	// PartiallyMatched, anything below is Mismatched.
	MatchedThreshold float64 `json:"matched_threshold"`
	PartialThreshold float64 `json:"partial_threshold"`

	// IdentifierConfidence is awarded on a prefix/suffix identifier hit.
	IdentifierConfidence float64 `json:"identifier_confidence"`

	// IdentifierFields get the prefix/suffix matching attempt.
	IdentifierFields []string `json:"identifier_fields"`

	// AmountFields are compared on integer-truncated values only.
	AmountFields []string `json:"amount_fields"`

	// PeriodFields are always treated as date ranges.
	PeriodFields []string `json:"period_fields"`
}

// DefaultConfig returns the production threshold profile.
func DefaultConfig() *Config {
	return &Config{
		NumericBands: []NumericBand{
			{MaxDiffRatio: 0.005, Confidence: 0.98},
			{MaxDiffRatio: 0.01, Confidence: 0.93},
			{MaxDiffRatio: 0.02, Confidence: 0.85},
			{MaxDiffRatio: 0.05, Confidence: 0.75},
		},
		NumericFloor: 0.50,
		DateBands: []DateBand{
			{MaxDays: 0, Confidence: 1.0},
			{MaxDays: 1, Confidence: 0.95},
			{MaxDays: 7, Confidence: 0.50},
			{MaxDays: 31, Confidence: 0.30},
		},
		DateFloor:            0.20,
		MatchedThreshold:     0.95,
		PartialThreshold:     0.70,
		IdentifierConfidence: 0.9,
		IdentifierFields:     []string{"InvoiceNumber", "PurchaseOrderNumber"},
		AmountFields:         []string{"InvoiceBaseAmount", "InvoiceWithTaxAmount", "UnitPrice", "Amount"},
		PeriodFields:         []string{"InvoiceServicePeriod", "PurchaseOrderPeriod", "ServicePeriod"},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	prev := 0.0
	for i, band := range c.NumericBands {
		if band.MaxDiffRatio <= prev && i > 0 {
			return fmt.Errorf("numeric bands must be strictly increasing, band %d is not", i)
		}
		if band.Confidence < 0.0 || band.Confidence > 1.0 {
			return fmt.Errorf("numeric band %d confidence out of range: %f", i, band.Confidence)
		}
		prev = band.MaxDiffRatio
	}

	prevDays := -1
	for i, band := range c.DateBands {
		if band.MaxDays <= prevDays {
			return fmt.Errorf("date bands must be strictly increasing, band %d is not", i)
		}
		if band.Confidence < 0.0 || band.Confidence > 1.0 {
			return fmt.Errorf("date band %d confidence out of range: %f", i, band.Confidence)
		}
		prevDays = band.MaxDays
	}

	if c.MatchedThreshold < 0.0 || c.MatchedThreshold > 1.0 {
		return fmt.Errorf("matched threshold must be between 0.0 and 1.0: %f", c.MatchedThreshold)
	}
	if c.PartialThreshold < 0.0 || c.PartialThreshold > c.MatchedThreshold {
		return fmt.Errorf("partial threshold must be between 0.0 and the matched threshold: %f", c.PartialThreshold)
	}
	if c.IdentifierConfidence < 0.0 || c.IdentifierConfidence > 1.0 {
		return fmt.Errorf("identifier confidence must be between 0.0 and 1.0: %f", c.IdentifierConfidence)
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.NumericBands = append([]NumericBand(nil), c.NumericBands...)
	clone.DateBands = append([]DateBand(nil), c.DateBands...)
	clone.IdentifierFields = append([]string(nil), c.IdentifierFields...)
	clone.AmountFields = append([]string(nil), c.AmountFields...)
	clone.PeriodFields = append([]string(nil), c.PeriodFields...)
	return &clone
}

// StatusFor maps a match confidence to its comparison status through the
// fixed cut lines. Every score maps to exactly one status.
func (c *Config) StatusFor(score float64) models.ComparisonStatus {
	switch {
	case score >= c.MatchedThreshold:
		return models.StatusMatched
	case score >= c.PartialThreshold:
		return models.StatusPartiallyMatched
	default:
		return models.StatusMismatched
	}
}

// NumericConfidence maps a relative difference through the banded table.
func (c *Config) NumericConfidence(diffRatio float64) float64 {
	for _, band := range c.NumericBands {
		if diffRatio <= band.MaxDiffRatio {
			return band.Confidence
		}
	}
	return c.NumericFloor
}

// DateConfidence maps an absolute day difference through the banded table.
func (c *Config) DateConfidence(days int) float64 {
	for _, band := range c.DateBands {
		if days <= band.MaxDays {
			return band.Confidence
		}
	}
	return c.DateFloor
}

// IsIdentifierField reports whether the field gets identifier matching.
func (c *Config) IsIdentifierField(fieldName string) bool {
	return containsFold(c.IdentifierFields, fieldName)
}

// IsAmountField reports whether the field is compared integer-truncated.
func (c *Config) IsAmountField(fieldName string) bool {
	return containsFold(c.AmountFields, fieldName)
}

// IsPeriodField reports whether the field is always treated as a date range.
func (c *Config) IsPeriodField(fieldName string) bool {
	return containsFold(c.PeriodFields, fieldName)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// String returns a human-readable description of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{NumericBands: %d, DateBands: %d, Matched: %.2f, Partial: %.2f}",
		len(c.NumericBands), len(c.DateBands), c.MatchedThreshold, c.PartialThreshold)
}
