// Package config builds engine configurations from CLI flags, the optional
// config file, and INVREC_* environment variables.
package config

import (
	"invoice-reconciliation-service/internal/scoring"
	"invoice-reconciliation-service/pkg/errors"

	"github.com/spf13/viper"
)

// CreateScoringConfig builds the scoring configuration, applying CLI
// threshold overrides on top of the default profile. Zero thresholds mean
// "keep the default".
func CreateScoringConfig(matchedThreshold, partialThreshold float64) (*scoring.Config, error) {
	config := scoring.DefaultConfig()

	if v := viper.GetFloat64("matched_threshold"); v > 0 {
		config.MatchedThreshold = v
	}
	if v := viper.GetFloat64("partial_threshold"); v > 0 {
		config.PartialThreshold = v
	}

	// CLI flags win over file/env settings.
	if matchedThreshold > 0 {
		config.MatchedThreshold = matchedThreshold
	}
	if partialThreshold > 0 {
		config.PartialThreshold = partialThreshold
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigError(err.Error(), err)
	}
	return config, nil
}
