// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportconfig provides configuration parsing and validation for ibreport.
//
// Configuration is stored at <dir>/ibreport.yaml. The file is optional: if it does not
// exist, the default configuration is used.
package ibreportconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportpath"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultCurrency is the default currency of formatted totals.
	DefaultCurrency = "USD"
	// DefaultTopN is the default number of symbols shown before grouping the rest as Other.
	DefaultTopN = 10
	// DefaultCacheTTL is the default lifetime of cached aggregates.
	DefaultCacheTTL = 5 * time.Minute
)

// configTemplate is the default configuration file template with comments.
// yaml.v3 does not preserve comments, so we hardcode the template string.
const configTemplate = `# The configuration file version.
#
# Required. The only current valid version is v1.
version: v1
# The layout of the CSV exports.
#
# Optional. One of auto, grouped (Activity Statement), or delimited (Flex Query
# with BOF/BOA/BOS rows). The default is auto, which detects the layout from
# the first row.
format: auto
# The ISO 4217 currency used to format monthly totals.
#
# Optional. The default is USD.
currency: USD
# The number of symbols listed before the rest are grouped as Other.
#
# Optional. The default is 10.
top_n: 10
# How long derived aggregates are cached for a loaded export.
#
# Optional. The default is 5m.
cache_ttl: 5m
# Additional columns to coerce to numbers.
#
# Optional. Column names may be given as they appear in the export
# (such as "Accrued Interest") or camelCased (such as accruedInterest).
# numeric_fields:
#   - Accrued Interest
`

// ExternalConfig is the YAML-serializable configuration file structure.
type ExternalConfig struct {
	// Version is the configuration file version (must be "v1").
	Version string `yaml:"version"`
	// Format is the layout of the CSV exports.
	Format string `yaml:"format"`
	// Currency is the ISO 4217 currency used to format totals.
	Currency string `yaml:"currency"`
	// TopN is the number of symbols listed before the rest are grouped.
	TopN *int `yaml:"top_n"`
	// CacheTTL is the lifetime of cached aggregates, as a Go duration string.
	CacheTTL string `yaml:"cache_ttl"`
	// NumericFields are additional columns to coerce to numbers.
	NumericFields []string `yaml:"numeric_fields"`
}

// Config is the validated runtime configuration derived from the config file.
type Config struct {
	// Format is the layout of the CSV exports.
	Format ibkrsection.Format
	// Currency is the ISO 4217 currency used to format totals.
	Currency string
	// TopN is the number of symbols listed before the rest are grouped.
	TopN int
	// CacheTTL is the lifetime of cached aggregates.
	CacheTTL time.Duration
	// NumericFields are additional columns to coerce to numbers.
	NumericFields []string
}

// NewConfig validates an ExternalConfig and returns a runtime Config.
//
// Unset optional fields take their defaults.
func NewConfig(externalConfig ExternalConfig) (*Config, error) {
	if externalConfig.Version != "v1" {
		return nil, fmt.Errorf("unsupported config version %q, must be v1", externalConfig.Version)
	}
	config := DefaultConfig()
	if externalConfig.Format != "" {
		format, err := ibkrsection.ParseFormat(externalConfig.Format)
		if err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
		config.Format = format
	}
	if externalConfig.Currency != "" {
		currency := strings.ToUpper(strings.TrimSpace(externalConfig.Currency))
		if money.GetCurrency(currency) == nil {
			return nil, fmt.Errorf("unknown currency %q", externalConfig.Currency)
		}
		config.Currency = currency
	}
	if externalConfig.TopN != nil {
		if *externalConfig.TopN < 1 {
			return nil, fmt.Errorf("top_n must be at least 1, got %d", *externalConfig.TopN)
		}
		config.TopN = *externalConfig.TopN
	}
	if externalConfig.CacheTTL != "" {
		cacheTTL, err := time.ParseDuration(externalConfig.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("cache_ttl: %w", err)
		}
		if cacheTTL <= 0 {
			return nil, fmt.Errorf("cache_ttl must be positive, got %s", externalConfig.CacheTTL)
		}
		config.CacheTTL = cacheTTL
	}
	// Check for empty and duplicate numeric fields.
	seenNumericFields := make(map[string]struct{}, len(externalConfig.NumericFields))
	for _, numericField := range externalConfig.NumericFields {
		numericField = strings.TrimSpace(numericField)
		if numericField == "" {
			return nil, errors.New("numeric_fields must not contain empty values")
		}
		if _, ok := seenNumericFields[numericField]; ok {
			return nil, fmt.Errorf("duplicate numeric field %q", numericField)
		}
		seenNumericFields[numericField] = struct{}{}
		config.NumericFields = append(config.NumericFields, numericField)
	}
	return config, nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Format:   ibkrsection.FormatAuto,
		Currency: DefaultCurrency,
		TopN:     DefaultTopN,
		CacheTTL: DefaultCacheTTL,
	}
}

// ReadConfig reads and validates the configuration file from the given base directory.
//
// If the file does not exist, DefaultConfig is returned.
func ReadConfig(dirPath string) (*Config, error) {
	filePath := ibreportpath.ConfigFilePath(dirPath)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var externalConfig ExternalConfig
	if err := unmarshalYAMLStrict(data, &externalConfig); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
	}
	config, err := NewConfig(externalConfig)
	if err != nil {
		return nil, fmt.Errorf("validating config file %s: %w", filePath, err)
	}
	return config, nil
}

// InitConfig creates a new configuration file with a documented template.
// Creates the base directory if it does not exist.
// Returns the path to the created file, or an error if the file already exists.
func InitConfig(dirPath string) (string, error) {
	filePath := ibreportpath.ConfigFilePath(dirPath)
	if _, err := os.Stat(filePath); err == nil {
		return "", fmt.Errorf("configuration file already exists: %s", filePath)
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(configTemplate), 0o644); err != nil {
		return "", err
	}
	return filePath, nil
}

// ValidateConfig reads and validates the configuration file from the given base directory.
//
// Unlike ReadConfig, a missing file is an error.
func ValidateConfig(dirPath string) error {
	filePath := ibreportpath.ConfigFilePath(dirPath)
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file not found at %s, run \"ibreport config init\" to create one", filePath)
		}
		return err
	}
	_, err := ReadConfig(dirPath)
	return err
}

// unmarshalYAMLStrict unmarshals the data as YAML with strict field checking.
// If the data length is 0, this is a no-op.
func unmarshalYAMLStrict(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	yamlDecoder := yaml.NewDecoder(bytes.NewReader(data))
	// Reject unknown fields.
	yamlDecoder.KnownFields(true)
	if err := yamlDecoder.Decode(v); err != nil {
		return fmt.Errorf("could not unmarshal as YAML: %w", err)
	}
	return nil
}
