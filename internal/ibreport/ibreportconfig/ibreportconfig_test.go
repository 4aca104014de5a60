// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"github.com/stretchr/testify/require"
)

func TestReadConfigMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()
	config, err := ReadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)
}

func TestInitConfigTemplateIsValid(t *testing.T) {
	t.Parallel()
	dirPath := filepath.Join(t.TempDir(), "nested")
	filePath, err := InitConfig(dirPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dirPath, "ibreport.yaml"), filePath)
	require.NoError(t, ValidateConfig(dirPath))
	config, err := ReadConfig(dirPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)

	_, err = InitConfig(dirPath)
	require.ErrorContains(t, err, "already exists")
}

func TestValidateConfigMissingFile(t *testing.T) {
	t.Parallel()
	require.ErrorContains(t, ValidateConfig(t.TempDir()), "ibreport config init")
}

func TestReadConfig(t *testing.T) {
	t.Parallel()
	dirPath := t.TempDir()
	writeConfig(
		t,
		dirPath,
		`version: v1
format: delimited
currency: eur
top_n: 3
cache_ttl: 1h
numeric_fields:
  - Accrued Interest
`,
	)
	config, err := ReadConfig(dirPath)
	require.NoError(t, err)
	require.Equal(
		t,
		&Config{
			Format:        ibkrsection.FormatDelimited,
			Currency:      "EUR",
			TopN:          3,
			CacheTTL:      time.Hour,
			NumericFields: []string{"Accrued Interest"},
		},
		config,
	)
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "version", data: "version: v2\n", wantErr: `unsupported config version "v2"`},
		{name: "unknown_field", data: "version: v1\nquery_id: 1\n", wantErr: "field query_id not found"},
		{name: "format", data: "version: v1\nformat: xml\n", wantErr: `unknown format "xml"`},
		{name: "currency", data: "version: v1\ncurrency: ZZZ\n", wantErr: `unknown currency "ZZZ"`},
		{name: "top_n", data: "version: v1\ntop_n: 0\n", wantErr: "top_n must be at least 1"},
		{name: "cache_ttl", data: "version: v1\ncache_ttl: soon\n", wantErr: "cache_ttl"},
		{name: "negative_cache_ttl", data: "version: v1\ncache_ttl: -1m\n", wantErr: "cache_ttl must be positive"},
		{name: "duplicate_numeric_field", data: "version: v1\nnumeric_fields: [a, a]\n", wantErr: `duplicate numeric field "a"`},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			dirPath := t.TempDir()
			writeConfig(t, dirPath, test.data)
			_, err := ReadConfig(dirPath)
			require.ErrorContains(t, err, test.wantErr)
		})
	}
}

func writeConfig(t *testing.T, dirPath string, data string) {
	require.NoError(t, os.WriteFile(filepath.Join(dirPath, "ibreport.yaml"), []byte(data), 0o644))
}
