// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportpath derives paths from the ibreport base directory.
//
// The base directory (--dir flag) contains:
//
//	ibreport.yaml    Config file
//	statements/      IBKR CSV exports, used to resolve bare file names
package ibreportpath

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the well-known config file name within the base directory.
const ConfigFileName = "ibreport.yaml"

// ConfigFilePath returns the path to the config file within the base directory.
func ConfigFilePath(dirPath string) string {
	return filepath.Join(dirPath, ConfigFileName)
}

// StatementsDirPath returns the directory for IBKR CSV exports.
func StatementsDirPath(dirPath string) string {
	return filepath.Join(dirPath, "statements")
}

// ResolveStatementFilePath resolves the path of an IBKR CSV export.
//
// Paths that exist are returned as-is. Relative paths that do not exist are looked up in
// the statements directory. If neither exists, the path is returned as-is so that the caller
// reports the original path.
func ResolveStatementFilePath(dirPath string, filePath string) string {
	if _, err := os.Stat(filePath); err == nil || filepath.IsAbs(filePath) {
		return filePath
	}
	candidate := filepath.Join(StatementsDirPath(dirPath), filePath)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return filePath
}
