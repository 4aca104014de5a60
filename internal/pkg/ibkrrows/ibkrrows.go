// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibkrrows reads IBKR CSV exports into raw rows.
//
// Both Activity Statement and Flex Query CSV exports are plain comma-delimited files with
// quoted fields and a variable number of fields per row. This package does no interpretation
// of the rows: every cell is returned as a string, and rows that carry no content are dropped.
package ibkrrows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadError is returned when a CSV file could not be read.
//
// No partial result is ever returned alongside a ReadError.
type ReadError struct {
	// Path is the path of the file, if the rows were read from a file.
	Path string
	// Line is the 1-based line number at which reading failed, if known.
	Line int
	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *ReadError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("error reading CSV file %s at line %d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("error reading CSV file %s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("error reading CSV file at line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("error reading CSV file: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadFile reads all rows from the CSV file at the given path.
func ReadFile(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: err}
	}
	defer file.Close()
	rows, err := Read(file)
	if err != nil {
		var readError *ReadError
		if errors.As(err, &readError) {
			readError.Path = filePath
			return nil, readError
		}
		return nil, &ReadError{Path: filePath, Err: err}
	}
	return rows, nil
}

// Read reads all rows from the reader.
//
// A leading byte-order mark is removed. Rows that are empty or whose cells are all empty
// are dropped. Every returned row has at least one non-empty cell.
func Read(reader io.Reader) ([][]string, error) {
	// Strip a leading BOM, and decode UTF-16 if the BOM says so.
	csvReader := csv.NewReader(transform.NewReader(reader, unicode.BOMOverride(transform.Nop)))
	// Allow variable number of fields per record (sections have different column counts).
	csvReader.FieldsPerRecord = -1
	// Don't treat leading spaces as significant.
	csvReader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newReadError(err)
		}
		for _, cell := range record {
			if !utf8.ValidString(cell) {
				line, _ := csvReader.FieldPos(0)
				return nil, &ReadError{Line: line, Err: errors.New("invalid UTF-8")}
			}
		}
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// *** PRIVATE ***

func newReadError(err error) *ReadError {
	var parseError *csv.ParseError
	if errors.As(err, &parseError) {
		return &ReadError{Line: parseError.Line, Err: parseError.Err}
	}
	return &ReadError{Err: err}
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
