// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package cliio provides output formatting for CLI commands (table, CSV, JSON, XLSX).
package cliio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Format represents the output format for CLI commands.
type Format string

const (
	// FormatTable is the default table output format.
	FormatTable Format = "table"
	// FormatCSV is the CSV output format.
	FormatCSV Format = "csv"
	// FormatJSON is the newline-separated JSON output format.
	FormatJSON Format = "json"
	// FormatXLSX is the Excel workbook output format.
	FormatXLSX Format = "xlsx"

	defaultSheetName = "Sheet1"
	// Excel limits sheet names to 31 characters.
	maxSheetNameLength = 31
)

// ParseFormat parses a string into a Format, returning an error for unknown formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: table, csv, json, xlsx", s)
	}
}

// ForWriteFile calls f for an opened *os.File opened for writing, creating the file if needed.
func ForWriteFile(filePath string, f func(io.Writer) error) (retErr error) {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		retErr = errors.Join(retErr, file.Close())
	}()
	return f(file)
}

// WriteTable writes tabular data to the writer using tabwriter for aligned columns.
func WriteTable(writer io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	// Write header row.
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	// Write data rows.
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteTableWithTotals writes a table followed by a blank line and a totals row,
// all through the same tabwriter so columns align between data and totals.
func WriteTableWithTotals(writer io.Writer, headers []string, rows [][]string, totalsRow []string) error {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	// Write header row.
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	// Write data rows.
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	// Write a blank separator line with tabs to preserve column alignment.
	blankRow := make([]string, len(headers))
	if _, err := fmt.Fprintln(tw, strings.Join(blankRow, "\t")); err != nil {
		return err
	}
	// Write the totals row aligned to the same columns.
	if _, err := fmt.Fprintln(tw, strings.Join(totalsRow, "\t")); err != nil {
		return err
	}
	return tw.Flush()
}

// WriteCSVRecords writes CSV records to the writer.
func WriteCSVRecords(writer io.Writer, records [][]string) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}
	csvWriter.Flush()
	return nil
}

// WriteJSON writes objects as JSON with newlines between each object.
func WriteJSON[O any](writer io.Writer, objects ...O) error {
	for _, object := range objects {
		data, err := json.Marshal(object)
		if err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if _, err := writer.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

// WriteXLSX writes tabular data as a single-sheet Excel workbook.
//
// Cells that parse as decimal numbers are written as numbers, all other cells as text.
// The header row is frozen. An empty sheet name results in "Sheet1".
func WriteXLSX(writer io.Writer, sheetName string, headers []string, rows [][]string) (retErr error) {
	file := excelize.NewFile()
	defer func() {
		retErr = errors.Join(retErr, file.Close())
	}()
	sheetName = xlsxSheetName(sheetName)
	if sheetName != defaultSheetName {
		if err := file.SetSheetName(defaultSheetName, sheetName); err != nil {
			return err
		}
	}
	if err := setXLSXRow(file, sheetName, 1, headers, false); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setXLSXRow(file, sheetName, i+2, row, true); err != nil {
			return err
		}
	}
	if err := file.SetPanes(
		sheetName,
		&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		},
	); err != nil {
		return err
	}
	_, err := file.WriteTo(writer)
	return err
}

// *** PRIVATE ***

func setXLSXRow(file *excelize.File, sheetName string, rowNumber int, row []string, coerceNumbers bool) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	values := make([]any, len(row))
	for i, value := range row {
		values[i] = value
		if !coerceNumbers || value == "" {
			continue
		}
		if number, err := decimal.NewFromString(value); err == nil {
			values[i] = number.InexactFloat64()
		}
	}
	return file.SetSheetRow(sheetName, cell, &values)
}

func xlsxSheetName(name string) string {
	// Excel rejects these characters in sheet names.
	name = strings.Map(
		func(r rune) rune {
			switch r {
			case ':', '\\', '/', '?', '*', '[', ']':
				return '_'
			default:
				return r
			}
		},
		strings.TrimSpace(name),
	)
	if name == "" {
		return defaultSheetName
	}
	if runes := []rune(name); len(runes) > maxSheetNameLength {
		name = string(runes[:maxSheetNameLength])
	}
	return name
}
