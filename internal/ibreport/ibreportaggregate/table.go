// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportaggregate

import (
	"strconv"
)

// SymbolAmountHeaders returns the column headers for SymbolAmount rows.
func SymbolAmountHeaders() []string {
	return []string{"SYMBOL", "AMOUNT"}
}

// SymbolAmountToRow converts a SymbolAmount to a row matching SymbolAmountHeaders.
func SymbolAmountToRow(symbolAmount SymbolAmount) []string {
	return []string{symbolAmount.Symbol, symbolAmount.Amount.StringFixed(2)}
}

// CategoryBreakdownHeaders returns the column headers for CategoryBreakdown rows.
func CategoryBreakdownHeaders() []string {
	return []string{"SYMBOL", "STOCKS", "OPTIONS", "DIVIDENDS", "TOTAL"}
}

// CategoryBreakdownToRow converts a CategoryBreakdown to a row matching CategoryBreakdownHeaders.
func CategoryBreakdownToRow(breakdown CategoryBreakdown) []string {
	return []string{
		breakdown.Symbol,
		breakdown.Stocks.StringFixed(2),
		breakdown.Options.StringFixed(2),
		breakdown.Dividends.StringFixed(2),
		breakdown.Total().StringFixed(2),
	}
}

// MonthlyTotalHeaders returns the column headers for MonthlyTotal rows.
func MonthlyTotalHeaders() []string {
	return []string{"MONTH", "AMOUNT", "FORMATTED", "HAS_DATA"}
}

// MonthlyTotalToRow converts a MonthlyTotal to a row matching MonthlyTotalHeaders.
func MonthlyTotalToRow(monthlyTotal MonthlyTotal) []string {
	return []string{
		monthlyTotal.Month.String(),
		monthlyTotal.Amount.StringFixed(2),
		monthlyTotal.Formatted,
		strconv.FormatBool(monthlyTotal.HasData),
	}
}

// MonthAmountHeaders returns the column headers for MonthAmount rows.
func MonthAmountHeaders() []string {
	return []string{"MONTH", "AMOUNT"}
}

// MonthAmountToRow converts a MonthAmount to a row matching MonthAmountHeaders.
func MonthAmountToRow(monthAmount MonthAmount) []string {
	return []string{monthAmount.Label, monthAmount.Amount.StringFixed(2)}
}

// LinkHeaders returns the column headers for Link rows.
func LinkHeaders() []string {
	return []string{"SOURCE", "TARGET", "VALUE"}
}

// LinkToRow converts a Link to a row matching LinkHeaders.
func LinkToRow(link Link) []string {
	return []string{link.Source, link.Target, link.Value.StringFixed(2)}
}
