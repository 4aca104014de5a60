// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportparse

import (
	"strings"

	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"github.com/bufdev/ibreport/internal/standard/xstrings"
)

const (
	// TotalsStrategyLastNonEmptyCell takes the last non-empty cell of the last data row.
	//
	// The last data row of these sections is a "Total" row whose last cell is the grand total.
	TotalsStrategyLastNonEmptyCell TotalsStrategy = iota + 1
	// TotalsStrategyNestedByDiscriminator keys every "Total" row by the category of the row
	// before it, and the "Total (All Assets)" row by "total".
	TotalsStrategyNestedByDiscriminator
)

const (
	discriminatorKey            = "assetCategory"
	discriminatorTotal          = "Total"
	discriminatorTotalAllAssets = "Total (All Assets)"
	totalAllAssetsKey           = "total"
)

var sectionKeyToTotalsStrategy = map[string]TotalsStrategy{
	"changeInDividendAccruals":             TotalsStrategyLastNonEmptyCell,
	"depositsWithdrawals":                  TotalsStrategyLastNonEmptyCell,
	"dividends":                            TotalsStrategyLastNonEmptyCell,
	"interest":                             TotalsStrategyLastNonEmptyCell,
	"withholdingTax":                       TotalsStrategyLastNonEmptyCell,
	"realizedUnrealizedPerformanceSummary": TotalsStrategyNestedByDiscriminator,
}

// TotalsStrategy is how totals are extracted from a section.
type TotalsStrategy int

// TotalsStrategyForSection returns the TotalsStrategy for the section key.
func TotalsStrategyForSection(sectionKey string) (TotalsStrategy, bool) {
	strategy, ok := sectionKeyToTotalsStrategy[sectionKey]
	return strategy, ok
}

// *** PRIVATE ***

func extractTotal(rawSection *ibkrsection.Section, section *Section) (*Total, bool) {
	strategy, ok := TotalsStrategyForSection(section.Key)
	if !ok {
		return nil, false
	}
	switch strategy {
	case TotalsStrategyLastNonEmptyCell:
		return extractLastNonEmptyCell(rawSection)
	case TotalsStrategyNestedByDiscriminator:
		return extractNestedByDiscriminator(section)
	default:
		return nil, false
	}
}

func extractLastNonEmptyCell(rawSection *ibkrsection.Section) (*Total, bool) {
	if len(rawSection.Rows) == 0 {
		return nil, false
	}
	lastRow := rawSection.Rows[len(rawSection.Rows)-1]
	var lastCell string
	for _, cell := range lastRow {
		if cell = strings.TrimSpace(cell); cell != "" {
			lastCell = cell
		}
	}
	if lastCell == "" {
		return nil, false
	}
	if number, ok := ibkrrecord.ParseNumber(lastCell); ok {
		return &Total{Value: ibkrrecord.NumberValue(number)}, true
	}
	return &Total{Value: ibkrrecord.StringValue(lastCell)}, true
}

func extractNestedByDiscriminator(section *Section) (*Total, bool) {
	byCategory := make(map[string]ibkrrecord.Record)
	var previousCategory string
	for _, record := range section.Records {
		category := record.String(discriminatorKey)
		switch category {
		case discriminatorTotal:
			if previousCategory != "" {
				byCategory[xstrings.ToLowerCamel(previousCategory)] = record
			}
		case discriminatorTotalAllAssets:
			byCategory[totalAllAssetsKey] = record
		}
		previousCategory = category
	}
	if len(byCategory) == 0 {
		return nil, false
	}
	return &Total{ByCategory: byCategory}, true
}
