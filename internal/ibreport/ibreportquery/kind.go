// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportquery

import (
	"fmt"
	"strings"
)

const (
	// KindGeneric is a section with no typed view.
	KindGeneric Kind = iota
	// KindStatementOfFunds is a Flex Query statement of funds.
	KindStatementOfFunds
	// KindDividend is an Activity Statement dividends section.
	KindDividend
	// KindWithholdingTax is a withholding tax section.
	KindWithholdingTax
	// KindTrade is a trades section.
	KindTrade
	// KindPerformanceSummary is a realized and unrealized performance summary.
	KindPerformanceSummary
	// KindPosition is a positions section.
	KindPosition
	// KindCashReport is a cash report section.
	KindCashReport
)

const (
	// AssetCategoryUnknown is an empty asset category.
	AssetCategoryUnknown AssetCategory = iota
	// AssetCategoryStocks is stocks and ETFs.
	AssetCategoryStocks
	// AssetCategoryOptions is equity and index options.
	AssetCategoryOptions
	// AssetCategoryForex is cash and currency conversions.
	AssetCategoryForex
	// AssetCategoryBonds is bonds and bills.
	AssetCategoryBonds
	// AssetCategoryOther is any other recognized-but-unsupported category.
	AssetCategoryOther
)

var (
	kindToString = map[Kind]string{
		KindGeneric:            "generic",
		KindStatementOfFunds:   "statement_of_funds",
		KindDividend:           "dividend",
		KindWithholdingTax:     "withholding_tax",
		KindTrade:              "trade",
		KindPerformanceSummary: "performance_summary",
		KindPosition:           "position",
		KindCashReport:         "cash_report",
	}
	sectionKeyToKind = map[string]Kind{
		"statementOfFunds":                           KindStatementOfFunds,
		"dividends":                                  KindDividend,
		"withholdingTax":                             KindWithholdingTax,
		"tradesTradeDateBasis":                       KindTrade,
		"trades":                                     KindTrade,
		"realizedUnrealizedPerformanceSummaryInBase": KindPerformanceSummary,
		"realizedUnrealizedPerformanceSummary":       KindPerformanceSummary,
		"positionTradeDateBasis":                     KindPosition,
		"openPositions":                              KindPosition,
		"cashReportTradeDateBasis":                   KindCashReport,
		"cashReport":                                 KindCashReport,
	}
	assetCategoryToString = map[AssetCategory]string{
		AssetCategoryUnknown: "unknown",
		AssetCategoryStocks:  "stocks",
		AssetCategoryOptions: "options",
		AssetCategoryForex:   "forex",
		AssetCategoryBonds:   "bonds",
		AssetCategoryOther:   "other",
	}
)

// Kind is the kind of a section.
type Kind int

// KindOf returns the Kind of the section key.
func KindOf(sectionKey string) Kind {
	return sectionKeyToKind[sectionKey]
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AssetCategory is a normalized asset category.
type AssetCategory int

// ParseAssetCategory parses an asset category from a Flex Query asset class code such as
// STK, or from an Activity Statement label such as "Equity and Index Options".
func ParseAssetCategory(s string) AssetCategory {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "":
		return AssetCategoryUnknown
	case s == "STK" || s == "STOCKS" || s == "STOCK":
		return AssetCategoryStocks
	case s == "OPT" || strings.Contains(s, "OPTION"):
		return AssetCategoryOptions
	case s == "CASH" || s == "FOREX" || s == "FX":
		return AssetCategoryForex
	case s == "BOND" || s == "BONDS" || s == "BILL" || s == "TREASURY BILLS":
		return AssetCategoryBonds
	default:
		return AssetCategoryOther
	}
}

// String implements fmt.Stringer.
func (a AssetCategory) String() string {
	if s, ok := assetCategoryToString[a]; ok {
		return s
	}
	return fmt.Sprintf("AssetCategory(%d)", int(a))
}
