// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportquery provides typed, read-only queries over a parsed IBKR export.
//
// Queries work against both Flex Query and Activity Statement exports. Each query reads the
// first section present from an ordered list of candidate sections, turns its records into
// typed values, and skips records that lack the fields the type requires. A missing section
// is an empty result, never an error.
package ibreportquery

import (
	"slices"
	"strings"

	"github.com/bufdev/ibreport/internal/ibreport/ibreportparse"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

const baseSummaryCurrency = "BASE_SUMMARY"

var (
	dividendSectionKeys    = []string{"statementOfFunds", "dividends"}
	gainSectionKeys        = []string{"realizedUnrealizedPerformanceSummaryInBase", "realizedUnrealizedPerformanceSummary"}
	positionSectionKeys    = []string{"positionTradeDateBasis", "openPositions"}
	cashReportSectionKeys  = []string{"cashReportTradeDateBasis", "cashReport"}
	tradeSectionKeys       = []string{"tradesTradeDateBasis", "trades"}
	withholdingSectionKeys = []string{"withholdingTax", "statementOfFunds"}

	dividendActivityCodes    = []string{"DIV", "PIL"}
	withholdingActivityCodes = []string{"FRTAX", "WHT"}
)

// Filter filters query results.
//
// A nil Filter or a zero field places no constraint.
type Filter struct {
	// Symbols restricts results to these symbols, case-insensitively.
	Symbols []string
	// StartDate excludes results dated before it.
	StartDate xtime.Date
	// EndDate excludes results dated after it.
	EndDate xtime.Date
	// AssetClasses restricts results to these asset classes.
	//
	// Both Flex Query codes such as STK and Activity Statement labels such as Stocks match.
	AssetClasses []string
}

// Dividends returns dividend and payment-in-lieu records.
//
// Flex Query statement of funds rows with activity code DIV or PIL are used if present,
// otherwise the Activity Statement dividends section. The symbol filter and the date range,
// applied to the pay date, are honored. Dividends without a pay date are never excluded by
// the date range.
func Dividends(result *ibreportparse.Result, filter *Filter) []Dividend {
	section, ok := result.FirstSection(dividendSectionKeys...)
	if !ok {
		return []Dividend{}
	}
	dividends := make([]Dividend, 0, len(section.Records))
	for _, record := range section.Records {
		if KindOf(section.Key) == KindStatementOfFunds && !hasActivityCode(record, dividendActivityCodes) {
			continue
		}
		dividend, ok := newDividend(record)
		if !ok {
			continue
		}
		if !filter.matchSymbol(dividend.Symbol) || !filter.matchDate(dividend.PayDate, dividend.HasPayDate) {
			continue
		}
		dividends = append(dividends, dividend)
	}
	return dividends
}

// Trades returns trade records, honoring the symbol and asset-class filters.
//
// A symbol filter matches either the traded symbol or its underlying symbol, so filtering
// on NKE also returns NKE options.
func Trades(result *ibreportparse.Result, filter *Filter) []Trade {
	records := result.Trades
	if records == nil {
		if section, ok := result.FirstSection(tradeSectionKeys...); ok {
			records = section.Records
		}
	}
	trades := make([]Trade, 0, len(records))
	for _, record := range records {
		trade, ok := newTrade(record)
		if !ok {
			continue
		}
		if !filter.matchSymbol(trade.Symbol, trade.UnderlyingSymbol) || !filter.matchAssetClass(trade.AssetClass) {
			continue
		}
		trades = append(trades, trade)
	}
	return trades
}

// RealizedGains returns performance summary records, honoring the symbol and asset-class filters.
//
// As with Trades, a symbol filter also matches the underlying symbol. Category total rows
// are not returned.
func RealizedGains(result *ibreportparse.Result, filter *Filter) []RealizedGain {
	section, ok := result.FirstSection(gainSectionKeys...)
	if !ok {
		return []RealizedGain{}
	}
	gains := make([]RealizedGain, 0, len(section.Records))
	for _, record := range section.Records {
		gain, ok := newRealizedGain(record)
		if !ok {
			continue
		}
		if !filter.matchSymbol(gain.Symbol, gain.UnderlyingSymbol) || !filter.matchAssetClass(gain.AssetClass) {
			continue
		}
		gains = append(gains, gain)
	}
	return gains
}

// Positions returns open position records, honoring the symbol and asset-class filters.
func Positions(result *ibreportparse.Result, filter *Filter) []Position {
	section, ok := result.FirstSection(positionSectionKeys...)
	if !ok {
		return []Position{}
	}
	positions := make([]Position, 0, len(section.Records))
	for _, record := range section.Records {
		position, ok := newPosition(record)
		if !ok {
			continue
		}
		if !filter.matchSymbol(position.Symbol) || !filter.matchAssetClass(position.AssetClass) {
			continue
		}
		positions = append(positions, position)
	}
	return positions
}

// CashReport returns cash report records, unfiltered.
func CashReport(result *ibreportparse.Result) []CashReportEntry {
	section, ok := result.FirstSection(cashReportSectionKeys...)
	if !ok {
		return []CashReportEntry{}
	}
	entries := make([]CashReportEntry, 0, len(section.Records))
	for _, record := range section.Records {
		if entry, ok := newCashReportEntry(record); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// BrokerInterest returns the broker interest earned over the statement period.
//
// The broker interest of the BASE_SUMMARY cash report row is used if present, otherwise the
// total of the Activity Statement interest section.
func BrokerInterest(result *ibreportparse.Result) (decimal.Decimal, bool) {
	for _, entry := range CashReport(result) {
		if entry.IsBaseSummary() && entry.Record.Has("brokerInterest") {
			return entry.BrokerInterest, true
		}
	}
	if total, ok := result.Totals["interest"]; ok && !total.IsNested() {
		return total.Value.Number()
	}
	return decimal.Zero, false
}

// WithholdingTaxes returns withholding tax records, honoring the symbol filter and date range.
//
// The Activity Statement withholding tax section is used if present, otherwise Flex Query
// statement of funds rows with a withholding activity code.
func WithholdingTaxes(result *ibreportparse.Result, filter *Filter) []WithholdingTax {
	section, ok := result.FirstSection(withholdingSectionKeys...)
	if !ok {
		return []WithholdingTax{}
	}
	taxes := make([]WithholdingTax, 0, len(section.Records))
	for _, record := range section.Records {
		if KindOf(section.Key) == KindStatementOfFunds && !hasActivityCode(record, withholdingActivityCodes) {
			continue
		}
		tax, ok := newWithholdingTax(record)
		if !ok {
			continue
		}
		if !filter.matchSymbol(tax.Symbol) || !filter.matchDate(tax.Date, tax.HasDate) {
			continue
		}
		taxes = append(taxes, tax)
	}
	return taxes
}

// *** PRIVATE ***

func (f *Filter) matchSymbol(symbols ...string) bool {
	if f == nil || len(f.Symbols) == 0 {
		return true
	}
	for _, symbol := range symbols {
		if symbol == "" {
			continue
		}
		if slices.ContainsFunc(f.Symbols, func(want string) bool { return strings.EqualFold(strings.TrimSpace(want), symbol) }) {
			return true
		}
	}
	return false
}

func (f *Filter) matchAssetClass(assetClass string) bool {
	if f == nil || len(f.AssetClasses) == 0 {
		return true
	}
	category := ParseAssetCategory(assetClass)
	return slices.ContainsFunc(
		f.AssetClasses,
		func(want string) bool {
			return strings.EqualFold(strings.TrimSpace(want), assetClass) || ParseAssetCategory(want) == category
		},
	)
}

func (f *Filter) matchDate(date xtime.Date, ok bool) bool {
	if f == nil || !ok {
		return true
	}
	if !f.StartDate.IsZero() && date.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && date.After(f.EndDate) {
		return false
	}
	return true
}

func hasActivityCode(record ibkrrecord.Record, codes []string) bool {
	return slices.Contains(codes, strings.ToUpper(strings.TrimSpace(record.String("activityCode"))))
}
