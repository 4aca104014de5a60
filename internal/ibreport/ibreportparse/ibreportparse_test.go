// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportparse

import (
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrows"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"github.com/bufdev/ibreport/internal/standard/xstrings"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseActivityStatement(t *testing.T) {
	t.Parallel()
	result := parseFile(t, "testdata/activity.csv")
	require.Equal(t, ibkrsection.FormatGrouped, result.Format)
	require.Equal(
		t,
		[]string{
			"statement",
			"accountInformation",
			"trades",
			"realizedUnrealizedPerformanceSummary",
			"openPositions",
			"forexPlDetails",
			"depositsWithdrawals",
			"dividends",
			"withholdingTax",
			"interest",
			"codes",
		},
		result.SectionKeys(),
	)
	requireRecordKeysMatchHeaders(t, result)

	// Total rows lacking a date are excluded.
	dividends, ok := result.Section("dividends")
	require.True(t, ok)
	require.Equal(t, "Dividends", dividends.Name)
	require.Len(t, dividends.Records, 2)
	requireNumber(t, "184", dividends.Records[0], "amount")
	require.Equal(t, "2025-03-15", dividends.Records[0].String("date"))
	requireNumber(t, "59", dividends.Records[1], "amount")

	// The broker note lacks an asset category.
	performance, ok := result.Section("realizedUnrealizedPerformanceSummary")
	require.True(t, ok)
	require.Len(t, performance.Records, 6)

	forex, ok := result.Section("forexPlDetails")
	require.True(t, ok)
	require.Len(t, forex.Records, 1)

	// Deposits are keyed by settleDate, so no row has a date.
	deposits, ok := result.Section("depositsWithdrawals")
	require.True(t, ok)
	require.Empty(t, deposits.Records)

	// Sections without an inclusion rule keep every data row.
	interest, ok := result.Section("interest")
	require.True(t, ok)
	require.Len(t, interest.Records, 3)

	require.Len(t, result.Trades, 4)
	requireNumber(t, "-15050", result.Trades[0], "proceeds")
	requireNumber(t, "150.5", result.Trades[0], "tPrice")
	require.Equal(t, "2025-01-02, 09:30:00", result.Trades[0].String("dateTime"))
}

func TestParseActivityStatementTotals(t *testing.T) {
	t.Parallel()
	result := parseFile(t, "testdata/activity.csv")
	require.ElementsMatch(
		t,
		[]string{
			"depositsWithdrawals",
			"dividends",
			"interest",
			"realizedUnrealizedPerformanceSummary",
			"withholdingTax",
		},
		mapKeys(result.Totals),
	)
	requireScalarTotal(t, "243", result.Totals["dividends"])
	requireScalarTotal(t, "-36.45", result.Totals["withholdingTax"])
	requireScalarTotal(t, "22.34", result.Totals["interest"])
	requireScalarTotal(t, "20000", result.Totals["depositsWithdrawals"])

	performance := result.Totals["realizedUnrealizedPerformanceSummary"]
	require.True(t, performance.IsNested())
	require.ElementsMatch(t, []string{"stocks", "equityAndIndexOptions", "total"}, mapKeys(performance.ByCategory))
	requireNumber(t, "1773.5", performance.ByCategory["stocks"], "realizedTotal")
	require.Equal(t, "Total", performance.ByCategory["stocks"].String("assetCategory"))
	requireNumber(t, "149.3", performance.ByCategory["equityAndIndexOptions"], "realizedTotal")
	requireNumber(t, "4897.3", performance.ByCategory["total"], "total")
}

func TestParseFlexQuery(t *testing.T) {
	t.Parallel()
	result := parseFile(t, "testdata/flex.csv")
	require.Equal(t, ibkrsection.FormatDelimited, result.Format)
	require.Equal(
		t,
		[]string{
			"statementOfFunds",
			"trades",
			"realizedUnrealizedPerformanceSummaryInBase",
			"positionTradeDateBasis",
			"cashReportTradeDateBasis",
		},
		result.SectionKeys(),
	)
	requireRecordKeysMatchHeaders(t, result)
	require.Empty(t, result.Totals)

	funds, ok := result.Section("statementOfFunds")
	require.True(t, ok)
	require.Len(t, funds.Records, 5)
	deposit := funds.Records[0]
	require.True(t, deposit.Get("payDate").IsNull())
	require.Equal(t, "U1234567", deposit.String("clientAccountId"))
	_, isNumber := deposit.Get("clientAccountId").Number()
	require.False(t, isNumber)
	payment := funds.Records[4]
	requireNumber(t, "1000", payment, "credit")
	payDate, ok := payment.Get("payDate").Date()
	require.True(t, ok)
	require.Equal(t, xtime.Date{Year: 2025, Month: time.June, Day: 12}, payDate)

	require.Len(t, result.Trades, 5)
	requireNumber(t, "1973.5", result.Trades[1], "fifoPnlRealized")
	requireNumber(t, "-1", result.Trades[1], "ibCommission")
	require.Equal(t, "SELL", result.Trades[1].String("buySell"))
	require.Equal(t, ibkrrecord.KindDate, result.Trades[1].Get("reportDate").Kind())
}

func TestParseDuplicateSectionsConcatenate(t *testing.T) {
	t.Parallel()
	result, err := NewParser(slog.New(slog.DiscardHandler)).Parse(
		[][]string{
			{"BOS", "TRNT", "Trades"},
			{"Symbol", "Quantity"},
			{"AAPL", "10"},
			{"EOS", "TRNT"},
			{"BOS", "TRNT", "Trades"},
			{"Symbol", "Quantity"},
			{"MSFT", "-5"},
			{"EOS", "TRNT"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"trades"}, result.SectionKeys())
	require.Len(t, result.Trades, 2)
	require.Equal(t, "AAPL", result.Trades[0].String("symbol"))
	require.Equal(t, "MSFT", result.Trades[1].String("symbol"))
}

func TestParseRowInclusionAndTotalsOnlyForGroupedFormat(t *testing.T) {
	t.Parallel()
	result, err := NewParser(slog.New(slog.DiscardHandler)).Parse(
		[][]string{
			{"BOS", "DIV", "Dividends"},
			{"Currency", "Date", "Amount"},
			{"Total", "", "243"},
			{"EOS", "DIV"},
		},
	)
	require.NoError(t, err)
	dividends, ok := result.Section("dividends")
	require.True(t, ok)
	require.Len(t, dividends.Records, 1)
	require.Empty(t, result.Totals)
}

func TestParseFlexQueryHasNoTotals(t *testing.T) {
	t.Parallel()
	result, err := NewParser(slog.New(slog.DiscardHandler)).Parse(
		[][]string{
			{"BOS", "CDIV", "Change in Dividend Accruals"},
			{"Symbol", "Date", "GrossAmount", "Code"},
			{"AAPL", "20250301", "25", "Po"},
			{"DG", "20250302", "59", "Re"},
			{"EOS", "CDIV"},
		},
	)
	require.NoError(t, err)
	accruals, ok := result.Section("changeInDividendAccruals")
	require.True(t, ok)
	require.Len(t, accruals.Records, 2)
	require.NotContains(t, result.Totals, "changeInDividendAccruals")
}

func TestParseWithFormatAndNumericFields(t *testing.T) {
	t.Parallel()
	parser := NewParser(
		slog.New(slog.DiscardHandler),
		ParserWithFormat(ibkrsection.FormatGrouped),
		ParserWithNumericFields("Field Value"),
	)
	result, err := parser.Parse(
		[][]string{
			{"Net Asset Value", "Header", "Field Name", "Field Value"},
			{"Net Asset Value", "Data", "Cash", "1,500.25"},
		},
	)
	require.NoError(t, err)
	section, ok := result.Section("netAssetValue")
	require.True(t, ok)
	requireNumber(t, "1500.25", section.Records[0], "fieldValue")
}

func TestParseError(t *testing.T) {
	t.Parallel()
	_, err := NewParser(slog.New(slog.DiscardHandler)).Parse(
		[][]string{
			{"BOF", "U1234567"},
			{"BOS", "TRNT", "Trades"},
		},
	)
	var parseError *ParseError
	require.ErrorAs(t, err, &parseError)
	require.EqualError(t, err, `error parsing CSV file: section "Trades" has no header row`)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()
	result, err := NewParser(slog.New(slog.DiscardHandler)).Parse(nil)
	require.NoError(t, err)
	require.Empty(t, result.Sections)
	require.Empty(t, result.Totals)
	require.Empty(t, result.Trades)
}

func TestTotalsStrategyForSection(t *testing.T) {
	t.Parallel()
	strategy, ok := TotalsStrategyForSection("dividends")
	require.True(t, ok)
	require.Equal(t, TotalsStrategyLastNonEmptyCell, strategy)
	strategy, ok = TotalsStrategyForSection("realizedUnrealizedPerformanceSummary")
	require.True(t, ok)
	require.Equal(t, TotalsStrategyNestedByDiscriminator, strategy)
	_, ok = TotalsStrategyForSection("trades")
	require.False(t, ok)
}

func parseFile(t *testing.T, path string) *Result {
	rows, err := ibkrrows.ReadFile(path)
	require.NoError(t, err)
	result, err := NewParser(slog.New(slog.DiscardHandler)).Parse(rows)
	require.NoError(t, err)
	return result
}

func requireRecordKeysMatchHeaders(t *testing.T, result *Result) {
	for _, section := range result.Sections {
		var wantKeys []string
		for _, header := range section.Headers {
			wantKeys = append(wantKeys, xstrings.ToLowerCamel(header))
		}
		slices.Sort(wantKeys)
		wantKeys = slices.Compact(wantKeys)
		for _, record := range section.Records {
			require.Equal(t, wantKeys, record.Keys(), section.Key)
		}
	}
}

func requireNumber(t *testing.T, want string, record ibkrrecord.Record, key string) {
	got, ok := record.Get(key).Number()
	require.True(t, ok, "%s is not a number: %v", key, record.Get(key))
	require.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", key, want, got)
}

func requireScalarTotal(t *testing.T, want string, total *Total) {
	require.NotNil(t, total)
	require.False(t, total.IsNested())
	got, ok := total.Value.Number()
	require.True(t, ok)
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
