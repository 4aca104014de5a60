// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportaggregate

import (
	"testing"
	"time"

	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDividendsBySymbol(t *testing.T) {
	t.Parallel()
	amounts := DividendsBySymbol(
		[]ibreportquery.Dividend{
			newDividend("DG", "59", 2025, time.April, 22),
			newDividend("NKE", "184", 2025, time.March, 15),
			newDividend("NKE", "16", 2025, time.June, 15),
		},
	)
	requireSymbolAmounts(t, []string{"NKE:200", "DG:59"}, amounts)
}

func TestTradeGainsBySymbol(t *testing.T) {
	t.Parallel()
	trades := testTrades()
	requireSymbolAmounts(t, []string{"AAPL:1973.5", "NKE:149.3", "MSFT:-200"}, TradeGainsBySymbol(trades))
	requireSymbolAmounts(t, []string{"NKE:149.3"}, TradeGainsBySymbol(trades, ibreportquery.AssetCategoryOptions))
	requireSymbolAmounts(t, []string{"EUR:5"}, TradeGainsBySymbol(trades, ibreportquery.AssetCategoryForex))
}

func TestTopSymbolsAndTopWithOther(t *testing.T) {
	t.Parallel()
	amounts := []SymbolAmount{
		{Symbol: "C", Amount: decimal.NewFromInt(1)},
		{Symbol: "A", Amount: decimal.NewFromInt(10)},
		{Symbol: "B", Amount: decimal.NewFromInt(5)},
		{Symbol: "D", Amount: decimal.NewFromInt(2)},
	}
	requireSymbolAmounts(t, []string{"A:10", "B:5"}, TopSymbols(amounts, 2))
	requireSymbolAmounts(t, []string{"A:10", "B:5", "D:2", "C:1"}, TopSymbols(amounts, 10))
	requireSymbolAmounts(t, []string{"A:10", "B:5", "Other:3"}, TopWithOther(amounts, 2))
	requireSymbolAmounts(t, []string{"A:10", "B:5", "D:2", "C:1"}, TopWithOther(amounts, 4))
	// The input is not modified.
	require.Equal(t, "C", amounts[0].Symbol)
}

func TestCombineAndNetBySymbol(t *testing.T) {
	t.Parallel()
	dividends := []ibreportquery.Dividend{
		newDividend("NKE", "184", 2025, time.March, 15),
		newDividend("DG", "59", 2025, time.April, 22),
	}
	taxes := []ibreportquery.WithholdingTax{
		{Symbol: "NKE", Amount: decimal.RequireFromString("-27.6")},
	}
	requireSymbolAmounts(t, []string{"NKE:156.4", "DG:59"}, NetDividendsBySymbol(dividends, taxes))
	requireSymbolAmounts(
		t,
		[]string{"AAPL:1973.5", "NKE:333.3", "DG:59", "MSFT:-200"},
		CombineBySymbol(TradeGainsBySymbol(testTrades()), DividendsBySymbol(dividends)),
	)
}

func TestGainsByCategory(t *testing.T) {
	t.Parallel()
	breakdowns := GainsByCategory(
		testTrades(),
		[]ibreportquery.Dividend{newDividend("NKE", "184", 2025, time.March, 15)},
	)
	require.Len(t, breakdowns, 3)
	require.Equal(t, "AAPL", breakdowns[0].Symbol)
	require.Equal(t, "NKE", breakdowns[1].Symbol)
	requireDecimal(t, "149.3", breakdowns[1].Options)
	requireDecimal(t, "184", breakdowns[1].Dividends)
	requireDecimal(t, "0", breakdowns[1].Stocks)
	requireDecimal(t, "333.3", breakdowns[1].Total())
	require.Equal(t, "MSFT", breakdowns[2].Symbol)
}

func TestMonthlyTotals(t *testing.T) {
	t.Parallel()
	monthlyTotals, err := MonthlyTotals(
		testTrades(),
		[]ibreportquery.Dividend{
			newDividend("NKE", "184", 2025, time.March, 15),
			newDividend("DG", "59.004", 2025, time.June, 22),
		},
		"USD",
	)
	require.NoError(t, err)
	require.Len(t, monthlyTotals, 12)
	require.Equal(t, time.January, monthlyTotals[0].Month)
	require.False(t, monthlyTotals[0].HasData)
	require.Equal(t, "$0.00", monthlyTotals[0].Formatted)

	march := monthlyTotals[time.March-1]
	require.False(t, march.HasData)
	require.Equal(t, "$184.00", march.Formatted)

	june := monthlyTotals[time.June-1]
	require.True(t, june.HasData)
	requireDecimal(t, "2032.5", june.Amount)
	require.Equal(t, "$2,032.50", june.Formatted)

	july := monthlyTotals[time.July-1]
	require.True(t, july.HasData)
	require.Equal(t, "-$200.00", july.Formatted)

	_, err = MonthlyTotals(nil, nil, "XYZ")
	require.Error(t, err)
}

func TestDividendsByMonth(t *testing.T) {
	t.Parallel()
	monthAmounts := DividendsByMonth(
		[]ibreportquery.Dividend{
			newDividend("NKE", "184", 2025, time.March, 15),
			newDividend("DG", "59", 2024, time.December, 22),
			newDividend("KO", "10", 2025, time.March, 31),
			{Symbol: "XOM", Amount: decimal.NewFromInt(1)},
		},
	)
	require.Len(t, monthAmounts, 2)
	require.Equal(t, "Dec 2024", monthAmounts[0].Label)
	requireDecimal(t, "59", monthAmounts[0].Amount)
	require.Equal(t, "Mar 2025", monthAmounts[1].Label)
	requireDecimal(t, "194", monthAmounts[1].Amount)
}

func TestIncomeFlow(t *testing.T) {
	t.Parallel()
	flow := IncomeFlow(
		decimal.RequireFromString("22.34"),
		[]ibreportquery.Dividend{newDividend("NKE", "184", 2025, time.March, 15)},
		testTrades(),
	)
	require.Equal(t, []string{"interests", "dividends", "realizedGainsFromTrades", "total"}, flow.Nodes)
	require.Len(t, flow.Links, 3)
	requireDecimal(t, "22.34", flow.Links[0].Value)
	requireDecimal(t, "184", flow.Links[1].Value)
	requireDecimal(t, "1927.8", flow.Links[2].Value)
}

func TestSymbolFlow(t *testing.T) {
	t.Parallel()
	flow := SymbolFlow(testTrades(), []ibreportquery.Dividend{newDividend("DG", "59", 2025, time.April, 22)})
	require.Equal(t, []string{"AAPL", "DG", "MSFT", "NKE", "total"}, flow.Nodes)
	require.Len(t, flow.Links, 4)
	for _, link := range flow.Links {
		require.Equal(t, NodeTotal, link.Target)
	}
	require.Equal(t, "DG", flow.Links[1].Source)
}

func TestCategoryFlow(t *testing.T) {
	t.Parallel()
	flow := CategoryFlow(testTrades(), []ibreportquery.Dividend{newDividend("NKE", "184", 2025, time.March, 15)})
	require.Equal(t, []string{"AAPL", "MSFT", "NKE", "total", "stocks", "options", "dividends"}, flow.Nodes)
	require.Equal(
		t,
		[]string{
			"AAPL->stocks",
			"MSFT->stocks",
			"NKE->options",
			"NKE->dividends",
			"stocks->total",
			"options->total",
			"dividends->total",
		},
		linkNames(flow.Links),
	)
	requireDecimal(t, "1773.5", flow.Links[4].Value)
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()
	formatted, err := FormatMoney(decimal.RequireFromString("1234.505"), "USD")
	require.NoError(t, err)
	require.Equal(t, "$1,234.51", formatted)
	formatted, err = FormatMoney(decimal.RequireFromString("-0.4"), "USD")
	require.NoError(t, err)
	require.Equal(t, "-$0.40", formatted)
	_, err = FormatMoney(decimal.Zero, "ZZZ")
	require.Error(t, err)
}

func testTrades() []ibreportquery.Trade {
	return []ibreportquery.Trade{
		newTrade("AAPL", "AAPL", ibreportquery.AssetCategoryStocks, "0", 2025, time.January, 2),
		newTrade("AAPL", "AAPL", ibreportquery.AssetCategoryStocks, "1973.5", 2025, time.June, 2),
		newTrade("NKE 20JUN25 70 P", "NKE", ibreportquery.AssetCategoryOptions, "149.3", 2025, time.May, 1),
		newTrade("MSFT", "MSFT", ibreportquery.AssetCategoryStocks, "-200", 2025, time.July, 10),
		newTrade("EUR.USD", "EUR", ibreportquery.AssetCategoryForex, "5", 2025, time.August, 1),
		{
			Symbol:           "TSLA",
			UnderlyingSymbol: "TSLA",
			AssetCategory:    ibreportquery.AssetCategoryStocks,
			RealizedPnl:      decimal.NewFromInt(1000),
		},
	}
}

func newTrade(
	symbol string,
	underlyingSymbol string,
	assetCategory ibreportquery.AssetCategory,
	realizedPnl string,
	year int,
	month time.Month,
	day int,
) ibreportquery.Trade {
	return ibreportquery.Trade{
		Symbol:           symbol,
		UnderlyingSymbol: underlyingSymbol,
		AssetCategory:    assetCategory,
		ReportDate:       xtime.Date{Year: year, Month: month, Day: day},
		HasReportDate:    true,
		RealizedPnl:      decimal.RequireFromString(realizedPnl),
	}
}

func newDividend(symbol string, amount string, year int, month time.Month, day int) ibreportquery.Dividend {
	date := xtime.Date{Year: year, Month: month, Day: day}
	return ibreportquery.Dividend{
		Symbol:        symbol,
		Amount:        decimal.RequireFromString(amount),
		PayDate:       date,
		HasPayDate:    true,
		SettleDate:    date,
		HasSettleDate: true,
	}
}

func requireSymbolAmounts(t *testing.T, want []string, got []SymbolAmount) {
	gotStrings := make([]string, len(got))
	for i, symbolAmount := range got {
		gotStrings[i] = symbolAmount.Symbol + ":" + symbolAmount.Amount.String()
	}
	require.Equal(t, want, gotStrings)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func linkNames(links []Link) []string {
	names := make([]string, len(links))
	for i, link := range links {
		names[i] = link.Source + "->" + link.Target
	}
	return names
}
