// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportstore

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bufdev/ibreport/internal/ibreport/ibreportaggregate"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportparse"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrows"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	flexFilePath     = "../ibreportparse/testdata/flex.csv"
	activityFilePath = "../ibreportparse/testdata/activity.csv"
)

func TestEmptyStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	require.False(t, store.IsDataLoaded())
	_, ok := store.LastUpdated()
	require.False(t, ok)

	for name, query := range map[string]func() error{
		"snapshot":           func() error { _, err := store.Snapshot(); return err },
		"dividends":          func() error { _, err := store.Dividends(ctx, nil); return err },
		"trades":             func() error { _, err := store.Trades(ctx, nil); return err },
		"realized_gains":     func() error { _, err := store.RealizedGains(ctx, nil); return err },
		"positions":          func() error { _, err := store.Positions(ctx, nil); return err },
		"cash_report":        func() error { _, err := store.CashReport(ctx); return err },
		"withholding_taxes":  func() error { _, err := store.WithholdingTaxes(ctx, nil); return err },
		"data_sections":      func() error { _, err := store.DataSections(ctx); return err },
		"section_data":       func() error { _, err := store.SectionData(ctx, "Trades"); return err },
		"totals":             func() error { _, err := store.Totals(ctx); return err },
		"monthly_totals":     func() error { _, err := store.MonthlyTotals(ctx, "USD"); return err },
		"dividends_by_month": func() error { _, err := store.DividendsByMonth(ctx); return err },
		"top_performers":     func() error { _, err := store.TopPerformers(ctx, 10); return err },
		"gains_by_category":  func() error { _, err := store.GainsByCategory(ctx); return err },
		"income_flow":        func() error { _, err := store.IncomeFlow(ctx); return err },
		"symbol_flow":        func() error { _, err := store.SymbolFlow(ctx); return err },
		"category_flow":      func() error { _, err := store.CategoryFlow(ctx); return err },
	} {
		require.ErrorIs(t, query(), ErrNoDataLoaded, name)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loadedAt := time.Date(2026, time.January, 2, 9, 30, 0, 0, time.UTC)
	store := newTestStore(StoreWithNow(func() time.Time { return loadedAt }))

	snapshot, err := store.LoadFile(ctx, flexFilePath)
	require.NoError(t, err)
	require.True(t, store.IsDataLoaded())
	require.NotEmpty(t, snapshot.Version())
	require.Equal(t, loadedAt, snapshot.LoadedAt())
	require.Equal(t, ibkrsection.FormatDelimited, snapshot.Format())
	lastUpdated, ok := store.LastUpdated()
	require.True(t, ok)
	require.Equal(t, loadedAt, lastUpdated)

	dividends, err := store.Dividends(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 3)
	trades, err := store.Trades(ctx, &ibreportquery.Filter{Symbols: []string{"aapl"}})
	require.NoError(t, err)
	require.Len(t, trades, 2)
	gains, err := store.RealizedGains(ctx, nil)
	require.NoError(t, err)
	require.Len(t, gains, 3)
	positions, err := store.Positions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	cashReport, err := store.CashReport(ctx)
	require.NoError(t, err)
	require.Len(t, cashReport, 2)
	taxes, err := store.WithholdingTaxes(ctx, nil)
	require.NoError(t, err)
	require.Len(t, taxes, 1)

	sectionInfos, err := store.DataSections(ctx)
	require.NoError(t, err)
	require.Equal(
		t,
		[]SectionInfo{
			{Name: "Statement of Funds", Key: "statementOfFunds", Kind: ibreportquery.KindOf("statementOfFunds"), RecordCount: 5},
			{Name: "Trades", Key: "trades", Kind: ibreportquery.KindOf("trades"), RecordCount: 5},
			{
				Name:        "Realized & Unrealized Performance Summary in Base",
				Key:         "realizedUnrealizedPerformanceSummaryInBase",
				Kind:        ibreportquery.KindOf("realizedUnrealizedPerformanceSummaryInBase"),
				RecordCount: 3,
			},
			{Name: "Position (Trade Date Basis)", Key: "positionTradeDateBasis", Kind: ibreportquery.KindOf("positionTradeDateBasis"), RecordCount: 1},
			{Name: "Cash Report (Trade Date Basis)", Key: "cashReportTradeDateBasis", Kind: ibreportquery.KindOf("cashReportTradeDateBasis"), RecordCount: 2},
		},
		sectionInfos,
	)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()

	_, err := store.LoadFile(ctx, "testdata/does-not-exist.csv")
	require.ErrorIs(t, err, fs.ErrNotExist)
	var readError *ibkrrows.ReadError
	require.True(t, errors.As(err, &readError))
	require.Equal(t, "testdata/does-not-exist.csv", readError.Path)

	for _, data := range []string{
		"Trades,Header,Symbol\nTrades,Data,\xff\n",
		"Trades,Header,Symbol\nTrades,Data,\"AAPL\"x\n",
	} {
		_, err = store.LoadReader(ctx, strings.NewReader(data))
		readError = nil
		require.True(t, errors.As(err, &readError), data)
		var parseError *ibreportparse.ParseError
		require.False(t, errors.As(err, &parseError), data)
	}

	_, err = store.LoadReader(ctx, strings.NewReader("BOS,TRNT,Trades\nEOS,TRNT\n"))
	var parseError *ibreportparse.ParseError
	require.True(t, errors.As(err, &parseError))
	require.False(t, store.IsDataLoaded())
}

func TestFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	snapshot, err := store.LoadFile(ctx, activityFilePath)
	require.NoError(t, err)

	_, err = store.Load(
		ctx,
		[][]string{
			{"BOS", "TRNT", "Trades"},
			{"EOS", "TRNT", "0"},
		},
	)
	require.ErrorContains(t, err, "has no header row")
	current, err := store.Snapshot()
	require.NoError(t, err)
	require.Same(t, snapshot, current)
	dividends, err := store.Dividends(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 2)
}

func TestSectionData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	_, err := store.LoadFile(ctx, flexFilePath)
	require.NoError(t, err)

	for _, name := range []string{"Statement of Funds", "statementOfFunds", "statement of funds"} {
		section, err := store.SectionData(ctx, name)
		require.NoError(t, err, name)
		require.Equal(t, "statementOfFunds", section.Key, name)
		require.Len(t, section.Records, 5, name)
	}
	_, err = store.SectionData(ctx, "Mark-to-Market Performance Summary")
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSectionDataIsACopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	_, err := store.LoadFile(ctx, activityFilePath)
	require.NoError(t, err)

	section, err := store.SectionData(ctx, "Dividends")
	require.NoError(t, err)
	require.NotEmpty(t, section.Records)
	for i := range section.Records {
		section.Records[i] = ibkrrecord.Record{}
	}
	section.Headers[0] = "Overwritten"
	section.Records = nil

	dividends, err := store.Dividends(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 2)
	section, err = store.SectionData(ctx, "Dividends")
	require.NoError(t, err)
	require.Equal(t, "Currency", section.Headers[0])
	require.NotEmpty(t, section.Records)
}

func TestTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	_, err := store.LoadFile(ctx, activityFilePath)
	require.NoError(t, err)

	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	dividends, ok := totals["dividends"]
	require.True(t, ok)
	number, ok := dividends.Value.Number()
	require.True(t, ok)
	requireDecimal(t, "243", number)

	// The returned map and its totals are copies.
	delete(totals, "dividends")
	performance, ok := totals["realizedUnrealizedPerformanceSummary"]
	require.True(t, ok)
	require.Contains(t, performance.ByCategory, "stocks")
	delete(performance.ByCategory, "stocks")
	totals["withholdingTax"] = ibreportparse.Total{Value: ibkrrecord.StringValue("overwritten")}

	totals, err = store.Totals(ctx)
	require.NoError(t, err)
	require.Contains(t, totals, "dividends")
	require.Contains(t, totals["realizedUnrealizedPerformanceSummary"].ByCategory, "stocks")
	withholdingTax, ok := totals["withholdingTax"].Value.Number()
	require.True(t, ok)
	requireDecimal(t, "-36.45", withholdingTax)
}

func TestAggregates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	_, err := store.LoadFile(ctx, flexFilePath)
	require.NoError(t, err)

	monthlyTotals, err := store.MonthlyTotals(ctx, "USD")
	require.NoError(t, err)
	require.Len(t, monthlyTotals, 12)
	march := monthlyTotals[time.March-1]
	require.False(t, march.HasData)
	require.Equal(t, "$184.00", march.Formatted)
	june := monthlyTotals[time.June-1]
	require.True(t, june.HasData)
	requireDecimal(t, "2973.5", june.Amount)
	require.Equal(t, "$2,973.50", june.Formatted)
	require.Equal(t, "-$200.00", monthlyTotals[time.July-1].Formatted)
	_, err = store.MonthlyTotals(ctx, "ZZZ")
	require.Error(t, err)

	dividendsByMonth, err := store.DividendsByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, dividendsByMonth, 3)
	require.Equal(t, "Mar 2025", dividendsByMonth[0].Label)

	topPerformers, err := store.TopPerformers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, topPerformers, 2)
	require.Equal(t, "AAPL", topPerformers[0].Symbol)
	require.Equal(t, ibreportaggregate.OtherSymbol, topPerformers[1].Symbol)

	breakdowns, err := store.GainsByCategory(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, breakdowns)

	incomeFlow, err := store.IncomeFlow(ctx)
	require.NoError(t, err)
	require.Len(t, incomeFlow.Links, 3)
	requireDecimal(t, "22.34", incomeFlow.Links[0].Value)

	symbolFlow, err := store.SymbolFlow(ctx)
	require.NoError(t, err)
	require.Equal(t, ibreportaggregate.NodeTotal, symbolFlow.Nodes[len(symbolFlow.Nodes)-1])

	categoryFlow, err := store.CategoryFlow(ctx)
	require.NoError(t, err)
	require.Contains(t, categoryFlow.Nodes, ibreportaggregate.NodeOptions)
}

func TestAggregatesAreMemoizedPerSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	_, err := store.LoadFile(ctx, flexFilePath)
	require.NoError(t, err)

	first, err := store.IncomeFlow(ctx)
	require.NoError(t, err)
	second, err := store.IncomeFlow(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)

	_, err = store.LoadFile(ctx, activityFilePath)
	require.NoError(t, err)
	third, err := store.IncomeFlow(ctx)
	require.NoError(t, err)
	require.NotSame(t, first, third)

	store.Clear()
	require.False(t, store.IsDataLoaded())
	_, err = store.IncomeFlow(ctx)
	require.ErrorIs(t, err, ErrNoDataLoaded)
}

func TestConcurrentLoadAndQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore()
	data, err := os.ReadFile(flexFilePath)
	require.NoError(t, err)

	var waitGroup sync.WaitGroup
	for range 8 {
		waitGroup.Add(2)
		go func() {
			defer waitGroup.Done()
			_, _ = store.LoadReader(ctx, strings.NewReader(string(data)))
		}()
		go func() {
			defer waitGroup.Done()
			dividends, err := store.Dividends(ctx, nil)
			if err == nil && len(dividends) != 3 {
				t.Errorf("expected 3 dividends from a complete snapshot, got %d", len(dividends))
			}
		}()
	}
	waitGroup.Wait()
	dividends, err := store.Dividends(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dividends, 3)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newTestStore()
	_, err := store.Load(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	_, err = store.Dividends(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func newTestStore(options ...StoreOption) *Store {
	return NewStore(slog.New(slog.DiscardHandler), options...)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
