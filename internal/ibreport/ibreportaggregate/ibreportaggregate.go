// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportaggregate derives per-symbol, per-category, and per-month aggregates from
// typed query results.
//
// All functions are pure. Realized trade gains only count trades that have a report date
// and a non-zero realized P/L, and are attributed to the underlying symbol so that options
// roll up into the stock they are written on.
package ibreportaggregate

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/shopspring/decimal"
)

const (
	// OtherSymbol is the symbol that TopWithOther aggregates the remaining symbols under.
	OtherSymbol = "Other"

	// NodeTotal is the sink node of every Flow.
	NodeTotal = "total"
	// NodeInterests is the broker interest node of the income Flow.
	NodeInterests = "interests"
	// NodeDividends is the dividends node.
	NodeDividends = "dividends"
	// NodeRealizedGainsFromTrades is the realized trade gains node of the income Flow.
	NodeRealizedGainsFromTrades = "realizedGainsFromTrades"
	// NodeStocks is the stocks node of the category Flow.
	NodeStocks = "stocks"
	// NodeOptions is the options node of the category Flow.
	NodeOptions = "options"

	monthLabelLayout = "Jan 2006"
)

// DefaultTradeCategories are the asset categories whose realized gains are aggregated by default.
var DefaultTradeCategories = []ibreportquery.AssetCategory{
	ibreportquery.AssetCategoryStocks,
	ibreportquery.AssetCategoryOptions,
}

// SymbolAmount is an amount attributed to a symbol.
type SymbolAmount struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryBreakdown is the realized income of a symbol split by category.
type CategoryBreakdown struct {
	Symbol    string          `json:"symbol"`
	Stocks    decimal.Decimal `json:"stocks"`
	Options   decimal.Decimal `json:"options"`
	Dividends decimal.Decimal `json:"dividends"`
}

// Total returns the sum of all categories.
func (c CategoryBreakdown) Total() decimal.Decimal {
	return c.Stocks.Add(c.Options).Add(c.Dividends)
}

// MonthlyTotal is the realized income of a calendar month.
type MonthlyTotal struct {
	Month time.Month `json:"month"`
	// Amount is the realized trade P/L plus dividends, rounded to two places.
	Amount decimal.Decimal `json:"amount"`
	// Formatted is Amount formatted in the requested currency, such as "$1,234.50".
	Formatted string `json:"formatted"`
	// HasData is true if any realized trade fell in the month.
	HasData bool `json:"has_data"`
}

// MonthAmount is an amount for a single year and month.
type MonthAmount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Label is the month in "Jan 2006" form.
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Flow is a set of weighted links between named nodes, suitable for a Sankey diagram.
type Flow struct {
	Nodes []string `json:"nodes"`
	Links []Link   `json:"links"`
}

// Link is a weighted edge of a Flow.
type Link struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

// DividendsBySymbol sums dividends per symbol, largest first.
func DividendsBySymbol(dividends []ibreportquery.Dividend) []SymbolAmount {
	sums := newSymbolSums()
	for _, dividend := range dividends {
		sums.add(dividend.Symbol, dividend.Amount)
	}
	return sums.sortedByAmount()
}

// TradeGainsBySymbol sums realized trade P/L per underlying symbol, largest first.
//
// Only trades in the given categories count. If no categories are given,
// DefaultTradeCategories is used.
func TradeGainsBySymbol(trades []ibreportquery.Trade, categories ...ibreportquery.AssetCategory) []SymbolAmount {
	if len(categories) == 0 {
		categories = DefaultTradeCategories
	}
	sums := newSymbolSums()
	for _, trade := range trades {
		if !isRealized(trade) || !slices.Contains(categories, trade.AssetCategory) {
			continue
		}
		sums.add(trade.UnderlyingSymbol, trade.RealizedPnl)
	}
	return sums.sortedByAmount()
}

// NetDividendsBySymbol sums dividends and withholding taxes per symbol, largest first.
func NetDividendsBySymbol(dividends []ibreportquery.Dividend, taxes []ibreportquery.WithholdingTax) []SymbolAmount {
	sums := newSymbolSums()
	for _, dividend := range dividends {
		sums.add(dividend.Symbol, dividend.Amount)
	}
	for _, tax := range taxes {
		sums.add(tax.Symbol, tax.Amount)
	}
	return sums.sortedByAmount()
}

// CombineBySymbol sums the amounts of every list per symbol, largest first.
func CombineBySymbol(lists ...[]SymbolAmount) []SymbolAmount {
	sums := newSymbolSums()
	for _, list := range lists {
		for _, symbolAmount := range list {
			sums.add(symbolAmount.Symbol, symbolAmount.Amount)
		}
	}
	return sums.sortedByAmount()
}

// TopSymbols returns the n largest amounts.
func TopSymbols(amounts []SymbolAmount, n int) []SymbolAmount {
	sorted := sortByAmount(amounts)
	if n < 0 || n >= len(sorted) {
		return sorted
	}
	return sorted[:n]
}

// TopWithOther returns the n largest amounts followed by the sum of the rest under OtherSymbol.
//
// The OtherSymbol entry is only present if there is at least one remaining amount.
func TopWithOther(amounts []SymbolAmount, n int) []SymbolAmount {
	sorted := sortByAmount(amounts)
	if n < 0 || n >= len(sorted) {
		return sorted
	}
	other := decimal.Zero
	for _, symbolAmount := range sorted[n:] {
		other = other.Add(symbolAmount.Amount)
	}
	return append(sorted[:n:n], SymbolAmount{Symbol: OtherSymbol, Amount: other})
}

// GainsByCategory splits realized income per symbol into stocks, options, and dividends,
// largest total first.
func GainsByCategory(trades []ibreportquery.Trade, dividends []ibreportquery.Dividend) []CategoryBreakdown {
	symbolToBreakdown := make(map[string]*CategoryBreakdown)
	get := func(symbol string) *CategoryBreakdown {
		breakdown, ok := symbolToBreakdown[symbol]
		if !ok {
			breakdown = &CategoryBreakdown{Symbol: symbol}
			symbolToBreakdown[symbol] = breakdown
		}
		return breakdown
	}
	for _, symbolAmount := range TradeGainsBySymbol(trades, ibreportquery.AssetCategoryStocks) {
		breakdown := get(symbolAmount.Symbol)
		breakdown.Stocks = breakdown.Stocks.Add(symbolAmount.Amount)
	}
	for _, symbolAmount := range TradeGainsBySymbol(trades, ibreportquery.AssetCategoryOptions) {
		breakdown := get(symbolAmount.Symbol)
		breakdown.Options = breakdown.Options.Add(symbolAmount.Amount)
	}
	for _, symbolAmount := range DividendsBySymbol(dividends) {
		breakdown := get(symbolAmount.Symbol)
		breakdown.Dividends = breakdown.Dividends.Add(symbolAmount.Amount)
	}
	breakdowns := make([]CategoryBreakdown, 0, len(symbolToBreakdown))
	for _, breakdown := range symbolToBreakdown {
		breakdowns = append(breakdowns, *breakdown)
	}
	slices.SortFunc(
		breakdowns,
		func(a CategoryBreakdown, b CategoryBreakdown) int {
			if c := b.Total().Cmp(a.Total()); c != 0 {
				return c
			}
			return cmp.Compare(a.Symbol, b.Symbol)
		},
	)
	return breakdowns
}

// MonthlyTotals returns the realized income of each calendar month, January first.
//
// Realized trade P/L is attributed to the month of the report date, and dividends to the
// month of the settle date. Years are not distinguished. The currency is an ISO 4217 code.
func MonthlyTotals(trades []ibreportquery.Trade, dividends []ibreportquery.Dividend, currency string) ([]MonthlyTotal, error) {
	if money.GetCurrency(currency) == nil {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}
	monthlyTotals := make([]MonthlyTotal, 12)
	for i := range monthlyTotals {
		monthlyTotals[i].Month = time.Month(i + 1)
		monthlyTotals[i].Amount = decimal.Zero
	}
	for _, trade := range trades {
		if !isRealized(trade) {
			continue
		}
		monthlyTotal := &monthlyTotals[trade.ReportDate.Month-1]
		monthlyTotal.Amount = monthlyTotal.Amount.Add(trade.RealizedPnl)
		monthlyTotal.HasData = true
	}
	for _, dividend := range dividends {
		if !dividend.HasSettleDate {
			continue
		}
		monthlyTotal := &monthlyTotals[dividend.SettleDate.Month-1]
		monthlyTotal.Amount = monthlyTotal.Amount.Add(dividend.Amount)
	}
	for i := range monthlyTotals {
		monthlyTotals[i].Amount = monthlyTotals[i].Amount.Round(2)
		formatted, err := FormatMoney(monthlyTotals[i].Amount, currency)
		if err != nil {
			return nil, err
		}
		monthlyTotals[i].Formatted = formatted
	}
	return monthlyTotals, nil
}

// DividendsByMonth sums dividends per year and month of the settle date, in chronological order.
func DividendsByMonth(dividends []ibreportquery.Dividend) []MonthAmount {
	type yearMonth struct {
		year  int
		month time.Month
	}
	sums := make(map[yearMonth]decimal.Decimal)
	for _, dividend := range dividends {
		if !dividend.HasSettleDate {
			continue
		}
		key := yearMonth{year: dividend.SettleDate.Year, month: dividend.SettleDate.Month}
		sums[key] = sums[key].Add(dividend.Amount)
	}
	monthAmounts := make([]MonthAmount, 0, len(sums))
	for key, amount := range sums {
		monthAmounts = append(
			monthAmounts,
			MonthAmount{
				Year:   key.year,
				Month:  key.month,
				Label:  time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLabelLayout),
				Amount: amount,
			},
		)
	}
	slices.SortFunc(
		monthAmounts,
		func(a MonthAmount, b MonthAmount) int {
			if c := cmp.Compare(a.Year, b.Year); c != 0 {
				return c
			}
			return cmp.Compare(a.Month, b.Month)
		},
	)
	return monthAmounts
}

// IncomeFlow returns the flow of broker interest, dividends, and realized trade gains into the total.
func IncomeFlow(brokerInterest decimal.Decimal, dividends []ibreportquery.Dividend, trades []ibreportquery.Trade) *Flow {
	dividendTotal := decimal.Zero
	for _, dividend := range dividends {
		dividendTotal = dividendTotal.Add(dividend.Amount)
	}
	tradeTotal := decimal.Zero
	for _, trade := range trades {
		if isRealized(trade) {
			tradeTotal = tradeTotal.Add(trade.RealizedPnl)
		}
	}
	return &Flow{
		Nodes: []string{NodeInterests, NodeDividends, NodeRealizedGainsFromTrades, NodeTotal},
		Links: []Link{
			{Source: NodeInterests, Target: NodeTotal, Value: brokerInterest},
			{Source: NodeDividends, Target: NodeTotal, Value: dividendTotal},
			{Source: NodeRealizedGainsFromTrades, Target: NodeTotal, Value: tradeTotal},
		},
	}
}

// SymbolFlow returns the flow of realized trade gains and dividends of each symbol into the total.
//
// Nodes and links are ordered by symbol.
func SymbolFlow(trades []ibreportquery.Trade, dividends []ibreportquery.Dividend) *Flow {
	totals := CombineBySymbol(TradeGainsBySymbol(trades), DividendsBySymbol(dividends))
	slices.SortFunc(totals, func(a SymbolAmount, b SymbolAmount) int { return cmp.Compare(a.Symbol, b.Symbol) })
	flow := &Flow{
		Nodes: make([]string, 0, len(totals)+1),
		Links: make([]Link, 0, len(totals)),
	}
	for _, total := range totals {
		flow.Nodes = append(flow.Nodes, total.Symbol)
		flow.Links = append(flow.Links, Link{Source: total.Symbol, Target: NodeTotal, Value: total.Amount})
	}
	flow.Nodes = append(flow.Nodes, NodeTotal)
	return flow
}

// CategoryFlow returns the flow of each symbol into the stocks, options, and dividends
// categories, and of each category into the total.
func CategoryFlow(trades []ibreportquery.Trade, dividends []ibreportquery.Dividend) *Flow {
	flow := &Flow{}
	seenNodes := make(map[string]struct{})
	var categoryLinks []Link
	for _, category := range []struct {
		node    string
		amounts []SymbolAmount
	}{
		{node: NodeStocks, amounts: TradeGainsBySymbol(trades, ibreportquery.AssetCategoryStocks)},
		{node: NodeOptions, amounts: TradeGainsBySymbol(trades, ibreportquery.AssetCategoryOptions)},
		{node: NodeDividends, amounts: DividendsBySymbol(dividends)},
	} {
		total := decimal.Zero
		for _, symbolAmount := range category.amounts {
			if _, ok := seenNodes[symbolAmount.Symbol]; !ok {
				seenNodes[symbolAmount.Symbol] = struct{}{}
				flow.Nodes = append(flow.Nodes, symbolAmount.Symbol)
			}
			flow.Links = append(flow.Links, Link{Source: symbolAmount.Symbol, Target: category.node, Value: symbolAmount.Amount})
			total = total.Add(symbolAmount.Amount)
		}
		categoryLinks = append(categoryLinks, Link{Source: category.node, Target: NodeTotal, Value: total})
	}
	flow.Nodes = append(flow.Nodes, NodeTotal, NodeStocks, NodeOptions, NodeDividends)
	flow.Links = append(flow.Links, categoryLinks...)
	return flow
}

// FormatMoney formats the amount in the currency, such as "$1,234.50" for USD.
//
// The amount is rounded to the minor unit of the currency.
func FormatMoney(amount decimal.Decimal, currency string) (string, error) {
	moneyCurrency := money.GetCurrency(currency)
	if moneyCurrency == nil {
		return "", fmt.Errorf("unknown currency %q", currency)
	}
	minorUnits := amount.Shift(int32(moneyCurrency.Fraction)).Round(0).IntPart()
	return money.New(minorUnits, moneyCurrency.Code).Display(), nil
}

// *** PRIVATE ***

func isRealized(trade ibreportquery.Trade) bool {
	return trade.HasReportDate && !trade.RealizedPnl.IsZero()
}

type symbolSums struct {
	symbolToAmount map[string]decimal.Decimal
}

func newSymbolSums() *symbolSums {
	return &symbolSums{
		symbolToAmount: make(map[string]decimal.Decimal),
	}
}

func (s *symbolSums) add(symbol string, amount decimal.Decimal) {
	if symbol == "" {
		return
	}
	s.symbolToAmount[symbol] = s.symbolToAmount[symbol].Add(amount)
}

func (s *symbolSums) sortedByAmount() []SymbolAmount {
	amounts := make([]SymbolAmount, 0, len(s.symbolToAmount))
	for symbol, amount := range s.symbolToAmount {
		amounts = append(amounts, SymbolAmount{Symbol: symbol, Amount: amount})
	}
	return sortByAmount(amounts)
}

func sortByAmount(amounts []SymbolAmount) []SymbolAmount {
	sorted := slices.Clone(amounts)
	slices.SortFunc(
		sorted,
		func(a SymbolAmount, b SymbolAmount) int {
			if c := b.Amount.Cmp(a.Amount); c != 0 {
				return c
			}
			return cmp.Compare(a.Symbol, b.Symbol)
		},
	)
	return sorted
}
