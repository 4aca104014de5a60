// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportquery

import (
	"strings"

	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// Dividend is a dividend or payment-in-lieu.
type Dividend struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Symbol is the paying symbol, or empty if the record does not name one.
	Symbol string
	// Description is the broker description of the payment.
	Description string
	// Currency is the payment currency.
	Currency string
	// ActivityCode is DIV or PIL for Flex Query exports, and DIV for Activity Statements.
	ActivityCode string
	// PayDate is the pay date, valid if HasPayDate is set.
	PayDate    xtime.Date
	HasPayDate bool
	// SettleDate is the settle date if present, falling back to PayDate.
	SettleDate    xtime.Date
	HasSettleDate bool
	// Amount is the amount paid.
	Amount decimal.Decimal
}

// Trade is a single execution.
type Trade struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Symbol is the traded symbol.
	Symbol string
	// UnderlyingSymbol is the underlying symbol for derivatives, and Symbol otherwise.
	UnderlyingSymbol string
	// Description is the instrument description.
	Description string
	// Currency is the trade currency.
	Currency string
	// AssetClass is the asset class as it appears in the export.
	AssetClass string
	// AssetCategory is the normalized AssetClass.
	AssetCategory AssetCategory
	// TradeDate is the trade date, valid if HasTradeDate is set.
	TradeDate    xtime.Date
	HasTradeDate bool
	// ReportDate is the report date, falling back to TradeDate. Valid if HasReportDate is set.
	ReportDate    xtime.Date
	HasReportDate bool
	// Quantity is positive for buys and negative for sells.
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Proceeds    decimal.Decimal
	Commission  decimal.Decimal
	RealizedPnl decimal.Decimal
}

// RealizedGain is a per-symbol performance summary.
type RealizedGain struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Symbol is the symbol.
	Symbol string
	// UnderlyingSymbol is the underlying symbol for derivatives, and Symbol otherwise.
	UnderlyingSymbol string
	// Description is the instrument description.
	Description string
	// AssetClass is the asset class as it appears in the export.
	AssetClass string
	// AssetCategory is the normalized AssetClass.
	AssetCategory AssetCategory
	Realized      decimal.Decimal
	Unrealized    decimal.Decimal
	Total         decimal.Decimal
}

// Position is an open position.
type Position struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Symbol is the symbol.
	Symbol string
	// Description is the instrument description.
	Description string
	// Currency is the position currency.
	Currency string
	// AssetClass is the asset class as it appears in the export.
	AssetClass string
	// AssetCategory is the normalized AssetClass.
	AssetCategory AssetCategory
	Quantity      decimal.Decimal
	MarkPrice     decimal.Decimal
	Value         decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedPnl decimal.Decimal
}

// CashReportEntry is a cash report row for one currency, or for the base summary.
type CashReportEntry struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Currency is the currency, or BASE_SUMMARY for the summary row of a Flex Query export.
	Currency       string
	StartingCash   decimal.Decimal
	EndingCash     decimal.Decimal
	Deposits       decimal.Decimal
	Dividends      decimal.Decimal
	BrokerInterest decimal.Decimal
	Commissions    decimal.Decimal
}

// IsBaseSummary returns true if the entry is the base currency summary.
func (c CashReportEntry) IsBaseSummary() bool {
	return c.Currency == baseSummaryCurrency
}

// WithholdingTax is a tax withheld on a dividend.
type WithholdingTax struct {
	// Record is the source record.
	Record ibkrrecord.Record
	// Symbol is the symbol of the dividend the tax was withheld from.
	Symbol string
	// Description is the broker description.
	Description string
	// Date is the date, valid if HasDate is set.
	Date    xtime.Date
	HasDate bool
	// Amount is the amount withheld, usually negative.
	Amount decimal.Decimal
}

// *** PRIVATE ***

func newDividend(record ibkrrecord.Record) (Dividend, bool) {
	amount, ok := record.Number("amount", "grossAmount", "credit")
	if !ok {
		return Dividend{}, false
	}
	description := record.String("description")
	symbol := strings.TrimSpace(record.String("symbol"))
	if symbol == "" {
		symbol = symbolFromDescription(description)
	}
	activityCode := record.String("activityCode")
	if activityCode == "" {
		activityCode = "DIV"
	}
	payDate, hasPayDate := record.Date("payDate", "date")
	settleDate, hasSettleDate := record.Date("settleDate", "payDate", "date")
	return Dividend{
		Record:        record,
		Symbol:        symbol,
		Description:   description,
		Currency:      record.String("currencyPrimary", "currency"),
		ActivityCode:  activityCode,
		PayDate:       payDate,
		HasPayDate:    hasPayDate,
		SettleDate:    settleDate,
		HasSettleDate: hasSettleDate,
		Amount:        amount,
	}, true
}

func newTrade(record ibkrrecord.Record) (Trade, bool) {
	symbol := strings.TrimSpace(record.String("symbol"))
	if symbol == "" {
		return Trade{}, false
	}
	assetClass := record.String("assetClass", "assetCategory")
	tradeDate, hasTradeDate := record.Date("tradeDate", "dateTime")
	reportDate, hasReportDate := record.Date("reportDate", "tradeDate", "dateTime")
	quantity, _ := record.Number("quantity")
	price, _ := record.Number("tradePrice", "tPrice")
	proceeds, _ := record.Number("proceeds")
	commission, _ := record.Number("ibCommission", "commFee")
	realizedPnl, _ := record.Number("fifoPnlRealized", "realizedPl")
	return Trade{
		Record:           record,
		Symbol:           symbol,
		UnderlyingSymbol: underlyingSymbol(record, symbol),
		Description:      record.String("description"),
		Currency:         record.String("currencyPrimary", "currency"),
		AssetClass:       assetClass,
		AssetCategory:    ParseAssetCategory(assetClass),
		TradeDate:        tradeDate,
		HasTradeDate:     hasTradeDate,
		ReportDate:       reportDate,
		HasReportDate:    hasReportDate,
		Quantity:         quantity,
		Price:            price,
		Proceeds:         proceeds,
		Commission:       commission,
		RealizedPnl:      realizedPnl,
	}, true
}

func newRealizedGain(record ibkrrecord.Record) (RealizedGain, bool) {
	symbol := strings.TrimSpace(record.String("symbol"))
	if symbol == "" {
		return RealizedGain{}, false
	}
	assetClass := record.String("assetClass", "assetCategory")
	realized, _ := record.Number("totalRealizedPnl", "realizedTotal")
	unrealized, _ := record.Number("totalUnrealizedPnl", "unrealizedTotal")
	total, _ := record.Number("totalFifoPnl", "total")
	return RealizedGain{
		Record:           record,
		Symbol:           symbol,
		UnderlyingSymbol: underlyingSymbol(record, symbol),
		Description:      record.String("description"),
		AssetClass:       assetClass,
		AssetCategory:    ParseAssetCategory(assetClass),
		Realized:         realized,
		Unrealized:       unrealized,
		Total:            total,
	}, true
}

func newPosition(record ibkrrecord.Record) (Position, bool) {
	symbol := strings.TrimSpace(record.String("symbol"))
	if symbol == "" {
		return Position{}, false
	}
	assetClass := record.String("assetClass", "assetCategory")
	quantity, _ := record.Number("position", "quantity")
	markPrice, _ := record.Number("markPrice", "closePrice")
	value, _ := record.Number("positionValue", "value")
	costBasis, _ := record.Number("costBasisMoney", "costBasis")
	unrealizedPnl, _ := record.Number("fifoPnlUnrealized", "unrealizedPl")
	return Position{
		Record:        record,
		Symbol:        symbol,
		Description:   record.String("description"),
		Currency:      record.String("currencyPrimary", "currency"),
		AssetClass:    assetClass,
		AssetCategory: ParseAssetCategory(assetClass),
		Quantity:      quantity,
		MarkPrice:     markPrice,
		Value:         value,
		CostBasis:     costBasis,
		UnrealizedPnl: unrealizedPnl,
	}, true
}

func newCashReportEntry(record ibkrrecord.Record) (CashReportEntry, bool) {
	currency := strings.TrimSpace(record.String("currencyPrimary", "currency"))
	if currency == "" {
		return CashReportEntry{}, false
	}
	startingCash, _ := record.Number("startingCash")
	endingCash, _ := record.Number("endingCash")
	deposits, _ := record.Number("deposits")
	dividends, _ := record.Number("dividends")
	brokerInterest, _ := record.Number("brokerInterest")
	commissions, _ := record.Number("commissions")
	return CashReportEntry{
		Record:         record,
		Currency:       currency,
		StartingCash:   startingCash,
		EndingCash:     endingCash,
		Deposits:       deposits,
		Dividends:      dividends,
		BrokerInterest: brokerInterest,
		Commissions:    commissions,
	}, true
}

func newWithholdingTax(record ibkrrecord.Record) (WithholdingTax, bool) {
	amount, ok := record.Number("amount", "debit")
	if !ok {
		return WithholdingTax{}, false
	}
	description := record.String("description")
	symbol := strings.TrimSpace(record.String("symbol"))
	if symbol == "" {
		symbol = symbolFromDescription(description)
	}
	if symbol == "" {
		return WithholdingTax{}, false
	}
	date, hasDate := record.Date("date", "payDate")
	return WithholdingTax{
		Record:      record,
		Symbol:      symbol,
		Description: description,
		Date:        date,
		HasDate:     hasDate,
		Amount:      amount,
	}, true
}

// symbolFromDescription returns the symbol prefix of an Activity Statement description.
//
// "NKE(US6541061031) Cash Dividend" returns "NKE".
func symbolFromDescription(description string) string {
	symbol, _, ok := strings.Cut(description, "(")
	if !ok {
		return ""
	}
	return strings.TrimSpace(symbol)
}

// underlyingSymbol returns the underlying symbol of the record, falling back to the first
// word of the symbol, so "NKE 20JUN25 70 P" returns "NKE".
func underlyingSymbol(record ibkrrecord.Record, symbol string) string {
	if underlying := strings.TrimSpace(record.String("underlyingSymbol")); underlying != "" {
		return underlying
	}
	if fields := strings.Fields(symbol); len(fields) > 0 {
		return fields[0]
	}
	return symbol
}
