// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportquery

import (
	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/standard/xstrings"
	"github.com/bufdev/ibreport/internal/standard/xtime"
)

// DividendHeaders returns the column headers for Dividend rows.
func DividendHeaders() []string {
	return []string{"SYMBOL", "CODE", "PAY_DATE", "CURRENCY", "AMOUNT", "DESCRIPTION"}
}

// DividendToRow converts a Dividend to a row matching DividendHeaders.
func DividendToRow(dividend Dividend) []string {
	return []string{
		dividend.Symbol,
		dividend.ActivityCode,
		dateString(dividend.PayDate, dividend.HasPayDate),
		dividend.Currency,
		dividend.Amount.String(),
		dividend.Description,
	}
}

// TradeHeaders returns the column headers for Trade rows.
func TradeHeaders() []string {
	return []string{"DATE", "SYMBOL", "UNDERLYING", "CATEGORY", "QUANTITY", "PRICE", "PROCEEDS", "COMMISSION", "REALIZED_PNL"}
}

// TradeToRow converts a Trade to a row matching TradeHeaders.
func TradeToRow(trade Trade) []string {
	return []string{
		dateString(trade.TradeDate, trade.HasTradeDate),
		trade.Symbol,
		trade.UnderlyingSymbol,
		trade.AssetCategory.String(),
		trade.Quantity.String(),
		trade.Price.String(),
		trade.Proceeds.String(),
		trade.Commission.String(),
		trade.RealizedPnl.String(),
	}
}

// RealizedGainHeaders returns the column headers for RealizedGain rows.
func RealizedGainHeaders() []string {
	return []string{"SYMBOL", "UNDERLYING", "CATEGORY", "REALIZED", "UNREALIZED", "TOTAL"}
}

// RealizedGainToRow converts a RealizedGain to a row matching RealizedGainHeaders.
func RealizedGainToRow(realizedGain RealizedGain) []string {
	return []string{
		realizedGain.Symbol,
		realizedGain.UnderlyingSymbol,
		realizedGain.AssetCategory.String(),
		realizedGain.Realized.String(),
		realizedGain.Unrealized.String(),
		realizedGain.Total.String(),
	}
}

// PositionHeaders returns the column headers for Position rows.
func PositionHeaders() []string {
	return []string{"SYMBOL", "CATEGORY", "CURRENCY", "QUANTITY", "MARK_PRICE", "VALUE", "COST_BASIS", "UNREALIZED_PNL"}
}

// PositionToRow converts a Position to a row matching PositionHeaders.
func PositionToRow(position Position) []string {
	return []string{
		position.Symbol,
		position.AssetCategory.String(),
		position.Currency,
		position.Quantity.String(),
		position.MarkPrice.String(),
		position.Value.String(),
		position.CostBasis.String(),
		position.UnrealizedPnl.String(),
	}
}

// CashReportEntryHeaders returns the column headers for CashReportEntry rows.
func CashReportEntryHeaders() []string {
	return []string{"CURRENCY", "STARTING_CASH", "DEPOSITS", "DIVIDENDS", "BROKER_INTEREST", "COMMISSIONS", "ENDING_CASH"}
}

// CashReportEntryToRow converts a CashReportEntry to a row matching CashReportEntryHeaders.
func CashReportEntryToRow(entry CashReportEntry) []string {
	return []string{
		entry.Currency,
		entry.StartingCash.String(),
		entry.Deposits.String(),
		entry.Dividends.String(),
		entry.BrokerInterest.String(),
		entry.Commissions.String(),
		entry.EndingCash.String(),
	}
}

// WithholdingTaxHeaders returns the column headers for WithholdingTax rows.
func WithholdingTaxHeaders() []string {
	return []string{"SYMBOL", "DATE", "AMOUNT", "DESCRIPTION"}
}

// WithholdingTaxToRow converts a WithholdingTax to a row matching WithholdingTaxHeaders.
func WithholdingTaxToRow(withholdingTax WithholdingTax) []string {
	return []string{
		withholdingTax.Symbol,
		dateString(withholdingTax.Date, withholdingTax.HasDate),
		withholdingTax.Amount.String(),
		withholdingTax.Description,
	}
}

// RecordsToRows converts the records of a section to rows in header order.
func RecordsToRows(headers []string, records []ibkrrecord.Record) [][]string {
	keys := make([]string, len(headers))
	for i, header := range headers {
		keys[i] = xstrings.ToLowerCamel(header)
	}
	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(keys))
		for j, key := range keys {
			row[j] = record.Get(key).String()
		}
		rows[i] = row
	}
	return rows
}

// *** PRIVATE ***

func dateString(date xtime.Date, ok bool) string {
	if !ok {
		return ""
	}
	return date.String()
}
