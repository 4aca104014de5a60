// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibkrrecord normalizes raw IBKR CSV rows into typed records.
//
// Every header is turned into a lowerCamelCase key, and every cell is coerced into a Value:
// a calendar date for date columns, a decimal number for known numeric columns, null for
// empty cells, and the raw string otherwise.
package ibkrrecord

import (
	"strings"
	"time"

	"github.com/bufdev/ibreport/internal/standard/xstrings"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// defaultNumericFields are the keys coerced to numbers.
//
// Detection is by key only. Numeric-looking identifiers such as account IDs, conids, and
// CUSIPs are not in this list and stay strings.
var defaultNumericFields = []string{
	// Activity Statement trades, positions, and cash sections.
	"amount",
	"basis",
	"cPrice",
	"closePrice",
	"commFee",
	"commInUsd",
	"costAdj",
	"costBasis",
	"costPrice",
	"mtmInUsd",
	"mtmPl",
	"proceeds",
	"quantity",
	"realizedPl",
	"tPrice",
	"unrealizedPl",
	"value",
	// Activity Statement performance summaries.
	"realizedLtLoss",
	"realizedLtProfit",
	"realizedStLoss",
	"realizedStProfit",
	"realizedTotal",
	"total",
	"unrealizedLtLoss",
	"unrealizedLtProfit",
	"unrealizedStLoss",
	"unrealizedStProfit",
	"unrealizedTotal",
	// Flex Query trades.
	"cost",
	"fifoPnlRealized",
	"fxRateToBase",
	"ibCommission",
	"mtmPnl",
	"netCash",
	"tradeMoney",
	"tradePrice",
	// Flex Query statement of funds, dividends, and withholding tax.
	"balance",
	"debit",
	"credit",
	"fee",
	"grossAmount",
	"grossRate",
	"netAmount",
	"tax",
	// Flex Query performance summaries.
	"realizedLongTermLoss",
	"realizedLongTermProfit",
	"realizedShortTermLoss",
	"realizedShortTermProfit",
	"totalFifoPnl",
	"totalRealizedPnl",
	"totalUnrealizedPnl",
	"unrealizedLoss",
	"unrealizedProfit",
	// Flex Query positions.
	"costBasisMoney",
	"costBasisPrice",
	"fifoPnlUnrealized",
	"markPrice",
	"position",
	"positionValue",
	// Flex Query cash report.
	"brokerInterest",
	"cash",
	"commissions",
	"deposits",
	"dividends",
	"endingCash",
	"startingCash",
	"withdrawals",
	"withholdingTax",
}

// DefaultNumericFields returns the keys coerced to numbers by default.
func DefaultNumericFields() []string {
	return append([]string(nil), defaultNumericFields...)
}

// Normalizer turns raw rows into Records.
type Normalizer struct {
	numericFields map[string]struct{}
}

// NewNormalizer returns a new Normalizer.
func NewNormalizer(options ...NormalizerOption) *Normalizer {
	normalizerOptions := &normalizerOptions{}
	for _, option := range options {
		option(normalizerOptions)
	}
	numericFields := make(map[string]struct{}, len(defaultNumericFields)+len(normalizerOptions.numericFields))
	for _, field := range defaultNumericFields {
		numericFields[field] = struct{}{}
	}
	for _, field := range normalizerOptions.numericFields {
		numericFields[xstrings.ToLowerCamel(field)] = struct{}{}
	}
	return &Normalizer{
		numericFields: numericFields,
	}
}

// NormalizerOption is an option for a new Normalizer.
type NormalizerOption func(*normalizerOptions)

// NormalizerWithNumericFields adds fields to coerce to numbers.
//
// Fields may be given as headers or keys, they are camelCased before use.
func NormalizerWithNumericFields(fields ...string) NormalizerOption {
	return func(normalizerOptions *normalizerOptions) {
		normalizerOptions.numericFields = append(normalizerOptions.numericFields, fields...)
	}
}

// Normalize turns a raw row into a Record.
//
// The key set of the returned Record is exactly the camelCased headers. Cells missing from
// a short row are null, and cells beyond the headers are ignored. If two headers have the
// same key, the later column wins.
func (n *Normalizer) Normalize(headers []string, row []string) Record {
	values := make(map[string]Value, len(headers))
	for i, header := range headers {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		values[xstrings.ToLowerCamel(header)] = n.Coerce(header, cell)
	}
	return Record{values: values}
}

// Coerce turns a single raw cell into a Value.
//
// Coerce never fails: cells that cannot be coerced are kept as strings.
func (n *Normalizer) Coerce(header string, cell string) Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return NullValue()
	}
	if strings.Contains(strings.ToLower(header), "date") {
		if date, ok := xtime.ParseCompact(trimmed); ok {
			return DateValue(date)
		}
		return StringValue(cell)
	}
	if n.IsNumericField(xstrings.ToLowerCamel(header)) {
		if number, ok := ParseNumber(trimmed); ok {
			return NumberValue(number)
		}
	}
	return StringValue(cell)
}

// IsNumericField returns true if values for the key are coerced to numbers.
func (n *Normalizer) IsNumericField(key string) bool {
	_, ok := n.numericFields[key]
	return ok
}

// ParseNumber parses a decimal number, removing thousands separators first.
//
// "1,234.50" parses as 1234.5. Empty strings do not parse.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	number, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return number, true
}

// ParseDate parses a date in any of the forms used by IBKR exports.
//
// Accepted forms are YYYYMMDD, YYYY-MM-DD, "YYYY-MM-DD, HH:MM:SS", and "YYYYMMDD;HHMMSS".
func ParseDate(s string) (xtime.Date, bool) {
	s = strings.TrimSpace(s)
	if date, ok := xtime.ParseCompact(s); ok {
		return date, true
	}
	if datePart, _, ok := strings.Cut(s, ";"); ok {
		return xtime.ParseCompact(datePart)
	}
	if datePart, _, ok := strings.Cut(s, ","); ok {
		s = strings.TrimSpace(datePart)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return xtime.Date{}, false
	}
	return xtime.TimeToDate(t), true
}

// *** PRIVATE ***

type normalizerOptions struct {
	numericFields []string
}
