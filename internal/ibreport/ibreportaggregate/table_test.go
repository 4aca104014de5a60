// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportaggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToRow(t *testing.T) {
	t.Parallel()
	require.Equal(
		t,
		[]string{"NKE", "333.30"},
		SymbolAmountToRow(SymbolAmount{Symbol: "NKE", Amount: decimal.RequireFromString("333.3")}),
	)
	require.Equal(
		t,
		[]string{"NKE", "0.00", "149.30", "184.00", "333.30"},
		CategoryBreakdownToRow(
			CategoryBreakdown{
				Symbol:    "NKE",
				Options:   decimal.RequireFromString("149.3"),
				Dividends: decimal.NewFromInt(184),
			},
		),
	)
	require.Equal(
		t,
		[]string{"June", "2973.50", "$2,973.50", "true"},
		MonthlyTotalToRow(
			MonthlyTotal{
				Month:     time.June,
				Amount:    decimal.RequireFromString("2973.5"),
				Formatted: "$2,973.50",
				HasData:   true,
			},
		),
	)
	require.Equal(
		t,
		[]string{"Mar 2025", "184.00"},
		MonthAmountToRow(MonthAmount{Year: 2025, Month: time.March, Label: "Mar 2025", Amount: decimal.NewFromInt(184)}),
	)
	require.Equal(
		t,
		[]string{"interests", "total", "22.34"},
		LinkToRow(Link{Source: NodeInterests, Target: NodeTotal, Value: decimal.RequireFromString("22.34")}),
	)
	require.Len(t, LinkHeaders(), 3)
	require.Len(t, MonthAmountHeaders(), 2)
	require.Len(t, MonthlyTotalHeaders(), 4)
	require.Len(t, CategoryBreakdownHeaders(), 5)
	require.Len(t, SymbolAmountHeaders(), 2)
}
