// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibreportparse

import (
	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
)

// sectionKeyToRequiredKey maps an Activity Statement section key to the record key that
// must be present for a row to be kept.
//
// These sections carry sub-total, total, and note rows that lack the key.
var sectionKeyToRequiredKey = map[string]string{
	"changeInDividendAccruals":             "date",
	"depositsWithdrawals":                  "date",
	"dividends":                            "date",
	"fees":                                 "date",
	"forexPlDetails":                       "dateTime",
	"realizedUnrealizedPerformanceSummary": "assetCategory",
	"withholdingTax":                       "date",
}

func includeRecord(sectionKey string, record ibkrrecord.Record) bool {
	requiredKey, ok := sectionKeyToRequiredKey[sectionKey]
	if !ok {
		return true
	}
	return record.Has(requiredKey)
}
