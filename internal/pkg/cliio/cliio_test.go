// Copyright 2026 Peter Edge
//
// All rights reserved.

package cliio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for input, expected := range map[string]Format{
		"table": FormatTable,
		"CSV":   FormatCSV,
		"json":  FormatJSON,
		"Xlsx":  FormatXLSX,
	} {
		format, err := ParseFormat(input)
		require.NoError(t, err)
		require.Equal(t, expected, format)
	}
	_, err := ParseFormat("yaml")
	require.ErrorContains(t, err, `unknown format "yaml"`)
}

func TestWriteTable(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	require.NoError(t, WriteTable(&buffer, []string{"SYMBOL", "AMOUNT"}, [][]string{{"NKE", "184"}, {"DG", "59"}}))
	require.Equal(t, "SYMBOL  AMOUNT\nNKE     184\nDG      59\n", buffer.String())
}

func TestWriteCSVRecords(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	require.NoError(t, WriteCSVRecords(&buffer, [][]string{{"SYMBOL", "DESCRIPTION"}, {"MSFT", "MICROSOFT, CORP"}}))
	require.Equal(t, "SYMBOL,DESCRIPTION\nMSFT,\"MICROSOFT, CORP\"\n", buffer.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	type symbolAmount struct {
		Symbol string `json:"symbol"`
	}
	var buffer bytes.Buffer
	require.NoError(t, WriteJSON(&buffer, symbolAmount{Symbol: "NKE"}, symbolAmount{Symbol: "DG"}))
	require.Equal(t, "{\"symbol\":\"NKE\"}\n{\"symbol\":\"DG\"}\n", buffer.String())
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	require.NoError(
		t,
		WriteXLSX(
			&buffer,
			"Realized & Unrealized Performance Summary in Base",
			[]string{"SYMBOL", "AMOUNT"},
			[][]string{{"NKE", "184.5"}, {"DG", "59"}},
		),
	)
	file, err := excelize.OpenReader(&buffer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	sheetName := "Realized & Unrealized Performan"
	require.Equal(t, []string{sheetName}, file.GetSheetList())
	rows, err := file.GetRows(sheetName)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"SYMBOL", "AMOUNT"}, {"NKE", "184.5"}, {"DG", "59"}}, rows)
	cellType, err := file.GetCellType(sheetName, "B2")
	require.NoError(t, err)
	require.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestXLSXSheetName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Sheet1", xlsxSheetName(" "))
	require.Equal(t, "Trades", xlsxSheetName("Trades"))
	require.Equal(t, "Forex P_L Details", xlsxSheetName("Forex P/L Details"))
}
