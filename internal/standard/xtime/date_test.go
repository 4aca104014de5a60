// Copyright 2026 Peter Edge
//
// All rights reserved.

package xtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCompact(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		input  string
		want   Date
		wantOK bool
	}{
		{input: "20250315", want: Date{2025, time.March, 15}, wantOK: true},
		{input: "19000101", want: Date{1900, time.January, 1}, wantOK: true},
		{input: "21001231", want: Date{2100, time.December, 31}, wantOK: true},
		{input: "20240229", want: Date{2024, time.February, 29}, wantOK: true},
		{input: "20250229"},
		{input: "18991231"},
		{input: "21010101"},
		{input: "20251301"},
		{input: "20250001"},
		{input: "20250100"},
		{input: "20250132"},
		{input: "2025031"},
		{input: "202503150"},
		{input: "2025-03-15"},
		{input: "2025031a"},
		{input: ""},
		{input: "+2025031"},
		{input: "２０２５０３１５"},
	} {
		t.Run(test.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseCompact(test.input)
			require.Equal(t, test.wantOK, ok)
			require.Equal(t, test.want, got)
		})
	}
}

func TestDateString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "2014-07-29", Date{2014, 7, 29}.String())
	require.Equal(t, "0999-01-26", TimeToDate(time.Date(999, time.January, 26, 0, 0, 0, 0, time.UTC)).String())
	require.Equal(
		t,
		time.Date(2014, time.July, 29, 0, 0, 0, 0, time.UTC),
		Date{2014, 7, 29}.In(time.UTC),
	)
}

func TestDateIsValid(t *testing.T) {
	t.Parallel()
	require.True(t, Date{2014, 7, 29}.IsValid())
	require.True(t, Date{2000, 2, 29}.IsValid())
	require.False(t, Date{2001, 2, 29}.IsValid())
	require.False(t, Date{2016, 1, 32}.IsValid())
	require.False(t, Date{2016, 13, 1}.IsValid())
	require.False(t, Date{1, 0, 1}.IsValid())
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	date, err := ParseDate("2016-01-02")
	require.NoError(t, err)
	require.Equal(t, Date{2016, 1, 2}, date)
	for _, bad := range []string{"", "999-01-26", "2016-01-02x", "20160102"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		start Date
		end   Date
		days  int
	}{
		{start: Date{2014, 5, 9}, end: Date{2014, 5, 9}, days: 0},
		{start: Date{2014, 12, 31}, end: Date{2015, 1, 1}, days: 1},
		{start: Date{2015, 1, 1}, end: Date{2014, 12, 31}, days: -1},
		{start: Date{2004, 1, 1}, end: Date{2005, 1, 1}, days: 366},
		{start: Date{2001, 1, 1}, end: Date{2002, 1, 1}, days: 365},
	} {
		require.Equal(t, test.end, test.start.AddDays(test.days))
		require.Equal(t, test.days, test.end.DaysSince(test.start))
	}
}

func TestDateCompare(t *testing.T) {
	t.Parallel()
	early := Date{2016, 12, 31}
	late := Date{2017, 1, 1}
	require.Equal(t, -1, early.Compare(late))
	require.Equal(t, 1, late.Compare(early))
	require.Equal(t, 0, early.Compare(early))
	require.True(t, early.Before(late))
	require.True(t, late.After(early))
	require.True(t, early.EqualOrBefore(early))
	require.True(t, late.EqualOrAfter(late))
	require.False(t, late.EqualOrBefore(early))
	require.False(t, early.EqualOrAfter(late))
}

func TestDateIsZero(t *testing.T) {
	t.Parallel()
	require.True(t, Date{}.IsZero())
	require.False(t, Date{2000, 2, 29}.IsZero())
}

func TestDateJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Date{1987, 4, 15})
	require.NoError(t, err)
	require.Equal(t, `"1987-04-15"`, string(data))
	var date Date
	require.NoError(t, json.Unmarshal([]byte(`"1987-04-15"`), &date))
	require.Equal(t, Date{1987, 4, 15}, date)
	for _, bad := range []string{`""`, `"bad"`, `"1987-04-15x"`, `19870415`} {
		require.Error(t, json.Unmarshal([]byte(bad), &date), bad)
	}
}
