// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibkrrecord

import (
	"encoding/json"
	"fmt"

	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

const (
	// KindNull is an empty cell.
	KindNull Kind = iota
	// KindString is a cell kept as its raw string.
	KindString
	// KindNumber is a cell coerced to a decimal number.
	KindNumber
	// KindDate is a cell coerced to a calendar date.
	KindDate
)

// Kind is the kind of a Value.
type Kind int

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single normalized cell.
//
// The zero value is a null Value.
type Value struct {
	kind   Kind
	str    string
	number decimal.Decimal
	date   xtime.Date
}

// NullValue returns a null Value.
func NullValue() Value {
	return Value{}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue returns a number Value.
func NumberValue(number decimal.Decimal) Value {
	return Value{kind: KindNumber, number: number}
}

// DateValue returns a date Value.
func DateValue(date xtime.Date) Value {
	return Value{kind: KindDate, date: date}
}

// Kind returns the kind of the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if the Value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string if the Value is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Number returns the number if the Value is a number.
func (v Value) Number() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Zero, false
	}
	return v.number, true
}

// Date returns the date if the Value is a date.
func (v Value) Date() (xtime.Date, bool) {
	if v.kind != KindDate {
		return xtime.Date{}, false
	}
	return v.date, true
}

// Equal returns true if the two Values have the same kind and content.
//
// Numbers are compared by value, so 1234.5 equals 1234.50.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.number.Equal(other.number)
	case KindDate:
		return v.date == other.date
	default:
		return true
	}
}

// String returns a display string for the Value.
//
// Null values are the empty string, numbers are printed without exponent, and dates are
// printed as YYYY-MM-DD.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.number.String()
	case KindDate:
		return v.date.String()
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
//
// Numbers are written as JSON numbers, dates as "YYYY-MM-DD" strings, and nulls as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.number.String()), nil
	case KindDate:
		return json.Marshal(v.date.String())
	default:
		return []byte("null"), nil
	}
}
