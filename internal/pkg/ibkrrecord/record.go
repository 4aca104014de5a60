// Copyright 2026 Peter Edge
//
// All rights reserved.

package ibkrrecord

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/shopspring/decimal"
)

// Record is a normalized row keyed by camelCased header.
//
// Records are immutable. The zero value is an empty Record.
type Record struct {
	values map[string]Value
}

// NewRecord returns a new Record containing a copy of the given values.
func NewRecord(values map[string]Value) Record {
	return Record{values: maps.Clone(values)}
}

// Len returns the number of keys in the Record.
func (r Record) Len() int {
	return len(r.values)
}

// Keys returns the keys of the Record in sorted order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Lookup returns the Value for the key, and whether the key is present.
func (r Record) Lookup(key string) (Value, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Get returns the Value for the key, or a null Value if the key is not present.
func (r Record) Get(key string) Value {
	return r.values[key]
}

// Has returns true if the key is present and its Value is not null.
func (r Record) Has(key string) bool {
	value, ok := r.values[key]
	return ok && !value.IsNull()
}

// First returns the first non-null Value among the keys, and the key it was found at.
//
// This is used to read a field that is spelled differently across export formats.
func (r Record) First(keys ...string) (Value, string) {
	for _, key := range keys {
		if r.Has(key) {
			return r.values[key], key
		}
	}
	return NullValue(), ""
}

// String returns the display string of the Value at the first present key.
//
// The empty string is returned if none of the keys are present.
func (r Record) String(keys ...string) string {
	value, _ := r.First(keys...)
	return value.String()
}

// Number returns the number at the first present key.
//
// String values that parse as decimals are also accepted, with thousands separators removed.
func (r Record) Number(keys ...string) (decimal.Decimal, bool) {
	value, _ := r.First(keys...)
	switch value.Kind() {
	case KindNumber:
		return value.number, true
	case KindString:
		return ParseNumber(value.str)
	default:
		return decimal.Zero, false
	}
}

// Date returns the date at the first present key.
//
// Date values are returned as-is. String values are accepted in YYYYMMDD, YYYY-MM-DD, and
// "YYYY-MM-DD, HH:MM:SS" forms.
func (r Record) Date(keys ...string) (xtime.Date, bool) {
	value, _ := r.First(keys...)
	switch value.Kind() {
	case KindDate:
		return value.date, true
	case KindString:
		return ParseDate(value.str)
	default:
		return xtime.Date{}, false
	}
}

// Values returns a copy of the values of the Record.
func (r Record) Values() map[string]Value {
	return maps.Clone(r.values)
}

// Equal returns true if the two Records have the same keys and equal Values.
func (r Record) Equal(other Record) bool {
	return maps.EqualFunc(r.values, other.values, Value.Equal)
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.values)
}
