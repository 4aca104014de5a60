// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportparse parses IBKR CSV exports into normalized sections and totals.
package ibreportparse

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
)

// ParseError is returned when rows could not be parsed into sections.
//
// No partial Result is ever returned alongside a ParseError.
type ParseError struct {
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing CSV file: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Section is a normalized section.
type Section struct {
	// Name is the section name as it appears in the file.
	Name string
	// Key is the lowerCamelCase form of Name.
	Key string
	// Headers are the column names, in file order.
	Headers []string
	// Records are the normalized data rows that passed the inclusion rules, in file order.
	//
	// Every Record has exactly the camelCased Headers as its keys.
	Records []ibkrrecord.Record
}

// Total is the total extracted for a section.
//
// Exactly one of Value and ByCategory is set.
type Total struct {
	// Value is the scalar total of the section.
	Value ibkrrecord.Value
	// ByCategory maps a camelCased category to the record holding the category's totals.
	//
	// The key "total" holds the totals across all categories.
	ByCategory map[string]ibkrrecord.Record
}

// Clone returns a copy of the Section that shares no slices with it.
func (s *Section) Clone() *Section {
	return &Section{
		Name:    s.Name,
		Key:     s.Key,
		Headers: slices.Clone(s.Headers),
		Records: slices.Clone(s.Records),
	}
}

// IsNested returns true if the Total is keyed by category.
func (t Total) IsNested() bool {
	return t.ByCategory != nil
}

// Clone returns a copy of the Total that shares no map with it.
func (t Total) Clone() Total {
	return Total{
		Value:      t.Value,
		ByCategory: maps.Clone(t.ByCategory),
	}
}

// Result is the result of parsing an export.
type Result struct {
	// Format is the layout the export was parsed with.
	Format ibkrsection.Format
	// Sections are the sections, in first-seen order.
	Sections []*Section
	// Totals maps a section key to its totals.
	//
	// Only sections of a grouped export with a totals strategy and at least one data row
	// have an entry.
	Totals map[string]*Total
	// Trades are the records of the trade section, if present.
	Trades []ibkrrecord.Record
}

// Section returns the section for the key.
func (r *Result) Section(key string) (*Section, bool) {
	for _, section := range r.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return nil, false
}

// FirstSection returns the first section present among the keys.
func (r *Result) FirstSection(keys ...string) (*Section, bool) {
	for _, key := range keys {
		if section, ok := r.Section(key); ok {
			return section, true
		}
	}
	return nil, false
}

// SectionKeys returns the keys of all sections, in first-seen order.
func (r *Result) SectionKeys() []string {
	keys := make([]string, len(r.Sections))
	for i, section := range r.Sections {
		keys[i] = section.Key
	}
	return keys
}

// Parser parses raw rows.
type Parser interface {
	// Parse parses the raw rows into a Result.
	//
	// Any error is a *ParseError.
	Parse(rows [][]string) (*Result, error)
}

// ParserOption is a functional option for configuring the Parser.
type ParserOption func(*parser)

// ParserWithFormat sets the layout to parse with.
//
// The default is ibkrsection.FormatAuto.
func ParserWithFormat(format ibkrsection.Format) ParserOption {
	return func(p *parser) {
		p.format = format
	}
}

// ParserWithNumericFields adds fields to coerce to numbers.
func ParserWithNumericFields(fields ...string) ParserOption {
	return func(p *parser) {
		p.numericFields = append(p.numericFields, fields...)
	}
}

// NewParser returns a new Parser.
func NewParser(logger *slog.Logger, options ...ParserOption) Parser {
	p := &parser{
		logger: logger,
		format: ibkrsection.FormatAuto,
	}
	for _, option := range options {
		option(p)
	}
	p.normalizer = ibkrrecord.NewNormalizer(ibkrrecord.NormalizerWithNumericFields(p.numericFields...))
	return p
}

// *** PRIVATE ***

var tradeSectionKeys = []string{
	"tradesTradeDateBasis",
	"trades",
}

type parser struct {
	logger        *slog.Logger
	format        ibkrsection.Format
	numericFields []string
	normalizer    *ibkrrecord.Normalizer
}

func (p *parser) Parse(rows [][]string) (*Result, error) {
	// Select the layout once for the whole file.
	format := p.format
	if format == ibkrsection.FormatAuto {
		format = ibkrsection.Sniff(rows)
	}
	rawSections, err := ibkrsection.NewSegmenter(p.logger, format).Segment(rows)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	result := &Result{
		Format:   format,
		Sections: make([]*Section, 0, len(rawSections)),
		Totals:   make(map[string]*Total),
	}
	for _, rawSection := range rawSections {
		section := p.normalizeSection(format, rawSection)
		result.Sections = append(result.Sections, section)
		// Only Activity Statements end their sections on a trailing Total row.
		if format != ibkrsection.FormatGrouped {
			continue
		}
		total, ok := extractTotal(rawSection, section)
		if !ok {
			p.logger.Debug("no totals for section", "section", section.Name, "key", section.Key)
			continue
		}
		result.Totals[section.Key] = total
	}
	if section, ok := result.FirstSection(tradeSectionKeys...); ok {
		result.Trades = slices.Clone(section.Records)
	}
	return result, nil
}

func (p *parser) normalizeSection(format ibkrsection.Format, rawSection *ibkrsection.Section) *Section {
	section := &Section{
		Name:    rawSection.Name,
		Key:     rawSection.Key,
		Headers: slices.Clone(rawSection.Headers),
		Records: make([]ibkrrecord.Record, 0, len(rawSection.Rows)),
	}
	var excluded int
	for _, row := range rawSection.Rows {
		record := p.normalizer.Normalize(rawSection.Headers, row)
		if format == ibkrsection.FormatGrouped && !includeRecord(section.Key, record) {
			excluded++
			continue
		}
		section.Records = append(section.Records, record)
	}
	if excluded > 0 {
		p.logger.Debug("excluded rows from section", "section", section.Name, "excluded", excluded)
	}
	return section
}
