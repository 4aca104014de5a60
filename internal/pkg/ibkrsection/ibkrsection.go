// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibkrsection splits raw IBKR CSV rows into sections.
//
// IBKR exports come in two layouts.
//
// Activity Statements use the grouped layout, where every row starts with the section name
// and a row type:
//
//	Dividends,Header,Currency,Date,Description,Amount
//	Dividends,Data,USD,2025-03-15,NKE(US6541061031) Cash Dividend,184
//
// Flex Query CSV exports use the delimited layout, where sections are bracketed by control
// rows and the row after BOS is the header row:
//
//	BOF,U1234567,...
//	BOA,U1234567
//	BOS,STFU,Statement of Funds
//	CurrencyPrimary,Symbol,ActivityCode,PayDate,Amount
//	USD,NKE,DIV,20250315,184
//	EOS,STFU
//	EOA,U1234567
//	EOF,U1234567
package ibkrsection

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bufdev/ibreport/internal/standard/xstrings"
)

const (
	// FormatAuto sniffs the layout from the rows.
	FormatAuto Format = iota
	// FormatGrouped is the Activity Statement layout.
	FormatGrouped
	// FormatDelimited is the Flex Query layout with BOF/BOA/BOS control rows.
	FormatDelimited
)

const (
	dataRowType        = "Data"
	unknownSectionName = "Unknown Section"

	markerBeginFile    = "BOF"
	markerEndFile      = "EOF"
	markerBeginAccount = "BOA"
	markerEndAccount   = "EOA"
	markerBeginSection = "BOS"
	markerEndSection   = "EOS"
)

var (
	formatToString = map[Format]string{
		FormatAuto:      "auto",
		FormatGrouped:   "grouped",
		FormatDelimited: "delimited",
	}
	stringToFormat = map[string]Format{
		"auto":      FormatAuto,
		"grouped":   FormatGrouped,
		"delimited": FormatDelimited,
	}
	markers = map[string]struct{}{
		markerBeginFile:    {},
		markerEndFile:      {},
		markerBeginAccount: {},
		markerEndAccount:   {},
		markerBeginSection: {},
		markerEndSection:   {},
	}
)

// Format is the layout of an IBKR CSV export.
type Format int

// String implements fmt.Stringer.
func (f Format) String() string {
	if s, ok := formatToString[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a Format from its string form.
func ParseFormat(s string) (Format, error) {
	format, ok := stringToFormat[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown format %q, expected one of auto, grouped, delimited", s)
	}
	return format, nil
}

// Sniff determines the layout of the rows.
//
// The rows are delimited if the first non-empty row starts with BOF, BOA, or BOS.
// Otherwise the rows are grouped.
func Sniff(rows [][]string) Format {
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		switch strings.TrimSpace(row[0]) {
		case markerBeginFile, markerBeginAccount, markerBeginSection:
			return FormatDelimited
		default:
			return FormatGrouped
		}
	}
	return FormatGrouped
}

// Section is a single table within an export.
type Section struct {
	// Name is the section name as it appears in the file.
	Name string
	// Key is the lowerCamelCase form of Name.
	//
	// Keys are unique across the sections returned by a Segmenter.
	Key string
	// Headers are the column names, in file order.
	Headers []string
	// Rows are the data rows, in file order.
	//
	// A section with no data rows has an empty Rows.
	Rows [][]string
}

// Segmenter splits raw rows into sections.
type Segmenter interface {
	// Segment splits the rows into sections, in first-seen order.
	//
	// Sections whose names have the same key are merged.
	Segment(rows [][]string) ([]*Section, error)
}

// NewSegmenter returns a new Segmenter for the format.
//
// FormatAuto sniffs the layout when Segment is called.
func NewSegmenter(logger *slog.Logger, format Format) Segmenter {
	switch format {
	case FormatGrouped:
		return NewGroupedSegmenter(logger)
	case FormatDelimited:
		return NewDelimitedSegmenter(logger)
	default:
		return &autoSegmenter{logger: logger}
	}
}

// NewGroupedSegmenter returns a new Segmenter for the Activity Statement layout.
func NewGroupedSegmenter(logger *slog.Logger) Segmenter {
	return &groupedSegmenter{logger: logger}
}

// NewDelimitedSegmenter returns a new Segmenter for the Flex Query layout.
func NewDelimitedSegmenter(logger *slog.Logger) Segmenter {
	return &delimitedSegmenter{logger: logger}
}

// *** PRIVATE ***

type autoSegmenter struct {
	logger *slog.Logger
}

func (s *autoSegmenter) Segment(rows [][]string) ([]*Section, error) {
	format := Sniff(rows)
	s.logger.Debug("sniffed CSV format", "format", format.String())
	return NewSegmenter(s.logger, format).Segment(rows)
}

type groupedSegmenter struct {
	logger *slog.Logger
}

func (s *groupedSegmenter) Segment(rows [][]string) ([]*Section, error) {
	sectionSet := newSectionSet(s.logger)
	// The first row seen for a section name is its header row.
	namesWithHeaders := make(map[string]struct{})
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		name := strings.TrimSpace(row[0])
		if _, ok := namesWithHeaders[name]; !ok {
			namesWithHeaders[name] = struct{}{}
			sectionSet.add(name, cellsAfter(row, 2))
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) != dataRowType {
			continue
		}
		sectionSet.appendRow(name, cellsAfter(row, 2))
	}
	return sectionSet.sections(), nil
}

type delimitedSegmenter struct {
	logger *slog.Logger
}

func (s *delimitedSegmenter) Segment(rows [][]string) ([]*Section, error) {
	sectionSet := newSectionSet(s.logger)
	var current string
	var inSection bool
	for i := 0; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		switch strings.TrimSpace(row[0]) {
		case markerBeginFile, markerEndFile, markerBeginAccount, markerEndAccount, markerEndSection:
			inSection = false
		case markerBeginSection:
			name := unknownSectionName
			if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				name = strings.TrimSpace(row[2])
			}
			// The next non-empty row is the header row.
			headerIndex := i + 1
			for headerIndex < len(rows) && isEmptyRow(rows[headerIndex]) {
				headerIndex++
			}
			if headerIndex >= len(rows) {
				return nil, fmt.Errorf("section %q has no header row", name)
			}
			if isMarkerRow(rows[headerIndex]) {
				return nil, fmt.Errorf("section %q has no header row, found %q", name, strings.TrimSpace(rows[headerIndex][0]))
			}
			sectionSet.add(name, slices.Clone(rows[headerIndex]))
			current = name
			inSection = true
			i = headerIndex
		default:
			if !inSection {
				s.logger.Debug("ignoring row outside of a section", "line_index", i)
				continue
			}
			sectionSet.appendRow(current, slices.Clone(row))
		}
	}
	return sectionSet.sections(), nil
}

// sectionSet merges sections by key in first-seen order.
type sectionSet struct {
	logger       *slog.Logger
	keyToSection map[string]*Section
	orderedKeys  []string
	nameToKey    map[string]string
}

func newSectionSet(logger *slog.Logger) *sectionSet {
	return &sectionSet{
		logger:       logger,
		keyToSection: make(map[string]*Section),
		nameToKey:    make(map[string]string),
	}
}

func (s *sectionSet) add(name string, headers []string) {
	key := xstrings.ToLowerCamel(name)
	s.nameToKey[name] = key
	if section, ok := s.keyToSection[key]; ok {
		if !slices.Equal(section.Headers, headers) {
			s.logger.Warn(
				"merging sections with different headers",
				"section", section.Name,
				"key", key,
				"headers", section.Headers,
				"other_headers", headers,
			)
		}
		return
	}
	s.keyToSection[key] = &Section{
		Name:    name,
		Key:     key,
		Headers: headers,
		Rows:    [][]string{},
	}
	s.orderedKeys = append(s.orderedKeys, key)
}

func (s *sectionSet) appendRow(name string, row []string) {
	section := s.keyToSection[s.nameToKey[name]]
	section.Rows = append(section.Rows, row)
}

func (s *sectionSet) sections() []*Section {
	sections := make([]*Section, 0, len(s.orderedKeys))
	for _, key := range s.orderedKeys {
		sections = append(sections, s.keyToSection[key])
	}
	return sections
}

func cellsAfter(row []string, n int) []string {
	if len(row) <= n {
		return []string{}
	}
	return slices.Clone(row[n:])
}

func isMarkerRow(row []string) bool {
	_, ok := markers[strings.TrimSpace(row[0])]
	return ok
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
