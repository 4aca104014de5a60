// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportstore holds the most recently loaded IBKR export and answers queries over it.
//
// A Store is either empty or loaded. Loading parses the export fully before the snapshot is
// swapped in, so a failed load leaves the previous snapshot in place and concurrent readers
// always see a complete snapshot. The last successful load wins.
package ibreportstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bufdev/ibreport/internal/ibreport/ibreportaggregate"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportparse"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrows"
	"github.com/bufdev/ibreport/internal/pkg/ibkrsection"
	"github.com/bufdev/ibreport/internal/standard/xstrings"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is the default lifetime of memoized aggregates.
const DefaultCacheTTL = 5 * time.Minute

var (
	// ErrNoDataLoaded is returned by every query when no export has been loaded.
	ErrNoDataLoaded = errors.New("no data loaded")
	// ErrSectionNotFound is returned when a requested section does not exist.
	ErrSectionNotFound = errors.New("section not found")
)

// Snapshot is an immutable, fully parsed export.
type Snapshot struct {
	version  string
	loadedAt time.Time
	result   *ibreportparse.Result
}

// Version is a unique identifier of the load that produced the snapshot.
func (s *Snapshot) Version() string {
	return s.version
}

// LoadedAt is when the snapshot was loaded.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Format is the layout the export was parsed with.
func (s *Snapshot) Format() ibkrsection.Format {
	return s.result.Format
}

// SectionInfo describes a loaded section.
type SectionInfo struct {
	// Name is the section name as it appears in the export.
	Name string `json:"name"`
	// Key is the lowerCamelCase form of Name.
	Key string `json:"key"`
	// Kind is the typed variant the section is read as.
	Kind ibreportquery.Kind `json:"kind"`
	// RecordCount is the number of records in the section.
	RecordCount int `json:"record_count"`
}

// StoreOption is an option for a new Store.
type StoreOption func(*storeOptions)

// StoreWithParserOptions returns a new StoreOption that passes the options to the parser.
func StoreWithParserOptions(parserOptions ...ibreportparse.ParserOption) StoreOption {
	return func(storeOptions *storeOptions) {
		storeOptions.parserOptions = append(storeOptions.parserOptions, parserOptions...)
	}
}

// StoreWithCacheTTL returns a new StoreOption that sets the lifetime of memoized aggregates.
//
// The default is DefaultCacheTTL.
func StoreWithCacheTTL(cacheTTL time.Duration) StoreOption {
	return func(storeOptions *storeOptions) {
		storeOptions.cacheTTL = cacheTTL
	}
}

// StoreWithNow returns a new StoreOption that sets the clock used for load times.
//
// The default is time.Now.
func StoreWithNow(now func() time.Time) StoreOption {
	return func(storeOptions *storeOptions) {
		storeOptions.now = now
	}
}

// Store is a session-scoped store of the most recently loaded export.
//
// A Store is safe for concurrent use. Memoized aggregates are shared between callers and
// must not be modified.
type Store struct {
	logger   *slog.Logger
	parser   ibreportparse.Parser
	now      func() time.Time
	snapshot atomic.Pointer[Snapshot]
	memo     *cache.Cache
}

// NewStore returns a new empty Store.
func NewStore(logger *slog.Logger, options ...StoreOption) *Store {
	storeOptions := newStoreOptions()
	for _, option := range options {
		option(storeOptions)
	}
	return &Store{
		logger: logger,
		parser: ibreportparse.NewParser(logger, storeOptions.parserOptions...),
		now:    storeOptions.now,
		memo:   cache.New(storeOptions.cacheTTL, 2*storeOptions.cacheTTL),
	}
}

// Load parses the rows and replaces the current snapshot.
//
// On error, the current snapshot is left unchanged.
func (s *Store) Load(ctx context.Context, rows [][]string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := s.parser.Parse(rows)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{
		version:  uuid.New().String(),
		loadedAt: s.now(),
		result:   result,
	}
	s.snapshot.Store(snapshot)
	// Aggregates of previous snapshots are keyed by their version and can never be read again.
	s.memo.Flush()
	s.logger.InfoContext(
		ctx,
		"loaded export",
		"version", snapshot.version,
		"format", result.Format.String(),
		"sections", len(result.Sections),
		"trades", len(result.Trades),
	)
	return snapshot, nil
}

// LoadReader reads the export from the reader and replaces the current snapshot.
//
// Read errors are returned as *ibkrrows.ReadError, and parse errors as *ibreportparse.ParseError.
func (s *Store) LoadReader(ctx context.Context, reader io.Reader) (*Snapshot, error) {
	rows, err := ibkrrows.Read(reader)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, rows)
}

// LoadFile reads the export at the path and replaces the current snapshot.
//
// Read errors, including a missing file, are returned as *ibkrrows.ReadError. Parse errors
// are returned as *ibreportparse.ParseError prefixed with the path.
func (s *Store) LoadFile(ctx context.Context, filePath string) (*Snapshot, error) {
	rows, err := ibkrrows.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Load(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return snapshot, nil
}

// Clear returns the Store to the empty state.
func (s *Store) Clear() {
	s.snapshot.Store(nil)
	s.memo.Flush()
}

// IsDataLoaded returns true if an export is loaded.
func (s *Store) IsDataLoaded() bool {
	return s.snapshot.Load() != nil
}

// Snapshot returns the current snapshot, or ErrNoDataLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	snapshot := s.snapshot.Load()
	if snapshot == nil {
		return nil, ErrNoDataLoaded
	}
	return snapshot, nil
}

// LastUpdated returns when the current snapshot was loaded.
//
// The second return value is false if no export is loaded.
func (s *Store) LastUpdated() (time.Time, bool) {
	snapshot := s.snapshot.Load()
	if snapshot == nil {
		return time.Time{}, false
	}
	return snapshot.loadedAt, true
}

// Dividends returns the dividends of the current snapshot.
func (s *Store) Dividends(ctx context.Context, filter *ibreportquery.Filter) ([]ibreportquery.Dividend, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.Dividends(result, filter), nil
}

// Trades returns the trades of the current snapshot.
func (s *Store) Trades(ctx context.Context, filter *ibreportquery.Filter) ([]ibreportquery.Trade, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.Trades(result, filter), nil
}

// RealizedGains returns the realized and unrealized performance of the current snapshot.
func (s *Store) RealizedGains(ctx context.Context, filter *ibreportquery.Filter) ([]ibreportquery.RealizedGain, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.RealizedGains(result, filter), nil
}

// Positions returns the open positions of the current snapshot.
func (s *Store) Positions(ctx context.Context, filter *ibreportquery.Filter) ([]ibreportquery.Position, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.Positions(result, filter), nil
}

// CashReport returns the cash report of the current snapshot.
func (s *Store) CashReport(ctx context.Context) ([]ibreportquery.CashReportEntry, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.CashReport(result), nil
}

// WithholdingTaxes returns the withholding taxes of the current snapshot.
func (s *Store) WithholdingTaxes(ctx context.Context, filter *ibreportquery.Filter) ([]ibreportquery.WithholdingTax, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	return ibreportquery.WithholdingTaxes(result, filter), nil
}

// DataSections describes every section of the current snapshot, in file order.
func (s *Store) DataSections(ctx context.Context) ([]SectionInfo, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	sectionInfos := make([]SectionInfo, len(result.Sections))
	for i, section := range result.Sections {
		sectionInfos[i] = SectionInfo{
			Name:        section.Name,
			Key:         section.Key,
			Kind:        ibreportquery.KindOf(section.Key),
			RecordCount: len(section.Records),
		}
	}
	return sectionInfos, nil
}

// SectionData returns a copy of the section with the given name or key.
//
// The name may be given as it appears in the export, such as "Statement of Funds", or as its
// key, such as statementOfFunds. ErrSectionNotFound is returned if no section matches.
func (s *Store) SectionData(ctx context.Context, name string) (*ibreportparse.Section, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	for _, section := range result.Sections {
		if section.Name == name {
			return section.Clone(), nil
		}
	}
	if section, ok := result.Section(xstrings.ToLowerCamel(name)); ok {
		return section.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// Totals returns a copy of the totals of the current snapshot keyed by section key.
func (s *Store) Totals(ctx context.Context) (map[string]ibreportparse.Total, error) {
	result, err := s.result(ctx)
	if err != nil {
		return nil, err
	}
	sectionKeyToTotal := make(map[string]ibreportparse.Total, len(result.Totals))
	for sectionKey, total := range result.Totals {
		sectionKeyToTotal[sectionKey] = total.Clone()
	}
	return sectionKeyToTotal, nil
}

// MonthlyTotals returns the realized income of each calendar month formatted in the currency.
func (s *Store) MonthlyTotals(ctx context.Context, currency string) ([]ibreportaggregate.MonthlyTotal, error) {
	return memoize(
		ctx,
		s,
		"monthlyTotals/"+currency,
		func(result *ibreportparse.Result) ([]ibreportaggregate.MonthlyTotal, error) {
			return ibreportaggregate.MonthlyTotals(
				ibreportquery.Trades(result, nil),
				ibreportquery.Dividends(result, nil),
				currency,
			)
		},
	)
}

// DividendsByMonth returns the dividends of each month, in chronological order.
func (s *Store) DividendsByMonth(ctx context.Context) ([]ibreportaggregate.MonthAmount, error) {
	return memoize(
		ctx,
		s,
		"dividendsByMonth",
		func(result *ibreportparse.Result) ([]ibreportaggregate.MonthAmount, error) {
			return ibreportaggregate.DividendsByMonth(ibreportquery.Dividends(result, nil)), nil
		},
	)
}

// TopPerformers returns the n symbols with the largest realized trade gains plus dividends,
// followed by the rest grouped under ibreportaggregate.OtherSymbol.
func (s *Store) TopPerformers(ctx context.Context, n int) ([]ibreportaggregate.SymbolAmount, error) {
	return memoize(
		ctx,
		s,
		fmt.Sprintf("topPerformers/%d", n),
		func(result *ibreportparse.Result) ([]ibreportaggregate.SymbolAmount, error) {
			return ibreportaggregate.TopWithOther(
				ibreportaggregate.CombineBySymbol(
					ibreportaggregate.TradeGainsBySymbol(ibreportquery.Trades(result, nil)),
					ibreportaggregate.DividendsBySymbol(ibreportquery.Dividends(result, nil)),
				),
				n,
			), nil
		},
	)
}

// GainsByCategory returns the realized income of each symbol split by category.
func (s *Store) GainsByCategory(ctx context.Context) ([]ibreportaggregate.CategoryBreakdown, error) {
	return memoize(
		ctx,
		s,
		"gainsByCategory",
		func(result *ibreportparse.Result) ([]ibreportaggregate.CategoryBreakdown, error) {
			return ibreportaggregate.GainsByCategory(
				ibreportquery.Trades(result, nil),
				ibreportquery.Dividends(result, nil),
			), nil
		},
	)
}

// IncomeFlow returns the flow of broker interest, dividends, and realized trade gains into the total.
func (s *Store) IncomeFlow(ctx context.Context) (*ibreportaggregate.Flow, error) {
	return memoize(
		ctx,
		s,
		"incomeFlow",
		func(result *ibreportparse.Result) (*ibreportaggregate.Flow, error) {
			brokerInterest, _ := ibreportquery.BrokerInterest(result)
			return ibreportaggregate.IncomeFlow(
				brokerInterest,
				ibreportquery.Dividends(result, nil),
				ibreportquery.Trades(result, nil),
			), nil
		},
	)
}

// SymbolFlow returns the flow of each symbol into the total.
func (s *Store) SymbolFlow(ctx context.Context) (*ibreportaggregate.Flow, error) {
	return memoize(
		ctx,
		s,
		"symbolFlow",
		func(result *ibreportparse.Result) (*ibreportaggregate.Flow, error) {
			return ibreportaggregate.SymbolFlow(
				ibreportquery.Trades(result, nil),
				ibreportquery.Dividends(result, nil),
			), nil
		},
	)
}

// CategoryFlow returns the flow of each symbol into its categories and of each category into the total.
func (s *Store) CategoryFlow(ctx context.Context) (*ibreportaggregate.Flow, error) {
	return memoize(
		ctx,
		s,
		"categoryFlow",
		func(result *ibreportparse.Result) (*ibreportaggregate.Flow, error) {
			return ibreportaggregate.CategoryFlow(
				ibreportquery.Trades(result, nil),
				ibreportquery.Dividends(result, nil),
			), nil
		},
	)
}

// *** PRIVATE ***

type storeOptions struct {
	parserOptions []ibreportparse.ParserOption
	cacheTTL      time.Duration
	now           func() time.Time
}

func newStoreOptions() *storeOptions {
	return &storeOptions{
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

func (s *Store) result(ctx context.Context) (*ibreportparse.Result, error) {
	snapshot, err := s.snapshotContext(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.result, nil
}

func (s *Store) snapshotContext(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Snapshot()
}

// memoize computes an aggregate of the current snapshot, or returns it from the cache.
//
// Cache keys are prefixed with the snapshot version.
func memoize[T any](
	ctx context.Context,
	s *Store,
	name string,
	compute func(*ibreportparse.Result) (T, error),
) (T, error) {
	var zero T
	snapshot, err := s.snapshotContext(ctx)
	if err != nil {
		return zero, err
	}
	key := snapshot.version + "/" + name
	if cached, ok := s.memo.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}
	value, err := compute(snapshot.result)
	if err != nil {
		return zero, err
	}
	s.memo.Set(key, value, cache.DefaultExpiration)
	return value, nil
}
