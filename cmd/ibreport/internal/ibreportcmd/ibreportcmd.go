// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ibreportcmd provides shared wiring for ibreport commands: common flags,
// reading the config, loading an export into a store, and writing output.
package ibreportcmd

import (
	"context"
	"io"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportconfig"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportparse"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportpath"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportstore"
	"github.com/bufdev/ibreport/internal/pkg/cliio"
	"github.com/bufdev/ibreport/internal/standard/xos"
	"github.com/bufdev/ibreport/internal/standard/xtime"
	"github.com/spf13/pflag"
)

const (
	// DirFlagName is the flag name for the ibreport directory.
	DirFlagName = "dir"
	// FormatFlagName is the flag name for the output format.
	FormatFlagName = "format"
	// OutputFlagName is the flag name for the output file path.
	OutputFlagName = "output"

	symbolFlagName     = "symbol"
	assetClassFlagName = "asset-class"
	startFlagName      = "start"
	endFlagName        = "end"
)

// OutputFlags are the flags shared by every command that loads an export and writes output.
type OutputFlags struct {
	// Dir is the ibreport directory containing ibreport.yaml.
	Dir string
	// Format is the output format (table, csv, json, xlsx).
	Format string
	// Output is the output file path, or empty for stdout.
	Output string
}

// NewOutputFlags returns new OutputFlags.
func NewOutputFlags() *OutputFlags {
	return &OutputFlags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *OutputFlags) Bind(flagSet *pflag.FlagSet) {
	BindDirFlag(flagSet, &f.Dir)
	flagSet.StringVar(&f.Format, FormatFlagName, "table", "Output format (table, csv, json, xlsx)")
	flagSet.StringVarP(&f.Output, OutputFlagName, "o", "", "Write output to this file instead of stdout")
}

// BindDirFlag registers the --dir flag.
func BindDirFlag(flagSet *pflag.FlagSet, dir *string) {
	flagSet.StringVar(dir, DirFlagName, ".", "The ibreport directory containing ibreport.yaml")
}

// FilterFlags are the flags that narrow query results.
type FilterFlags struct {
	// Symbols restricts results to these symbols.
	Symbols []string
	// AssetClasses restricts results to these asset classes.
	AssetClasses []string
	// Start is the first date to include, as YYYY-MM-DD.
	Start string
	// End is the last date to include, as YYYY-MM-DD.
	End string
}

// NewFilterFlags returns new FilterFlags.
func NewFilterFlags() *FilterFlags {
	return &FilterFlags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *FilterFlags) Bind(flagSet *pflag.FlagSet) {
	flagSet.StringSliceVar(&f.Symbols, symbolFlagName, nil, "Only include these symbols (repeatable, case-insensitive)")
	flagSet.StringSliceVar(&f.AssetClasses, assetClassFlagName, nil, "Only include these asset classes, such as STK or Options (repeatable)")
	flagSet.StringVar(&f.Start, startFlagName, "", "Only include entries on or after this date (YYYY-MM-DD)")
	flagSet.StringVar(&f.End, endFlagName, "", "Only include entries on or before this date (YYYY-MM-DD)")
}

// Filter returns the query Filter for the flags.
//
// Invalid dates are returned as invalid argument errors.
func (f *FilterFlags) Filter() (*ibreportquery.Filter, error) {
	filter := &ibreportquery.Filter{
		Symbols:      f.Symbols,
		AssetClasses: f.AssetClasses,
	}
	var err error
	if f.Start != "" {
		if filter.StartDate, err = xtime.ParseDate(f.Start); err != nil {
			return nil, appcmd.NewInvalidArgumentErrorf("invalid --%s: %v", startFlagName, err)
		}
	}
	if f.End != "" {
		if filter.EndDate, err = xtime.ParseDate(f.End); err != nil {
			return nil, appcmd.NewInvalidArgumentErrorf("invalid --%s: %v", endFlagName, err)
		}
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return nil, appcmd.NewInvalidArgumentErrorf("--%s %s is before --%s %s", endFlagName, f.End, startFlagName, f.Start)
	}
	return filter, nil
}

// Session is a loaded export and the config it was loaded with.
type Session struct {
	// Config is the validated configuration.
	Config *ibreportconfig.Config
	// Store holds the loaded export.
	Store *ibreportstore.Store
}

// LoadSession reads the config from the directory and loads the export at the file path.
//
// The file path may be relative to the statements directory of the ibreport directory.
func LoadSession(ctx context.Context, container appext.Container, dir string, filePath string) (*Session, error) {
	dirPath, err := xos.ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	config, err := ibreportconfig.ReadConfig(dirPath)
	if err != nil {
		return nil, err
	}
	filePath, err = xos.ExpandPath(filePath)
	if err != nil {
		return nil, err
	}
	store := ibreportstore.NewStore(
		container.Logger(),
		ibreportstore.StoreWithParserOptions(
			ibreportparse.ParserWithFormat(config.Format),
			ibreportparse.ParserWithNumericFields(config.NumericFields...),
		),
		ibreportstore.StoreWithCacheTTL(config.CacheTTL),
	)
	if _, err := store.LoadFile(ctx, ibreportpath.ResolveStatementFilePath(dirPath, filePath)); err != nil {
		return nil, err
	}
	return &Session{
		Config: config,
		Store:  store,
	}, nil
}

// Table is tabular output.
type Table struct {
	// Name names the table, used as the XLSX sheet name.
	Name string
	// Headers are the column headers.
	Headers []string
	// Rows are the data rows, matching Headers.
	Rows [][]string
	// WriteJSON writes the JSON form of the table.
	WriteJSON func(io.Writer) error
}

// WriteTable writes the table in the format of the flags, to stdout or the --output file.
func WriteTable(container appext.Container, flags *OutputFlags, table *Table) error {
	format, err := cliio.ParseFormat(flags.Format)
	if err != nil {
		return appcmd.NewInvalidArgumentError(err.Error())
	}
	write := func(writer io.Writer) error {
		return writeTable(writer, format, table)
	}
	if flags.Output == "" {
		return write(container.Stdout())
	}
	outputFilePath, err := xos.ExpandPath(flags.Output)
	if err != nil {
		return err
	}
	return cliio.ForWriteFile(outputFilePath, write)
}

// ToRows converts values to rows.
func ToRows[T any](values []T, toRow func(T) []string) [][]string {
	rows := make([][]string, len(values))
	for i, value := range values {
		rows[i] = toRow(value)
	}
	return rows
}

// *** PRIVATE ***

func writeTable(writer io.Writer, format cliio.Format, table *Table) error {
	switch format {
	case cliio.FormatTable:
		return cliio.WriteTable(writer, table.Headers, table.Rows)
	case cliio.FormatCSV:
		records := make([][]string, 0, len(table.Rows)+1)
		records = append(records, table.Headers)
		records = append(records, table.Rows...)
		return cliio.WriteCSVRecords(writer, records)
	case cliio.FormatJSON:
		return table.WriteJSON(writer)
	case cliio.FormatXLSX:
		return cliio.WriteXLSX(writer, table.Name, table.Headers, table.Rows)
	default:
		return appcmd.NewInvalidArgumentErrorf("unsupported format: %s", format)
	}
}
