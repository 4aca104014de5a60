// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package querygains implements the "query gains" command.
package querygains

import (
	"context"
	"io"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/ibreportcmd"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"github.com/bufdev/ibreport/internal/pkg/recordpb"
	"github.com/spf13/pflag"
)

// NewCommand returns a new query gains command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "List realized and unrealized gains per symbol",
		Args:  appcmd.ExactArgs(1),
		Run: builder.NewRunFunc(
			func(ctx context.Context, container appext.Container) error {
				return run(ctx, container, flags)
			},
		),
		BindFlags: flags.Bind,
	}
}

type flags struct {
	Output *ibreportcmd.OutputFlags
	Filter *ibreportcmd.FilterFlags
}

func newFlags() *flags {
	return &flags{
		Output: ibreportcmd.NewOutputFlags(),
		Filter: ibreportcmd.NewFilterFlags(),
	}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	f.Output.Bind(flagSet)
	f.Filter.Bind(flagSet)
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	filter, err := flags.Filter.Filter()
	if err != nil {
		return err
	}
	session, err := ibreportcmd.LoadSession(ctx, container, flags.Output.Dir, container.Arg(0))
	if err != nil {
		return err
	}
	realizedGains, err := session.Store.RealizedGains(ctx, filter)
	if err != nil {
		return err
	}
	// JSON output is the source records, so that every column of the export is available.
	records := make([]ibkrrecord.Record, len(realizedGains))
	for i, value := range realizedGains {
		records[i] = value.Record
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Realized Gains",
			Headers: ibreportquery.RealizedGainHeaders(),
			Rows:    ibreportcmd.ToRows(realizedGains, ibreportquery.RealizedGainToRow),
			WriteJSON: func(writer io.Writer) error {
				return recordpb.WriteRecordsJSON(writer, records)
			},
		},
	)
}
