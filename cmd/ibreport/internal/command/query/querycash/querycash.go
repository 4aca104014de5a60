// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package querycash implements the "query cash" command.
package querycash

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

// NewCommand returns a new query cash command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "List the cash report per currency",
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
}

func newFlags() *flags {
	return &flags{
		Output: ibreportcmd.NewOutputFlags(),
	}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	f.Output.Bind(flagSet)
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	session, err := ibreportcmd.LoadSession(ctx, container, flags.Output.Dir, container.Arg(0))
	if err != nil {
		return err
	}
	entries, err := session.Store.CashReport(ctx)
	if err != nil {
		return err
	}
	records := make([]ibkrrecord.Record, len(entries))
	for i, entry := range entries {
		records[i] = entry.Record
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Cash Report",
			Headers: ibreportquery.CashReportEntryHeaders(),
			Rows:    ibreportcmd.ToRows(entries, ibreportquery.CashReportEntryToRow),
			WriteJSON: func(writer io.Writer) error {
				return recordpb.WriteRecordsJSON(writer, records)
			},
		},
	)
}
