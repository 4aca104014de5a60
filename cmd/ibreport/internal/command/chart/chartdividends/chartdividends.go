// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package chartdividends implements the "chart dividends" command.
package chartdividends

import (
	"context"
	"io"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/ibreportcmd"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportaggregate"
	"github.com/bufdev/ibreport/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// NewCommand returns a new chart dividends command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "Show dividends per month, in chronological order",
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
	monthAmounts, err := session.Store.DividendsByMonth(ctx)
	if err != nil {
		return err
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Dividends",
			Headers: ibreportaggregate.MonthAmountHeaders(),
			Rows:    ibreportcmd.ToRows(monthAmounts, ibreportaggregate.MonthAmountToRow),
			WriteJSON: func(writer io.Writer) error {
				return cliio.WriteJSON(writer, monthAmounts...)
			},
		},
	)
}
