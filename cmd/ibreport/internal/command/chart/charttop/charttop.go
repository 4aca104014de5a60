// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package charttop implements the "chart top" command.
package charttop

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

// limitFlagName is the flag name for the number of symbols shown.
const limitFlagName = "limit"

// NewCommand returns a new chart top command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "Show the symbols with the largest realized gains plus dividends",
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
	// Limit is the number of symbols shown before the rest are grouped, or 0 for the configured top_n.
	Limit int
}

func newFlags() *flags {
	return &flags{
		Output: ibreportcmd.NewOutputFlags(),
	}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	f.Output.Bind(flagSet)
	flagSet.IntVar(&f.Limit, limitFlagName, 0, "The number of symbols shown before the rest are grouped as Other (default top_n from ibreport.yaml)")
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	if flags.Limit < 0 {
		return appcmd.NewInvalidArgumentErrorf("--%s must not be negative", limitFlagName)
	}
	session, err := ibreportcmd.LoadSession(ctx, container, flags.Output.Dir, container.Arg(0))
	if err != nil {
		return err
	}
	limit := flags.Limit
	if limit == 0 {
		limit = session.Config.TopN
	}
	symbolAmounts, err := session.Store.TopPerformers(ctx, limit)
	if err != nil {
		return err
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Top",
			Headers: ibreportaggregate.SymbolAmountHeaders(),
			Rows:    ibreportcmd.ToRows(symbolAmounts, ibreportaggregate.SymbolAmountToRow),
			WriteJSON: func(writer io.Writer) error {
				return cliio.WriteJSON(writer, symbolAmounts...)
			},
		},
	)
}
