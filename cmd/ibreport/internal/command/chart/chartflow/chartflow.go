// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package chartflow implements the "chart flow" command.
package chartflow

import (
	"context"
	"io"
	"slices"
	"strings"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/ibreportcmd"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportaggregate"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportstore"
	"github.com/bufdev/ibreport/internal/pkg/cliio"
	"github.com/spf13/pflag"
)

// byFlagName is the flag name for the flow grouping.
const byFlagName = "by"

const (
	byTotal    = "total"
	bySymbol   = "symbol"
	byCategory = "category"
)

// NewCommand returns a new chart flow command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "Show how income flows into the total, as Sankey links",
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
	// By is the flow grouping (total, symbol, category).
	By string
}

func newFlags() *flags {
	return &flags{
		Output: ibreportcmd.NewOutputFlags(),
	}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	f.Output.Bind(flagSet)
	flagSet.StringVar(&f.By, byFlagName, byTotal, "Flow grouping (total, symbol, category)")
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	by := strings.ToLower(flags.By)
	if !slices.Contains([]string{byTotal, bySymbol, byCategory}, by) {
		return appcmd.NewInvalidArgumentErrorf("unknown --%s %q, must be one of: %s, %s, %s", byFlagName, flags.By, byTotal, bySymbol, byCategory)
	}
	session, err := ibreportcmd.LoadSession(ctx, container, flags.Output.Dir, container.Arg(0))
	if err != nil {
		return err
	}
	flow, err := getFlow(ctx, session.Store, by)
	if err != nil {
		return err
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Flow",
			Headers: ibreportaggregate.LinkHeaders(),
			Rows:    ibreportcmd.ToRows(flow.Links, ibreportaggregate.LinkToRow),
			WriteJSON: func(writer io.Writer) error {
				return cliio.WriteJSON(writer, flow)
			},
		},
	)
}

func getFlow(ctx context.Context, store *ibreportstore.Store, by string) (*ibreportaggregate.Flow, error) {
	switch by {
	case bySymbol:
		return store.SymbolFlow(ctx)
	case byCategory:
		return store.CategoryFlow(ctx)
	default:
		return store.IncomeFlow(ctx)
	}
}
