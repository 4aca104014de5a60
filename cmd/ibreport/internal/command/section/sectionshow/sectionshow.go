// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package sectionshow implements the "section show" command.
package sectionshow

import (
	"context"
	"io"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/ibreportcmd"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportquery"
	"github.com/bufdev/ibreport/internal/pkg/recordpb"
	"github.com/spf13/pflag"
)

// NewCommand returns a new section show command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE SECTION",
		Short: "Show the records of a section",
		Long: `Show the records of a section.

The section may be given by its name as it appears in the export, such as
"Statement of Funds", or by its key, such as statementOfFunds.`,
		Args: appcmd.ExactArgs(2),
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
	section, err := session.Store.SectionData(ctx, container.Arg(1))
	if err != nil {
		return err
	}
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    section.Name,
			Headers: section.Headers,
			Rows:    ibreportquery.RecordsToRows(section.Headers, section.Records),
			WriteJSON: func(writer io.Writer) error {
				return recordpb.WriteRecordsJSON(writer, section.Records)
			},
		},
	)
}
