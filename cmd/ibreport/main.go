// Copyright 2026 Peter Edge
//
// All rights reserved.

package main

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/config"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/section"
)

func main() {
	appcmd.Main(context.Background(), newRootCommand("ibreport"))
}

// newRootCommand creates the root ibreport command with all sub-commands.
func newRootCommand(name string) *appcmd.Command {
	builder := appext.NewBuilder(name)
	return &appcmd.Command{
		Use:   name,
		Short: "Inspect and query Interactive Brokers CSV exports",
		Long: `Inspect and query Interactive Brokers CSV exports.

Both Activity Statement exports and Flex Query CSV exports (with BOF/BOA/BOS
marker rows) are supported. The layout is detected from the first row unless
format is set in ibreport.yaml.

FILE arguments that do not exist are also looked up in the statements
directory of the ibreport directory (--dir).`,
		BindPersistentFlags: builder.BindRoot,
		SubCommands: []*appcmd.Command{
			chart.NewCommand("chart", builder),
			config.NewCommand("config", builder),
			query.NewCommand("query", builder),
			section.NewCommand("section", builder),
		},
	}
}
