// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package query implements the "query" command group.
package query

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querycash"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querydividends"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querygains"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querypositions"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querytaxes"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querytotals"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/query/querytrades"
)

// NewCommand returns a new query command group.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Query typed records of an IBKR export",
		SubCommands: []*appcmd.Command{
			querycash.NewCommand("cash", builder),
			querydividends.NewCommand("dividends", builder),
			querygains.NewCommand("gains", builder),
			querypositions.NewCommand("positions", builder),
			querytaxes.NewCommand("taxes", builder),
			querytotals.NewCommand("totals", builder),
			querytrades.NewCommand("trades", builder),
		},
	}
}
