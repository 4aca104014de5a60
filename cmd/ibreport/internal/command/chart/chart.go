// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package chart implements the "chart" command group.
package chart

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart/chartcalendar"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart/chartcategories"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart/chartdividends"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart/chartflow"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/chart/charttop"
)

// NewCommand returns a new chart command group.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Derive chart data from an IBKR export",
		SubCommands: []*appcmd.Command{
			chartcalendar.NewCommand("calendar", builder),
			chartcategories.NewCommand("categories", builder),
			chartdividends.NewCommand("dividends", builder),
			chartflow.NewCommand("flow", builder),
			charttop.NewCommand("top", builder),
		},
	}
}
