// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package section implements the "section" command group.
package section

import (
	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/section/sectionlist"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/command/section/sectionshow"
)

// NewCommand returns a new section command group.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	return &appcmd.Command{
		Use:   name,
		Short: "Inspect the raw sections of an IBKR export",
		SubCommands: []*appcmd.Command{
			sectionlist.NewCommand("list", builder),
			sectionshow.NewCommand("show", builder),
		},
	}
}
