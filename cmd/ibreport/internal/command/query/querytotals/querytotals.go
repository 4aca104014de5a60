// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package querytotals implements the "query totals" command.
package querytotals

import (
	"context"
	"io"
	"maps"
	"slices"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/ibreport/cmd/ibreport/internal/ibreportcmd"
	"github.com/bufdev/ibreport/internal/ibreport/ibreportparse"
	"github.com/bufdev/ibreport/internal/pkg/recordpb"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/types/known/structpb"
)

// NewCommand returns a new query totals command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " FILE",
		Short: "List the totals of every section",
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
	sectionKeyToTotal, err := session.Store.Totals(ctx)
	if err != nil {
		return err
	}
	sectionKeys := slices.Sorted(maps.Keys(sectionKeyToTotal))
	return ibreportcmd.WriteTable(
		container,
		flags.Output,
		&ibreportcmd.Table{
			Name:    "Totals",
			Headers: []string{"SECTION", "CATEGORY", "FIELD", "VALUE"},
			Rows:    totalsToRows(sectionKeys, sectionKeyToTotal),
			WriteJSON: func(writer io.Writer) error {
				return recordpb.WriteMessagesJSON(writer, totalsToStructs(sectionKeys, sectionKeyToTotal))
			},
		},
	)
}

// totalsToRows returns one row per scalar total, and one row per field of each category
// of a nested total.
func totalsToRows(sectionKeys []string, sectionKeyToTotal map[string]ibreportparse.Total) [][]string {
	var rows [][]string
	for _, sectionKey := range sectionKeys {
		total := sectionKeyToTotal[sectionKey]
		if !total.IsNested() {
			rows = append(rows, []string{sectionKey, "", "", total.Value.String()})
			continue
		}
		for _, category := range slices.Sorted(maps.Keys(total.ByCategory)) {
			record := total.ByCategory[category]
			for _, key := range record.Keys() {
				if value := record.Get(key); !value.IsNull() {
					rows = append(rows, []string{sectionKey, category, key, value.String()})
				}
			}
		}
	}
	return rows
}

func totalsToStructs(sectionKeys []string, sectionKeyToTotal map[string]ibreportparse.Total) []*structpb.Struct {
	structs := make([]*structpb.Struct, 0, len(sectionKeys))
	for _, sectionKey := range sectionKeys {
		total := sectionKeyToTotal[sectionKey]
		fields := map[string]*structpb.Value{
			"section": structpb.NewStringValue(sectionKey),
		}
		if total.IsNested() {
			byCategory := make(map[string]*structpb.Value, len(total.ByCategory))
			for category, record := range total.ByCategory {
				byCategory[category] = structpb.NewStructValue(recordpb.ToStruct(record))
			}
			fields["by_category"] = structpb.NewStructValue(&structpb.Struct{Fields: byCategory})
		} else {
			fields["value"] = recordpb.ToValue(total.Value)
		}
		structs = append(structs, &structpb.Struct{Fields: fields})
	}
	return structs
}
