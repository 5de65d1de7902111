package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List library sections and whether they will be synced",
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := ctx.libraryClient()
			if err != nil {
				return err
			}
			if err := library.Check(cmd.Context()); err != nil {
				return fmt.Errorf("plex server unreachable: %w", err)
			}

			sections, err := library.Sections(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				synced := "no"
				if section.Kind.Supported() {
					synced = "yes"
				}
				rows = append(rows, []string{
					section.Key,
					section.Title,
					kindLabel(string(section.Kind)),
					synced,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Kind", "Synced"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
