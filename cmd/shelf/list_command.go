package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/shelf/internal/catalog"
	"github.com/simp-lee/shelf/internal/ingest"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalogued books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store *catalog.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if records == nil {
						records = []ingest.CatalogRecord{}
					}
					return writeJSON(cmd, records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					cover := "-"
					if rec.HasCover() {
						cover = "yes"
					}
					rows = append(rows, []string{rec.ID, rec.Title, valueOr(rec.Author, "-"), cover})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Author", "Cover"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}
