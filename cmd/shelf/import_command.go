package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/shelf/internal/catalog"
	"github.com/simp-lee/shelf/internal/ingest"
)

type importResult struct {
	path string
	rec  ingest.CatalogRecord
	err  error
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import ePub files into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			im, err := ctx.importer(log)
			if err != nil {
				return err
			}

			var results []importResult
			err = ctx.withStore(cmd.Context(), func(store *catalog.Store) error {
				results = make([]importResult, len(args))

				g, gctx := errgroup.WithContext(cmd.Context())
				g.SetLimit(cfg.Import.Workers)
				for i, path := range args {
					g.Go(func() error {
						res := importResult{path: path}
						res.rec, res.err = im.ImportBook(gctx, path)
						if res.err == nil {
							res.err = store.Save(gctx, res.rec)
						}
						results[i] = res
						// Failures are per file; only cancellation stops the batch.
						return gctx.Err()
					})
				}
				return g.Wait()
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, importedRecords(results))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderImportResults(results))

			if failed := countFailed(results); failed > 0 {
				return fmt.Errorf("%d of %d imports failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print imported records as JSON")
	return cmd
}

func renderImportResults(results []importResult) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			rows = append(rows, []string{filepath.Base(res.path), "", "", "", "error: " + res.err.Error()})
			continue
		}
		cover := "no cover"
		if res.rec.HasCover() {
			cover = "ok"
		}
		rows = append(rows, []string{
			filepath.Base(res.path),
			res.rec.ID,
			res.rec.Title,
			valueOr(res.rec.Author, "-"),
			cover,
		})
	}
	return renderTable([]string{"File", "ID", "Title", "Author", "Status"}, rows)
}

func importedRecords(results []importResult) []ingest.CatalogRecord {
	out := make([]ingest.CatalogRecord, 0, len(results))
	for _, res := range results {
		if res.err == nil {
			out = append(out, res.rec)
		}
	}
	return out
}

func countFailed(results []importResult) int {
	n := 0
	for _, res := range results {
		if res.err != nil {
			n++
		}
	}
	return n
}
