package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simp-lee/shelf/internal/catalog"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cover ID IMAGE",
		Short: "Replace a book's cover with an image file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, imagePath := args[0], args[1]

			log, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			im, err := ctx.importer(log)
			if err != nil {
				return err
			}

			return ctx.withStore(cmd.Context(), func(store *catalog.Store) error {
				if _, err := store.Get(cmd.Context(), id); err != nil {
					return err
				}
				blob, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				coverPath, err := im.ProcessCoverBlob(cmd.Context(), id, blob)
				if err != nil {
					return err
				}
				if err := store.UpdateCover(cmd.Context(), id, coverPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cover for %s written to %s\n", id, coverPath)
				return nil
			})
		},
	}
}
