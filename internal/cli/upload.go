package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
)

func newUploadCmd() *cobra.Command {
	var (
		storeArg    string
		displayName string
		title       string
		author      string
		year        float64
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload and index a document",
		Example: `  tome upload notes.txt
  tome upload pride.txt --store classics --title "Pride and Prejudice" --author "Jane Austen" --year 1813`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			c, err := newClient(cfg, newSession(cfg))
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var store string
			if storeArg != "" {
				store, err = resolveStore(ctx, c, storeArg)
			} else {
				store, err = ensureStore(ctx, c, cfg.Stores.UploadsDisplayName)
			}
			if err != nil {
				return err
			}

			var meta []domain.CustomMetadata
			if title != "" {
				meta = append(meta, domain.StringMeta("title", title))
			}
			if author != "" {
				meta = append(meta, domain.StringMeta("author", author))
			}
			if cmd.Flags().Changed("year") {
				meta = append(meta, domain.NumericMeta("year", year))
			}

			var op *client.Operation
			if len(meta) > 0 {
				// Metadata rides on the import step, not the raw upload.
				fileName, err := c.UploadFile(ctx, args[0], displayName)
				if err != nil {
					return err
				}
				op, err = c.ImportFile(ctx, store, fileName, meta)
				if err != nil {
					return err
				}
			} else {
				op, err = c.UploadToStore(ctx, store, args[0], client.UploadConfig{
					DisplayName: displayName,
					Chunking: &client.ChunkingConfig{
						MaxTokensPerChunk: cfg.Chunking.MaxTokensPerChunk,
						MaxOverlapTokens:  cfg.Chunking.MaxOverlapTokens,
					},
				})
				if err != nil {
					return err
				}
			}

			fmt.Printf("indexing into %s...\n", store)
			if err := waitForJob(ctx, cfg, c.NewIndexJob(*op, cfg.PollTimeout())); err != nil {
				return err
			}
			fmt.Println("indexed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&storeArg, "store", "s", "", "target store (resource or display name; default: the uploads store)")
	cmd.Flags().StringVar(&displayName, "name", "", "display name for the document (default: file name)")
	cmd.Flags().StringVar(&title, "title", "", "title metadata (filterable)")
	cmd.Flags().StringVar(&author, "author", "", "author metadata (filterable)")
	cmd.Flags().Float64Var(&year, "year", 0, "year metadata (filterable, numeric)")
	return cmd
}
