package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebwray/tome/internal/samples"
)

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Show the local sample documents",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			statuses := samples.Scan(cfg.SamplesDir)
			for _, st := range statuses {
				mark := "✗"
				detail := "missing"
				if st.Present {
					mark = "✓"
					detail = samples.HumanSize(st.Size)
				}
				fmt.Printf("%s %s — %s (%d)  %s\n", mark, st.Spec.Title, st.Spec.Author, st.Spec.Year, detail)
			}
			if tree, err := samples.Tree(cfg.SamplesDir); err == nil {
				fmt.Println()
				fmt.Print(tree)
			}
			return nil
		},
	}
	cmd.AddCommand(newSamplesIndexCmd())
	return cmd
}

func newSamplesIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index all sample documents into the samples store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			c, err := newClient(cfg, newSession(cfg))
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			present := samples.Present(samples.Scan(cfg.SamplesDir))
			if len(present) == 0 {
				return fmt.Errorf("no sample files found in %s", cfg.SamplesDir)
			}

			store, err := ensureStore(ctx, c, cfg.Stores.SamplesDisplayName)
			if err != nil {
				return err
			}
			fmt.Printf("indexing %d samples into %s\n", len(present), store)

			for _, st := range present {
				fmt.Printf("  %s... ", st.Spec.Title)
				fileName, err := c.UploadFile(ctx, st.Path, st.Spec.Path)
				if err != nil {
					fmt.Printf("failed: %v\n", err)
					continue
				}
				op, err := c.ImportFile(ctx, store, fileName, st.Spec.Metadata(st.Path))
				if err != nil {
					fmt.Printf("failed: %v\n", err)
					continue
				}
				if err := waitForJob(ctx, cfg, c.NewIndexJob(*op, cfg.PollTimeout())); err != nil {
					fmt.Printf("failed: %v\n", err)
					continue
				}
				fmt.Println("indexed")
			}
			return nil
		},
	}
}
