package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/filter"
)

func newAskCmd() *cobra.Command {
	var (
		storeArg      string
		filterArgs    []string
		showGrounding bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a grounded question against a store",
		Example: `  tome ask "Who is Mr. Darcy?" --store file-search-samples
  tome ask "What is the white whale?" -s classics -f 'author=Herman Melville' -f 'year>=1850'`,
		Args: cobra.MinimumNArgs(1),
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

			if storeArg == "" {
				return fmt.Errorf("--store / -s is required; try 'tome stores list'")
			}
			store, err := resolveStore(ctx, c, storeArg)
			if err != nil {
				return err
			}

			clauses := make([]filter.Clause, 0, len(filterArgs))
			for _, arg := range filterArgs {
				clause, err := filter.Parse(arg)
				if err != nil {
					return err
				}
				clauses = append(clauses, clause)
			}
			metadataFilter, err := filter.Build(clauses)
			if err != nil {
				return err
			}

			answer, err := c.Ask(ctx, client.AskRequest{
				Model:          cfg.API.Model,
				StoreName:      store,
				Question:       strings.Join(args, " "),
				MetadataFilter: metadataFilter,
			})
			if err != nil {
				return err
			}

			fmt.Println(answer.Text)
			if showGrounding {
				fmt.Println()
				fmt.Println(answer.GroundingJSON())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&storeArg, "store", "s", "", "store to ask (resource or display name)")
	cmd.Flags().StringArrayVarP(&filterArgs, "filter", "f", nil, "metadata filter clause, e.g. 'author=Jane Austen' or 'year>=1800' (repeatable, joined with AND)")
	cmd.Flags().BoolVar(&showGrounding, "grounding", false, "print the raw grounding metadata after the answer")
	return cmd
}
