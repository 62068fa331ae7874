package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Manage file search stores",
	}
	cmd.AddCommand(newStoresListCmd())
	cmd.AddCommand(newStoresCreateCmd())
	cmd.AddCommand(newStoresDeleteCmd())
	return cmd
}

func newStoresListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your file search stores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			c, err := newClient(cfg, newSession(cfg))
			if err != nil {
				return err
			}
			stores, err := c.ListStores(cmd.Context())
			if err != nil {
				return err
			}
			if len(stores) == 0 {
				fmt.Println("no stores")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISPLAY NAME\tCREATED")
			for _, s := range stores {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.DisplayName, s.CreateTime)
			}
			return w.Flush()
		},
	}
}

func newStoresCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <display-name>",
		Short: "Create a new file search store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			c, err := newClient(cfg, newSession(cfg))
			if err != nil {
				return err
			}
			ref, err := c.CreateStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", ref.DisplayName, ref.Name)
			return nil
		},
	}
}

func newStoresDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a store and everything indexed in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deleting %s removes all indexed documents; re-run with --yes", args[0])
			}
			c, err := newClient(cfg, newSession(cfg))
			if err != nil {
				return err
			}
			if err := c.DeleteStore(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
