package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage indexed collections",
	}

	cmd.AddCommand(newCollectionsListCommand())
	cmd.AddCommand(newCollectionsInfoCommand())
	cmd.AddCommand(newCollectionsDeleteCommand())

	return cmd
}

func newCollectionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := newClient().ListCollections(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no collections")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newCollectionsInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show collection details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := newClient().GetCollection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("name:    %s\n", info.Name)
			fmt.Printf("vectors: %d\n", info.VectorsCount)
			fmt.Printf("status:  %s\n", info.Status)
			return nil
		},
	}
}

func newCollectionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a collection and all its indexed chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteCollection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("collection %q deleted\n", args[0])
			return nil
		},
	}
}
