package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCommand() *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a crash log for indexing",
		Long: `Upload a crash log file to the server. The file is chunked, embedded
and indexed under the given collection, replacing any previous content
of that collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().UploadFile(cmd.Context(), args[0], collection)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", result.Message)
			fmt.Printf("collection: %s\n", result.CollectionName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "target collection (server default if empty)")

	return cmd
}
