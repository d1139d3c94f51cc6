package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCommand() *cobra.Command {
	var (
		collection  string
		limit       int
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question about an indexed crash log",
		Long: `Ask a question over an indexed collection. The server retrieves the
most relevant log excerpts and generates a structured crash analysis
grounded in them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			result, err := newClient().Query(cmd.Context(), question, collection, limit)
			if err != nil {
				return err
			}

			fmt.Println(result.Answer)

			if showSources {
				fmt.Println()
				for i, src := range result.Sources {
					fmt.Printf("--- source %d (score %.3f, %s) ---\n", i+1, src.Score, src.Source)
					fmt.Println(src.Content)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection to query (server default if empty)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "number of excerpts to retrieve (server default if 0)")
	cmd.Flags().BoolVar(&showSources, "show-sources", false, "print the retrieved excerpts after the answer")

	return cmd
}
