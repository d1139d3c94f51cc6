package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := newClient().Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("status: %s\n", report.Status)

			names := make([]string, 0, len(report.Checks))
			for name := range report.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-10s %s\n", name, report.Checks[name])
			}

			if report.Status != "ok" {
				return fmt.Errorf("service degraded")
			}
			return nil
		},
	}
}
