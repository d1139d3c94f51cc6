// Package cli implements the crashctl command line client.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/crashlens/crashlens/internal/version"
	crashlens "github.com/crashlens/crashlens/pkg/sdk"
)

var (
	serverURL  string
	apiKey     string
	timeoutSec int
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crashctl",
		Short: "Client for the crashlens crash log analysis service",
		Long: `crashctl uploads crash logs to a crashlens server and asks questions
about them. Answers are grounded in the indexed log content and cite
the excerpts they are based on.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s",
		envOr("CRASHLENS_SERVER", "http://localhost:8000"), "crashlens server URL")
	rootCmd.PersistentFlags().StringVar(&apiKey,
		"api-key", os.Getenv("CRASHLENS_API_KEY"), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().IntVar(&timeoutSec,
		"timeout", 300, "request timeout in seconds")

	rootCmd.AddCommand(newUploadCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newCollectionsCommand())
	rootCmd.AddCommand(newHealthCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("crashctl %s (%s) built on %s\n", version.Version, version.Commit, version.Date)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// newClient builds an SDK client from the global flags.
func newClient() *crashlens.Client {
	opts := []crashlens.Option{
		crashlens.WithTimeout(time.Duration(timeoutSec) * time.Second),
	}
	if apiKey != "" {
		opts = append(opts, crashlens.WithAPIKey(apiKey))
	}
	return crashlens.New(serverURL, opts...)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
