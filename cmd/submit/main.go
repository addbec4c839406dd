// Package main provides the command that signs and sends an application submission.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Sign and submit an application payload",
		Long: "submit builds the application payload from the environment, verifies the signing " +
			"pipeline against a known fixture, signs the canonical JSON with HMAC-SHA256 and " +
			"POSTs it to the submission endpoint, printing the receipt.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, configPath, dryRun)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file; environment variables take precedence")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build and sign the payload but do not send it")

	cmd.AddCommand(newSelfCheckCmd(&configPath))
	cmd.AddCommand(newSignCmd(&configPath))

	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
