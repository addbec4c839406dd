package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"signedsubmit/internal/engine/submission"
	"signedsubmit/internal/platform/config"
)

func newSelfCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Verify canonicalization and signing against the built-in fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewLoader(*configPath)
			if err != nil {
				return err
			}
			secret, err := loader.SigningSecret()
			if err != nil {
				return err
			}
			if err := submission.SelfCheck(secret); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Self-check passed: %s\n", submission.FixtureDigest)
			return nil
		},
	}
}
