package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"signedsubmit/internal/engine/canonical"
	"signedsubmit/internal/engine/signing"
	"signedsubmit/internal/platform/config"
)

func newSignCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the canonical form and signature header of a JSON object",
		Long: "sign reads a JSON object of string values from the file argument or stdin, " +
			"prints its canonical encoding and the X-Signature-256 header computed with SIGNING_SECRET.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewLoader(*configPath)
			if err != nil {
				return err
			}
			secret, err := loader.SigningSecret()
			if err != nil {
				return err
			}

			var raw []byte
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			var fields map[string]string
			if err := json.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("input must be a JSON object of strings: %w", err)
			}

			body, err := canonical.Marshal(fields)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", body)
			fmt.Fprintf(out, "%s: %s\n", signing.HeaderName, signing.Header(signing.Sign(secret, body)))
			return nil
		},
	}
}
