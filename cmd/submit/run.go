package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"signedsubmit/internal/engine/submission"
	"signedsubmit/internal/platform/config"
	"signedsubmit/internal/pkg/logger"
)

func runSubmit(cmd *cobra.Command, configPath string, dryRun bool) error {
	loader, err := config.NewLoader(configPath)
	if err != nil {
		return err
	}
	logger.Init(loader.Logging())

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	client := submission.NewClient(cfg.Submission.Endpoint, cfg.Submission.Timeout)
	svc := submission.NewService(cfg, client)
	out := cmd.OutOrStdout()

	if dryRun {
		prepared, err := svc.Prepare()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Endpoint: %s\n", cfg.Submission.Endpoint)
		fmt.Fprintf(out, "Body: %s\n", prepared.Body)
		fmt.Fprintf(out, "X-Signature-256: %s\n", prepared.Signature)
		return nil
	}

	result, err := svc.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Receipt: %s\n", result.Receipt)
	return nil
}
