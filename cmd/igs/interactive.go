package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cortexai/igs/internal/llm"
	"github.com/cortexai/igs/internal/repl"
	"github.com/cortexai/igs/internal/service"
)

func runInteractive(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Keep the session readable unless a level was asked for.
	level := "warn"
	if cmd.Flags().Changed("log-level") {
		level = cfg.LogLevel
	}
	setupLogging(level, true)

	session := repl.New(os.Stdin, os.Stdout)

	provider := strings.ToLower(cfg.GenerativeProvider)
	if (provider == llm.BackendOpenAI || provider == "") && cfg.OpenAIAPIKey == "" {
		key, err := session.ReadAPIKey()
		if err != nil {
			return err
		}
		cfg.OpenAIAPIKey = key
	}

	ctx := cmd.Context()
	return session.Run(ctx, service.NewDispatcherFromConfig(ctx, cfg))
}
