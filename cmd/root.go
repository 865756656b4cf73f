package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "courtpipe",
	Short: "Legal document enhancement pipeline",
	Long:  "Classifies court documents, resolves courts and judges, extracts and normalizes citations, and persists deduplicated enhanced records with per-batch verification.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
