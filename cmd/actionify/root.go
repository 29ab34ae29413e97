package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/pkg/config"
	"github.com/johnquangdev/meeting-analysis/pkg/logger"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "actionify",
		Short:         "Turn meeting recordings and transcripts into actionable reports",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(newServeCmd(a), newAnalyzeCmd(a))
	return root
}
