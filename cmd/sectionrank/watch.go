package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sectionrank/sectionrank/internal/collection"
	"github.com/sectionrank/sectionrank/internal/inference"
	"github.com/sectionrank/sectionrank/internal/watch"
	"github.com/spf13/cobra"
)

var watchInputDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and rank collections as they arrive",
	Long: `Monitor the input directory; whenever a collection's query.json is
created or rewritten, rank that collection and write its report. Runs until
interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if watchInputDir != "" {
			cfg.InputDir = watchInputDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := newLogger()
		rt := inference.NewRuntime(cfg, log)
		defer rt.Close()
		runner := collection.NewRunner(cfg, rt, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(log)
		if err != nil {
			return err
		}
		defer w.Close()

		ready, err := w.Watch(ctx, cfg.InputDir)
		if err != nil {
			return err
		}

		log.Info("watching for collections", "dir", cfg.InputDir)
		out := cmd.OutOrStdout()
		for dir := range ready {
			report, err := runner.Process(ctx, dir)
			if err != nil {
				log.Error("collection failed", "collection", filepath.Base(dir), "error", err)
				continue
			}
			printSummary(out, filepath.Base(dir), report)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchInputDir, "input", "i", "", "Input directory to watch (overrides config)")
	rootCmd.AddCommand(watchCmd)
}
