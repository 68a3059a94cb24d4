package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sectionrank/sectionrank/internal/collection"
	"github.com/sectionrank/sectionrank/internal/inference"
	"github.com/spf13/cobra"
)

var (
	rankInputDir  string
	rankOutputDir string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank every collection under the input directory",
	Long: `Discover collections (directories holding a query.json plus documents)
under the input directory, rank each one, and write a report per collection to
the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if rankInputDir != "" {
			cfg.InputDir = rankInputDir
		}
		if rankOutputDir != "" {
			cfg.OutputDir = rankOutputDir
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

		dirs, err := collection.Discover(cfg.InputDir)
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			return fmt.Errorf("no collections with a %s found in %s", collection.QueryFileName, cfg.InputDir)
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, dir := range dirs {
			report, err := runner.Process(ctx, dir)
			if err != nil {
				log.Error("collection failed", "collection", filepath.Base(dir), "error", err)
				failed++
				continue
			}
			printSummary(out, filepath.Base(dir), report)
		}
		if failed == len(dirs) {
			return fmt.Errorf("all %d collections failed", len(dirs))
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().StringVarP(&rankInputDir, "input", "i", "", "Input directory holding collections (overrides config)")
	rankCmd.Flags().StringVarP(&rankOutputDir, "output", "o", "", "Output directory for reports (overrides config)")
	rootCmd.AddCommand(rankCmd)
}
