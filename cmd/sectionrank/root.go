package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/sectionrank/sectionrank/internal/config"
	"github.com/sectionrank/sectionrank/internal/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "sectionrank",
	Short: "Persona-driven section ranking for document collections",
	Long: `sectionrank segments documents into titled sections, embeds them, and
ranks the most relevant sections and passages for a persona and the job they
need to get done.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("sectionrank %s\n", version.String()))
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
}

// Execute runs the root command.
func Execute() {
	// A missing .env file is fine; environment variables still apply.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("SECTIONRANK_CONFIG")
	}
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}
