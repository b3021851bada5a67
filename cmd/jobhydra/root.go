package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobhydra/internal/config"
)

var (
	cfgPath string
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobhydra",
	Short: "Scheduled job discovery with AI screening",
	Long: "jobhydra gathers listings from search, feeds, scraped pages and job boards, " +
		"screens them against your profile with a language model, and alerts you to the matches.",
	SilenceUsage: true,
	// Default to `run` so a cron entry can invoke the bare binary.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBHYDRA_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config is expanded")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBHYDRA_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	if path == "" {
		if env := os.Getenv("JOBHYDRA_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
