package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/putchi/bedrock-slack-bot-integration/internal/config"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "slackbridge",
		Short: "Slack to Bedrock agent bridge",
		Long:  "slackbridge receives Slack message events, deduplicates them via Redis, asks a Bedrock agent, and replies in-thread.",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("slackbridge v%s\n", version)
		},
	}
}

// loadConfig reads a local .env when present, then the process environment.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}
	return config.Load(os.LookupEnv)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
