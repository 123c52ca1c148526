package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/logger"
)

// log is replaced by setup; until then failures go to stderr.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var (
	cfgPath string
	cfg     *config.Config
	logFile io.Closer

	rootCmd = &cobra.Command{
		Use:           "bot",
		Short:         "CryptoSentinel scores crypto markets and backtests the scoring",
		Long:          `CryptoSentinel turns exchange candles into BUY/SELL/HOLD signals with risk-managed trade plans, and replays the same logic over history to size positions from its measured win rate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code. A failure
// is logged at fatal level before the log file is closed.
func run() int {
	err := rootCmd.Execute()
	if err != nil {
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("bot failed")
	}
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return setup(cmd.Name() != serveCmd.Name())
	}
	rootCmd.AddCommand(serveCmd, analyzeCmd, backtestCmd)
}

// setup loads and validates the config and builds the logger. One-shot
// commands keep stdout for their JSON output, so their logs go to stderr.
func setup(oneShot bool) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	lc := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	if oneShot && (lc.Output == "" || lc.Output == "stdout") {
		lc.Output = "stderr"
	}
	log, logFile, err = logger.New(lc)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Debug().Str("config", path).Msg("configuration loaded")
	return nil
}
