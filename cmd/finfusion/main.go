package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/internal/cli"
	"github.com/KotFed0t/finfusion/internal/metrics"
	"github.com/google/subcommands"
)

func main() {
	os.Exit(int(run()))
}

func run() subcommands.ExitStatus {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	creds := &cli.Credentials{}
	creds.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := cli.NewApp(loadConfig, creds, metrics.New(), os.Stdin, os.Stdout, os.Stderr)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Close(shutdownCtx)
	}()
	app.Register(commander)

	flag.Parse()
	return commander.Execute(ctx)
}

// loadConfig runs only when a command needs the backend, so help works without any env set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnvFile(".env")
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	return cfg, nil
}

// setupLogger writes JSON logs to stderr so they never mix with command output.
func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
