// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command portal is the operator CLI for the Breakfast Budget Club portal.
//
//	portal serve                                  run the HTTP server
//	portal migrate up                             apply pending migrations
//	portal users list                             print every member
//	portal users promote --email a@b --role owner set a member's role
//
// A .env file in the working directory is loaded before every command.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/config"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
)

var rootCmd = &cobra.Command{
	Use:           "portal",
	Short:         "Breakfast Budget Club portal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn("dotenv_load_failed", slog.Any("error", err))
		}
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, usersCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		newLogger(false).Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// loadConfig parses the environment and builds the matching logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := newLogger(cfg.Debug)
	slog.SetDefault(log)
	return cfg, log, nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}
