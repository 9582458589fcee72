// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leoFagundes/breakfast-budget-club/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		startupCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		app, err := api.Open(startupCtx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return app.Run(runCtx)
	},
}
