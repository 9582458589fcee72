// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/config"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending up migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DocumentStore != config.DocumentStorePostgres {
			return errors.New("migrate up needs DOCUMENT_STORE=postgres")
		}
		return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}
