package main

import (
	"encoding/json"
	"fmt"

	"placement-advisor/internal/common/config"
	"placement-advisor/internal/common/database"
	"placement-advisor/internal/store"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the prediction audit log",
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recent audited predictions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		limit, _ := cmd.Flags().GetInt("limit")

		var (
			cfg *config.Config
			err error
		)
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if !cfg.Database.Postgres.Enabled {
			return fmt.Errorf("database.postgres is not enabled in the configuration")
		}

		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()

		records, err := store.NewAuditRepository(pg.DB).Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

func init() {
	auditRecentCmd.Flags().String("config", "", "config file (default is configs/config.yaml)")
	auditRecentCmd.Flags().IntP("limit", "n", 20, "number of records")

	auditCmd.AddCommand(auditRecentCmd)
	rootCmd.AddCommand(auditCmd)
}
