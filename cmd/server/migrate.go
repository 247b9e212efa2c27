package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studydesk/backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		switch args[0] {
		case "up":
			err = database.Migrate(db)
		case "down":
			err = database.Rollback(db)
		}
		if err != nil {
			return err
		}
		fmt.Printf("migrate %s: done\n", args[0])
		return nil
	},
}
