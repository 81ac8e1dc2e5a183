package main

import (
	"bulletin/pkg/database"

	"github.com/spf13/cobra"
)

var rollbackSteps int

func init() {
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "roll back the given number of migrations instead of applying them")

	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply or roll back database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer db.Close()

		if rollbackSteps > 0 {
			if err := database.Rollback(db, rollbackSteps); err != nil {
				return err
			}
			logger.Info("数据库回滚完成", "steps", rollbackSteps)
			return nil
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("数据库迁移完成")
		return nil
	},
}
