package main

import (
	"fmt"

	"bulletin/internal/repository"
	"bulletin/internal/service"

	"github.com/spf13/cobra"
)

var (
	userEmail string
	userStaff bool
)

func init() {
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "email address of the user")
	createUserCmd.Flags().BoolVar(&userStaff, "staff", false, "grant permission to manage announcements")

	rootCmd.AddCommand(createUserCmd)
}

var createUserCmd = &cobra.Command{
	Use:   "createuser USERNAME PASSWORD",
	Short: "create a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer db.Close()

		users := service.NewUserService(repository.NewUserRepository(db), logger)
		user, err := users.Create(cmd.Context(), args[0], userEmail, args[1], userStaff)
		if err != nil {
			return err
		}

		logger.Info("用户已创建", "user_id", user.ID, "staff", user.IsStaff)
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", user.ID, user.Token)
		return nil
	},
}
