package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprintforge/sprintforge/pkg/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage team members",
}

var userRole string

var userAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		user := models.User{Username: args[0], Password: args[1], Role: models.Role(userRole)}
		if err := eng.AddUser(user); err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()
		return eng.RemoveUser(args[0])
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd <username> <new-password>",
	Short: "Change a team member's password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()
		return eng.ChangePassword(args[0], args[1])
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Verify a username/password pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		user, err := eng.Authenticate(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		for _, u := range eng.Users() {
			fmt.Printf("%-20s %s\n", u.Username, u.Role)
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", string(models.RoleUser), "role (Admin or User)")

	userCmd.AddCommand(userAddCmd, userRemoveCmd, userPasswdCmd, userLoginCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}
