package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Password reset email sent")
		return nil
	},
}

var confirmResetCmd = &cobra.Command{
	Use:   "confirm-reset <uid> <token>",
	Short: "Complete a password reset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := prompt("New password: ")
		if err := sessions.ConfirmPasswordReset(cmd.Context(), args[0], args[1], password); err != nil {
			return err
		}
		fmt.Println("Password has been reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetPasswordCmd, confirmResetCmd)
}
