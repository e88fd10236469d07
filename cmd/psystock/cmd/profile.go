package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/internal/utils"
)

var (
	profileEmail     string
	profileFirstName string
	profileLastName  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the account profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		update := apimodel.ProfileUpdate{}
		if cmd.Flags().Changed("email") {
			update.Email = utils.Ptr(profileEmail)
		}
		if cmd.Flags().Changed("first-name") {
			update.FirstName = utils.Ptr(profileFirstName)
		}
		if cmd.Flags().Changed("last-name") {
			update.LastName = utils.Ptr(profileLastName)
		}

		user, err := sessions.UpdateProfile(cmd.Context(), update)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "new email address")
	profileCmd.Flags().StringVar(&profileFirstName, "first-name", "", "new first name")
	profileCmd.Flags().StringVar(&profileLastName, "last-name", "", "new last name")
	rootCmd.AddCommand(profileCmd)
}
