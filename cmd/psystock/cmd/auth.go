package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/session"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Psystock backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		displayAppname(cfg.GetAppName())

		username := loginUsername
		password := loginPassword
		if username == "" {
			username = prompt("Username: ")
		}
		if password == "" {
			password = prompt("Password: ")
		}

		user, err := sessions.Login(cmd.Context(), session.Credentials{
			Username: username,
			Password: password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", displayName(user))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credentials",
	Run: func(cmd *cobra.Command, args []string) {
		sessions.Logout()
		fmt.Println("Logged out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sessions.IsAuthenticated() {
			fmt.Println("Not logged in")
			return nil
		}
		user, err := sessions.Profile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>  balance: $%.2f\n", user.Username, user.Email, user.Balance)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := apimodel.Registration{
			Username: prompt("Username: "),
			Email:    prompt("Email: "),
			Password: prompt("Password: "),
		}
		user, err := sessions.Register(cmd.Context(), reg)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s\n", displayName(user))
		return nil
	},
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func displayName(user *apimodel.User) string {
	if user == nil {
		return "unknown user"
	}
	return user.Username
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd)
}
