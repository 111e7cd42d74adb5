package commands

import (
	"github.com/spf13/cobra"

	"github.com/locvowork/employee_admin_console/internal/validate"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	// Client-side schema check; nothing reaches the network on failure.
	if errs := validate.Login(loginEmail, loginPassword); !errs.Valid() {
		for field, msg := range errs {
			app.Toasts.Error(field+": "+msg, "")
		}
		return errFieldValidation
	}

	sess, err := app.Auth.Login(cmd.Context(), loginEmail, loginPassword)
	if err != nil {
		app.Toasts.Error(err.Error(), "")
		return err
	}

	app.Toasts.Success("Login successful! Redirecting...", "")
	app.Toasts.Info("Logged in as %s <%s> (%s)", sess.User.Name, sess.User.Email, sess.User.Role)
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Storage is cleared before anything else happens.
		app.Auth.Logout()
		app.Channel.Disconnect()
		app.Toasts.Success("Logged out.", "")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
