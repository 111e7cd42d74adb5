package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_admin_console/internal/bootstrap"
)

var app *bootstrap.App

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "empadmin",
	Short: "Employee Management admin console",
	Long: `empadmin is a terminal console for the Employee Management backend:
login, a searchable/sortable/paginated employee list, CRUD operations,
bulk CSV import with live progress and a push-notification feed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = bootstrap.NewApp(cmd.Context())
		return err
	},
}

// Execute runs the command tree. It is called by main.main().
func Execute(ctx context.Context) error {
	defer func() {
		if app != nil {
			app.Teardown()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
