package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-import employees from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	ctrl := importer.NewController(app.Imports, app.Toasts,
		importer.WithOnProgress(func(p domain.ImportProgress) {
			app.Toasts.Info("  %3d%%  %d processed (%s)", p.Progress, p.Processed, p.Status)
		}),
	)
	defer ctrl.Close()

	// The gate runs on name and size before the file is even read.
	if err := ctrl.SelectFile(importer.File{Name: filepath.Base(path), Size: info.Size()}); err != nil {
		app.Toasts.Error(err.Error(), "")
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := ctrl.SelectFile(importer.File{Name: filepath.Base(path), Size: info.Size(), Content: content}); err != nil {
		app.Toasts.Error(err.Error(), "")
		return err
	}

	if err := ctrl.Upload(cmd.Context()); err != nil {
		return err
	}
	if job := ctrl.Job(); job != nil {
		app.Toasts.Info("Job %s: %d rows in %d batches of %d",
			job.JobID, job.TotalRows, job.TotalBatches, job.BatchSize)
	}

	// Block until the poll loop reaches a terminal status.
	for ctrl.Polling() {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	if ctrl.Phase() == importer.PhaseFailed {
		return fmt.Errorf("import failed")
	}
	return nil
}
