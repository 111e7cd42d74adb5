package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/employee_admin_console/internal/config"
	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/export"
	"github.com/locvowork/employee_admin_console/internal/render"
	"github.com/locvowork/employee_admin_console/internal/table"
	"github.com/locvowork/employee_admin_console/internal/validate"
)

var errFieldValidation = errors.New("validation failed")

var (
	listPage   int
	listLimit  int
	listSearch string
	listSort   string
	listScroll int
	listWatch  bool
	layoutPath string

	employeeName     string
	employeeAge      string
	employeePosition string
	employeeSalary   string

	exportOut string
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Browse and manage employee records",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees through the virtualized table",
	RunE:  runEmployeesList,
}

var employeesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesGet,
}

var employeesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an employee (asynchronous job)",
	RunE:  runEmployeesCreate,
}

var employeesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesUpdate,
}

var employeesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesDelete,
}

var employeesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current page to an Excel workbook",
	RunE:  runEmployeesExport,
}

func init() {
	for _, cmd := range []*cobra.Command{employeesListCmd, employeesExportCmd} {
		cmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page index")
		cmd.Flags().IntVar(&listLimit, "limit", table.DefaultPageSize, "Page size")
		cmd.Flags().StringVar(&listSearch, "search", "", "Free-text search")
		cmd.Flags().StringVar(&listSort, "sort", "", "Sort as <field>:<asc|desc>")
		cmd.Flags().StringVar(&layoutPath, "layout", "", "Table layout YAML file")
	}
	employeesListCmd.Flags().IntVar(&listScroll, "scroll", 0, "Scroll the viewport to this row")
	employeesListCmd.Flags().BoolVar(&listWatch, "watch", false, "Keep refetching and re-rendering the page")
	employeesExportCmd.Flags().StringVar(&exportOut, "out", "employees.xlsx", "Output workbook path")

	for _, cmd := range []*cobra.Command{employeesCreateCmd, employeesUpdateCmd} {
		cmd.Flags().StringVar(&employeeName, "name", "", "Full name")
		cmd.Flags().StringVar(&employeeAge, "age", "", "Age")
		cmd.Flags().StringVar(&employeePosition, "position", "", "Position")
		cmd.Flags().StringVar(&employeeSalary, "salary", "", "Salary")
	}

	employeesCmd.AddCommand(employeesListCmd, employeesGetCmd, employeesCreateCmd,
		employeesUpdateCmd, employeesDeleteCmd, employeesExportCmd)
	rootCmd.AddCommand(employeesCmd)
}

// employeeColumns builds the table columns from a layout file (or the
// default layout when none is given).
func employeeColumns(layout config.TableLayout) []table.Column[domain.Employee] {
	cols := make([]table.Column[domain.Employee], 0, len(layout.Columns))
	for _, lc := range layout.Columns {
		switch lc.Field {
		case "id":
			cols = append(cols, table.RowNumberColumn[domain.Employee]())
		case "name":
			cols = append(cols, table.Column[domain.Employee]{
				Field: "name", Header: lc.Header, Sortable: lc.Sortable,
				MinWidth: lc.MinWidth, MaxWidth: lc.MaxWidth,
				Value: func(e domain.Employee) string { return e.Name },
			})
		case "age":
			cols = append(cols, table.Column[domain.Employee]{
				Field: "age", Header: lc.Header, Sortable: lc.Sortable,
				MinWidth: lc.MinWidth, MaxWidth: lc.MaxWidth,
				Value: func(e domain.Employee) string { return strconv.Itoa(e.Age) },
				Less:  func(a, b domain.Employee) bool { return a.Age < b.Age },
			})
		case "position":
			cols = append(cols, table.Column[domain.Employee]{
				Field: "position", Header: lc.Header, Sortable: lc.Sortable,
				MinWidth: lc.MinWidth, MaxWidth: lc.MaxWidth,
				Value: func(e domain.Employee) string { return e.Position },
			})
		case "salary":
			cols = append(cols, table.Column[domain.Employee]{
				Field: "salary", Header: lc.Header, Sortable: lc.Sortable,
				MinWidth: lc.MinWidth, MaxWidth: lc.MaxWidth,
				Value: func(e domain.Employee) string { return formatMoney(e.Salary) },
				Less:  func(a, b domain.Employee) bool { return a.Salary < b.Salary },
			})
		}
	}
	return cols
}

// formatMoney renders a salary as $1,234,567.
func formatMoney(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "$" + strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// buildEngine wires a manual-mode engine to the employee service and waits
// helpers for one-shot commands.
func buildEngine(ctx context.Context, layout config.TableLayout) (*table.Engine[domain.Employee], chan struct{}) {
	changed := make(chan struct{}, 1)
	fetch := func(ctx context.Context, params table.Params) ([]domain.Employee, int, error) {
		page, err := app.Employees.List(ctx, domain.ListParams{
			Page:   params.Page,
			Limit:  params.Limit,
			Search: params.Search,
			Sort:   params.Sort,
		})
		if err != nil {
			app.Toasts.Error("Failed to fetch employees", "")
			return nil, 0, err
		}
		return page.Employees, page.Pagination.TotalItems, nil
	}

	opts := []table.Option[domain.Employee]{
		table.WithContext[domain.Employee](ctx),
		table.WithOnChange[domain.Employee](func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}),
		table.WithInitialSearch[domain.Employee](listSearch),
		table.WithInitialPageIndex[domain.Employee](listPage),
	}
	if listLimit != table.DefaultPageSize {
		opts = append(opts, table.WithPageSize[domain.Employee](listLimit))
	}
	if listSort != "" {
		if field, desc, err := parseSortFlag(listSort); err == nil {
			opts = append(opts, table.WithInitialSort[domain.Employee](field, desc))
		}
	}

	engine := table.NewEngine(employeeColumns(layout), fetch, opts...)
	return engine, changed
}

// seedAndFetch runs exactly one fetch for the seeded flag state and waits
// for it to land.
func seedAndFetch(engine *table.Engine[domain.Employee], changed chan struct{}) error {
	engine.Refresh()

	deadline := time.After(30 * time.Second)
	for {
		select {
		case <-changed:
			if !engine.Loading() {
				return nil
			}
		case <-deadline:
			return errors.New("timed out waiting for employee page")
		}
	}
}

func parseSortFlag(value string) (field string, desc bool, err error) {
	parts := strings.SplitN(value, ":", 2)
	field = parts[0]
	direction := "asc"
	if len(parts) == 2 {
		direction = parts[1]
	}
	if direction != "asc" && direction != "desc" {
		return "", false, fmt.Errorf("invalid sort %q: want <field>:<asc|desc>", value)
	}
	return field, direction == "desc", nil
}

func runEmployeesList(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	layout, err := config.LoadTableLayout(layoutPath)
	if err != nil {
		return err
	}
	if listSort != "" {
		if _, _, err := parseSortFlag(listSort); err != nil {
			return err
		}
	}

	engine, changed := buildEngine(cmd.Context(), layout)
	defer engine.Close()
	if err := seedAndFetch(engine, changed); err != nil {
		return err
	}

	renderer := render.NewTableRenderer[domain.Employee](os.Stdout)
	renderer.Render(engine, listScroll)
	if !listWatch {
		return nil
	}

	// Watch mode: refetch on an interval and redraw whenever state changes.
	refetch := time.NewTicker(5 * time.Second)
	defer refetch.Stop()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-refetch.C:
			engine.Refresh()
		case <-changed:
			renderer.Render(engine, listScroll)
		}
	}
}

func runEmployeesGet(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}

	emp := app.Employees.Get(cmd.Context(), args[0])
	if emp == nil {
		app.Toasts.Error("Employee not found", "")
		return fmt.Errorf("employee %s not found", args[0])
	}

	app.Toasts.Info("ID:        %s", emp.ID)
	app.Toasts.Info("Name:      %s", emp.Name)
	app.Toasts.Info("Age:       %d", emp.Age)
	app.Toasts.Info("Position:  %s", emp.Position)
	app.Toasts.Info("Salary:    %s", formatMoney(emp.Salary))
	app.Toasts.Info("Created:   %s", emp.CreatedAt)
	app.Toasts.Info("Updated:   %s", emp.UpdatedAt)
	return nil
}

func employeeFormInput() (domain.EmployeeInput, error) {
	input, errs := validate.Employee(validate.EmployeeForm{
		Name:     employeeName,
		Age:      employeeAge,
		Position: employeePosition,
		Salary:   employeeSalary,
	})
	if !errs.Valid() {
		for field, msg := range errs {
			app.Toasts.Error(field+": "+msg, "")
		}
		return input, errFieldValidation
	}
	return input, nil
}

func runEmployeesCreate(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	input, err := employeeFormInput()
	if err != nil {
		return err
	}

	job, err := app.Employees.Create(cmd.Context(), input)
	if err != nil {
		app.Toasts.Error("Failed to create employee. Please try again.", "")
		return err
	}

	// Creation is asynchronous: the outcome arrives over the push channel.
	app.Toasts.Success(
		fmt.Sprintf("Employee creation started! Job ID: %s", job.JobID),
		"Your employee is being processed in the background.",
	)
	app.Toasts.Info("Run 'empadmin notifications watch' to see the outcome.")
	return nil
}

func runEmployeesUpdate(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	input, err := employeeFormInput()
	if err != nil {
		return err
	}

	emp := app.Employees.Update(cmd.Context(), args[0], input)
	if emp == nil {
		app.Toasts.Error("Failed to update employee. Please try again.", "")
		return fmt.Errorf("update of employee %s failed", args[0])
	}
	app.Toasts.Success(fmt.Sprintf("Employee %q updated.", emp.Name), "")
	return nil
}

func runEmployeesDelete(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}

	if !app.Employees.Delete(cmd.Context(), args[0]) {
		app.Toasts.Error("Failed to delete employee. Please try again.", "")
		return fmt.Errorf("delete of employee %s failed", args[0])
	}
	app.Toasts.Success("Employee deleted.", "")
	return nil
}

func runEmployeesExport(cmd *cobra.Command, args []string) error {
	if err := app.RequireSession(); err != nil {
		return err
	}
	layout, err := config.LoadTableLayout(layoutPath)
	if err != nil {
		return err
	}

	page, err := app.Employees.List(cmd.Context(), domain.ListParams{
		Page:   listPage,
		Limit:  listLimit,
		Search: listSearch,
		Sort:   listSort,
	})
	if err != nil {
		app.Toasts.Error("Failed to fetch employees", "")
		return err
	}

	if err := export.WriteEmployeePage(exportOut, layout, page, listPage, listLimit); err != nil {
		app.Toasts.Error("Failed to generate Excel file", "")
		return err
	}
	app.Toasts.Success(fmt.Sprintf("Exported %d employees to %s", len(page.Employees), exportOut), "")
	return nil
}
