package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// ColumnLayout is one column entry in a table layout file.
type ColumnLayout struct {
	Field    string `yaml:"field"`
	Header   string `yaml:"header"`
	Sortable bool   `yaml:"sortable"`
	MinWidth int    `yaml:"min_width"`
	MaxWidth int    `yaml:"max_width"`
}

// TableLayout describes the employee table columns and the sheet name used
// when exporting a page to Excel.
type TableLayout struct {
	Sheet   string         `yaml:"sheet"`
	Columns []ColumnLayout `yaml:"columns"`
}

// DefaultTableLayout mirrors the columns the employees page defines.
func DefaultTableLayout() TableLayout {
	return TableLayout{
		Sheet: "Employees",
		Columns: []ColumnLayout{
			{Field: "id", Header: "No.", Sortable: false, MinWidth: 5, MaxWidth: 5},
			{Field: "name", Header: "Name", Sortable: true, MinWidth: 20},
			{Field: "age", Header: "Age", Sortable: true, MinWidth: 5},
			{Field: "position", Header: "Position", Sortable: true, MinWidth: 20},
			{Field: "salary", Header: "Salary", Sortable: true, MinWidth: 12},
		},
	}
}

// LoadTableLayout reads a layout file, falling back to the default layout
// when path is empty.
func LoadTableLayout(path string) (TableLayout, error) {
	if path == "" {
		return DefaultTableLayout(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TableLayout{}, fmt.Errorf("failed to read table layout: %w", err)
	}

	var layout TableLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return TableLayout{}, fmt.Errorf("failed to parse table layout: %w", err)
	}
	if len(layout.Columns) == 0 {
		return TableLayout{}, fmt.Errorf("table layout %q defines no columns", path)
	}
	if layout.Sheet == "" {
		layout.Sheet = "Employees"
	}
	return layout, nil
}
