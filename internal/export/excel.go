// Package export writes fetched employee pages to Excel workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/employee_admin_console/internal/config"
	"github.com/locvowork/employee_admin_console/internal/domain"
)

// EmployeePage renders one fetched page into an .xlsx workbook laid out per
// the table layout: same columns, same order, row numbers continuing from the
// page position.
func EmployeePage(layout config.TableLayout, page *domain.EmployeePage, pageIndex, pageSize int) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := layout.Sheet
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range layout.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := float64(col.MinWidth)
		if width < 8 {
			width = 8
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, err
		}
	}

	for rowIndex, emp := range page.Employees {
		for colIndex, col := range layout.Columns {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(col.Field, emp, pageIndex, pageSize, rowIndex)); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// WriteEmployeePage exports a page straight to disk.
func WriteEmployeePage(path string, layout config.TableLayout, page *domain.EmployeePage, pageIndex, pageSize int) error {
	f, err := EmployeePage(layout, page, pageIndex, pageSize)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func cellValue(field string, emp domain.Employee, pageIndex, pageSize, rowIndex int) interface{} {
	switch field {
	case "id":
		// Display-only sequence number, same rule as the table's No. column.
		return pageIndex*pageSize + rowIndex + 1
	case "name":
		return emp.Name
	case "age":
		return emp.Age
	case "position":
		return emp.Position
	case "salary":
		return emp.Salary
	case "created_at":
		return emp.CreatedAt
	case "updated_at":
		return emp.UpdatedAt
	default:
		return ""
	}
}
