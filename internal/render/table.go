// Package render draws a table engine's current page to a terminal through
// the windowing layer: only rows intersecting the viewport are materialized,
// with elided-row markers standing in for the spacer.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/locvowork/employee_admin_console/internal/table"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
	spinColor   = color.New(color.FgYellow)
)

// TableRenderer writes windowed table output. RowHeight is one terminal line;
// ViewportRows is the number of body lines the "viewport" shows.
type TableRenderer[T any] struct {
	Out          io.Writer
	ViewportRows int
}

// NewTableRenderer returns a renderer with a 20-line viewport.
func NewTableRenderer[T any](out io.Writer) *TableRenderer[T] {
	return &TableRenderer[T]{Out: out, ViewportRows: 20}
}

// Render draws the engine's current page with the viewport scrolled to
// scrollRow. Rows outside the materialized window are elided, preserving the
// illusion of the full page.
func (r *TableRenderer[T]) Render(e *table.Engine[T], scrollRow int) {
	rows := e.Rows()
	cols := e.Columns()
	widths := r.widths(e)

	r.renderHeader(e, cols, widths)

	if len(rows) == 0 && !e.Loading() {
		title, detail := e.EmptyMessage()
		fmt.Fprintf(r.Out, "  %s\n", title)
		dimColor.Fprintf(r.Out, "  %s\n", detail)
		r.renderFooter(e)
		return
	}

	v := table.NewVirtualizer(len(rows), 1, r.ViewportRows)
	v.SetScrollOffset(scrollRow)
	items := v.Items()

	if len(items) > 0 && items[0].Index > 0 {
		dimColor.Fprintf(r.Out, "  … %d rows above\n", items[0].Index)
	}

	loading := e.Loading()
	for _, item := range items {
		line := r.renderRow(e, cols, widths, item.Index)
		if loading {
			// Existing rows stay visible but dimmed during a refetch.
			dimColor.Fprintln(r.Out, line)
		} else {
			fmt.Fprintln(r.Out, line)
		}
	}

	if len(items) > 0 {
		if below := len(rows) - items[len(items)-1].Index - 1; below > 0 {
			dimColor.Fprintf(r.Out, "  … %d rows below\n", below)
		}
	}

	if loading {
		spinColor.Fprintln(r.Out, "  ⟳ Loading...")
	}

	r.renderFooter(e)
}

func (r *TableRenderer[T]) renderHeader(e *table.Engine[T], cols []table.Column[T], widths []int) {
	sortField, sortDesc, sorted := e.Sort()
	parts := make([]string, len(cols))
	for i, col := range cols {
		header := col.Header
		if col.Sortable {
			marker := " ↕"
			if sorted && sortField == col.Field {
				if sortDesc {
					marker = " ↓"
				} else {
					marker = " ↑"
				}
			}
			header += marker
		}
		parts[i] = pad(header, widths[i])
	}
	headerColor.Fprintln(r.Out, "  "+strings.Join(parts, "  "))
	dimColor.Fprintln(r.Out, "  "+strings.Repeat("─", lineWidth(widths)))
}

func (r *TableRenderer[T]) renderRow(e *table.Engine[T], cols []table.Column[T], widths []int, rowIndex int) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = pad(e.CellText(col, rowIndex), widths[i])
	}
	return "  " + strings.Join(parts, "  ")
}

func (r *TableRenderer[T]) renderFooter(e *table.Engine[T]) {
	pageCount := e.PageCount()
	fmt.Fprintf(r.Out, "\n  %s\n", e.RangeLabel())
	fmt.Fprintf(r.Out, "  Page %d of %d\n", e.PageIndex()+1, pageCount)
}

// widths sizes each column from its header and the materialized cells,
// clamped to the declared bounds.
func (r *TableRenderer[T]) widths(e *table.Engine[T]) []int {
	cols := e.Columns()
	rows := e.Rows()
	widths := make([]int, len(cols))
	for i, col := range cols {
		w := len([]rune(col.Header)) + 2 // room for the sort marker
		for rowIndex := range rows {
			if l := len([]rune(e.CellText(col, rowIndex))); l > w {
				w = l
			}
		}
		if col.MinWidth > 0 && w < col.MinWidth {
			w = col.MinWidth
		}
		if col.MaxWidth > 0 && w > col.MaxWidth {
			w = col.MaxWidth
		}
		widths[i] = w
	}
	return widths
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func lineWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if total > 2 {
		total -= 2
	}
	return total
}
