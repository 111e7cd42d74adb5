package table

import "strconv"

// CellContext carries the row and its position for cell rendering. RowIndex
// is the index within the current page, not a stable identifier.
type CellContext[T any] struct {
	Row       T
	RowIndex  int
	PageIndex int
	PageSize  int
}

// Column declares one table column: accessor, header, cell renderer,
// sortability and optional width bounds.
type Column[T any] struct {
	Field    string
	Header   string
	Sortable bool
	MinWidth int
	MaxWidth int

	// Value is the accessor: the raw displayed value for a row. Local mode
	// filters and sorts on it. Columns without a Value (synthetic columns)
	// are excluded from local filtering and sorting.
	Value func(row T) string

	// Cell overrides rendering when the displayed text depends on position
	// rather than the row alone. Defaults to Value.
	Cell func(ctx CellContext[T]) string

	// Less orders rows in local mode, overriding string comparison on Value.
	// Manual mode ignores it: the server already sorted the page.
	Less func(a, b T) bool
}

func (c Column[T]) cellText(ctx CellContext[T]) string {
	if c.Cell != nil {
		return c.Cell(ctx)
	}
	if c.Value != nil {
		return c.Value(ctx.Row)
	}
	return ""
}

// RowNumberColumn is the synthetic "No." column. Its value is a display-only
// sequence number derived from the page position, never the entity id, and it
// is never sortable.
func RowNumberColumn[T any]() Column[T] {
	return Column[T]{
		Field:    "id",
		Header:   "No.",
		Sortable: false,
		MinWidth: 5,
		MaxWidth: 5,
		Cell: func(ctx CellContext[T]) string {
			return strconv.Itoa(ctx.PageIndex*ctx.PageSize + ctx.RowIndex + 1)
		},
	}
}
