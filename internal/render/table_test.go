package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_admin_console/internal/table"
)

type row struct {
	Name string
}

func testColumns() []table.Column[row] {
	return []table.Column[row]{
		table.RowNumberColumn[row](),
		{Field: "name", Header: "Name", Sortable: true, MinWidth: 10,
			Value: func(r row) string { return r.Name }},
	}
}

func manyRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{Name: fmt.Sprintf("Row %03d", i)}
	}
	return rows
}

func TestRenderWindowsLongPages(t *testing.T) {
	e := table.NewLocalEngine(testColumns(), manyRows(100),
		table.WithDebounce[row](0), table.WithPageSize[row](100))
	defer e.Close()

	var buf bytes.Buffer
	r := &TableRenderer[row]{Out: &buf, ViewportRows: 10}
	r.Render(e, 50)

	out := buf.String()
	assert.Contains(t, out, "rows above")
	assert.Contains(t, out, "rows below")
	assert.Contains(t, out, "Row 050")
	assert.NotContains(t, out, "Row 001", "rows far outside the window are elided")
	assert.Contains(t, out, "Showing 1 to 100 of 100 entries")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestRenderShortPageHasNoElision(t *testing.T) {
	e := table.NewLocalEngine(testColumns(), manyRows(5), table.WithDebounce[row](0))
	defer e.Close()

	var buf bytes.Buffer
	r := NewTableRenderer[row](&buf)
	r.Render(e, 0)

	out := buf.String()
	assert.NotContains(t, out, "rows above")
	assert.NotContains(t, out, "rows below")
	for i := 0; i < 5; i++ {
		assert.Contains(t, out, fmt.Sprintf("Row %03d", i))
	}
}

func TestRenderEmptyStates(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		e := table.NewLocalEngine(testColumns(), nil, table.WithDebounce[row](0))
		defer e.Close()

		var buf bytes.Buffer
		NewTableRenderer[row](&buf).Render(e, 0)
		assert.Contains(t, buf.String(), "No results found")
		assert.Contains(t, buf.String(), "No data available")
	})

	t.Run("no matches for a search", func(t *testing.T) {
		e := table.NewLocalEngine(testColumns(), manyRows(5), table.WithDebounce[row](0))
		defer e.Close()
		e.SetSearch("zzz")

		var buf bytes.Buffer
		NewTableRenderer[row](&buf).Render(e, 0)
		assert.Contains(t, buf.String(), "Try adjusting your search criteria")
	})
}

func TestRenderSortMarkers(t *testing.T) {
	e := table.NewLocalEngine(testColumns(), manyRows(3), table.WithDebounce[row](0))
	defer e.Close()

	var buf bytes.Buffer
	r := NewTableRenderer[row](&buf)

	r.Render(e, 0)
	require.Contains(t, buf.String(), "Name ↕", "sortable column shows the neutral marker")

	e.SetSort("name", false)
	buf.Reset()
	r.Render(e, 0)
	assert.Contains(t, buf.String(), "Name ↑")

	e.SetSort("name", true)
	buf.Reset()
	r.Render(e, 0)
	assert.Contains(t, buf.String(), "Name ↓")
}
