package table

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name   string
	Age    int
	Salary float64
}

func personColumns() []Column[person] {
	return []Column[person]{
		{Field: "name", Header: "Name", Sortable: true, Value: func(p person) string { return p.Name }},
		{Field: "age", Header: "Age", Sortable: true,
			Value: func(p person) string { return fmt.Sprintf("%d", p.Age) },
			Less:  func(a, b person) bool { return a.Age < b.Age }},
		{Field: "notes", Header: "Notes", Sortable: false, Value: func(p person) string { return "" }},
	}
}

// recordingFetcher counts fetches and records the params of each one.
type recordingFetcher struct {
	mu     sync.Mutex
	calls  []Params
	rows   []person
	total  int
	err    error
	gate   chan struct{} // when non-nil, fetches block until it closes
	fired  chan struct{}
	faulty bool
}

func newRecordingFetcher(rows []person, total int) *recordingFetcher {
	return &recordingFetcher{rows: rows, total: total, fired: make(chan struct{}, 64)}
}

func (f *recordingFetcher) fetch(ctx context.Context, params Params) ([]person, int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	select {
	case f.fired <- struct{}{}:
	default:
	}
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.rows, f.total, nil
}

func (f *recordingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *recordingFetcher) lastCall(t *testing.T) Params {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestEngineDebounce(t *testing.T) {
	t.Run("edits inside the quiet window collapse into one fetch", func(t *testing.T) {
		fetcher := newRecordingFetcher([]person{{Name: "Ann"}}, 1)
		e := NewEngine(personColumns(), fetcher.fetch, WithDebounce[person](30*time.Millisecond))
		defer e.Close()

		e.SetSearch("a")
		e.SetSearch("an")
		e.SetSearch("ann")

		waitFor(t, func() bool { return fetcher.callCount() >= 1 })
		time.Sleep(80 * time.Millisecond)

		assert.Equal(t, 1, fetcher.callCount())
		assert.Equal(t, "ann", fetcher.lastCall(t).Search)
	})

	t.Run("page index changes skip the debounce", func(t *testing.T) {
		fetcher := newRecordingFetcher([]person{{Name: "Ann"}}, 100)
		e := NewEngine(personColumns(), fetcher.fetch, WithDebounce[person](time.Hour))
		defer e.Close()

		e.Refresh()
		waitFor(t, func() bool { return fetcher.callCount() == 1 })

		e.SetPageIndex(3)
		waitFor(t, func() bool { return fetcher.callCount() == 2 })
		assert.Equal(t, 3, fetcher.lastCall(t).Page)
	})

	t.Run("a fresh edit re-arms the timer", func(t *testing.T) {
		fetcher := newRecordingFetcher(nil, 0)
		e := NewEngine(personColumns(), fetcher.fetch, WithDebounce[person](40*time.Millisecond))
		defer e.Close()

		e.SetSearch("x")
		time.Sleep(20 * time.Millisecond)
		e.SetSearch("xy")
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 0, fetcher.callCount())

		waitFor(t, func() bool { return fetcher.callCount() == 1 })
		assert.Equal(t, "xy", fetcher.lastCall(t).Search)
	})
}

func TestEnginePageReset(t *testing.T) {
	newSeeded := func(fetcher *recordingFetcher) *Engine[person] {
		return NewEngine(personColumns(), fetcher.fetch,
			WithDebounce[person](5*time.Millisecond),
			WithInitialPageIndex[person](4))
	}

	t.Run("search change resets to page zero", func(t *testing.T) {
		fetcher := newRecordingFetcher(nil, 1000)
		e := newSeeded(fetcher)
		defer e.Close()

		e.SetSearch("query")
		waitFor(t, func() bool { return fetcher.callCount() == 1 })
		assert.Equal(t, 0, fetcher.lastCall(t).Page)
		assert.Equal(t, 0, e.PageIndex())
	})

	t.Run("sort change resets to page zero", func(t *testing.T) {
		fetcher := newRecordingFetcher(nil, 1000)
		e := newSeeded(fetcher)
		defer e.Close()

		e.ToggleSort("age")
		waitFor(t, func() bool { return fetcher.callCount() == 1 })
		assert.Equal(t, 0, fetcher.lastCall(t).Page)
	})

	t.Run("page size change resets to page zero", func(t *testing.T) {
		fetcher := newRecordingFetcher(nil, 1000)
		e := newSeeded(fetcher)
		defer e.Close()

		e.SetPageSize(25)
		waitFor(t, func() bool { return fetcher.callCount() == 1 })
		assert.Equal(t, 0, fetcher.lastCall(t).Page)
		assert.Equal(t, 25, fetcher.lastCall(t).Limit)
	})

	t.Run("page size outside the option set is rejected", func(t *testing.T) {
		fetcher := newRecordingFetcher(nil, 1000)
		e := newSeeded(fetcher)
		defer e.Close()

		e.SetPageSize(33)
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 0, fetcher.callCount())
		assert.Equal(t, DefaultPageSize, e.PageSize())
	})
}

func TestEngineStaleFetchDiscarded(t *testing.T) {
	// The first fetch blocks on the gate; a second fetch dispatches and
	// completes while the first is stuck. Releasing the gate lets the slow
	// response finish last, and it must not overwrite the fresh rows.
	slow := make(chan struct{})
	var mu sync.Mutex
	dispatched := 0

	fetch := func(ctx context.Context, params Params) ([]person, int, error) {
		mu.Lock()
		dispatched++
		n := dispatched
		mu.Unlock()
		if n == 1 {
			<-slow
			return []person{{Name: "stale"}}, 1, nil
		}
		return []person{{Name: "fresh"}}, 1, nil
	}

	e := NewEngine(personColumns(), fetch, WithDebounce[person](time.Hour))
	defer e.Close()

	e.Refresh()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return dispatched == 1
	})
	e.Refresh()
	waitFor(t, func() bool {
		rows := e.Rows()
		return len(rows) == 1 && rows[0].Name == "fresh"
	})

	close(slow)
	time.Sleep(50 * time.Millisecond)

	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "fresh", rows[0].Name, "slow response must be discarded")
}

func TestEngineFetchError(t *testing.T) {
	fetcher := newRecordingFetcher([]person{{Name: "kept"}}, 1)
	e := NewEngine(personColumns(), fetcher.fetch, WithDebounce[person](time.Hour))
	defer e.Close()

	e.Refresh()
	waitFor(t, func() bool { return len(e.Rows()) == 1 })

	fetcher.mu.Lock()
	fetcher.err = fmt.Errorf("backend down")
	fetcher.mu.Unlock()

	e.Refresh()
	waitFor(t, func() bool { return fetcher.callCount() == 2 && !e.Loading() })

	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Name, "previous rows stay visible on error")
	assert.Equal(t, 1, e.Total())
}

func TestEngineSortParam(t *testing.T) {
	fetcher := newRecordingFetcher(nil, 0)
	e := NewEngine(personColumns(), fetcher.fetch, WithDebounce[person](5*time.Millisecond))
	defer e.Close()

	t.Run("unsorted default", func(t *testing.T) {
		assert.Equal(t, "name:asc", e.SortParam())
	})

	t.Run("toggle cycles unsorted to asc to desc", func(t *testing.T) {
		e.ToggleSort("age")
		assert.Equal(t, "age:asc", e.SortParam())
		e.ToggleSort("age")
		assert.Equal(t, "age:desc", e.SortParam())
		e.ToggleSort("age")
		assert.Equal(t, "age:asc", e.SortParam())
	})

	t.Run("non-sortable columns are ignored", func(t *testing.T) {
		before := e.SortParam()
		e.ToggleSort("notes")
		assert.Equal(t, before, e.SortParam())
	})

	t.Run("unknown field is ignored", func(t *testing.T) {
		before := e.SortParam()
		e.SetSort("ghost", true)
		assert.Equal(t, before, e.SortParam())
	})
}

func TestEngineLocalMode(t *testing.T) {
	data := []person{
		{Name: "Carol", Age: 30},
		{Name: "Alice", Age: 25},
		{Name: "Bob", Age: 35},
		{Name: "Annika", Age: 28},
	}

	t.Run("slices one page of the data", func(t *testing.T) {
		e := NewLocalEngine(personColumns(), data,
			WithDebounce[person](0), WithPageSize[person](10))
		defer e.Close()

		assert.Len(t, e.Rows(), 4)
		assert.Equal(t, 4, e.Total())
		assert.Equal(t, 1, e.PageCount())
	})

	t.Run("filters case-insensitively across columns", func(t *testing.T) {
		e := NewLocalEngine(personColumns(), data, WithDebounce[person](0))
		defer e.Close()

		e.SetSearch("ali")
		assert.Equal(t, 1, e.Total())
		require.Len(t, e.Rows(), 1)
		assert.Equal(t, "Alice", e.Rows()[0].Name)
	})

	t.Run("sorts with the column comparator", func(t *testing.T) {
		e := NewLocalEngine(personColumns(), data, WithDebounce[person](0))
		defer e.Close()

		e.SetSort("age", false)
		rows := e.Rows()
		require.Len(t, rows, 4)
		assert.Equal(t, "Alice", rows[0].Name)
		assert.Equal(t, "Bob", rows[3].Name)

		e.SetSort("age", true)
		rows = e.Rows()
		assert.Equal(t, "Bob", rows[0].Name)
	})

	t.Run("paginates after filtering", func(t *testing.T) {
		var many []person
		for i := 0; i < 23; i++ {
			many = append(many, person{Name: fmt.Sprintf("P%02d", i), Age: i})
		}
		e := NewLocalEngine(personColumns(), many, WithDebounce[person](0))
		defer e.Close()

		assert.Equal(t, 3, e.PageCount())
		assert.True(t, e.CanNextPage())
		assert.False(t, e.CanPreviousPage())

		e.LastPage()
		assert.Equal(t, 2, e.PageIndex())
		assert.Len(t, e.Rows(), 3)
		assert.False(t, e.CanNextPage())
	})
}

func TestEngineFooter(t *testing.T) {
	t.Run("range label", func(t *testing.T) {
		var many []person
		for i := 0; i < 35; i++ {
			many = append(many, person{Name: fmt.Sprintf("P%02d", i)})
		}
		e := NewLocalEngine(personColumns(), many, WithDebounce[person](0))
		defer e.Close()

		assert.Equal(t, "Showing 1 to 10 of 35 entries", e.RangeLabel())
		e.LastPage()
		assert.Equal(t, "Showing 31 to 35 of 35 entries", e.RangeLabel())
	})

	t.Run("range label when empty", func(t *testing.T) {
		e := NewLocalEngine(personColumns(), nil, WithDebounce[person](0))
		defer e.Close()
		assert.Equal(t, "Showing 0 to 0 of 0 entries", e.RangeLabel())
	})

	t.Run("empty message depends on active search", func(t *testing.T) {
		e := NewLocalEngine(personColumns(), nil, WithDebounce[person](0))
		defer e.Close()

		title, detail := e.EmptyMessage()
		assert.Equal(t, "No results found", title)
		assert.Equal(t, "No data available", detail)

		e.SetSearch("zzz")
		title, detail = e.EmptyMessage()
		assert.Equal(t, "No results found", title)
		assert.Equal(t, "Try adjusting your search criteria", detail)
	})
}

func TestEngineRowNumberColumn(t *testing.T) {
	var many []person
	for i := 0; i < 25; i++ {
		many = append(many, person{Name: fmt.Sprintf("P%02d", i)})
	}
	cols := append([]Column[person]{RowNumberColumn[person]()}, personColumns()...)
	e := NewLocalEngine(cols, many, WithDebounce[person](0))
	defer e.Close()

	assert.Equal(t, "1", e.CellText(cols[0], 0))

	e.SetPageIndex(2)
	// Third page of 10: numbering continues from the absolute position.
	assert.Equal(t, "21", e.CellText(cols[0], 0))
	assert.Equal(t, "25", e.CellText(cols[0], 4))
}

func TestEngineCloseDropsCompletions(t *testing.T) {
	gate := make(chan struct{})
	fetch := func(ctx context.Context, params Params) ([]person, int, error) {
		<-gate
		return []person{{Name: "late"}}, 1, nil
	}
	e := NewEngine(personColumns(), fetch, WithDebounce[person](time.Hour))

	e.Refresh()
	e.Close()
	close(gate)
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, e.Rows())
}
