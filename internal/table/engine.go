package table

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to search, sort and page-size
// changes before a fetch fires. Page-index changes are explicit clicks and
// skip it.
const DefaultDebounce = 500 * time.Millisecond

// DefaultPageSize is the initial page size.
const DefaultPageSize = 10

// DefaultPageSizeOptions is the fixed option set for the page-size selector.
var DefaultPageSizeOptions = []int{10, 25, 50, 100, 1000, 10000}

// Params is the fetch contract between the engine and its loader. Page is
// zero-based; Sort is "<field>:<asc|desc>".
type Params struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// FetchFunc loads one page for the given params. Supplying a FetchFunc puts
// the engine in manual mode: pagination, sorting and filtering are delegated
// to the loader and the engine trusts the returned page as-is.
type FetchFunc[T any] func(ctx context.Context, params Params) (rows []T, total int, err error)

// Engine owns the sorting/filtering/pagination state of one table and the
// debounced fetch contract to its loader. It is safe for concurrent use.
type Engine[T any] struct {
	mu      sync.Mutex
	columns []Column[T]
	fetch   FetchFunc[T] // nil in local mode
	local   []T

	rows    []T
	total   int
	loading bool

	search    string
	sortField string
	sortDesc  bool
	sorted    bool
	pageIndex int
	pageSize  int
	sizeOpts  []int

	debounce time.Duration
	timer    *time.Timer
	// seq tags the newest dispatched fetch; completions carrying an older
	// tag are discarded so a slow response cannot overwrite fresher state.
	seq    uint64
	closed bool

	ctx      context.Context
	onChange func()
}

// Option customizes an engine at construction.
type Option[T any] func(*Engine[T])

// WithDebounce overrides the quiet period.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(e *Engine[T]) { e.debounce = d }
}

// WithPageSize sets the initial page size.
func WithPageSize[T any](size int) Option[T] {
	return func(e *Engine[T]) { e.pageSize = size }
}

// WithPageSizeOptions overrides the page-size option set.
func WithPageSizeOptions[T any](opts []int) Option[T] {
	return func(e *Engine[T]) { e.sizeOpts = opts }
}

// WithOnChange registers a redraw hook invoked after every state change that
// affects rendering.
func WithOnChange[T any](fn func()) Option[T] {
	return func(e *Engine[T]) { e.onChange = fn }
}

// WithContext sets the context handed to the loader.
func WithContext[T any](ctx context.Context) Option[T] {
	return func(e *Engine[T]) { e.ctx = ctx }
}

// WithInitialSearch seeds the filter without arming the debounce window.
func WithInitialSearch[T any](query string) Option[T] {
	return func(e *Engine[T]) { e.search = query }
}

// WithInitialSort seeds the sort without arming the debounce window.
func WithInitialSort[T any](field string, desc bool) Option[T] {
	return func(e *Engine[T]) {
		e.sortField = field
		e.sortDesc = desc
		e.sorted = true
	}
}

// WithInitialPageIndex seeds the page index without triggering a fetch.
func WithInitialPageIndex[T any](index int) Option[T] {
	return func(e *Engine[T]) {
		if index > 0 {
			e.pageIndex = index
		}
	}
}

// NewEngine builds a manual-mode engine over the given loader.
func NewEngine[T any](columns []Column[T], fetch FetchFunc[T], opts ...Option[T]) *Engine[T] {
	e := &Engine[T]{
		columns:  columns,
		fetch:    fetch,
		pageSize: DefaultPageSize,
		sizeOpts: DefaultPageSizeOptions,
		debounce: DefaultDebounce,
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewLocalEngine builds a local-mode engine that slices, sorts and filters
// data itself.
func NewLocalEngine[T any](columns []Column[T], data []T, opts ...Option[T]) *Engine[T] {
	e := NewEngine[T](columns, nil, opts...)
	e.local = data
	e.applyLocal()
	return e
}

// Close cancels any pending debounce timer. Completions of in-flight fetches
// are dropped after Close so no state changes land on a torn-down table.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// ==================== STATE CHANGES ====================

// SetSearch updates the free-text filter. The page index resets to 0: a new
// result set invalidates the positional offset.
func (e *Engine[T]) SetSearch(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.search == query {
		return
	}
	e.search = query
	e.pageIndex = 0
	e.scheduleLocked()
}

// ToggleSort cycles a sortable column: unsorted or descending goes to
// ascending, ascending goes to descending. The page index resets to 0.
func (e *Engine[T]) ToggleSort(field string) {
	col := e.columnByField(field)
	if col == nil || !col.Sortable {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	desc := e.sorted && e.sortField == field && !e.sortDesc
	e.sortField = field
	e.sortDesc = desc
	e.sorted = true
	e.pageIndex = 0
	e.scheduleLocked()
}

// SetSort sets an explicit single-column sort. The page index resets to 0.
func (e *Engine[T]) SetSort(field string, desc bool) {
	col := e.columnByField(field)
	if col == nil || !col.Sortable {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortField = field
	e.sortDesc = desc
	e.sorted = true
	e.pageIndex = 0
	e.scheduleLocked()
}

// SetPageSize changes the page size; the value must come from the option set.
// The page index resets to 0.
func (e *Engine[T]) SetPageSize(size int) {
	valid := false
	for _, opt := range e.sizeOpts {
		if opt == size {
			valid = true
			break
		}
	}
	if !valid {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pageSize == size {
		return
	}
	e.pageSize = size
	e.pageIndex = 0
	e.scheduleLocked()
}

// SetPageIndex jumps to a page. Pagination clicks are explicit, so the fetch
// fires immediately rather than through the debounce window.
func (e *Engine[T]) SetPageIndex(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if max := e.pageCountLocked() - 1; max >= 0 && index > max {
		index = max
	}
	if index == e.pageIndex {
		return
	}
	e.pageIndex = index
	e.dispatchLocked()
}

// NextPage advances one page when possible.
func (e *Engine[T]) NextPage() {
	e.SetPageIndex(e.PageIndex() + 1)
}

// PreviousPage goes back one page when possible.
func (e *Engine[T]) PreviousPage() {
	e.SetPageIndex(e.PageIndex() - 1)
}

// FirstPage jumps to page 0.
func (e *Engine[T]) FirstPage() {
	e.SetPageIndex(0)
}

// LastPage jumps to the final page.
func (e *Engine[T]) LastPage() {
	e.mu.Lock()
	last := e.pageCountLocked() - 1
	e.mu.Unlock()
	e.SetPageIndex(last)
}

// Refresh refetches immediately with the current params. Mutating views call
// it after create/update/delete to restore consistency with the server.
func (e *Engine[T]) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatchLocked()
}

// ==================== FETCH PIPELINE ====================

// scheduleLocked arms (or re-arms) the debounce timer. Edits inside the quiet
// window collapse into a single fetch carrying only the final values.
func (e *Engine[T]) scheduleLocked() {
	if e.fetch == nil {
		e.applyLocalLocked()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}
		e.dispatchLocked()
	})
}

func (e *Engine[T]) dispatchLocked() {
	if e.fetch == nil {
		e.applyLocalLocked()
		return
	}

	e.seq++
	seq := e.seq
	params := e.paramsLocked()
	e.loading = true
	e.notifyLocked()

	go func() {
		rows, total, err := e.fetch(e.ctx, params)
		e.complete(seq, rows, total, err)
	}()
}

// complete applies a finished fetch. A completion whose tag is not the newest
// dispatched fetch is stale and dropped, whichever order responses arrive in.
func (e *Engine[T]) complete(seq uint64, rows []T, total int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || seq != e.seq {
		return
	}
	e.loading = false
	if err == nil {
		e.rows = rows
		e.total = total
	}
	// On error the previous rows stay visible; the loader surfaces the alert.
	e.notifyLocked()
}

func (e *Engine[T]) paramsLocked() Params {
	return Params{
		Page:   e.pageIndex,
		Limit:  e.pageSize,
		Search: e.search,
		Sort:   e.sortParamLocked(),
	}
}

func (e *Engine[T]) sortParamLocked() string {
	field := "name"
	direction := "asc"
	if e.sorted {
		field = e.sortField
		if e.sortDesc {
			direction = "desc"
		}
	}
	return field + ":" + direction
}

func (e *Engine[T]) notifyLocked() {
	if e.onChange == nil {
		return
	}
	fn := e.onChange
	go fn()
}

// ==================== LOCAL MODE ====================

func (e *Engine[T]) applyLocal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocalLocked()
}

func (e *Engine[T]) applyLocalLocked() {
	filtered := e.local
	if e.search != "" {
		needle := strings.ToLower(e.search)
		filtered = nil
		for _, row := range e.local {
			if e.rowMatches(row, needle) {
				filtered = append(filtered, row)
			}
		}
	}

	if e.sorted {
		if col := e.columnByField(e.sortField); col != nil && col.Sortable {
			sorted := make([]T, len(filtered))
			copy(sorted, filtered)
			less := col.Less
			if less == nil && col.Value != nil {
				value := col.Value
				less = func(a, b T) bool { return value(a) < value(b) }
			}
			if less != nil {
				sort.SliceStable(sorted, func(i, j int) bool {
					if e.sortDesc {
						return less(sorted[j], sorted[i])
					}
					return less(sorted[i], sorted[j])
				})
			}
			filtered = sorted
		}
	}

	e.total = len(filtered)

	start := e.pageIndex * e.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + e.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	e.rows = filtered[start:end]
	e.notifyLocked()
}

func (e *Engine[T]) rowMatches(row T, needle string) bool {
	for _, col := range e.columns {
		if col.Value == nil {
			continue
		}
		if strings.Contains(strings.ToLower(col.Value(row)), needle) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) columnByField(field string) *Column[T] {
	for i := range e.columns {
		if e.columns[i].Field == field {
			return &e.columns[i]
		}
	}
	return nil
}

// ==================== SNAPSHOT ====================

// Rows returns the current page of rows.
func (e *Engine[T]) Rows() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows
}

// Total returns the logical row count across all pages.
func (e *Engine[T]) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Loading reports whether a fetch is in flight. Renderers dim the existing
// rows instead of unmounting them while this is true.
func (e *Engine[T]) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Search returns the current filter string.
func (e *Engine[T]) Search() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search
}

// PageIndex returns the zero-based page index.
func (e *Engine[T]) PageIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageIndex
}

// PageSize returns the current page size.
func (e *Engine[T]) PageSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageSize
}

// PageSizeOptions returns the selectable page sizes.
func (e *Engine[T]) PageSizeOptions() []int {
	return e.sizeOpts
}

// Sort returns the current sort column and direction; ok is false when the
// table is unsorted.
func (e *Engine[T]) Sort() (field string, desc bool, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortField, e.sortDesc, e.sorted
}

// SortParam returns the wire form of the current sort.
func (e *Engine[T]) SortParam() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortParamLocked()
}

// Params returns the fetch params for the current state.
func (e *Engine[T]) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paramsLocked()
}

// Columns returns the column declarations.
func (e *Engine[T]) Columns() []Column[T] {
	return e.columns
}

// PageCount is ceil(total / pageSize).
func (e *Engine[T]) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageCountLocked()
}

func (e *Engine[T]) pageCountLocked() int {
	if e.pageSize <= 0 {
		return 0
	}
	return (e.total + e.pageSize - 1) / e.pageSize
}

// CanPreviousPage reports whether a previous page exists.
func (e *Engine[T]) CanPreviousPage() bool {
	return e.PageIndex() > 0
}

// CanNextPage reports whether a next page exists.
func (e *Engine[T]) CanNextPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageIndex+1 < e.pageCountLocked()
}

// CellText renders the cell for the given row and column using the current
// page position.
func (e *Engine[T]) CellText(col Column[T], rowIndex int) string {
	e.mu.Lock()
	if rowIndex < 0 || rowIndex >= len(e.rows) {
		e.mu.Unlock()
		return ""
	}
	ctx := CellContext[T]{
		Row:       e.rows[rowIndex],
		RowIndex:  rowIndex,
		PageIndex: e.pageIndex,
		PageSize:  e.pageSize,
	}
	e.mu.Unlock()
	return col.cellText(ctx)
}

// EmptyMessage returns the no-results wording, conditioned on whether a
// search term is active.
func (e *Engine[T]) EmptyMessage() (title, detail string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.search != "" {
		return "No results found", "Try adjusting your search criteria"
	}
	return "No results found", "No data available"
}

// RangeLabel is the "Showing X to Y of Z entries" footer text.
func (e *Engine[T]) RangeLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.total == 0 {
		return "Showing 0 to 0 of 0 entries"
	}
	first := e.pageIndex*e.pageSize + 1
	last := (e.pageIndex + 1) * e.pageSize
	if last > e.total {
		last = e.total
	}
	return fmt.Sprintf("Showing %d to %d of %d entries", first, last, e.total)
}
