package table

// DefaultOverscan is the number of extra rows materialized above and below
// the visible window to absorb scroll jitter without blank flashes.
const DefaultOverscan = 5

// VirtualItem is one materialized row: its index in the logical row set, its
// absolute vertical offset inside the spacer, and its height.
type VirtualItem struct {
	Index int
	Start int
	Size  int
}

// Virtualizer computes the minimal index range to materialize for a scrollable
// viewport over Count logical rows of fixed RowHeight. The scrollable area is
// padded to TotalSize so the list reads as fully rendered.
type Virtualizer struct {
	Count          int
	RowHeight      int
	ViewportHeight int
	Overscan       int

	scrollOffset int
}

// NewVirtualizer returns a virtualizer with the default overscan.
func NewVirtualizer(count, rowHeight, viewportHeight int) *Virtualizer {
	return &Virtualizer{
		Count:          count,
		RowHeight:      rowHeight,
		ViewportHeight: viewportHeight,
		Overscan:       DefaultOverscan,
	}
}

// SetScrollOffset records the viewport's scroll position in pixels, clamped
// to the scrollable range.
func (v *Virtualizer) SetScrollOffset(offset int) {
	max := v.TotalSize() - v.ViewportHeight
	if max < 0 {
		max = 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	v.scrollOffset = offset
}

// ScrollOffset returns the current scroll position.
func (v *Virtualizer) ScrollOffset() int {
	return v.scrollOffset
}

// TotalSize is the full logical height used to pad the scrollable area.
func (v *Virtualizer) TotalSize() int {
	return v.Count * v.RowHeight
}

// Range returns the half-open materialized index range [start, end). Its
// width depends on viewport and row height plus overscan, never on Count.
func (v *Virtualizer) Range() (start, end int) {
	if v.Count == 0 || v.RowHeight <= 0 {
		return 0, 0
	}

	start = v.scrollOffset/v.RowHeight - v.Overscan
	if start < 0 {
		start = 0
	}

	// Last row intersecting the viewport, then overscan below it.
	end = (v.scrollOffset+v.ViewportHeight-1)/v.RowHeight + 1 + v.Overscan
	if end > v.Count {
		end = v.Count
	}
	if end < start {
		end = start
	}
	return start, end
}

// Items materializes the current range with each row translated to its true
// vertical offset.
func (v *Virtualizer) Items() []VirtualItem {
	start, end := v.Range()
	items := make([]VirtualItem, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, VirtualItem{
			Index: i,
			Start: i * v.RowHeight,
			Size:  v.RowHeight,
		})
	}
	return items
}
