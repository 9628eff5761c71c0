package portal

// PageSize is how many rows the portal list reveals at a time
const PageSize = 20

// Window implements the portal's load-more display model: the full
// filtered set is computed eagerly each time, then truncated to a running
// count. There is no cursor; this is not true pagination.
type Window struct {
	count int
}

// NewWindow returns a window showing the first page
func NewWindow() *Window {
	return &Window{count: PageSize}
}

// Count returns the current display count
func (w *Window) Count() int {
	return w.count
}

// LoadMore reveals one more page (called on reaching scroll-bottom)
func (w *Window) LoadMore() {
	w.count += PageSize
}

// Reset shrinks the window back to the first page. Any filter change
// resets the window.
func (w *Window) Reset() {
	w.count = PageSize
}

// Apply truncates rows to the current display count
func (w *Window) Apply(rows []VisitorRow) []VisitorRow {
	return Truncate(rows, w.count)
}

// Truncate slices rows to at most count entries. A non-positive count
// falls back to the first page.
func Truncate(rows []VisitorRow, count int) []VisitorRow {
	if count <= 0 {
		count = PageSize
	}
	if len(rows) <= count {
		return rows
	}
	return rows[:count]
}
