package grid

// PageWindow is the (page, size, total) triple governing which slice of an
// ordered sequence is visible. Page and Size are 1-based and at least 1;
// Total is the full record count as reported by the data source.
type PageWindow struct {
	Page  int
	Size  int
	Total int
}

// TotalPages derives the page count: ceil(Total / Size).
func (w PageWindow) TotalPages() int {
	if w.Size < 1 || w.Total <= 0 {
		return 0
	}
	return (w.Total + w.Size - 1) / w.Size
}

// Clamp normalizes the window: Size at least 1, Page within
// [1, max(1, TotalPages)]. Callers re-clamp whenever Total changes so the
// next slice renders empty rather than faulting on an out-of-range page.
func (w PageWindow) Clamp() PageWindow {
	if w.Size < 1 {
		w.Size = 1
	}
	if w.Total < 0 {
		w.Total = 0
	}
	max := w.TotalPages()
	if max < 1 {
		max = 1
	}
	if w.Page > max {
		w.Page = max
	}
	if w.Page < 1 {
		w.Page = 1
	}
	return w
}

// WithTotal returns the window with a new total, re-clamped.
func (w PageWindow) WithTotal(total int) PageWindow {
	w.Total = total
	return w.Clamp()
}

// SlicePage returns the records in [(page-1)*size, page*size), clamped to
// the sequence bounds. It never returns more than Size items and never
// errors; a window past the end yields an empty slice.
func SlicePage[T any](records []T, w PageWindow) []T {
	w = w.Clamp()
	start := (w.Page - 1) * w.Size
	if start >= len(records) {
		return nil
	}
	end := start + w.Size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
