package grid

// Cell is one rendered cell. Span is the number of rows the cell covers;
// a Span of 0 marks a cell merged into the spanning cell above it.
type Cell struct {
	Text string
	Span int
}

// Row is one rendered row. Key is the record's identity projection and is
// what diffing and selection use; the positional index is display-only.
type Row struct {
	Key      string
	Index    int
	Cells    []Cell
	Selected bool
}

// Grid composes a column model, a key projection, and a selection into a
// row producer. The input sequence is expected to be filtered and paged
// already; the grid itself neither filters nor sorts.
type Grid[T any] struct {
	model     *ColumnModel[T]
	keyOf     func(T) string
	selection *Selection

	cache map[string]cachedRow
}

type cachedRow struct {
	index int
	cells []Cell
}

// New builds a grid over the given column model. keyOf must yield a stable
// identity for every record; selection may be shared with other consumers.
func New[T any](model *ColumnModel[T], keyOf func(T) string, selection *Selection) *Grid[T] {
	return &Grid[T]{
		model:     model,
		keyOf:     keyOf,
		selection: selection,
		cache:     make(map[string]cachedRow),
	}
}

// Selection returns the grid's selection state.
func (g *Grid[T]) Selection() *Selection {
	return g.selection
}

// Model returns the grid's column model.
func (g *Grid[T]) Model() *ColumnModel[T] {
	return g.model
}

// KeyOf projects a record to its identity key.
func (g *Grid[T]) KeyOf(record T) string {
	return g.keyOf(record)
}

// Empty reports whether the records would render as the empty state. A grid
// with zero columns renders the placeholder unconditionally: both columns
// and data are required for a non-empty render.
func (g *Grid[T]) Empty(records []T) bool {
	return len(records) == 0 || g.model.Len() == 0
}

// Invalidate drops memoized cells. Call after anything a render function
// reads outside the record itself may have changed.
func (g *Grid[T]) Invalidate() {
	g.cache = make(map[string]cachedRow)
}

// Rows renders the records into rows, resolving row spans into merged
// regions. Returns nil for the empty state. Cell output is memoized by row
// key, not position, so reordering re-uses prior renders for unaffected
// rows instead of re-invoking every render function.
func (g *Grid[T]) Rows(records []T) []Row {
	if g.Empty(records) {
		return nil
	}

	cols := g.model.Columns()
	rows := make([]Row, len(records))
	// remaining merged rows per column, carried downward
	covered := make([]int, len(cols))

	next := make(map[string]cachedRow, len(records))
	for i, record := range records {
		key := g.keyOf(record)
		cells := g.renderCells(key, record, i, next)

		for c, col := range cols {
			if covered[c] > 0 {
				covered[c]--
				cells[c] = Cell{Span: 0}
				continue
			}
			span := 1
			if col.RowSpan != nil {
				if s := col.RowSpan(record, i); s > 1 {
					span = s
				}
			}
			if span > len(records)-i {
				span = len(records) - i
			}
			cells[c].Span = span
			covered[c] = span - 1
		}

		rows[i] = Row{
			Key:      key,
			Index:    i,
			Cells:    cells,
			Selected: g.selection != nil && g.selection.IsSelected(key),
		}
	}
	g.cache = next
	return rows
}

// RenderRow renders a single record through every column without span
// resolution. Exposed for consumers that lay out rows themselves.
func (g *Grid[T]) RenderRow(record T, index int) []string {
	cols := g.model.Columns()
	out := make([]string, len(cols))
	for c, col := range cols {
		out[c] = col.Render(record, index)
	}
	return out
}

func (g *Grid[T]) renderCells(key string, record T, index int, next map[string]cachedRow) []Cell {
	if prev, ok := g.cache[key]; ok {
		next[key] = prev
		return append([]Cell(nil), prev.cells...)
	}
	cols := g.model.Columns()
	cells := make([]Cell, len(cols))
	for c, col := range cols {
		cells[c] = Cell{Text: col.Render(record, index), Span: 1}
	}
	next[key] = cachedRow{index: index, cells: append([]Cell(nil), cells...)}
	return cells
}
