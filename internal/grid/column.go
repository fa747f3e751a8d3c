// Package grid provides a generic, framework-agnostic tabular view model:
// column declarations, row rendering with merged-cell regions, free-text
// filtering, page windowing, and single-row selection. It is polymorphic
// over the record type; the only requirement is a stable key projection.
package grid

import "fmt"

// Column describes one vertical slice of a grid. Render must be pure: the
// grid may re-invoke it on any re-render and caches its output per row key.
type Column[T any] struct {
	// Key identifies the column within its model. Unique, required.
	Key string

	// Title is the header label.
	Title string

	// Render produces the cell text for a record at the given row index.
	Render func(record T, index int) string

	// RowSpan, when set, reports how many rows (including this one) the
	// cell at the given index spans. The grid turns spans into merged
	// regions but never decides grouping on its own.
	RowSpan func(record T, index int) int
}

// ColumnModel is an ordered, validated set of columns. Insertion order is
// render order. Models are built once per view and are immutable after.
type ColumnModel[T any] struct {
	cols []Column[T]
}

// NewColumnModel validates the column set and freezes its order.
func NewColumnModel[T any](cols ...Column[T]) (*ColumnModel[T], error) {
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if col.Key == "" {
			return nil, fmt.Errorf("grid: column with empty key")
		}
		if seen[col.Key] {
			return nil, fmt.Errorf("grid: duplicate column key %q", col.Key)
		}
		if col.Render == nil {
			return nil, fmt.Errorf("grid: column %q has no render function", col.Key)
		}
		seen[col.Key] = true
	}
	return &ColumnModel[T]{cols: append([]Column[T](nil), cols...)}, nil
}

// MustColumnModel is NewColumnModel for statically-known column sets.
func MustColumnModel[T any](cols ...Column[T]) *ColumnModel[T] {
	model, err := NewColumnModel(cols...)
	if err != nil {
		panic(err)
	}
	return model
}

// Columns returns the columns in render order.
func (m *ColumnModel[T]) Columns() []Column[T] {
	return m.cols
}

// Len returns the number of columns.
func (m *ColumnModel[T]) Len() int {
	return len(m.cols)
}

// Titles returns the header labels in render order.
func (m *ColumnModel[T]) Titles() []string {
	titles := make([]string, len(m.cols))
	for i, col := range m.cols {
		titles[i] = col.Title
	}
	return titles
}
