package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holding struct {
	ID    string
	Asset string
	Name  string
	Value float64
}

func holdingKey(h holding) string { return h.ID }

func holdingColumns(renderCount map[string]int) *ColumnModel[holding] {
	return MustColumnModel(
		Column[holding]{
			Key:   "asset",
			Title: "Asset",
			Render: func(h holding, _ int) string {
				return h.Asset
			},
		},
		Column[holding]{
			Key:   "name",
			Title: "Name",
			Render: func(h holding, _ int) string {
				if renderCount != nil {
					renderCount[h.ID]++
				}
				return h.Name
			},
		},
		Column[holding]{
			Key:   "value",
			Title: "Value",
			Render: func(h holding, _ int) string {
				return fmt.Sprintf("%.2f", h.Value)
			},
		},
	)
}

func TestColumnModelRejectsDuplicateKeys(t *testing.T) {
	_, err := NewColumnModel(
		Column[holding]{Key: "a", Render: func(holding, int) string { return "" }},
		Column[holding]{Key: "a", Render: func(holding, int) string { return "" }},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column key")
}

func TestColumnModelRejectsMissingRender(t *testing.T) {
	_, err := NewColumnModel(Column[holding]{Key: "a"})
	require.Error(t, err)
}

func TestColumnModelPreservesOrder(t *testing.T) {
	model := holdingColumns(nil)
	assert.Equal(t, []string{"Asset", "Name", "Value"}, model.Titles())
}

func TestGridRowsRenderInColumnOrder(t *testing.T) {
	g := New(holdingColumns(nil), holdingKey, &Selection{})
	rows := g.Rows([]holding{
		{ID: "c1", Asset: "Private Equity", Name: "Fund I", Value: 1500000},
		{ID: "c2", Asset: "Real Estate", Name: "Fund II", Value: 250000},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "c1", rows[0].Key)
	assert.Equal(t, 0, rows[0].Index)
	require.Len(t, rows[0].Cells, 3)
	assert.Equal(t, "Private Equity", rows[0].Cells[0].Text)
	assert.Equal(t, "Fund I", rows[0].Cells[1].Text)
	assert.Equal(t, "1500000.00", rows[0].Cells[2].Text)
}

func TestGridEmptyStates(t *testing.T) {
	g := New(holdingColumns(nil), holdingKey, &Selection{})
	assert.True(t, g.Empty(nil))
	assert.Nil(t, g.Rows(nil))

	// zero columns renders the placeholder even with data present
	empty := MustColumnModel[holding]()
	g = New(empty, holdingKey, &Selection{})
	records := []holding{{ID: "c1"}}
	assert.True(t, g.Empty(records))
	assert.Nil(t, g.Rows(records))
}

func TestGridRowSpanMergesRegions(t *testing.T) {
	records := []holding{
		{ID: "c1", Asset: "Private Equity", Name: "Fund I"},
		{ID: "c2", Asset: "Private Equity", Name: "Fund II"},
		{ID: "c3", Asset: "Real Estate", Name: "Fund III"},
	}
	spanOf := func(rs []holding) func(holding, int) int {
		return func(h holding, i int) int {
			span := 1
			for j := i + 1; j < len(rs) && rs[j].Asset == h.Asset; j++ {
				span++
			}
			return span
		}
	}

	model := MustColumnModel(
		Column[holding]{
			Key:     "asset",
			Title:   "Asset",
			Render:  func(h holding, _ int) string { return h.Asset },
			RowSpan: spanOf(records),
		},
		Column[holding]{
			Key:    "name",
			Title:  "Name",
			Render: func(h holding, _ int) string { return h.Name },
		},
	)
	g := New(model, holdingKey, &Selection{})
	rows := g.Rows(records)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Cells[0].Span)
	assert.Equal(t, 0, rows[1].Cells[0].Span, "second row merges into the first")
	assert.Equal(t, "", rows[1].Cells[0].Text)
	assert.Equal(t, 1, rows[2].Cells[0].Span)

	// the plain column is untouched by the merge
	assert.Equal(t, 1, rows[1].Cells[1].Span)
	assert.Equal(t, "Fund II", rows[1].Cells[1].Text)
}

func TestGridRowSpanClampsToRemainingRows(t *testing.T) {
	model := MustColumnModel(
		Column[holding]{
			Key:     "asset",
			Title:   "Asset",
			Render:  func(h holding, _ int) string { return h.Asset },
			RowSpan: func(holding, int) int { return 99 },
		},
	)
	g := New(model, holdingKey, &Selection{})
	rows := g.Rows([]holding{{ID: "c1"}, {ID: "c2"}})
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Cells[0].Span)
	assert.Equal(t, 0, rows[1].Cells[0].Span)
}

func TestGridMemoizesByKeyAcrossReorder(t *testing.T) {
	counts := make(map[string]int)
	g := New(holdingColumns(counts), holdingKey, &Selection{})
	records := []holding{
		{ID: "c1", Name: "Fund I"},
		{ID: "c2", Name: "Fund II"},
	}

	g.Rows(records)
	assert.Equal(t, 1, counts["c1"])
	assert.Equal(t, 1, counts["c2"])

	// reordering without content change must not re-invoke renders
	g.Rows([]holding{records[1], records[0]})
	assert.Equal(t, 1, counts["c1"])
	assert.Equal(t, 1, counts["c2"])

	// a record dropped from the set is evicted and re-renders on return
	g.Rows([]holding{records[0]})
	g.Rows(records)
	assert.Equal(t, 1, counts["c1"])
	assert.Equal(t, 2, counts["c2"])
}

func TestGridInvalidateForcesRerender(t *testing.T) {
	counts := make(map[string]int)
	g := New(holdingColumns(counts), holdingKey, &Selection{})
	records := []holding{{ID: "c1", Name: "Fund I"}}

	g.Rows(records)
	g.Invalidate()
	g.Rows(records)
	assert.Equal(t, 2, counts["c1"])
}

func TestGridMarksSelectedRow(t *testing.T) {
	sel := &Selection{}
	sel.Select("c2")
	g := New(holdingColumns(nil), holdingKey, sel)
	rows := g.Rows([]holding{{ID: "c1"}, {ID: "c2"}})
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Selected)
	assert.True(t, rows[1].Selected)
}
