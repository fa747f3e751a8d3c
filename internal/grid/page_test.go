package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{100, 1, 100},
	}
	for _, tc := range cases {
		w := PageWindow{Page: 1, Size: tc.size, Total: tc.total}
		assert.Equal(t, tc.want, w.TotalPages(), "total=%d size=%d", tc.total, tc.size)
	}
}

func TestClampOutOfRangePage(t *testing.T) {
	// page=1,size=20,total=45 -> 3 pages; requesting page 5 lands on 3
	w := PageWindow{Page: 5, Size: 20, Total: 45}.Clamp()
	assert.Equal(t, 3, w.Page)

	w = PageWindow{Page: 0, Size: 20, Total: 45}.Clamp()
	assert.Equal(t, 1, w.Page)

	// an empty dataset still clamps to page 1
	w = PageWindow{Page: 7, Size: 20, Total: 0}.Clamp()
	assert.Equal(t, 1, w.Page)
}

func TestClampNormalizesSize(t *testing.T) {
	w := PageWindow{Page: 1, Size: 0, Total: 10}.Clamp()
	assert.Equal(t, 1, w.Size)
}

func TestWithTotalReclamps(t *testing.T) {
	w := PageWindow{Page: 3, Size: 20, Total: 45}
	w = w.WithTotal(10)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 10, w.Total)
}

func TestSlicePageBounds(t *testing.T) {
	records := make([]int, 45)
	for i := range records {
		records[i] = i
	}

	first := SlicePage(records, PageWindow{Page: 1, Size: 20, Total: 45})
	require.Len(t, first, 20)
	assert.Equal(t, 0, first[0])
	assert.Equal(t, 19, first[19])

	last := SlicePage(records, PageWindow{Page: 3, Size: 20, Total: 45})
	require.Len(t, last, 5)
	assert.Equal(t, 40, last[0])

	// never more than size items
	for page := 1; page <= 5; page++ {
		slice := SlicePage(records, PageWindow{Page: page, Size: 7, Total: 45})
		assert.LessOrEqual(t, len(slice), 7)
	}
}

func TestSlicePagePastEndRendersEmpty(t *testing.T) {
	records := []int{1, 2, 3}
	// total says more pages exist than records loaded; slice clamps to
	// the sequence bounds and yields an empty render, not a fault
	got := SlicePage(records, PageWindow{Page: 4, Size: 3, Total: 100})
	assert.Empty(t, got)
}
