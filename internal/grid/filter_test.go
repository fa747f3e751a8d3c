package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type investor struct {
	ID      string
	Name    string
	Country string
}

func investorFields(r investor) []string {
	return []string{r.Name, r.Country}
}

var filterRecords = []investor{
	{ID: "1", Name: "Gryffindor Fund", Country: "Singapore"},
	{ID: "2", Name: "Hufflepuff Capital", Country: "United Kingdom"},
	{ID: "3", Name: "Ravenclaw Partners", Country: "Singapore"},
	{ID: "4", Name: "Slytherin Holdings", Country: "Germany"},
}

func TestApplyFilterEmptyTermIsIdentity(t *testing.T) {
	got := ApplyFilter(filterRecords, "", investorFields)
	assert.Equal(t, filterRecords, got)

	got = ApplyFilter(filterRecords, "   ", investorFields)
	assert.Equal(t, filterRecords, got)
}

func TestApplyFilterCaseInsensitiveSubstring(t *testing.T) {
	got := ApplyFilter(filterRecords, "SINGAPORE", investorFields)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestApplyFilterMatchesAnyField(t *testing.T) {
	// matches the country projection only
	got := ApplyFilter(filterRecords, "kingdom", investorFields)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestApplyFilterNoMatch(t *testing.T) {
	got := ApplyFilter(filterRecords, "zzz", investorFields)
	assert.Empty(t, got)
}

func TestApplyFilterMonotonicInSpecificity(t *testing.T) {
	short := ApplyFilter(filterRecords, "ra", investorFields)
	long := ApplyFilter(filterRecords, "raven", investorFields)

	require.NotEmpty(t, short)
	for _, record := range long {
		assert.Contains(t, short, record)
	}
	assert.LessOrEqual(t, len(long), len(short))
}

func TestApplyFilterNilFields(t *testing.T) {
	got := ApplyFilter(filterRecords, "anything", nil)
	assert.Equal(t, filterRecords, got)
}
