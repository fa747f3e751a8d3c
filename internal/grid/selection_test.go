package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionReplacesSilently(t *testing.T) {
	var s Selection
	_, ok := s.Key()
	assert.False(t, ok)

	s.Select("a")
	assert.True(t, s.IsSelected("a"))

	s.Select("b")
	assert.True(t, s.IsSelected("b"))
	assert.False(t, s.IsSelected("a"))
}

func TestSelectionReselectIsIdempotent(t *testing.T) {
	var s Selection
	s.Select("a")
	s.Select("a")
	// not a toggle: the key stays selected
	assert.True(t, s.IsSelected("a"))
}

func TestSelectionClear(t *testing.T) {
	var s Selection
	s.Select("a")
	s.Clear()
	assert.False(t, s.IsSelected("a"))
	_, ok := s.Key()
	assert.False(t, ok)
}

func TestSelectionSurvivesFiltering(t *testing.T) {
	var s Selection
	s.Select("3")

	// narrow the filter so the selected record disappears from view
	visible := ApplyFilter(filterRecords, "hufflepuff", investorFields)
	require.Len(t, visible, 1)
	for _, r := range visible {
		assert.False(t, s.IsSelected(r.ID))
	}
	assert.True(t, s.IsSelected("3"), "selection must not clear on filter")

	// widening the filter re-reveals the highlighted row
	visible = ApplyFilter(filterRecords, "", investorFields)
	found := false
	for _, r := range visible {
		if s.IsSelected(r.ID) {
			found = true
		}
	}
	assert.True(t, found)
}
