package grid

// Selection tracks at most one selected record key. Selecting a new key
// silently replaces the prior selection; re-selecting the current key is a
// no-op rather than a toggle. Deselection only happens through Clear, so
// selection survives transient invisibility (a filtered-out row stays
// selected and re-appears highlighted once the filter widens again).
type Selection struct {
	key string
	set bool
}

// Select marks key as the current selection.
func (s *Selection) Select(key string) {
	s.key = key
	s.set = true
}

// Clear removes any selection.
func (s *Selection) Clear() {
	s.key = ""
	s.set = false
}

// IsSelected reports whether key is the current selection.
func (s *Selection) IsSelected(key string) bool {
	return s.set && s.key == key
}

// Key returns the selected key, if any.
func (s *Selection) Key() (string, bool) {
	return s.key, s.set
}
