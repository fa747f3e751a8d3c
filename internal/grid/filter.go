package grid

import "strings"

// ApplyFilter returns the records whose projected fields contain term,
// case-insensitively. An empty (or all-whitespace) term is the identity and
// returns the input slice untouched. Filtering is pure and synchronous over
// the already-fetched page; it never issues a query.
func ApplyFilter[T any](records []T, term string, fields func(T) []string) []T {
	term = strings.TrimSpace(term)
	if term == "" || fields == nil {
		return records
	}
	needle := strings.ToLower(term)
	var matched []T
	for _, record := range records {
		for _, field := range fields(record) {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, record)
				break
			}
		}
	}
	return matched
}
