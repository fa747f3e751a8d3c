package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvents(t *testing.T, events []sessionEvent) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, event := range events {
		require.NoError(t, encoder.Encode(event))
	}
	return path
}

func TestBuildReportGroupsBySession(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	path := writeEvents(t, []sessionEvent{
		{SessionID: "a", UserID: "harry", Timestamp: base, Event: "app_start", Endpoint: "http://gw:9000"},
		{SessionID: "a", Timestamp: base.Add(10 * time.Second), Event: "query_issued", Operation: "investors"},
		{SessionID: "a", Timestamp: base.Add(12 * time.Second), Event: "row_selected", ItemID: "i1"},
		{SessionID: "a", Timestamp: base.Add(20 * time.Second), Event: "page_changed"},
		{SessionID: "b", Timestamp: base.Add(time.Hour), Event: "app_start", Endpoint: "http://gw:9001"},
		{SessionID: "b", Timestamp: base.Add(time.Hour + time.Second), Event: "query_issued", Operation: "investors"},
		{SessionID: "b", Timestamp: base.Add(time.Hour + 2*time.Second), Event: "query_error", Operation: "investors"},
	})

	events, skipped, err := readEvents(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)

	report := buildReport(path, events, skipped)
	require.Len(t, report.Sessions, 2)
	assert.Equal(t, int64(7), report.TotalEvents)

	first := report.Sessions[0]
	assert.Equal(t, "a", first.SessionID)
	assert.Equal(t, "harry", first.UserID)
	assert.Equal(t, int64(1), first.QueriesIssued)
	assert.Equal(t, int64(1), first.RowsSelected)
	assert.Equal(t, int64(1), first.PagesVisited)
	assert.Equal(t, 20.0, first.DurationSeconds)
	assert.Equal(t, []string{"http://gw:9000"}, first.Endpoints)
	assert.Empty(t, first.Anomalies)

	second := report.Sessions[1]
	assert.Equal(t, int64(1), second.QueryErrors)
	require.Len(t, second.Anomalies, 1)
	assert.Contains(t, second.Anomalies[0], "high error rate")
}

func TestReadEventsSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := `{"session_id":"a","event":"app_start","timestamp":"2026-08-01T10:00:00Z"}
not json at all
{"session_id":"a","timestamp":"2026-08-01T10:00:05Z"}

{"session_id":"a","event":"row_selected","timestamp":"2026-08-01T10:00:10Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	events, skipped, err := readEvents(path)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, int64(2), skipped)
}
