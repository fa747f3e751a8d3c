package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

type sessionEvent struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Endpoint  string            `json:"endpoint"`
	Operation string            `json:"operation"`
	ItemID    string            `json:"item_id"`
	Extra     map[string]string `json:"extra"`
}

type sessionSummary struct {
	SessionID       string           `json:"session_id"`
	UserID          string           `json:"user_id,omitempty"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	DurationSeconds float64          `json:"duration_seconds"`
	EventCounts     map[string]int64 `json:"event_counts"`
	QueriesIssued   int64            `json:"queries_issued"`
	QueryErrors     int64            `json:"query_errors"`
	RowsSelected    int64            `json:"rows_selected"`
	PagesVisited    int64            `json:"pages_visited"`
	Endpoints       []string         `json:"endpoints,omitempty"`
	Anomalies       []string         `json:"anomalies,omitempty"`
}

type statsReport struct {
	Source       string           `json:"source"`
	Sessions     []sessionSummary `json:"sessions"`
	TotalEvents  int64            `json:"total_events"`
	ParseSkipped int64            `json:"parse_skipped"`
}

func main() {
	var inputPath string
	var outputPath string
	flag.StringVar(&inputPath, "in", "", "input telemetry JSONL path (required)")
	flag.StringVar(&outputPath, "out", "", "output JSON path (optional, defaults to stdout)")
	flag.Parse()

	if inputPath == "" {
		exit(errors.New("missing --in path"))
	}

	events, skipped, err := readEvents(inputPath)
	if err != nil {
		exit(fmt.Errorf("read telemetry: %w", err))
	}

	report := buildReport(inputPath, events, skipped)

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exit(fmt.Errorf("encode report: %w", err))
	}

	if outputPath == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		exit(fmt.Errorf("write output: %w", err))
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "sessionstats: %v\n", err)
	os.Exit(1)
}

func readEvents(path string) ([]sessionEvent, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var (
		scanner = bufio.NewScanner(file)
		events  []sessionEvent
		skipped int64
	)
	scanner.Buffer(make([]byte, 0, 256*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event sessionEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil || event.Event == "" {
			skipped++
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return events, skipped, nil
}

func buildReport(path string, events []sessionEvent, skipped int64) statsReport {
	bySession := map[string][]sessionEvent{}
	for _, event := range events {
		id := event.SessionID
		if id == "" {
			id = "unknown"
		}
		bySession[id] = append(bySession[id], event)
	}

	var sessions []sessionSummary
	for id, group := range bySession {
		sessions = append(sessions, summarizeSession(id, group))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})

	return statsReport{
		Source:       path,
		Sessions:     sessions,
		TotalEvents:  int64(len(events)),
		ParseSkipped: skipped,
	}
}

func summarizeSession(id string, events []sessionEvent) sessionSummary {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	summary := sessionSummary{
		SessionID:   id,
		EventCounts: map[string]int64{},
	}
	endpoints := map[string]bool{}

	for _, event := range events {
		summary.EventCounts[event.Event]++
		if summary.UserID == "" {
			summary.UserID = event.UserID
		}
		if summary.StartTime.IsZero() || event.Timestamp.Before(summary.StartTime) {
			summary.StartTime = event.Timestamp
		}
		if event.Timestamp.After(summary.EndTime) {
			summary.EndTime = event.Timestamp
		}
		if event.Endpoint != "" {
			endpoints[event.Endpoint] = true
		}

		switch event.Event {
		case "query_issued":
			summary.QueriesIssued++
		case "query_error":
			summary.QueryErrors++
		case "row_selected":
			summary.RowsSelected++
		case "page_changed":
			summary.PagesVisited++
		}
	}

	if !summary.StartTime.IsZero() && !summary.EndTime.IsZero() {
		summary.DurationSeconds = summary.EndTime.Sub(summary.StartTime).Seconds()
	}
	for endpoint := range endpoints {
		summary.Endpoints = append(summary.Endpoints, endpoint)
	}
	sort.Strings(summary.Endpoints)
	summary.Anomalies = detectAnomalies(summary)

	return summary
}

func detectAnomalies(summary sessionSummary) []string {
	var out []string
	if summary.QueriesIssued > 0 && summary.QueryErrors*2 >= summary.QueriesIssued {
		out = append(out, fmt.Sprintf("high error rate (%d of %d queries failed)", summary.QueryErrors, summary.QueriesIssued))
	}
	if summary.QueryErrors > 0 && summary.QueriesIssued == 0 {
		out = append(out, "errors recorded without issued queries")
	}
	return out
}
