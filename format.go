package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatAmount renders a monetary value with thousands separators and no
// decimals, e.g. 2500000 -> "2,500,000".
func formatAmount(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := strconv.FormatInt(int64(value+0.5), 10)

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// formatCurrency prefixes an amount with its currency code.
func formatCurrency(value float64, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return formatAmount(value)
	}
	return currency + " " + formatAmount(value)
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}

// parseServiceTime accepts the timestamp layouts the platform services emit.
func parseServiceTime(value string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func formatRelativeTime(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	delta := time.Since(ts)
	if delta < time.Minute {
		return "just now"
	}
	if delta < time.Hour {
		return fmt.Sprintf("%dm", int(delta.Minutes()))
	}
	if delta < 24*time.Hour {
		return fmt.Sprintf("%dh", int(delta.Hours()))
	}
	if delta < 7*24*time.Hour {
		return fmt.Sprintf("%dd", int(delta.Hours()/24))
	}
	return ts.Format("2006-01-02")
}

// formatServiceDate renders a service timestamp as a date, falling back to
// the raw string when it does not parse.
func formatServiceDate(value string) string {
	if ts := parseServiceTime(value); !ts.IsZero() {
		return ts.Format("2006-01-02")
	}
	return strings.TrimSpace(value)
}

func titleCaseWords(input string) string {
	parts := strings.Fields(strings.ToLower(input))
	for i, part := range parts {
		runes := []rune(part)
		if len(runes) == 0 {
			continue
		}
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
