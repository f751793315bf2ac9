package logctx

import (
	"strings"
	"time"

	"logship/internal/global"
)

// Fixed width RFC3339 with nanoseconds
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ANSI colors for severities when writing to a terminal
var severityColors = map[string]string{
	global.ErrorLog: "\033[31m",
	global.WarnLog:  "\033[33m",
	global.InfoLog:  "\033[32m",
}

const colorReset = "\033[0m"

// Stringify full event. Parts that are empty are omitted.
// No newline is added, message creator determines newlines.
func (event Event) Format() (text string) {
	text = event.format(false)
	return
}

func (event Event) format(color bool) (text string) {
	var parts []string
	if !event.Timestamp.IsZero() {
		parts = append(parts, "["+padTimestamp(event.Timestamp)+"]")
	}
	if len(event.Tags) > 0 {
		parts = append(parts, "["+strings.Join(event.Tags, "/")+"]")
	}
	if event.Severity != "" {
		severity := event.Severity
		if code, ok := severityColors[severity]; ok && color {
			severity = code + severity + colorReset
		}
		parts = append(parts, "["+severity+"]")
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}
	text = strings.Join(parts, " ")
	return
}

// Ensures fixed length strings for timestamps
func padTimestamp(timestamp time.Time) (formatted string) {
	formatted = timestamp.Format(timestampLayout)
	return
}
