package logctx

import (
	"slices"
)

// Returns queued (unprinted) events formatted oldest to newest, each ending in a newline.
// Used when no watcher is attached, mostly by tests.
func (logger *Logger) GetFormattedLogLines() (formatted []string) {
	logger.mutex.Lock()
	events := slices.Clone(logger.queue)
	logger.mutex.Unlock()

	// Zero timestamps sort last
	slices.SortStableFunc(events, func(a, b Event) int {
		switch {
		case a.Timestamp.IsZero() && b.Timestamp.IsZero():
			return 0
		case a.Timestamp.IsZero():
			return 1
		case b.Timestamp.IsZero():
			return -1
		}
		return a.Timestamp.Compare(b.Timestamp)
	})

	formatted = make([]string, 0, len(events))
	for _, event := range events {
		formatted = append(formatted, withNewline(event.Format()))
	}
	return
}
