package logctx

import (
	"sync"
	"time"
)

// Log Event Structure
type Event struct {
	Timestamp time.Time
	Severity  string
	Tags      []string
	Message   string
}

// Logger Struct
type Logger struct {
	ID         string
	CreatedAt  time.Time
	Done       <-chan struct{}
	PrintLevel int // Highest verbosity level that is recorded

	queue []Event    // events waiting for the watcher
	mutex sync.Mutex // protects queue and PrintLevel
	cond  *sync.Cond // signals new events to the watcher
	wg    sync.WaitGroup
}

// Repeated message suppression state for a watcher
type dedupState struct {
	lastMsg          string
	repeatCount      int
	lastSuppressTime time.Time
}
