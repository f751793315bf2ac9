package logctx

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"logship/internal/global"
)

const (
	dedupWindow      = 5 * time.Second
	minRepeats       = 10
	suppressCooldown = 1 * time.Minute
)

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed and the queue is empty.
// Severities are colored when output is a terminal.
func StartWatcher(logger *Logger, output io.Writer) {
	color := false
	if file, ok := output.(*os.File); ok {
		color = term.IsTerminal(int(file.Fd()))
	}

	logger.wg.Add(1)
	go func() {
		defer logger.wg.Done()

		var dedup dedupState
		for {
			event, ok := logger.next()
			if !ok {
				return
			}

			// Highly repetitive messages inside the window are counted instead of printed
			now := time.Now()
			if event.Message != "" && event.Message == dedup.lastMsg &&
				now.Sub(event.Timestamp) <= dedupWindow {
				dedup.repeatCount++
				if dedup.repeatCount >= minRepeats && now.Sub(dedup.lastSuppressTime) >= suppressCooldown {
					notice := Event{
						Timestamp: event.Timestamp,
						Tags:      event.Tags,
						Severity:  global.InfoLog,
						Message:   fmt.Sprintf("Suppressed %d repeated messages: %s", dedup.repeatCount, dedup.lastMsg),
					}
					fmt.Fprint(output, withNewline(notice.format(color)))
					dedup.lastSuppressTime = now
					dedup.repeatCount = 0
				}
				continue
			}
			dedup.lastMsg = event.Message
			dedup.repeatCount = 1

			fmt.Fprint(output, event.format(color))
		}
	}()
}

// Blocks until an event is available or the logger is done with nothing left to print
func (logger *Logger) next() (event Event, ok bool) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for len(logger.queue) == 0 {
		select {
		case <-logger.Done:
			return
		default:
			logger.cond.Wait()
		}
	}

	event = logger.queue[0]
	logger.queue = logger.queue[1:]
	ok = true
	return
}

func withNewline(text string) string {
	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}
	return text
}
