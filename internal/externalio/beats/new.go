// Lumberjack v2 (Beats protocol) output
package beats

import (
	"time"

	"logship/internal/global"
)

// Creates new beats output module. Connection happens on first send.
func NewOutput(address string, dialTimeout, sendTimeout time.Duration) (module *OutModule) {
	if dialTimeout <= 0 {
		dialTimeout = global.DefaultDialTimeout
	}
	if sendTimeout <= 0 {
		sendTimeout = global.DefaultEmitTimeout
	}
	module = &OutModule{
		address:     address,
		dialTimeout: dialTimeout,
		sendTimeout: sendTimeout,
	}
	return
}
