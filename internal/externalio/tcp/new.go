// Newline delimited payloads over a plain TCP connection
package tcp

import (
	"net"
	"sync"
	"time"

	"logship/internal/global"
)

type OutModule struct {
	address     string
	dialTimeout time.Duration
	conn        net.Conn // nil until first send and after a failed write
	frame       []byte
	mutex       sync.Mutex
}

// Creates a TCP output. Connection happens on first send.
func NewOutput(address string, dialTimeout time.Duration) (module *OutModule) {
	if dialTimeout <= 0 {
		dialTimeout = global.DefaultDialTimeout
	}
	module = &OutModule{
		address:     address,
		dialTimeout: dialTimeout,
	}
	return
}
