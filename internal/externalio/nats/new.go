// NATS output publishing one message per event
package nats

import (
	"fmt"
	"time"

	natsio "github.com/nats-io/nats.go"

	"logship/internal/global"
)

type OutModule struct {
	subject string
	conn    *natsio.Conn
}

// Connects to the server at address. The client reconnects on its own after drops.
func NewOutput(address string, subject string, dialTimeout time.Duration) (module *OutModule, err error) {
	if subject == "" {
		err = fmt.Errorf("nats output requires a subject")
		return
	}
	if dialTimeout <= 0 {
		dialTimeout = global.DefaultDialTimeout
	}

	conn, err := natsio.Connect("nats://"+address,
		natsio.Name(global.ProgBaseName+"/"+global.AgentID),
		natsio.Timeout(dialTimeout),
		natsio.MaxReconnects(-1),
		natsio.ReconnectWait(time.Second),
		natsio.RetryOnFailedConnect(true),
	)
	if err != nil {
		err = fmt.Errorf("connecting to NATS at %s: %w", address, err)
		return
	}

	module = &OutModule{
		subject: subject,
		conn:    conn,
	}
	return
}
