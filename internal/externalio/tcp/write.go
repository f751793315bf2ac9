package tcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"logship/internal/event"
)

// Writes the payload plus a newline, dialing first when not connected.
// Any failure drops the connection so the next attempt redials.
func (mod *OutModule) Send(ctx context.Context, ev event.Event) (err error) {
	mod.mutex.Lock()
	defer mod.mutex.Unlock()

	if mod.conn == nil {
		dialer := net.Dialer{Timeout: mod.dialTimeout}
		mod.conn, err = dialer.DialContext(ctx, "tcp", mod.address)
		if err != nil {
			mod.conn = nil
			err = fmt.Errorf("failed connecting to %s: %w", mod.address, err)
			return
		}
	}

	conn := mod.conn

	// Zero deadline when ctx has none
	deadline, _ := ctx.Deadline()
	err = conn.SetWriteDeadline(deadline)
	if err != nil {
		mod.dropConn()
		return
	}

	// Unblock the write when ctx is canceled without a deadline
	stop := context.AfterFunc(ctx, func() {
		conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	mod.frame = append(append(mod.frame[:0], ev.Payload()...), '\n')
	_, err = conn.Write(mod.frame)
	if err != nil {
		mod.dropConn()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("write to %s interrupted: %w", mod.address, ctxErr)
			return
		}
		err = fmt.Errorf("failed writing to %s: %w", mod.address, err)
		return
	}
	return
}

func (mod *OutModule) dropConn() {
	if mod.conn != nil {
		mod.conn.Close()
		mod.conn = nil
	}
}
