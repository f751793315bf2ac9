// Process lifecycle shared by long running commands: signals and service manager notifications
package lifecycle

import (
	"context"
	"fmt"
	"net"
	"os"

	"logship/internal/global"
	"logship/internal/logctx"
)

const EnvNotifySocket string = "NOTIFY_SOCKET"

// Sends READY=1 to indicate startup completed
func NotifyReady(ctx context.Context) (err error) {
	err = notify(ctx, "READY=1")
	return
}

// Sends STOPPING=1 to indicate shutdown began
func NotifyStopping(ctx context.Context) (err error) {
	err = notify(ctx, "STOPPING=1")
	return
}

// Sends free-form status text
func NotifyStatus(ctx context.Context, msg string) (err error) {
	err = notify(ctx, "STATUS="+msg)
	return
}

// Sends a raw sd_notify datagram. No-op when NOTIFY_SOCKET is unset.
func notify(ctx context.Context, msg string) (err error) {
	sockPath := os.Getenv(EnvNotifySocket)
	if sockPath == "" {
		return
	}
	// Abstract namespace sockets are announced with a leading '@'
	if sockPath[0] == '@' {
		sockPath = "\x00" + sockPath[1:]
	}

	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		err = fmt.Errorf("notify dial failed: %w", err)
		return
	}
	defer conn.Close()

	_, err = conn.Write([]byte(msg))
	if err != nil {
		err = fmt.Errorf("notify write failed: %w", err)
		return
	}

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog, "Notified service manager with '%s'\n", msg)
	return
}
