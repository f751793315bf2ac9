package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"logship/internal/global"
	"logship/internal/logctx"
)

type DaemonLike interface {
	Shutdown()
}

// Waits for a termination signal and asks the daemon to shut down.
// Returns after the first signal or when ctx ends.
func SignalHandler(ctx context.Context, daemon DaemonLike) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	handleSignals(ctx, sigChan, daemon)
}

func handleSignals(ctx context.Context, sigChan <-chan os.Signal, daemon DaemonLike) {
	select {
	case <-ctx.Done():
		return
	case sig := <-sigChan:
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Received signal: %v\n", sig)
	}

	err := NotifyStopping(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Service manager notify failed: %v\n", err)
	}

	daemon.Shutdown()

	logger := logctx.GetLogger(ctx)
	if logger != nil {
		logger.Wake()
	}
}
