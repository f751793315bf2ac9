package pipeline

import (
	"context"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/logctx"
)

// Hands ev to every sink queue in sink order during the producer's pass.
// A full sink queue therefore suspends the producer itself.
// accepted reports whether at least one sink queue took the event.
func (pipe *Pipeline) fanout(ctx context.Context, ev event.Event) (accepted bool, err error) {
	for _, w := range pipe.workers {
		err = w.queue.Send(ctx, ev)
		if err != nil {
			if accepted {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
					"event ending at offset %d not queued for sink %s: %v\n", ev.EndOffset(), w.sink.Name(), err)
			}
			return
		}
		accepted = true
	}
	return
}

// Ends every sink queue. Workers still receive what was queued before.
func (pipe *Pipeline) closeQueues(ctx context.Context) {
	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog, "Closing %d sink queue(s)\n", len(pipe.workers))
	for _, w := range pipe.workers {
		w.queue.Close()
	}
}
