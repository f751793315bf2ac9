package pipeline

import (
	"context"

	"logship/internal/global"
	"logship/internal/logctx"
)

// Emits queued events into the sink. Failures are logged and counted, never retried here.
// An event keeps its queue slot until the emit finished.
func (w *worker) run(ctx context.Context) {
	ctx = logctx.OverwriteCtxTag(ctx, w.Namespace)

	for {
		if ctx.Err() != nil {
			return
		}
		ev, release, err := w.queue.Hold(ctx)
		if err != nil {
			return
		}

		err = w.sink.Emit(ctx, ev)
		if err != nil {
			w.failures.Add(1)
			w.metrics.Failures.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"sink %s failed to deliver event from %s at offset %d: %v\n",
				w.sink.Name(), ev.Source(), ev.StartOffset(), err)
		} else {
			w.successes.Add(1)
			w.metrics.Successes.Add(1)
		}

		w.attempted.Add(1)
		w.last.Store(&mark{generation: ev.Generation(), offset: ev.EndOffset()})
		release()
	}
}
