package pipeline

import (
	"context"
	"errors"

	"logship/internal/global"
	"logship/internal/logctx"
	"logship/internal/source"
)

// Reads the source into the sink queues until end of stream, failure or cancellation
func (pipe *Pipeline) produce(ctx context.Context) (err error) {
	ctx = logctx.AppendCtxTag(ctx, global.NSProducer)

	for {
		ev, readErr := pipe.src.Next(ctx)
		if readErr != nil {
			switch {
			case errors.Is(readErr, source.ErrEndOfStream):
				logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
					"Reached end of %s at offset %d\n", pipe.src.Path(), pipe.src.Position())
			case ctx.Err() != nil:
				logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
					"Stopped reading %s at offset %d\n", pipe.src.Path(), pipe.src.Position())
			default:
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
					"failed reading %s: %v\n", pipe.src.Path(), readErr)
				err = readErr
			}
			return
		}

		// Events not accepted here are re-read on the next run
		accepted, sendErr := pipe.fanout(ctx, ev)
		if accepted {
			pipe.read.Add(1)
			pipe.committed.Store(ev.EndOffset())
		}
		if sendErr != nil {
			if !accepted {
				logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
					"Discarded uncommitted event ending at offset %d: %v\n", ev.EndOffset(), sendErr)
			}
			return
		}
	}
}
