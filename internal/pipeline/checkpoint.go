package pipeline

import (
	"context"
	"time"

	"logship/internal/global"
	"logship/internal/logctx"
)

func (pipe *Pipeline) checkpointLoop(ctx context.Context) {
	if pipe.cfg.Checkpoints == nil {
		return
	}
	ctx = logctx.AppendCtxTag(ctx, global.NSState)

	ticker := time.NewTicker(pipe.cfg.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pipe.checkpoint(ctx)
		}
	}
}

// Persists the delivered position when it moved since the last save.
// Nothing is saved while the position belongs to a file other than the one at the path,
// since the store stamps the offset with the identity of the current file.
func (pipe *Pipeline) checkpoint(ctx context.Context) {
	if pipe.cfg.Checkpoints == nil {
		return
	}

	delivered, current := pipe.deliveredMark()
	if !current {
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"Skipped saving position for %s: sinks have not caught up with the rotated file\n", pipe.src.Path())
		return
	}
	position := delivered.offset

	pipe.saveMutex.Lock()
	defer pipe.saveMutex.Unlock()

	if pipe.saved && delivered == pipe.lastSaved {
		return
	}

	err := pipe.cfg.Checkpoints.Save(pipe.src.Path(), position)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed to save position %d for %s: %v\n", position, pipe.src.Path(), err)
		return
	}
	pipe.saved = true
	pipe.lastSaved = delivered
	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"Saved position %d for %s\n", position, pipe.src.Path())
}
