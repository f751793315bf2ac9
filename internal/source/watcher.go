package source

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"logship/internal/global"
	"logship/internal/logctx"
)

// Change notifications for one file, delivered through its directory so rotation is seen too
type watcher struct {
	fsw     *fsnotify.Watcher
	target  string
	changed chan struct{} // capacity 1, coalesces bursts
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func newWatcher(ctx context.Context, path string) (watch *watcher, err error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}

	target := absOrSame(path)
	err = fsw.Add(filepath.Dir(target))
	if err != nil {
		fsw.Close()
		return
	}

	watch = &watcher{
		fsw:     fsw,
		target:  target,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSWatcher)
	watch.wg.Add(1)
	go watch.run(ctx)
	return
}

func (watch *watcher) run(ctx context.Context) {
	defer watch.wg.Done()

	for {
		select {
		case <-watch.done:
			return
		case fsEvent, ok := <-watch.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(fsEvent.Name) != watch.target {
				continue
			}
			if fsEvent.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
				continue
			}
			watch.signal()
		case watchErr, ok := <-watch.fsw.Errors:
			if !ok {
				return
			}
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"error watching '%s': %v\n", watch.target, watchErr)
			// Overflow may hide writes
			watch.signal()
		}
	}
}

func (watch *watcher) signal() {
	select {
	case watch.changed <- struct{}{}:
	default:
	}
}

// Returns when the file changed, the poll interval passed, or ctx is done
func (watch *watcher) wait(ctx context.Context, poll time.Duration) (err error) {
	timer := time.NewTimer(poll)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-watch.changed:
	case <-timer.C:
	}
	return
}

func (watch *watcher) close() {
	watch.once.Do(func() {
		close(watch.done)
		watch.fsw.Close()
		watch.wg.Wait()
	})
}

// Polling wait used when notifications are unavailable
func sleep(ctx context.Context, interval time.Duration) (err error) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}
	return
}
