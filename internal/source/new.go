// Tailing reader that turns newline terminated records of a file into events
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"logship/internal/global"
	"logship/internal/logctx"
	"logship/internal/state"
)

// Opens path and positions the reader at startPosition.
// A start position outside [0, file size] is rejected.
func Open(ctx context.Context, path string, startPosition int64, opts Options) (src *FileSource, err error) {
	opts = opts.withDefaults()

	file, err := openRegular(path)
	if err != nil {
		return
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Offset: startPosition, Err: err}
		return
	}
	if startPosition < 0 || startPosition > info.Size() {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Offset: startPosition,
			Err: fmt.Errorf("%w: file size is %d", ErrInvalidPosition, info.Size())}
		return
	}

	_, err = file.Seek(startPosition, io.SeekStart)
	if err != nil {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Offset: startPosition, Err: err}
		return
	}

	id, err := state.IdentifyOpen(file)
	if err != nil {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Offset: startPosition, Err: err}
		return
	}

	src = &FileSource{
		Namespace:  append(append([]string{}, opts.Namespace...), global.NSoFile),
		path:       path,
		opts:       opts,
		file:       file,
		inode:      id.Inode,
		buf:        make([]byte, opts.ReadBufferSize),
		position:   startPosition,
		readOffset: startPosition,
	}

	if opts.Follow {
		src.watch, err = newWatcher(ctx, path)
		if err != nil {
			// Poll interval alone still notices new data
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"file change notifications unavailable for '%s', polling every %s: %v\n", path, opts.PollInterval, err)
			err = nil
		}
	}
	return
}

// Opens a regular file for reading, classifying failures
func openRegular(path string) (file *os.File, err error) {
	file, err = os.Open(path)
	if err != nil {
		err = &SourceError{Kind: classifyOpenError(err), Path: path, Err: err}
		return
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Err: err}
		return
	}
	if !info.Mode().IsRegular() {
		file.Close()
		err = &SourceError{Kind: KindIO, Path: path, Err: fmt.Errorf("%w: %s", ErrNotRegularFile, info.Mode().Type())}
		return
	}
	return
}

func classifyOpenError(err error) (kind ErrorKind) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	default:
		kind = KindIO
	}
	return
}

// Checks that path names a readable regular file without keeping it open
func Validate(path string) (err error) {
	file, err := openRegular(path)
	if err != nil {
		return
	}
	err = file.Close()
	return
}

func (opts Options) withDefaults() Options {
	if opts.PollInterval <= 0 {
		opts.PollInterval = global.DefaultPollInterval
	}
	if opts.MaxRecordSize <= 0 {
		opts.MaxRecordSize = global.DefaultMaxRecordSize
	}
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = global.DefaultReadBufferSize
	}
	return opts
}

// Identifier placed on every event
func (src *FileSource) Path() string {
	return src.path
}

// Offset of the next unread record
func (src *FileSource) Position() int64 {
	return src.position
}

// Incarnation of the file currently read, see event.Event.Generation.
// Safe to call from any goroutine.
func (src *FileSource) Generation() uint64 {
	return src.generation.Load()
}

// Releases the file handle and watcher. Safe to call more than once.
func (src *FileSource) Close() (err error) {
	if src == nil || src.closed {
		return
	}
	src.closed = true
	if src.watch != nil {
		src.watch.close()
	}
	if src.file != nil {
		err = src.file.Close()
	}
	return
}

func absOrSame(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
