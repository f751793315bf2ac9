package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/logctx"
	"logship/internal/state"
)

// Returns the next complete record as an event.
// At end of file it returns ErrEndOfStream, or waits for more data when following.
// Trailing bytes without a terminator are held back and never emitted on their own.
func (src *FileSource) Next(ctx context.Context) (ev event.Event, err error) {
	if src.closed {
		err = ErrClosed
		return
	}

	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		// Complete record already buffered
		idx := bytes.IndexByte(src.pending, '\n')
		if idx >= 0 {
			if len(src.partial)+idx > src.opts.MaxRecordSize {
				err = src.tooLarge(len(src.partial) + idx)
				return
			}

			var record []byte
			if len(src.partial) > 0 {
				src.partial = append(src.partial, src.pending[:idx]...)
				record = src.partial
			} else {
				record = src.pending[:idx]
			}
			src.pending = src.pending[idx+1:]

			src.position += int64(len(record)) + 1
			ev = event.New(src.path, record, src.position).WithGeneration(src.generation.Load())
			src.partial = src.partial[:0]
			src.metrics.LinesRead.Add(1)
			return
		}

		// Carry the unterminated tail over to the next chunk
		if len(src.pending) > 0 {
			src.partial = append(src.partial, src.pending...)
			src.pending = nil
			if len(src.partial) > src.opts.MaxRecordSize {
				err = src.tooLarge(len(src.partial))
				return
			}
		}

		var n int
		n, err = src.file.Read(src.buf)
		if n > 0 {
			src.pending = src.buf[:n]
			src.readOffset += int64(n)
			src.metrics.BytesRead.Add(uint64(n))
			err = nil
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			err = &SourceError{Kind: KindIO, Path: src.path, Offset: src.readOffset, Err: err}
			return
		}

		// End of file
		if !src.opts.Follow {
			err = ErrEndOfStream
			return
		}
		// Old file fully read, move on to its replacement
		if src.rotated && src.reopen(ctx) {
			continue
		}
		err = src.waitForData(ctx)
		if err != nil {
			return
		}
	}
}

func (src *FileSource) tooLarge(size int) (err error) {
	err = &SourceError{
		Kind:   KindDecode,
		Path:   src.path,
		Offset: src.position,
		Err:    fmt.Errorf("%w: at least %d bytes, limit %d", ErrRecordTooLarge, size, src.opts.MaxRecordSize),
	}
	return
}

// Blocks until the file may have new data, then checks for rotation and truncation.
// A rotated file is only marked here; Next keeps reading the old handle until it is exhausted.
func (src *FileSource) waitForData(ctx context.Context) (err error) {
	if src.watch != nil {
		err = src.watch.wait(ctx, src.opts.PollInterval)
	} else {
		err = sleep(ctx, src.opts.PollInterval)
	}
	if err != nil {
		return
	}

	id, statErr := state.Identify(src.path)
	if statErr != nil {
		// Path missing mid rotation, keep draining the open handle
		return
	}

	switch {
	case id.Inode != src.inode:
		if !src.rotated {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
				"source '%s' was rotated, finishing previous file at offset %d\n", src.path, src.readOffset)
		}
		src.rotated = true
	case id.Size < src.readOffset:
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"source '%s' was truncated to %d bytes, restarting at offset 0 (previous position %d)\n", src.path, id.Size, src.position)
		err = src.rewind()
	}
	return
}

// Switches to the file now at path. Returns false when it cannot be opened yet.
func (src *FileSource) reopen(ctx context.Context) (switched bool) {
	file, err := os.Open(src.path)
	if err != nil {
		return
	}
	id, err := state.IdentifyOpen(file)
	if err != nil || id.Inode == src.inode {
		file.Close()
		return
	}

	if len(src.partial) > 0 {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"source '%s' was rotated with %d unterminated bytes at its end, discarding them\n", src.path, len(src.partial))
	}
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"source '%s' reopened at offset 0 (previous file ended at position %d)\n", src.path, src.position)

	src.file.Close()
	src.file = file
	src.inode = id.Inode
	src.rotated = false
	src.resetCursor()
	switched = true
	return
}

// Restarts the same file from the beginning
func (src *FileSource) rewind() (err error) {
	_, err = src.file.Seek(0, io.SeekStart)
	if err != nil {
		err = &SourceError{Kind: KindIO, Path: src.path, Offset: 0, Err: err}
		return
	}
	src.resetCursor()
	return
}

func (src *FileSource) resetCursor() {
	src.pending = nil
	src.partial = src.partial[:0]
	src.position = 0
	src.readOffset = 0
	src.generation.Add(1)
	src.metrics.Rotations.Add(1)
}
