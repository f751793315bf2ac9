package source

import (
	"os"
	"sync/atomic"
	"time"
)

type Options struct {
	Follow         bool          // wait for new data at EOF instead of ending the stream
	PollInterval   time.Duration // fallback wake up while following
	MaxRecordSize  int           // longest accepted record, terminator excluded
	ReadBufferSize int           // chunk size of each read
	Namespace      []string      // metric namespace prefix
}

// Line oriented reader over a single file
type FileSource struct {
	Namespace []string
	path      string
	opts      Options

	file  *os.File
	inode uint64

	buf        []byte // read chunk
	pending    []byte // unconsumed part of buf
	partial    []byte // record bytes seen before the next terminator
	position   int64  // offset of the next unread record
	readOffset int64  // offset of the file read cursor

	generation atomic.Uint64 // bumped on every switch to a new or truncated file
	rotated    bool          // path now names another file, finish this one first

	watch   *watcher
	closed  bool
	metrics MetricStorage
}

type MetricStorage struct {
	LinesRead atomic.Uint64 // records decoded
	BytesRead atomic.Uint64 // bytes read from the file
	Rotations atomic.Uint64 // reopen after rotation or truncation
}
