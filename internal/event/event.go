// Immutable unit of shipped data
package event

import (
	"bytes"
	"time"
)

// One record read from a source. Fields are unexported and accessors return copies,
// so a single Event can be shared by every sink worker.
type Event struct {
	timestamp int64 // unix nanoseconds at creation
	source    string
	payload   []byte
	endOffset int64 // resume position once this event is delivered
	fileGen   uint64
}

// Creates a timestamped event. The payload is copied.
func New(source string, payload []byte, endOffset int64) (ev Event) {
	ev = NewAt(time.Now(), source, payload, endOffset)
	return
}

// Creates an event with an explicit timestamp. The payload is copied.
func NewAt(timestamp time.Time, source string, payload []byte, endOffset int64) (ev Event) {
	ev = Event{
		timestamp: timestamp.UnixNano(),
		source:    source,
		payload:   bytes.Clone(payload),
		endOffset: endOffset,
	}
	if ev.payload == nil {
		ev.payload = []byte{}
	}
	return
}

func (ev Event) Timestamp() time.Time {
	return time.Unix(0, ev.timestamp)
}

func (ev Event) TimestampNanos() int64 {
	return ev.timestamp
}

func (ev Event) Source() string {
	return ev.source
}

// Copy of the raw record bytes (terminator excluded)
func (ev Event) Payload() []byte {
	return bytes.Clone(ev.payload)
}

func (ev Event) Len() int {
	return len(ev.payload)
}

// Byte offset just past this record in the source
func (ev Event) EndOffset() int64 {
	return ev.endOffset
}

// Offset at which this record started, terminator included in the record length
func (ev Event) StartOffset() int64 {
	return ev.endOffset - int64(len(ev.payload)) - 1
}

// Copy of the event tagged with the incarnation of the file it was read from.
// Offsets of events with different generations belong to different files.
func (ev Event) WithGeneration(generation uint64) Event {
	ev.fileGen = generation
	return ev
}

func (ev Event) Generation() uint64 {
	return ev.fileGen
}

// Approximate memory footprint, used for queue byte gauges
func (ev Event) Size() int {
	return len(ev.payload) + len(ev.source) + 16
}
