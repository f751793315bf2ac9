// Output side of the pipeline: the Sink capability, its error taxonomy and the console sink
package sink

import (
	"context"
	"errors"
	"fmt"

	"logship/internal/event"
)

// Consumes one event at a time. A Sink is owned by a single worker and
// needs no internal locking for Emit.
type Sink interface {
	Name() string
	Emit(ctx context.Context, ev event.Event) error
	Close() error
}

type Kind int

const (
	KindTransient Kind = iota + 1 // worth retrying
	KindPermanent                 // retrying cannot help, event is dropped for this sink
)

func (kind Kind) String() string {
	switch kind {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// Per event delivery failure
type Error struct {
	Sink string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Sink == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("sink '%s' %s error: %v", e.Sink, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransient, Err: err}
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindPermanent, Err: err}
}

func IsTransient(err error) bool {
	var sinkErr *Error
	return errors.As(err, &sinkErr) && sinkErr.Kind == KindTransient
}

func IsPermanent(err error) bool {
	var sinkErr *Error
	return errors.As(err, &sinkErr) && sinkErr.Kind == KindPermanent
}

// Attaches the sink name to err. Unclassified errors become permanent.
func WithSink(name string, err error) error {
	if err == nil {
		return nil
	}
	var sinkErr *Error
	if errors.As(err, &sinkErr) {
		named := *sinkErr
		named.Sink = name
		return &named
	}
	return &Error{Sink: name, Kind: KindPermanent, Err: err}
}
