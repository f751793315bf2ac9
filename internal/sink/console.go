package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode"

	"logship/internal/event"
)

// Writes one line per event to a writer
type Console struct {
	name string
	out  io.Writer
	line []byte
}

func NewConsole(name string, out io.Writer) (console *Console) {
	console = &Console{
		name: name,
		out:  out,
	}
	return
}

func (console *Console) Name() string {
	return console.name
}

// Writes the payload as UTF-8 (invalid sequences replaced) without trailing whitespace.
// Every failure is permanent, console output is never retried.
func (console *Console) Emit(ctx context.Context, ev event.Event) (err error) {
	err = ctx.Err()
	if err != nil {
		err = &Error{Sink: console.name, Kind: KindPermanent,
			Err: fmt.Errorf("event ending at offset %d not written: %w", ev.EndOffset(), err)}
		return
	}

	text := bytes.ToValidUTF8(ev.Payload(), []byte(string(unicode.ReplacementChar)))
	text = bytes.TrimRightFunc(text, unicode.IsSpace)

	console.line = append(console.line[:0], text...)
	console.line = append(console.line, '\n')

	_, err = console.out.Write(console.line)
	if err != nil {
		err = &Error{Sink: console.name, Kind: KindPermanent,
			Err: fmt.Errorf("failed writing event ending at offset %d: %w", ev.EndOffset(), err)}
	}
	return
}

// The underlying writer belongs to the caller
func (console *Console) Close() (err error) {
	return
}
