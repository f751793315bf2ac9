package network

import (
	"context"
	"errors"
	"io"
	"net"

	"golang.org/x/sys/unix"

	"logship/internal/sink"
)

// Connection level failures that a reconnect can fix
var transientErrnos = []error{
	unix.ECONNRESET,
	unix.ECONNREFUSED,
	unix.ECONNABORTED,
	unix.EPIPE,
	unix.ETIMEDOUT,
	unix.EHOSTUNREACH,
	unix.ENETUNREACH,
	unix.ENETDOWN,
}

// Marks an unclassified transport error as transient or permanent.
// Errors already carrying a sink kind are returned unchanged.
func Classify(err error) (classified error) {
	if err == nil {
		return
	}

	var sinkErr *sink.Error
	if errors.As(err, &sinkErr) {
		classified = err
		return
	}

	if isTransient(err) {
		classified = sink.Transient(err)
	} else {
		classified = sink.Permanent(err)
	}
	return
}

func isTransient(err error) (transient bool) {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		transient = true
		return
	}

	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			transient = true
			return
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		transient = !dnsErr.IsNotFound && (dnsErr.IsTimeout || dnsErr.IsTemporary)
		return
	}

	var addrErr *net.AddrError
	var parseErr *net.ParseError
	if errors.As(err, &addrErr) || errors.As(err, &parseErr) {
		return
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		transient = true
	}
	return
}
