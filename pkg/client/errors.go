package client

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindTransport covers network failures, timeouts and an open breaker.
	KindTransport ErrorKind = iota
	// KindProtocol is a non-2xx HTTP status.
	KindProtocol
	// KindDecode is a payload that could not be parsed.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the single failure type surfaced by the clients.
type FetchError struct {
	Kind       ErrorKind
	Source     string
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s %s: %s error", e.Source, e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
