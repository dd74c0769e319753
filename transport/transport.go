// Package transport abstracts the wire protocol behind the response
// assembler. A Transport owns connection handles and delivers protocol
// events asynchronously on a per-connection channel; the assembler consumes
// them one at a time.
package transport

import (
	"net/http"

	"github.com/maksyko/gun-http/input"
)

// Conn is an opaque handle to one transport session with a single remote
// endpoint. A Conn carries at most one request/response exchange and is
// never reused.
type Conn interface {
	RemoteAddr() string
}

// StreamID identifies one request/response exchange on a Conn.
type StreamID uint64

type EventKind int

const (
	// ConnectionDown reports abnormal termination of the session.
	ConnectionDown EventKind = iota
	// HeadersReceived carries the response status and header.
	HeadersReceived
	// BodyChunk carries a piece of the response body.
	BodyChunk
)

func (k EventKind) String() string {
	switch k {
	case ConnectionDown:
		return "ConnectionDown"
	case HeadersReceived:
		return "HeadersReceived"
	case BodyChunk:
		return "BodyChunk"
	default:
		return "Unknown"
	}
}

// Event is one protocol event for a Conn. Kind selects which of the
// remaining fields are meaningful. IsFinal marks that no more events will
// follow for the exchange.
type Event struct {
	Stream  StreamID
	Kind    EventKind
	Reason  error       // ConnectionDown
	Status  int         // HeadersReceived
	Header  http.Header // HeadersReceived
	Data    []byte      // BodyChunk
	IsFinal bool
}

// Transport is the capability set the response assembler requires.
//
// Open succeeds structurally: failures to actually reach the endpoint
// surface later as a ConnectionDown event, not as an error from Open.
// Close must be idempotent; the assembler closes on every exit path.
type Transport interface {
	Open(host string, port int) (Conn, error)
	SendGet(conn Conn, path string, header []input.Field) (StreamID, error)
	SendPost(conn Conn, path string, header []input.Field, body []byte) (StreamID, error)
	Close(conn Conn) error
	Events(conn Conn) <-chan Event
}
