// Package exchange drives a single request/response exchange: it owns one
// connection, sends exactly one request and folds the transport's event
// stream into a final Response or Error.
package exchange

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maksyko/gun-http/input"
	"github.com/maksyko/gun-http/target"
	"github.com/maksyko/gun-http/transport"
)

// proto is fixed: the transport does not surface a protocol version per
// exchange, and this client only speaks HTTP/1.1.
const proto = "HTTP/1.1"

// Assemble opens a connection to the target, sends one request and waits,
// bounded by the configured timeout, for the events that make up the
// response. The connection is closed on every exit path and never reused.
func Assemble(method input.Method, t *target.Target, header []input.Field, body []byte, options *Options) (*Response, error) {
	tr := options.Transport
	if tr == nil {
		tr = &transport.NetTransport{TLS: t.Scheme == "https"}
	}
	timeout := options.timeout()

	conn, err := tr.Open(t.Host, t.Port)
	if err != nil {
		return nil, NewError(ConnectionFailed, "opening connection to %s:%d: %v", t.Host, t.Port, err)
	}
	defer tr.Close(conn)

	fields := requestHeader(t, header, options)

	var stream transport.StreamID
	if method == input.MethodPost {
		stream, err = tr.SendPost(conn, t.Path, fields, body)
	} else {
		stream, err = tr.SendGet(conn, t.Path, fields)
	}
	if err != nil {
		return nil, NewError(ConnectionFailed, "sending request: %v", err)
	}

	events := tr.Events(conn)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, NewError(ConnectionFailed, "event channel closed")
			}
			if ev.Kind != transport.ConnectionDown && ev.Stream != stream {
				continue
			}

			switch ev.Kind {
			case transport.ConnectionDown:
				return nil, NewError(ConnectionFailed, "connection to %s down: %v", conn.RemoteAddr(), ev.Reason)
			case transport.HeadersReceived:
				if ev.IsFinal {
					return makeResponse(ev.Status, ev.Header, nil), nil
				}
				collected, err := receiveBody(events, stream, timeout)
				if err != nil {
					return nil, err
				}
				return makeResponse(ev.Status, ev.Header, collected), nil
			default:
				return nil, NewError(ConnectionFailed, "protocol anomaly: %v before headers", ev.Kind)
			}
		case <-timer.C:
			return nil, newTimeoutError("no response within %v", timeout)
		}
	}
}

// receiveBody accumulates body chunks until the transport marks the last
// one. Each wait for the next chunk is bounded by the same timeout.
func receiveBody(events <-chan transport.Event, stream transport.StreamID, timeout time.Duration) ([]byte, error) {
	var buf bytes.Buffer
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, NewError(ConnectionFailed, "event channel closed")
			}
			if ev.Kind != transport.ConnectionDown && ev.Stream != stream {
				continue
			}

			switch ev.Kind {
			case transport.ConnectionDown:
				return nil, NewError(ConnectionFailed, "connection down while reading body: %v", ev.Reason)
			case transport.BodyChunk:
				buf.Write(ev.Data)
				if ev.IsFinal {
					return buf.Bytes(), nil
				}
			default:
				return nil, NewError(ConnectionFailed, "protocol anomaly: %v while reading body", ev.Kind)
			}

			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(timeout)
		case <-timer.C:
			return nil, newTimeoutError("no body data within %v", timeout)
		}
	}
}

func makeResponse(status int, header http.Header, body []byte) *Response {
	return &Response{
		Proto:      proto,
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       body,
	}
}

// requestHeader combines the target's host-derived header with auth and the
// caller's fields. Caller fields win over generated ones.
func requestHeader(t *target.Target, header []input.Field, options *Options) []input.Field {
	fields := make([]input.Field, 0, len(header)+3)
	if !hasField(header, "Host") {
		fields = append(fields, input.Field{Name: "Host", Value: t.HeaderFragment})
	}
	if options.Auth.Enabled && !hasField(header, "Authorization") {
		cred := options.Auth.UserName + ":" + options.Auth.Password
		fields = append(fields, input.Field{
			Name:  "Authorization",
			Value: "Basic " + base64.StdEncoding.EncodeToString([]byte(cred)),
		})
	}
	if !hasField(header, "User-Agent") {
		fields = append(fields, input.Field{Name: "User-Agent", Value: userAgent})
	}
	return append(fields, header...)
}

func hasField(fields []input.Field, name string) bool {
	for _, field := range fields {
		if strings.EqualFold(field.Name, name) {
			return true
		}
	}
	return false
}
