package transport

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maksyko/gun-http/input"

	"github.com/pkg/errors"
)

const (
	defaultDialTimeout = 10 * time.Second
	readChunkSize      = 32 * 1024
)

// NetTransport speaks HTTP/1.1 over a raw TCP (optionally TLS) connection.
// Dialing and I/O happen on a background goroutine per connection; every
// outcome is reported as an Event, including dial failures.
type NetTransport struct {
	// TLS wraps the connection in a TLS session. No further TLS
	// configuration is exposed.
	TLS         bool
	DialTimeout time.Duration
}

type netConn struct {
	host string
	addr string
	tls  bool

	events chan Event
	done   chan struct{}

	mu        sync.Mutex
	conn      net.Conn
	closed    bool
	closeOnce sync.Once

	nextStream uint64
}

func (c *netConn) RemoteAddr() string {
	return c.addr
}

func (t *NetTransport) Open(host string, port int) (Conn, error) {
	return &netConn{
		host:   host,
		addr:   net.JoinHostPort(host, strconv.Itoa(port)),
		tls:    t.TLS,
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}, nil
}

func (t *NetTransport) SendGet(conn Conn, path string, header []input.Field) (StreamID, error) {
	return t.send(conn, "GET", path, header, nil)
}

func (t *NetTransport) SendPost(conn Conn, path string, header []input.Field, body []byte) (StreamID, error) {
	return t.send(conn, "POST", path, header, body)
}

func (t *NetTransport) send(conn Conn, method, path string, header []input.Field, body []byte) (StreamID, error) {
	c, ok := conn.(*netConn)
	if !ok {
		return 0, errors.Errorf("foreign connection handle: %T", conn)
	}

	stream := StreamID(atomic.AddUint64(&c.nextStream, 1))
	go c.run(t.dialTimeout(), stream, method, path, header, body)
	return stream, nil
}

func (t *NetTransport) dialTimeout() time.Duration {
	if t.DialTimeout != 0 {
		return t.DialTimeout
	}
	return defaultDialTimeout
}

func (t *NetTransport) Close(conn Conn) error {
	c, ok := conn.(*netConn)
	if !ok {
		return errors.Errorf("foreign connection handle: %T", conn)
	}

	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.closed = true
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
	return nil
}

func (t *NetTransport) Events(conn Conn) <-chan Event {
	c, ok := conn.(*netConn)
	if !ok {
		return nil
	}
	return c.events
}

// run performs the whole exchange for one stream: dial, write the request,
// then translate the response into events.
func (c *netConn) run(dialTimeout time.Duration, stream StreamID, method, path string, header []input.Field, body []byte) {
	conn, err := c.dial(dialTimeout)
	if err != nil {
		c.emit(Event{Stream: stream, Kind: ConnectionDown, Reason: err})
		return
	}

	if _, err := conn.Write(requestBytes(method, path, header, body)); err != nil {
		c.emit(Event{Stream: stream, Kind: ConnectionDown, Reason: errors.Wrap(err, "writing request")})
		return
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		c.emit(Event{Stream: stream, Kind: ConnectionDown, Reason: errors.Wrap(err, "reading response")})
		return
	}
	defer resp.Body.Close()

	if !hasBody(resp) {
		c.emit(Event{
			Stream:  stream,
			Kind:    HeadersReceived,
			Status:  resp.StatusCode,
			Header:  resp.Header,
			IsFinal: true,
		})
		return
	}

	c.emit(Event{
		Stream: stream,
		Kind:   HeadersReceived,
		Status: resp.StatusCode,
		Header: resp.Header,
	})
	c.streamBody(stream, resp.Body)
}

func (c *netConn) dial(timeout time.Duration) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", c.addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", c.addr)
	}
	if c.tls {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: c.host})
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "TLS handshake with %s", c.addr)
		}
		conn = tlsConn
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return nil, errors.New("connection closed")
	}
	c.conn = conn
	c.mu.Unlock()
	return conn, nil
}

func (c *netConn) streamBody(stream StreamID, body io.Reader) {
	buf := make([]byte, readChunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			final := err == io.EOF
			c.emit(Event{Stream: stream, Kind: BodyChunk, Data: data, IsFinal: final})
			if final {
				return
			}
		}
		switch err {
		case nil:
		case io.EOF:
			c.emit(Event{Stream: stream, Kind: BodyChunk, IsFinal: true})
			return
		default:
			c.emit(Event{Stream: stream, Kind: ConnectionDown, Reason: errors.Wrap(err, "reading response body")})
			return
		}
	}
}

// emit never blocks past Close: once done is closed the consumer is gone.
func (c *netConn) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func hasBody(resp *http.Response) bool {
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified {
		return false
	}
	if resp.StatusCode >= 100 && resp.StatusCode < 200 {
		return false
	}
	return resp.ContentLength != 0
}

func requestBytes(method, path string, header []input.Field, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s HTTP/1.1\r\n", method, path)
	for _, field := range header {
		fmt.Fprintf(&buf, "%s: %s\r\n", field.Name, field.Value)
	}
	if method == "POST" {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(body))
	}
	buf.WriteString("Connection: close\r\n\r\n")
	buf.Write(body)
	return buf.Bytes()
}
