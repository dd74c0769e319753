package transport

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/maksyko/gun-http/input"
)

// cannedServer accepts one connection, reads one request and answers with
// the given raw response. The received request is reported on a channel.
func cannedServer(t *testing.T, response string) (host string, port int, requests <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: err=%v", err)
	}
	t.Cleanup(func() { ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		var request strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			request.WriteString(line)
			if line == "\r\n" {
				break
			}
		}
		ch <- request.String()
		conn.Write([]byte(response))
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port, ch
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event within 5s")
		return Event{}
	}
}

func TestNetTransport_ResponseWithBody(t *testing.T) {
	// Setup
	host, port, requests := cannedServer(t,
		"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello")
	tr := &NetTransport{}
	conn, err := tr.Open(host, port)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer tr.Close(conn)

	// Exercise
	stream, err := tr.SendGet(conn, "/hello", []input.Field{
		{Name: "Host", Value: "example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	events := tr.Events(conn)

	// Verify
	ev := nextEvent(t, events)
	if ev.Kind != HeadersReceived || ev.Stream != stream {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Status != 200 || ev.IsFinal {
		t.Errorf("unexpected headers event: %+v", ev)
	}
	if got := ev.Header.Get("Content-Type"); got != "text/plain" {
		t.Errorf("unexpected Content-Type: %s", got)
	}

	var body []byte
	for {
		ev = nextEvent(t, events)
		if ev.Kind != BodyChunk {
			t.Fatalf("unexpected event: %+v", ev)
		}
		body = append(body, ev.Data...)
		if ev.IsFinal {
			break
		}
	}
	if string(body) != "hello" {
		t.Errorf("unexpected body: %q", body)
	}

	request := <-requests
	if !strings.HasPrefix(request, "GET /hello HTTP/1.1\r\n") {
		t.Errorf("unexpected request line: %q", request)
	}
	if !strings.Contains(request, "Host: example.com\r\n") {
		t.Errorf("request has no Host header: %q", request)
	}
	if !strings.Contains(request, "Connection: close\r\n") {
		t.Errorf("request has no Connection header: %q", request)
	}
}

func TestNetTransport_NoContentResponse(t *testing.T) {
	host, port, _ := cannedServer(t, "HTTP/1.1 204 No Content\r\n\r\n")
	tr := &NetTransport{}
	conn, err := tr.Open(host, port)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer tr.Close(conn)

	stream, err := tr.SendGet(conn, "/", []input.Field{{Name: "Host", Value: "example.com"}})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	ev := nextEvent(t, tr.Events(conn))
	if ev.Kind != HeadersReceived || ev.Stream != stream {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Status != 204 || !ev.IsFinal {
		t.Errorf("204 must be final with no body events: %+v", ev)
	}
}

func TestNetTransport_PostSendsContentLength(t *testing.T) {
	host, port, requests := cannedServer(t,
		"HTTP/1.1 201 Created\r\nContent-Length: 0\r\n\r\n")
	tr := &NetTransport{}
	conn, err := tr.Open(host, port)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer tr.Close(conn)

	_, err = tr.SendPost(conn, "/submit",
		[]input.Field{{Name: "Host", Value: "example.com"}},
		[]byte("hello=world"))
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	ev := nextEvent(t, tr.Events(conn))
	if ev.Kind != HeadersReceived || ev.Status != 201 || !ev.IsFinal {
		t.Fatalf("unexpected event: %+v", ev)
	}

	request := <-requests
	if !strings.HasPrefix(request, "POST /submit HTTP/1.1\r\n") {
		t.Errorf("unexpected request line: %q", request)
	}
	if !strings.Contains(request, "Content-Length: 11\r\n") {
		t.Errorf("request has no Content-Length header: %q", request)
	}
}

func TestNetTransport_DialFailureBecomesConnectionDown(t *testing.T) {
	// Grab a port and close it again so that dialing it is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: err=%v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	tr := &NetTransport{DialTimeout: 2 * time.Second}
	conn, err := tr.Open("127.0.0.1", port)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer tr.Close(conn)

	stream, err := tr.SendGet(conn, "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	ev := nextEvent(t, tr.Events(conn))
	if ev.Kind != ConnectionDown || ev.Stream != stream {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Reason == nil {
		t.Error("ConnectionDown must carry a reason")
	}
}

func TestNetTransport_CloseIsIdempotent(t *testing.T) {
	tr := &NetTransport{}
	conn, err := tr.Open("127.0.0.1", 80)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	if err := tr.Close(conn); err != nil {
		t.Errorf("unexpected error on first close: err=%v", err)
	}
	if err := tr.Close(conn); err != nil {
		t.Errorf("unexpected error on second close: err=%v", err)
	}
}
