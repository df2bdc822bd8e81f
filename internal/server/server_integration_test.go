package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/showreel/internal/render"
)

func dialFrames(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *FrameHub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d clients, have %d", n, hub.Clients())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestFrames_Broadcast(t *testing.T) {
	a := newTestApp(t, nil)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialFrames(t, ts)
	waitClients(t, srv.Frames(), 1)

	a.Tick(time.Now(), time.Second/60)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error = %v", err)
	}

	var frame struct {
		Tick          uint64 `json:"tick"`
		LayoutVersion uint64 `json:"layout_version"`
		Items         []struct {
			ID      string     `json:"id"`
			World   render.Vec `json:"world"`
			Forward render.Vec `json:"forward"`
		} `json:"items"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if frame.Tick != 1 || frame.LayoutVersion != 1 {
		t.Errorf("unexpected frame header: tick %d, layout %d", frame.Tick, frame.LayoutVersion)
	}
	if len(frame.Items) != 65 {
		t.Fatalf("expected 65 items, got %d", len(frame.Items))
	}

	// every card faces the center
	it := frame.Items[0]
	dot := it.World.X*it.Forward.X + it.World.Y*it.Forward.Y + it.World.Z*it.Forward.Z
	if dot >= 0 {
		t.Errorf("expected forward to point inward, dot = %v", dot)
	}
}

func TestFrames_SlowClientDropsFrames(t *testing.T) {
	a := newTestApp(t, nil)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	dialFrames(t, ts)
	waitClients(t, srv.Frames(), 1)

	// never read: the render loop must not stall
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			a.Tick(time.Now(), time.Second/60)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("render loop blocked on a slow client")
	}
	if srv.Frames().Dropped() == 0 {
		t.Error("expected frames to be dropped")
	}
}

func TestFrames_Disconnect(t *testing.T) {
	a := newTestApp(t, nil)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialFrames(t, ts)
	waitClients(t, srv.Frames(), 1)

	conn.Close()
	waitClients(t, srv.Frames(), 0)

	// rendering without clients is a no-op
	a.Tick(time.Now(), time.Second/60)
}

func TestFrames_Close(t *testing.T) {
	a := newTestApp(t, nil)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialFrames(t, ts)
	waitClients(t, srv.Frames(), 1)

	srv.Frames().Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected a going-away close, got %v", err)
	}
}

func TestOverlay_StreamsPreviews(t *testing.T) {
	a := newTestApp(t, nil)
	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/overlay", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/overlay error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("unexpected Content-Type %s", ct)
	}

	a.Preview().Publish([]byte("first"))

	r := bufio.NewReader(resp.Body)
	var headers []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read error = %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		headers = append(headers, line)
	}
	if len(headers) != 3 || headers[0] != "--frame" || headers[2] != "Content-Length: 5" {
		t.Errorf("unexpected part headers %q", headers)
	}

	body := make([]byte, 5)
	if _, err := io.ReadFull(r, body); err != nil {
		t.Fatalf("read error = %v", err)
	}
	if string(body) != "first" {
		t.Errorf("expected first, got %q", body)
	}
}

func TestOverlay_MethodNotAllowed(t *testing.T) {
	srv := New(Config{App: newTestApp(t, nil)})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/overlay", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
