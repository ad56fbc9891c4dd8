package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
)

func TestNextBackoff(t *testing.T) {
	cases := []struct {
		current, max, want time.Duration
	}{
		{time.Second, 30 * time.Second, 2 * time.Second},
		{8 * time.Second, 30 * time.Second, 16 * time.Second},
		{16 * time.Second, 30 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second, 30 * time.Second},
	}
	for _, tc := range cases {
		if got := nextBackoff(tc.current, tc.max); got != tc.want {
			t.Fatalf("nextBackoff(%v, %v) = %v, want %v", tc.current, tc.max, got, tc.want)
		}
	}
}

func testConfig(wsURL string) config.ChatConfig {
	return config.ChatConfig{
		WSURL:        wsURL,
		ReconnectMin: 10 * time.Millisecond,
		ReconnectMax: 100 * time.Millisecond,
		PingInterval: time.Minute,
	}
}

func TestStreamReceivesMessages(t *testing.T) {
	var gotAuth atomic.Value
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"m1","sender_id":"u2","body":"hello"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"m2","sender_id":"u2","body":"again"}`))
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	stream := New(testConfig(wsURL), "tok-1", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- stream.Run(ctx) }()

	var ids []string
	timeout := time.After(3 * time.Second)
	for len(ids) < 2 {
		select {
		case m := <-stream.Messages():
			ids = append(ids, m.ID)
		case <-timeout:
			t.Fatalf("timed out, received %v", ids)
		}
	}
	if ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("unexpected message order: %v", ids)
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer tok-1" {
		t.Fatalf("expected bearer header on dial, got %q", auth)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	// The channel closes when Run returns.
	if _, open := <-stream.Messages(); open {
		// Drain any frame that raced the close.
		if _, open := <-stream.Messages(); open {
			t.Fatal("messages channel must close after Run returns")
		}
	}
}

func TestStreamReconnects(t *testing.T) {
	var dials atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			// Drop the first connection immediately to force a reconnect.
			conn.Close()
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"after-reconnect","sender_id":"u2","body":"hi"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	stream := New(testConfig(wsURL), "tok-1", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.Run(ctx)

	select {
	case m := <-stream.Messages():
		if m.ID != "after-reconnect" {
			t.Fatalf("unexpected message: %+v", m)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("never received a message after reconnect")
	}
	if dials.Load() < 2 {
		t.Fatalf("expected at least two dials, got %d", dials.Load())
	}
}
