package wssink

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XC-/motion"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func waitLen(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients: got %d want %d", h.Len(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a := dial(t, srv)
	defer a.Close()
	b := dial(t, srv)
	defer b.Close()
	waitLen(t, h, 2)

	var p motion.Payload
	p[0], p[13] = 0x01, 0xff
	if err := h.UpdateCharacteristic(motion.MotionChar, p[:]); err != nil {
		t.Fatalf("UpdateCharacteristic: %v", err)
	}

	for i, c := range []*websocket.Conn{a, b} {
		c.SetReadDeadline(time.Now().Add(time.Second))
		typ, msg, err := c.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if typ != websocket.BinaryMessage {
			t.Errorf("client %d message type: got %d want %d", i, typ, websocket.BinaryMessage)
		}
		if !bytes.Equal(msg, p[:]) {
			t.Errorf("client %d message: got %x want %x", i, msg, p[:])
		}
	}
}

func TestHubClientDisconnect(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	waitLen(t, h, 1)
	c.Close()
	waitLen(t, h, 0)

	if err := h.UpdateCharacteristic(motion.MotionChar, []byte{1}); err != nil {
		t.Errorf("UpdateCharacteristic with no clients: %v", err)
	}
}

func TestHubCheckOrigin(t *testing.T) {
	cases := []struct {
		origins []string
		origin  string
		ok      bool
	}{
		{origin: "", ok: true},
		{origin: "same", ok: true},
		{origin: "http://evil.example", ok: false},
		{origins: []string{"http://dash.local:3000/"}, origin: "http://dash.local:3000", ok: true},
		{origins: []string{"http://dash.local:3000"}, origin: "same", ok: true},
		{origins: []string{"http://dash.local:3000"}, origin: "http://evil.example", ok: false},
	}

	for _, tt := range cases {
		h := NewHub(tt.origins...)
		srv := httptest.NewServer(h)

		header := http.Header{}
		switch tt.origin {
		case "":
		case "same":
			header.Set("Origin", srv.URL)
		default:
			header.Set("Origin", tt.origin)
		}
		url := "ws" + strings.TrimPrefix(srv.URL, "http")
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		if ok := err == nil; ok != tt.ok {
			t.Errorf("origins %q, Origin %q: got accepted=%t want %t (%v)", tt.origins, tt.origin, ok, tt.ok, err)
		}
		if conn != nil {
			conn.Close()
		}
		h.Close()
		srv.Close()
	}
}
