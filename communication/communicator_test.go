package communication

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"keyvis/define"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// peerServer 模拟另一半键盘的服务
type peerServer struct {
	mu       sync.Mutex
	received []LinkMessage
	got      chan LinkMessage
	fail     bool
}

func newPeerServer(t *testing.T) (*peerServer, *httptest.Server) {
	p := &peerServer{got: make(chan LinkMessage, 16)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/link/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var msg LinkMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p.mu.Lock()
		fail := p.fail
		p.received = append(p.received, msg)
		p.mu.Unlock()
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		p.got <- msg
		json.NewEncoder(w).Encode(define.ApiResponse{Status: "success"})
	})
	mux.HandleFunc("/api/v1/system/health", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		fail := p.fail
		p.mu.Unlock()
		resp := define.ApiResponse{Status: "success"}
		if fail {
			resp = define.ApiResponse{Status: "error", Error: "degraded"}
		}
		json.NewEncoder(w).Encode(resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return p, srv
}

func TestBridgeClientSendStatus(t *testing.T) {
	peer, srv := newPeerServer(t)
	client := NewBridgeClient(srv.URL+"/", time.Second)
	if client.ServiceURL() != srv.URL {
		t.Fatalf("ServiceURL() = %q, want trailing slash trimmed", client.ServiceURL())
	}

	msg := LinkMessage{Side: "left", Sequence: 7, Status: define.KeyboardStatus{Layer: 0x2, DefaultLayer: 0x1}}
	if err := client.SendStatus(context.Background(), msg); err != nil {
		t.Fatalf("SendStatus() error: %v", err)
	}
	if got := <-peer.got; got != msg {
		t.Fatalf("peer received %+v, want %+v", got, msg)
	}

	peer.mu.Lock()
	peer.fail = true
	peer.mu.Unlock()
	if err := client.SendStatus(context.Background(), msg); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestBridgeClientPing(t *testing.T) {
	peer, srv := newPeerServer(t)
	client := NewBridgeClient(srv.URL, 0)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	peer.mu.Lock()
	peer.fail = true
	peer.mu.Unlock()
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from unhealthy peer")
	}

	client.SetServiceURL("http://127.0.0.1:1")
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from unreachable peer")
	}
}
