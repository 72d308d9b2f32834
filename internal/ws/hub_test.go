package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

const hubTestChat int64 = -100

// dialTestConn upgrades one client against a throwaway server and registers
// the server side of the pair in the hub. Returns both ends.
func dialTestConn(t *testing.T, hub *Hub) (client, server *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	server = <-serverCh
	hub.AddConnection(hubTestChat, server)
	return client, server
}

func TestBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestConn(t, hub)

	hub.Broadcast(hubTestChat, WSMessage{Type: "leaderboard", Data: map[string]interface{}{"text": "hi"}})

	var msg WSMessage
	if err := client.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Errorf("type = %q, want leaderboard", msg.Type)
	}
}

func TestBroadcastDropsDeadClient(t *testing.T) {
	hub := NewHub()
	_, dead := dialTestConn(t, hub)
	dead.Close()

	hub.Broadcast(hubTestChat, WSMessage{Type: "leaderboard"})

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if conns := hub.chats[hubTestChat]; len(conns) != 0 {
		t.Errorf("dead conn still registered: %d conns", len(conns))
	}
}

// Refresh jobs and update handlers broadcast from different goroutines; run
// with -race to catch map mutation during an overlapping pass.
func TestConcurrentBroadcastsWithDeadClient(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestConn(t, hub)
	_, dead := dialTestConn(t, hub)
	dead.Close()

	// drain the live client so server writes never block
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast(hubTestChat, WSMessage{Type: "leaderboard"})
			}
		}()
	}
	wg.Wait()
}
