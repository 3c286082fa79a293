package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func dialTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	conn := NewConnection("alice", dialTestSocket(t))
	conn.Start()
	conn.Close(websocket.CloseNormalClosure, "done")

	for i := 0; i < 200; i++ {
		if err := conn.Send([]byte("late snapshot")); err == nil {
			t.Fatalf("send %d succeeded after close", i)
		}
	}
}

func TestConcurrentSendAndCloseDoesNotPanic(t *testing.T) {
	conn := NewConnection("bob", dialTestSocket(t))
	conn.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("send panicked: %v", r)
				}
			}()
			for j := 0; j < 500; j++ {
				if conn.Send([]byte("snapshot")) != nil {
					return
				}
			}
		}()
	}

	time.Sleep(time.Millisecond)
	conn.Close(websocket.CloseGoingAway, "client gone")
	wg.Wait()
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := NewConnection("carol", dialTestSocket(t))
	conn.Start()

	conn.Close(websocket.CloseNormalClosure, "first")
	conn.Close(websocket.CloseNormalClosure, "second")
}
