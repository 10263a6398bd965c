package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"subspace_duel/internal/events"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/service"
)

type frame struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Nop())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", HandleWS(hub, ""))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	if f := read(t, conn); f.Type != MsgReady {
		t.Fatalf("first frame = %q; want ready", f.Type)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return f
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)

	hub.Notify(events.Event{Kind: events.KindDriftCharge, PlayerID: 3, Amount: 50, Slots: 1})

	for _, conn := range []*websocket.Conn{a, b} {
		f := read(t, conn)
		if f.Type != MsgEvent || f.Event.Kind != events.KindDriftCharge || f.Event.PlayerID != 3 {
			t.Fatalf("frame = %+v", f)
		}
	}
}

func TestHubPlayerFilter(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url+"?player=2")

	hub.Notify(events.Event{Kind: events.KindDriftCharge, PlayerID: 1})
	hub.Notify(events.Event{Kind: events.KindDuelInitiated, PlayerID: 1, TargetID: 2})
	hub.Notify(events.Event{Kind: events.KindSessionEnded})

	want := []events.Kind{events.KindDuelInitiated, events.KindSessionEnded}
	for _, k := range want {
		if f := read(t, conn); f.Event.Kind != k {
			t.Fatalf("got %s; want %s", f.Event.Kind, k)
		}
	}
}

func TestHandleWSRejectsBadInput(t *testing.T) {
	_, url := startHub(t)
	if err := service.InitJWT("ws-secret"); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"?token=bogus", "?player=abc", "?player=-1"} {
		_, res, err := websocket.DefaultDialer.Dial(url+q, nil)
		if err == nil {
			t.Fatalf("%s: dial succeeded", q)
		}
		if res == nil || res.StatusCode < 400 {
			t.Fatalf("%s: response = %v", q, res)
		}
	}

	tok, _ := service.GenerateJWT(9, service.RolePlayer, time.Minute)
	dial(t, url+"?token="+tok)
}
