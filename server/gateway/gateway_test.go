package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/config"
	"github.com/automoto/tank-arena/server/core"
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/gorilla/websocket"
)

func newTestGateway(t *testing.T) (*httptest.Server, *core.GameLoop) {
	t.Helper()

	store := accounts.NewStore(nil)
	store.SetHashCost(4)
	if _, err := store.Register(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s := config.Default()
	s.Obstacle.Count = 0
	world := core.NewWorld(s)
	loop := core.NewGameLoop(world, nil, "test")
	go loop.Run()
	t.Cleanup(loop.Stop)

	intake := core.NewIntake(loop, store, time.Second, "")
	gw := New(intake, 64, func() Status {
		return Status{Name: "test", Players: loop.PlayerCount(), ArenaSize: s.Arena.Size, TickRate: s.Arena.TickRate}
	})

	srv := httptest.NewServer(gw.Routes())
	t.Cleanup(srv.Close)
	return srv, loop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads envelopes until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.Type == msgType {
			return env.Data
		}
	}
}

func TestGatewayJoinAndPing(t *testing.T) {
	srv, loop := newTestGateway(t)
	conn := dial(t, srv)

	send(t, conn, messages.JoinRequest{Username: "alice", Password: "pw", Vehicle: "light"})
	var accepted messages.JoinAccepted
	if err := json.Unmarshal(readUntil(t, conn, "joinAccepted"), &accepted); err != nil {
		t.Fatal(err)
	}
	if accepted.SessionID == "" || accepted.TickRate != 60 {
		t.Errorf("joinAccepted = %+v", accepted)
	}
	send(t, conn, messages.PingProbe{ClientTime: 7})
	var pong messages.PongProbe
	if err := json.Unmarshal(readUntil(t, conn, "pongProbe"), &pong); err != nil {
		t.Fatal(err)
	}
	if pong.ClientTime != 7 {
		t.Errorf("pong = %+v", pong)
	}

	if loop.PlayerCount() != 1 {
		t.Errorf("PlayerCount = %d, want 1", loop.PlayerCount())
	}
}

func TestGatewayRejectsLockedVehicle(t *testing.T) {
	srv, loop := newTestGateway(t)
	conn := dial(t, srv)

	send(t, conn, messages.JoinRequest{Username: "alice", Password: "pw", Vehicle: "heavy"})
	readUntil(t, conn, "joinRejected")
	if loop.PlayerCount() != 0 {
		t.Errorf("PlayerCount = %d, want 0", loop.PlayerCount())
	}
}

func TestGatewayIgnoresMalformedFrames(t *testing.T) {
	srv, _ := newTestGateway(t)
	conn := dial(t, srv)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	send(t, conn, messages.PingProbe{ClientTime: 1})
	readUntil(t, conn, "pongProbe")
}

func TestGatewayRejectsUnknownUser(t *testing.T) {
	srv, _ := newTestGateway(t)
	conn := dial(t, srv)

	send(t, conn, messages.JoinRequest{Username: "mallory", Password: "pw"})
	var rej messages.JoinRejected
	if err := json.Unmarshal(readUntil(t, conn, "joinRejected"), &rej); err != nil {
		t.Fatal(err)
	}
	if rej.Reason != "invalid credentials" {
		t.Errorf("reason = %q", rej.Reason)
	}
}

func TestGatewayDisconnectRemovesPlayer(t *testing.T) {
	srv, loop := newTestGateway(t)
	conn := dial(t, srv)

	send(t, conn, messages.JoinRequest{Username: "alice", Password: "pw"})
	readUntil(t, conn, "joinAccepted")
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for loop.PlayerCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("player not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStatus(t *testing.T) {
	srv, _ := newTestGateway(t)

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Name != "test" || st.ArenaSize != 2000 || st.Uptime == "" {
		t.Errorf("status = %+v", st)
	}
}
