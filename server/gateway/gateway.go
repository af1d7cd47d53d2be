package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/automoto/tank-arena/server/core"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1 << 14
)

var errOutboxFull = errors.New("outbox full")

// Status is served on /status.
type Status struct {
	Name      string  `json:"name"`
	Players   int     `json:"players"`
	ArenaSize float64 `json:"arenaSize"`
	TickRate  int     `json:"tickRate"`
	Uptime    string  `json:"uptime"`
}

// Gateway is the browser transport: JSON envelopes over gorilla/websocket.
type Gateway struct {
	intake     *core.Intake
	upgrader   websocket.Upgrader
	outboxSize int
	status     func() Status
	started    time.Time
}

// New creates a gateway. status is called for every /status request.
func New(intake *core.Intake, outboxSize int, status func() Status) *Gateway {
	return &Gateway{
		intake: intake,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		outboxSize: outboxSize,
		status:     status,
		started:    time.Now(),
	}
}

// Routes returns the gateway's HTTP handler.
func (g *Gateway) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", g.HandleWS)
	r.HandleFunc("/status", g.HandleStatus).Methods(http.MethodGet)
	return r
}

func (g *Gateway) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	st := g.status()
	st.Uptime = time.Since(g.started).Round(time.Second).String()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		log.Printf("[gateway] status encode error: %v", err)
	}
}

// HandleWS upgrades the request and runs the session until the socket closes.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade failed: %v", err)
		return
	}

	s := newSession(uuid.NewString(), conn, g.outboxSize)
	log.Printf("[gateway] session %s connected from %s", s.id, r.RemoteAddr)
	go s.writePump()

	s.readPump(g.intake)

	s.Close()
	g.intake.Leave(s.id)
	log.Printf("[gateway] session %s disconnected", s.id)
}

// session is one websocket client. It implements core.Conn.
type session struct {
	id   string
	conn *websocket.Conn
	out  chan []byte
	quit chan struct{}
	once sync.Once
}

func newSession(id string, conn *websocket.Conn, outboxSize int) *session {
	return &session{
		id:   id,
		conn: conn,
		out:  make(chan []byte, outboxSize),
		quit: make(chan struct{}),
	}
}

// Send encodes msg and queues it without blocking. A full outbox drops the
// message.
func (s *session) Send(msg any) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	select {
	case <-s.quit:
		return net.ErrClosed
	default:
	}
	select {
	case s.out <- data:
		return nil
	default:
		return errOutboxFull
	}
}

func (s *session) Close() error {
	s.once.Do(func() { close(s.quit) })
	return nil
}

func (s *session) readPump(intake *core.Intake) {
	defer s.conn.Close()
	s.conn.SetReadLimit(maxMessageSize)

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[gateway] session %s read error: %v", s.id, err)
			}
			return
		}

		msg, err := Decode(payload)
		if err != nil {
			log.Printf("[gateway] discarding malformed message from %s: %v", s.id, err)
			continue
		}
		intake.Dispatch(context.Background(), s.id, s, msg)
	}
}

func (s *session) writePump() {
	for {
		select {
		case <-s.quit:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[gateway] write to %s failed: %v", s.id, err)
				_ = s.conn.Close()
				return
			}
		}
	}
}
