package core

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"

	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

var errOutboxFull = errors.New("outbox full")

// Server is the native transport: necs websocket clients exchanging
// msgpack messages, with entity state replicated through esync.
type Server struct {
	intake     *Intake
	transport  *transports.WsServerTransport
	outboxSize int

	mu       sync.Mutex
	sessions map[*router.NetworkClient]*necsConn
}

// NewServer registers the router callbacks and hooks entity sync into the
// loop. The World must have been built with the Syncer returned by NewSyncer.
func NewServer(loop *GameLoop, intake *Intake, outboxSize int) *Server {
	s := &Server{
		intake:     intake,
		outboxSize: outboxSize,
		sessions:   make(map[*router.NetworkClient]*necsConn),
	}
	loop.SetAfterTick(func() {
		if err := srvsync.DoSync(); err != nil {
			log.Printf("[necs] sync error: %v", err)
		}
	})
	s.setupRouterCallbacks()
	return s
}

// Start serves the websocket transport on port. It blocks.
func (s *Server) Start(port uint) error {
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.dispatch(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.MoveIntent) {
		s.dispatch(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.FireIntent) {
		s.dispatch(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.RespawnIntent) {
		s.dispatch(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.UpgradeIntent) {
		s.dispatch(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.PingProbe) {
		s.dispatch(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[necs] client error: %v", err)
	})
}

// A message can be dispatched before onConnect runs; whichever comes first
// creates the session.
func (s *Server) onConnect(client *router.NetworkClient) {
	s.session(client)
	log.Printf("[necs] client connected: %s", client.Id())
}

// session returns the conn for client, creating it on first use.
func (s *Server) session(client *router.NetworkClient) *necsConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, exists := s.sessions[client]
	if !exists {
		conn = newNecsConn(client, s.outboxSize)
		s.sessions[client] = conn
	}
	return conn
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[necs] client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[necs] client %s disconnected", client.Id())
	}

	s.mu.Lock()
	conn, exists := s.sessions[client]
	delete(s.sessions, client)
	s.mu.Unlock()

	if exists {
		_ = conn.Close()
		s.intake.Leave(client.Id())
	}
}

func (s *Server) dispatch(client *router.NetworkClient, msg any) {
	s.intake.Dispatch(context.Background(), client.Id(), s.session(client), msg)
}

// necsConn queues outbound messages for one necs client and writes them
// from its own goroutine.
type necsConn struct {
	client *router.NetworkClient
	out    chan any
	quit   chan struct{}
	once   sync.Once
}

func newNecsConn(client *router.NetworkClient, size int) *necsConn {
	c := &necsConn{
		client: client,
		out:    make(chan any, size),
		quit:   make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *necsConn) Send(msg any) error {
	select {
	case <-c.quit:
		return net.ErrClosed
	default:
	}
	select {
	case c.out <- msg:
		return nil
	default:
		return errOutboxFull
	}
}

func (c *necsConn) Close() error {
	c.once.Do(func() { close(c.quit) })
	return nil
}

func (c *necsConn) writePump() {
	for {
		select {
		case <-c.quit:
			return
		case msg := <-c.out:
			if err := c.client.SendMessage(msg); err != nil {
				log.Printf("[necs] write to %s failed: %v", c.client.Id(), err)
			}
		}
	}
}

// Syncer replicates synced components of new entities to necs clients.
type Syncer struct {
	once sync.Once
}

func NewSyncer() *Syncer {
	return &Syncer{}
}

func (s *Syncer) Track(world donburi.World, entity donburi.Entity) {
	s.once.Do(func() { srvsync.UseEsync(world) })

	entry := world.Entry(entity)
	var err error
	switch {
	case entry.HasComponent(netcomponents.NetTank):
		err = srvsync.NetworkSync(world, &entity,
			srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
			netcomponents.NetTank,
		)
	case entry.HasComponent(netcomponents.NetProjectile):
		err = srvsync.NetworkSync(world, &entity,
			srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
			netcomponents.NetProjectile,
		)
	case entry.HasComponent(netcomponents.NetBoss):
		err = srvsync.NetworkSync(world, &entity,
			srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
			netcomponents.NetBoss,
		)
	case entry.HasComponent(netcomponents.NetObstacle):
		err = srvsync.NetworkSync(world, &entity, netcomponents.NetPosition, netcomponents.NetObstacle)
	case entry.HasComponent(netcomponents.NetPickup):
		err = srvsync.NetworkSync(world, &entity, netcomponents.NetPosition, netcomponents.NetPickup)
	}
	if err != nil {
		log.Printf("[necs] failed to set up network sync: %v", err)
	}
}
