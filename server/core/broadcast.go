package core

import (
	"log"
)

// Conn is one client connection as seen by the game loop. Send must not
// block; transports queue and drop on their side.
type Conn interface {
	Send(msg any) error
	Close() error
}

// Broadcaster fans snapshots and events out to joined connections. It is
// owned by the game loop goroutine.
type Broadcaster struct {
	conns map[string]Conn
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{conns: make(map[string]Conn)}
}

func (b *Broadcaster) Add(sessionID string, c Conn) {
	b.conns[sessionID] = c
}

func (b *Broadcaster) Remove(sessionID string) {
	delete(b.conns, sessionID)
}

// SendTo delivers msg to one session.
func (b *Broadcaster) SendTo(sessionID string, msg any) {
	c, ok := b.conns[sessionID]
	if !ok {
		return
	}
	if err := c.Send(msg); err != nil {
		log.Printf("[broadcast] send to %s failed: %v", sessionID, err)
	}
}

// Broadcast delivers msg to every session.
func (b *Broadcaster) Broadcast(msg any) {
	for id, c := range b.conns {
		if err := c.Send(msg); err != nil {
			log.Printf("[broadcast] send to %s failed: %v", id, err)
		}
	}
}

// Flush sends the categories that changed since the last flush. Projectiles
// go out every call, and the boss every call while one is alive.
func (b *Broadcaster) Flush(w *World) {
	dirty := w.takeDirty()
	events := w.drainEvents()
	if len(b.conns) == 0 {
		return
	}

	b.Broadcast(w.ProjectilesSnapshot())
	if dirty.Obstacles {
		b.Broadcast(w.ObstaclesSnapshot())
	}
	if dirty.Players {
		b.Broadcast(w.PlayersSnapshot())
	}
	if dirty.Health {
		b.Broadcast(w.HealthPickupsSnapshot())
	}
	if dirty.Currency {
		b.Broadcast(w.CurrencyPickupsSnapshot())
	}
	if dirty.Boss || w.HasBoss() {
		b.Broadcast(w.BossSnapshot())
	}
	for _, evt := range events {
		b.Broadcast(evt)
	}
}

// SendState sends every category to one session, used right after a join.
func (b *Broadcaster) SendState(sessionID string, w *World) {
	b.SendTo(sessionID, w.PlayersSnapshot())
	b.SendTo(sessionID, w.ObstaclesSnapshot())
	b.SendTo(sessionID, w.HealthPickupsSnapshot())
	b.SendTo(sessionID, w.CurrencyPickupsSnapshot())
	b.SendTo(sessionID, w.ProjectilesSnapshot())
	b.SendTo(sessionID, w.BossSnapshot())
}
