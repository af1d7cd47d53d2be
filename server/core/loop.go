package core

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netconfig"
)

// Commands accepted by the game loop inbox.
type (
	JoinCommand struct {
		SessionID string
		Conn      Conn
		Profile   accounts.Profile
		Vehicle   netconfig.VehicleClass
		Image     string
	}
	LeaveCommand struct {
		SessionID string
	}
	MoveCommand struct {
		SessionID string
		X, Y      float64
	}
	FireCommand struct {
		SessionID string
		Intent    messages.FireIntent
	}
	RespawnCommand struct {
		SessionID string
	}
	UpgradeCommand struct {
		SessionID string
		Stat      string
	}
	PingCommand struct {
		Conn  Conn
		Probe messages.PingProbe
	}
	upgradeSettled struct {
		Ticket UpgradeTicket
		OK     bool
		Reason string
	}
)

// GameLoop owns the World. Every mutation happens on its goroutine: it
// selects over the command inbox, the tick ticker, the spawn ticker and the
// stop channel.
type GameLoop struct {
	world      *World
	bcast      *Broadcaster
	economy    *Economy
	serverName string

	inbox    chan any
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	players   atomic.Int64
	afterTick func()
}

// NewGameLoop creates a loop around world. economy may be nil, in which case
// upgrades are applied without a store round trip.
func NewGameLoop(world *World, economy *Economy, serverName string) *GameLoop {
	return &GameLoop{
		world:      world,
		bcast:      NewBroadcaster(),
		economy:    economy,
		serverName: serverName,
		inbox:      make(chan any, world.settings.Net.InboxSize),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetAfterTick registers a hook run on the loop goroutine after every tick's
// broadcast. Must be called before Run.
func (g *GameLoop) SetAfterTick(fn func()) {
	g.afterTick = fn
}

// Submit enqueues a command. It blocks while the inbox is full and returns
// false once the loop has stopped.
func (g *GameLoop) Submit(cmd any) bool {
	select {
	case <-g.stopChan:
		return false
	default:
	}
	select {
	case g.inbox <- cmd:
		return true
	case <-g.stopChan:
		return false
	}
}

// PlayerCount is safe to call from any goroutine.
func (g *GameLoop) PlayerCount() int {
	return int(g.players.Load())
}

func (g *GameLoop) Run() {
	defer close(g.done)

	settings := g.world.settings
	ticker := time.NewTicker(settings.TickInterval())
	defer ticker.Stop()
	spawn := time.NewTicker(settings.Arena.SpawnInterval)
	defer spawn.Stop()

	g.world.SpawnCycle()
	log.Printf("[loop] started at %d ticks/second", settings.Arena.TickRate)

	for {
		select {
		case <-g.stopChan:
			log.Println("[loop] stopped")
			return
		case cmd := <-g.inbox:
			g.handleCommand(cmd)
		case <-spawn.C:
			g.world.SpawnCycle()
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop ends Run and waits for it to return.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
	<-g.done
}

func (g *GameLoop) tick() {
	g.world.Step()
	g.bcast.Flush(g.world)
	if g.afterTick != nil {
		g.afterTick()
	}
}

func (g *GameLoop) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case JoinCommand:
		g.handleJoin(c)
	case LeaveCommand:
		if g.world.Leave(c.SessionID) {
			g.bcast.Remove(c.SessionID)
			g.players.Store(int64(g.world.PlayerCount()))
		}
	case MoveCommand:
		g.world.Move(c.SessionID, c.X, c.Y)
	case FireCommand:
		g.world.Fire(c.SessionID, c.Intent)
	case RespawnCommand:
		g.world.Respawn(c.SessionID)
	case UpgradeCommand:
		g.handleUpgrade(c)
	case upgradeSettled:
		if res, ok := g.world.CompleteUpgrade(c.Ticket, c.OK, c.Reason); ok {
			g.bcast.SendTo(c.Ticket.SessionID, res)
		}
	case PingCommand:
		if err := c.Conn.Send(messages.PongProbe{
			ClientTime: c.Probe.ClientTime,
			ServerTime: g.world.now().UnixMilli(),
		}); err != nil {
			log.Printf("[loop] pong failed: %v", err)
		}
	default:
		log.Printf("[loop] unknown command %T", cmd)
	}
}

func (g *GameLoop) handleJoin(c JoinCommand) {
	if err := g.world.Join(c.SessionID, c.Profile, c.Vehicle, c.Image); err != nil {
		log.Printf("[loop] join %s rejected: %v", c.SessionID, err)
		if err := c.Conn.Send(messages.JoinRejected{Reason: err.Error()}); err != nil {
			log.Printf("[loop] reject %s failed: %v", c.SessionID, err)
		}
		return
	}

	g.bcast.Add(c.SessionID, c.Conn)
	g.players.Store(int64(g.world.PlayerCount()))

	g.bcast.SendTo(c.SessionID, messages.JoinAccepted{
		SessionID:  c.SessionID,
		ServerName: g.serverName,
		ArenaSize:  g.world.settings.Arena.Size,
		TickRate:   g.world.settings.Arena.TickRate,
	})
	g.bcast.SendState(c.SessionID, g.world)
}

func (g *GameLoop) handleUpgrade(c UpgradeCommand) {
	kind, ok := netconfig.ParseUpgradeKind(c.Stat)
	if !ok {
		g.bcast.SendTo(c.SessionID, messages.UpgradeResult{Stat: c.Stat, Reason: "unknown stat"})
		return
	}

	ticket, rejected, ok := g.world.BeginUpgrade(c.SessionID, kind)
	if !ok {
		g.bcast.SendTo(c.SessionID, rejected)
		return
	}

	if g.economy == nil {
		g.handleCommand(upgradeSettled{Ticket: ticket, OK: true})
		return
	}
	queued := g.economy.Upgrade(ticket, func(ok bool, reason string) {
		g.Submit(upgradeSettled{Ticket: ticket, OK: ok, Reason: reason})
	})
	if !queued {
		g.handleCommand(upgradeSettled{Ticket: ticket, Reason: "store busy"})
	}
}
