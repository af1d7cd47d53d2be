package core

import (
	"errors"
	"math/rand"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/config"
	"github.com/automoto/tank-arena/shared/leveldata"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

var (
	ErrAlreadyJoined = errors.New("session already joined")
	ErrVehicleLocked = errors.New("vehicle class not unlocked")
)

// EconomySink receives persisted profile changes. Both calls are fire and
// forget.
type EconomySink interface {
	Credit(identity string, field accounts.Field, delta int)
	Set(identity string, field accounts.Field, value int)
}

// EntitySyncer marks newly created entities for replication to native clients.
type EntitySyncer interface {
	Track(world donburi.World, entity donburi.Entity)
}

// dirtyFlags records which snapshot categories changed since the last flush.
type dirtyFlags struct {
	Players   bool
	Obstacles bool
	Health    bool
	Currency  bool
	Boss      bool
}

// World is the authoritative entity store. It is owned by a single goroutine
// (the game loop) and is not safe for concurrent use.
type World struct {
	settings config.Settings
	ecs      donburi.World
	space    *resolv.Space
	layout   *leveldata.ArenaLayout
	now      func() time.Time
	rng      *rand.Rand

	tanks     map[string]*tankBody
	tankOrder []*tankBody
	nextSeq   uint64

	shots    []*shotBody
	blocks   []*blockBody
	health   []*pickupBody
	currency []*pickupBody
	nextPick uint64

	boss       *bossBody
	lastBossAt time.Time

	dirty  dirtyFlags
	events []any

	economy EconomySink
	syncer  EntitySyncer
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WorldOption {
	return func(w *World) { w.now = now }
}

// WithRand replaces the clock-seeded random source.
func WithRand(rng *rand.Rand) WorldOption {
	return func(w *World) { w.rng = rng }
}

// WithLayout places obstacles and spawn points from a map layout instead of
// at random.
func WithLayout(layout *leveldata.ArenaLayout) WorldOption {
	return func(w *World) { w.layout = layout }
}

// WithEconomy sets the sink for persisted economy changes.
func WithEconomy(sink EconomySink) WorldOption {
	return func(w *World) { w.economy = sink }
}

// WithSyncer registers created entities for native entity sync.
func WithSyncer(syncer EntitySyncer) WorldOption {
	return func(w *World) { w.syncer = syncer }
}

// NewWorld builds the arena and places its obstacles.
func NewWorld(settings config.Settings, opts ...WorldOption) *World {
	w := &World{
		settings: settings,
		ecs:      donburi.NewWorld(),
		now:      time.Now,
		tanks:    make(map[string]*tankBody),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		seed := settings.Arena.Seed
		if seed == 0 {
			seed = w.now().UnixNano()
		}
		w.rng = rand.New(rand.NewSource(seed))
	}

	size := int(settings.Arena.Size)
	w.space = resolv.NewSpace(size, size, settings.Arena.CellSize, settings.Arena.CellSize)
	w.lastBossAt = w.now()

	w.placeObstacles()
	return w
}

// ECS returns the donburi world holding the synced components.
func (w *World) ECS() donburi.World {
	return w.ecs
}

// Settings returns the tunables the world was built with.
func (w *World) Settings() config.Settings {
	return w.settings
}

// PlayerCount returns the number of joined players.
func (w *World) PlayerCount() int {
	return len(w.tankOrder)
}

// HasBoss reports whether a boss is alive.
func (w *World) HasBoss() bool {
	return w.boss != nil
}

func (w *World) track(entity donburi.Entity) {
	if w.syncer != nil {
		w.syncer.Track(w.ecs, entity)
	}
}

func (w *World) credit(identity string, field accounts.Field, delta int) {
	if w.economy != nil && delta != 0 {
		w.economy.Credit(identity, field, delta)
	}
}

func (w *World) persist(identity string, field accounts.Field, value int) {
	if w.economy != nil {
		w.economy.Set(identity, field, value)
	}
}

func (w *World) tankData(tb *tankBody) *netcomponents.NetTankData {
	return netcomponents.NetTank.Get(w.ecs.Entry(tb.Entity))
}

func (w *World) position(entity donburi.Entity) *netcomponents.NetPositionData {
	return netcomponents.NetPosition.Get(w.ecs.Entry(entity))
}

// setPosition moves both the synced position and the collision body.
func (w *World) setPosition(entity donburi.Entity, obj *resolv.Object, x, y float64) {
	pos := w.position(entity)
	pos.X, pos.Y = x, y
	moveBody(obj, x, y)
}

// livingTanks returns living tanks in join order.
func (w *World) livingTanks() []*tankBody {
	out := make([]*tankBody, 0, len(w.tankOrder))
	for _, tb := range w.tankOrder {
		if w.tankData(tb).Alive {
			out = append(out, tb)
		}
	}
	return out
}

// drainEvents returns and clears the queued one-off events.
func (w *World) drainEvents() []any {
	events := w.events
	w.events = nil
	return events
}

// takeDirty returns and clears the dirty flags.
func (w *World) takeDirty() dirtyFlags {
	d := w.dirty
	w.dirty = dirtyFlags{}
	return d
}

// markAllDirty forces a full snapshot on the next flush.
func (w *World) markAllDirty() {
	w.dirty = dirtyFlags{Players: true, Obstacles: true, Health: true, Currency: true, Boss: true}
}

func (w *World) removeEntity(entity donburi.Entity) {
	if w.ecs.Valid(entity) {
		w.ecs.Remove(entity)
	}
}
