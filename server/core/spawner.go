package core

import (
	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/automoto/tank-arena/tags"
)

// SpawnCycle runs the low-frequency spawn pass: pickup top-up, obstacle
// respawn and the gated boss spawn.
func (w *World) SpawnCycle() {
	cfg := w.settings.Pickup
	for len(w.health) < cfg.HealthCap {
		w.spawnPickup(netconfig.PickupHealth, 0)
	}
	for len(w.currency) < cfg.CurrencyCap {
		reward := cfg.CurrencyMin
		if span := cfg.CurrencyMax - cfg.CurrencyMin; span > 0 {
			reward += w.rng.Intn(span + 1)
		}
		w.spawnPickup(netconfig.PickupCurrency, reward)
	}

	w.respawnObstacles()

	if w.boss == nil {
		boss := w.settings.Boss
		forced := w.now().Sub(w.lastBossAt) >= boss.SpawnAfter
		if forced || w.rng.Float64() < boss.SpawnChance {
			span := w.settings.Arena.Size - 2*boss.EdgeMargin - boss.Size
			w.spawnBoss(boss.EdgeMargin+w.rng.Float64()*span, boss.EdgeMargin+w.rng.Float64()*span)
		}
	}
}

func (w *World) spawnPickup(kind netconfig.PickupKind, reward int) {
	size := w.settings.Pickup.Size
	x := w.rng.Float64() * (w.settings.Arena.Size - size)
	y := w.rng.Float64() * (w.settings.Arena.Size - size)

	tag, resolvTag := tags.HealthPickup, tags.ResolvHealth
	if kind == netconfig.PickupCurrency {
		tag, resolvTag = tags.CurrencyPickup, tags.ResolvCurrency
	}

	w.nextPick++
	entity := w.ecs.Create(tag, netcomponents.NetPosition, netcomponents.NetPickup)
	entry := w.ecs.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: x, Y: y})
	netcomponents.NetPickup.Set(entry, &netcomponents.NetPickupData{ID: w.nextPick, Kind: kind, Reward: reward})

	pb := &pickupBody{
		Entity: entity,
		Object: newBody(w.space, x, y, size, size, resolvTag),
		ID:     w.nextPick,
		Kind:   kind,
	}
	pb.Object.Data = pb
	w.track(entity)

	if kind == netconfig.PickupCurrency {
		w.currency = append(w.currency, pb)
		w.dirty.Currency = true
	} else {
		w.health = append(w.health, pb)
		w.dirty.Health = true
	}
}

// respawnObstacles restores destroyed obstacles whose delay has elapsed.
// An obstacle stays down while a living tank stands in its footprint.
func (w *World) respawnObstacles() {
	now := w.now()
	for _, bb := range w.blocks {
		ob := w.obstacleData(bb)
		if !ob.Destroyed || now.Before(bb.RespawnAt) {
			continue
		}
		if w.tankInside(bodyRect(bb.Object)) {
			continue
		}
		ob.Destroyed = false
		ob.HitPoints = ob.MaxHitPoints
		w.dirty.Obstacles = true
	}
}

func (w *World) tankInside(r gamemath.Rect) bool {
	for _, tb := range w.livingTanks() {
		if r.Overlaps(bodyRect(tb.Object)) {
			return true
		}
	}
	return false
}
