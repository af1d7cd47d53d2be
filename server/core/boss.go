package core

import (
	"log"

	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/automoto/tank-arena/tags"
)

// updateBoss runs one step of the boss AI: re-acquire the nearest living
// tank, pursue it and fire when the cooldown allows.
func (w *World) updateBoss() {
	b := w.boss
	if b == nil {
		return
	}
	cfg := w.settings.Boss
	entry := w.ecs.Entry(b.Entity)
	bd := netcomponents.NetBoss.Get(entry)
	vel := netcomponents.NetVelocity.Get(entry)
	w.dirty.Boss = true

	target, dist := w.nearestTank(b)
	if target == nil || dist > cfg.AcquireRadius {
		bd.State = netconfig.BossSeeking
		bd.TargetID = ""
		vel.VX, vel.VY = 0, 0
		return
	}
	bd.State = netconfig.BossPursuing
	bd.TargetID = target.SessionID

	bx, by := bodyRect(b.Object).Center()
	tx, ty := bodyRect(target.Object).Center()
	speed := cfg.Speed
	if dist < speed {
		speed = dist
	}
	vel.VX, vel.VY = gamemath.CalculateHomingVelocity(bx, by, tx, ty, speed)

	next := bodyRect(b.Object)
	next.X += vel.VX
	next.Y += vel.VY
	next = next.ClampInto(w.settings.Arena.Size)
	w.setPosition(b.Entity, b.Object, next.X, next.Y)

	now := w.now()
	bx, by = next.Center()
	if now.Before(b.NextAttack) || gamemath.Distance(bx, by, tx, ty) > cfg.AttackRadius {
		return
	}

	vx, vy, ok := gamemath.CalculateShotVelocity(tx-bx, ty-by, cfg.ProjectileSpeed)
	if !ok {
		return
	}
	bd.State = netconfig.BossAttacking
	w.spawnProjectile(bx, by, vx, vy, netcomponents.NetProjectileData{
		OwnerID:  netconfig.BossOwnerID,
		FromBoss: true,
		Damage:   cfg.Damage,
		MaxRange: cfg.ProjectileRange,
	})
	b.NextAttack = now.Add(cfg.FireCooldown)
}

// nearestTank returns the living tank whose centre is closest to the boss
// centre. Ties go to the earlier join.
func (w *World) nearestTank(b *bossBody) (*tankBody, float64) {
	bx, by := bodyRect(b.Object).Center()
	var (
		best     *tankBody
		bestDist float64
	)
	for _, tb := range w.livingTanks() {
		tx, ty := bodyRect(tb.Object).Center()
		d := gamemath.Distance(bx, by, tx, ty)
		if best == nil || d < bestDist {
			best, bestDist = tb, d
		}
	}
	return best, bestDist
}

// spawnBoss creates the boss at x, y with full health.
func (w *World) spawnBoss(x, y float64) {
	cfg := w.settings.Boss
	entity := w.ecs.Create(tags.Boss, netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetBoss)
	entry := w.ecs.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: x, Y: y})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{})
	netcomponents.NetBoss.Set(entry, &netcomponents.NetBossData{
		Health:    cfg.Health,
		MaxHealth: cfg.Health,
		State:     netconfig.BossSeeking,
	})

	w.boss = &bossBody{
		Entity: entity,
		Object: newBody(w.space, x, y, cfg.Size, cfg.Size, tags.ResolvBoss),
	}
	w.boss.Object.Data = w.boss
	w.track(entity)

	w.dirty.Boss = true
	log.Printf("[world] boss spawned at %.0f,%.0f", x, y)
}

func (w *World) removeBoss() {
	if w.boss == nil {
		return
	}
	w.space.Remove(w.boss.Object)
	w.removeEntity(w.boss.Entity)
	w.boss = nil
	w.lastBossAt = w.now()
	w.dirty.Boss = true
}
