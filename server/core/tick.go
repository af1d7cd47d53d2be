package core

import (
	"log"
	"sort"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/automoto/tank-arena/tags"
)

// Step advances the simulation by one tick. All resolution happens here;
// the caller broadcasts afterwards.
func (w *World) Step() {
	for _, sb := range w.shots {
		w.stepProjectile(sb)
	}
	w.destroyConsumedProjectiles()

	w.collectPickups()
	w.updateBoss()
}

// stepProjectile runs one projectile through the tick pipeline. A consumed
// projectile skips every later check.
func (w *World) stepProjectile(sb *shotBody) {
	if sb.Consumed {
		return
	}
	entry := w.ecs.Entry(sb.Entity)
	pos := netcomponents.NetPosition.Get(entry)
	vel := netcomponents.NetVelocity.Get(entry)
	shot := netcomponents.NetProjectile.Get(entry)

	// Advance
	w.setPosition(sb.Entity, sb.Object, pos.X+vel.VX, pos.Y+vel.VY)
	shot.Distance += vel.Speed()

	// Obstacles
	if bb := w.hitObstacle(sb); bb != nil {
		sb.Consumed = true
		w.damageObstacle(bb)
		return
	}

	// Range and bounds
	cx, cy := bodyRect(sb.Object).Center()
	size := w.settings.Arena.Size
	if shot.Distance > shot.MaxRange || cx < 0 || cy < 0 || cx > size || cy > size {
		sb.Consumed = true
		return
	}

	// Boss
	if !shot.FromBoss && w.boss != nil {
		if bodyRect(sb.Object).Overlaps(bodyRect(w.boss.Object)) {
			sb.Consumed = true
			w.damageBoss(shot.Damage)
			return
		}
	}

	// Players
	if tb := w.hitTank(sb, shot.OwnerID); tb != nil {
		sb.Consumed = true
		w.damageTank(tb, shot)
	}
}

// hitObstacle returns the lowest-slot standing obstacle the projectile overlaps.
func (w *World) hitObstacle(sb *shotBody) *blockBody {
	var hit *blockBody
	for _, obj := range overlapping(sb.Object, tags.ResolvObstacle) {
		bb := obj.Data.(*blockBody)
		if w.obstacleData(bb).Destroyed {
			continue
		}
		if hit == nil || bb.Slot < hit.Slot {
			hit = bb
		}
	}
	return hit
}

func (w *World) damageObstacle(bb *blockBody) {
	ob := w.obstacleData(bb)
	ob.HitPoints--
	if ob.HitPoints <= 0 {
		ob.HitPoints = 0
		ob.Destroyed = true
		bb.RespawnAt = w.now().Add(w.settings.Obstacle.RespawnDelay)
		log.Printf("[world] obstacle %d destroyed", bb.Slot)
	}
	w.dirty.Obstacles = true
}

// hitTank returns the earliest-joined living tank the projectile overlaps,
// never the projectile's owner.
func (w *World) hitTank(sb *shotBody, ownerID string) *tankBody {
	var hit *tankBody
	for _, obj := range overlapping(sb.Object, tags.ResolvPlayer) {
		tb := obj.Data.(*tankBody)
		if tb.SessionID == ownerID || !w.tankData(tb).Alive {
			continue
		}
		if hit == nil || tb.Seq < hit.Seq {
			hit = tb
		}
	}
	return hit
}

// damageTank applies a hit and evaluates the death transition. Kills by a
// connected player earn that player the kill reward.
func (w *World) damageTank(tb *tankBody, shot *netcomponents.NetProjectileData) {
	tank := w.tankData(tb)
	tank.Health -= shot.Damage
	if tank.Health < 0 {
		tank.Health = 0
	}
	w.dirty.Players = true

	if tank.Health > 0 {
		return
	}
	tank.Alive = false

	if shot.FromBoss {
		log.Printf("[world] %s destroyed by the boss", tb.SessionID)
		return
	}
	killer, ok := w.tanks[shot.OwnerID]
	if !ok {
		return
	}
	w.reward(killer, w.settings.Reward.KillCurrency, w.settings.Reward.KillScore)
	log.Printf("[world] %s destroyed by %s", tb.SessionID, shot.OwnerID)
}

// reward credits currency and score in memory and queues their persistence.
func (w *World) reward(tb *tankBody, currency, score int) {
	tank := w.tankData(tb)
	tank.Currency += currency
	tank.Score += score
	w.credit(tank.Username, accounts.FieldCurrency, currency)
	w.credit(tank.Username, accounts.FieldScore, score)
	w.dirty.Players = true
}

func (w *World) damageBoss(damage int) {
	bd := netcomponents.NetBoss.Get(w.ecs.Entry(w.boss.Entity))
	bd.Health -= damage
	w.dirty.Boss = true
	if bd.Health > 0 {
		return
	}
	bd.Health = 0

	bx, by := bodyRect(w.boss.Object).Center()
	cfg := w.settings.Boss
	for _, tb := range w.livingTanks() {
		tx, ty := bodyRect(tb.Object).Center()
		if gamemath.Distance(bx, by, tx, ty) <= cfg.RewardRadius {
			w.reward(tb, cfg.RewardCurrency, cfg.RewardScore)
		}
	}

	w.removeBoss()
	w.events = append(w.events, messages.BossDefeatedEvent{X: bx, Y: by})
	log.Printf("[world] boss defeated at %.0f,%.0f", bx, by)
}

// destroyConsumedProjectiles removes consumed projectiles after the pass
// over the list, keeping the order of the rest.
func (w *World) destroyConsumedProjectiles() {
	kept := w.shots[:0]
	for _, sb := range w.shots {
		if sb.Consumed {
			w.space.Remove(sb.Object)
			w.removeEntity(sb.Entity)
			continue
		}
		kept = append(kept, sb)
	}
	for i := len(kept); i < len(w.shots); i++ {
		w.shots[i] = nil
	}
	w.shots = kept
}

// collectPickups resolves pickups for each living tank in join order. Health
// is only consumed by a hurt tank; currency is always collected.
func (w *World) collectPickups() {
	for _, tb := range w.livingTanks() {
		tank := w.tankData(tb)
		for _, pb := range w.touchingPickups(tb, tags.ResolvHealth) {
			if tank.Health >= tank.MaxHealth {
				break
			}
			tank.Health = gamemath.ClampInt(tank.Health+w.settings.Pickup.HealAmount, 0, tank.MaxHealth)
			w.removePickup(pb)
			w.dirty.Players = true
		}
		for _, pb := range w.touchingPickups(tb, tags.ResolvCurrency) {
			reward := netcomponents.NetPickup.Get(w.ecs.Entry(pb.Entity)).Reward
			tank.Currency += reward
			w.credit(tank.Username, accounts.FieldCurrency, reward)
			w.removePickup(pb)
			w.dirty.Players = true
		}
	}
}

// touchingPickups returns the pickups of one kind overlapping a tank, oldest first.
func (w *World) touchingPickups(tb *tankBody, tag string) []*pickupBody {
	objs := overlapping(tb.Object, tag)
	out := make([]*pickupBody, 0, len(objs))
	for _, obj := range objs {
		out = append(out, obj.Data.(*pickupBody))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) removePickup(pb *pickupBody) {
	list := &w.health
	if pb.Kind == netconfig.PickupCurrency {
		list = &w.currency
		w.dirty.Currency = true
	} else {
		w.dirty.Health = true
	}
	for i, p := range *list {
		if p == pb {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
	w.space.Remove(pb.Object)
	w.removeEntity(pb.Entity)
}
