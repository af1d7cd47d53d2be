package core

import (
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netcomponents"
)

// PlayersSnapshot returns every tank keyed by session id.
func (w *World) PlayersSnapshot() messages.PlayersSnapshot {
	players := make(map[string]messages.PlayerView, len(w.tankOrder))
	for _, tb := range w.tankOrder {
		tank := w.tankData(tb)
		pos := w.position(tb.Entity)
		players[tb.SessionID] = messages.PlayerView{
			ID:            tb.SessionID,
			Username:      tank.Username,
			X:             pos.X,
			Y:             pos.Y,
			Health:        tank.Health,
			MaxHealth:     tank.MaxHealth,
			Alive:         tank.Alive,
			Vehicle:       tank.Vehicle.String(),
			Image:         tank.Image,
			Speed:         w.tankSpeed(tank),
			Currency:      tank.Currency,
			Score:         tank.Score,
			SpeedLevel:    tank.SpeedLevel,
			FireRateLevel: tank.FireRateLevel,
			RangeLevel:    tank.RangeLevel,
			DamageLevel:   tank.DamageLevel,
		}
	}
	return messages.PlayersSnapshot{Players: players}
}

// ProjectilesSnapshot returns projectiles in flight, oldest first.
func (w *World) ProjectilesSnapshot() messages.ProjectilesSnapshot {
	out := make([]messages.ProjectileView, 0, len(w.shots))
	for _, sb := range w.shots {
		entry := w.ecs.Entry(sb.Entity)
		pos := netcomponents.NetPosition.Get(entry)
		vel := netcomponents.NetVelocity.Get(entry)
		shot := netcomponents.NetProjectile.Get(entry)
		out = append(out, messages.ProjectileView{
			X:        pos.X,
			Y:        pos.Y,
			VX:       vel.VX,
			VY:       vel.VY,
			OwnerID:  shot.OwnerID,
			FromBoss: shot.FromBoss,
		})
	}
	return messages.ProjectilesSnapshot{Projectiles: out}
}

// ObstaclesSnapshot returns every obstacle slot, destroyed ones included.
func (w *World) ObstaclesSnapshot() messages.ObstaclesSnapshot {
	out := make([]messages.ObstacleView, 0, len(w.blocks))
	for _, bb := range w.blocks {
		ob := w.obstacleData(bb)
		pos := w.position(bb.Entity)
		out = append(out, messages.ObstacleView{
			ID:           bb.Slot,
			X:            pos.X,
			Y:            pos.Y,
			W:            ob.W,
			H:            ob.H,
			HitPoints:    ob.HitPoints,
			MaxHitPoints: ob.MaxHitPoints,
			Destroyed:    ob.Destroyed,
		})
	}
	return messages.ObstaclesSnapshot{Obstacles: out}
}

func (w *World) HealthPickupsSnapshot() messages.HealthPickupsSnapshot {
	return messages.HealthPickupsSnapshot{Pickups: w.pickupViews(w.health)}
}

func (w *World) CurrencyPickupsSnapshot() messages.CurrencyPickupsSnapshot {
	return messages.CurrencyPickupsSnapshot{Pickups: w.pickupViews(w.currency)}
}

func (w *World) pickupViews(list []*pickupBody) []messages.PickupView {
	out := make([]messages.PickupView, 0, len(list))
	for _, pb := range list {
		pos := w.position(pb.Entity)
		out = append(out, messages.PickupView{
			ID:     pb.ID,
			X:      pos.X,
			Y:      pos.Y,
			Reward: netcomponents.NetPickup.Get(w.ecs.Entry(pb.Entity)).Reward,
		})
	}
	return out
}

// BossSnapshot returns the boss, or a nil boss when none exists.
func (w *World) BossSnapshot() messages.BossSnapshot {
	if w.boss == nil {
		return messages.BossSnapshot{}
	}
	pos := w.position(w.boss.Entity)
	bd := netcomponents.NetBoss.Get(w.ecs.Entry(w.boss.Entity))
	return messages.BossSnapshot{Boss: &messages.BossView{
		X:         pos.X,
		Y:         pos.Y,
		Size:      w.boss.Object.W,
		Health:    bd.Health,
		MaxHealth: bd.MaxHealth,
		State:     bd.State.String(),
		TargetID:  bd.TargetID,
	}}
}
