package core

import (
	"fmt"
	"log"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/automoto/tank-arena/tags"
)

// Join creates a tank for a session at a clear spawn with full class health.
func (w *World) Join(sessionID string, profile accounts.Profile, vehicle netconfig.VehicleClass, image string) error {
	if _, exists := w.tanks[sessionID]; exists {
		return ErrAlreadyJoined
	}
	if _, ok := w.settings.Vehicles[vehicle]; !ok {
		vehicle = w.settings.Player.DefaultVehicle
	}
	stats := w.settings.Vehicle(vehicle)
	if profile.Score < stats.UnlockScore {
		return fmt.Errorf("%w: %s needs score %d", ErrVehicleLocked, vehicle, stats.UnlockScore)
	}

	x, y := w.spawnPosition()

	entity := w.ecs.Create(tags.Player, netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetTank)
	entry := w.ecs.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: x, Y: y})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{})

	maxLevel := w.settings.Upgrade.MaxLevel
	netcomponents.NetTank.Set(entry, &netcomponents.NetTankData{
		SessionID:     sessionID,
		Username:      profile.Username,
		Vehicle:       vehicle,
		Image:         image,
		Health:        stats.Health,
		MaxHealth:     stats.Health,
		Alive:         true,
		Currency:      profile.Currency,
		Score:         profile.Score,
		SpeedLevel:    gamemath.ClampInt(profile.SpeedLevel, 0, maxLevel),
		FireRateLevel: gamemath.ClampInt(profile.FireRateLevel, 0, maxLevel),
		RangeLevel:    gamemath.ClampInt(profile.RangeLevel, 0, maxLevel),
		DamageLevel:   gamemath.ClampInt(profile.DamageLevel, 0, maxLevel),
	})

	w.nextSeq++
	tb := &tankBody{
		Entity:    entity,
		Object:    newBody(w.space, x, y, w.settings.Player.Width, w.settings.Player.Height, tags.ResolvPlayer),
		SessionID: sessionID,
		Seq:       w.nextSeq,
	}
	tb.Object.Data = tb
	w.tanks[sessionID] = tb
	w.tankOrder = append(w.tankOrder, tb)
	w.track(entity)

	if saved := int(vehicle) + 1; profile.Vehicle != saved {
		w.persist(profile.Username, accounts.FieldVehicle, saved)
	}

	w.dirty.Players = true
	log.Printf("[world] %s joined as %q (%s) at %.0f,%.0f", sessionID, profile.Username, vehicle, x, y)
	return nil
}

// Leave removes a session's tank. Its projectiles stay in flight with the
// old owner id.
func (w *World) Leave(sessionID string) bool {
	tb, ok := w.tanks[sessionID]
	if !ok {
		return false
	}
	delete(w.tanks, sessionID)
	for i, t := range w.tankOrder {
		if t == tb {
			w.tankOrder = append(w.tankOrder[:i], w.tankOrder[i+1:]...)
			break
		}
	}
	w.space.Remove(tb.Object)
	w.removeEntity(tb.Entity)

	w.dirty.Players = true
	log.Printf("[world] %s left", sessionID)
	return true
}

// Move places a living tank at x, y. Positions outside the arena or
// overlapping a standing obstacle are rejected.
func (w *World) Move(sessionID string, x, y float64) bool {
	tb, ok := w.tanks[sessionID]
	if !ok || !w.tankData(tb).Alive {
		return false
	}

	r := gamemath.Rect{X: x, Y: y, W: tb.Object.W, H: tb.Object.H}
	if !r.Inside(w.settings.Arena.Size) || w.blockedBy(r) != nil {
		return false
	}

	pos := w.position(tb.Entity)
	vel := netcomponents.NetVelocity.Get(w.ecs.Entry(tb.Entity))
	vel.VX, vel.VY = x-pos.X, y-pos.Y
	w.setPosition(tb.Entity, tb.Object, x, y)

	w.dirty.Players = true
	return true
}

// Fire spawns a projectile for a living tank whose cooldown has elapsed.
// The intent's velocity only supplies the direction.
func (w *World) Fire(sessionID string, intent messages.FireIntent) bool {
	tb, ok := w.tanks[sessionID]
	if !ok {
		return false
	}
	tank := w.tankData(tb)
	if !tank.Alive {
		return false
	}

	now := w.now()
	if !tb.LastFire.IsZero() && now.Sub(tb.LastFire) < w.fireCooldown(tank) {
		return false
	}

	vx, vy, ok := gamemath.CalculateShotVelocity(intent.VelocityX, intent.VelocityY, w.settings.Projectile.Speed)
	if !ok {
		return false
	}

	cx, cy := bodyRect(tb.Object).Center()
	ox, oy := intent.OriginX, intent.OriginY
	if !(gamemath.Distance(cx, cy, ox, oy) <= w.settings.Player.FireOriginTolerance) {
		ox, oy = cx, cy
	}

	stats := w.settings.Vehicle(tank.Vehicle)
	up := w.settings.Upgrade
	w.spawnProjectile(ox, oy, vx, vy, netcomponents.NetProjectileData{
		OwnerID:  sessionID,
		Damage:   gamemath.CalculateDamage(stats.Damage, up.DamageStep, tank.DamageLevel),
		MaxRange: gamemath.CalculateRange(w.settings.Projectile.BaseRange, up.RangeStep, tank.RangeLevel),
	})
	tb.LastFire = now
	return true
}

func (w *World) fireCooldown(tank *netcomponents.NetTankData) time.Duration {
	up := w.settings.Upgrade
	return gamemath.CalculateFireCooldown(w.settings.Vehicle(tank.Vehicle).FireCooldown, up.FireCooldownStep, tank.FireRateLevel, up.MinFireCooldown)
}

// tankSpeed is the movement speed advertised to clients.
func (w *World) tankSpeed(tank *netcomponents.NetTankData) float64 {
	return gamemath.CalculateSpeed(w.settings.Vehicle(tank.Vehicle).Speed, w.settings.Upgrade.SpeedStep, tank.SpeedLevel)
}

// spawnProjectile creates a projectile centred on cx, cy.
func (w *World) spawnProjectile(cx, cy, vx, vy float64, data netcomponents.NetProjectileData) {
	size := w.settings.Projectile.Size
	box := gamemath.NewRectCentered(cx, cy, size, size)
	x, y := box.X, box.Y

	entity := w.ecs.Create(tags.Projectile, netcomponents.NetPosition, netcomponents.NetVelocity, netcomponents.NetProjectile)
	entry := w.ecs.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: x, Y: y})
	netcomponents.NetVelocity.Set(entry, &netcomponents.NetVelocityData{VX: vx, VY: vy})
	netcomponents.NetProjectile.Set(entry, &data)

	sb := &shotBody{
		Entity: entity,
		Object: newBody(w.space, x, y, size, size, tags.ResolvProjectile),
	}
	sb.Object.Data = sb
	w.shots = append(w.shots, sb)
	w.track(entity)
}

// Respawn revives a dead tank at a new spawn with full health. It is a
// no-op for living tanks.
func (w *World) Respawn(sessionID string) bool {
	tb, ok := w.tanks[sessionID]
	if !ok {
		return false
	}
	tank := w.tankData(tb)
	if tank.Alive {
		return false
	}

	x, y := w.spawnPosition()
	w.setPosition(tb.Entity, tb.Object, x, y)
	tank.Health = tank.MaxHealth
	tank.Alive = true

	w.dirty.Players = true
	return true
}

// UpgradeTicket describes an accepted upgrade waiting on the account store.
type UpgradeTicket struct {
	SessionID string
	Username  string
	Kind      netconfig.UpgradeKind
	Cost      int
}

// BeginUpgrade validates an upgrade and marks it pending. A rejection
// carries the current level and a reason.
func (w *World) BeginUpgrade(sessionID string, kind netconfig.UpgradeKind) (UpgradeTicket, messages.UpgradeResult, bool) {
	reject := func(level, currency int, reason string) (UpgradeTicket, messages.UpgradeResult, bool) {
		return UpgradeTicket{}, messages.UpgradeResult{
			Stat:     kind.String(),
			Level:    level,
			Currency: currency,
			Reason:   reason,
		}, false
	}

	tb, ok := w.tanks[sessionID]
	if !ok {
		return reject(0, 0, "not joined")
	}
	tank := w.tankData(tb)
	level := tank.Level(kind)
	cost := w.settings.Upgrade.Cost

	switch {
	case tb.PendingUpgrade:
		return reject(level, tank.Currency, "upgrade pending")
	case level >= w.settings.Upgrade.MaxLevel:
		return reject(level, tank.Currency, "max level")
	case tank.Currency < cost:
		return reject(level, tank.Currency, "insufficient funds")
	}

	tb.PendingUpgrade = true
	return UpgradeTicket{
		SessionID: sessionID,
		Username:  tank.Username,
		Kind:      kind,
		Cost:      cost,
	}, messages.UpgradeResult{}, true
}

// CompleteUpgrade applies a settled upgrade. On success currency is debited
// and the level raised; either way the pending flag is cleared.
func (w *World) CompleteUpgrade(ticket UpgradeTicket, ok bool, reason string) (messages.UpgradeResult, bool) {
	tb, exists := w.tanks[ticket.SessionID]
	if !exists {
		return messages.UpgradeResult{}, false
	}
	tb.PendingUpgrade = false
	tank := w.tankData(tb)

	if ok {
		tank.Currency -= ticket.Cost
		if tank.Currency < 0 {
			tank.Currency = 0
		}
		tank.SetLevel(ticket.Kind, gamemath.ClampInt(tank.Level(ticket.Kind)+1, 0, w.settings.Upgrade.MaxLevel))
		w.dirty.Players = true
		reason = ""
	}

	return messages.UpgradeResult{
		Stat:     ticket.Kind.String(),
		OK:       ok,
		Level:    tank.Level(ticket.Kind),
		Currency: tank.Currency,
		Reason:   reason,
	}, true
}

// upgradeField maps an upgrade kind onto its persisted profile field.
func upgradeField(kind netconfig.UpgradeKind) accounts.Field {
	switch kind {
	case netconfig.UpgradeSpeed:
		return accounts.FieldSpeedLevel
	case netconfig.UpgradeFireRate:
		return accounts.FieldFireRateLevel
	case netconfig.UpgradeRange:
		return accounts.FieldRangeLevel
	}
	return accounts.FieldDamageLevel
}
