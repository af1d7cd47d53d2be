package core

import (
	"log"

	"github.com/automoto/tank-arena/shared/gamemath"
	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/automoto/tank-arena/tags"
)

const obstaclePlacementAttempts = 50

// placeObstacles fills the obstacle slots, from the layout when one is set
// and at random otherwise. Slots are numbered in placement order.
func (w *World) placeObstacles() {
	if w.layout != nil {
		for _, r := range w.layout.Obstacles {
			hp := r.HitPoints
			if hp <= 0 {
				hp = w.settings.Obstacle.HitPoints
			}
			w.createObstacle(gamemath.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}, hp)
		}
		log.Printf("[world] placed %d obstacles from layout, %d spawn points",
			len(w.blocks), len(w.layout.SpawnPoints))
		return
	}

	cfg := w.settings.Obstacle
	size := w.settings.Arena.Size
	for i := 0; i < cfg.Count; i++ {
		placed := false
		for attempt := 0; attempt < obstaclePlacementAttempts; attempt++ {
			bw := cfg.MinSize + w.rng.Float64()*(cfg.MaxSize-cfg.MinSize)
			bh := cfg.MinSize + w.rng.Float64()*(cfg.MaxSize-cfg.MinSize)
			span := size - 2*cfg.SpawnMargin
			if span < bw || span < bh {
				break
			}
			r := gamemath.Rect{
				X: cfg.SpawnMargin + w.rng.Float64()*(span-bw),
				Y: cfg.SpawnMargin + w.rng.Float64()*(span-bh),
				W: bw,
				H: bh,
			}
			if w.anyObstacleOverlaps(r) {
				continue
			}
			w.createObstacle(r, cfg.HitPoints)
			placed = true
			break
		}
		if !placed {
			log.Printf("[world] could not place obstacle %d after %d attempts", i, obstaclePlacementAttempts)
		}
	}
	log.Printf("[world] placed %d random obstacles", len(w.blocks))
}

func (w *World) createObstacle(r gamemath.Rect, hp int) {
	entity := w.ecs.Create(tags.Obstacle, netcomponents.NetPosition, netcomponents.NetObstacle)
	entry := w.ecs.Entry(entity)

	slot := len(w.blocks)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: r.X, Y: r.Y})
	netcomponents.NetObstacle.Set(entry, &netcomponents.NetObstacleData{
		Slot:         slot,
		W:            r.W,
		H:            r.H,
		HitPoints:    hp,
		MaxHitPoints: hp,
	})

	bb := &blockBody{
		Entity: entity,
		Object: newBody(w.space, r.X, r.Y, r.W, r.H, tags.ResolvObstacle),
		Slot:   slot,
	}
	bb.Object.Data = bb
	w.blocks = append(w.blocks, bb)
	w.track(entity)
}

func (w *World) obstacleData(bb *blockBody) *netcomponents.NetObstacleData {
	return netcomponents.NetObstacle.Get(w.ecs.Entry(bb.Entity))
}

// anyObstacleOverlaps reports whether r overlaps any obstacle, destroyed or not.
func (w *World) anyObstacleOverlaps(r gamemath.Rect) bool {
	for _, bb := range w.blocks {
		if r.Overlaps(bodyRect(bb.Object)) {
			return true
		}
	}
	return false
}

// blockedBy returns the lowest-slot standing obstacle overlapping r.
func (w *World) blockedBy(r gamemath.Rect) *blockBody {
	for _, bb := range w.blocks {
		if w.obstacleData(bb).Destroyed {
			continue
		}
		if r.Overlaps(bodyRect(bb.Object)) {
			return bb
		}
	}
	return nil
}

// spawnPosition picks a spawn for a tank footprint that lies in the arena
// and clear of standing obstacles. Layout spawn points are tried first, in
// random order. If nothing clear is found the last candidate is used.
func (w *World) spawnPosition() (float64, float64) {
	pw, ph := w.settings.Player.Width, w.settings.Player.Height
	size := w.settings.Arena.Size

	clear := func(r gamemath.Rect) bool {
		return r.Inside(size) && w.blockedBy(r) == nil
	}

	if w.layout != nil && len(w.layout.SpawnPoints) > 0 {
		for _, i := range w.rng.Perm(len(w.layout.SpawnPoints)) {
			sp := w.layout.SpawnPoints[i]
			r := gamemath.Rect{X: sp.X, Y: sp.Y, W: pw, H: ph}
			if clear(r) {
				return r.X, r.Y
			}
		}
	}

	var r gamemath.Rect
	attempts := w.settings.Player.SpawnAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		r = gamemath.Rect{
			X: w.rng.Float64() * (size - pw),
			Y: w.rng.Float64() * (size - ph),
			W: pw,
			H: ph,
		}
		if clear(r) {
			break
		}
	}
	return r.X, r.Y
}
