// Package leveldata provides TMX arena parsing for the server and any client that wants the same layout.
// It has no dependencies on donburi or resolv. Pure data only.
package leveldata

// ArenaLayout holds the collision-relevant data of a hand-made arena.
type ArenaLayout struct {
	Obstacles   []ObstacleRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
}

// ObstacleRect is a destructible block placed in the editor.
type ObstacleRect struct {
	X, Y, W, H float64
	HitPoints  int // 0 = use the configured default
}

// SpawnPoint represents a player spawn location (top-left of the footprint).
type SpawnPoint struct {
	X, Y  float64
	Index int
}
