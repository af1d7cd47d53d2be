package tags

import "github.com/yohamta/donburi"

var (
	Player         = donburi.NewTag().SetName("Player")
	Projectile     = donburi.NewTag().SetName("Projectile")
	Obstacle       = donburi.NewTag().SetName("Obstacle")
	HealthPickup   = donburi.NewTag().SetName("HealthPickup")
	CurrencyPickup = donburi.NewTag().SetName("CurrencyPickup")
	Boss           = donburi.NewTag().SetName("Boss")
)

// Resolv tags for collision queries
const (
	ResolvPlayer     = "player"
	ResolvProjectile = "projectile"
	ResolvObstacle   = "obstacle"
	ResolvHealth     = "health"
	ResolvCurrency   = "currency"
	ResolvBoss       = "boss"
)
