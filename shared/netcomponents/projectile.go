package netcomponents

import "github.com/yohamta/donburi"

type NetProjectileData struct {
	OwnerID  string // session id of the shooter, or netconfig.BossOwnerID
	FromBoss bool
	Damage   int
	Distance float64 // accumulated travel
	MaxRange float64
}

var NetProjectile = donburi.NewComponentType[NetProjectileData]()
