package netcomponents

import "github.com/yohamta/donburi"

type NetObstacleData struct {
	Slot         int
	W, H         float64
	HitPoints    int
	MaxHitPoints int
	Destroyed    bool
}

var NetObstacle = donburi.NewComponentType[NetObstacleData]()
