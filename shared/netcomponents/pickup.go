package netcomponents

import (
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPickupData struct {
	ID     uint64
	Kind   netconfig.PickupKind
	Reward int // currency only
}

var NetPickup = donburi.NewComponentType[NetPickupData]()
