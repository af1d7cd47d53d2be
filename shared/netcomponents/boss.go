package netcomponents

import (
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetBossData struct {
	Health    int
	MaxHealth int
	State     netconfig.BossState
	TargetID  string // session id of the current target, empty while seeking
}

var NetBoss = donburi.NewComponentType[NetBossData]()
