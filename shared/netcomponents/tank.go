package netcomponents

import (
	"github.com/automoto/tank-arena/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetTankData is the synced state of a player's tank.
type NetTankData struct {
	SessionID string
	Username  string
	Vehicle   netconfig.VehicleClass
	Image     string
	Health    int
	MaxHealth int
	Alive     bool

	// Economy mirrors the persisted profile
	Currency      int
	Score         int
	SpeedLevel    int
	FireRateLevel int
	RangeLevel    int
	DamageLevel   int
}

var NetTank = donburi.NewComponentType[NetTankData]()

// Level returns the current level of an upgrade kind.
func (t *NetTankData) Level(kind netconfig.UpgradeKind) int {
	switch kind {
	case netconfig.UpgradeSpeed:
		return t.SpeedLevel
	case netconfig.UpgradeFireRate:
		return t.FireRateLevel
	case netconfig.UpgradeRange:
		return t.RangeLevel
	case netconfig.UpgradeDamage:
		return t.DamageLevel
	}
	return 0
}

// SetLevel updates the level of an upgrade kind.
func (t *NetTankData) SetLevel(kind netconfig.UpgradeKind, level int) {
	switch kind {
	case netconfig.UpgradeSpeed:
		t.SpeedLevel = level
	case netconfig.UpgradeFireRate:
		t.FireRateLevel = level
	case netconfig.UpgradeRange:
		t.RangeLevel = level
	case netconfig.UpgradeDamage:
		t.DamageLevel = level
	}
}
