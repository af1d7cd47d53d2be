// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on the simulation
// packages so thin clients can import it on its own.
package netconfig

import (
	"fmt"
	"strings"
)

// BossOwnerID is the projectile owner id used for shots fired by the boss.
const BossOwnerID = "boss"

// VehicleClass identifies a loadout with fixed base stats.
type VehicleClass int

const (
	VehicleLight VehicleClass = iota
	VehicleMedium
	VehicleHeavy
	VehicleCount // Must be last - used for array sizing
)

var vehicleNames = [VehicleCount]string{
	VehicleLight:  "light",
	VehicleMedium: "medium",
	VehicleHeavy:  "heavy",
}

func (v VehicleClass) String() string {
	if v < 0 || v >= VehicleCount {
		return "unknown"
	}
	return vehicleNames[v]
}

// ParseVehicleClass maps a wire name to a VehicleClass.
func ParseVehicleClass(name string) (VehicleClass, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range vehicleNames {
		if n == name {
			return VehicleClass(i), true
		}
	}
	return VehicleMedium, false
}

// MarshalText encodes the class by name for JSON and YAML.
func (v VehicleClass) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a class name.
func (v *VehicleClass) UnmarshalText(text []byte) error {
	class, ok := ParseVehicleClass(string(text))
	if !ok {
		return fmt.Errorf("unknown vehicle class %q", text)
	}
	*v = class
	return nil
}

// UpgradeKind is the closed set of persistent stat upgrades.
type UpgradeKind int

const (
	UpgradeSpeed UpgradeKind = iota
	UpgradeFireRate
	UpgradeRange
	UpgradeDamage
	UpgradeCount
)

var upgradeNames = [UpgradeCount]string{
	UpgradeSpeed:    "speed",
	UpgradeFireRate: "fireRate",
	UpgradeRange:    "range",
	UpgradeDamage:   "damage",
}

func (u UpgradeKind) String() string {
	if u < 0 || u >= UpgradeCount {
		return "unknown"
	}
	return upgradeNames[u]
}

// ParseUpgradeKind accepts the wire names plus the legacy "cooldown" alias.
func ParseUpgradeKind(name string) (UpgradeKind, bool) {
	switch strings.TrimSpace(name) {
	case "cooldown", "firerate", "fire-rate":
		return UpgradeFireRate, true
	}
	for i, n := range upgradeNames {
		if n == name {
			return UpgradeKind(i), true
		}
	}
	return 0, false
}

// PickupKind distinguishes the two consumable pickups.
type PickupKind int

const (
	PickupHealth PickupKind = iota
	PickupCurrency
)

func (p PickupKind) String() string {
	switch p {
	case PickupHealth:
		return "health"
	case PickupCurrency:
		return "currency"
	}
	return "unknown"
}

// BossState is the boss AI state reported to clients.
type BossState int

const (
	BossSeeking BossState = iota
	BossPursuing
	BossAttacking
)

func (s BossState) String() string {
	switch s {
	case BossSeeking:
		return "seeking"
	case BossPursuing:
		return "pursuing"
	case BossAttacking:
		return "attacking"
	}
	return "unknown"
}
