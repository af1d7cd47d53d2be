package protocol

import (
	"fmt"

	"github.com/automoto/tank-arena/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition   uint = 10
	SyncIDNetVelocity   uint = 11
	SyncIDNetTank       uint = 12
	SyncIDNetProjectile uint = 13
	SyncIDNetBoss       uint = 14
	SyncIDNetObstacle   uint = 15
	SyncIDNetPickup     uint = 16
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
	InterpIDNetVelocity uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Position and velocity interpolate for smooth client-side rendering
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		netcomponents.NetPositionData{},
		netcomponents.NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, netcomponents.LerpNetPosition),
	); err != nil {
		return fmt.Errorf("register position: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetVelocity,
		netcomponents.NetVelocityData{},
		netcomponents.NetVelocity,
		esync.WithInterpFn(InterpIDNetVelocity, netcomponents.LerpNetVelocity),
	); err != nil {
		return fmt.Errorf("register velocity: %w", err)
	}

	// Discrete state: no interpolation
	if err := esync.RegisterComponent(
		SyncIDNetTank,
		netcomponents.NetTankData{},
		netcomponents.NetTank,
	); err != nil {
		return fmt.Errorf("register tank: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetProjectile,
		netcomponents.NetProjectileData{},
		netcomponents.NetProjectile,
	); err != nil {
		return fmt.Errorf("register projectile: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetBoss,
		netcomponents.NetBossData{},
		netcomponents.NetBoss,
	); err != nil {
		return fmt.Errorf("register boss: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetObstacle,
		netcomponents.NetObstacleData{},
		netcomponents.NetObstacle,
	); err != nil {
		return fmt.Errorf("register obstacle: %w", err)
	}

	if err := esync.RegisterComponent(
		SyncIDNetPickup,
		netcomponents.NetPickupData{},
		netcomponents.NetPickup,
	); err != nil {
		return fmt.Errorf("register pickup: %w", err)
	}

	return nil
}
