package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/automoto/tank-arena/shared/netconfig"
	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML document at path onto base. Fields missing from
// the document keep their base values; a vehicle entry replaces the whole
// class.
func LoadFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, base)
}

// Parse overlays a YAML document onto base and validates the result.
func Parse(data []byte, base Settings) (Settings, error) {
	out := base
	out.Vehicles = make(map[netconfig.VehicleClass]VehicleConfig, len(base.Vehicles))
	for k, v := range base.Vehicles {
		out.Vehicles[k] = v
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("decode config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}

// Validate rejects settings the simulation cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Arena.Size > 0, "arena.size must be positive, got %v", s.Arena.Size)
	check(s.Arena.TickRate > 0, "arena.tickRate must be positive, got %d", s.Arena.TickRate)
	check(s.Arena.SpawnInterval > 0, "arena.spawnInterval must be positive, got %s", s.Arena.SpawnInterval)
	check(s.Arena.CellSize > 0, "arena.cellSize must be positive, got %d", s.Arena.CellSize)

	_, ok := s.Vehicles[s.Player.DefaultVehicle]
	check(ok, "player.defaultVehicle %s has no vehicle entry", s.Player.DefaultVehicle)
	for class, v := range s.Vehicles {
		check(v.Health > 0, "vehicles.%s.health must be positive", class)
		check(v.Damage >= 0, "vehicles.%s.damage must not be negative", class)
		check(v.FireCooldown >= 0, "vehicles.%s.fireCooldown must not be negative", class)
	}

	check(s.Player.Width > 0 && s.Player.Height > 0, "player footprint must be positive")
	check(s.Player.Width < s.Arena.Size && s.Player.Height < s.Arena.Size, "player footprint must fit in the arena")
	check(s.Projectile.Speed > 0, "projectile.speed must be positive")
	check(s.Projectile.Size > 0, "projectile.size must be positive")
	check(s.Upgrade.Cost >= 0, "upgrade.cost must not be negative")
	check(s.Upgrade.MaxLevel >= 0, "upgrade.maxLevel must not be negative")
	check(s.Obstacle.Count >= 0, "obstacle.count must not be negative")
	check(s.Obstacle.MinSize > 0 && s.Obstacle.MaxSize >= s.Obstacle.MinSize, "obstacle sizes must satisfy 0 < minSize <= maxSize")
	check(s.Obstacle.HitPoints > 0, "obstacle.hitPoints must be positive")
	check(s.Pickup.Size > 0, "pickup.size must be positive")
	check(s.Pickup.HealthCap >= 0 && s.Pickup.CurrencyCap >= 0, "pickup caps must not be negative")
	check(s.Pickup.CurrencyMax >= s.Pickup.CurrencyMin, "pickup.currencyMax must be >= currencyMin")
	check(s.Boss.Size > 0 && s.Boss.Size < s.Arena.Size, "boss.size must fit in the arena")
	check(s.Boss.Health > 0, "boss.health must be positive")
	check(s.Boss.SpawnChance >= 0 && s.Boss.SpawnChance <= 1, "boss.spawnChance must be within [0,1]")
	check(2*s.Boss.EdgeMargin+s.Boss.Size < s.Arena.Size, "boss.edgeMargin leaves no room to spawn")
	check(s.Economy.QueueSize > 0, "economy.queueSize must be positive")
	check(s.Net.OutboxSize > 0 && s.Net.InboxSize > 0, "net queue sizes must be positive")

	return errors.Join(errs...)
}
