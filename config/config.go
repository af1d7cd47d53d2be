package config

import (
	"time"

	"github.com/automoto/tank-arena/shared/netconfig"
)

// ArenaConfig contains world-level configuration values
type ArenaConfig struct {
	Size          float64       `yaml:"size"`          // side length of the square arena
	TickRate      int           `yaml:"tickRate"`      // simulation ticks per second
	SpawnInterval time.Duration `yaml:"spawnInterval"` // spawn director period
	CellSize      int           `yaml:"cellSize"`      // collision space cell size
	MapFile       string        `yaml:"mapFile"`       // optional TMX layout, empty = random obstacles
	Seed          int64         `yaml:"seed"`          // 0 = seeded from the clock
}

// VehicleConfig contains the base stats of one vehicle class
type VehicleConfig struct {
	Speed        float64       `yaml:"speed"`
	Damage       int           `yaml:"damage"`
	Health       int           `yaml:"health"`
	FireCooldown time.Duration `yaml:"fireCooldown"`
	UnlockScore  int           `yaml:"unlockScore"` // profile score required to join with this class
}

// PlayerConfig contains player footprint and spawn configuration
type PlayerConfig struct {
	Width               float64                `yaml:"width"`
	Height              float64                `yaml:"height"`
	DefaultVehicle      netconfig.VehicleClass `yaml:"defaultVehicle"`
	SpawnAttempts       int                    `yaml:"spawnAttempts"`
	FireOriginTolerance float64                `yaml:"fireOriginTolerance"` // max distance of a fire origin from the tank centre
}

// ProjectileConfig contains player projectile configuration
type ProjectileConfig struct {
	Speed     float64 `yaml:"speed"` // units per tick
	Size      float64 `yaml:"size"`
	BaseRange float64 `yaml:"baseRange"`
}

// UpgradeConfig contains the per-level effect and cost of stat upgrades
type UpgradeConfig struct {
	Cost             int           `yaml:"cost"`
	MaxLevel         int           `yaml:"maxLevel"`
	SpeedStep        float64       `yaml:"speedStep"`
	FireCooldownStep time.Duration `yaml:"fireCooldownStep"`
	MinFireCooldown  time.Duration `yaml:"minFireCooldown"`
	RangeStep        float64       `yaml:"rangeStep"`
	DamageStep       int           `yaml:"damageStep"`
}

// ObstacleConfig contains destructible terrain configuration
type ObstacleConfig struct {
	Count        int           `yaml:"count"`
	MinSize      float64       `yaml:"minSize"`
	MaxSize      float64       `yaml:"maxSize"`
	HitPoints    int           `yaml:"hitPoints"`
	RespawnDelay time.Duration `yaml:"respawnDelay"`
	SpawnMargin  float64       `yaml:"spawnMargin"`
}

// PickupConfig contains health and currency pickup configuration
type PickupConfig struct {
	Size        float64 `yaml:"size"`
	HealthCap   int     `yaml:"healthCap"`
	HealAmount  int     `yaml:"healAmount"`
	CurrencyCap int     `yaml:"currencyCap"`
	CurrencyMin int     `yaml:"currencyMin"`
	CurrencyMax int     `yaml:"currencyMax"`
}

// RewardConfig contains kill rewards
type RewardConfig struct {
	KillCurrency int `yaml:"killCurrency"`
	KillScore    int `yaml:"killScore"`
}

// BossConfig contains boss constants and spawn gating
type BossConfig struct {
	Size            float64       `yaml:"size"`
	Health          int           `yaml:"health"`
	Speed           float64       `yaml:"speed"`
	Damage          int           `yaml:"damage"`
	FireCooldown    time.Duration `yaml:"fireCooldown"`
	ProjectileSpeed float64       `yaml:"projectileSpeed"`
	ProjectileRange float64       `yaml:"projectileRange"`
	AcquireRadius   float64       `yaml:"acquireRadius"`
	AttackRadius    float64       `yaml:"attackRadius"`
	RewardRadius    float64       `yaml:"rewardRadius"`
	RewardCurrency  int           `yaml:"rewardCurrency"`
	RewardScore     int           `yaml:"rewardScore"`
	SpawnChance     float64       `yaml:"spawnChance"` // per spawn interval
	SpawnAfter      time.Duration `yaml:"spawnAfter"`  // forced spawn once this long without a boss
	EdgeMargin      float64       `yaml:"edgeMargin"`
}

// EconomyConfig contains account store write-behind configuration
type EconomyConfig struct {
	QueueSize      int           `yaml:"queueSize"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// NetConfig contains connection configuration
type NetConfig struct {
	OutboxSize int `yaml:"outboxSize"`
	InboxSize  int `yaml:"inboxSize"`
}

// Settings groups every tunable read once at startup.
type Settings struct {
	Arena      ArenaConfig                             `yaml:"arena"`
	Vehicles   map[netconfig.VehicleClass]VehicleConfig `yaml:"vehicles"`
	Player     PlayerConfig                            `yaml:"player"`
	Projectile ProjectileConfig                        `yaml:"projectile"`
	Upgrade    UpgradeConfig                           `yaml:"upgrade"`
	Obstacle   ObstacleConfig                          `yaml:"obstacle"`
	Pickup     PickupConfig                            `yaml:"pickup"`
	Reward     RewardConfig                            `yaml:"reward"`
	Boss       BossConfig                              `yaml:"boss"`
	Economy    EconomyConfig                           `yaml:"economy"`
	Net        NetConfig                               `yaml:"net"`
}

// Vehicle returns the stats for class, falling back to the default class.
func (s *Settings) Vehicle(class netconfig.VehicleClass) VehicleConfig {
	if v, ok := s.Vehicles[class]; ok {
		return v
	}
	return s.Vehicles[s.Player.DefaultVehicle]
}

// TickInterval is the wall-clock duration of one simulation tick.
func (s *Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.Arena.TickRate)
}

// Default returns the stock tuning.
func Default() Settings {
	return Settings{
		Arena: ArenaConfig{
			Size:          2000,
			TickRate:      60,
			SpawnInterval: 5 * time.Second,
			CellSize:      32,
		},
		Vehicles: map[netconfig.VehicleClass]VehicleConfig{
			netconfig.VehicleLight: {
				Speed:        5,
				Damage:       15,
				Health:       80,
				FireCooldown: 400 * time.Millisecond,
				UnlockScore:  0,
			},
			netconfig.VehicleMedium: {
				Speed:        4,
				Damage:       20,
				Health:       100,
				FireCooldown: 600 * time.Millisecond,
				UnlockScore:  0,
			},
			netconfig.VehicleHeavy: {
				Speed:        3,
				Damage:       35,
				Health:       150,
				FireCooldown: 900 * time.Millisecond,
				UnlockScore:  500,
			},
		},
		Player: PlayerConfig{
			Width:               30,
			Height:              30,
			DefaultVehicle:      netconfig.VehicleMedium,
			SpawnAttempts:       50,
			FireOriginTolerance: 60,
		},
		Projectile: ProjectileConfig{
			Speed:     10,
			Size:      6,
			BaseRange: 800,
		},
		Upgrade: UpgradeConfig{
			Cost:             100,
			MaxLevel:         10,
			SpeedStep:        0.8,
			FireCooldownStep: 50 * time.Millisecond,
			MinFireCooldown:  150 * time.Millisecond,
			RangeStep:        100,
			DamageStep:       5,
		},
		Obstacle: ObstacleConfig{
			Count:        30,
			MinSize:      40,
			MaxSize:      80,
			HitPoints:    3,
			RespawnDelay: 15 * time.Second,
			SpawnMargin:  60,
		},
		Pickup: PickupConfig{
			Size:        20,
			HealthCap:   20,
			HealAmount:  40,
			CurrencyCap: 15,
			CurrencyMin: 5,
			CurrencyMax: 25,
		},
		Reward: RewardConfig{
			KillCurrency: 10,
			KillScore:    10,
		},
		Boss: BossConfig{
			Size:            80,
			Health:          500,
			Speed:           2,
			Damage:          25,
			FireCooldown:    1500 * time.Millisecond,
			ProjectileSpeed: 7,
			ProjectileRange: 700,
			AcquireRadius:   600,
			AttackRadius:    450,
			RewardRadius:    400,
			RewardCurrency:  100,
			RewardScore:     50,
			SpawnChance:     0.05,
			SpawnAfter:      5 * time.Minute,
			EdgeMargin:      200,
		},
		Economy: EconomyConfig{
			QueueSize:      1024,
			RequestTimeout: 5 * time.Second,
		},
		Net: NetConfig{
			OutboxSize: 256,
			InboxSize:  1024,
		},
	}
}
