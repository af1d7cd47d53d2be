package messages

// PlayerView is the client-facing state of one tank.
type PlayerView struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Health        int     `json:"health"`
	MaxHealth     int     `json:"maxHealth"`
	Alive         bool    `json:"alive"`
	Vehicle       string  `json:"vehicle"`
	Image         string  `json:"image,omitempty"`
	Speed         float64 `json:"speed"`
	Currency      int     `json:"currency"`
	Score         int     `json:"score"`
	SpeedLevel    int     `json:"speedLevel"`
	FireRateLevel int     `json:"fireRateLevel"`
	RangeLevel    int     `json:"rangeLevel"`
	DamageLevel   int     `json:"damageLevel"`
}

type ProjectileView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	OwnerID  string  `json:"owner"`
	FromBoss bool    `json:"fromBoss"`
}

type ObstacleView struct {
	ID           int     `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	W            float64 `json:"w"`
	H            float64 `json:"h"`
	HitPoints    int     `json:"hitPoints"`
	MaxHitPoints int     `json:"maxHitPoints"`
	Destroyed    bool    `json:"destroyed"`
}

type PickupView struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Reward int     `json:"reward,omitempty"`
}

type BossView struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	State     string  `json:"state"`
	TargetID  string  `json:"target,omitempty"`
}

// PlayersSnapshot carries every tank keyed by session id.
type PlayersSnapshot struct {
	Players map[string]PlayerView `json:"players"`
}

func (PlayersSnapshot) MessageType() string { return "players" }

type ProjectilesSnapshot struct {
	Projectiles []ProjectileView `json:"projectiles"`
}

func (ProjectilesSnapshot) MessageType() string { return "projectiles" }

type ObstaclesSnapshot struct {
	Obstacles []ObstacleView `json:"obstacles"`
}

func (ObstaclesSnapshot) MessageType() string { return "obstacles" }

type HealthPickupsSnapshot struct {
	Pickups []PickupView `json:"pickups"`
}

func (HealthPickupsSnapshot) MessageType() string { return "healthPickups" }

type CurrencyPickupsSnapshot struct {
	Pickups []PickupView `json:"pickups"`
}

func (CurrencyPickupsSnapshot) MessageType() string { return "currencyPickups" }

// BossSnapshot carries the boss, or nil when none exists.
type BossSnapshot struct {
	Boss *BossView `json:"boss"`
}

func (BossSnapshot) MessageType() string { return "boss" }
