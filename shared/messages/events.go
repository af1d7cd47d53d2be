package messages

// PongProbe answers a PingProbe.
type PongProbe struct {
	ClientTime int64 `json:"clientTime"`
	ServerTime int64 `json:"serverTime"`
}

func (PongProbe) MessageType() string { return "pongProbe" }

// UpgradeResult answers an UpgradeIntent.
type UpgradeResult struct {
	Stat     string `json:"stat"`
	OK       bool   `json:"ok"`
	Level    int    `json:"level"`
	Currency int    `json:"currency"`
	Reason   string `json:"reason,omitempty"`
}

func (UpgradeResult) MessageType() string { return "upgradeResult" }

// BossDefeatedEvent is broadcast when the boss dies, at its last centre.
type BossDefeatedEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (BossDefeatedEvent) MessageType() string { return "bossDefeated" }
