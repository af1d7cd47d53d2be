package messages

// Wire type names used by the JSON gateway envelope.
const (
	TypeJoin      = "join"
	TypeMove      = "move"
	TypeFire      = "fire"
	TypeRespawn   = "respawn"
	TypeUpgrade   = "upgrade"
	TypePingProbe = "pingProbe"
)

// MoveIntent asks the server to place the sender's tank at X, Y (top-left).
type MoveIntent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (MoveIntent) MessageType() string { return TypeMove }

// FireIntent asks the server to spawn a projectile. The velocity only carries
// the aim direction; the server applies its own projectile speed.
type FireIntent struct {
	OriginX   float64 `json:"originX"`
	OriginY   float64 `json:"originY"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
}

func (FireIntent) MessageType() string { return TypeFire }

// RespawnIntent revives a dead tank.
type RespawnIntent struct{}

func (RespawnIntent) MessageType() string { return TypeRespawn }

// UpgradeIntent requests one level of a named stat ("speed", "fireRate",
// "range", "damage").
type UpgradeIntent struct {
	Stat string `json:"stat"`
}

func (UpgradeIntent) MessageType() string { return TypeUpgrade }

// PingProbe is echoed back as a PongProbe to the sender only.
type PingProbe struct {
	ClientTime int64 `json:"clientTime"` // Client timestamp (Unix ms)
}

func (PingProbe) MessageType() string { return TypePingProbe }
