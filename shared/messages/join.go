package messages

// JoinRequest is sent by a client after connecting to request joining the game.
// An empty Vehicle selects the class saved on the profile.
type JoinRequest struct {
	Version  string `json:"version"`
	Username string `json:"username"`
	Password string `json:"password"`
	Vehicle  string `json:"vehicle"`
	Image    string `json:"image,omitempty"`
}

func (JoinRequest) MessageType() string { return TypeJoin }

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	SessionID  string  `json:"sessionId"`
	ServerName string  `json:"serverName"`
	ArenaSize  float64 `json:"arenaSize"`
	TickRate   int     `json:"tickRate"`
}

func (JoinAccepted) MessageType() string { return "joinAccepted" }

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string `json:"reason"`
}

func (JoinRejected) MessageType() string { return "joinRejected" }
