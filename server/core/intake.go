package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/shared/messages"
	"github.com/automoto/tank-arena/shared/netconfig"
)

// Intake turns decoded client messages into loop commands. It runs on
// connection goroutines and never touches the World directly.
type Intake struct {
	loop     *GameLoop
	accounts Accounts
	timeout  time.Duration
	version  string
}

// NewIntake creates an intake. An empty version accepts any client.
func NewIntake(loop *GameLoop, store Accounts, timeout time.Duration, version string) *Intake {
	return &Intake{
		loop:     loop,
		accounts: store,
		timeout:  timeout,
		version:  version,
	}
}

// Dispatch routes one decoded message from a session.
func (in *Intake) Dispatch(ctx context.Context, sessionID string, conn Conn, msg any) {
	switch m := msg.(type) {
	case messages.JoinRequest:
		in.Join(ctx, sessionID, conn, m)
	case messages.MoveIntent:
		in.loop.Submit(MoveCommand{SessionID: sessionID, X: m.X, Y: m.Y})
	case messages.FireIntent:
		in.loop.Submit(FireCommand{SessionID: sessionID, Intent: m})
	case messages.RespawnIntent:
		in.loop.Submit(RespawnCommand{SessionID: sessionID})
	case messages.UpgradeIntent:
		in.loop.Submit(UpgradeCommand{SessionID: sessionID, Stat: m.Stat})
	case messages.PingProbe:
		in.loop.Submit(PingCommand{Conn: conn, Probe: m})
	default:
		log.Printf("[intake] %s sent unexpected %T", sessionID, msg)
	}
}

// Join authenticates the username and password against the account store
// and submits the join. Rejections are sent straight to conn.
func (in *Intake) Join(ctx context.Context, sessionID string, conn Conn, req messages.JoinRequest) {
	reject := func(reason string) {
		if err := conn.Send(messages.JoinRejected{Reason: reason}); err != nil {
			log.Printf("[intake] reject %s failed: %v", sessionID, err)
		}
	}

	if in.version != "" && req.Version != in.version {
		reject("version mismatch: server requires " + in.version)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		reject("username required")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()
	profile, err := in.accounts.Authenticate(ctx, username, req.Password)
	switch {
	case errors.Is(err, accounts.ErrNotFound), errors.Is(err, accounts.ErrInvalidIdentity):
		reject("invalid credentials")
		return
	case err != nil:
		log.Printf("[intake] profile lookup for %q failed: %v", username, err)
		reject("account store unavailable")
		return
	}

	vehicle, ok := netconfig.ParseVehicleClass(req.Vehicle)
	if !ok {
		vehicle = savedVehicle(profile)
	}

	in.loop.Submit(JoinCommand{
		SessionID: sessionID,
		Conn:      conn,
		Profile:   profile,
		Vehicle:   vehicle,
		Image:     req.Image,
	})
}

// savedVehicle returns the class stored on the profile, or VehicleCount
// (the default class) when none is saved.
func savedVehicle(p accounts.Profile) netconfig.VehicleClass {
	if p.Vehicle < 1 || p.Vehicle > int(netconfig.VehicleCount) {
		return netconfig.VehicleCount
	}
	return netconfig.VehicleClass(p.Vehicle - 1)
}

// Leave submits the disconnect of a session.
func (in *Intake) Leave(sessionID string) {
	in.loop.Submit(LeaveCommand{SessionID: sessionID})
}
