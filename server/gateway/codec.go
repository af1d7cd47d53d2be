package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/automoto/tank-arena/shared/messages"
)

// envelope is the JSON frame used in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type typedMessage interface {
	MessageType() string
}

// Encode wraps an outbound message in its envelope.
func Encode(msg any) ([]byte, error) {
	tm, ok := msg.(typedMessage)
	if !ok {
		return nil, fmt.Errorf("encode: %T has no message type", msg)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", tm.MessageType(), err)
	}
	return json.Marshal(envelope{Type: tm.MessageType(), Data: data})
}

// Decode parses an inbound envelope into one of the client intents.
func Decode(payload []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case messages.TypeJoin:
		return decodeData[messages.JoinRequest](env)
	case messages.TypeMove:
		return decodeData[messages.MoveIntent](env)
	case messages.TypeFire:
		return decodeData[messages.FireIntent](env)
	case messages.TypeRespawn:
		return messages.RespawnIntent{}, nil
	case messages.TypeUpgrade:
		return decodeData[messages.UpgradeIntent](env)
	case messages.TypePingProbe:
		return decodeData[messages.PingProbe](env)
	}
	return nil, fmt.Errorf("decode: unknown message type %q", env.Type)
}

func decodeData[T any](env envelope) (any, error) {
	var v T
	if len(env.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return v, nil
}
