package gateway

import (
	"encoding/json"
	"testing"

	"github.com/automoto/tank-arena/shared/messages"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    any
		wantErr bool
	}{
		{"join", `{"type":"join","data":{"username":"bob","vehicle":"light"}}`, messages.JoinRequest{Username: "bob", Vehicle: "light"}, false},
		{"move", `{"type":"move","data":{"x":10,"y":20}}`, messages.MoveIntent{X: 10, Y: 20}, false},
		{"fire", `{"type":"fire","data":{"originX":1,"originY":2,"velocityX":3,"velocityY":4}}`, messages.FireIntent{OriginX: 1, OriginY: 2, VelocityX: 3, VelocityY: 4}, false},
		{"respawn without data", `{"type":"respawn"}`, messages.RespawnIntent{}, false},
		{"upgrade", `{"type":"upgrade","data":{"stat":"range"}}`, messages.UpgradeIntent{Stat: "range"}, false},
		{"ping", `{"type":"pingProbe","data":{"clientTime":99}}`, messages.PingProbe{ClientTime: 99}, false},
		{"unknown type", `{"type":"teleport"}`, nil, true},
		{"bad json", `{"type":`, nil, true},
		{"bad data", `{"type":"move","data":{"x":"left"}}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEncodeWrapsType(t *testing.T) {
	data, err := Encode(messages.BossSnapshot{})
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Type string `json:"type"`
		Data struct {
			Boss *messages.BossView `json:"boss"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "boss" || env.Data.Boss != nil {
		t.Errorf("envelope = %s", data)
	}

	if _, err := Encode(struct{}{}); err == nil {
		t.Error("untyped message encoded")
	}
}
