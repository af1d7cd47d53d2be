package core

import (
	"testing"

	"github.com/automoto/tank-arena/shared/messages"
)

func drain(f *fakeConn) []any {
	var out []any
	for {
		select {
		case msg := <-f.sendCh:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func countType[T any](msgs []any) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

func TestFlushSendsOnlyDirtyCategories(t *testing.T) {
	w, _, _ := newTestWorld(t, quietSettings())
	b := NewBroadcaster()
	conn := newFakeConn()
	b.Add("p1", conn)
	joinAt(t, w, "p1", 100, 100)

	b.Flush(w)
	first := drain(conn)
	if countType[messages.PlayersSnapshot](first) != 1 {
		t.Errorf("join not broadcast: %v", first)
	}
	if countType[messages.ProjectilesSnapshot](first) != 1 {
		t.Errorf("projectiles not broadcast: %v", first)
	}

	b.Flush(w)
	second := drain(conn)
	if countType[messages.PlayersSnapshot](second) != 0 {
		t.Errorf("unchanged players re-sent")
	}
	if countType[messages.ProjectilesSnapshot](second) != 1 {
		t.Errorf("projectiles skipped on a quiet tick")
	}
	if countType[messages.BossSnapshot](second) != 0 {
		t.Errorf("boss sent with no boss alive")
	}

	w.spawnBoss(1000, 1000)
	b.Flush(w)
	b.Flush(w)
	if got := countType[messages.BossSnapshot](drain(conn)); got != 2 {
		t.Errorf("boss snapshots = %d, want one per flush while alive", got)
	}
}

func TestSendToUnknownSessionIsNoop(t *testing.T) {
	b := NewBroadcaster()
	conn := newFakeConn()
	b.Add("s1", conn)
	b.SendTo("ghost", messages.PongProbe{})
	if got := len(drain(conn)); got != 0 {
		t.Fatalf("registered session received %d messages", got)
	}
}
