package core

import (
	"sync"
	"testing"

	"github.com/leap-fish/necs/router"
)

func TestServerSessionCreatedOnce(t *testing.T) {
	s := &Server{
		outboxSize: 4,
		sessions:   make(map[*router.NetworkClient]*necsConn),
	}
	client := &router.NetworkClient{}

	// a message dispatched before the connect callback must find the same
	// session the callback later sees
	first := s.session(client)

	var wg sync.WaitGroup
	got := make([]*necsConn, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = s.session(client)
		}()
	}
	wg.Wait()

	for i, c := range got {
		if c != first {
			t.Errorf("call %d returned a new session", i)
		}
	}
	if len(s.sessions) != 1 {
		t.Errorf("sessions = %d, want 1", len(s.sessions))
	}
	_ = first.Close()
}
