package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type memBackend struct {
	mu    sync.Mutex
	items map[string][]byte
	saves int
}

func newMemBackend() *memBackend {
	return &memBackend{items: make(map[string][]byte)}
}

func (b *memBackend) Load(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items[key], nil
}

func (b *memBackend) Save(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[key] = append([]byte(nil), data...)
	b.saves++
	return nil
}

func newTestStore(backend Backend) *Store {
	s := NewStore(backend)
	s.SetHashCost(bcrypt.MinCost)
	return s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)

	p, err := s.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.ID == "" || p.Username != "alice" || p.Currency != 0 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := s.Register(ctx, "ALICE", "x"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate register err = %v, want ErrConflict", err)
	}
	if _, err := s.Register(ctx, "a b", "x"); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("bad identity err = %v, want ErrInvalidIdentity", err)
	}

	got, err := s.Authenticate(ctx, "alice", "hunter2")
	if err != nil || got.ID != p.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := s.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong secret err = %v, want ErrNotFound", err)
	}
	if _, err := s.Authenticate(ctx, "bob", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown identity err = %v, want ErrNotFound", err)
	}
}

func TestIncrementFieldGuard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	if _, err := s.Register(ctx, "carol", "pw"); err != nil {
		t.Fatal(err)
	}

	v, err := s.IncrementField(ctx, "carol", FieldCurrency, 150, 0)
	if err != nil || v != 150 {
		t.Fatalf("credit = %d, %v", v, err)
	}

	v, err = s.IncrementField(ctx, "carol", FieldCurrency, -100, 100)
	if err != nil || v != 50 {
		t.Fatalf("debit = %d, %v", v, err)
	}

	v, err = s.IncrementField(ctx, "carol", FieldCurrency, -100, 100)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("guarded debit err = %v, want ErrInsufficientFunds", err)
	}
	if v != 50 {
		t.Errorf("value after failed debit = %d, want 50", v)
	}

	if _, err := s.IncrementField(ctx, "carol", Field("gold"), 1, 0); !errors.Is(err, ErrInvalidField) {
		t.Errorf("unknown field err = %v, want ErrInvalidField", err)
	}
	if _, err := s.IncrementField(ctx, "nobody", FieldCurrency, 1, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown identity err = %v, want ErrNotFound", err)
	}

	p, _ := s.Profile(ctx, "carol")
	if p.Currency != 50 {
		t.Errorf("profile currency = %d, want 50", p.Currency)
	}
}

func TestSetField(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	if _, err := s.Register(ctx, "dave", "pw"); err != nil {
		t.Fatal(err)
	}

	if err := s.SetField(ctx, "dave", FieldVehicle, 2); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if err := s.SetField(ctx, "dave", FieldScore, -1); !errors.Is(err, ErrInvalidField) {
		t.Errorf("negative set err = %v, want ErrInvalidField", err)
	}

	p, _ := s.Profile(ctx, "dave")
	if p.Vehicle != 2 {
		t.Errorf("vehicle = %d, want 2", p.Vehicle)
	}
}

func TestStorePersistsThroughBackend(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()

	s := newTestStore(backend)
	if _, err := s.Register(ctx, "erin", "pw"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.IncrementField(ctx, "erin", FieldScore, 30, 0); err != nil {
		t.Fatal(err)
	}
	if backend.saves != 2 {
		t.Errorf("saves = %d, want 2", backend.saves)
	}

	reopened := newTestStore(backend)
	p, err := reopened.Profile(ctx, "Erin")
	if err != nil {
		t.Fatalf("Profile after reopen: %v", err)
	}
	if p.Score != 30 || p.Username != "erin" {
		t.Errorf("reloaded profile = %+v", p)
	}
	if _, err := reopened.Authenticate(ctx, "erin", "pw"); err != nil {
		t.Errorf("Authenticate after reopen: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestStore(nil)
	if _, err := s.Profile(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// holdCompare makes the store's password check block until release is
// closed, reporting on entered once it starts.
func holdCompare(s *Store) (entered, release chan struct{}) {
	entered, release = make(chan struct{}), make(chan struct{})
	orig := s.compare
	s.compare = func(hash, secret []byte) error {
		close(entered)
		<-release
		return orig(hash, secret)
	}
	return entered, release
}

func TestPasswordCheckDoesNotBlockProfileReads(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	if _, err := s.Register(ctx, "jude", "pw"); err != nil {
		t.Fatal(err)
	}
	entered, release := holdCompare(s)

	authDone := make(chan error, 1)
	go func() {
		_, err := s.Authenticate(ctx, "jude", "pw")
		authDone <- err
	}()
	<-entered

	readDone := make(chan error, 1)
	go func() {
		_, err := s.IncrementField(ctx, "jude", FieldScore, 5, 0)
		if err == nil {
			_, err = s.Profile(ctx, "jude")
		}
		readDone <- err
	}()

	select {
	case err := <-readDone:
		if err != nil {
			t.Fatalf("store call during password check: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("store calls blocked behind a password check")
	}

	close(release)
	if err := <-authDone; err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}

func TestRegisterHashesOutsideTheLock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	if _, err := s.Register(ctx, "kim", "pw"); err != nil {
		t.Fatal(err)
	}

	entered, release := make(chan struct{}), make(chan struct{})
	orig := s.generate
	s.generate = func(secret []byte, cost int) ([]byte, error) {
		close(entered)
		<-release
		return orig(secret, cost)
	}

	regDone := make(chan error, 1)
	go func() {
		_, err := s.Register(ctx, "lee", "pw")
		regDone <- err
	}()
	<-entered

	readDone := make(chan error, 1)
	go func() {
		_, err := s.Profile(ctx, "kim")
		readDone <- err
	}()
	select {
	case err := <-readDone:
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("Profile blocked behind password hashing")
	}

	close(release)
	if err := <-regDone; err != nil {
		t.Fatalf("Register: %v", err)
	}
}
