package accounts

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/bcrypt"
)

var identityPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,24}$`)

// Backend persists encoded profile records by key.
type Backend interface {
	// Load returns nil data without error when the key does not exist.
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

type record struct {
	Profile    Profile `msgpack:"profile"`
	SecretHash []byte  `msgpack:"secretHash"`
}

// Store is the account store: profiles keyed by identity, cached in memory
// and written through to an optional Backend.
type Store struct {
	mu       sync.Mutex
	records  map[string]*record
	backend  Backend
	hashCost int
	now      func() time.Time

	// bcrypt, replaceable in tests
	generate func(secret []byte, cost int) ([]byte, error)
	compare  func(hash, secret []byte) error
}

// NewStore creates a store. A nil backend keeps profiles in memory only.
func NewStore(backend Backend) *Store {
	return &Store{
		records:  make(map[string]*record),
		backend:  backend,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		generate: bcrypt.GenerateFromPassword,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// SetHashCost overrides the bcrypt cost for new secrets.
func (s *Store) SetHashCost(cost int) {
	s.mu.Lock()
	s.hashCost = cost
	s.mu.Unlock()
}

// Register creates a profile with zeroed economy. The secret is hashed
// before the store lock is taken.
func (s *Store) Register(ctx context.Context, identity, secret string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	identity = strings.TrimSpace(identity)
	if !identityPattern.MatchString(identity) || secret == "" {
		return Profile{}, ErrInvalidIdentity
	}

	s.mu.Lock()
	cost := s.hashCost
	s.mu.Unlock()

	hash, err := s.generate([]byte(secret), cost)
	if err != nil {
		return Profile{}, fmt.Errorf("hash secret: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.lookupLocked(identity)
	if err != nil {
		return Profile{}, err
	}
	if existing != nil {
		return Profile{}, ErrConflict
	}

	rec := &record{
		Profile: Profile{
			ID:        uuid.NewString(),
			Username:  identity,
			CreatedAt: s.now().UTC(),
		},
		SecretHash: hash,
	}
	if err := s.saveLocked(rec); err != nil {
		return Profile{}, err
	}
	s.records[key(identity)] = rec

	log.Printf("[accounts] registered %q (id=%s)", identity, rec.Profile.ID)
	return rec.Profile, nil
}

// Authenticate checks a secret. Unknown identities and wrong secrets both
// report ErrNotFound.
func (s *Store) Authenticate(ctx context.Context, identity, secret string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	rec, err := s.lookupLocked(strings.TrimSpace(identity))
	var (
		profile Profile
		hash    []byte
	)
	if rec != nil {
		profile, hash = rec.Profile, rec.SecretHash
	}
	s.mu.Unlock()

	if err != nil {
		return Profile{}, err
	}
	if rec == nil {
		return Profile{}, ErrNotFound
	}
	if s.compare(hash, []byte(secret)) != nil {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

// Profile returns the profile for identity.
func (s *Store) Profile(ctx context.Context, identity string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookupLocked(strings.TrimSpace(identity))
	if err != nil {
		return Profile{}, err
	}
	if rec == nil {
		return Profile{}, ErrNotFound
	}
	return rec.Profile, nil
}

// IncrementField adds delta to a field when its current value is at least
// guardMinimum, and returns the new value. Values never drop below zero.
func (s *Store) IncrementField(ctx context.Context, identity string, field Field, delta, guardMinimum int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookupLocked(strings.TrimSpace(identity))
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, ErrNotFound
	}

	updated := rec.Profile
	ptr := updated.field(field)
	if ptr == nil {
		return 0, ErrInvalidField
	}
	if *ptr < guardMinimum || *ptr+delta < 0 {
		return *ptr, ErrInsufficientFunds
	}
	*ptr += delta

	next := &record{Profile: updated, SecretHash: rec.SecretHash}
	if err := s.saveLocked(next); err != nil {
		return 0, err
	}
	*rec = *next
	return *ptr, nil
}

// SetField overwrites a field.
func (s *Store) SetField(ctx context.Context, identity string, field Field, value int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value < 0 {
		return ErrInvalidField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookupLocked(strings.TrimSpace(identity))
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}

	updated := rec.Profile
	ptr := updated.field(field)
	if ptr == nil {
		return ErrInvalidField
	}
	*ptr = value

	next := &record{Profile: updated, SecretHash: rec.SecretHash}
	if err := s.saveLocked(next); err != nil {
		return err
	}
	*rec = *next
	return nil
}

// Count returns the number of profiles cached in memory.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) lookupLocked(identity string) (*record, error) {
	k := key(identity)
	if rec, ok := s.records[k]; ok {
		return rec, nil
	}
	if s.backend == nil || identity == "" {
		return nil, nil
	}

	data, err := s.backend.Load(k)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", identity, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", identity, err)
	}
	s.records[k] = &rec
	return &rec, nil
}

func (s *Store) saveLocked(rec *record) error {
	if s.backend == nil {
		return nil
	}
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.backend.Save(key(rec.Profile.Username), data); err != nil {
		return fmt.Errorf("save profile %q: %w", rec.Profile.Username, err)
	}
	return nil
}

// key maps an identity to a filesystem-safe, case-insensitive item key.
func key(identity string) string {
	return "profile_" + hex.EncodeToString([]byte(strings.ToLower(identity)))
}
