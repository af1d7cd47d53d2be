package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/automoto/tank-arena/accounts"
)

// Accounts is the account store as used by the game server. Both
// *accounts.Store and *accounts.Client satisfy it.
type Accounts interface {
	Authenticate(ctx context.Context, identity, secret string) (accounts.Profile, error)
	IncrementField(ctx context.Context, identity string, field accounts.Field, delta, guardMinimum int) (int, error)
	SetField(ctx context.Context, identity string, field accounts.Field, value int) error
}

// Economy is the write-behind worker for profile changes. Jobs run one at a
// time in submission order, so a guarded debit always sees earlier credits.
type Economy struct {
	accounts Accounts
	jobs     chan func(ctx context.Context)
	timeout  time.Duration
}

func NewEconomy(store Accounts, queueSize int, timeout time.Duration) *Economy {
	return &Economy{
		accounts: store,
		jobs:     make(chan func(ctx context.Context), queueSize),
		timeout:  timeout,
	}
}

// Run processes jobs until ctx is done, then drains what is already queued.
func (e *Economy) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.drain()
			return nil
		case job := <-e.jobs:
			e.run(context.Background(), job)
		}
	}
}

func (e *Economy) drain() {
	for {
		select {
		case job := <-e.jobs:
			e.run(context.Background(), job)
		default:
			return
		}
	}
}

func (e *Economy) run(parent context.Context, job func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(parent, e.timeout)
	defer cancel()
	job(ctx)
}

func (e *Economy) enqueue(job func(ctx context.Context)) bool {
	select {
	case e.jobs <- job:
		return true
	default:
		return false
	}
}

// Credit queues an unguarded increment. Failures are logged; in-memory state
// is never rolled back.
func (e *Economy) Credit(identity string, field accounts.Field, delta int) {
	ok := e.enqueue(func(ctx context.Context) {
		if _, err := e.accounts.IncrementField(ctx, identity, field, delta, 0); err != nil {
			log.Printf("[economy] credit %s %+d for %q failed: %v", field, delta, identity, err)
		}
	})
	if !ok {
		log.Printf("[economy] queue full, dropped credit %s %+d for %q", field, delta, identity)
	}
}

// Set queues an overwrite of a field.
func (e *Economy) Set(identity string, field accounts.Field, value int) {
	ok := e.enqueue(func(ctx context.Context) {
		if err := e.accounts.SetField(ctx, identity, field, value); err != nil {
			log.Printf("[economy] set %s=%d for %q failed: %v", field, value, identity, err)
		}
	})
	if !ok {
		log.Printf("[economy] queue full, dropped set %s=%d for %q", field, value, identity)
	}
}

// Upgrade queues the persisted half of an upgrade: a guarded currency debit
// followed by the level increment, refunding the debit if the increment
// fails. done is called on the worker goroutine. It returns false when the
// queue is full and done will not be called.
func (e *Economy) Upgrade(ticket UpgradeTicket, done func(ok bool, reason string)) bool {
	return e.enqueue(func(ctx context.Context) {
		err := e.purchase(ctx, ticket)
		switch {
		case err == nil:
			done(true, "")
		case errors.Is(err, accounts.ErrInsufficientFunds):
			done(false, "insufficient funds")
		default:
			log.Printf("[economy] upgrade %s for %q failed: %v", ticket.Kind, ticket.Username, err)
			done(false, "store unavailable")
		}
	})
}

func (e *Economy) purchase(ctx context.Context, ticket UpgradeTicket) error {
	if _, err := e.accounts.IncrementField(ctx, ticket.Username, accounts.FieldCurrency, -ticket.Cost, ticket.Cost); err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if _, err := e.accounts.IncrementField(ctx, ticket.Username, upgradeField(ticket.Kind), 1, 0); err != nil {
		if _, refundErr := e.accounts.IncrementField(ctx, ticket.Username, accounts.FieldCurrency, ticket.Cost, 0); refundErr != nil {
			log.Printf("[economy] refund of %d for %q failed: %v", ticket.Cost, ticket.Username, refundErr)
		}
		return fmt.Errorf("level: %w", err)
	}
	return nil
}
