package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testToken = "s3cret"

func newTestService(t *testing.T) (*Store, *Client) {
	t.Helper()
	store := newTestStore(nil)
	srv := httptest.NewServer(NewRouter(store, testToken))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 2*time.Second)
	c.SetServiceToken(testToken)
	return store, c
}

func TestClientAuthRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, c := newTestService(t)

	p, err := c.Register(ctx, "frank", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := c.Register(ctx, "frank", "pw"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate err = %v, want ErrConflict", err)
	}

	got, err := c.Authenticate(ctx, "frank", "pw")
	if err != nil || got.ID != p.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := c.Authenticate(ctx, "frank", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("bad login err = %v, want ErrNotFound", err)
	}
}

func TestClientProfileOperations(t *testing.T) {
	ctx := context.Background()
	store, c := newTestService(t)
	if _, err := store.Register(ctx, "gina", "pw"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Profile(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing profile err = %v, want ErrNotFound", err)
	}

	v, err := c.IncrementField(ctx, "gina", FieldCurrency, 120, 0)
	if err != nil || v != 120 {
		t.Fatalf("IncrementField = %d, %v", v, err)
	}
	if _, err := c.IncrementField(ctx, "gina", FieldCurrency, -200, 200); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("guarded err = %v, want ErrInsufficientFunds", err)
	}
	if _, err := c.IncrementField(ctx, "gina", Field("bogus"), 1, 0); !errors.Is(err, ErrInvalidField) {
		t.Errorf("bogus field err = %v, want ErrInvalidField", err)
	}

	if err := c.SetField(ctx, "gina", FieldSpeedLevel, 3); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	p, err := c.Profile(ctx, "gina")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Currency != 120 || p.SpeedLevel != 3 {
		t.Errorf("profile = %+v", p)
	}
}

func TestMutationsRequireServiceToken(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(nil)
	if _, err := store.Register(ctx, "hank", "pw"); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewRouter(store, testToken))
	t.Cleanup(srv.Close)

	anon := NewClient(srv.URL, 2*time.Second)
	if err := anon.SetField(ctx, "hank", FieldCurrency, 999999); !errors.Is(err, ErrForbidden) {
		t.Errorf("SetField without token err = %v, want ErrForbidden", err)
	}
	if _, err := anon.IncrementField(ctx, "hank", FieldScore, 50, 0); !errors.Is(err, ErrForbidden) {
		t.Errorf("IncrementField without token err = %v, want ErrForbidden", err)
	}

	p, _ := store.Profile(ctx, "hank")
	if p.Currency != 0 || p.Score != 0 {
		t.Errorf("profile modified without token: %+v", p)
	}
}

func TestPublicRouterHasNoMutations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(nil)
	if _, err := store.Register(ctx, "ivy", "pw"); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/accounts/", http.StripPrefix("/accounts", NewPublicRouter(store)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	for _, path := range []string{"/accounts/profiles/ivy/set", "/accounts/profiles/ivy/increment"} {
		resp, err := http.Post(srv.URL+path, "application/json",
			strings.NewReader(`{"field":"currency","value":999999,"delta":999999}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			t.Errorf("POST %s succeeded on the public router", path)
		}
	}

	p, _ := store.Profile(ctx, "ivy")
	if p.Currency != 0 {
		t.Errorf("currency = %d, want 0", p.Currency)
	}

	// login and profile reads stay available
	c := NewClient(srv.URL+"/accounts", 2*time.Second)
	if _, err := c.Authenticate(ctx, "ivy", "pw"); err != nil {
		t.Errorf("Authenticate: %v", err)
	}
	if _, err := c.Profile(ctx, "ivy"); err != nil {
		t.Errorf("Profile: %v", err)
	}
}
