package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/tank-arena/accounts"
)

func TestEmbeddedAccountRoutesAreReadOnly(t *testing.T) {
	store, routes, err := openAccounts("", "", "", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := store.(*accounts.Store).Register(ctx, "quinn", "pw"); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/accounts/", http.StripPrefix("/accounts", routes))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/accounts/profiles/quinn/set", "application/json",
		strings.NewReader(`{"field":"currency","value":999999}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("anonymous set succeeded")
	}

	p, err := store.Authenticate(ctx, "quinn", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if p.Currency != 0 {
		t.Errorf("currency = %d, want 0", p.Currency)
	}
}
