package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Int("port", 8081, "Public HTTP port (login, registration, profile reads)")
	internalAddr := flag.String("internal", "127.0.0.1:8082", "Private listen address for game servers (all routes)")
	token := flag.String("service-token", os.Getenv("ACCOUNTS_SERVICE_TOKEN"), "Shared secret required by increment and set")
	appName := flag.String("data", "tank_arena_accounts", "gdata app name for profile storage (empty = memory only)")
	flag.Parse()

	var backend accounts.Backend
	if *appName != "" {
		b, err := accounts.OpenGData(*appName)
		if err != nil {
			log.Fatalf("[accounts] fatal: %v", err)
		}
		backend = b
	}
	store := accounts.NewStore(backend)
	if *token == "" {
		log.Printf("[accounts] no service token set; mutations rely on %s staying private", *internalAddr)
	}

	servers := []*http.Server{
		{
			Addr:              fmt.Sprintf(":%d", *port),
			Handler:           accounts.NewPublicRouter(store),
			ReadHeaderTimeout: 5 * time.Second,
		},
		{
			Addr:              *internalAddr,
			Handler:           accounts.NewRouter(store, *token),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			log.Printf("[accounts] listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("[accounts] fatal: %v", err)
	}
	log.Println("[accounts] stopped")
}
