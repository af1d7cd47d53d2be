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
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/tank-arena/accounts"
	"github.com/automoto/tank-arena/config"
	"github.com/automoto/tank-arena/server/core"
	"github.com/automoto/tank-arena/server/gateway"
	"github.com/automoto/tank-arena/shared/leveldata"
	"github.com/automoto/tank-arena/shared/protocol"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Uint("port", 7373, "Native (necs) websocket port")
	httpAddr := flag.String("http", ":8080", "JSON gateway listen address")
	configPath := flag.String("config", "", "YAML tuning file (empty = built-in defaults)")
	mapFile := flag.String("map", "", "TMX arena layout (overrides arena.mapFile)")
	accountsURL := flag.String("accounts", "", "Private account service base URL, e.g. http://127.0.0.1:8082 (empty = embedded store)")
	accountsToken := flag.String("accounts-token", os.Getenv("ACCOUNTS_SERVICE_TOKEN"), "Service token for the account service")
	dataName := flag.String("data", "tank_arena_accounts", "gdata app name for the embedded store (empty = memory only)")
	tickRate := flag.Int("tickrate", 0, "Simulation ticks per second (0 = config value)")
	name := flag.String("name", "Tank Arena", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		settings, err = config.LoadFile(*configPath, settings)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *tickRate > 0 {
		settings.Arena.TickRate = *tickRate
	}
	if *mapFile != "" {
		settings.Arena.MapFile = *mapFile
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	store, accountRoutes, err := openAccounts(*accountsURL, *accountsToken, *dataName, settings.Economy.RequestTimeout)
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}

	opts := []core.WorldOption{core.WithSyncer(core.NewSyncer())}
	if settings.Arena.MapFile != "" {
		dir, file := filepath.Split(settings.Arena.MapFile)
		if dir == "" {
			dir = "."
		}
		layout, err := leveldata.LoadArena(os.DirFS(dir), file)
		if err != nil {
			log.Fatalf("Failed to load arena map: %v", err)
		}
		opts = append(opts, core.WithLayout(layout))
	}

	economy := core.NewEconomy(store, settings.Economy.QueueSize, settings.Economy.RequestTimeout)
	opts = append(opts, core.WithEconomy(economy))

	world := core.NewWorld(settings, opts...)
	loop := core.NewGameLoop(world, economy, *name)
	intake := core.NewIntake(loop, store, settings.Economy.RequestTimeout, *version)
	native := core.NewServer(loop, intake, settings.Net.OutboxSize)

	gw := gateway.New(intake, settings.Net.OutboxSize, func() gateway.Status {
		return gateway.Status{
			Name:      *name,
			Players:   loop.PlayerCount(),
			ArenaSize: settings.Arena.Size,
			TickRate:  settings.Arena.TickRate,
		}
	})

	root := mux.NewRouter()
	if accountRoutes != nil {
		root.PathPrefix("/accounts/").Handler(http.StripPrefix("/accounts", accountRoutes))
	}
	root.PathPrefix("/").Handler(gw.Routes())

	httpSrv := &http.Server{
		Addr:              *httpAddr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return economy.Run(ctx)
	})

	g.Go(func() error {
		go loop.Run()
		<-ctx.Done()
		loop.Stop()
		return nil
	})

	g.Go(func() error {
		log.Printf("Starting JSON gateway on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	// The necs transport has no shutdown hook, so it is left running until
	// the process exits.
	nativeErr := make(chan error, 1)
	go func() {
		log.Printf("Starting native server %q on port %d (tick rate: %d/s, version: %s)",
			*name, *port, settings.Arena.TickRate, *version)
		nativeErr <- native.Start(*port)
	}()
	g.Go(func() error {
		select {
		case err := <-nativeErr:
			return fmt.Errorf("native transport: %w", err)
		case <-ctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// openAccounts returns the profile store the game uses. With a base URL it
// talks to a remote account service; otherwise it embeds a store and also
// returns its public routes (login, registration, profile reads) so clients
// can register against this process. Profile mutations stay in-process.
func openAccounts(baseURL, token, dataName string, timeout time.Duration) (core.Accounts, http.Handler, error) {
	if baseURL != "" {
		log.Printf("Using account service at %s", baseURL)
		client := accounts.NewClient(baseURL, timeout)
		client.SetServiceToken(token)
		return client, nil, nil
	}

	var backend accounts.Backend
	if dataName != "" {
		b, err := accounts.OpenGData(dataName)
		if err != nil {
			return nil, nil, err
		}
		backend = b
	}
	store := accounts.NewStore(backend)
	return store, accounts.NewPublicRouter(store), nil
}
