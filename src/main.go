package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"walletly-server/src/api"
	"walletly-server/src/config"
	"walletly-server/src/db"
	sqldb "walletly-server/src/db/sql"
	"walletly-server/src/scheduler"
	"walletly-server/src/services"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	// Core services
	store := sqldb.NewStore(pool)
	reconciler := services.NewReconciler(store)
	txService := services.NewTransactionService(store, reconciler)
	engine := services.NewScheduledEngine(store, store, reconciler)

	// Router
	router := api.NewRouter(pool, txService, engine, cfg.CORSOrigins, cfg.ReadOnly)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Println("API server running on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.New(engine, cfg.SchedulerHour).Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
