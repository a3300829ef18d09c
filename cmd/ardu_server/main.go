package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ardu.app/feed/config"
	"ardu.app/feed/database"
	"ardu.app/feed/handlers"
	"ardu.app/feed/log"
	"ardu.app/feed/routes"
	"ardu.app/feed/services"
)

func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	if cfg.Server.DatabaseURL == "" {
		log.Warn.Println("DATABASE_URL not set, using in-memory store")
		return database.NewMemoryStore(), nil
	}
	db, err := database.ConnectDB(cfg.Server.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return database.NewPostgresStore(db), nil
}

func main() {
	if err := run(config.Load()); err != nil {
		log.Error.Printf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Server.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("DB setup failed: %w", err)
	}
	defer store.Close()

	if err := handlers.BootstrapAdmin(ctx, store, cfg.Server.AdminEmail, cfg.Server.AdminPassword); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	notifier := services.NewNotifier(ctx, cfg.Firebase.CredentialsPath)
	router := routes.NewRouter(store, notifier, cfg.Server.JWTSecret, cfg.Server.TokenTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info.Printf("ARDU server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
