package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ardu.app/feed/config"
	"ardu.app/feed/database"
	"ardu.app/feed/handlers"
	"ardu.app/feed/log"
)

func openPostgres(url string) (database.Store, error) {
	db, err := database.ConnectDB(url)
	if err != nil {
		return nil, err
	}
	return database.NewPostgresStore(db), nil
}

func main() {
	if err := run(config.Load(), openPostgres); err != nil {
		log.Error.Printf("ArchivePosts: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, open func(string) (database.Store, error)) error {
	store, err := open(cfg.Server.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info.Println("Running archive job")
	if _, err := handlers.ArchiveExpiredPosts(ctx, store, cfg.Archive.After); err != nil {
		return err
	}
	log.Info.Println("Archive job finished")
	return nil
}
