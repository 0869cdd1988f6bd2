package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	config "github.com/madisonpark/carzo-sub002/configs"
	"github.com/madisonpark/carzo-sub002/pkg/services"
	"github.com/madisonpark/carzo-sub002/pkg/storage"
)

func main() {
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()
	if cfg.FeedURL == "" {
		log.Fatal("FEED_URL is required")
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	writer, err := storage.NewPostgresWriter(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer writer.Close()

	feed := services.NewFeedService(cfg.FeedURL, cfg.InventoryHTTPTimeout, writer)

	runSync := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := feed.Sync(ctx); err != nil {
			log.Printf("ERROR [feedsync] sync failed: %v", err)
		}
	}

	runSync()
	if *once {
		return
	}

	log.Printf("[feedsync] scheduling sync every %s", cfg.FeedSyncInterval)
	ticker := time.NewTicker(cfg.FeedSyncInterval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runSync()
		case sig := <-stop:
			log.Printf("[feedsync] received %s, shutting down", sig)
			return
		}
	}
}
