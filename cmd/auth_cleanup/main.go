package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"authservice/internal/database"
	"authservice/internal/repository"
)

// Deletes refresh-token rows past their expiry. Run from cron; there is
// no HTTP surface for revocation.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	deleted, err := repository.NewRefreshTokenRepository(db).DeleteExpired(context.Background())
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: refresh_tokens=%d", deleted)
}
