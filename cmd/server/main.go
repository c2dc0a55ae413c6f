package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"servis32/internal/api"
	"servis32/internal/config"
	"servis32/internal/db"
	"servis32/internal/session"
	"servis32/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the environment.
	dbPath := flag.String("db", cfg.DBPath, "path to SQLite database file")
	uploadDir := flag.String("uploads", cfg.UploadDir, "directory for uploaded images")
	addr := flag.String("addr", cfg.Addr(), "listen address")
	flag.Parse()

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := os.MkdirAll(*uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Seed the initial admin account if absent.
	if err := store.SeedAdmin(context.Background(), database); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	sessions := session.New()
	handler := api.LoggingMiddleware(api.NewRouter(database, sessions, *uploadDir))

	fmt.Printf("Server listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
