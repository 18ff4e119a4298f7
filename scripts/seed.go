//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bengeek06/pm-users-api/internal/auth"
	"github.com/bengeek06/pm-users-api/internal/database"
	"github.com/bengeek06/pm-users-api/internal/users"
	"github.com/bengeek06/pm-users-api/pkg/config"
	"github.com/bengeek06/pm-users-api/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	store := users.NewStore(db)
	firstname := "Admin"
	verified := true
	user, err := store.Create(context.Background(), users.Input{
		Email:          &email,
		HashedPassword: hash,
		Firstname:      &firstname,
		IsVerified:     &verified,
	})
	if err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("Seeded admin user %s (id %s)\n", user.Email, user.ID)
}
