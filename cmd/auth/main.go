package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/aussiebroadwan/guildhall/internal/auth/app"
	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience; real deployments set the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
