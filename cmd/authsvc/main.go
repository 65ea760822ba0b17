package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/stevensoneremeh/eriggalive-auth/internal/app"
	"github.com/stevensoneremeh/eriggalive-auth/internal/config"
)

func main() {
	// .env is optional; deployment sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
