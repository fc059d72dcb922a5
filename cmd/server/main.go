package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rowboat1/epistemic-networks/internal/config"
	"github.com/rowboat1/epistemic-networks/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config %s not found, using built-in defaults", cfgPath)
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Failed to apply environment overrides: %v", err)
	}

	srv, err := server.NewServerFromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}
	r := srv.SetupRouter()

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
