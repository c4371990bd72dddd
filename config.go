package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the local cart store service.
type Config struct {
	Port   string
	DBPath string
	Env    string
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional source for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:   getEnv("PORT", "8087"),
		DBPath: getEnv("CART_DB_PATH", "data/cart.db"),
		Env:    getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
