// Package config loads application configuration for the souschef
// binary from .env and the process environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds everything the binary needs. The three API keys are
// required by the assistant; the vision account/namespace pair is
// optional and defaults inside the vision client.
type Config struct {
	ChatKey   string `env:"COHERE_API_KEY"`
	VisionKey string `env:"CLARIFAI_PAT"`
	RecipeKey string `env:"SPOONACULAR_API_KEY"`

	VisionUserID string `env:"CLARIFAI_USER_ID"`
	VisionAppID  string `env:"CLARIFAI_APP_ID"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"normal"`
	LogFile  string `env:"LOG_FILE" envDefault:".souschef/souschef.log"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
